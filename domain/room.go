package domain

// Player is a member of exactly one Room. SocketID is the id of the
// connection that joined, so it changes across reconnects.
type Player struct {
	SocketID      string `json:"socketID"`
	Nickname      string `json:"nickname"`
	IsPartyLeader bool   `json:"isPartyLeader"`
	Points        int    `json:"points"`
}

// Room is the persisted game document, keyed by Name.
//
// Turn is derived from Players[TurnIndex] and must only be written through
// RecomputeTurn.
type Room struct {
	Name         string   `json:"name"`
	Word         string   `json:"word"`
	Occupancy    int      `json:"occupancy"`
	MaxRounds    int      `json:"maxRounds"`
	CurrentRound int      `json:"currentRound"`
	TurnIndex    int      `json:"turnIndex"`
	Turn         *Player  `json:"turn"`
	IsJoin       bool     `json:"isJoin"`
	Players      []Player `json:"players"`
}

func NewRoom(name, word string, occupancy, maxRounds int, leader Player) Room {
	leader.IsPartyLeader = true
	leader.Points = 0

	room := Room{
		Name:         name,
		Word:         word,
		Occupancy:    occupancy,
		MaxRounds:    maxRounds,
		CurrentRound: 1,
		TurnIndex:    0,
		Players:      []Player{leader},
	}
	room.IsJoin = len(room.Players) != room.Occupancy
	room.RecomputeTurn()
	return room
}

// RecomputeTurn refreshes the denormalized Turn field.
func (r *Room) RecomputeTurn() {
	if len(r.Players) == 0 {
		r.TurnIndex = 0
		r.Turn = nil
		return
	}
	if r.TurnIndex < 0 || r.TurnIndex >= len(r.Players) {
		r.TurnIndex = 0
	}
	turn := r.Players[r.TurnIndex]
	r.Turn = &turn
}

// Finished reports whether every round has been played.
func (r *Room) Finished() bool {
	return r.CurrentRound > r.MaxRounds
}

func (r *Room) PlayerIndexBySocket(socketID string) int {
	for i, p := range r.Players {
		if p.SocketID == socketID {
			return i
		}
	}
	return -1
}

func (r *Room) PlayerIndexByNickname(nickname string) int {
	for i, p := range r.Players {
		if p.Nickname == nickname {
			return i
		}
	}
	return -1
}

// RemovePlayerAt drops the player at i and keeps TurnIndex pointing at the
// same drawer when possible.
func (r *Room) RemovePlayerAt(i int) Player {
	removed := r.Players[i]
	r.Players = append(r.Players[:i:i], r.Players[i+1:]...)

	if i < r.TurnIndex {
		r.TurnIndex--
	}
	if r.TurnIndex >= len(r.Players) {
		r.TurnIndex = 0
	}
	r.RecomputeTurn()
	return removed
}

// Clone returns a deep copy, so callers never share the Players backing array.
func (r Room) Clone() Room {
	c := r
	c.Players = make([]Player, len(r.Players))
	copy(c.Players, r.Players)
	if r.Turn != nil {
		turn := *r.Turn
		c.Turn = &turn
	}
	return c
}
