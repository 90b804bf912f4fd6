package game

import (
	"context"
	"errors"
	"time"

	"github.com/Eyepatch5263/Scribble-server/domain"
	"github.com/rs/zerolog/log"
)

// Service owns every room mutation. Each read-modify-write cycle and the
// broadcast of its result happen while holding that room's lock.
type Service struct {
	repo        RoomRepository
	words       RandomWordsGenerator
	broadcaster Broadcaster
	locks       *roomLocks
	repoTimeout time.Duration
}

func NewService(repo RoomRepository, words RandomWordsGenerator, broadcaster Broadcaster, repoTimeout time.Duration) *Service {
	return &Service{
		repo:        repo,
		words:       words,
		broadcaster: broadcaster,
		locks:       newRoomLocks(),
		repoTimeout: repoTimeout,
	}
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.repoTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.repoTimeout)
}

func (s *Service) nextWord() string {
	words := s.words.Generate(1)
	if len(words) == 0 {
		log.Warn().Msg("word supplier returned no words")
		return ""
	}
	return words[0]
}

// ensureNotMember keeps a connection inside at most one room.
func (s *Service) ensureNotMember(ctx context.Context, connID string) error {
	_, err := s.repo.FindByMemberConnectionID(ctx, connID)
	switch {
	case err == nil:
		return domain.ErrAlreadyInRoom
	case errors.Is(err, domain.ErrRoomNotFound):
		return nil
	default:
		return err
	}
}

func (s *Service) CreateRoom(ctx context.Context, connID string, req CreateRoomRequest) (domain.Room, error) {
	if req.Name == "" || req.Occupancy < 1 || req.MaxRounds < 1 {
		return domain.Room{}, domain.ErrInvalidRoomConfig
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	unlock := s.locks.Lock(req.Name)
	defer unlock()

	if err := s.ensureNotMember(ctx, connID); err != nil {
		return domain.Room{}, err
	}

	exists, err := s.repo.ExistsByName(ctx, req.Name)
	if err != nil {
		return domain.Room{}, err
	}
	if exists {
		return domain.Room{}, domain.ErrRoomExists
	}

	leader := domain.Player{SocketID: connID, Nickname: req.Nickname}
	room := domain.NewRoom(req.Name, s.nextWord(), req.Occupancy, req.MaxRounds, leader)

	if err := s.repo.Save(ctx, room); err != nil {
		return domain.Room{}, err
	}

	s.broadcaster.Subscribe(connID, room.Name)
	s.broadcaster.SendToGroup(room.Name, EventUpdateRoom, room)

	log.Info().Str("room", room.Name).Str("conn", connID).
		Int("occupancy", room.Occupancy).Int("maxRounds", room.MaxRounds).
		Msg("room created")
	return room, nil
}

// JoinRoom appends the caller. The joiner that brings the room to its
// occupancy closes it.
func (s *Service) JoinRoom(ctx context.Context, connID string, req JoinRoomRequest) (domain.Room, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	unlock := s.locks.Lock(req.Name)
	defer unlock()

	room, err := s.repo.FindByName(ctx, req.Name)
	if err != nil {
		return domain.Room{}, err
	}
	if !room.IsJoin {
		return domain.Room{}, domain.ErrRoomNotJoinable
	}
	if err := s.ensureNotMember(ctx, connID); err != nil {
		return domain.Room{}, err
	}

	room.Players = append(room.Players, domain.Player{SocketID: connID, Nickname: req.Nickname})
	if len(room.Players) == room.Occupancy {
		room.IsJoin = false
	}
	room.RecomputeTurn()

	if err := s.repo.Save(ctx, room); err != nil {
		return domain.Room{}, err
	}

	s.broadcaster.Subscribe(connID, room.Name)
	s.broadcaster.SendToGroup(room.Name, EventUpdateRoom, room)

	log.Info().Str("room", room.Name).Str("conn", connID).
		Int("players", len(room.Players)).Bool("isJoin", room.IsJoin).
		Msg("player joined")
	return room, nil
}

// AdvanceTurn hands the turn to the next player. The round counter moves
// only when the last player in order finishes a turn; once it passes
// MaxRounds the leaderboard is shown instead and nothing else changes.
func (s *Service) AdvanceTurn(ctx context.Context, name string) (TurnResult, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	unlock := s.locks.Lock(name)
	defer unlock()

	room, err := s.repo.FindByName(ctx, name)
	if err != nil {
		return TurnResult{}, err
	}
	if len(room.Players) == 0 {
		return TurnResult{}, domain.ErrRoomNotFound
	}

	if room.Finished() {
		s.broadcaster.SendToGroup(name, EventShowLeaderboard, room.Players)
		return TurnResult{Room: room, Finished: true}, nil
	}

	idx := room.TurnIndex
	if idx+1 == len(room.Players) {
		room.CurrentRound++
	}

	if room.Finished() {
		if err := s.repo.Save(ctx, room); err != nil {
			return TurnResult{}, err
		}
		s.broadcaster.SendToGroup(name, EventShowLeaderboard, room.Players)
		log.Info().Str("room", name).Int("rounds", room.MaxRounds).Msg("game finished")
		return TurnResult{Room: room, Finished: true}, nil
	}

	room.Word = s.nextWord()
	room.TurnIndex = (idx + 1) % len(room.Players)
	room.RecomputeTurn()

	if err := s.repo.Save(ctx, room); err != nil {
		return TurnResult{}, err
	}
	s.broadcaster.SendToGroup(name, EventChangeTurn, room)

	log.Debug().Str("room", name).Int("round", room.CurrentRound).Int("turnIndex", room.TurnIndex).Msg("turn advanced")
	return TurnResult{Room: room}, nil
}

// SubmitGuess judges a chat line against the room's word. Wrong guesses are
// plain chat.
func (s *Service) SubmitGuess(ctx context.Context, connID string, req GuessRequest) (GuessResult, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	unlock := s.locks.Lock(req.RoomName)
	defer unlock()

	room, err := s.repo.FindByName(ctx, req.RoomName)
	if err != nil {
		return GuessResult{}, err
	}

	if !IsCorrectGuess(req.Msg, room.Word) {
		s.broadcaster.SendToGroup(room.Name, EventMessage, ChatPayload{
			Username:       req.Username,
			Msg:            req.Msg,
			GuessedUserCtr: req.GuessedUserCtr,
		})
		if dist, near := CloseGuessDistance(req.Msg, room.Word); near {
			s.broadcaster.SendToConnection(connID, EventCloseGuess, CloseGuessPayload{Msg: req.Msg, Distance: dist})
		}
		return GuessResult{GuessedCount: req.GuessedUserCtr}, nil
	}

	idx := room.PlayerIndexBySocket(connID)
	if idx < 0 {
		idx = room.PlayerIndexByNickname(req.Username)
	}

	awarded := 0
	if idx >= 0 {
		awarded = GuessPoints(req.TotalTimeTaken)
	} else {
		log.Warn().Str("room", room.Name).Str("conn", connID).Str("username", req.Username).
			Msg("correct guess from a player not in the room")
	}

	if awarded > 0 {
		room.Players[idx].Points = AddPoints(room.Players[idx].Points, awarded)
		room.RecomputeTurn()
		if err := s.repo.Save(ctx, room); err != nil {
			return GuessResult{}, err
		}
	}

	guessed := req.GuessedUserCtr + 1
	s.broadcaster.SendToGroup(room.Name, EventMessage, ChatPayload{
		Username:       req.Username,
		Msg:            GuessedItMessage,
		GuessedUserCtr: guessed,
	})
	s.broadcaster.SendToConnection(connID, EventCloseInput, "")

	log.Debug().Str("room", room.Name).Str("conn", connID).Int("awarded", awarded).Msg("word guessed")
	return GuessResult{Correct: true, Awarded: awarded, GuessedCount: guessed}, nil
}

// UpdateScore pushes the current room to its group.
func (s *Service) UpdateScore(ctx context.Context, name string) (domain.Room, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	unlock := s.locks.Lock(name)
	defer unlock()

	room, err := s.repo.FindByName(ctx, name)
	if err != nil {
		return domain.Room{}, err
	}
	s.broadcaster.SendToGroup(name, EventUpdatedScore, room)
	return room, nil
}
