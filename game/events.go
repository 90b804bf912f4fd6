package game

import (
	"encoding/json"

	"github.com/Eyepatch5263/Scribble-server/domain"
)

// Client to server events.
const (
	EventCreateRoom  = "createRoom"
	EventJoinRoom    = "joinRoom"
	EventPaint       = "paint"
	EventColorChange = "color-change"
	EventStrokeWidth = "stroke-width"
	EventCleanScreen = "clean-screen"
	EventMessage     = "msg"
	EventChangeTurn  = "change-turn"
	EventUpdateScore = "updateScore"
)

// Server to client events.
const (
	EventUpdateRoom       = "updateRoom"
	EventNotCorrectGame   = "notCorrectGame"
	EventError            = "error"
	EventPoints           = "points"
	EventCloseInput       = "closeInput"
	EventCloseGuess       = "closeGuess"
	EventShowLeaderboard  = "show-leaderboard"
	EventUserDisconnected = "user-disconnected"
	EventUpdatedScore     = "updatedScore"
)

const GuessedItMessage = "Guessed it!"

type CreateRoomRequest struct {
	Nickname  string `json:"nickname"`
	Name      string `json:"name"`
	Occupancy int    `json:"occupancy"`
	MaxRounds int    `json:"maxRounds"`
}

type JoinRoomRequest struct {
	Nickname string `json:"nickname"`
	Name     string `json:"name"`
}

type PaintRequest struct {
	Details  json.RawMessage `json:"details"`
	RoomName string          `json:"roomName"`
}

type ColorChangeRequest struct {
	Color    json.RawMessage `json:"color"`
	RoomName string          `json:"roomName"`
}

type StrokeWidthRequest struct {
	Stroke   json.RawMessage `json:"stroke"`
	RoomName string          `json:"roomName"`
}

// GuessRequest is the "msg" payload. Word and TotalTime are sent by clients
// but the stored room word is the one that is judged.
type GuessRequest struct {
	Username       string  `json:"username"`
	Msg            string  `json:"msg"`
	RoomName       string  `json:"roomName"`
	Word           string  `json:"word"`
	GuessedUserCtr int     `json:"guessedUserCtr"`
	TotalTime      float64 `json:"totalTime"`
	TotalTimeTaken float64 `json:"totalTimeTaken"`
}

type PointsPayload struct {
	Details json.RawMessage `json:"details"`
}

type ChatPayload struct {
	Username       string `json:"username"`
	Msg            string `json:"msg"`
	GuessedUserCtr int    `json:"guessedUserCtr"`
}

type CloseGuessPayload struct {
	Msg      string `json:"msg"`
	Distance int    `json:"distance"`
}

// TurnResult is what AdvanceTurn produced: either the next turn's room or a
// finished game whose leaderboard was shown.
type TurnResult struct {
	Room     domain.Room
	Finished bool
}

type GuessResult struct {
	Correct      bool
	Awarded      int
	GuessedCount int
}
