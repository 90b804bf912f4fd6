package game

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/Eyepatch5263/Scribble-server/domain"
	"github.com/rs/zerolog/log"
)

const (
	invalidPayloadMessage = "invalid-payload"
	unexpectedMessage     = "unexpected-error"
)

// notCorrectGameMessages are the user facing texts for rejections a player
// can fix by entering a different room.
var notCorrectGameMessages = map[error]string{
	domain.ErrRoomExists:        "Room with that game already exists!",
	domain.ErrRoomNotFound:      "Please enter a valid room name",
	domain.ErrRoomNotJoinable:   "The game is in progress, please try again.",
	domain.ErrAlreadyInRoom:     "You are already in a game",
	domain.ErrInvalidRoomConfig: "Please enter a valid room name, occupancy and rounds",
}

type handlerFunc func(ctx context.Context, connID string, data json.RawMessage) error

// Dispatcher routes inbound client events to the Service and turns
// failures into events for the calling connection.
type Dispatcher struct {
	service     *Service
	broadcaster Broadcaster
	handlers    map[string]handlerFunc
}

func NewDispatcher(service *Service, broadcaster Broadcaster) *Dispatcher {
	d := &Dispatcher{service: service, broadcaster: broadcaster}
	d.handlers = map[string]handlerFunc{
		EventCreateRoom:  d.createRoom,
		EventJoinRoom:    d.joinRoom,
		EventPaint:       d.paint,
		EventColorChange: d.colorChange,
		EventStrokeWidth: d.strokeWidth,
		EventCleanScreen: d.cleanScreen,
		EventMessage:     d.message,
		EventChangeTurn:  d.changeTurn,
		EventUpdateScore: d.updateScore,
	}
	return d
}

func (d *Dispatcher) Dispatch(ctx context.Context, connID, event string, data json.RawMessage) {
	handler, ok := d.handlers[event]
	if !ok {
		log.Debug().Str("conn", connID).Str("event", event).Msg("unknown event ignored")
		return
	}

	if err := handler(ctx, connID, data); err != nil {
		d.reportError(connID, event, err)
	}
}

func (d *Dispatcher) Disconnect(ctx context.Context, connID string) {
	if err := d.service.Disconnect(ctx, connID); err != nil {
		log.Error().Err(err).Str("conn", connID).Msg("failed to process disconnect")
	}
}

var errInvalidPayload = errors.New("invalid-payload")

func (d *Dispatcher) reportError(connID, event string, err error) {
	for target, msg := range notCorrectGameMessages {
		if errors.Is(err, target) {
			log.Debug().Err(err).Str("conn", connID).Str("event", event).Msg("request rejected")
			d.broadcaster.SendToConnection(connID, EventNotCorrectGame, msg)
			return
		}
	}

	if errors.Is(err, errInvalidPayload) {
		log.Warn().Err(err).Str("conn", connID).Str("event", event).Msg("malformed payload")
		d.broadcaster.SendToConnection(connID, EventError, invalidPayloadMessage)
		return
	}

	log.Error().Err(err).Str("conn", connID).Str("event", event).Msg("event handling failed")
	d.broadcaster.SendToConnection(connID, EventError, unexpectedMessage)
}

func decode[T any](data json.RawMessage) (T, error) {
	var v T
	if len(data) == 0 {
		return v, nil
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return v, errors.Join(errInvalidPayload, err)
	}
	return v, nil
}

// decodeRoomName accepts either a bare JSON string or {"roomName": ...}.
func decodeRoomName(data json.RawMessage) (string, error) {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		return name, nil
	}
	req, err := decode[struct {
		RoomName string `json:"roomName"`
	}](data)
	if err != nil {
		return "", err
	}
	return req.RoomName, nil
}

func (d *Dispatcher) createRoom(ctx context.Context, connID string, data json.RawMessage) error {
	req, err := decode[CreateRoomRequest](data)
	if err != nil {
		return err
	}
	_, err = d.service.CreateRoom(ctx, connID, req)
	return err
}

func (d *Dispatcher) joinRoom(ctx context.Context, connID string, data json.RawMessage) error {
	req, err := decode[JoinRoomRequest](data)
	if err != nil {
		return err
	}
	_, err = d.service.JoinRoom(ctx, connID, req)
	return err
}

func (d *Dispatcher) paint(_ context.Context, connID string, data json.RawMessage) error {
	req, err := decode[PaintRequest](data)
	if err != nil {
		return err
	}
	d.service.Paint(connID, req)
	return nil
}

func (d *Dispatcher) colorChange(_ context.Context, connID string, data json.RawMessage) error {
	req, err := decode[ColorChangeRequest](data)
	if err != nil {
		return err
	}
	d.service.ColorChange(connID, req)
	return nil
}

func (d *Dispatcher) strokeWidth(_ context.Context, connID string, data json.RawMessage) error {
	req, err := decode[StrokeWidthRequest](data)
	if err != nil {
		return err
	}
	d.service.StrokeWidth(connID, req)
	return nil
}

func (d *Dispatcher) cleanScreen(_ context.Context, _ string, data json.RawMessage) error {
	name, err := decodeRoomName(data)
	if err != nil {
		return err
	}
	d.service.CleanScreen(name)
	return nil
}

func (d *Dispatcher) message(ctx context.Context, connID string, data json.RawMessage) error {
	req, err := decode[GuessRequest](data)
	if err != nil {
		return err
	}
	_, err = d.service.SubmitGuess(ctx, connID, req)
	return err
}

func (d *Dispatcher) changeTurn(ctx context.Context, _ string, data json.RawMessage) error {
	name, err := decodeRoomName(data)
	if err != nil {
		return err
	}
	_, err = d.service.AdvanceTurn(ctx, name)
	return err
}

func (d *Dispatcher) updateScore(ctx context.Context, _ string, data json.RawMessage) error {
	name, err := decodeRoomName(data)
	if err != nil {
		return err
	}
	_, err = d.service.UpdateScore(ctx, name)
	return err
}
