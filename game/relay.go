package game

import (
	"bytes"
	"encoding/json"
)

var (
	emptyObject = json.RawMessage(`{}`)
	jsonNull    = json.RawMessage(`null`)
)

// orDefault keeps relayed payloads encodable when a client omits them.
func orDefault(raw json.RawMessage, def json.RawMessage) json.RawMessage {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, jsonNull) {
		return def
	}
	return raw
}

// The relay operations below read no room state, so they skip the room lock.
// Paint, color and stroke also echo to the sender explicitly.

func (s *Service) Paint(connID string, req PaintRequest) {
	payload := PointsPayload{Details: orDefault(req.Details, emptyObject)}
	s.broadcaster.SendToGroup(req.RoomName, EventPoints, payload)
	s.broadcaster.SendToConnection(connID, EventPoints, payload)
}

func (s *Service) ColorChange(connID string, req ColorChangeRequest) {
	color := orDefault(req.Color, jsonNull)
	s.broadcaster.SendToGroup(req.RoomName, EventColorChange, color)
	s.broadcaster.SendToConnection(connID, EventColorChange, color)
}

func (s *Service) StrokeWidth(connID string, req StrokeWidthRequest) {
	stroke := orDefault(req.Stroke, jsonNull)
	s.broadcaster.SendToGroup(req.RoomName, EventStrokeWidth, stroke)
	s.broadcaster.SendToConnection(connID, EventStrokeWidth, stroke)
}

// CleanScreen reaches the sender through the group only.
func (s *Service) CleanScreen(roomName string) {
	s.broadcaster.SendToGroup(roomName, EventCleanScreen, "")
}
