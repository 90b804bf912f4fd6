package realtime

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog/log"
)

// Hub tracks live connections and the named groups they belong to.
type Hub struct {
	mu     sync.RWMutex
	conns  map[string]*Connection
	groups map[string]map[string]struct{}
}

func NewHub() *Hub {
	return &Hub{
		conns:  make(map[string]*Connection),
		groups: make(map[string]map[string]struct{}),
	}
}

func (h *Hub) Register(c *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[c.id] = c
}

// Unregister drops the connection from every group and closes its send
// channel, which ends its WritePump.
func (h *Hub) Unregister(connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	c, ok := h.conns[connID]
	if !ok {
		return
	}
	delete(h.conns, connID)
	for name, members := range h.groups {
		delete(members, connID)
		if len(members) == 0 {
			delete(h.groups, name)
		}
	}
	close(c.send)
}

func (h *Hub) Subscribe(connID, group string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.conns[connID]; !ok {
		return
	}
	members, ok := h.groups[group]
	if !ok {
		members = make(map[string]struct{})
		h.groups[group] = members
	}
	members[connID] = struct{}{}
}

func (h *Hub) Unsubscribe(connID, group string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	members, ok := h.groups[group]
	if !ok {
		return
	}
	delete(members, connID)
	if len(members) == 0 {
		delete(h.groups, group)
	}
}

func (h *Hub) SendToGroup(group, event string, payload any) {
	h.SendToGroupExcept(group, "", event, payload)
}

func (h *Hub) SendToGroupExcept(group, exceptConnID, event string, payload any) {
	frame, ok := encode(event, payload)
	if !ok {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for id := range h.groups[group] {
		if id == exceptConnID {
			continue
		}
		if c, ok := h.conns[id]; ok {
			enqueue(c, frame, event)
		}
	}
}

func (h *Hub) SendToConnection(connID, event string, payload any) {
	frame, ok := encode(event, payload)
	if !ok {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	if c, ok := h.conns[connID]; ok {
		enqueue(c, frame, event)
	}
}

// Shutdown closes every socket so the read pumps unwind.
func (h *Hub) Shutdown() {
	h.mu.RLock()
	conns := make([]*Connection, 0, len(h.conns))
	for _, c := range h.conns {
		conns = append(conns, c)
	}
	h.mu.RUnlock()

	for _, c := range conns {
		c.Close()
	}
}

func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

func (h *Hub) GroupSize(group string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.groups[group])
}

func encode(event string, payload any) ([]byte, bool) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Str("event", event).Msg("failed to encode payload")
		return nil, false
	}
	frame, err := json.Marshal(Envelope{Event: event, Data: data})
	if err != nil {
		log.Error().Err(err).Str("event", event).Msg("failed to encode frame")
		return nil, false
	}
	return frame, true
}

// enqueue never blocks; a client that cannot keep up loses frames.
func enqueue(c *Connection, frame []byte, event string) {
	select {
	case c.send <- frame:
	default:
		log.Warn().Str("conn", c.id).Str("event", event).Msg("send buffer full, frame dropped")
	}
}
