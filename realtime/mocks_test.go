package realtime

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/stretchr/testify/mock"
)

type MockWebsocketConnection struct {
	mock.Mock
}

func (m *MockWebsocketConnection) Close() {
	m.Called()
}

func (m *MockWebsocketConnection) Write(data []byte) error {
	args := m.Called(data)
	return args.Error(0)
}

func (m *MockWebsocketConnection) Read() ([]byte, error) {
	args := m.Called()
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockWebsocketConnection) Ping() error {
	args := m.Called()
	return args.Error(0)
}

type dispatched struct {
	ConnID string
	Event  string
	Data   string
}

// echoEvents answers every event back to its sender through the hub.
type echoEvents struct {
	hub          *Hub
	mu           sync.Mutex
	received     []dispatched
	disconnected chan string
}

func newEchoEvents(hub *Hub) *echoEvents {
	return &echoEvents{hub: hub, disconnected: make(chan string, 8)}
}

func (e *echoEvents) Dispatch(_ context.Context, connID, event string, data json.RawMessage) {
	e.mu.Lock()
	e.received = append(e.received, dispatched{ConnID: connID, Event: event, Data: string(data)})
	e.mu.Unlock()

	if event == "join" {
		var group string
		json.Unmarshal(data, &group)
		e.hub.Subscribe(connID, group)
		e.hub.SendToGroup(group, "joined", connID)
		return
	}
	e.hub.SendToConnection(connID, event, data)
}

func (e *echoEvents) Disconnect(_ context.Context, connID string) {
	e.disconnected <- connID
}
