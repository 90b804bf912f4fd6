package game

import (
	"context"
	"sync"

	"github.com/Eyepatch5263/Scribble-server/domain"
	"github.com/stretchr/testify/mock"
)

// --- RandomWordsGenerator ---

type MockRandomWordsGenerator struct {
	mock.Mock
}

func (m *MockRandomWordsGenerator) Generate(count int) []string {
	args := m.Called(count)
	return args.Get(0).([]string)
}

// --- RoomRepository ---

type MockRoomRepository struct {
	mock.Mock
}

func (m *MockRoomRepository) FindByName(ctx context.Context, name string) (domain.Room, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(domain.Room), args.Error(1)
}

func (m *MockRoomRepository) FindByMemberConnectionID(ctx context.Context, connID string) (domain.Room, error) {
	args := m.Called(ctx, connID)
	return args.Get(0).(domain.Room), args.Error(1)
}

func (m *MockRoomRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	args := m.Called(ctx, name)
	return args.Bool(0), args.Error(1)
}

func (m *MockRoomRepository) Save(ctx context.Context, room domain.Room) error {
	args := m.Called(ctx, room)
	return args.Error(0)
}

func (m *MockRoomRepository) Delete(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

// --- Broadcaster ---

type sentEvent struct {
	To      string
	Except  string
	Event   string
	Payload any
}

func toGroup(group, event string, payload any) sentEvent {
	return sentEvent{To: "group:" + group, Event: event, Payload: payload}
}

func toGroupExcept(group, except, event string, payload any) sentEvent {
	return sentEvent{To: "group:" + group, Except: except, Event: event, Payload: payload}
}

func toConn(connID, event string, payload any) sentEvent {
	return sentEvent{To: "conn:" + connID, Event: event, Payload: payload}
}

// recordingBroadcaster keeps group membership and every send, in order.
type recordingBroadcaster struct {
	mu     sync.Mutex
	groups map[string]map[string]bool
	sent   []sentEvent
}

func newRecordingBroadcaster() *recordingBroadcaster {
	return &recordingBroadcaster{groups: make(map[string]map[string]bool)}
}

func (b *recordingBroadcaster) Subscribe(connID, group string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.groups[group] == nil {
		b.groups[group] = make(map[string]bool)
	}
	b.groups[group][connID] = true
}

func (b *recordingBroadcaster) Unsubscribe(connID, group string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.groups[group], connID)
	if len(b.groups[group]) == 0 {
		delete(b.groups, group)
	}
}

func (b *recordingBroadcaster) SendToGroup(group, event string, payload any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sent = append(b.sent, toGroup(group, event, payload))
}

func (b *recordingBroadcaster) SendToGroupExcept(group, exceptConnID, event string, payload any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sent = append(b.sent, toGroupExcept(group, exceptConnID, event, payload))
}

func (b *recordingBroadcaster) SendToConnection(connID, event string, payload any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sent = append(b.sent, toConn(connID, event, payload))
}

// drain returns everything sent since the previous call.
func (b *recordingBroadcaster) drain() []sentEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	sent := b.sent
	b.sent = nil
	return sent
}

func (b *recordingBroadcaster) members(group string) []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	var ids []string
	for id := range b.groups[group] {
		ids = append(ids, id)
	}
	return ids
}
