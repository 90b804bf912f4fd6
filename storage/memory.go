package storage

import (
	"context"
	"sync"

	"github.com/Eyepatch5263/Scribble-server/domain"
)

// MemoryRepo keeps rooms in process. It stores and hands out clones so
// callers never alias its state.
type MemoryRepo struct {
	mu    sync.RWMutex
	rooms map[string]domain.Room
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{rooms: make(map[string]domain.Room)}
}

func (m *MemoryRepo) FindByName(ctx context.Context, name string) (domain.Room, error) {
	if err := ctx.Err(); err != nil {
		return domain.Room{}, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	room, ok := m.rooms[name]
	if !ok {
		return domain.Room{}, domain.ErrRoomNotFound
	}
	return room.Clone(), nil
}

func (m *MemoryRepo) FindByMemberConnectionID(ctx context.Context, connID string) (domain.Room, error) {
	if err := ctx.Err(); err != nil {
		return domain.Room{}, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, room := range m.rooms {
		if room.PlayerIndexBySocket(connID) >= 0 {
			return room.Clone(), nil
		}
	}
	return domain.Room{}, domain.ErrRoomNotFound
}

func (m *MemoryRepo) ExistsByName(ctx context.Context, name string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.rooms[name]
	return ok, nil
}

func (m *MemoryRepo) Save(ctx context.Context, room domain.Room) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.rooms[room.Name] = room.Clone()
	return nil
}

func (m *MemoryRepo) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.rooms, name)
	return nil
}

func (m *MemoryRepo) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rooms)
}
