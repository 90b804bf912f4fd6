package game

import (
	"context"

	"github.com/Eyepatch5263/Scribble-server/domain"
)

// RoomRepository is the store of record for Room documents. Save replaces
// the whole document.
type RoomRepository interface {
	FindByName(ctx context.Context, name string) (domain.Room, error)
	FindByMemberConnectionID(ctx context.Context, connID string) (domain.Room, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	Save(ctx context.Context, room domain.Room) error
	Delete(ctx context.Context, name string) error
}

type RandomWordsGenerator interface {
	Generate(count int) []string
}

// Broadcaster addresses single connections and named connection groups.
type Broadcaster interface {
	Subscribe(connID, group string)
	Unsubscribe(connID, group string)
	SendToGroup(group, event string, payload any)
	SendToGroupExcept(group, exceptConnID, event string, payload any)
	SendToConnection(connID, event string, payload any)
}
