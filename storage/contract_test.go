package storage_test

import (
	"context"
	"testing"

	"github.com/Eyepatch5263/Scribble-server/domain"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type roomRepository interface {
	FindByName(ctx context.Context, name string) (domain.Room, error)
	FindByMemberConnectionID(ctx context.Context, connID string) (domain.Room, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	Save(ctx context.Context, room domain.Room) error
	Delete(ctx context.Context, name string) error
}

// runRepositoryContract checks the behavior every room store must share.
func runRepositoryContract(t *testing.T, repo roomRepository) {
	ctx := context.Background()

	room := domain.NewRoom("r1", "apple", 3, 2, domain.Player{SocketID: "s-alice", Nickname: "alice"})
	room.Players = append(room.Players, domain.Player{SocketID: "s-bob", Nickname: "bob", Points: 20})
	room.TurnIndex = 1
	room.RecomputeTurn()

	t.Run("FindByName_NotFound", func(t *testing.T) {
		_, err := repo.FindByName(ctx, "ghost")
		assert.ErrorIs(t, err, domain.ErrRoomNotFound)
	})

	t.Run("Save_And_FindByName", func(t *testing.T) {
		require.NoError(t, repo.Save(ctx, room))

		got, err := repo.FindByName(ctx, "r1")
		require.NoError(t, err)
		if diff := cmp.Diff(room, got); diff != "" {
			t.Errorf("room mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("ExistsByName", func(t *testing.T) {
		exists, err := repo.ExistsByName(ctx, "r1")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.ExistsByName(ctx, "ghost")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("FindByMemberConnectionID", func(t *testing.T) {
		got, err := repo.FindByMemberConnectionID(ctx, "s-bob")
		require.NoError(t, err)
		assert.Equal(t, "r1", got.Name)

		_, err = repo.FindByMemberConnectionID(ctx, "s-nobody")
		assert.ErrorIs(t, err, domain.ErrRoomNotFound)
	})

	t.Run("Save_Overwrites", func(t *testing.T) {
		updated := room.Clone()
		updated.Players[0].Points = 150
		updated.CurrentRound = 2
		updated.IsJoin = false
		updated.Word = "banana"
		require.NoError(t, repo.Save(ctx, updated))

		got, err := repo.FindByName(ctx, "r1")
		require.NoError(t, err)
		assert.Equal(t, 150, got.Players[0].Points)
		assert.Equal(t, 2, got.CurrentRound)
		assert.False(t, got.IsJoin)
		assert.Equal(t, "banana", got.Word)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, "r1"))

		_, err := repo.FindByName(ctx, "r1")
		assert.ErrorIs(t, err, domain.ErrRoomNotFound)

		_, err = repo.FindByMemberConnectionID(ctx, "s-alice")
		assert.ErrorIs(t, err, domain.ErrRoomNotFound)
	})
}
