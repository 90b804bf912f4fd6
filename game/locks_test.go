package game

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Eyepatch5263/Scribble-server/domain"
	"github.com/Eyepatch5263/Scribble-server/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRoomLocks_ExcludesSameName(t *testing.T) {
	t.Parallel()
	rl := newRoomLocks()

	var inside int32
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := rl.Lock("r1")
			defer unlock()
			assert.Equal(t, int32(1), atomic.AddInt32(&inside, 1))
			time.Sleep(time.Millisecond)
			atomic.AddInt32(&inside, -1)
		}()
	}
	wg.Wait()

	assert.Equal(t, 0, rl.size())
}

func TestRoomLocks_IndependentNames(t *testing.T) {
	t.Parallel()
	rl := newRoomLocks()

	unlockA := rl.Lock("a")
	done := make(chan struct{})
	go func() {
		unlock := rl.Lock("b")
		unlock()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock on b waited for a")
	}
	unlockA()
	assert.Equal(t, 0, rl.size())
}

func TestJoinRoom_ConcurrentJoinsNeverOverfill(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	gen := &MockRandomWordsGenerator{}
	gen.On("Generate", 1).Return([]string{"apple"})
	repo := storage.NewMemoryRepo()
	svc := NewService(repo, gen, newRecordingBroadcaster(), time.Second)

	_, err := svc.CreateRoom(ctx, "s-host", CreateRoomRequest{Nickname: "host", Name: "r1", Occupancy: 5, MaxRounds: 1})
	require.NoError(t, err)

	var joined, rejected int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := svc.JoinRoom(ctx, fmt.Sprintf("s-%d", i), JoinRoomRequest{Nickname: fmt.Sprintf("p%d", i), Name: "r1"})
			switch {
			case err == nil:
				atomic.AddInt32(&joined, 1)
			case errors.Is(err, domain.ErrRoomNotJoinable):
				atomic.AddInt32(&rejected, 1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(4), joined)
	assert.Equal(t, int32(16), rejected)

	stored, err := repo.FindByName(ctx, "r1")
	require.NoError(t, err)
	assert.Len(t, stored.Players, 5)
	assert.False(t, stored.IsJoin)
}

func TestSubmitGuess_ConcurrentAwardsAreNotLost(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	gen := &MockRandomWordsGenerator{}
	gen.On("Generate", mock.Anything).Return([]string{"apple"})
	repo := storage.NewMemoryRepo()
	svc := NewService(repo, gen, newRecordingBroadcaster(), time.Second)

	_, err := svc.CreateRoom(ctx, "s-host", CreateRoomRequest{Nickname: "host", Name: "r1", Occupancy: 2, MaxRounds: 1})
	require.NoError(t, err)
	_, err = svc.JoinRoom(ctx, "s-guest", JoinRoomRequest{Nickname: "guest", Name: "r1"})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.SubmitGuess(ctx, "s-guest", GuessRequest{Username: "guest", Msg: "apple", RoomName: "r1", TotalTimeTaken: 10})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	stored, err := repo.FindByName(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, 2000, stored.Players[1].Points)
}
