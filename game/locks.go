package game

import "sync"

// roomLocks serializes read-modify-write cycles per room name. Entries are
// reference counted and dropped once nobody holds or waits on them.
type roomLocks struct {
	locker sync.Mutex
	locks  map[string]*roomLock
}

type roomLock struct {
	sync.Mutex
	refs int
}

func newRoomLocks() *roomLocks {
	return &roomLocks{locks: make(map[string]*roomLock)}
}

// Lock blocks until the caller owns the room and returns the release func.
func (rl *roomLocks) Lock(name string) func() {
	rl.locker.Lock()
	l, ok := rl.locks[name]
	if !ok {
		l = &roomLock{}
		rl.locks[name] = l
	}
	l.refs++
	rl.locker.Unlock()

	l.Lock()

	return func() {
		l.Unlock()

		rl.locker.Lock()
		l.refs--
		if l.refs == 0 {
			delete(rl.locks, name)
		}
		rl.locker.Unlock()
	}
}

func (rl *roomLocks) size() int {
	rl.locker.Lock()
	defer rl.locker.Unlock()
	return len(rl.locks)
}
