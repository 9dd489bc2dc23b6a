package lock

import (
	"context"
	"errors"
	"sync"
)

// ErrNotAcquired is returned when a room lock could not be taken before the
// context ended or the acquisition budget ran out.
var ErrNotAcquired = errors.New("room lock not acquired")

// RoomLocker serialises work on a single room. Lock blocks until the room is
// free or ctx is done; the returned func releases it and is safe to call once.
type RoomLocker interface {
	Lock(ctx context.Context, roomID int64) (unlock func(), err error)
}

// LocalRoomLocker is an in-process keyed mutex. Entries are reference
// counted so idle rooms do not accumulate.
type LocalRoomLocker struct {
	mu    sync.Mutex
	rooms map[int64]*roomSlot
}

type roomSlot struct {
	sem  chan struct{}
	refs int
}

// NewLocalRoomLocker creates a new LocalRoomLocker.
func NewLocalRoomLocker() *LocalRoomLocker {
	return &LocalRoomLocker{rooms: make(map[int64]*roomSlot)}
}

func (l *LocalRoomLocker) Lock(ctx context.Context, roomID int64) (func(), error) {
	l.mu.Lock()
	slot, ok := l.rooms[roomID]
	if !ok {
		slot = &roomSlot{sem: make(chan struct{}, 1)}
		l.rooms[roomID] = slot
	}
	slot.refs++
	l.mu.Unlock()

	select {
	case slot.sem <- struct{}{}:
	case <-ctx.Done():
		l.release(roomID, slot)
		return nil, errors.Join(ErrNotAcquired, ctx.Err())
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-slot.sem
			l.release(roomID, slot)
		})
	}, nil
}

func (l *LocalRoomLocker) release(roomID int64, slot *roomSlot) {
	l.mu.Lock()
	defer l.mu.Unlock()
	slot.refs--
	if slot.refs == 0 {
		delete(l.rooms, roomID)
	}
}

// size returns the number of rooms currently tracked.
func (l *LocalRoomLocker) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.rooms)
}
