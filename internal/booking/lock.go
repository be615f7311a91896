package booking

import (
	"context"
	"sync"
)

// RoomLocker serializes bookings of the same room.  The lock is taken
// before the availability check and released after the reservation row is
// written, so two overlapping requests cannot both pass the check.
type RoomLocker interface {
	LockRoom(ctx context.Context, roomID string) (unlock func(), err error)
}

// LocalLocker is a RoomLocker for a single process.  Waiting honours ctx.
type LocalLocker struct {
	mu    sync.Mutex
	rooms map[string]chan struct{}
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{rooms: make(map[string]chan struct{})}
}

func (l *LocalLocker) slot(roomID string) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	ch, ok := l.rooms[roomID]
	if !ok {
		ch = make(chan struct{}, 1)
		l.rooms[roomID] = ch
	}
	return ch
}

func (l *LocalLocker) LockRoom(ctx context.Context, roomID string) (func(), error) {
	ch := l.slot(roomID)
	select {
	case ch <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	var once sync.Once
	return func() { once.Do(func() { <-ch }) }, nil
}

// noLock is used when no locker is configured.
type noLock struct{}

func (noLock) LockRoom(context.Context, string) (func(), error) { return func() {}, nil }
