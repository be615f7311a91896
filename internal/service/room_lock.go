package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrRoomLocked is returned when the lock could not be taken in time.
var ErrRoomLocked = errors.New("room lock held by another booking")

var releaseScript = redis.NewScript(`
	if redis.call('GET', KEYS[1]) == ARGV[1] then
		return redis.call('DEL', KEYS[1])
	end
	return 0
`)

// RedisRoomLocker implements booking.RoomLocker across server instances.
// The key holds a random token so only the owner can release it, and a TTL
// so a crashed owner cannot hold the room forever.
type RedisRoomLocker struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
	wait   time.Duration
	retry  time.Duration
}

// NewRedisRoomLocker returns a locker that waits up to wait for a busy
// room.
func NewRedisRoomLocker(rdb *redis.Client, prefix string, wait time.Duration) *RedisRoomLocker {
	if prefix == "" {
		prefix = "hotelhub:lock:room"
	}
	if wait <= 0 {
		wait = 5 * time.Second
	}
	return &RedisRoomLocker{rdb: rdb, prefix: prefix, ttl: 30 * time.Second, wait: wait, retry: 50 * time.Millisecond}
}

func (l *RedisRoomLocker) LockRoom(ctx context.Context, roomID string) (func(), error) {
	key := l.prefix + ":" + roomID
	token := uuid.NewString()
	deadline := time.Now().Add(l.wait)
	for {
		ok, err := l.rdb.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("lock room %s: %w", roomID, err)
		}
		if ok {
			break
		}
		if time.Now().After(deadline) {
			return nil, ErrRoomLocked
		}
		t := time.NewTimer(l.retry)
		select {
		case <-ctx.Done():
			t.Stop()
			return nil, ctx.Err()
		case <-t.C:
		}
	}
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := releaseScript.Run(ctx, l.rdb, []string{key}, token).Err(); err != nil {
			log.Printf("room-lock: release %s: %v", key, err)
		}
	}, nil
}
