package payment

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisStore keeps the session record in Redis.  The client only holds a
// signed random handle, so the paid flag cannot be forged by editing the
// cookie.
type RedisStore struct {
	rdb    *redis.Client
	codec  *CookieCodec
	prefix string
}

func NewRedisStore(rdb *redis.Client, codec *CookieCodec, prefix string) *RedisStore {
	if rdb == nil {
		panic("payment.NewRedisStore: nil redis client")
	}
	if prefix == "" {
		prefix = "hotelhub:paysession"
	}
	return &RedisStore{rdb: rdb, codec: codec, prefix: prefix}
}

func (s *RedisStore) For(w http.ResponseWriter, r *http.Request) SessionStore {
	return &redisSession{store: s, w: w, r: r}
}

func (s *RedisStore) key(handle string) string { return s.prefix + ":" + handle }

type redisSession struct {
	store  *RedisStore
	w      http.ResponseWriter
	r      *http.Request
	handle string
	loaded bool
}

func (s *redisSession) currentHandle() string {
	if s.loaded {
		return s.handle
	}
	s.loaded = true
	var h string
	if s.store.codec.read(s.r, &h) {
		s.handle = h
	}
	return s.handle
}

func (s *redisSession) Get(ctx context.Context) (*Session, error) {
	h := s.currentHandle()
	if h == "" {
		return nil, nil
	}
	raw, err := s.store.rdb.Get(ctx, s.store.key(h)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var sess Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

func (s *redisSession) Set(ctx context.Context, sess Session) error {
	b, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		ttl = time.Second
	}
	h := uuid.NewString()
	if err := s.store.rdb.Set(ctx, s.store.key(h), b, ttl).Err(); err != nil {
		return err
	}
	if old := s.currentHandle(); old != "" {
		s.store.rdb.Del(ctx, s.store.key(old))
	}
	s.handle, s.loaded = h, true
	return s.store.codec.write(s.w, h, sess.ExpiresAt)
}

func (s *redisSession) Clear(ctx context.Context) error {
	h := s.currentHandle()
	s.store.codec.clear(s.w)
	s.handle, s.loaded = "", true
	if h == "" {
		return nil
	}
	return s.store.rdb.Del(ctx, s.store.key(h)).Err()
}
