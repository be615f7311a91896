package payment

import (
	"context"
	"net/http"
	"sync"
)

// SessionStore holds at most one Session.  Get returns nil, nil when
// nothing is stored.
type SessionStore interface {
	Get(ctx context.Context) (*Session, error)
	Set(ctx context.Context, s Session) error
	Clear(ctx context.Context) error
}

// StoreProvider hands out the SessionStore for one HTTP exchange.  Stores
// backed by a cookie need the request to read it and the response to
// write it.
type StoreProvider interface {
	For(w http.ResponseWriter, r *http.Request) SessionStore
}

// MemoryStore keeps the session in process memory.  Every request shares
// the same record, which suits tests and the CLI.
type MemoryStore struct {
	mu sync.Mutex
	s  *Session
}

func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (m *MemoryStore) Get(context.Context) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.s == nil {
		return nil, nil
	}
	cp := *m.s
	return &cp, nil
}

func (m *MemoryStore) Set(_ context.Context, s Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.s = &s
	return nil
}

func (m *MemoryStore) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.s = nil
	return nil
}

func (m *MemoryStore) For(http.ResponseWriter, *http.Request) SessionStore { return m }
