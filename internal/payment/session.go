// Package payment gates paid features behind a verified checkout.  A Gate
// records a paid session for a fixed window after the payment gateway
// confirms a checkout, and answers whether the window is still open.
package payment

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
)

// DefaultTTL is how long a paid session stays valid.
const DefaultTTL = 24 * time.Hour

// Session is the stored record of a verified checkout.
type Session struct {
	SessionID string    `json:"sessionId"`
	Timestamp time.Time `json:"timestamp"`
	Paid      bool      `json:"paid"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Gate reads and writes the paid session through an injected store.
type Gate struct {
	store SessionStore
	clock clockwork.Clock
	ttl   time.Duration
}

// NewGate returns a Gate over store.  A nil clock means the real clock and
// a non-positive ttl means DefaultTTL.
func NewGate(store SessionStore, clock clockwork.Clock, ttl time.Duration) *Gate {
	if store == nil {
		panic("payment.NewGate: nil store")
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Gate{store: store, clock: clock, ttl: ttl}
}

// Create records sessionID as paid from now until now+ttl.
func (g *Gate) Create(ctx context.Context, sessionID string) (Session, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return Session{}, fmt.Errorf("payment: empty session id")
	}
	now := g.clock.Now().UTC()
	s := Session{
		SessionID: sessionID,
		Timestamp: now,
		Paid:      true,
		ExpiresAt: now.Add(g.ttl),
	}
	return s, g.store.Set(ctx, s)
}

// Read returns the stored session, or nil when there is none or it has
// expired.  An expired record is cleared.
func (g *Gate) Read(ctx context.Context) (*Session, error) {
	s, err := g.store.Get(ctx)
	if err != nil || s == nil {
		return nil, err
	}
	if g.clock.Now().After(s.ExpiresAt) {
		if err := g.store.Clear(ctx); err != nil {
			log.Printf("payment: clear expired session: %v", err)
		}
		return nil, nil
	}
	return s, nil
}

// IsValid reports whether a paid, unexpired session exists.  Store errors
// count as no session.
func (g *Gate) IsValid(ctx context.Context) bool {
	s, err := g.Read(ctx)
	if err != nil {
		log.Printf("payment: read session: %v", err)
		return false
	}
	return s != nil && s.Paid
}

func (g *Gate) Clear(ctx context.Context) error { return g.store.Clear(ctx) }

// Remaining is the time left on the session, or 0 when there is none.
func (g *Gate) Remaining(ctx context.Context) time.Duration {
	s, err := g.Read(ctx)
	if err != nil || s == nil {
		return 0
	}
	d := s.ExpiresAt.Sub(g.clock.Now())
	if d < 0 {
		return 0
	}
	return d
}

func (g *Gate) FormatRemaining(ctx context.Context) string {
	return FormatDuration(g.Remaining(ctx))
}

// FormatDuration renders a remaining time as "Xh Ym", "Ym" or "Expired".
func FormatDuration(d time.Duration) string {
	if d <= 0 {
		return "Expired"
	}
	h := int(d / time.Hour)
	m := int((d % time.Hour) / time.Minute)
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}
