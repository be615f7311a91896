package booking

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/hotelhub-pms/internal/model"
	"github.com/iliyamo/hotelhub-pms/internal/repository"
)

type memRooms struct {
	rooms map[string]model.Room
	calls int
}

func (m *memRooms) GetByID(_ context.Context, id string) (model.Room, error) {
	m.calls++
	r, ok := m.rooms[id]
	if !ok {
		return model.Room{}, repository.ErrNotFound
	}
	return r, nil
}

type memGuests struct {
	mu     sync.Mutex
	guests []model.Guest
	calls  int
	err    error
}

func (m *memGuests) FindByEmail(_ context.Context, email string) (*model.Guest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.guests {
		if g := m.guests[i]; g.Email != nil && *g.Email == email {
			return &g, nil
		}
	}
	return nil, nil
}

func (m *memGuests) Create(_ context.Context, g *model.Guest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return m.err
	}
	g.ID = uuid.NewString()
	m.guests = append(m.guests, *g)
	return nil
}

type memReservations struct {
	mu      sync.Mutex
	rows    []model.Reservation
	calls   int
	listErr error
	// pause is slept between list and return to widen race windows.
	pause time.Duration
}

func (m *memReservations) ListActiveByRoom(_ context.Context, roomID string) ([]model.Reservation, error) {
	m.mu.Lock()
	m.calls++
	if m.listErr != nil {
		m.mu.Unlock()
		return nil, m.listErr
	}
	var out []model.Reservation
	for _, r := range m.rows {
		if r.RoomID == roomID && r.Status.Active() {
			out = append(out, r)
		}
	}
	pause := m.pause
	m.mu.Unlock()
	time.Sleep(pause)
	return out, nil
}

func (m *memReservations) Create(_ context.Context, r *model.Reservation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.rows = append(m.rows, *r)
	return nil
}

type statusSink struct {
	mu       sync.Mutex
	requests []model.RoomStatus
}

func (s *statusSink) RequestStatus(_ string, st model.RoomStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, st)
}

type confirmSink struct{ got []Confirmation }

func (s *confirmSink) Confirmed(c Confirmation) { s.got = append(s.got, c) }

var errStore = errors.New("store down")

func date(s string) time.Time {
	t, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return t
}
