package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"gopkg.in/gomail.v2"

	"github.com/iliyamo/hotelhub-pms/internal/booking"
	"github.com/iliyamo/hotelhub-pms/internal/model"
	"github.com/iliyamo/hotelhub-pms/internal/queue"
	"github.com/iliyamo/hotelhub-pms/internal/repository"
)

type fakeRooms struct {
	mu      sync.Mutex
	rooms   []model.Room
	failFor map[string]bool
	updates map[string]model.RoomStatus
}

func (f *fakeRooms) List(_ context.Context, flt repository.RoomFilter) ([]model.Room, error) {
	var out []model.Room
	for _, r := range f.rooms {
		if flt.Status == "" || r.Status == flt.Status {
			out = append(out, r)
		}
	}
	return out, nil
}

// UpdateStatusFrom applies the change when the room is listed with status
// from.  Ids not listed are treated as available.
func (f *fakeRooms) UpdateStatusFrom(_ context.Context, id string, from, to model.RoomStatus) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failFor[id] {
		return false, errors.New("db timeout")
	}
	cur := model.RoomAvailable
	for i := range f.rooms {
		if f.rooms[i].ID == id {
			cur = f.rooms[i].Status
			if cur == from {
				f.rooms[i].Status = to
			}
		}
	}
	if cur != from {
		return false, nil
	}
	if f.updates == nil {
		f.updates = map[string]model.RoomStatus{}
	}
	f.updates[id] = to
	return true, nil
}

type fakeRetry struct {
	mu     sync.Mutex
	events []queue.RoomStatusEvent
}

func (f *fakeRetry) PublishRoomStatus(_ context.Context, ev queue.RoomStatusEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, ev)
	return nil
}

func TestRoomStatusUpdaterSuccess(t *testing.T) {
	rooms, retry := &fakeRooms{}, &fakeRetry{}
	u := NewRoomStatusUpdater(rooms, retry, clockwork.NewFakeClock())
	u.RequestStatus("r1", model.RoomOccupied)
	u.Wait()
	if rooms.updates["r1"] != model.RoomOccupied || len(retry.events) != 0 {
		t.Fatalf("updates = %v retries = %v", rooms.updates, retry.events)
	}
}

func TestRoomStatusUpdaterKeepsStaffStatus(t *testing.T) {
	rooms := &fakeRooms{rooms: []model.Room{{ID: "r1", Status: model.RoomMaintenance}}}
	retry := &fakeRetry{}
	invalidated := 0
	u := NewRoomStatusUpdater(rooms, retry, clockwork.NewFakeClock()).
		WithInvalidate(func(context.Context) error { invalidated++; return nil })
	u.RequestStatus("r1", model.RoomOccupied)
	u.Wait()
	if rooms.rooms[0].Status != model.RoomMaintenance || len(rooms.updates) != 0 || len(retry.events) != 0 || invalidated != 0 {
		t.Fatalf("room = %+v updates = %v retries = %v invalidated = %d", rooms.rooms[0], rooms.updates, retry.events, invalidated)
	}
}

func TestRoomStatusUpdaterInvalidatesCache(t *testing.T) {
	rooms := &fakeRooms{}
	invalidated := 0
	u := NewRoomStatusUpdater(rooms, &fakeRetry{}, clockwork.NewFakeClock()).
		WithInvalidate(func(context.Context) error { invalidated++; return nil })
	u.RequestStatus("r1", model.RoomOccupied)
	u.Wait()
	if rooms.updates["r1"] != model.RoomOccupied || invalidated != 1 {
		t.Fatalf("updates = %v invalidated = %d", rooms.updates, invalidated)
	}
}

func TestRoomStatusFailureReachesRetryQueue(t *testing.T) {
	rooms := &fakeRooms{failFor: map[string]bool{"r1": true}}
	retry := &fakeRetry{}
	clock := clockwork.NewFakeClockAt(time.Date(2024, 1, 10, 8, 0, 0, 0, time.UTC))
	u := NewRoomStatusUpdater(rooms, retry, clock)

	res := &memReservations{}
	engine := booking.New(
		&oneRoom{model.Room{ID: "r1", RoomNumber: "101", RoomType: model.RoomStandard, PricePerNight: model.MoneyFromFloat(80)}},
		&noGuests{}, res,
		booking.WithClock(clock), booking.WithRoomStatus(u),
	)
	out, err := engine.Book(context.Background(), booking.Request{
		GuestName: "Ada", RoomID: "r1", CheckInDate: "2024-01-10", CheckOutDate: "2024-01-11",
	})
	if err != nil || !out.Result().Success {
		t.Fatalf("booking failed: %v", err)
	}
	u.Wait()
	if len(retry.events) != 1 {
		t.Fatalf("retries = %v", retry.events)
	}
	ev := retry.events[0]
	if ev.RoomID != "r1" || ev.From != "available" || ev.Status != "occupied" || ev.Attempt != 1 || ev.RequestedAt != "2024-01-10T08:00:00Z" {
		t.Fatalf("event = %+v", ev)
	}
}

type oneRoom struct{ r model.Room }

func (o *oneRoom) GetByID(_ context.Context, id string) (model.Room, error) {
	if id != o.r.ID {
		return model.Room{}, repository.ErrNotFound
	}
	return o.r, nil
}

type noGuests struct{ n int }

func (g *noGuests) FindByEmail(context.Context, string) (*model.Guest, error) { return nil, nil }
func (g *noGuests) Create(_ context.Context, gu *model.Guest) error {
	g.n++
	gu.ID = "g" + strings.Repeat("x", g.n)
	return nil
}

type memReservations struct {
	rows   []model.Reservation
	onDays []model.Reservation
}

func (m *memReservations) ListActiveByRoom(context.Context, string) ([]model.Reservation, error) {
	return nil, nil
}

func (m *memReservations) Create(_ context.Context, r *model.Reservation) error {
	m.rows = append(m.rows, *r)
	return nil
}

func (m *memReservations) ListActiveOn(context.Context, time.Time) ([]model.Reservation, error) {
	return m.onDays, nil
}

func TestReconcilerSweep(t *testing.T) {
	rooms := &fakeRooms{rooms: []model.Room{
		{ID: "a", RoomNumber: "101", Status: model.RoomAvailable},
		{ID: "b", RoomNumber: "102", Status: model.RoomAvailable},
		{ID: "c", RoomNumber: "103", Status: model.RoomOccupied},
		{ID: "d", RoomNumber: "104", Status: model.RoomAvailable},
	}, failFor: map[string]bool{"d": true}}
	res := &memReservations{onDays: []model.Reservation{
		{RoomID: "a", Status: model.StatusConfirmed},
		{RoomID: "c", Status: model.StatusCheckedIn},
		{RoomID: "d", Status: model.StatusPending},
	}}
	invalidated := 0
	r := NewReconciler(rooms, res, clockwork.NewFakeClock(), nil).
		WithInvalidate(func(context.Context) error { invalidated++; return nil })
	n, err := r.Sweep(context.Background())
	if n != 1 || err == nil || !strings.Contains(err.Error(), "104") {
		t.Fatalf("n = %d err = %v", n, err)
	}
	if rooms.updates["a"] != model.RoomOccupied || len(rooms.updates) != 1 || invalidated != 1 {
		t.Fatalf("updates = %v invalidated = %d", rooms.updates, invalidated)
	}

	// Nothing left to fix: no write and no invalidation.
	if n, err := r.Sweep(context.Background()); n != 0 || err == nil || invalidated != 1 {
		t.Fatalf("second sweep n = %d err = %v invalidated = %d", n, err, invalidated)
	}
}

func TestConfirmationEvent(t *testing.T) {
	ev := ConfirmationEvent(booking.Confirmation{
		ReservationID: "res-1",
		RoomNumber:    "101",
		RoomType:      model.RoomSuite,
		CheckIn:       time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		CheckOut:      time.Date(2024, 1, 13, 0, 0, 0, 0, time.UTC),
		Nights:        3,
		Total:         model.MoneyFromFloat(360),
		Source:        "agent",
		ConfirmedAt:   time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC),
	})
	if ev.CheckInDate != "2024-01-10" || ev.CheckOutDate != "2024-01-13" || ev.TotalAmount != "360.00" ||
		ev.RoomType != "suite" || ev.ConfirmedAt != "2024-01-01T09:30:00Z" {
		t.Fatalf("event = %+v", ev)
	}
}

type recordPublisher struct {
	mu  sync.Mutex
	got []queue.BookingConfirmedEvent
}

func (r *recordPublisher) PublishBookingConfirmed(_ context.Context, ev queue.BookingConfirmedEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = append(r.got, ev)
	return errors.New("broker down")
}

func TestConfirmationsPublishInBackground(t *testing.T) {
	pub := &recordPublisher{}
	c := NewConfirmations(pub)
	c.Confirmed(booking.Confirmation{ReservationID: "res-9"})
	c.Wait()
	if len(pub.got) != 1 || pub.got[0].ReservationID != "res-9" {
		t.Fatalf("published = %+v", pub.got)
	}
}

type captureSender struct{ msgs []*gomail.Message }

func (c *captureSender) DialAndSend(m ...*gomail.Message) error {
	c.msgs = append(c.msgs, m...)
	return nil
}

func TestMailerNotify(t *testing.T) {
	s := &captureSender{}
	m := NewMailerWithSender("desk@hotel.test", s)
	err := m.Notify(context.Background(), queue.BookingConfirmedEvent{
		ReservationID: "res-1", RoomNumber: "101", GuestName: "Ada",
		GuestEmail: "ada@example.com", CheckInDate: "2024-01-10",
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(s.msgs) != 1 {
		t.Fatalf("sent %d", len(s.msgs))
	}
	msg := s.msgs[0]
	if got := msg.GetHeader("To"); len(got) != 1 || got[0] != "ada@example.com" {
		t.Fatalf("to = %v", got)
	}
	if got := msg.GetHeader("Subject"); len(got) != 1 || !strings.Contains(got[0], "room 101") {
		t.Fatalf("subject = %v", got)
	}
}

func TestPhotoPublicID(t *testing.T) {
	at := time.UnixMilli(1700000000123)
	if got := PhotoPublicID("101", at, 2); got != "room-101-1700000000123-2" {
		t.Fatalf("got %q", got)
	}
	if got := PhotoPublicID("B 12", at, 0); got != "room-b-12-1700000000123-0" {
		t.Fatalf("got %q", got)
	}
}
