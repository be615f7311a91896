package booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/iliyamo/hotelhub-pms/internal/apperr"
	"github.com/iliyamo/hotelhub-pms/internal/model"
	"github.com/iliyamo/hotelhub-pms/internal/repository"
)

type fixture struct {
	rooms  *memRooms
	guests *memGuests
	res    *memReservations
	status *statusSink
	conf   *confirmSink
	clock  *clockwork.FakeClock
	engine *Engine
}

func newFixture(opts ...Option) *fixture {
	f := &fixture{
		rooms: &memRooms{rooms: map[string]model.Room{
			"r1": {ID: "r1", RoomNumber: "101", RoomType: model.RoomStandard, PricePerNight: model.MoneyFromFloat(120), Status: model.RoomAvailable},
		}},
		guests: &memGuests{},
		res:    &memReservations{},
		status: &statusSink{},
		conf:   &confirmSink{},
		clock:  clockwork.NewFakeClockAt(time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)),
	}
	all := append([]Option{
		WithClock(f.clock),
		WithRoomStatus(f.status),
		WithConfirmations(f.conf),
	}, opts...)
	f.engine = New(f.rooms, f.guests, f.res, all...)
	return f
}

func request(in, out string) Request {
	return Request{GuestName: "Ada Lovelace", RoomID: "r1", CheckInDate: in, CheckOutDate: out}
}

func TestBookSuccess(t *testing.T) {
	f := newFixture()
	out, err := f.engine.Book(context.Background(), request("2024-01-10", "2024-01-13"))
	if err != nil {
		t.Fatalf("Book: %v", err)
	}
	res := out.Result()
	if !res.Success || res.ReservationID == "" || res.Error != "" {
		t.Fatalf("result = %+v", res)
	}
	if out.State != Committed || out.Last != Persisting {
		t.Fatalf("state = %s/%s", out.State, out.Last)
	}
	if len(f.res.rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(f.res.rows))
	}
	row := f.res.rows[0]
	if row.ID != res.ReservationID || row.Status != model.StatusConfirmed {
		t.Fatalf("row = %+v", row)
	}
	if row.TotalAmount == nil || *row.TotalAmount != model.MoneyFromFloat(360) {
		t.Fatalf("total = %v, want 360.00", row.TotalAmount)
	}
	if out.Nights != 3 {
		t.Fatalf("nights = %d", out.Nights)
	}
	if len(f.conf.got) != 1 || f.conf.got[0].ReservationID != row.ID || f.conf.got[0].RoomNumber != "101" {
		t.Fatalf("confirmations = %+v", f.conf.got)
	}
	if len(f.status.requests) != 0 {
		t.Fatalf("future stay must not touch room status: %v", f.status.requests)
	}
}

func TestBookExplicitTotal(t *testing.T) {
	f := newFixture()
	req := request("2024-01-10", "2024-01-13")
	amt := 299.99
	req.TotalAmount = &amt
	if _, err := f.engine.Book(context.Background(), req); err != nil {
		t.Fatal(err)
	}
	if got := *f.res.rows[0].TotalAmount; got != model.MoneyFromFloat(299.99) {
		t.Fatalf("total = %s", got)
	}

	zero := 0.0
	req.TotalAmount = &zero
	req.CheckInDate, req.CheckOutDate = "2024-02-10", "2024-02-12"
	if _, err := f.engine.Book(context.Background(), req); err != nil {
		t.Fatal(err)
	}
	if got := *f.res.rows[1].TotalAmount; got != model.MoneyFromFloat(240) {
		t.Fatalf("zero explicit total should be computed, got %s", got)
	}
}

func TestBookValidationNeverTouchesStore(t *testing.T) {
	cases := []struct {
		name string
		req  Request
		kind apperr.Kind
	}{
		{"same day", request("2024-01-10", "2024-01-10"), apperr.InvalidDateRange},
		{"reversed", request("2024-01-13", "2024-01-10"), apperr.InvalidDateRange},
		{"bad date", request("10/01/2024", "2024-01-13"), apperr.InvalidDateRange},
		{"no name", Request{GuestName: "  ", RoomID: "r1", CheckInDate: "2024-01-10", CheckOutDate: "2024-01-13"}, apperr.MissingField},
		{"no room", Request{GuestName: "Ada", CheckInDate: "2024-01-10", CheckOutDate: "2024-01-13"}, apperr.MissingField},
		{"no dates", Request{GuestName: "Ada", RoomID: "r1"}, apperr.MissingField},
		{"total above column range", func() Request {
			r := request("2024-01-10", "2024-01-13")
			huge := 1e20
			r.TotalAmount = &huge
			return r
		}(), apperr.MissingField},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture()
			out, err := f.engine.Book(context.Background(), tc.req)
			if !errors.Is(err, tc.kind) {
				t.Fatalf("err = %v, want %s", err, tc.kind)
			}
			if out.State != Rejected || out.Last != Validating {
				t.Fatalf("state = %s/%s", out.State, out.Last)
			}
			if f.rooms.calls+f.guests.calls+f.res.calls != 0 {
				t.Fatalf("store was called")
			}
			if r := out.Result(); r.Success || r.Error == "" {
				t.Fatalf("result = %+v", r)
			}
		})
	}
}

func TestBookRejectsOverlap(t *testing.T) {
	f := newFixture()
	f.res.rows = []model.Reservation{{
		ID: "existing", RoomID: "r1", GuestID: "g0",
		CheckInDate: date("2024-01-15"), CheckOutDate: date("2024-01-18"),
		Status: model.StatusConfirmed,
	}}
	out, err := f.engine.Book(context.Background(), request("2024-01-16", "2024-01-20"))
	if !errors.Is(err, apperr.RoomUnavailable) {
		t.Fatalf("err = %v, want RoomUnavailable", err)
	}
	if out.State != Rejected || out.Last != CheckingAvailability {
		t.Fatalf("state = %s/%s", out.State, out.Last)
	}
	if len(f.res.rows) != 1 || f.guests.calls != 0 {
		t.Fatalf("rejected booking had side effects")
	}

	// back-to-back is fine
	if _, err := f.engine.Book(context.Background(), request("2024-01-18", "2024-01-20")); err != nil {
		t.Fatalf("changeover day booking: %v", err)
	}
}

func TestBookUnknownRoom(t *testing.T) {
	f := newFixture()
	req := request("2024-01-10", "2024-01-12")
	req.RoomID = "nope"
	_, err := f.engine.Book(context.Background(), req)
	if !errors.Is(err, apperr.RoomUnavailable) || apperr.Message(err, "") != "Room not found" {
		t.Fatalf("err = %v", err)
	}
}

func TestBookFailsClosedOnListError(t *testing.T) {
	f := newFixture()
	f.res.listErr = errStore
	out, err := f.engine.Book(context.Background(), request("2024-01-10", "2024-01-12"))
	if !errors.Is(err, apperr.DataUnavailable) || !errors.Is(err, errStore) {
		t.Fatalf("err = %v", err)
	}
	if out.State != Failed || len(f.res.rows) != 0 {
		t.Fatalf("state = %s rows = %d", out.State, len(f.res.rows))
	}
}

func TestBookGuestStoreFailure(t *testing.T) {
	f := newFixture()
	f.guests.err = errStore
	req := request("2024-01-10", "2024-01-12")
	req.GuestEmail = "ada@example.com"
	out, err := f.engine.Book(context.Background(), req)
	if !errors.Is(err, apperr.DataUnavailable) || out.Last != ResolvingGuest || out.State != Failed {
		t.Fatalf("out = %+v err = %v", out, err)
	}
	if len(f.res.rows) != 0 {
		t.Fatal("reservation written despite guest failure")
	}
}

func TestBookDatabaseOverlapBackstop(t *testing.T) {
	f := newFixture()
	f.engine.reservations = overlapOnCreate{f.res}
	_, err := f.engine.Book(context.Background(), request("2024-01-10", "2024-01-12"))
	if !errors.Is(err, apperr.RoomUnavailable) {
		t.Fatalf("err = %v, want RoomUnavailable", err)
	}
}

type overlapOnCreate struct{ *memReservations }

func (overlapOnCreate) Create(context.Context, *model.Reservation) error { return repository.ErrOverlap }

func TestBookRejectsTotalBeyondColumnRange(t *testing.T) {
	f := newFixture()
	// 120.00 a night for ~10000 years does not fit DECIMAL(10,2).
	out, err := f.engine.Book(context.Background(), request("0001-01-01", "9999-12-31"))
	if !errors.Is(err, apperr.InvalidDateRange) || out.Last != Pricing {
		t.Fatalf("err = %v last = %s", err, out.Last)
	}
	if len(f.res.rows) != 0 {
		t.Fatalf("reservation persisted: %+v", f.res.rows)
	}
}

func TestRequestValidate(t *testing.T) {
	r := Request{GuestName: "Ada", CheckInDate: "2024-01-10", CheckOutDate: "2024-01-13"}
	if err := r.Validate(); err != nil {
		t.Fatalf("room id is optional here: %v", err)
	}
	r.CheckOutDate = "2024-01-09"
	if err := r.Validate(); !errors.Is(err, apperr.InvalidDateRange) {
		t.Fatalf("err = %v", err)
	}
	r = Request{CheckInDate: "2024-01-10", CheckOutDate: "2024-01-13"}
	if err := r.Validate(); !errors.Is(err, apperr.MissingField) {
		t.Fatalf("err = %v", err)
	}
}

func TestSameEmailReusesGuest(t *testing.T) {
	f := newFixture()
	a := request("2024-01-10", "2024-01-12")
	a.GuestEmail = "ada@example.com"
	b := request("2024-02-10", "2024-02-12")
	b.GuestName = "Augusta King"
	b.GuestEmail = " ada@example.com "

	o1, err := f.engine.Book(context.Background(), a)
	if err != nil {
		t.Fatal(err)
	}
	o2, err := f.engine.Book(context.Background(), b)
	if err != nil {
		t.Fatal(err)
	}
	if o1.GuestID != o2.GuestID {
		t.Fatalf("guest ids differ: %s vs %s", o1.GuestID, o2.GuestID)
	}
	if len(f.guests.guests) != 1 || f.guests.guests[0].Name != "Ada Lovelace" {
		t.Fatalf("guests = %+v", f.guests.guests)
	}
}

func TestNoEmailCreatesDistinctGuests(t *testing.T) {
	f := newFixture()
	o1, err := f.engine.Book(context.Background(), request("2024-01-10", "2024-01-12"))
	if err != nil {
		t.Fatal(err)
	}
	o2, err := f.engine.Book(context.Background(), request("2024-02-10", "2024-02-12"))
	if err != nil {
		t.Fatal(err)
	}
	if o1.GuestID == o2.GuestID || len(f.guests.guests) != 2 {
		t.Fatalf("expected two guests, got %+v", f.guests.guests)
	}
}

func TestBookTodayRequestsOccupied(t *testing.T) {
	// 20:00 UTC on Jan 9 is already Jan 10 in UTC+9.
	f := newFixture(WithLocation(time.FixedZone("UTC+9", 9*3600)))
	f.clock = clockwork.NewFakeClockAt(time.Date(2024, 1, 9, 20, 0, 0, 0, time.UTC))
	f.engine.clock = f.clock

	out, err := f.engine.Book(context.Background(), request("2024-01-10", "2024-01-12"))
	if err != nil || !out.Result().Success {
		t.Fatalf("book: %v", err)
	}
	if len(f.status.requests) != 1 || f.status.requests[0] != model.RoomOccupied {
		t.Fatalf("status requests = %v", f.status.requests)
	}
}

// failingSink stands in for a room status updater whose update fails.  The
// failure stays inside the sink.
type failingSink struct{ failed int }

func (s *failingSink) RequestStatus(string, model.RoomStatus) { s.failed++ }

func TestRoomStatusFailureDoesNotChangeResult(t *testing.T) {
	sink := &failingSink{}
	f := newFixture(WithRoomStatus(sink))
	today := f.clock.Now().Format(DateLayout)
	out, err := f.engine.Book(context.Background(), request(today, "2024-01-03"))
	if err != nil || !out.Result().Success {
		t.Fatalf("book: %v", err)
	}
	if sink.failed != 1 || len(f.res.rows) != 1 {
		t.Fatalf("sink = %d rows = %d", sink.failed, len(f.res.rows))
	}
}

func TestPersistingIgnoresCancellation(t *testing.T) {
	f := newFixture()
	ctx, cancel := context.WithCancel(context.Background())
	f.engine.reservations = cancelOnCreate{f.res, cancel}
	if _, err := f.engine.Book(ctx, request("2024-01-10", "2024-01-12")); err != nil {
		t.Fatalf("book: %v", err)
	}
}

type cancelOnCreate struct {
	*memReservations
	cancel context.CancelFunc
}

func (c cancelOnCreate) Create(ctx context.Context, r *model.Reservation) error {
	c.cancel()
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return c.memReservations.Create(ctx, r)
}

func TestLocalLockerSerializesConcurrentBookings(t *testing.T) {
	f := newFixture(WithLocker(NewLocalLocker()))
	f.res.pause = 20 * time.Millisecond

	var (
		wg   sync.WaitGroup
		errs = make([]error, 2)
	)
	reqs := []Request{request("2024-01-10", "2024-01-14"), request("2024-01-12", "2024-01-16")}
	for i := range reqs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.engine.Book(context.Background(), reqs[i])
		}(i)
	}
	wg.Wait()

	committed, rejected := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			committed++
		case errors.Is(err, apperr.RoomUnavailable):
			rejected++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if committed != 1 || rejected != 1 || len(f.res.rows) != 1 {
		t.Fatalf("committed=%d rejected=%d rows=%d", committed, rejected, len(f.res.rows))
	}
}

func TestLocalLockerHonoursContext(t *testing.T) {
	l := NewLocalLocker()
	unlock, err := l.LockRoom(context.Background(), "r1")
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if _, err := l.LockRoom(ctx, "r1"); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v", err)
	}
	if u2, err := l.LockRoom(context.Background(), "r2"); err != nil {
		t.Fatalf("other room blocked: %v", err)
	} else {
		u2()
	}
	unlock()
	unlock()
	u3, err := l.LockRoom(context.Background(), "r1")
	if err != nil {
		t.Fatal(err)
	}
	u3()
}

func TestLockFailureIsDataUnavailable(t *testing.T) {
	f := newFixture(WithLocker(busyLocker{}))
	out, err := f.engine.Book(context.Background(), request("2024-01-10", "2024-01-12"))
	if !errors.Is(err, apperr.DataUnavailable) || out.Result().Error != "Room is busy, please retry" {
		t.Fatalf("err = %v result = %+v", err, out.Result())
	}
}

type busyLocker struct{}

func (busyLocker) LockRoom(context.Context, string) (func(), error) {
	return nil, errors.New("lock held")
}
