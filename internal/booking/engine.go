// Package booking decides whether a stay may be booked and, when it may,
// records it.  One call to Engine.Book checks the request, checks the room
// for overlapping active reservations, resolves the guest, prices the stay
// and writes a confirmed reservation.
package booking

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/iliyamo/hotelhub-pms/internal/apperr"
	"github.com/iliyamo/hotelhub-pms/internal/model"
	"github.com/iliyamo/hotelhub-pms/internal/repository"
)

// State is a step of a booking attempt.
type State int

const (
	Validating State = iota
	CheckingAvailability
	ResolvingGuest
	Pricing
	Persisting
	Committed
	Rejected
	Failed
)

var stateNames = [...]string{
	"Validating", "CheckingAvailability", "ResolvingGuest", "Pricing",
	"Persisting", "Committed", "Rejected", "Failed",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "Unknown"
	}
	return stateNames[s]
}

// RoomStore loads rooms.  GetByID returns repository.ErrNotFound for an
// unknown id.
type RoomStore interface {
	GetByID(ctx context.Context, id string) (model.Room, error)
}

// ReservationStore lists and writes reservations.  Create may return
// repository.ErrOverlap when the database itself rejects an overlap.
type ReservationStore interface {
	ListActiveByRoom(ctx context.Context, roomID string) ([]model.Reservation, error)
	Create(ctx context.Context, r *model.Reservation) error
}

// RoomStatusSink receives a request to change a room's status.  It must
// not block the caller and reports nothing back; a failed update is the
// sink's business to retry.
type RoomStatusSink interface {
	RequestStatus(roomID string, status model.RoomStatus)
}

// ConfirmationSink is told about every committed booking.  Like
// RoomStatusSink it is fire-and-forget.
type ConfirmationSink interface {
	Confirmed(c Confirmation)
}

// Confirmation describes a committed booking.
type Confirmation struct {
	ReservationID string
	RoomID        string
	RoomNumber    string
	RoomType      model.RoomType
	GuestID       string
	GuestName     string
	GuestEmail    string
	CheckIn       time.Time
	CheckOut      time.Time
	Nights        int
	Total         model.Money
	Source        string
	ConfirmedAt   time.Time
}

// Outcome is the result of one booking attempt.  State is Committed,
// Rejected or Failed; Last is the step that was running when the attempt
// ended.
type Outcome struct {
	State         State
	Last          State
	ReservationID string
	GuestID       string
	Nights        int
	Total         model.Money
	Err           error
}

// Result renders the outcome as the booking output contract.
func (o Outcome) Result() Result {
	if o.State == Committed {
		return Result{Success: true, ReservationID: o.ReservationID}
	}
	return Result{Success: false, Error: apperr.Message(o.Err, "Failed to create reservation")}
}

// Engine runs booking attempts.  It is safe for concurrent use.
type Engine struct {
	rooms         RoomStore
	guests        GuestStore
	reservations  ReservationStore
	clock         clockwork.Clock
	loc           *time.Location
	locker        RoomLocker
	roomStatus    RoomStatusSink
	confirmations ConfirmationSink
}

type Option func(*Engine)

func WithClock(c clockwork.Clock) Option { return func(e *Engine) { e.clock = c } }

// WithLocation sets the hotel time zone used to decide whether a stay
// starts today.
func WithLocation(loc *time.Location) Option { return func(e *Engine) { e.loc = loc } }

func WithLocker(l RoomLocker) Option { return func(e *Engine) { e.locker = l } }

func WithRoomStatus(s RoomStatusSink) Option { return func(e *Engine) { e.roomStatus = s } }

func WithConfirmations(s ConfirmationSink) Option { return func(e *Engine) { e.confirmations = s } }

// New returns an Engine.  Without WithLocker bookings of the same room are
// not serialized in-process.
func New(rooms RoomStore, guests GuestStore, reservations ReservationStore, opts ...Option) *Engine {
	if rooms == nil || guests == nil || reservations == nil {
		panic("booking.New: nil store")
	}
	e := &Engine{
		rooms:        rooms,
		guests:       guests,
		reservations: reservations,
		clock:        clockwork.NewRealClock(),
		loc:          time.UTC,
		locker:       noLock{},
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Today is the current calendar date in the hotel time zone, as midnight
// UTC so it compares directly with reservation dates.
func (e *Engine) Today() time.Time {
	y, m, d := e.clock.Now().In(e.loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Available reports whether roomID is free for [in, out).  A failure to
// read reservations is returned as DataUnavailable and callers must treat
// the room as taken.
func (e *Engine) Available(ctx context.Context, roomID string, in, out time.Time) (bool, error) {
	existing, err := e.reservations.ListActiveByRoom(ctx, roomID)
	if err != nil {
		return false, apperr.Wrap(apperr.DataUnavailable, "Could not check room availability", err)
	}
	return !HasConflict(Span{CheckIn: in, CheckOut: out}, existing), nil
}

// Book runs one booking attempt.  The returned error is the same as
// Outcome.Err; callers that only need the output contract can ignore it
// and use Outcome.Result.
func (e *Engine) Book(ctx context.Context, req Request) (out Outcome, err error) {
	defer func() {
		if err == nil {
			out.State = Committed
			return
		}
		out.Err = err
		switch apperr.KindOf(err) {
		case apperr.MissingField, apperr.InvalidDateRange, apperr.RoomUnavailable:
			out.State = Rejected
		default:
			out.State = Failed
		}
		log.Printf("booking: %s during %s: %v", out.State, out.Last, err)
	}()

	out.Last = Validating
	s, err := req.normalize()
	if err != nil {
		return out, err
	}

	out.Last = CheckingAvailability
	unlock, err := e.locker.LockRoom(ctx, s.roomID)
	if err != nil {
		return out, apperr.Wrap(apperr.DataUnavailable, "Room is busy, please retry", err)
	}
	defer unlock()

	room, err := e.rooms.GetByID(ctx, s.roomID)
	if errors.Is(err, repository.ErrNotFound) {
		return out, apperr.New(apperr.RoomUnavailable, "Room not found")
	}
	if err != nil {
		return out, apperr.Wrap(apperr.DataUnavailable, "Could not load room", err)
	}
	free, err := e.Available(ctx, room.ID, s.checkIn, s.checkOut)
	if err != nil {
		return out, err
	}
	if !free {
		return out, apperr.New(apperr.RoomUnavailable, "Room is not available for the selected dates")
	}

	out.Last = ResolvingGuest
	out.GuestID, err = ResolveGuest(ctx, e.guests, s.guestName, s.guestEmail, s.guestPhone)
	if err != nil {
		return out, err
	}

	out.Last = Pricing
	out.Nights = Nights(s.checkIn, s.checkOut)
	out.Total = Price(room.PricePerNight, out.Nights, s.total)
	if out.Total > model.MaxMoney {
		return out, apperr.New(apperr.InvalidDateRange, "Stay is too long to price")
	}

	out.Last = Persisting
	pctx := context.WithoutCancel(ctx)
	total := out.Total
	res := &model.Reservation{
		ID:           uuid.NewString(),
		RoomID:       room.ID,
		GuestID:      out.GuestID,
		CheckInDate:  s.checkIn,
		CheckOutDate: s.checkOut,
		Status:       model.StatusConfirmed,
		TotalAmount:  &total,
	}
	if s.notes != "" {
		notes := s.notes
		res.Notes = &notes
	}
	if err := e.reservations.Create(pctx, res); err != nil {
		if errors.Is(err, repository.ErrOverlap) {
			return out, apperr.New(apperr.RoomUnavailable, "Room is not available for the selected dates")
		}
		return out, apperr.Wrap(apperr.DataUnavailable, "Could not save reservation", err)
	}
	out.ReservationID = res.ID

	if e.roomStatus != nil && s.checkIn.Equal(e.Today()) {
		e.roomStatus.RequestStatus(room.ID, model.RoomOccupied)
	}
	if e.confirmations != nil {
		e.confirmations.Confirmed(Confirmation{
			ReservationID: res.ID,
			RoomID:        room.ID,
			RoomNumber:    room.RoomNumber,
			RoomType:      room.RoomType,
			GuestID:       out.GuestID,
			GuestName:     s.guestName,
			GuestEmail:    s.guestEmail,
			CheckIn:       s.checkIn,
			CheckOut:      s.checkOut,
			Nights:        out.Nights,
			Total:         out.Total,
			Source:        req.Source,
			ConfirmedAt:   e.clock.Now().UTC(),
		})
	}
	return out, nil
}
