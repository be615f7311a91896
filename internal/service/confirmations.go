package service

import (
	"context"
	"sync"
	"time"

	"github.com/iliyamo/hotelhub-pms/internal/booking"
	"github.com/iliyamo/hotelhub-pms/internal/queue"
)

// BookingPublisher publishes booking.confirmed events.
type BookingPublisher interface {
	PublishBookingConfirmed(ctx context.Context, ev queue.BookingConfirmedEvent) error
}

// Confirmations implements booking.ConfirmationSink by publishing each
// committed booking in the background.
type Confirmations struct {
	pub     BookingPublisher
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewConfirmations(pub BookingPublisher) *Confirmations {
	return &Confirmations{pub: pub, timeout: 5 * time.Second}
}

func (c *Confirmations) Confirmed(conf booking.Confirmation) {
	ev := ConfirmationEvent(conf)
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
		defer cancel()
		_ = c.pub.PublishBookingConfirmed(ctx, ev)
	}()
}

// Wait blocks until every pending publish has finished.
func (c *Confirmations) Wait() { c.wg.Wait() }

// ConfirmationEvent maps a committed booking onto its broker payload.
func ConfirmationEvent(c booking.Confirmation) queue.BookingConfirmedEvent {
	return queue.BookingConfirmedEvent{
		ReservationID: c.ReservationID,
		RoomID:        c.RoomID,
		RoomNumber:    c.RoomNumber,
		RoomType:      string(c.RoomType),
		GuestID:       c.GuestID,
		GuestName:     c.GuestName,
		GuestEmail:    c.GuestEmail,
		CheckInDate:   c.CheckIn.Format(booking.DateLayout),
		CheckOutDate:  c.CheckOut.Format(booking.DateLayout),
		Nights:        c.Nights,
		TotalAmount:   c.Total.String(),
		Source:        c.Source,
		ConfirmedAt:   c.ConfirmedAt.UTC().Format(time.RFC3339),
	}
}
