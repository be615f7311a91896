package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// Notifier sends a guest-facing confirmation for a booking.
type Notifier interface {
	Notify(ctx context.Context, ev BookingConfirmedEvent) error
}

// BookingLog appends confirmations to <Dir>/booking.log and, when a
// Notifier is set and the guest left an email, notifies the guest.
type BookingLog struct {
	Dir      string
	Notifier Notifier
}

// StartBookingConsumer consumes booking.confirmed until ctx is done.
func StartBookingConsumer(ctx context.Context, url string, h *BookingLog) error {
	return consume(ctx, url, BookingConfirmedQueue, "booking-consumer", h.Handle)
}

// Handle processes one booking.confirmed body.  A failed notification is
// logged only, since the log line is already written.
func (h *BookingLog) Handle(ctx context.Context, body []byte) error {
	var ev BookingConfirmedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if ev.ReservationID == "" {
		return fmt.Errorf("event without reservation id")
	}
	if err := h.append(ev); err != nil {
		return err
	}
	if h.Notifier != nil && ev.GuestEmail != "" {
		if err := h.Notifier.Notify(ctx, ev); err != nil {
			log.Printf("booking-consumer: notify %s: %v", ev.ReservationID, err)
		}
	}
	return nil
}

func (h *BookingLog) append(ev BookingConfirmedEvent) error {
	dir := h.Dir
	if dir == "" {
		dir = "logs"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir logs: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(dir, "booking.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	line := fmt.Sprintf("[%s] Reservation confirmed | reservation_id=%s | room=%s (%s) | guest=%q | stay=%s..%s | nights=%d | total=%s | source=%s\n",
		ev.ConfirmedAt, ev.ReservationID, ev.RoomNumber, ev.RoomType, ev.GuestName,
		ev.CheckInDate, ev.CheckOutDate, ev.Nights, ev.TotalAmount, ev.Source)
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}
