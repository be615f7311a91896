package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/iliyamo/hotelhub-pms/internal/model"
)

// StatusWriter applies a room status change guarded by the status the room
// is expected to be in.  repository.RoomRepo implements it.
type StatusWriter interface {
	UpdateStatusFrom(ctx context.Context, roomID string, from, to model.RoomStatus) (bool, error)
}

// RetryPublisher puts a RoomStatusEvent back on the retry queue.
type RetryPublisher interface {
	PublishRoomStatus(ctx context.Context, ev RoomStatusEvent) error
}

// RoomStatusRetry re-applies room status changes that failed when the
// booking committed.  Each failure is republished with Attempt+1 until
// MaxAttempts; after that the periodic sweep is left to fix the room.
type RoomStatusRetry struct {
	Rooms       StatusWriter
	Publisher   RetryPublisher
	MaxAttempts int
	// Invalidate, when set, is called after a status was written so cached
	// room listings are dropped.
	Invalidate func(ctx context.Context) error
	// Delay returns how long to wait before republishing after the given
	// attempt.  Nil means attempt seconds, capped at 30s.
	Delay func(attempt int) time.Duration
}

// StartRoomStatusConsumer consumes room.status.retry until ctx is done.
func StartRoomStatusConsumer(ctx context.Context, url string, h *RoomStatusRetry) error {
	return consume(ctx, url, RoomStatusRetryQueue, "room-status-consumer", h.Handle)
}

func (h *RoomStatusRetry) Handle(ctx context.Context, body []byte) error {
	var ev RoomStatusEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	st := model.RoomStatus(ev.Status)
	from := model.RoomStatus(ev.From)
	if from == "" {
		from = model.RoomAvailable
	}
	if ev.RoomID == "" || !st.Valid() || !from.Valid() {
		return fmt.Errorf("invalid room status event %+v", ev)
	}

	changed, err := h.Rooms.UpdateStatusFrom(ctx, ev.RoomID, from, st)
	if err == nil {
		if !changed {
			log.Printf("room-status: room %s is gone or no longer %s, dropping", ev.RoomID, from)
			return nil
		}
		log.Printf("room-status: room %s set to %s on attempt %d", ev.RoomID, st, ev.Attempt+1)
		if h.Invalidate != nil {
			if ierr := h.Invalidate(ctx); ierr != nil {
				log.Printf("room-status: cache invalidation: %v", ierr)
			}
		}
		return nil
	}

	ev.Attempt++
	limit := h.MaxAttempts
	if limit <= 0 {
		limit = 5
	}
	if ev.Attempt >= limit {
		log.Printf("room-status: giving up on room %s after %d attempts: %v", ev.RoomID, ev.Attempt, err)
		return nil
	}
	if !sleep(ctx, h.delay(ev.Attempt)) {
		return ctx.Err()
	}
	if perr := h.Publisher.PublishRoomStatus(ctx, ev); perr != nil {
		return fmt.Errorf("republish after %v: %w", err, perr)
	}
	return nil
}

func (h *RoomStatusRetry) delay(attempt int) time.Duration {
	if h.Delay != nil {
		return h.Delay(attempt)
	}
	d := time.Duration(attempt) * time.Second
	if d > 30*time.Second {
		d = 30 * time.Second
	}
	return d
}
