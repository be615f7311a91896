package service

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/iliyamo/hotelhub-pms/internal/model"
	"github.com/iliyamo/hotelhub-pms/internal/queue"
)

// RoomStatusUpdater implements booking.RoomStatusSink.  The update runs on
// its own goroutine with its own deadline; a failure is logged and handed
// to the retry queue, and the booking that asked for it is unaffected.
// Whatever the retry queue cannot fix is caught by Reconciler.Sweep.
//
// Only rooms still "available" are changed, here and on retry: any other
// status was set by staff after the booking and wins.
type RoomStatusUpdater struct {
	rooms      queue.StatusWriter
	retry      queue.RetryPublisher
	clock      clockwork.Clock
	timeout    time.Duration
	invalidate func(ctx context.Context) error
	wg         sync.WaitGroup
}

func NewRoomStatusUpdater(rooms queue.StatusWriter, retry queue.RetryPublisher, clock clockwork.Clock) *RoomStatusUpdater {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &RoomStatusUpdater{rooms: rooms, retry: retry, clock: clock, timeout: 5 * time.Second}
}

// WithInvalidate sets a hook run after every successful change, used to
// drop cached room listings.
func (u *RoomStatusUpdater) WithInvalidate(fn func(ctx context.Context) error) *RoomStatusUpdater {
	u.invalidate = fn
	return u
}

func (u *RoomStatusUpdater) RequestStatus(roomID string, status model.RoomStatus) {
	requested := u.clock.Now().UTC()
	u.wg.Add(1)
	go func() {
		defer u.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), u.timeout)
		defer cancel()

		changed, err := u.rooms.UpdateStatusFrom(ctx, roomID, model.RoomAvailable, status)
		if err == nil {
			if changed && u.invalidate != nil {
				if ierr := u.invalidate(ctx); ierr != nil {
					log.Printf("room-status: cache invalidation: %v", ierr)
				}
			}
			return
		}
		log.Printf("room-status: set room %s to %s: %v; queueing retry", roomID, status, err)
		if u.retry == nil {
			return
		}
		ev := queue.RoomStatusEvent{
			RoomID:      roomID,
			From:        string(model.RoomAvailable),
			Status:      string(status),
			Reason:      err.Error(),
			Attempt:     1,
			RequestedAt: requested.Format(time.RFC3339),
		}
		if perr := u.retry.PublishRoomStatus(ctx, ev); perr != nil {
			log.Printf("room-status: queue retry for room %s: %v; left to the reconciler", roomID, perr)
		}
	}()
}

// Wait blocks until every in-flight update has finished.
func (u *RoomStatusUpdater) Wait() { u.wg.Wait() }
