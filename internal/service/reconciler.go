package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/iliyamo/hotelhub-pms/internal/model"
	"github.com/iliyamo/hotelhub-pms/internal/repository"
)

type RoomSweeper interface {
	List(ctx context.Context, f repository.RoomFilter) ([]model.Room, error)
	UpdateStatusFrom(ctx context.Context, id string, from, to model.RoomStatus) (bool, error)
}

type ActiveOnLister interface {
	ListActiveOn(ctx context.Context, day time.Time) ([]model.Reservation, error)
}

// Reconciler repairs rooms left "available" while a guest is due in them,
// which happens when the room status update after a same-day booking was
// lost.
type Reconciler struct {
	rooms        RoomSweeper
	reservations ActiveOnLister
	clock        clockwork.Clock
	loc          *time.Location
	invalidate   func(ctx context.Context) error
}

func NewReconciler(rooms RoomSweeper, reservations ActiveOnLister, clock clockwork.Clock, loc *time.Location) *Reconciler {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Reconciler{rooms: rooms, reservations: reservations, clock: clock, loc: loc}
}

// WithInvalidate sets a hook run after a sweep that changed any room.
func (r *Reconciler) WithInvalidate(fn func(ctx context.Context) error) *Reconciler {
	r.invalidate = fn
	return r
}

// Sweep marks every available room with an active reservation covering
// today as occupied and returns how many it changed.  One failing room
// does not stop the others.
func (r *Reconciler) Sweep(ctx context.Context) (int, error) {
	y, m, d := r.clock.Now().In(r.loc).Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	active, err := r.reservations.ListActiveOn(ctx, today)
	if err != nil {
		return 0, fmt.Errorf("list reservations: %w", err)
	}
	if len(active) == 0 {
		return 0, nil
	}
	due := make(map[string]bool, len(active))
	for _, res := range active {
		due[res.RoomID] = true
	}

	rooms, err := r.rooms.List(ctx, repository.RoomFilter{Status: model.RoomAvailable})
	if err != nil {
		return 0, fmt.Errorf("list rooms: %w", err)
	}
	fixed := 0
	var errs []error
	for _, rm := range rooms {
		if !due[rm.ID] {
			continue
		}
		changed, err := r.rooms.UpdateStatusFrom(ctx, rm.ID, model.RoomAvailable, model.RoomOccupied)
		if err != nil {
			errs = append(errs, fmt.Errorf("room %s: %w", rm.RoomNumber, err))
			continue
		}
		if changed {
			fixed++
		}
	}
	if fixed > 0 {
		log.Printf("reconciler: marked %d room(s) occupied", fixed)
		if r.invalidate != nil {
			if err := r.invalidate(ctx); err != nil {
				log.Printf("reconciler: cache invalidation: %v", err)
			}
		}
	}
	return fixed, errors.Join(errs...)
}
