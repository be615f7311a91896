package agent

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/iliyamo/hotelhub-pms/internal/apperr"
	"github.com/iliyamo/hotelhub-pms/internal/booking"
	"github.com/iliyamo/hotelhub-pms/internal/model"
	"github.com/iliyamo/hotelhub-pms/internal/repository"
)

// RoomLister is the room lookup the matcher and the hotel snapshot need.
type RoomLister interface {
	List(ctx context.Context, f repository.RoomFilter) ([]model.Room, error)
	GetByNumber(ctx context.Context, number string) (model.Room, error)
}

// Availability answers whether a room is free for a stay.  booking.Engine
// implements it.
type Availability interface {
	Available(ctx context.Context, roomID string, in, out time.Time) (bool, error)
}

// Matcher fills in the room of a Draft.
type Matcher struct {
	rooms RoomLister
	avail Availability
}

func NewMatcher(rooms RoomLister, avail Availability) *Matcher {
	if rooms == nil || avail == nil {
		panic("agent.NewMatcher: nil dependency")
	}
	return &Matcher{rooms: rooms, avail: avail}
}

var errNoRoom = apperr.New(apperr.RoomUnavailable, "No rooms available for the selected dates")

// Resolve returns d.Request with RoomID set.  An explicit room id is kept
// as is.  Otherwise the room is chosen as follows:
//
//  1. the room whose number matches d.RoomNumber exactly;
//  2. the lowest-numbered available room of d.RoomType with no overlapping
//     reservation;
//  3. the lowest-numbered available room of any type with no overlapping
//     reservation.
//
// When none qualifies the result is RoomUnavailable.  The request is
// validated before any room is looked up.
func (m *Matcher) Resolve(ctx context.Context, d Draft) (booking.Request, error) {
	req := d.Request
	if err := req.Validate(); err != nil {
		return req, err
	}
	if strings.TrimSpace(req.RoomID) != "" {
		return req, nil
	}

	if d.RoomNumber != "" {
		rm, err := m.rooms.GetByNumber(ctx, d.RoomNumber)
		switch {
		case err == nil:
			req.RoomID = rm.ID
			return req, nil
		case !errors.Is(err, repository.ErrNotFound):
			return req, apperr.Wrap(apperr.DataUnavailable, "Could not load rooms", err)
		}
	}

	// Both dates parsed in Validate.
	in, _ := booking.ParseDate(req.CheckInDate)
	out, _ := booking.ParseDate(req.CheckOutDate)

	rooms, err := m.rooms.List(ctx, repository.RoomFilter{Status: model.RoomAvailable})
	if err != nil {
		return req, apperr.Wrap(apperr.DataUnavailable, "Could not load rooms", err)
	}

	if d.RoomType != "" {
		id, err := m.firstFree(ctx, rooms, d.RoomType, in, out)
		if err != nil {
			return req, err
		}
		if id != "" {
			req.RoomID = id
			return req, nil
		}
	}
	id, err := m.firstFree(ctx, rooms, "", in, out)
	if err != nil {
		return req, err
	}
	if id == "" {
		return req, errNoRoom
	}
	req.RoomID = id
	return req, nil
}

// firstFree returns the id of the first room in rooms of type t (any type
// when t is empty) that is free for [in, out), or "" when none is.
func (m *Matcher) firstFree(ctx context.Context, rooms []model.Room, t model.RoomType, in, out time.Time) (string, error) {
	for _, rm := range rooms {
		if rm.Status != model.RoomAvailable || (t != "" && rm.RoomType != t) {
			continue
		}
		ok, err := m.avail.Available(ctx, rm.ID, in, out)
		if err != nil {
			return "", err
		}
		if ok {
			return rm.ID, nil
		}
	}
	return "", nil
}
