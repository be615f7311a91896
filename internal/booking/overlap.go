package booking

import (
	"time"

	"github.com/iliyamo/hotelhub-pms/internal/model"
)

// Span is a half-open stay [CheckIn, CheckOut).  The check-out day itself
// is free, so one stay may end on the day the next one starts.
type Span struct {
	CheckIn  time.Time
	CheckOut time.Time
}

// Overlaps reports whether s and o share at least one night.
func (s Span) Overlaps(o Span) bool {
	return s.CheckIn.Before(o.CheckOut) && s.CheckOut.After(o.CheckIn)
}

// Nights is the number of nights the span covers.
func (s Span) Nights() int { return Nights(s.CheckIn, s.CheckOut) }

// HasConflict reports whether candidate overlaps any active reservation in
// existing.  Reservations that no longer occupy the room are skipped even
// if the caller passed them in.
func HasConflict(candidate Span, existing []model.Reservation) bool {
	return FirstConflict(candidate, existing) != nil
}

// FirstConflict returns the first active reservation overlapping
// candidate, or nil.
func FirstConflict(candidate Span, existing []model.Reservation) *model.Reservation {
	for i := range existing {
		r := &existing[i]
		if !r.Status.Active() {
			continue
		}
		if candidate.Overlaps(Span{CheckIn: r.CheckInDate, CheckOut: r.CheckOutDate}) {
			return r
		}
	}
	return nil
}
