package model

import "time"

// ReservationStatus is the lifecycle of a reservation:
// pending → confirmed → checked-in → checked-out, or cancelled at any
// point before check-in.
type ReservationStatus string

const (
	StatusPending    ReservationStatus = "pending"
	StatusConfirmed  ReservationStatus = "confirmed"
	StatusCheckedIn  ReservationStatus = "checked-in"
	StatusCheckedOut ReservationStatus = "checked-out"
	StatusCancelled  ReservationStatus = "cancelled"
)

// ActiveStatuses are the statuses that occupy a room.  Two reservations
// for the same room in any of these statuses must not overlap.
var ActiveStatuses = []ReservationStatus{StatusPending, StatusConfirmed, StatusCheckedIn}

// Active reports whether s occupies the room.
func (s ReservationStatus) Active() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCheckedIn:
		return true
	}
	return false
}

// Valid reports whether s is a known status.
func (s ReservationStatus) Valid() bool {
	return s.Active() || s == StatusCheckedOut || s == StatusCancelled
}

// Reservation represents a row in the `reservations` table.  The stay
// occupies the half-open range [CheckInDate, CheckOutDate): the checkout
// day is free for the next guest.
//
// Fields:
//  ID           – primary key (uuid).
//  RoomID       – reserved room.
//  GuestID      – guest holding the reservation.
//  CheckInDate  – first night, midnight UTC.
//  CheckOutDate – departure day, midnight UTC, strictly after CheckInDate.
//  Status       – lifecycle status.
//  TotalAmount  – charge for the stay (nullable).
//  Notes        – special requests or staff notes.
type Reservation struct {
	ID           string            // reservations.id
	RoomID       string            // reservations.room_id
	GuestID      string            // reservations.guest_id
	CheckInDate  time.Time         // reservations.check_in_date
	CheckOutDate time.Time         // reservations.check_out_date
	Status       ReservationStatus // reservations.status
	TotalAmount  *Money            // reservations.total_amount (nullable)
	Notes        *string           // reservations.notes (nullable)
	CreatedAt    time.Time         // reservations.created_at
	UpdatedAt    time.Time         // reservations.updated_at
}
