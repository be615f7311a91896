// Package queue defines the messages exchanged over the broker and the
// consumers that handle them.
package queue

const (
	BookingConfirmedQueue = "booking.confirmed"
	RoomStatusRetryQueue  = "room.status.retry"
)

// BookingConfirmedEvent is published when a reservation is committed.  It
// carries enough for the consumers to log and mail without reading the
// database.  Dates are YYYY-MM-DD; ConfirmedAt is RFC 3339.
type BookingConfirmedEvent struct {
	ReservationID string `json:"reservation_id"`
	RoomID        string `json:"room_id"`
	RoomNumber    string `json:"room_number"`
	RoomType      string `json:"room_type"`
	GuestID       string `json:"guest_id"`
	GuestName     string `json:"guest_name"`
	GuestEmail    string `json:"guest_email,omitempty"`
	CheckInDate   string `json:"check_in_date"`
	CheckOutDate  string `json:"check_out_date"`
	Nights        int    `json:"nights"`
	TotalAmount   string `json:"total_amount"`
	Source        string `json:"source,omitempty"`
	ConfirmedAt   string `json:"confirmed_at"`
}

// RoomStatusEvent asks for a room status change that failed when it was
// first attempted.  The change applies only while the room is still in
// From ("available" when empty).  Attempt counts the failures so far.
type RoomStatusEvent struct {
	RoomID      string `json:"room_id"`
	From        string `json:"from,omitempty"`
	Status      string `json:"status"`
	Reason      string `json:"reason"`
	Attempt     int    `json:"attempt"`
	RequestedAt string `json:"requested_at"`
}
