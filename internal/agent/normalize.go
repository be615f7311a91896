package agent

import (
	"strconv"
	"strings"
	"time"

	"github.com/iliyamo/hotelhub-pms/internal/booking"
	"github.com/iliyamo/hotelhub-pms/internal/model"
)

type field int

const (
	fGuestName field = iota
	fGuestEmail
	fGuestPhone
	fRoomID
	fRoomNumber
	fRoomType
	fCheckIn
	fCheckOut
	fNotes
	fTotal
)

// aliases lists the keys accepted for each field, preferred spelling
// first.
var aliases = map[field][]string{
	fGuestName:  {"guestName", "guest_name", "name"},
	fGuestEmail: {"guestEmail", "guest_email", "email"},
	fGuestPhone: {"guestPhone", "guest_phone", "phone"},
	fRoomID:     {"roomId", "room_id"},
	fRoomNumber: {"roomNumber", "room_number"},
	fRoomType:   {"roomType", "room_type", "category"},
	fCheckIn:    {"checkInDate", "check_in_date", "check_in", "checkIn"},
	fCheckOut:   {"checkOutDate", "check_out_date", "check_out", "checkOut"},
	fNotes:      {"specialRequests", "special_requests", "notes"},
	fTotal:      {"totalAmount", "total_amount"},
}

// Draft is a normalized agent reservation.  Request may still lack a room
// id; RoomNumber and RoomType are the hints the matcher uses to fill it.
type Draft struct {
	Request    booking.Request
	RoomNumber string
	RoomType   model.RoomType
}

// Normalize maps f onto the booking contract.  It does not check for
// required fields; the booking engine does that.
func Normalize(f Fields) Draft {
	return Draft{
		Request: booking.Request{
			GuestName:       f.text(fGuestName),
			GuestEmail:      f.text(fGuestEmail),
			GuestPhone:      f.text(fGuestPhone),
			RoomID:          f.text(fRoomID),
			CheckInDate:     normalizeDate(f.text(fCheckIn)),
			CheckOutDate:    normalizeDate(f.text(fCheckOut)),
			SpecialRequests: f.text(fNotes),
			TotalAmount:     f.amount(fTotal),
			Source:          "agent",
		},
		RoomNumber: f.text(fRoomNumber),
		RoomType:   roomType(f.text(fRoomType)),
	}
}

func (f Fields) lookup(k field) (any, bool) {
	for _, key := range aliases[k] {
		if v, ok := f[key]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// text returns the field as a trimmed string.  Numbers are formatted
// without a trailing ".0" so a room number sent as 101 reads "101".
func (f Fields) text(k field) string {
	v, ok := f.lookup(k)
	if !ok {
		return ""
	}
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	}
	return ""
}

func (f Fields) amount(k field) *float64 {
	v, ok := f.lookup(k)
	if !ok {
		return nil
	}
	var n float64
	switch t := v.(type) {
	case float64:
		n = t
	case string:
		s := strings.TrimPrefix(strings.TrimSpace(t), "$")
		p, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
		if err != nil {
			return nil
		}
		n = p
	default:
		return nil
	}
	return &n
}

// normalizeDate rewrites an RFC 3339 timestamp to its calendar date.
// Anything else is returned unchanged for the engine to judge.
func normalizeDate(s string) string {
	if s == "" {
		return s
	}
	if _, err := time.Parse(booking.DateLayout, s); err == nil {
		return s
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.Format(booking.DateLayout)
	}
	return s
}

// roomType picks the first word of s that names a room category, so
// "Deluxe room" and "a suite please" both resolve.
func roomType(s string) model.RoomType {
	for _, w := range strings.Fields(strings.ToLower(s)) {
		w = strings.Trim(w, ".,;:!?\"'")
		w = strings.TrimSuffix(w, "s")
		if t := model.RoomType(w); t.Valid() {
			return t
		}
	}
	return ""
}
