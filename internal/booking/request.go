package booking

import (
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/iliyamo/hotelhub-pms/internal/apperr"
	"github.com/iliyamo/hotelhub-pms/internal/model"
)

// DateLayout is the wire format of check-in and check-out dates.
const DateLayout = "2006-01-02"

// Request is the booking input shared by the staff form and the voice
// agent.  Optional fields are empty when absent.
type Request struct {
	GuestName       string   `json:"guestName" validate:"required"`
	GuestEmail      string   `json:"guestEmail,omitempty"`
	GuestPhone      string   `json:"guestPhone,omitempty"`
	RoomID          string   `json:"roomId" validate:"required"`
	CheckInDate     string   `json:"checkInDate" validate:"required"`
	CheckOutDate    string   `json:"checkOutDate" validate:"required"`
	SpecialRequests string   `json:"specialRequests,omitempty"`
	TotalAmount     *float64 `json:"totalAmount,omitempty"`

	// Source names the channel the request came from ("staff", "agent",
	// "cli").  It is carried into the confirmation only.
	Source string `json:"-"`
}

// Result is the booking output returned to every caller.
type Result struct {
	Success       bool   `json:"success"`
	ReservationID string `json:"reservationId,omitempty"`
	Error         string `json:"error,omitempty"`
}

var validate = validator.New()

// stay is a validated Request.
type stay struct {
	guestName  string
	guestEmail string
	guestPhone string
	roomID     string
	checkIn    time.Time
	checkOut   time.Time
	notes      string
	total      model.Money // zero when not supplied
}

// normalize trims every field, checks presence and parses the dates.  It
// never touches the data store.
func (r Request) normalize() (stay, error) {
	r.GuestName = strings.TrimSpace(r.GuestName)
	r.GuestEmail = strings.TrimSpace(r.GuestEmail)
	r.GuestPhone = strings.TrimSpace(r.GuestPhone)
	r.RoomID = strings.TrimSpace(r.RoomID)
	r.CheckInDate = strings.TrimSpace(r.CheckInDate)
	r.CheckOutDate = strings.TrimSpace(r.CheckOutDate)
	r.SpecialRequests = strings.TrimSpace(r.SpecialRequests)

	if err := validate.Struct(r); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, jsonName(fe.Field()))
			}
			return stay{}, apperr.New(apperr.MissingField,
				"Missing required reservation information: "+strings.Join(fields, ", "))
		}
		return stay{}, apperr.Wrap(apperr.MissingField, "Missing required reservation information", err)
	}

	in, err1 := ParseDate(r.CheckInDate)
	out, err2 := ParseDate(r.CheckOutDate)
	if err1 != nil || err2 != nil {
		return stay{}, apperr.New(apperr.InvalidDateRange, "Invalid date format, expected YYYY-MM-DD")
	}
	if !out.After(in) {
		return stay{}, apperr.New(apperr.InvalidDateRange, "Check-out date must be after check-in date")
	}

	s := stay{
		guestName:  r.GuestName,
		guestEmail: r.GuestEmail,
		guestPhone: r.GuestPhone,
		roomID:     r.RoomID,
		checkIn:    in,
		checkOut:   out,
		notes:      r.SpecialRequests,
	}
	if r.TotalAmount != nil && *r.TotalAmount > 0 {
		s.total = model.MoneyFromFloat(*r.TotalAmount)
		if s.total > model.MaxMoney {
			return stay{}, apperr.New(apperr.MissingField, "Total amount must not exceed "+model.MaxMoney.String())
		}
	}
	return s, nil
}

// Validate runs the checks Book makes before it touches the data store.
// An empty RoomID is not reported, so callers that pick the room later can
// reject a bad request first.
func (r Request) Validate() error {
	if strings.TrimSpace(r.RoomID) == "" {
		r.RoomID = "unassigned"
	}
	_, err := r.normalize()
	return err
}

// ParseDate parses a YYYY-MM-DD calendar date as midnight UTC.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, strings.TrimSpace(s), time.UTC)
}

func jsonName(field string) string {
	switch field {
	case "GuestName":
		return "guestName"
	case "RoomID":
		return "roomId"
	case "CheckInDate":
		return "checkInDate"
	case "CheckOutDate":
		return "checkOutDate"
	}
	return field
}
