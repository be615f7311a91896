package handler

import (
	"time"

	"github.com/iliyamo/hotelhub-pms/internal/booking"
	"github.com/iliyamo/hotelhub-pms/internal/model"
)

// Response shapes.  Models carry no JSON tags; these views decide what
// leaves the API and in which case.

type roomView struct {
	ID            string           `json:"id"`
	RoomNumber    string           `json:"roomNumber"`
	RoomType      model.RoomType   `json:"roomType"`
	PricePerNight model.Money      `json:"pricePerNight"`
	Status        model.RoomStatus `json:"status"`
	Description   *string          `json:"description,omitempty"`
	Photos        []photoView      `json:"photos,omitempty"`
	CreatedAt     time.Time        `json:"createdAt"`
	UpdatedAt     time.Time        `json:"updatedAt"`
}

func toRoomView(rm model.Room) roomView {
	return roomView{
		ID:            rm.ID,
		RoomNumber:    rm.RoomNumber,
		RoomType:      rm.RoomType,
		PricePerNight: rm.PricePerNight,
		Status:        rm.Status,
		Description:   rm.Description,
		CreatedAt:     rm.CreatedAt,
		UpdatedAt:     rm.UpdatedAt,
	}
}

type photoView struct {
	ID        string    `json:"id"`
	RoomID    string    `json:"roomId"`
	PhotoURL  string    `json:"photoUrl"`
	CreatedAt time.Time `json:"createdAt"`
}

func toPhotoView(p model.RoomPhoto) photoView {
	return photoView{ID: p.ID, RoomID: p.RoomID, PhotoURL: p.PhotoURL, CreatedAt: p.CreatedAt}
}

type guestView struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Email      *string    `json:"email,omitempty"`
	Phone      *string    `json:"phone,omitempty"`
	TotalStays int        `json:"totalStays"`
	LastVisit  *time.Time `json:"lastVisit,omitempty"`
	Notes      *string    `json:"notes,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
}

func toGuestView(g model.Guest) guestView {
	return guestView{
		ID:         g.ID,
		Name:       g.Name,
		Email:      g.Email,
		Phone:      g.Phone,
		TotalStays: g.TotalStays,
		LastVisit:  g.LastVisit,
		Notes:      g.Notes,
		CreatedAt:  g.CreatedAt,
	}
}

type reservationView struct {
	ID           string                  `json:"id"`
	RoomID       string                  `json:"roomId"`
	GuestID      string                  `json:"guestId"`
	CheckInDate  string                  `json:"checkInDate"`
	CheckOutDate string                  `json:"checkOutDate"`
	Nights       int                     `json:"nights"`
	Status       model.ReservationStatus `json:"status"`
	TotalAmount  *model.Money            `json:"totalAmount,omitempty"`
	Notes        *string                 `json:"notes,omitempty"`
	CreatedAt    time.Time               `json:"createdAt"`
	UpdatedAt    time.Time               `json:"updatedAt"`
}

func toReservationView(r model.Reservation) reservationView {
	return reservationView{
		ID:           r.ID,
		RoomID:       r.RoomID,
		GuestID:      r.GuestID,
		CheckInDate:  r.CheckInDate.Format(booking.DateLayout),
		CheckOutDate: r.CheckOutDate.Format(booking.DateLayout),
		Nights:       booking.Nights(r.CheckInDate, r.CheckOutDate),
		Status:       r.Status,
		TotalAmount:  r.TotalAmount,
		Notes:        r.Notes,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}
