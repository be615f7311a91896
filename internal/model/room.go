package model

import "time"

// RoomType is the sales category of a room.
type RoomType string

const (
	RoomStandard RoomType = "standard"
	RoomDeluxe   RoomType = "deluxe"
	RoomSuite    RoomType = "suite"
)

// Valid reports whether t is one of the known categories.
func (t RoomType) Valid() bool {
	switch t {
	case RoomStandard, RoomDeluxe, RoomSuite:
		return true
	}
	return false
}

// RoomStatus is the housekeeping lifecycle of a room.  It describes the
// room right now and is independent of future reservations.
type RoomStatus string

const (
	RoomAvailable   RoomStatus = "available"
	RoomOccupied    RoomStatus = "occupied"
	RoomCleaning    RoomStatus = "cleaning"
	RoomMaintenance RoomStatus = "maintenance"
)

// Valid reports whether s is one of the known statuses.
func (s RoomStatus) Valid() bool {
	switch s {
	case RoomAvailable, RoomOccupied, RoomCleaning, RoomMaintenance:
		return true
	}
	return false
}

// Room represents a row in the `rooms` table.
//
// Fields:
//  ID            – primary key (uuid).
//  RoomNumber    – unique display label such as "101".
//  RoomType      – standard, deluxe or suite.
//  PricePerNight – nightly rate, always positive.
//  Status        – current housekeeping status.
//  Description   – optional free text.
//  CreatedAt     – creation timestamp.
//  UpdatedAt     – last update timestamp.
type Room struct {
	ID            string     // rooms.id
	RoomNumber    string     // rooms.room_number
	RoomType      RoomType   // rooms.room_type
	PricePerNight Money      // rooms.price_per_night
	Status        RoomStatus // rooms.status
	Description   *string    // rooms.description (nullable)
	CreatedAt     time.Time  // rooms.created_at
	UpdatedAt     time.Time  // rooms.updated_at
}

// RoomPhoto is an image attached to a room.  FilePath holds the blob
// store's public id so the object can be destroyed with the row.
type RoomPhoto struct {
	ID        string    // room_photos.id
	RoomID    string    // room_photos.room_id
	PhotoURL  string    // room_photos.photo_url
	FilePath  string    // room_photos.file_path
	CreatedAt time.Time // room_photos.created_at
}
