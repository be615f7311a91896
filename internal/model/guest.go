package model

import "time"

// Guest represents a row in the `guests` table.  Guests are created on
// their first booking and reused when a later booking supplies the same
// email.  The booking engine never deletes or edits an existing guest.
//
// Fields:
//  ID         – primary key (uuid).
//  Name       – required display name.
//  Email      – optional; the only deduplication key.
//  Phone      – optional.
//  TotalStays – number of completed stays, bumped on check-out.
//  LastVisit  – time of the last check-out.
//  Notes      – optional staff notes.
type Guest struct {
	ID         string     // guests.id
	Name       string     // guests.name
	Email      *string    // guests.email (nullable)
	Phone      *string    // guests.phone (nullable)
	TotalStays int        // guests.total_stays
	LastVisit  *time.Time // guests.last_visit (nullable)
	Notes      *string    // guests.notes (nullable)
	CreatedAt  time.Time  // guests.created_at
	UpdatedAt  time.Time  // guests.updated_at
}
