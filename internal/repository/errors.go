// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers and the booking engine to distinguish between different
// failure scenarios without inspecting driver errors.
package repository

import "errors"

// ErrNotFound is returned when a row addressed by id (or another unique
// key) does not exist.  Handlers translate it into HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when an update cannot be performed because of
// the row's current state, such as checking out a reservation that was
// never checked in, or a duplicate room number.  Handlers translate it
// into HTTP 409.
var ErrConflict = errors.New("conflict")

// ErrOverlap is returned by ReservationRepo.Create when the database
// itself rejects an overlapping active reservation (the Postgres
// exclusion constraint).
var ErrOverlap = errors.New("overlapping reservation")

// ErrEmailExists is returned when creating a staff user whose email is
// already registered.
var ErrEmailExists = errors.New("email already exists")
