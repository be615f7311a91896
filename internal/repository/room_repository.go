package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/iliyamo/hotelhub-pms/internal/database"
	"github.com/iliyamo/hotelhub-pms/internal/model"
)

// RoomRepo provides CRUD operations for rooms.  Rooms are never deleted;
// they are retired by moving them to maintenance.
type RoomRepo struct {
	db *database.DB
}

// NewRoomRepo returns a new RoomRepo bound to the given database.
func NewRoomRepo(db *database.DB) *RoomRepo { return &RoomRepo{db: db} }

// DB exposes the underlying pool so handlers can open transactions that
// span several repositories.
func (r *RoomRepo) DB() *database.DB { return r.db }

// RoomFilter narrows List.  Zero values mean "any".
type RoomFilter struct {
	Status model.RoomStatus
	Type   model.RoomType
}

const roomColumns = "id, room_number, room_type, price_per_night, status, description, created_at, updated_at"

func scanRoom(s rowScanner) (model.Room, error) {
	var (
		rm   model.Room
		desc sql.NullString
	)
	err := s.Scan(&rm.ID, &rm.RoomNumber, &rm.RoomType, &rm.PricePerNight, &rm.Status, &desc, &rm.CreatedAt, &rm.UpdatedAt)
	rm.Description = strPtr(desc)
	return rm, err
}

// GetByID fetches a room by id.  It returns ErrNotFound when no row exists.
func (r *RoomRepo) GetByID(ctx context.Context, id string) (model.Room, error) {
	rm, err := scanRoom(r.db.QueryRowContext(ctx,
		r.db.Rebind("SELECT "+roomColumns+" FROM rooms WHERE id=?"), id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Room{}, ErrNotFound
	}
	return rm, err
}

// GetByNumber fetches a room by its display number.
func (r *RoomRepo) GetByNumber(ctx context.Context, number string) (model.Room, error) {
	rm, err := scanRoom(r.db.QueryRowContext(ctx,
		r.db.Rebind("SELECT "+roomColumns+" FROM rooms WHERE room_number=?"), strings.TrimSpace(number)))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Room{}, ErrNotFound
	}
	return rm, err
}

// List returns rooms ordered by room number.
func (r *RoomRepo) List(ctx context.Context, f RoomFilter) ([]model.Room, error) {
	q := "SELECT " + roomColumns + " FROM rooms"
	var (
		where []string
		args  []any
	)
	if f.Status != "" {
		where = append(where, "status=?")
		args = append(args, string(f.Status))
	}
	if f.Type != "" {
		where = append(where, "room_type=?")
		args = append(args, string(f.Type))
	}
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY room_number"

	rows, err := r.db.QueryContext(ctx, r.db.Rebind(q), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Room
	for rows.Next() {
		rm, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rm)
	}
	return out, rows.Err()
}

// Create inserts a room, assigning a fresh id when rm.ID is empty.  A
// duplicate room number yields ErrConflict.
func (r *RoomRepo) Create(ctx context.Context, rm *model.Room) error {
	if rm.ID == "" {
		rm.ID = uuid.NewString()
	}
	if rm.Status == "" {
		rm.Status = model.RoomAvailable
	}
	_, err := r.db.ExecContext(ctx,
		r.db.Rebind("INSERT INTO rooms (id, room_number, room_type, price_per_night, status, description) VALUES (?,?,?,?,?,?)"),
		rm.ID, rm.RoomNumber, string(rm.RoomType), rm.PricePerNight, string(rm.Status), nullable(rm.Description))
	if database.IsDuplicate(err) {
		return ErrConflict
	}
	return err
}

// Update writes every editable column of rm.
func (r *RoomRepo) Update(ctx context.Context, rm model.Room) error {
	res, err := r.db.ExecContext(ctx,
		r.db.Rebind("UPDATE rooms SET room_number=?, room_type=?, price_per_night=?, status=?, description=?, updated_at=CURRENT_TIMESTAMP WHERE id=?"),
		rm.RoomNumber, string(rm.RoomType), rm.PricePerNight, string(rm.Status), nullable(rm.Description), rm.ID)
	if database.IsDuplicate(err) {
		return ErrConflict
	}
	if err != nil {
		return err
	}
	return expectOne(res)
}

// UpdateStatus sets the housekeeping status of a room.
func (r *RoomRepo) UpdateStatus(ctx context.Context, id string, status model.RoomStatus) error {
	res, err := r.db.ExecContext(ctx,
		r.db.Rebind("UPDATE rooms SET status=?, updated_at=CURRENT_TIMESTAMP WHERE id=?"),
		string(status), id)
	if err != nil {
		return err
	}
	return expectOne(res)
}

// UpdateStatusFrom sets the status of a room only while it is still from.
// It reports whether the row changed; false covers both a missing room and
// one whose status has since been changed by someone else.
func (r *RoomRepo) UpdateStatusFrom(ctx context.Context, id string, from, to model.RoomStatus) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		r.db.Rebind("UPDATE rooms SET status=?, updated_at=CURRENT_TIMESTAMP WHERE id=? AND status=?"),
		string(to), id, string(from))
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// UpdateStatusTx is UpdateStatus inside an existing transaction.
func (r *RoomRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, id string, status model.RoomStatus) error {
	res, err := tx.ExecContext(ctx,
		r.db.Rebind("UPDATE rooms SET status=?, updated_at=CURRENT_TIMESTAMP WHERE id=?"),
		string(status), id)
	if err != nil {
		return err
	}
	return expectOne(res)
}

// Upsert creates the room or, when the room number already exists,
// overwrites its type, price, status and description.  Used by the seeder.
func (r *RoomRepo) Upsert(ctx context.Context, rm *model.Room) (created bool, err error) {
	existing, err := r.GetByNumber(ctx, rm.RoomNumber)
	if errors.Is(err, ErrNotFound) {
		return true, r.Create(ctx, rm)
	}
	if err != nil {
		return false, err
	}
	rm.ID = existing.ID
	if rm.Status == "" {
		rm.Status = existing.Status
	}
	return false, r.Update(ctx, *rm)
}

// expectOne turns a zero-row update into ErrNotFound.  The MySQL DSN sets
// clientFoundRows so rewriting identical values still counts as a match.
func expectOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
