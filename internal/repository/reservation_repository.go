package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/hotelhub-pms/internal/database"
	"github.com/iliyamo/hotelhub-pms/internal/model"
)

// ReservationRepo provides CRUD operations for reservations.  Check-in and
// check-out dates are DATE columns and are returned as midnight UTC.
type ReservationRepo struct {
	db *database.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *database.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// DB exposes the pool for handlers that run status transitions in a
// transaction.
func (r *ReservationRepo) DB() *database.DB { return r.db }

// ReservationFilter narrows List.  Zero values mean "any".
type ReservationFilter struct {
	Status  model.ReservationStatus
	RoomID  string
	GuestID string
}

const reservationColumns = "id, room_id, guest_id, check_in_date, check_out_date, status, total_amount, notes, created_at, updated_at"

func scanReservation(s rowScanner) (model.Reservation, error) {
	var (
		res   model.Reservation
		total nullMoney
		notes sql.NullString
	)
	err := s.Scan(&res.ID, &res.RoomID, &res.GuestID, &res.CheckInDate, &res.CheckOutDate,
		&res.Status, &total, &notes, &res.CreatedAt, &res.UpdatedAt)
	res.CheckInDate = dateOnly(res.CheckInDate)
	res.CheckOutDate = dateOnly(res.CheckOutDate)
	res.TotalAmount = total.ptr()
	res.Notes = strPtr(notes)
	return res, err
}

func (r *ReservationRepo) query(ctx context.Context, q string, args ...any) ([]model.Reservation, error) {
	rows, err := r.db.QueryContext(ctx, r.db.Rebind(q), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

// Create inserts a reservation and assigns its id.  When the database
// enforces non-overlap itself (Postgres) a violation yields ErrOverlap.
func (r *ReservationRepo) Create(ctx context.Context, res *model.Reservation) error {
	if res.ID == "" {
		res.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx,
		r.db.Rebind("INSERT INTO reservations (id, room_id, guest_id, check_in_date, check_out_date, status, total_amount, notes) VALUES (?,?,?,?,?,?,?,?)"),
		res.ID, res.RoomID, res.GuestID, dateArg(res.CheckInDate), dateArg(res.CheckOutDate),
		string(res.Status), moneyArg(res.TotalAmount), nullable(res.Notes))
	if database.IsOverlap(err) {
		return ErrOverlap
	}
	return err
}

// GetByID fetches a reservation by id.
func (r *ReservationRepo) GetByID(ctx context.Context, id string) (model.Reservation, error) {
	res, err := scanReservation(r.db.QueryRowContext(ctx,
		r.db.Rebind("SELECT "+reservationColumns+" FROM reservations WHERE id=?"), id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Reservation{}, ErrNotFound
	}
	return res, err
}

// List returns reservations ordered by check-in date, newest first.
func (r *ReservationRepo) List(ctx context.Context, f ReservationFilter) ([]model.Reservation, error) {
	q := "SELECT " + reservationColumns + " FROM reservations"
	var (
		where []string
		args  []any
	)
	if f.Status != "" {
		where = append(where, "status=?")
		args = append(args, string(f.Status))
	}
	if f.RoomID != "" {
		where = append(where, "room_id=?")
		args = append(args, f.RoomID)
	}
	if f.GuestID != "" {
		where = append(where, "guest_id=?")
		args = append(args, f.GuestID)
	}
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY check_in_date DESC, created_at DESC"
	return r.query(ctx, q, args...)
}

// ListActiveByRoom returns the reservations of a room whose status
// occupies it (pending, confirmed, checked-in).
func (r *ReservationRepo) ListActiveByRoom(ctx context.Context, roomID string) ([]model.Reservation, error) {
	args := append([]any{roomID}, statusArgs(model.ActiveStatuses)...)
	return r.query(ctx,
		"SELECT "+reservationColumns+" FROM reservations WHERE room_id=? AND status IN ("+placeholders(len(model.ActiveStatuses))+") ORDER BY check_in_date",
		args...)
}

// ListActiveOn returns active reservations whose stay covers day, i.e.
// check_in_date <= day < check_out_date.
func (r *ReservationRepo) ListActiveOn(ctx context.Context, day time.Time) ([]model.Reservation, error) {
	d := dateArg(day)
	args := append([]any{d, d}, statusArgs(model.ActiveStatuses)...)
	return r.query(ctx,
		"SELECT "+reservationColumns+" FROM reservations WHERE check_in_date<=? AND check_out_date>? AND status IN ("+placeholders(len(model.ActiveStatuses))+")",
		args...)
}

// TransitionTx moves a reservation to status `to`, provided its current
// status is one of `from`.  The row is locked for the rest of the
// transaction.  It returns ErrNotFound for an unknown id and ErrConflict
// when the current status does not allow the move.
func (r *ReservationRepo) TransitionTx(ctx context.Context, tx *sql.Tx, id string, to model.ReservationStatus, from ...model.ReservationStatus) (model.Reservation, error) {
	res, err := scanReservation(tx.QueryRowContext(ctx,
		r.db.Rebind("SELECT "+reservationColumns+" FROM reservations WHERE id=? FOR UPDATE"), id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Reservation{}, ErrNotFound
	}
	if err != nil {
		return model.Reservation{}, err
	}
	allowed := false
	for _, s := range from {
		if res.Status == s {
			allowed = true
			break
		}
	}
	if !allowed {
		return res, ErrConflict
	}
	if _, err := tx.ExecContext(ctx,
		r.db.Rebind("UPDATE reservations SET status=?, updated_at=CURRENT_TIMESTAMP WHERE id=?"),
		string(to), id); err != nil {
		return res, err
	}
	res.Status = to
	return res, nil
}

func dateOnly(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
