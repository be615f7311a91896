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

// GuestRepo persists guests.  Guests are never deleted.
type GuestRepo struct {
	db *database.DB
}

func NewGuestRepo(db *database.DB) *GuestRepo { return &GuestRepo{db: db} }

const guestColumns = "id, name, email, phone, total_stays, last_visit, notes, created_at, updated_at"

func scanGuest(s rowScanner) (model.Guest, error) {
	var (
		g                   model.Guest
		email, phone, notes sql.NullString
		lastVisit           sql.NullTime
	)
	err := s.Scan(&g.ID, &g.Name, &email, &phone, &g.TotalStays, &lastVisit, &notes, &g.CreatedAt, &g.UpdatedAt)
	g.Email = strPtr(email)
	g.Phone = strPtr(phone)
	g.Notes = strPtr(notes)
	g.LastVisit = timePtr(lastVisit)
	return g, err
}

// GetByID fetches a guest by id.
func (r *GuestRepo) GetByID(ctx context.Context, id string) (model.Guest, error) {
	g, err := scanGuest(r.db.QueryRowContext(ctx,
		r.db.Rebind("SELECT "+guestColumns+" FROM guests WHERE id=?"), id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Guest{}, ErrNotFound
	}
	return g, err
}

// FindByEmail returns the oldest guest whose email matches exactly, or nil
// when there is none.  Legacy data may hold several rows per email; the
// earliest one is the canonical record.
func (r *GuestRepo) FindByEmail(ctx context.Context, email string) (*model.Guest, error) {
	q, args := emailLookup(r.db.Dialect, strings.TrimSpace(email))
	g, err := scanGuest(r.db.QueryRowContext(ctx, q, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// emailLookup builds the FindByEmail query.  MySQL's default collation
// compares case-insensitively, so there the indexed comparison only narrows
// the rows and BINARY makes the match exact, as it is on Postgres.
func emailLookup(d database.Dialect, email string) (string, []any) {
	const order = " ORDER BY created_at, id LIMIT 1"
	if d == database.MySQL {
		return "SELECT " + guestColumns + " FROM guests WHERE email=? AND BINARY email=?" + order, []any{email, email}
	}
	return d.Rebind("SELECT " + guestColumns + " FROM guests WHERE email=?" + order), []any{email}
}

// List returns all guests ordered by name.
func (r *GuestRepo) List(ctx context.Context) ([]model.Guest, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+guestColumns+" FROM guests ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Guest
	for rows.Next() {
		g, err := scanGuest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// Create inserts a guest and assigns its id.
func (r *GuestRepo) Create(ctx context.Context, g *model.Guest) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx,
		r.db.Rebind("INSERT INTO guests (id, name, email, phone, notes) VALUES (?,?,?,?,?)"),
		g.ID, g.Name, nullable(g.Email), nullable(g.Phone), nullable(g.Notes))
	return err
}

// RecordStayTx bumps the stay counter and last visit of a guest at
// check-out, inside the check-out transaction.
func (r *GuestRepo) RecordStayTx(ctx context.Context, tx *sql.Tx, id string, at time.Time) error {
	res, err := tx.ExecContext(ctx,
		r.db.Rebind("UPDATE guests SET total_stays=total_stays+1, last_visit=?, updated_at=CURRENT_TIMESTAMP WHERE id=?"),
		at.UTC(), id)
	if err != nil {
		return err
	}
	return expectOne(res)
}
