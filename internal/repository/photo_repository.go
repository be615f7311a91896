package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/iliyamo/hotelhub-pms/internal/database"
	"github.com/iliyamo/hotelhub-pms/internal/model"
)

// PhotoRepo persists room photo attachments.  The image itself lives in
// the blob store; FilePath holds its public id.
type PhotoRepo struct {
	db *database.DB
}

func NewPhotoRepo(db *database.DB) *PhotoRepo { return &PhotoRepo{db: db} }

// ListByRoom returns the photos of a room, newest first.
func (r *PhotoRepo) ListByRoom(ctx context.Context, roomID string) ([]model.RoomPhoto, error) {
	rows, err := r.db.QueryContext(ctx,
		r.db.Rebind("SELECT id, room_id, photo_url, file_path, created_at FROM room_photos WHERE room_id=? ORDER BY created_at DESC, id"),
		roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.RoomPhoto
	for rows.Next() {
		var p model.RoomPhoto
		if err := rows.Scan(&p.ID, &p.RoomID, &p.PhotoURL, &p.FilePath, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Get fetches one photo of a room.
func (r *PhotoRepo) Get(ctx context.Context, roomID, photoID string) (model.RoomPhoto, error) {
	var p model.RoomPhoto
	err := r.db.QueryRowContext(ctx,
		r.db.Rebind("SELECT id, room_id, photo_url, file_path, created_at FROM room_photos WHERE id=? AND room_id=?"),
		photoID, roomID).Scan(&p.ID, &p.RoomID, &p.PhotoURL, &p.FilePath, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.RoomPhoto{}, ErrNotFound
	}
	return p, err
}

// Create inserts a photo row and assigns its id.
func (r *PhotoRepo) Create(ctx context.Context, p *model.RoomPhoto) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx,
		r.db.Rebind("INSERT INTO room_photos (id, room_id, photo_url, file_path) VALUES (?,?,?,?)"),
		p.ID, p.RoomID, p.PhotoURL, p.FilePath)
	return err
}

// Delete removes a photo row.
func (r *PhotoRepo) Delete(ctx context.Context, photoID string) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind("DELETE FROM room_photos WHERE id=?"), photoID)
	if err != nil {
		return err
	}
	return expectOne(res)
}
