package handler

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotelhub-pms/internal/model"
	"github.com/iliyamo/hotelhub-pms/internal/repository"
	"github.com/iliyamo/hotelhub-pms/internal/service"
)

// BlobStore keeps photo files.  service.CloudinaryPhotoStore implements it.
type BlobStore interface {
	Upload(ctx context.Context, r io.Reader, publicID string) (service.UploadedPhoto, error)
	Destroy(ctx context.Context, publicID string) error
}

// PhotoHandler attaches images to rooms.  Blobs may be nil when no media
// store is configured; the endpoints then answer 503.
type PhotoHandler struct {
	Rooms  *repository.RoomRepo
	Photos *repository.PhotoRepo
	Blobs  BlobStore
}

func NewPhotoHandler(rooms *repository.RoomRepo, photos *repository.PhotoRepo, blobs BlobStore) *PhotoHandler {
	if rooms == nil || photos == nil {
		panic("nil repository passed to NewPhotoHandler")
	}
	return &PhotoHandler{Rooms: rooms, Photos: photos, Blobs: blobs}
}

const maxPhotosPerUpload = 10

// Upload handles POST /v1/rooms/:id/photos with multipart field photos[].
// A blob whose row cannot be saved is destroyed again.
func (h *PhotoHandler) Upload(c echo.Context) error {
	if h.Blobs == nil {
		return fail(c, http.StatusServiceUnavailable, "photo storage is not configured")
	}
	form, err := c.MultipartForm()
	if err != nil {
		return fail(c, http.StatusBadRequest, "multipart form required")
	}
	files := form.File["photos[]"]
	if len(files) == 0 {
		files = form.File["photos"]
	}
	if len(files) == 0 {
		return fail(c, http.StatusBadRequest, "no photos uploaded")
	}
	if len(files) > maxPhotosPerUpload {
		return fail(c, http.StatusBadRequest, "too many photos in one upload")
	}

	// Uploads can be slow; they get their own budget rather than dbTimeout.
	ctx, cancel := context.WithTimeout(c.Request().Context(), time.Minute)
	defer cancel()

	rm, err := h.Rooms.GetByID(ctx, c.Param("id"))
	if err != nil {
		return failRepo(c, err, "room")
	}

	at := time.Now()
	saved := make([]photoView, 0, len(files))
	for i, fh := range files {
		f, err := fh.Open()
		if err != nil {
			return fail(c, http.StatusBadRequest, "unreadable upload "+fh.Filename)
		}
		blob, err := h.Blobs.Upload(ctx, f, service.PhotoPublicID(rm.RoomNumber, at, i))
		f.Close()
		if err != nil {
			c.Logger().Errorf("photo upload %s: %v", fh.Filename, err)
			return c.JSON(http.StatusBadGateway, echo.Map{"error": "photo upload failed", "photos": saved})
		}
		p := model.RoomPhoto{RoomID: rm.ID, PhotoURL: blob.URL, FilePath: blob.PublicID}
		if err := h.Photos.Create(ctx, &p); err != nil {
			if derr := h.Blobs.Destroy(context.WithoutCancel(ctx), blob.PublicID); derr != nil {
				c.Logger().Errorf("photo cleanup %s: %v", blob.PublicID, derr)
			}
			return failRepo(c, err, "room photo")
		}
		p.CreatedAt = at.UTC()
		saved = append(saved, toPhotoView(p))
	}
	return c.JSON(http.StatusCreated, echo.Map{"photos": saved})
}

// Delete handles DELETE /v1/rooms/:id/photos/:photoId.
func (h *PhotoHandler) Delete(c echo.Context) error {
	if h.Blobs == nil {
		return fail(c, http.StatusServiceUnavailable, "photo storage is not configured")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	p, err := h.Photos.Get(ctx, c.Param("id"), c.Param("photoId"))
	if err != nil {
		return failRepo(c, err, "room photo")
	}
	if err := h.Blobs.Destroy(ctx, p.FilePath); err != nil {
		c.Logger().Errorf("photo destroy %s: %v", p.FilePath, err)
		return fail(c, http.StatusBadGateway, "photo delete failed")
	}
	if err := h.Photos.Delete(ctx, p.ID); err != nil {
		return failRepo(c, err, "room photo")
	}
	return c.NoContent(http.StatusNoContent)
}
