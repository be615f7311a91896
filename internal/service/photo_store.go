package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/gosimple/slug"

	"github.com/iliyamo/hotelhub-pms/internal/config"
)

// UploadedPhoto is where a stored photo lives.
type UploadedPhoto struct {
	URL      string
	PublicID string
}

// CloudinaryPhotoStore keeps room photos on Cloudinary.
type CloudinaryPhotoStore struct {
	cld    *cloudinary.Cloudinary
	folder string
}

func NewCloudinaryPhotoStore(cfg config.MediaConfig) (*CloudinaryPhotoStore, error) {
	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("cloudinary init: %w", err)
	}
	return &CloudinaryPhotoStore{cld: cld, folder: cfg.Folder}, nil
}

// PhotoPublicID names the i-th photo of a batch for a room, e.g.
// "room-101-1700000000000-0".
func PhotoPublicID(roomNumber string, at time.Time, i int) string {
	return fmt.Sprintf("%s-%d-%d", slug.Make("room "+roomNumber), at.UnixMilli(), i)
}

func (s *CloudinaryPhotoStore) Upload(ctx context.Context, r io.Reader, publicID string) (UploadedPhoto, error) {
	res, err := s.cld.Upload.Upload(ctx, r, uploader.UploadParams{
		Folder:       s.folder,
		PublicID:     publicID,
		ResourceType: "image",
	})
	if err != nil {
		return UploadedPhoto{}, err
	}
	if res.Error.Message != "" {
		return UploadedPhoto{}, fmt.Errorf("cloudinary: %s", res.Error.Message)
	}
	return UploadedPhoto{URL: res.SecureURL, PublicID: res.PublicID}, nil
}

func (s *CloudinaryPhotoStore) Destroy(ctx context.Context, publicID string) error {
	invalidate := true
	res, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     publicID,
		ResourceType: "image",
		Invalidate:   &invalidate,
	})
	if err != nil {
		return err
	}
	if res.Error.Message != "" {
		return fmt.Errorf("cloudinary: %s", res.Error.Message)
	}
	return nil
}
