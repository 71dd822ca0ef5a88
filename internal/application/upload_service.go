package application

import (
	"bytes"
	"context"
	"io"
	"path"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// ObjectStore persists an object and returns its public URL.
type ObjectStore interface {
	Put(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error)
}

type UploadResult struct {
	URL      string `json:"url"`
	PublicID string `json:"public_id"`
}

var imageTypes = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

type UploadService struct {
	Store    ObjectStore
	MaxBytes int64
}

func NewUploadService(store ObjectStore, maxBytes int64) *UploadService {
	return &UploadService{Store: store, MaxBytes: maxBytes}
}

// UploadImage sniffs r, rejects anything that is not a supported image and
// stores it under posts/<userID>/.
func (s *UploadService) UploadImage(ctx context.Context, userID string, r io.Reader) (*UploadResult, error) {
	if s.Store == nil {
		return nil, ErrUploadUnavailable
	}
	data, err := io.ReadAll(io.LimitReader(r, s.MaxBytes+1))
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, ErrNoImage
	}
	if int64(len(data)) > s.MaxBytes {
		return nil, ErrImageTooLarge
	}

	mt := mimetype.Detect(data)
	var contentType, ext string
	for candidate, e := range imageTypes {
		if mt.Is(candidate) {
			contentType, ext = candidate, e
			break
		}
	}
	if contentType == "" {
		return nil, ErrUnsupportedImage
	}

	objectPath := path.Join("posts", userID, uuid.NewString()+ext)
	url, err := s.Store.Put(ctx, objectPath, contentType, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return &UploadResult{URL: url, PublicID: objectPath}, nil
}
