package service

import (
	"context"
	"fmt"

	"github.com/tripora/tripora/internal/domain"
)

const maxUploadSize = 10 * 1024 * 1024 // 10MB

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// MediaService validates uploads before handing bytes to the store.
type MediaService struct {
	store domain.MediaStore
}

// NewMediaService creates a new MediaService.
func NewMediaService(store domain.MediaStore) *MediaService {
	return &MediaService{store: store}
}

// Upload validates content type and size, then persists the bytes and
// returns the stable reference.
func (s *MediaService) Upload(ctx context.Context, filename, contentType string, data []byte) (string, error) {
	if !allowedImageTypes[contentType] {
		return "", fmt.Errorf("%w: only JPEG, PNG and WebP images are accepted", domain.ErrInvalidInput)
	}
	if len(data) > maxUploadSize {
		return "", fmt.Errorf("%w: image exceeds 10MB limit", domain.ErrInvalidInput)
	}

	ref, err := s.store.Save(ctx, filename, contentType, data)
	if err != nil {
		return "", fmt.Errorf("save upload: %w", err)
	}
	return ref, nil
}

// Fetch returns stored bytes and their content type.
func (s *MediaService) Fetch(ctx context.Context, ref string) ([]byte, string, error) {
	return s.store.Get(ctx, ref)
}
