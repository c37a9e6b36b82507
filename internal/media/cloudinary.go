package media

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/tripora/tripora/internal/domain"
)

// CloudinaryStore uploads media to Cloudinary. The secure delivery URL
// doubles as the stored reference, so clients fetch images straight
// from the CDN and the local /media route never sees these refs.
type CloudinaryStore struct {
	cld    *cloudinary.Cloudinary
	folder string
}

// NewCloudinaryStore initializes the client from a cloudinary:// URL.
func NewCloudinaryStore(cloudURL, folder string) (*CloudinaryStore, error) {
	cld, err := cloudinary.NewFromURL(cloudURL)
	if err != nil {
		return nil, fmt.Errorf("cloudinary init: %w", err)
	}
	return &CloudinaryStore{cld: cld, folder: folder}, nil
}

func (s *CloudinaryStore) Save(ctx context.Context, filename, contentType string, data []byte) (string, error) {
	result, err := s.cld.Upload.Upload(ctx, bytes.NewReader(data), uploader.UploadParams{
		Folder: s.folder,
	})
	if err != nil {
		return "", fmt.Errorf("cloudinary upload: %w", err)
	}
	if result.Error.Message != "" {
		return "", fmt.Errorf("cloudinary upload: %s", result.Error.Message)
	}
	return result.SecureURL, nil
}

// Get is not served locally for CDN-hosted refs.
func (s *CloudinaryStore) Get(ctx context.Context, ref string) ([]byte, string, error) {
	return nil, "", domain.ErrNotFound
}

func (s *CloudinaryStore) Delete(ctx context.Context, ref string) error {
	publicID := publicIDFromURL(ref)
	if publicID == "" {
		return nil
	}
	if _, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID}); err != nil {
		return fmt.Errorf("cloudinary destroy: %w", err)
	}
	return nil
}

// publicIDFromURL recovers the public ID from a delivery URL:
// everything after the version segment, minus the file extension.
func publicIDFromURL(url string) string {
	parts := strings.Split(url, "/upload/")
	if len(parts) != 2 {
		return ""
	}
	path := parts[1]
	if i := strings.Index(path, "/"); i >= 0 && strings.HasPrefix(path, "v") {
		// Drop the "v<digits>" version segment if present.
		version := path[1:i]
		if version != "" && strings.Trim(version, "0123456789") == "" {
			path = path[i+1:]
		}
	}
	if i := strings.LastIndex(path, "."); i > 0 {
		path = path[:i]
	}
	return path
}
