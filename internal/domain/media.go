package domain

import "context"

// MediaStore abstracts persistence of uploaded file bytes. The disk
// implementation writes under a content root served at a static path;
// the Cloudinary implementation delegates to the CDN, in which case the
// returned reference is an absolute URL and Get is never used.
type MediaStore interface {
	// Save persists the bytes and returns a stable, filename-safe
	// reference usable by clients to retrieve the file later.
	Save(ctx context.Context, filename, contentType string, data []byte) (string, error)

	// Get returns the stored bytes and their content type, or
	// ErrNotFound.
	Get(ctx context.Context, ref string) ([]byte, string, error)

	// Delete removes the stored bytes. Deleting an unknown reference is
	// not an error.
	Delete(ctx context.Context, ref string) error
}
