// Package media provides the MediaStore implementations: a disk-backed
// store serving files from a content root, and a Cloudinary-backed
// store for deployments that offload images to the CDN.
package media

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/tripora/tripora/internal/domain"
)

// DiskStore persists uploaded files under a content root directory.
// References are flat filenames; retrieval happens through Get or by
// serving the root as a static path.
type DiskStore struct {
	root string
}

// NewDiskStore creates the content root if needed and returns a store
// writing into it.
func NewDiskStore(root string) (*DiskStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create content root: %w", err)
	}
	return &DiskStore{root: root}, nil
}

func (s *DiskStore) Save(ctx context.Context, filename, contentType string, data []byte) (string, error) {
	prefix := make([]byte, 8)
	if _, err := rand.Read(prefix); err != nil {
		return "", fmt.Errorf("generate reference: %w", err)
	}

	ref := hex.EncodeToString(prefix) + "-" + sanitizeFilename(filename)
	if err := os.WriteFile(filepath.Join(s.root, ref), data, 0o644); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}
	return ref, nil
}

func (s *DiskStore) Get(ctx context.Context, ref string) ([]byte, string, error) {
	// References are flat; reject anything trying to walk out of the root.
	if ref != filepath.Base(ref) || strings.HasPrefix(ref, ".") {
		return nil, "", domain.ErrNotFound
	}

	data, err := os.ReadFile(filepath.Join(s.root, ref))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, "", domain.ErrNotFound
		}
		return nil, "", fmt.Errorf("read file: %w", err)
	}
	return data, http.DetectContentType(data), nil
}

func (s *DiskStore) Delete(ctx context.Context, ref string) error {
	if ref != filepath.Base(ref) {
		return nil
	}
	err := os.Remove(filepath.Join(s.root, ref))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove file: %w", err)
	}
	return nil
}

// sanitizeFilename reduces an uploaded filename to a filename-safe
// base: path separators stripped, anything outside [a-zA-Z0-9._-]
// replaced.
func sanitizeFilename(name string) string {
	base := filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if base == "." || base == ".." || base == "/" || base == "" {
		return "upload"
	}

	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '.', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	out := b.String()
	if strings.Trim(out, "._") == "" {
		return "upload"
	}
	return out
}
