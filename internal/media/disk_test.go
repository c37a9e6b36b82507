package media_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/tripora/tripora/internal/domain"
	"github.com/tripora/tripora/internal/media"
)

// Compile-time interface checks for both stores.
var (
	_ domain.MediaStore = (*media.DiskStore)(nil)
	_ domain.MediaStore = (*media.CloudinaryStore)(nil)
)

var jpegBytes = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 0x4A, 0x46, 0x49, 0x46}

func newTestStore(t *testing.T) *media.DiskStore {
	t.Helper()
	store, err := media.NewDiskStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewDiskStore: %v", err)
	}
	return store
}

func TestDiskStore_SaveAndGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	ref, err := store.Save(ctx, "beach.jpg", "image/jpeg", jpegBytes)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if ref == "" {
		t.Fatal("expected non-empty reference")
	}
	if !strings.HasSuffix(ref, "beach.jpg") {
		t.Fatalf("expected reference to keep the original base name, got %q", ref)
	}

	data, contentType, err := store.Get(ctx, ref)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(data) != len(jpegBytes) {
		t.Fatalf("expected %d bytes, got %d", len(jpegBytes), len(data))
	}
	if contentType != "image/jpeg" {
		t.Fatalf("expected image/jpeg, got %q", contentType)
	}
}

func TestDiskStore_SaveSanitizesFilename(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	ref, err := store.Save(ctx, "../../etc/pa sswd?.jpg", "image/jpeg", jpegBytes)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if strings.ContainsAny(ref, "/\\? ") {
		t.Fatalf("expected filename-safe reference, got %q", ref)
	}
}

func TestDiskStore_UniqueRefsForSameName(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	ref1, err := store.Save(ctx, "same.jpg", "image/jpeg", jpegBytes)
	if err != nil {
		t.Fatalf("Save 1: %v", err)
	}
	ref2, err := store.Save(ctx, "same.jpg", "image/jpeg", jpegBytes)
	if err != nil {
		t.Fatalf("Save 2: %v", err)
	}
	if ref1 == ref2 {
		t.Fatalf("expected distinct references, both were %q", ref1)
	}
}

func TestDiskStore_GetUnknownRef(t *testing.T) {
	store := newTestStore(t)

	_, _, err := store.Get(context.Background(), "no-such-ref.jpg")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDiskStore_GetRejectsTraversal(t *testing.T) {
	store := newTestStore(t)

	_, _, err := store.Get(context.Background(), "../secret")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for traversal ref, got %v", err)
	}
}

func TestDiskStore_Delete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	ref, err := store.Save(ctx, "gone.jpg", "image/jpeg", jpegBytes)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	if err := store.Delete(ctx, ref); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, _, err := store.Get(ctx, ref); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}

	// Deleting an unknown reference is not an error.
	if err := store.Delete(ctx, "already-gone.jpg"); err != nil {
		t.Fatalf("Delete unknown ref: %v", err)
	}
}
