package service_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/tripora/tripora/internal/domain"
	"github.com/tripora/tripora/internal/media"
	"github.com/tripora/tripora/internal/service"
)

func newTestMediaService(t *testing.T) *service.MediaService {
	t.Helper()
	store, err := media.NewDiskStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewDiskStore: %v", err)
	}
	return service.NewMediaService(store)
}

var jpegPayload = append([]byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00}, bytes.Repeat([]byte{0x01}, 64)...)

func TestMediaService_UploadAndFetch(t *testing.T) {
	svc := newTestMediaService(t)
	ctx := context.Background()

	ref, err := svc.Upload(ctx, "photo.jpg", "image/jpeg", jpegPayload)
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if ref == "" {
		t.Fatal("expected non-empty ref")
	}

	data, contentType, err := svc.Fetch(ctx, ref)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if !bytes.Equal(data, jpegPayload) {
		t.Fatal("fetched bytes differ from uploaded bytes")
	}
	if contentType != "image/jpeg" {
		t.Fatalf("expected image/jpeg, got %q", contentType)
	}
}

func TestMediaService_Upload_RejectsContentType(t *testing.T) {
	svc := newTestMediaService(t)

	_, err := svc.Upload(context.Background(), "doc.pdf", "application/pdf", []byte("%PDF-1.4"))
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for pdf, got %v", err)
	}
}

func TestMediaService_Upload_RejectsOversized(t *testing.T) {
	svc := newTestMediaService(t)

	big := make([]byte, 10*1024*1024+1)
	copy(big, jpegPayload)

	_, err := svc.Upload(context.Background(), "huge.jpg", "image/jpeg", big)
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for oversized upload, got %v", err)
	}
}

func TestMediaService_Fetch_Unknown(t *testing.T) {
	svc := newTestMediaService(t)

	_, _, err := svc.Fetch(context.Background(), "nope.jpg")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
