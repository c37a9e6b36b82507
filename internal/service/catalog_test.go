package service_test

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/tripora/tripora/internal/domain"
	"github.com/tripora/tripora/internal/repository/sqlite"
	"github.com/tripora/tripora/internal/service"
)

func newTestCatalogService(t *testing.T) (*service.CatalogService, *sqlite.DB) {
	t.Helper()
	_, db := newTestAuthService(t)
	return service.NewCatalogService(db.Products()), db
}

func makeDraft() *service.ProductDraft {
	return &service.ProductDraft{
		Name:          "Goa Getaway",
		Location:      "Goa",
		Price:         "12999",
		StartDate:     "2026-10-01",
		DurationLabel: "4 Days / 3 Nights",
		Description:   "Beaches and forts.",
		AvatarImage:   "a.jpg",
		Category:      `["POPULAR","BEACH"]`,
		GalleryImages: []string{"g1.jpg", "g2.jpg"},
		Highlights:    `["Baga beach","Fort Aguada"]`,
		Inclusions:    `["Hotel","Breakfast"]`,
		Exclusions:    `["Flights"]`,
		GroupSize:     "2-6",
		Rating:        "4.7",
		ReviewCount:   "132",
	}
}

func TestCatalogService_CreateAndGet(t *testing.T) {
	svc, _ := newTestCatalogService(t)
	ctx := context.Background()

	id, err := svc.Create(ctx, domain.KindPackage, makeDraft())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if id == "" {
		t.Fatal("expected pre-allocated id")
	}

	got, err := svc.GetByID(ctx, domain.KindPackage, id)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Name != "Goa Getaway" {
		t.Fatalf("expected name 'Goa Getaway', got %q", got.Name)
	}
	if !reflect.DeepEqual(got.GalleryImages, []string{"g1.jpg", "g2.jpg"}) {
		t.Fatalf("expected gallery in submitted order, got %v", got.GalleryImages)
	}
	if !reflect.DeepEqual(got.Categories, []string{"POPULAR", "BEACH"}) {
		t.Fatalf("expected categories decoded, got %v", got.Categories)
	}
	if !reflect.DeepEqual(got.Highlights, []string{"Baga beach", "Fort Aguada"}) {
		t.Fatalf("expected highlights decoded, got %v", got.Highlights)
	}
	if got.Slug != "goa-getaway" {
		t.Fatalf("expected derived slug 'goa-getaway', got %q", got.Slug)
	}
}

func TestCatalogService_Create_NoAvatarRejected(t *testing.T) {
	svc, db := newTestCatalogService(t)
	ctx := context.Background()

	draft := makeDraft()
	draft.AvatarImage = ""

	_, err := svc.Create(ctx, domain.KindPackage, draft)
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	// Nothing may be persisted.
	var count int
	if err := db.SqlDB.QueryRow("SELECT COUNT(*) FROM products").Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no rows after rejected create, got %d", count)
	}
}

func TestCatalogService_Create_VisaRequiresCategory(t *testing.T) {
	svc, _ := newTestCatalogService(t)
	ctx := context.Background()

	draft := makeDraft()
	draft.Category = ""

	_, err := svc.Create(ctx, domain.KindVisa, draft)
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for visa without category, got %v", err)
	}
}

func TestCatalogService_Create_UnknownKind(t *testing.T) {
	svc, _ := newTestCatalogService(t)

	_, err := svc.Create(context.Background(), domain.Kind("hotel"), makeDraft())
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown kind, got %v", err)
	}
}

func TestCatalogService_Create_MalformedListsDegradeToEmpty(t *testing.T) {
	svc, _ := newTestCatalogService(t)
	ctx := context.Background()

	draft := makeDraft()
	draft.Highlights = "not json"
	draft.Inclusions = "{broken"

	id, err := svc.Create(ctx, domain.KindPackage, draft)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := svc.GetByID(ctx, domain.KindPackage, id)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if len(got.Highlights) != 0 {
		t.Fatalf("expected empty highlights, got %v", got.Highlights)
	}
	if len(got.Inclusions) != 0 {
		t.Fatalf("expected empty inclusions, got %v", got.Inclusions)
	}
}

func TestCatalogService_DistinctCategories(t *testing.T) {
	svc, _ := newTestCatalogService(t)
	ctx := context.Background()

	// Ten products sharing the same two labels yield each label once.
	for i := 0; i < 10; i++ {
		draft := makeDraft()
		draft.Category = `["POPULAR","DUBAI"]`
		if _, err := svc.Create(ctx, domain.KindPackage, draft); err != nil {
			t.Fatalf("Create %d: %v", i, err)
		}
	}

	labels, err := svc.DistinctCategories(ctx, domain.KindPackage)
	if err != nil {
		t.Fatalf("DistinctCategories: %v", err)
	}
	if !reflect.DeepEqual(labels, []string{"POPULAR", "DUBAI"}) {
		t.Fatalf("expected [POPULAR DUBAI] exactly once each, got %v", labels)
	}
}

func TestCatalogService_DistinctCategories_SkipsMalformed(t *testing.T) {
	svc, db := newTestCatalogService(t)
	ctx := context.Background()

	id, err := svc.Create(ctx, domain.KindPackage, makeDraft())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := db.SqlDB.Exec("UPDATE products SET category = ? WHERE id = ?", "oops", id); err != nil {
		t.Fatalf("corrupt category: %v", err)
	}

	labels, err := svc.DistinctCategories(ctx, domain.KindPackage)
	if err != nil {
		t.Fatalf("DistinctCategories: %v", err)
	}
	if len(labels) != 0 {
		t.Fatalf("expected malformed row skipped, got %v", labels)
	}
}

func TestCatalogService_Update_PartialPreservesRest(t *testing.T) {
	svc, _ := newTestCatalogService(t)
	ctx := context.Background()

	id, err := svc.Create(ctx, domain.KindPackage, makeDraft())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	price := "500"
	if err := svc.Update(ctx, domain.KindPackage, id, &service.ProductPatchInput{Price: &price}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, err := svc.GetByID(ctx, domain.KindPackage, id)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Price != "500" {
		t.Fatalf("expected price 500, got %q", got.Price)
	}
	if got.Name != "Goa Getaway" || got.AvatarImage != "a.jpg" {
		t.Fatalf("expected other fields unchanged, got name=%q avatar=%q", got.Name, got.AvatarImage)
	}
}

func TestCatalogService_Update_EmptyAvatarDoesNotClear(t *testing.T) {
	svc, _ := newTestCatalogService(t)
	ctx := context.Background()

	id, err := svc.Create(ctx, domain.KindPackage, makeDraft())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	empty := ""
	if err := svc.Update(ctx, domain.KindPackage, id, &service.ProductPatchInput{AvatarImage: &empty}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, err := svc.GetByID(ctx, domain.KindPackage, id)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.AvatarImage != "a.jpg" {
		t.Fatalf("expected avatar preserved, got %q", got.AvatarImage)
	}
}

func TestCatalogService_Update_CanonicalizesListFields(t *testing.T) {
	svc, db := newTestCatalogService(t)
	ctx := context.Background()

	id, err := svc.Create(ctx, domain.KindPackage, makeDraft())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	junk := "definitely not json"
	if err := svc.Update(ctx, domain.KindPackage, id, &service.ProductPatchInput{Highlights: &junk}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	var stored string
	if err := db.SqlDB.QueryRow("SELECT highlights FROM products WHERE id = ?", id).Scan(&stored); err != nil {
		t.Fatalf("read column: %v", err)
	}
	if stored != "[]" {
		t.Fatalf("expected canonical [] stored for malformed input, got %q", stored)
	}
}

func TestCatalogService_Update_MissingID(t *testing.T) {
	svc, _ := newTestCatalogService(t)

	name := "Ghost"
	err := svc.Update(context.Background(), domain.KindPackage, "missing", &service.ProductPatchInput{Name: &name})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCatalogService_Delete_Twice(t *testing.T) {
	svc, _ := newTestCatalogService(t)
	ctx := context.Background()

	id, err := svc.Create(ctx, domain.KindPackage, makeDraft())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := svc.Delete(ctx, domain.KindPackage, id); err != nil {
		t.Fatalf("first Delete: %v", err)
	}
	if err := svc.Delete(ctx, domain.KindPackage, id); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Goa Getaway":        "goa-getaway",
		"Dubai  --  Visa!":   "dubai-visa",
		"  trim me  ":        "trim-me",
		"Already-Slugged":    "already-slugged",
		"UPPER case & stuff": "upper-case-stuff",
	}
	for in, want := range cases {
		if got := service.Slugify(in); got != want {
			t.Fatalf("Slugify(%q) = %q, want %q", in, got, want)
		}
	}
}
