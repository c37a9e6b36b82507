package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/tripora/tripora/internal/domain"
)

// CatalogService shapes incoming product payloads and orchestrates
// writes against the product repository. List-valued fields arrive as
// JSON-encoded text from the admin forms and go through the lenient
// parse-or-default rule: malformed text degrades to an empty list,
// never an error.
type CatalogService struct {
	products domain.ProductRepository
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(products domain.ProductRepository) *CatalogService {
	return &CatalogService{products: products}
}

// ProductDraft is the full create payload. Category and the list
// fields carry the raw submitted text; Categories in the resulting
// Product are derived per the kind's schema.
type ProductDraft struct {
	Name          string
	Location      string
	Price         string
	StartDate     string
	DurationLabel string
	Description   string
	AvatarImage   string
	Category      string
	GalleryImages []string

	Highlights            string
	Inclusions            string
	Exclusions            string
	Included              string
	AdditionalInformation string

	Country     string
	Slug        string
	GroupSize   string
	Rating      string
	ReviewCount string
}

// ProductPatchInput is the sparse update payload: nil means "leave the
// stored value alone".
type ProductPatchInput struct {
	Name          *string
	Location      *string
	Price         *string
	StartDate     *string
	DurationLabel *string
	Description   *string
	AvatarImage   *string
	Category      *string

	Highlights            *string
	Inclusions            *string
	Exclusions            *string
	Included              *string
	AdditionalInformation *string

	Country     *string
	Slug        *string
	GroupSize   *string
	Rating      *string
	ReviewCount *string
}

// Create validates the draft, pre-allocates the product id, and hands
// the normalized product to the repository, which writes the parent
// row and the gallery rows in one transaction. Returns the new id.
func (s *CatalogService) Create(ctx context.Context, kind domain.Kind, draft *ProductDraft) (string, error) {
	schema, err := domain.SchemaFor(kind)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	if draft.AvatarImage == "" {
		return "", fmt.Errorf("%w: avatar image is required", domain.ErrInvalidInput)
	}

	categories := parseCategory(schema, draft.Category)
	if schema.CategoryRequired && len(categories) == 0 {
		return "", fmt.Errorf("%w: category is required", domain.ErrInvalidInput)
	}

	slug := draft.Slug
	if slug == "" {
		slug = Slugify(draft.Name)
	}

	gallery := draft.GalleryImages
	if gallery == nil {
		gallery = []string{}
	}

	product := &domain.Product{
		ID:            uuid.NewString(),
		Kind:          kind,
		Name:          draft.Name,
		Location:      draft.Location,
		Price:         draft.Price,
		StartDate:     draft.StartDate,
		DurationLabel: draft.DurationLabel,
		Description:   draft.Description,
		AvatarImage:   draft.AvatarImage,
		Categories:    categories,
		GalleryImages: gallery,

		Highlights:            domain.ParseList(draft.Highlights),
		Inclusions:            domain.ParseList(draft.Inclusions),
		Exclusions:            domain.ParseList(draft.Exclusions),
		Included:              domain.ParseList(draft.Included),
		AdditionalInformation: domain.ParseList(draft.AdditionalInformation),

		Country:     draft.Country,
		Slug:        slug,
		GroupSize:   draft.GroupSize,
		Rating:      draft.Rating,
		ReviewCount: draft.ReviewCount,
	}

	if err := s.products.Create(ctx, product); err != nil {
		return "", fmt.Errorf("create product: %w", err)
	}
	return product.ID, nil
}

// GetByID returns a product with its gallery joined in; the gallery is
// an empty slice when the product has no images, never nil.
func (s *CatalogService) GetByID(ctx context.Context, kind domain.Kind, id string) (*domain.Product, error) {
	return s.products.GetByID(ctx, kind, id)
}

// List returns every product of a kind.
func (s *CatalogService) List(ctx context.Context, kind domain.Kind) ([]domain.Product, error) {
	return s.products.ListAll(ctx, kind)
}

// ListByCategory returns products carrying the given category label.
func (s *CatalogService) ListByCategory(ctx context.Context, kind domain.Kind, category string) ([]domain.Product, error) {
	return s.products.ListByCategory(ctx, kind, category)
}

// DistinctCategories derives the set of category labels across all
// products of a kind, deduplicated in first-seen order. Rows with
// malformed category text contribute nothing and are skipped.
func (s *CatalogService) DistinctCategories(ctx context.Context, kind domain.Kind) ([]string, error) {
	products, err := s.products.ListAll(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	seen := make(map[string]bool)
	labels := []string{}
	for _, p := range products {
		for _, label := range p.Categories {
			if label == "" || seen[label] {
				continue
			}
			seen[label] = true
			labels = append(labels, label)
		}
	}
	return labels, nil
}

// Update applies a sparse patch: only supplied fields overwrite, list
// fields are re-canonicalized through the lenient rule, and an
// already-set avatar survives unless a replacement reference is
// supplied. A missing id surfaces as ErrNotFound.
func (s *CatalogService) Update(ctx context.Context, kind domain.Kind, id string, input *ProductPatchInput) error {
	schema, err := domain.SchemaFor(kind)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	patch := &domain.ProductPatch{
		Name:          input.Name,
		Location:      input.Location,
		Price:         input.Price,
		StartDate:     input.StartDate,
		DurationLabel: input.DurationLabel,
		Description:   input.Description,
		Country:       input.Country,
		Slug:          input.Slug,
		GroupSize:     input.GroupSize,
		Rating:        input.Rating,
		ReviewCount:   input.ReviewCount,
	}

	// An empty avatar value would erase the existing one; drop it.
	if input.AvatarImage != nil && *input.AvatarImage != "" {
		patch.AvatarImage = input.AvatarImage
	}

	if input.Category != nil {
		encoded := *input.Category
		if schema.CategoryList {
			encoded = domain.CanonicalList(encoded)
		}
		patch.Category = &encoded
	}

	patch.Highlights = canonicalize(input.Highlights)
	patch.Inclusions = canonicalize(input.Inclusions)
	patch.Exclusions = canonicalize(input.Exclusions)
	patch.Included = canonicalize(input.Included)
	patch.AdditionalInformation = canonicalize(input.AdditionalInformation)

	if err := s.products.Update(ctx, kind, id, patch); err != nil {
		return err
	}
	return nil
}

// Delete removes a product; gallery rows cascade in storage.
func (s *CatalogService) Delete(ctx context.Context, kind domain.Kind, id string) error {
	return s.products.Delete(ctx, kind, id)
}

func canonicalize(raw *string) *string {
	if raw == nil {
		return nil
	}
	text := domain.CanonicalList(*raw)
	return &text
}

func parseCategory(schema domain.Schema, raw string) []string {
	if schema.CategoryList {
		return domain.ParseList(raw)
	}
	if raw == "" {
		return []string{}
	}
	return []string{raw}
}

// Slugify derives a URL slug from a display name: lowercased, runs of
// non-alphanumerics collapsed to single hyphens.
func Slugify(name string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
