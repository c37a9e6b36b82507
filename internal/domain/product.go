package domain

import (
	"context"
	"time"
)

// Product is a catalog entry: a travel package or a visa offering.
// Scalar display fields are stored as uninterpreted text; in particular
// Price carries whatever the admin form submitted, with no currency
// invariant. List-valued fields are persisted as JSON-encoded text and
// always round-trip through the lenient codec in list.go.
type Product struct {
	ID            string // pre-allocated before the insert, immutable
	Kind          Kind
	Name          string
	Location      string
	Price         string
	StartDate     string
	DurationLabel string
	Description   string

	// AvatarImage is the primary media reference. A product cannot be
	// created without one.
	AvatarImage string

	// Categories holds the ordered category labels. Visas carry at most
	// one; packages may carry several.
	Categories []string

	// GalleryImages holds the ordered media references of the dependent
	// image collection. Never nil after a read.
	GalleryImages []string

	Highlights            []string
	Inclusions            []string
	Exclusions            []string
	Included              []string
	AdditionalInformation []string

	Country     string
	Slug        string
	GroupSize   string
	Rating      string
	ReviewCount string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ProductPatch is a sparse update: only non-nil fields overwrite the
// stored row. List-valued and category fields hold column-ready
// canonical text, prepared by the service layer. There is no field for
// clearing the avatar; an avatar, once set, can only be replaced.
type ProductPatch struct {
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

// IsZero reports whether the patch carries no fields at all.
func (p *ProductPatch) IsZero() bool {
	return p.Name == nil && p.Location == nil && p.Price == nil &&
		p.StartDate == nil && p.DurationLabel == nil && p.Description == nil &&
		p.AvatarImage == nil && p.Category == nil &&
		p.Highlights == nil && p.Inclusions == nil && p.Exclusions == nil &&
		p.Included == nil && p.AdditionalInformation == nil &&
		p.Country == nil && p.Slug == nil && p.GroupSize == nil &&
		p.Rating == nil && p.ReviewCount == nil
}

// ProductRepository defines persistence operations for products and
// their dependent gallery rows.
type ProductRepository interface {
	// Create inserts the parent row and all gallery rows in one
	// transaction; either everything lands or nothing does.
	Create(ctx context.Context, product *Product) error

	// GetByID returns the product with its gallery joined in, or
	// ErrNotFound.
	GetByID(ctx context.Context, kind Kind, id string) (*Product, error)

	// ListAll returns every product of the kind. No pagination.
	ListAll(ctx context.Context, kind Kind) ([]Product, error)

	// ListByCategory filters by category label: exact match for
	// scalar-category kinds, set membership for list-category kinds.
	ListByCategory(ctx context.Context, kind Kind, category string) ([]Product, error)

	// Update applies a sparse patch. Zero rows affected is ErrNotFound;
	// a delete racing an update must not be silently ignored.
	Update(ctx context.Context, kind Kind, id string, patch *ProductPatch) error

	// Delete removes the product; gallery rows cascade. Zero rows
	// affected is ErrNotFound.
	Delete(ctx context.Context, kind Kind, id string) error
}
