package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tripora/tripora/internal/domain"
)

// productRepo implements domain.ProductRepository using SQLite.
type productRepo struct {
	db *sql.DB
}

const productColumns = `id, kind, name, location, price, start_date, duration_label, description,
	avatar_image, category, highlights, inclusions, exclusions, included, additional_information,
	country, slug, group_size, rating, review_count, created_at, updated_at`

func (r *productRepo) Create(ctx context.Context, product *domain.Product) error {
	schema, err := domain.SchemaFor(product.Kind)
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	_, err = tx.ExecContext(ctx,
		`INSERT INTO products (`+productColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		product.ID, product.Kind, product.Name, product.Location, product.Price,
		product.StartDate, product.DurationLabel, product.Description,
		product.AvatarImage, encodeCategory(schema, product.Categories),
		domain.EncodeList(product.Highlights), domain.EncodeList(product.Inclusions),
		domain.EncodeList(product.Exclusions), domain.EncodeList(product.Included),
		domain.EncodeList(product.AdditionalInformation),
		product.Country, product.Slug, product.GroupSize, product.Rating, product.ReviewCount,
		now, now,
	)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}

	// Gallery rows ride in the same transaction; a failure here rolls
	// back the parent row so no product ever references a half-written
	// gallery.
	for i, ref := range product.GalleryImages {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO product_images (product_id, ref, sort_order) VALUES (?, ?, ?)`,
			product.ID, ref, i,
		); err != nil {
			return fmt.Errorf("insert gallery image %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	product.CreatedAt = now
	product.UpdatedAt = now
	return nil
}

func (r *productRepo) GetByID(ctx context.Context, kind domain.Kind, id string) (*domain.Product, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE kind = ? AND id = ?`, kind, id)

	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get product: %w", err)
	}

	gallery, err := r.loadGallery(ctx, id)
	if err != nil {
		return nil, err
	}
	p.GalleryImages = gallery
	return p, nil
}

func (r *productRepo) ListAll(ctx context.Context, kind domain.Kind) ([]domain.Product, error) {
	return r.list(ctx, kind, "")
}

func (r *productRepo) ListByCategory(ctx context.Context, kind domain.Kind, category string) ([]domain.Product, error) {
	schema, err := domain.SchemaFor(kind)
	if err != nil {
		return nil, err
	}

	// Scalar-category kinds filter in SQL. List-category kinds need
	// set membership against the decoded label list, so the filter runs
	// after the scan.
	if !schema.CategoryList {
		return r.list(ctx, kind, category)
	}

	all, err := r.list(ctx, kind, "")
	if err != nil {
		return nil, err
	}

	var filtered []domain.Product
	for _, p := range all {
		for _, label := range p.Categories {
			if label == category {
				filtered = append(filtered, p)
				break
			}
		}
	}
	return filtered, nil
}

func (r *productRepo) list(ctx context.Context, kind domain.Kind, category string) ([]domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE kind = ?`
	args := []any{kind}
	if category != "" {
		query += ` AND category = ?`
		args = append(args, category)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range products {
		gallery, err := r.loadGallery(ctx, products[i].ID)
		if err != nil {
			return nil, err
		}
		products[i].GalleryImages = gallery
	}
	return products, nil
}

func (r *productRepo) Update(ctx context.Context, kind domain.Kind, id string, patch *domain.ProductPatch) error {
	if _, err := domain.SchemaFor(kind); err != nil {
		return err
	}

	cols := []struct {
		name string
		val  *string
	}{
		{"name", patch.Name},
		{"location", patch.Location},
		{"price", patch.Price},
		{"start_date", patch.StartDate},
		{"duration_label", patch.DurationLabel},
		{"description", patch.Description},
		{"avatar_image", patch.AvatarImage},
		{"category", patch.Category},
		{"highlights", patch.Highlights},
		{"inclusions", patch.Inclusions},
		{"exclusions", patch.Exclusions},
		{"included", patch.Included},
		{"additional_information", patch.AdditionalInformation},
		{"country", patch.Country},
		{"slug", patch.Slug},
		{"group_size", patch.GroupSize},
		{"rating", patch.Rating},
		{"review_count", patch.ReviewCount},
	}

	var sets []string
	var args []any
	for _, c := range cols {
		if c.val != nil {
			sets = append(sets, c.name+" = ?")
			args = append(args, *c.val)
		}
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, time.Now().UTC(), kind, id)

	result, err := r.db.ExecContext(ctx,
		`UPDATE products SET `+strings.Join(sets, ", ")+` WHERE kind = ? AND id = ?`, args...)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *productRepo) Delete(ctx context.Context, kind domain.Kind, id string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM products WHERE kind = ? AND id = ?`, kind, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *productRepo) loadGallery(ctx context.Context, productID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT ref FROM product_images WHERE product_id = ? ORDER BY sort_order`, productID)
	if err != nil {
		return nil, fmt.Errorf("load gallery: %w", err)
	}
	defer rows.Close()

	refs := []string{}
	for rows.Next() {
		var ref string
		if err := rows.Scan(&ref); err != nil {
			return nil, fmt.Errorf("scan gallery ref: %w", err)
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	p := &domain.Product{}
	var category, highlights, inclusions, exclusions, included, additional string
	err := row.Scan(
		&p.ID, &p.Kind, &p.Name, &p.Location, &p.Price, &p.StartDate,
		&p.DurationLabel, &p.Description, &p.AvatarImage, &category,
		&highlights, &inclusions, &exclusions, &included, &additional,
		&p.Country, &p.Slug, &p.GroupSize, &p.Rating, &p.ReviewCount,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	schema, err := domain.SchemaFor(p.Kind)
	if err != nil {
		return nil, err
	}
	p.Categories = decodeCategory(schema, category)
	p.Highlights = domain.ParseList(highlights)
	p.Inclusions = domain.ParseList(inclusions)
	p.Exclusions = domain.ParseList(exclusions)
	p.Included = domain.ParseList(included)
	p.AdditionalInformation = domain.ParseList(additional)
	p.GalleryImages = []string{}
	return p, nil
}

func encodeCategory(schema domain.Schema, categories []string) string {
	if schema.CategoryList {
		return domain.EncodeList(categories)
	}
	if len(categories) == 0 {
		return ""
	}
	return categories[0]
}

func decodeCategory(schema domain.Schema, text string) []string {
	if schema.CategoryList {
		return domain.ParseList(text)
	}
	if text == "" {
		return []string{}
	}
	return []string{text}
}
