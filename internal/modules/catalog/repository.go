// Package catalog persists the product registry: the user-facing product
// records whose ids the report endpoints accept and resolve against the
// snapshot dataset.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ErrNotFound is returned when a product id has no registry row.
var ErrNotFound = errors.New("product not found")

// Product is one registry entry. DatasetKey, when set, overrides fuzzy
// resolution and points straight at a snapshot entity.
type Product struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	BrandName  string    `json:"brandName"`
	DatasetKey string    `json:"datasetKey,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// CompoundKey builds the "Brand | Product" identifier used to resolve this
// product against the snapshot dataset when no explicit DatasetKey is set.
func (p Product) CompoundKey() string {
	if p.DatasetKey != "" {
		return p.DatasetKey
	}
	parts := make([]string, 0, 2)
	if b := strings.TrimSpace(p.BrandName); b != "" {
		parts = append(parts, b)
	}
	if n := strings.TrimSpace(p.Name); n != "" {
		parts = append(parts, n)
	}
	return strings.Join(parts, " | ")
}

// Repository provides sqlite-backed product storage.
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates the repository and ensures the schema exists.
func NewRepository(db *sql.DB, log zerolog.Logger) (*Repository, error) {
	r := &Repository{
		db:  db,
		log: log.With().Str("component", "catalog").Logger(),
	}
	if err := r.ensureSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize catalog schema: %w", err)
	}
	return r, nil
}

func (r *Repository) ensureSchema() error {
	_, err := r.db.Exec(`
		CREATE TABLE IF NOT EXISTS products (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			brand_name TEXT NOT NULL DEFAULT '',
			dataset_key TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_products_name ON products(name);
	`)
	return err
}

// Upsert inserts or updates a product. An empty id gets a generated one; the
// stored product is returned.
func (r *Repository) Upsert(ctx context.Context, p Product) (Product, error) {
	if strings.TrimSpace(p.Name) == "" {
		return Product{}, errors.New("product name is required")
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now().UTC()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO products (id, name, brand_name, dataset_key, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			brand_name = excluded.brand_name,
			dataset_key = excluded.dataset_key,
			updated_at = excluded.updated_at
	`, p.ID, p.Name, p.BrandName, p.DatasetKey, now, now)
	if err != nil {
		return Product{}, fmt.Errorf("failed to upsert product: %w", err)
	}

	return r.Get(ctx, p.ID)
}

// Get returns one product by id.
func (r *Repository) Get(ctx context.Context, id string) (Product, error) {
	var p Product
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, brand_name, dataset_key, created_at, updated_at
		FROM products WHERE id = ?
	`, id).Scan(&p.ID, &p.Name, &p.BrandName, &p.DatasetKey, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Product{}, ErrNotFound
	}
	if err != nil {
		return Product{}, fmt.Errorf("failed to get product: %w", err)
	}
	return p, nil
}

// List returns all products ordered by name.
func (r *Repository) List(ctx context.Context) ([]Product, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, brand_name, dataset_key, created_at, updated_at
		FROM products ORDER BY name, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.BrandName, &p.DatasetKey, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// Delete removes a product by id.
func (r *Repository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// ResolveKey maps a product id to the identifier the report engine should
// resolve against the dataset. Unknown ids fall back to the raw id so the
// dataset's own fuzzy matching still has a chance.
func (r *Repository) ResolveKey(ctx context.Context, productID string) string {
	if productID == "" {
		return ""
	}
	p, err := r.Get(ctx, productID)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			r.log.Warn().Err(err).Str("product_id", productID).Msg("catalog lookup failed")
		}
		return productID
	}
	return p.CompoundKey()
}
