package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"giftyy-backend/internal/models"
	"giftyy-backend/internal/pricing"

	"github.com/google/uuid"
)

type ProductQueries struct {
	db *sql.DB
}

func NewProductQueries(db *sql.DB) *ProductQueries {
	return &ProductQueries{db: db}
}

func (q *ProductQueries) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("product %s: %w", id, ErrNotFound)
	}

	query := `
		SELECT p.id, p.vendor_id, COALESCE(v.name, ''), p.name, p.base_price, COALESCE(p.image_url, ''), p.created_at, p.updated_at
		FROM products p
		LEFT JOIN vendors v ON v.id = p.vendor_id
		WHERE p.id = $1`

	var p models.Product
	err := q.db.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.VendorID, &p.VendorName, &p.Name,
		&p.BasePrice, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("product %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return &p, nil
}

// GetVariations loads a product's variations with their attribute documents
// decoded into shapes
func (q *ProductQueries) GetVariations(ctx context.Context, productID string) ([]models.Variation, error) {
	query := `
		SELECT id, product_id, attributes, price
		FROM product_variations
		WHERE product_id = $1
		ORDER BY created_at, id`

	rows, err := q.db.QueryContext(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to get variations: %w", err)
	}
	defer rows.Close()

	variations := []models.Variation{}
	for rows.Next() {
		var (
			v     models.Variation
			attrs []byte
			price sql.NullFloat64
		)
		if err := rows.Scan(&v.ID, &v.ProductID, &attrs, &price); err != nil {
			return nil, fmt.Errorf("failed to scan variation: %w", err)
		}
		v.Attributes = pricing.ParseAttributes(attrs)
		if price.Valid {
			p := price.Float64
			v.Price = &p
		}
		variations = append(variations, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating variations: %w", err)
	}
	return variations, nil
}

// CreateProduct inserts a product; used by seeding and tests
func (q *ProductQueries) CreateProduct(ctx context.Context, p *models.Product) error {
	query := `
		INSERT INTO products (vendor_id, name, base_price, image_url)
		VALUES ($1, $2, $3, NULLIF($4, ''))
		RETURNING id, created_at, updated_at`

	err := q.db.QueryRowContext(ctx, query, p.VendorID, p.Name, p.BasePrice, p.ImageURL).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// CreateVariation stores a variation with its raw attribute document
func (q *ProductQueries) CreateVariation(ctx context.Context, productID string, attributes []byte, price *float64) (string, error) {
	if len(attributes) == 0 {
		attributes = []byte("{}")
	}

	var id string
	err := q.db.QueryRowContext(ctx,
		`INSERT INTO product_variations (product_id, attributes, price) VALUES ($1, $2, $3) RETURNING id`,
		productID, attributes, price).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("failed to create variation: %w", err)
	}
	return id, nil
}
