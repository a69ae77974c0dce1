package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"giftyy-backend/internal/models"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

var ErrEmailTaken = errors.New("email already registered")

type VendorQueries struct {
	db *sql.DB
}

func NewVendorQueries(db *sql.DB) *VendorQueries {
	return &VendorQueries{db: db}
}

func (q *VendorQueries) CreateVendor(ctx context.Context, v *models.Vendor) error {
	query := `
		INSERT INTO vendors (name, email, password_hash, shipping_flat_rate, free_shipping_threshold)
		VALUES ($1, $2, $3, $4, NULLIF($5, 0))
		RETURNING id, created_at, updated_at`

	err := q.db.QueryRowContext(ctx, query, v.Name, strings.ToLower(v.Email), v.PasswordHash,
		v.ShippingFlatRate, v.FreeShippingThreshold).Scan(&v.ID, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrEmailTaken
		}
		return fmt.Errorf("failed to create vendor: %w", err)
	}
	v.Email = strings.ToLower(v.Email)
	return nil
}

func (q *VendorQueries) GetVendorByEmail(ctx context.Context, email string) (*models.Vendor, error) {
	query := `
		SELECT id, name, email, password_hash, shipping_flat_rate, COALESCE(free_shipping_threshold, 0), created_at, updated_at
		FROM vendors
		WHERE email = $1`

	var v models.Vendor
	err := q.db.QueryRowContext(ctx, query, strings.ToLower(email)).Scan(&v.ID, &v.Name, &v.Email,
		&v.PasswordHash, &v.ShippingFlatRate, &v.FreeShippingThreshold, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("vendor %s: %w", email, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get vendor: %w", err)
	}
	return &v, nil
}

// GetShippingRules returns the shipping rule of each given vendor keyed by
// vendor id. Unknown vendors are absent from the map.
func (q *VendorQueries) GetShippingRules(ctx context.Context, vendorIDs []string) (map[string]models.ShippingRule, error) {
	rules := make(map[string]models.ShippingRule, len(vendorIDs))
	ids := make([]string, 0, len(vendorIDs))
	for _, id := range vendorIDs {
		if _, err := uuid.Parse(id); err == nil {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return rules, nil
	}

	query := `
		SELECT id::text, name, shipping_flat_rate, COALESCE(free_shipping_threshold, 0)
		FROM vendors
		WHERE id = ANY($1::uuid[])`

	rows, err := q.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to get shipping rules: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var r models.ShippingRule
		if err := rows.Scan(&r.VendorID, &r.VendorName, &r.FlatRate, &r.FreeThreshold); err != nil {
			return nil, fmt.Errorf("failed to scan shipping rule: %w", err)
		}
		rules[r.VendorID] = r
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating shipping rules: %w", err)
	}
	return rules, nil
}

// UpdateShippingRules replaces a vendor's flat rate and free shipping
// threshold; a zero threshold removes it
func (q *VendorQueries) UpdateShippingRules(ctx context.Context, vendorID string, flatRate, freeThreshold float64) error {
	if _, err := uuid.Parse(vendorID); err != nil {
		return ErrNotFound
	}

	result, err := q.db.ExecContext(ctx, `
		UPDATE vendors
		SET shipping_flat_rate = $1, free_shipping_threshold = NULLIF($2, 0)
		WHERE id = $3`, flatRate, freeThreshold, vendorID)
	if err != nil {
		return fmt.Errorf("failed to update shipping rules: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
