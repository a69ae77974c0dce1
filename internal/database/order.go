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

type OrderQueries struct {
	db *sql.DB
}

func NewOrderQueries(db *sql.DB) *OrderQueries {
	return &OrderQueries{db: db}
}

// NewOrderCode returns a short human-readable order reference, e.g. GFT-3F0C9A12
func NewOrderCode() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "GFT-" + strings.ToUpper(id[:8])
}

const orderColumns = `id, order_code, session_id, status,
	recipient_first_name, recipient_last_name, recipient_email, recipient_phone,
	recipient_street, recipient_apartment, recipient_city, recipient_state, recipient_zip, recipient_country,
	card_type, card_price, memory_type, memory_url, memory_message,
	subtotal, shipping_cost, tax_amount, total_amount, created_at, updated_at`

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanOrder(row scanner, order *models.Order) error {
	return row.Scan(&order.ID, &order.OrderCode, &order.SessionID, &order.Status,
		&order.RecipientFirstName, &order.RecipientLastName, &order.RecipientEmail, &order.RecipientPhone,
		&order.RecipientStreet, &order.RecipientApartment, &order.RecipientCity, &order.RecipientState,
		&order.RecipientZip, &order.RecipientCountry,
		&order.CardType, &order.CardPrice, &order.MemoryType, &order.MemoryURL, &order.MemoryMessage,
		&order.Subtotal, &order.ShippingCost, &order.TaxAmount, &order.TotalAmount,
		&order.CreatedAt, &order.UpdatedAt)
}

// CreateOrder creates a new order with its items in a transaction
func (q *OrderQueries) CreateOrder(ctx context.Context, order *models.Order, items []models.OrderItem) (*models.OrderResponse, error) {
	tx, err := q.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if order.OrderCode == "" {
		order.OrderCode = NewOrderCode()
	}
	if order.Status == "" {
		order.Status = models.OrderStatusPending
	}

	orderQuery := `
		INSERT INTO orders (order_code, session_id, status,
			recipient_first_name, recipient_last_name, recipient_email, recipient_phone,
			recipient_street, recipient_apartment, recipient_city, recipient_state, recipient_zip, recipient_country,
			card_type, card_price, memory_type, memory_url, memory_message,
			subtotal, shipping_cost, tax_amount, total_amount)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)
		RETURNING id, created_at, updated_at`

	err = tx.QueryRowContext(ctx, orderQuery, order.OrderCode, order.SessionID, order.Status,
		order.RecipientFirstName, order.RecipientLastName, order.RecipientEmail, order.RecipientPhone,
		order.RecipientStreet, order.RecipientApartment, order.RecipientCity, order.RecipientState,
		order.RecipientZip, order.RecipientCountry,
		order.CardType, order.CardPrice, order.MemoryType, order.MemoryURL, order.MemoryMessage,
		order.Subtotal, order.ShippingCost, order.TaxAmount, order.TotalAmount,
	).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert order: %w", err)
	}

	itemQuery := `
		INSERT INTO order_items (order_id, product_id, product_name, vendor_id, quantity, unit_price, total_price)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	for i := range items {
		item := &items[i]
		err = tx.QueryRowContext(ctx, itemQuery, order.ID, item.ProductID, item.ProductName, item.VendorID,
			item.Quantity, item.UnitPrice, item.TotalPrice).Scan(&item.ID, &item.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to insert order item: %w", err)
		}
		item.OrderID = order.ID
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &models.OrderResponse{
		Order: *order,
		Items: items,
	}, nil
}

// GetOrder returns ErrNotFound when no order has the given id
func (q *OrderQueries) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	if _, err := uuid.Parse(id); err != nil {
		// not a uuid, cannot match a row
		return nil, fmt.Errorf("order %s: %w", id, ErrNotFound)
	}

	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	var order models.Order
	if err := scanOrder(q.db.QueryRowContext(ctx, query, id), &order); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("order %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return &order, nil
}

func (q *OrderQueries) GetOrderItems(ctx context.Context, orderID string) ([]models.OrderItem, error) {
	query := `
		SELECT id, order_id, product_id, product_name, vendor_id, quantity, unit_price, total_price, created_at
		FROM order_items
		WHERE order_id = $1
		ORDER BY created_at, id`

	rows, err := q.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order items: %w", err)
	}
	defer rows.Close()

	items := []models.OrderItem{}
	for rows.Next() {
		var item models.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.ProductName, &item.VendorID,
			&item.Quantity, &item.UnitPrice, &item.TotalPrice, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating order items: %w", err)
	}
	return items, nil
}

// GetVendorIDsForProducts returns the distinct vendors owning the given
// products. Products without a vendor are ignored.
func (q *OrderQueries) GetVendorIDsForProducts(ctx context.Context, productIDs []string) ([]string, error) {
	if len(productIDs) == 0 {
		return []string{}, nil
	}

	query := `
		SELECT DISTINCT vendor_id::text
		FROM products
		WHERE id = ANY($1::uuid[]) AND vendor_id IS NOT NULL
		ORDER BY 1`

	rows, err := q.db.QueryContext(ctx, query, pq.Array(productIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to get product vendors: %w", err)
	}
	defer rows.Close()

	vendorIDs := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan vendor id: %w", err)
		}
		vendorIDs = append(vendorIDs, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating vendor ids: %w", err)
	}
	return vendorIDs, nil
}

// UpsertOrderQRCodes writes all QR rows of an order in one transaction,
// replacing the URL and payload of rows that already exist for the same
// (order, vendor) pair.
func (q *OrderQueries) UpsertOrderQRCodes(ctx context.Context, codes []models.OrderQRCode) error {
	tx, err := q.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO order_qr_codes (order_id, vendor_id, qr_code_url, qr_payload)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT ON CONSTRAINT order_qr_codes_order_vendor_key
		DO UPDATE SET qr_code_url = EXCLUDED.qr_code_url, qr_payload = EXCLUDED.qr_payload`

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare qr upsert: %w", err)
	}
	defer stmt.Close()

	for _, code := range codes {
		if _, err := stmt.ExecContext(ctx, code.OrderID, code.VendorID, code.QRCodeURL, code.QRPayload); err != nil {
			return fmt.Errorf("failed to upsert qr code: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetOrderQRCode returns the vendor's QR row of an order, or the general row
// when vendorID is nil
func (q *OrderQueries) GetOrderQRCode(ctx context.Context, orderID string, vendorID *string) (*models.OrderQRCode, error) {
	if _, err := uuid.Parse(orderID); err != nil {
		return nil, fmt.Errorf("qr code of order %s: %w", orderID, ErrNotFound)
	}

	query := `
		SELECT id, order_id, vendor_id, qr_code_url, qr_payload, created_at, updated_at
		FROM order_qr_codes
		WHERE order_id = $1 AND vendor_id IS NOT DISTINCT FROM $2::uuid`

	var code models.OrderQRCode
	err := q.db.QueryRowContext(ctx, query, orderID, vendorID).Scan(&code.ID, &code.OrderID, &code.VendorID,
		&code.QRCodeURL, &code.QRPayload, &code.CreatedAt, &code.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("qr code of order %s: %w", orderID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get qr code: %w", err)
	}
	return &code, nil
}

func (q *OrderQueries) GetOrdersBySession(ctx context.Context, sessionID string) ([]models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE session_id = $1 ORDER BY created_at DESC`

	rows, err := q.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get orders: %w", err)
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		var order models.Order
		if err := scanOrder(rows, &order); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}
	return orders, nil
}
