package models

import (
	"time"
)

// Order status constants
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// Order represents an order in the database
type Order struct {
	ID        string  `json:"id"`
	OrderCode string  `json:"order_code"`
	SessionID *string `json:"session_id,omitempty"`
	Status    string  `json:"status"`

	RecipientFirstName string  `json:"recipient_first_name"`
	RecipientLastName  string  `json:"recipient_last_name"`
	RecipientEmail     *string `json:"recipient_email,omitempty"`
	RecipientPhone     *string `json:"recipient_phone,omitempty"`
	RecipientStreet    string  `json:"recipient_street"`
	RecipientApartment *string `json:"recipient_apartment,omitempty"`
	RecipientCity      string  `json:"recipient_city"`
	RecipientState     string  `json:"recipient_state"`
	RecipientZip       string  `json:"recipient_zip"`
	RecipientCountry   string  `json:"recipient_country"`

	CardType      *string `json:"card_type,omitempty"`
	CardPrice     float64 `json:"card_price"`
	MemoryType    *string `json:"memory_type,omitempty"`
	MemoryURL     *string `json:"memory_url,omitempty"`
	MemoryMessage *string `json:"memory_message,omitempty"`

	Subtotal     float64   `json:"subtotal"`
	ShippingCost float64   `json:"shipping_cost"`
	TaxAmount    float64   `json:"tax_amount"`
	TotalAmount  float64   `json:"total_amount"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// OrderItem represents an item in an order
type OrderItem struct {
	ID          string    `json:"id"`
	OrderID     string    `json:"order_id"`
	ProductID   string    `json:"product_id"`
	ProductName string    `json:"product_name"`
	VendorID    *string   `json:"vendor_id,omitempty"`
	Quantity    int       `json:"quantity"`
	UnitPrice   float64   `json:"unit_price"`
	TotalPrice  float64   `json:"total_price"`
	CreatedAt   time.Time `json:"created_at"`
}

// OrderQRCode is one scannable record of an order. VendorID is nil for the
// general record shared by the whole order.
type OrderQRCode struct {
	ID        string    `json:"id"`
	OrderID   string    `json:"order_id"`
	VendorID  *string   `json:"vendor_id"`
	QRCodeURL string    `json:"qr_code_url"`
	QRPayload string    `json:"qr_payload"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// QRPayload is the JSON document encoded into every QR image of an order
type QRPayload struct {
	OrderID   string `json:"orderId"`
	OrderCode string `json:"orderCode"`
	URL       string `json:"url"`
}

// CreateOrderQRRequest is the body of the create-order-qr function
type CreateOrderQRRequest struct {
	OrderID string `json:"orderId"`
}

// CreateOrderQRResponse is returned on success by the create-order-qr function
type CreateOrderQRResponse struct {
	Success     bool `json:"success"`
	VendorCount int  `json:"vendorCount"`
}

// OrderResponse is returned when a checkout completes
type OrderResponse struct {
	Order       Order       `json:"order"`
	Items       []OrderItem `json:"items"`
	VendorCount int         `json:"vendor_count"`
}
