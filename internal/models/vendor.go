package models

import "time"

const RoleVendor = "vendor"

type Vendor struct {
	ID                    string    `json:"id"`
	Name                  string    `json:"name"`
	Email                 string    `json:"email"`
	PasswordHash          string    `json:"-"`
	ShippingFlatRate      float64   `json:"shipping_flat_rate"`
	FreeShippingThreshold float64   `json:"free_shipping_threshold"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// ShippingRule describes how a vendor charges shipping for its share of a
// cart. A zero FreeThreshold means the flat rate always applies.
type ShippingRule struct {
	VendorID      string  `json:"vendor_id"`
	VendorName    string  `json:"vendor_name"`
	FlatRate      float64 `json:"flat_rate"`
	FreeThreshold float64 `json:"free_threshold"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Vendor      Vendor `json:"vendor"`
	AccessToken string `json:"access_token"`
}
