package models

// CartItem is a single line of a buyer's cart. Price is the display-formatted
// currency string the app shows (e.g. "$24.99").
type CartItem struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Price      string `json:"price"`
	Quantity   int    `json:"quantity"`
	Image      string `json:"image,omitempty"`
	VendorID   string `json:"vendor_id,omitempty"`
	VendorName string `json:"vendor_name,omitempty"`
}

// CartItemRequest represents the request to add an item to the cart
type CartItemRequest struct {
	ID         string `json:"id" binding:"required,uuid"`
	Name       string `json:"name" binding:"required"`
	Price      string `json:"price" binding:"required"`
	Quantity   int    `json:"quantity"`
	Image      string `json:"image"`
	VendorID   string `json:"vendor_id"`
	VendorName string `json:"vendor_name"`
}

// CartItemUpdateRequest represents the request to update cart item quantity.
// A quantity of zero or less removes the item.
type CartItemUpdateRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// CartResponse represents the full cart with items
type CartResponse struct {
	Items      []CartItem `json:"items"`
	TotalItems int        `json:"total_items"`
	Subtotal   float64    `json:"subtotal"`
	BadgeLabel string     `json:"badge_label"`
}

// CartCountResponse represents the cart item count
type CartCountResponse struct {
	Count int    `json:"count"`
	Label string `json:"label"`
}
