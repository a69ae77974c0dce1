package models

import "time"

type WishlistItem struct {
	ProductID string    `json:"productId"`
	AddedAt   time.Time `json:"addedAt"`
}

type WishlistResponse struct {
	Items []WishlistItem `json:"items"`
	Total int            `json:"total"`
}

type WishlistToggleResponse struct {
	ProductID string `json:"product_id"`
	Added     bool   `json:"added"`
}

type WishlistStatusResponse struct {
	ProductID  string `json:"product_id"`
	InWishlist bool   `json:"in_wishlist"`
}
