package handlers

import (
	"errors"
	"net/http"

	"giftyy-backend/internal/cart"
	"giftyy-backend/internal/middleware"
	"giftyy-backend/internal/models"
	"giftyy-backend/internal/pricing"

	"github.com/gin-gonic/gin"
)

// CartHandler handles cart-related requests
type CartHandler struct {
	carts *cart.Registry
}

// NewCartHandler creates a new cart handler
func NewCartHandler(carts *cart.Registry) *CartHandler {
	return &CartHandler{carts: carts}
}

func (h *CartHandler) sessionCart(c *gin.Context) (*cart.Store, bool) {
	sessionID := middleware.GetSessionID(c)
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No session found"})
		return nil, false
	}
	return h.carts.Get(sessionID), true
}

func cartResponse(store *cart.Store) models.CartResponse {
	total := store.TotalQuantity()
	return models.CartResponse{
		Items:      store.Items(),
		TotalItems: total,
		Subtotal:   store.Subtotal(),
		BadgeLabel: cart.BadgeLabel(total),
	}
}

// GetCart returns the current cart contents
func (h *CartHandler) GetCart(c *gin.Context) {
	store, ok := h.sessionCart(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, cartResponse(store))
}

// AddToCart adds an item to the cart, merging with an existing line of the
// same product
func (h *CartHandler) AddToCart(c *gin.Context) {
	var req models.CartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !pricing.ValidPrice(req.Price) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid price format"})
		return
	}

	store, ok := h.sessionCart(c)
	if !ok {
		return
	}

	store.AddItem(models.CartItem{
		ID:         req.ID,
		Name:       req.Name,
		Price:      req.Price,
		Quantity:   req.Quantity,
		Image:      req.Image,
		VendorID:   req.VendorID,
		VendorName: req.VendorName,
	})

	c.JSON(http.StatusOK, cartResponse(store))
}

// UpdateCartItem sets the quantity of a cart line; zero or less removes it
func (h *CartHandler) UpdateCartItem(c *gin.Context) {
	var req models.CartItemUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	store, ok := h.sessionCart(c)
	if !ok {
		return
	}

	if err := store.UpdateQuantity(c.Param("id"), *req.Quantity); err != nil {
		if errors.Is(err, cart.ErrItemNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Cart item not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart item"})
		return
	}

	c.JSON(http.StatusOK, cartResponse(store))
}

// RemoveFromCart removes an item from the cart
func (h *CartHandler) RemoveFromCart(c *gin.Context) {
	store, ok := h.sessionCart(c)
	if !ok {
		return
	}

	if err := store.RemoveItem(c.Param("id")); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Cart item not found"})
		return
	}

	c.JSON(http.StatusOK, cartResponse(store))
}

// ClearCart removes all items from the cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	store, ok := h.sessionCart(c)
	if !ok {
		return
	}
	store.Clear()
	c.JSON(http.StatusOK, gin.H{"message": "Cart cleared successfully"})
}

// GetCartCount returns the number of items for the cart badge
func (h *CartHandler) GetCartCount(c *gin.Context) {
	store, ok := h.sessionCart(c)
	if !ok {
		return
	}
	count := store.TotalQuantity()
	c.JSON(http.StatusOK, models.CartCountResponse{Count: count, Label: cart.BadgeLabel(count)})
}
