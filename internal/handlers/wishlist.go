package handlers

import (
	"context"
	"net/http"

	"giftyy-backend/internal/middleware"
	"giftyy-backend/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type WishlistStore interface {
	List(ctx context.Context, owner string) []models.WishlistItem
	Toggle(ctx context.Context, owner, productID string) (bool, error)
	Remove(ctx context.Context, owner, productID string) error
	Contains(ctx context.Context, owner, productID string) (bool, error)
	Clear(ctx context.Context, owner string) error
}

type WishlistHandler struct {
	wishlists WishlistStore
	logger    *zap.Logger
}

func NewWishlistHandler(wishlists WishlistStore, logger *zap.Logger) *WishlistHandler {
	return &WishlistHandler{wishlists: wishlists, logger: logger}
}

func (h *WishlistHandler) GetWishlist(c *gin.Context) {
	items := h.wishlists.List(c.Request.Context(), middleware.GetSessionID(c))
	c.JSON(http.StatusOK, models.WishlistResponse{Items: items, Total: len(items)})
}

// CheckWishlist reports whether one product is saved, for the heart icon on
// a product page
func (h *WishlistHandler) CheckWishlist(c *gin.Context) {
	productID := c.Param("productId")

	found, err := h.wishlists.Contains(c.Request.Context(), middleware.GetSessionID(c), productID)
	if err != nil {
		h.logger.Error("wishlist lookup failed", zap.String("product_id", productID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get wishlist"})
		return
	}

	c.JSON(http.StatusOK, models.WishlistStatusResponse{ProductID: productID, InWishlist: found})
}

func (h *WishlistHandler) ToggleWishlist(c *gin.Context) {
	productID := c.Param("productId")

	added, err := h.wishlists.Toggle(c.Request.Context(), middleware.GetSessionID(c), productID)
	if err != nil {
		h.logger.Error("wishlist toggle failed", zap.String("product_id", productID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update wishlist"})
		return
	}

	c.JSON(http.StatusOK, models.WishlistToggleResponse{ProductID: productID, Added: added})
}

func (h *WishlistHandler) RemoveFromWishlist(c *gin.Context) {
	productID := c.Param("productId")

	if err := h.wishlists.Remove(c.Request.Context(), middleware.GetSessionID(c), productID); err != nil {
		h.logger.Error("wishlist remove failed", zap.String("product_id", productID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update wishlist"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Removed from wishlist"})
}

func (h *WishlistHandler) ClearWishlist(c *gin.Context) {
	if err := h.wishlists.Clear(c.Request.Context(), middleware.GetSessionID(c)); err != nil {
		h.logger.Error("wishlist clear failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear wishlist"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Wishlist cleared successfully"})
}
