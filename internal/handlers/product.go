package handlers

import (
	"errors"
	"net/http"

	"giftyy-backend/internal/database"
	"giftyy-backend/internal/models"
	"giftyy-backend/internal/pricing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ProductHandler struct {
	products pricing.ProductSource
	logger   *zap.Logger
}

func NewProductHandler(products pricing.ProductSource, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{products: products, logger: logger}
}

// GetProductPrice returns the lowest price a product sells for across its
// variations
func (h *ProductHandler) GetProductPrice(c *gin.Context) {
	productID := c.Param("id")

	product, lowest, err := pricing.ResolveProductPrice(c.Request.Context(), h.products, productID, h.logger)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		h.logger.Error("price resolution failed", zap.String("product_id", productID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get product price"})
		return
	}

	c.JSON(http.StatusOK, models.ProductPriceResponse{
		ProductID:   product.ID,
		BasePrice:   product.BasePrice,
		LowestPrice: lowest,
		Display:     pricing.FormatCurrency(lowest),
	})
}
