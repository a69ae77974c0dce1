package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"giftyy-backend/internal/database"
	"giftyy-backend/internal/middleware"
	"giftyy-backend/internal/models"
	"giftyy-backend/internal/orderqr"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type QRGenerator interface {
	Generate(ctx context.Context, orderID string) (*orderqr.Result, error)
}

type QRCodeSource interface {
	GetOrderQRCode(ctx context.Context, orderID string, vendorID *string) (*models.OrderQRCode, error)
}

// URLResolver turns stored object references into loadable URLs
type URLResolver interface {
	ResolveURL(ctx context.Context, raw string) string
}

type OrderQRHandler struct {
	generator QRGenerator
	codes     QRCodeSource
	urls      URLResolver
	logger    *zap.Logger
}

func NewOrderQRHandler(generator QRGenerator, codes QRCodeSource, urls URLResolver, logger *zap.Logger) *OrderQRHandler {
	return &OrderQRHandler{generator: generator, codes: codes, urls: urls, logger: logger}
}

// CreateOrderQR is the create-order-qr server function
func (h *OrderQRHandler) CreateOrderQR(c *gin.Context) {
	var req models.CreateOrderQRRequest
	// a malformed body is reported as a missing orderId
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Debug("create-order-qr body not bound", zap.Error(err))
	}

	if strings.TrimSpace(req.OrderID) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "orderId is required"})
		return
	}

	result, err := h.generator.Generate(c.Request.Context(), req.OrderID)
	if err != nil {
		switch {
		case errors.Is(err, orderqr.ErrMissingOrderID):
			c.JSON(http.StatusBadRequest, gin.H{"error": "orderId is required"})
		case errors.Is(err, orderqr.ErrOrderNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		default:
			h.logger.Error("create order qr failed", zap.String("order_id", req.OrderID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, models.CreateOrderQRResponse{Success: true, VendorCount: result.VendorCount})
}

// GetOrderQR returns the general QR record of an order
func (h *OrderQRHandler) GetOrderQR(c *gin.Context) {
	h.respondQR(c, nil)
}

// GetVendorOrderQR returns the QR record of an order for the signed-in vendor
func (h *OrderQRHandler) GetVendorOrderQR(c *gin.Context) {
	vendorID := middleware.GetVendorID(c)
	h.respondQR(c, &vendorID)
}

func (h *OrderQRHandler) respondQR(c *gin.Context, vendorID *string) {
	code, err := h.codes.GetOrderQRCode(c.Request.Context(), c.Param("id"), vendorID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "QR code not found"})
			return
		}
		h.logger.Error("get order qr failed", zap.String("order_id", c.Param("id")), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get QR code"})
		return
	}

	code.QRCodeURL = h.urls.ResolveURL(c.Request.Context(), code.QRCodeURL)
	c.JSON(http.StatusOK, code)
}
