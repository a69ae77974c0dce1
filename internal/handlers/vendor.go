package handlers

import (
	"context"
	"net/http"

	"giftyy-backend/internal/auth"
	"giftyy-backend/internal/models"

	"github.com/gin-gonic/gin"
)

type VendorSource interface {
	GetVendorByEmail(ctx context.Context, email string) (*models.Vendor, error)
}

type VendorHandler struct {
	vendors   VendorSource
	jwtSecret string
}

func NewVendorHandler(vendors VendorSource, jwtSecret string) *VendorHandler {
	return &VendorHandler{vendors: vendors, jwtSecret: jwtSecret}
}

func (h *VendorHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	vendor, err := h.vendors.GetVendorByEmail(c.Request.Context(), req.Email)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	if !auth.CheckPassword(req.Password, vendor.PasswordHash) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	accessToken, err := auth.GenerateAccessToken(vendor.ID, vendor.Email, models.RoleVendor, h.jwtSecret)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate access token"})
		return
	}

	c.JSON(http.StatusOK, models.AuthResponse{
		Vendor:      *vendor,
		AccessToken: accessToken,
	})
}
