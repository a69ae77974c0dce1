package middleware

import (
	"net/http"
	"strings"

	"giftyy-backend/internal/auth"
	"giftyy-backend/internal/models"

	"github.com/gin-gonic/gin"
)

const (
	vendorIDKey    = "vendor_id"
	vendorEmailKey = "vendor_email"
)

// VendorAuthMiddleware requires a valid vendor bearer token
func VendorAuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization format"})
			c.Abort()
			return
		}

		claims, err := auth.ValidateToken(tokenString, jwtSecret)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		if claims.Role != models.RoleVendor {
			c.JSON(http.StatusForbidden, gin.H{"error": "Vendor access required"})
			c.Abort()
			return
		}

		c.Set(vendorIDKey, claims.VendorID)
		c.Set(vendorEmailKey, claims.Email)
		c.Next()
	}
}

func GetVendorID(c *gin.Context) string {
	return c.GetString(vendorIDKey)
}
