package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// SecurityHeaders adds the response headers of a JSON-only API
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		if isSecureRequest(c) {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains; preload")
		}

		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Header("Permissions-Policy", "geolocation=(), microphone=(), camera=()")
		c.Header("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")

		c.Next()
	}
}

// TrustedProxyHeaders records the client address reported by a reverse proxy
func TrustedProxyHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		if realIP := c.GetHeader("X-Real-IP"); realIP != "" {
			c.Set("real_ip", realIP)
		} else if forwardedFor := c.GetHeader("X-Forwarded-For"); forwardedFor != "" {
			ip, _, _ := strings.Cut(forwardedFor, ",")
			c.Set("real_ip", strings.TrimSpace(ip))
		}
		c.Next()
	}
}

// FunctionCORS serves server functions called straight from the app. Any
// origin is allowed and preflight requests always succeed.
func FunctionCORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Headers", "authorization, x-client-info, apikey, content-type")
		c.Header("Access-Control-Allow-Methods", "POST, OPTIONS")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}
		c.Next()
	}
}

// MaintenanceMiddleware answers 503 on buyer routes while enabled reports
// true. Vendor routes and server functions stay available.
func MaintenanceMiddleware(enabled func() bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/api/vendor") ||
			strings.HasPrefix(path, "/functions/") ||
			path == "/api/maintenance-status" ||
			path == "/health" {
			c.Next()
			return
		}

		if enabled() {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"error":            "Giftyy is under maintenance",
				"maintenance_mode": true,
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().Unix(),
		"service":   "giftyy-api",
	})
}

// isSecureRequest checks if the request is HTTPS (considering proxy headers)
func isSecureRequest(c *gin.Context) bool {
	if c.GetHeader("X-Forwarded-Proto") == "https" {
		return true
	}
	if c.Request.TLS != nil {
		return true
	}
	return c.GetHeader("X-Forwarded-SSL") == "on"
}
