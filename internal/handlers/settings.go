package handlers

import (
	"context"
	"net/http"

	"giftyy-backend/internal/middleware"
	"giftyy-backend/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type MaintenanceState interface {
	Enabled() bool
	Set(enabled bool)
}

type SettingsStore interface {
	GetAllSettings(ctx context.Context) ([]models.SiteSetting, error)
	SetMaintenanceMode(ctx context.Context, enabled bool) error
}

type SettingsHandler struct {
	maintenance MaintenanceState
	settings    SettingsStore
	logger      *zap.Logger
}

func NewSettingsHandler(maintenance MaintenanceState, settings SettingsStore, logger *zap.Logger) *SettingsHandler {
	return &SettingsHandler{maintenance: maintenance, settings: settings, logger: logger}
}

// GetMaintenanceStatus lets the app show its maintenance screen before any
// buyer call fails
func (h *SettingsHandler) GetMaintenanceStatus(c *gin.Context) {
	c.JSON(http.StatusOK, models.MaintenanceStatusResponse{MaintenanceMode: h.maintenance.Enabled()})
}

func (h *SettingsHandler) GetSettings(c *gin.Context) {
	settings, err := h.settings.GetAllSettings(c.Request.Context())
	if err != nil {
		h.logger.Error("list settings failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get settings"})
		return
	}
	if settings == nil {
		settings = []models.SiteSetting{}
	}
	c.JSON(http.StatusOK, models.SiteSettingsResponse{Settings: settings})
}

// UpdateMaintenanceMode switches buyer routes on or off. The reported state
// can still be on when MAINTENANCE_MODE forces it.
func (h *SettingsHandler) UpdateMaintenanceMode(c *gin.Context) {
	var req models.MaintenanceModeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.settings.SetMaintenanceMode(c.Request.Context(), *req.MaintenanceMode); err != nil {
		h.logger.Error("update maintenance mode failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update maintenance mode"})
		return
	}
	h.maintenance.Set(*req.MaintenanceMode)

	h.logger.Info("maintenance mode updated",
		zap.Bool("enabled", *req.MaintenanceMode),
		zap.String("vendor_id", middleware.GetVendorID(c)))
	c.JSON(http.StatusOK, models.MaintenanceStatusResponse{MaintenanceMode: h.maintenance.Enabled()})
}
