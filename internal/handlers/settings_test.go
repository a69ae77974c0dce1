package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"giftyy-backend/internal/auth"
	"giftyy-backend/internal/middleware"
	"giftyy-backend/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticMaintenance bool

func (s staticMaintenance) Enabled() bool { return bool(s) }
func (s staticMaintenance) Set(bool)      {}

type fakeSettings struct {
	mu      sync.Mutex
	enabled bool
	lookups int
	err     error
}

func (f *fakeSettings) GetMaintenanceMode(context.Context) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookups++
	return f.enabled, nil
}

func (f *fakeSettings) SetMaintenanceMode(_ context.Context, enabled bool) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.enabled = enabled
	return nil
}

func (f *fakeSettings) GetAllSettings(context.Context) ([]models.SiteSetting, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	value := "false"
	if f.enabled {
		value = "true"
	}
	return []models.SiteSetting{{Key: models.SettingMaintenanceMode, Value: value}}, nil
}

func setupSettingsRouter(settings *fakeSettings) *gin.Engine {
	sw := middleware.NewMaintenanceSwitch(settings, false, time.Hour, nopLogger)
	h := NewSettingsHandler(sw, settings, nopLogger)

	r := gin.New()
	api := r.Group("/api", middleware.MaintenanceMiddleware(sw.Enabled))
	api.GET("/maintenance-status", h.GetMaintenanceStatus)
	api.GET("/cart", func(c *gin.Context) { c.Status(http.StatusOK) })
	vendor := api.Group("/vendor", middleware.VendorAuthMiddleware(testJWTSecret))
	vendor.GET("/settings", h.GetSettings)
	vendor.PUT("/maintenance", h.UpdateMaintenanceMode)
	return r
}

func vendorRequest(t *testing.T, r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	token, err := auth.GenerateAccessToken("v1", "shop@example.com", models.RoleVendor, testJWTSecret)
	require.NoError(t, err)

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGetMaintenanceStatus(t *testing.T) {
	for _, on := range []bool{true, false} {
		h := NewSettingsHandler(staticMaintenance(on), &fakeSettings{}, nopLogger)
		r := gin.New()
		r.GET("/api/maintenance-status", h.GetMaintenanceStatus)

		w := doJSON(t, r, http.MethodGet, "/api/maintenance-status", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp models.MaintenanceStatusResponse
		decode(t, w, &resp)
		assert.Equal(t, on, resp.MaintenanceMode)
	}
}

func TestUpdateMaintenanceMode(t *testing.T) {
	settings := &fakeSettings{}
	r := setupSettingsRouter(settings)

	w := doJSON(t, r, http.MethodGet, "/api/cart", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = vendorRequest(t, r, http.MethodPut, "/api/vendor/maintenance", map[string]bool{"maintenance_mode": true})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp models.MaintenanceStatusResponse
	decode(t, w, &resp)
	assert.True(t, resp.MaintenanceMode)
	assert.True(t, settings.enabled)

	// applies at once although the cached lookup is still fresh
	w = doJSON(t, r, http.MethodGet, "/api/cart", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, 1, settings.lookups)

	// vendor routes stay reachable so the site can be switched back on
	w = vendorRequest(t, r, http.MethodPut, "/api/vendor/maintenance", map[string]bool{"maintenance_mode": false})
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, r, http.MethodGet, "/api/cart", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUpdateMaintenanceMode_Errors(t *testing.T) {
	settings := &fakeSettings{}
	r := setupSettingsRouter(settings)

	w := doJSON(t, r, http.MethodPut, "/api/vendor/maintenance", map[string]bool{"maintenance_mode": true})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = vendorRequest(t, r, http.MethodPut, "/api/vendor/maintenance", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	settings.err = errors.New("connection refused")
	w = vendorRequest(t, r, http.MethodPut, "/api/vendor/maintenance", map[string]bool{"maintenance_mode": true})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.False(t, settings.enabled)

	w = vendorRequest(t, r, http.MethodGet, "/api/vendor/settings", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestGetSettings(t *testing.T) {
	settings := &fakeSettings{enabled: true}
	r := setupSettingsRouter(settings)

	w := vendorRequest(t, r, http.MethodGet, "/api/vendor/settings", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.SiteSettingsResponse
	decode(t, w, &resp)
	require.Len(t, resp.Settings, 1)
	assert.Equal(t, models.SettingMaintenanceMode, resp.Settings[0].Key)
	assert.Equal(t, "true", resp.Settings[0].Value)
}
