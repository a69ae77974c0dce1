package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"giftyy-backend/internal/auth"
	"giftyy-backend/internal/middleware"
	"giftyy-backend/internal/models"
	"giftyy-backend/internal/orderqr"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const testJWTSecret = "test-secret"

func setupOrderQRRouter(gen *fakeQR, codes *fakeQRCodes) *gin.Engine {
	h := NewOrderQRHandler(gen, codes, &fakeMedia{}, nopLogger)

	r := gin.New()
	fn := r.Group("/functions/v1", middleware.FunctionCORS())
	fn.POST("/create-order-qr", h.CreateOrderQR)
	fn.OPTIONS("/create-order-qr", h.CreateOrderQR)

	r.GET("/api/orders/:id/qr", h.GetOrderQR)
	vendor := r.Group("/api/vendor", middleware.VendorAuthMiddleware(testJWTSecret))
	vendor.GET("/orders/:id/qr", h.GetVendorOrderQR)
	return r
}

func TestCreateOrderQR(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		genErr     error
		wantStatus int
		wantBody   string
	}{
		{"success", `{"orderId":"o1"}`, nil, http.StatusOK, `{"success":true,"vendorCount":2}`},
		{"missing order id", `{}`, nil, http.StatusBadRequest, `{"error":"orderId is required"}`},
		{"blank order id", `{"orderId":"  "}`, nil, http.StatusBadRequest, `{"error":"orderId is required"}`},
		{"malformed body", `not json`, nil, http.StatusBadRequest, `{"error":"orderId is required"}`},
		{"unknown order", `{"orderId":"o9"}`, fmt.Errorf("load: %w", orderqr.ErrOrderNotFound), http.StatusNotFound, `{"error":"Order not found"}`},
		{"store failure", `{"orderId":"o1"}`, errors.New("upsert failed"), http.StatusInternalServerError, `{"error":"upsert failed"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &fakeQR{result: &orderqr.Result{VendorCount: 2}, err: tt.genErr}
			r := setupOrderQRRouter(gen, &fakeQRCodes{})

			req := httptest.NewRequest(http.MethodPost, "/functions/v1/create-order-qr", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.JSONEq(t, tt.wantBody, w.Body.String())
			assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestCreateOrderQR_LogsMalformedBody(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	h := NewOrderQRHandler(&fakeQR{}, &fakeQRCodes{}, &fakeMedia{}, zap.New(core))
	r := gin.New()
	r.POST("/functions/v1/create-order-qr", h.CreateOrderQR)

	req := httptest.NewRequest(http.MethodPost, "/functions/v1/create-order-qr", strings.NewReader("not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	entries := logs.FilterMessage("create-order-qr body not bound").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
}

func TestCreateOrderQR_Preflight(t *testing.T) {
	gen := &fakeQR{}
	r := setupOrderQRRouter(gen, &fakeQRCodes{})

	req := httptest.NewRequest(http.MethodOptions, "/functions/v1/create-order-qr", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, gen.calls)
}

func TestGetOrderQR(t *testing.T) {
	vendorID := "v1"
	codes := &fakeQRCodes{codes: map[string]models.OrderQRCode{
		"o1|":   {OrderID: "o1", QRCodeURL: "qr/o1.png", QRPayload: `{"orderId":"o1"}`},
		"o1|v1": {OrderID: "o1", VendorID: &vendorID, QRCodeURL: "https://qr.test/img"},
	}}
	r := setupOrderQRRouter(&fakeQR{}, codes)

	w := doJSON(t, r, http.MethodGet, "/api/orders/o1/qr", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var code models.OrderQRCode
	decode(t, w, &code)
	assert.Nil(t, code.VendorID)
	assert.Equal(t, "https://signed.test/qr/o1.png", code.QRCodeURL)

	w = doJSON(t, r, http.MethodGet, "/api/orders/o2/qr", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	token, err := auth.GenerateAccessToken("v1", "shop@example.com", models.RoleVendor, testJWTSecret)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/api/vendor/orders/o1/qr", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &code)
	require.NotNil(t, code.VendorID)
	assert.Equal(t, "v1", *code.VendorID)

	w = doJSON(t, r, http.MethodGet, "/api/vendor/orders/o1/qr", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	codes.err = errors.New("db down")
	w = doJSON(t, r, http.MethodGet, "/api/orders/o1/qr", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
