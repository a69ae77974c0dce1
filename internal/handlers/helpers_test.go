package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"giftyy-backend/internal/database"
	"giftyy-backend/internal/middleware"
	"giftyy-backend/internal/models"
	"giftyy-backend/internal/orderqr"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const testSession = "session-1"

// newTestRouter returns a router where every request belongs to testSession
func newTestRouter() *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.SessionKey, testSession)
		c.Next()
	})
	return r
}

func doJSON(t *testing.T, r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

type fakeRules struct {
	rules map[string]models.ShippingRule
	err   error
}

func (f *fakeRules) GetShippingRules(_ context.Context, vendorIDs []string) (map[string]models.ShippingRule, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := map[string]models.ShippingRule{}
	for _, id := range vendorIDs {
		if r, ok := f.rules[id]; ok {
			out[id] = r
		}
	}
	return out, nil
}

type fakeOrders struct {
	mu      sync.Mutex
	created []*models.Order
	items   [][]models.OrderItem
	err     error
	delay   time.Duration
}

func (f *fakeOrders) CreateOrder(_ context.Context, order *models.Order, items []models.OrderItem) (*models.OrderResponse, error) {
	time.Sleep(f.delay)
	if f.err != nil {
		return nil, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	order.ID = "11111111-1111-1111-1111-111111111111"
	order.OrderCode = "GFT-TEST"
	f.created = append(f.created, order)
	f.items = append(f.items, items)
	return &models.OrderResponse{Order: *order, Items: items}, nil
}

func (f *fakeOrders) GetOrdersBySession(_ context.Context, sessionID string) ([]models.Order, error) {
	var out []models.Order
	for _, o := range f.created {
		if o.SessionID != nil && *o.SessionID == sessionID {
			out = append(out, *o)
		}
	}
	return out, f.err
}

type fakeQR struct {
	calls  []string
	result *orderqr.Result
	err    error
}

func (f *fakeQR) Generate(_ context.Context, orderID string) (*orderqr.Result, error) {
	f.calls = append(f.calls, orderID)
	if f.err != nil {
		return nil, f.err
	}
	if f.result != nil {
		return f.result, nil
	}
	return &orderqr.Result{}, nil
}

type fakeMedia struct {
	uploads map[string][]byte
	err     error
}

func (f *fakeMedia) Upload(_ context.Context, key string, r io.Reader, _ int64, _ string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	if f.uploads == nil {
		f.uploads = map[string][]byte{}
	}
	f.uploads[key] = data
	return key, nil
}

func (f *fakeMedia) ResolveURL(_ context.Context, raw string) string {
	if raw == "" {
		return ""
	}
	return "https://signed.test/" + raw
}

type fakeQRCodes struct {
	codes map[string]models.OrderQRCode
	err   error
}

func (f *fakeQRCodes) GetOrderQRCode(_ context.Context, orderID string, vendorID *string) (*models.OrderQRCode, error) {
	if f.err != nil {
		return nil, f.err
	}
	key := orderID + "|"
	if vendorID != nil {
		key += *vendorID
	}
	code, ok := f.codes[key]
	if !ok {
		return nil, database.ErrNotFound
	}
	return &code, nil
}

var nopLogger = zap.NewNop()
