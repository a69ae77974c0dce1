package orderqr

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/url"
	"sort"
	"sync"
	"testing"

	"giftyy-backend/internal/database"
	"giftyy-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryStore keeps QR rows keyed by (order, vendor) like the unique
// constraint on order_qr_codes
type memoryStore struct {
	mu       sync.Mutex
	orders   map[string]*models.Order
	items    map[string][]models.OrderItem
	vendorOf map[string]string

	codes map[string]models.OrderQRCode

	GetOrderErr error
	ItemsErr    error
	VendorsErr  error
	UpsertErr   error

	vendorLookups int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		orders:   make(map[string]*models.Order),
		items:    make(map[string][]models.OrderItem),
		vendorOf: make(map[string]string),
		codes:    make(map[string]models.OrderQRCode),
	}
}

func codeKey(orderID string, vendorID *string) string {
	if vendorID == nil {
		return orderID + "|"
	}
	return orderID + "|" + *vendorID
}

func (m *memoryStore) GetOrder(_ context.Context, id string) (*models.Order, error) {
	if m.GetOrderErr != nil {
		return nil, m.GetOrderErr
	}
	order, ok := m.orders[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	return order, nil
}

func (m *memoryStore) GetOrderItems(_ context.Context, orderID string) ([]models.OrderItem, error) {
	return m.items[orderID], m.ItemsErr
}

func (m *memoryStore) GetVendorIDsForProducts(_ context.Context, productIDs []string) ([]string, error) {
	m.vendorLookups++
	if m.VendorsErr != nil {
		return nil, m.VendorsErr
	}
	seen := map[string]bool{}
	var out []string
	for _, id := range productIDs {
		if v, ok := m.vendorOf[id]; ok && !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out, nil
}

func (m *memoryStore) UpsertOrderQRCodes(_ context.Context, codes []models.OrderQRCode) error {
	if m.UpsertErr != nil {
		return m.UpsertErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range codes {
		m.codes[codeKey(c.OrderID, c.VendorID)] = c
	}
	return nil
}

func (m *memoryStore) rowsFor(orderID string) []models.OrderQRCode {
	var rows []models.OrderQRCode
	for _, c := range m.codes {
		if c.OrderID == orderID {
			rows = append(rows, c)
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		return codeKey(rows[i].OrderID, rows[i].VendorID) < codeKey(rows[j].OrderID, rows[j].VendorID)
	})
	return rows
}

// seedOrder creates order o1 with three lines from two vendors plus a
// product without a vendor
func seedOrder(m *memoryStore) {
	m.orders["o1"] = &models.Order{ID: "o1", OrderCode: "GFT-1001"}
	m.items["o1"] = []models.OrderItem{
		{ProductID: "p1"}, {ProductID: "p2"}, {ProductID: "p1"}, {ProductID: "p3"},
	}
	m.vendorOf["p1"] = "v1"
	m.vendorOf["p2"] = "v2"
}

func newTestService(m *memoryStore) *Service {
	return NewService(m, GeneratorImages{}, "https://giftyy.app/", nil)
}

func TestGenerate_OneRowPerVendorPlusGeneral(t *testing.T) {
	m := newMemoryStore()
	seedOrder(m)

	res, err := newTestService(m).Generate(context.Background(), "o1")
	require.NoError(t, err)
	assert.Equal(t, 2, res.VendorCount)

	rows := m.rowsFor("o1")
	require.Len(t, rows, 3)
	assert.Nil(t, rows[0].VendorID)
	assert.Equal(t, "v1", *rows[1].VendorID)
	assert.Equal(t, "v2", *rows[2].VendorID)

	for _, row := range rows {
		assert.Equal(t, res.QRCodeURL, row.QRCodeURL)
		assert.Equal(t, res.Payload, row.QRPayload)
	}
}

func TestGenerate_PayloadAndImageURL(t *testing.T) {
	m := newMemoryStore()
	seedOrder(m)

	res, err := newTestService(m).Generate(context.Background(), "o1")
	require.NoError(t, err)

	var payload models.QRPayload
	require.NoError(t, json.Unmarshal([]byte(res.Payload), &payload))
	assert.Equal(t, models.QRPayload{
		OrderID:   "o1",
		OrderCode: "GFT-1001",
		URL:       "https://giftyy.app/order/o1",
	}, payload)

	u, err := url.Parse(res.QRCodeURL)
	require.NoError(t, err)
	assert.Equal(t, res.Payload, u.Query().Get("data"))
}

func TestGenerate_Idempotent(t *testing.T) {
	m := newMemoryStore()
	seedOrder(m)
	svc := newTestService(m)

	first, err := svc.Generate(context.Background(), "o1")
	require.NoError(t, err)
	second, err := svc.Generate(context.Background(), "o1")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, m.rowsFor("o1"), 3)
}

func TestGenerate_NoItems(t *testing.T) {
	m := newMemoryStore()
	m.orders["o2"] = &models.Order{ID: "o2", OrderCode: "GFT-1002"}

	res, err := newTestService(m).Generate(context.Background(), "o2")
	require.NoError(t, err)
	assert.Equal(t, 0, res.VendorCount)
	assert.Equal(t, 0, m.vendorLookups)

	rows := m.rowsFor("o2")
	require.Len(t, rows, 1)
	assert.Nil(t, rows[0].VendorID)
}

func TestGenerate_Errors(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name    string
		orderID string
		setup   func(m *memoryStore)
		wantErr error
	}{
		{"missing id", "  ", nil, ErrMissingOrderID},
		{"not found", "nope", nil, ErrOrderNotFound},
		{"order lookup", "o1", func(m *memoryStore) { m.GetOrderErr = boom }, boom},
		{"items", "o1", func(m *memoryStore) { m.ItemsErr = boom }, boom},
		{"vendors", "o1", func(m *memoryStore) { m.VendorsErr = boom }, boom},
		{"upsert", "o1", func(m *memoryStore) { m.UpsertErr = boom }, boom},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newMemoryStore()
			seedOrder(m)
			if tt.setup != nil {
				tt.setup(m)
			}

			res, err := newTestService(m).Generate(context.Background(), tt.orderID)
			assert.Nil(t, res)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, m.rowsFor("o1"))
		})
	}
}

type fakeUploader struct {
	keys []string
	err  error
}

func (f *fakeUploader) Upload(_ context.Context, key string, r io.Reader, _ int64, contentType string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if _, err := io.ReadAll(r); err != nil {
		return "", err
	}
	f.keys = append(f.keys, key+"|"+contentType)
	return key, nil
}

func (f *fakeUploader) ObjectURL(key string) string {
	return "http://minio.local:9000/giftyy-media/" + key
}

func TestStoredImages(t *testing.T) {
	m := newMemoryStore()
	seedOrder(m)
	up := &fakeUploader{}
	svc := NewService(m, StoredImages{Storage: up, Size: 128}, "https://giftyy.app", nil)

	res, err := svc.Generate(context.Background(), "o1")
	require.NoError(t, err)
	assert.Equal(t, "http://minio.local:9000/giftyy-media/qr/o1.png", res.QRCodeURL)
	assert.Equal(t, []string{"qr/o1.png|image/png"}, up.keys)

	up.err = errors.New("bucket gone")
	_, err = svc.Generate(context.Background(), "o1")
	assert.Error(t, err)
}

func TestDeepLinkURL(t *testing.T) {
	assert.Equal(t, "https://giftyy.app/order/o1", DeepLinkURL("https://giftyy.app", "o1"))
	assert.Equal(t, "https://giftyy.app/order/o1", DeepLinkURL("https://giftyy.app/", "o1"))
}
