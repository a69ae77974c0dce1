// Package orderqr fans a placed order out into scannable QR records: one
// general record for the order plus one per vendor whose products it
// contains.
package orderqr

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"giftyy-backend/internal/database"
	"giftyy-backend/internal/models"

	"go.uber.org/zap"
)

var (
	ErrMissingOrderID = errors.New("orderId is required")
	ErrOrderNotFound  = errors.New("order not found")
)

// Store is the persistence the fan-out needs. GetOrder reports a missing
// order with database.ErrNotFound.
type Store interface {
	GetOrder(ctx context.Context, id string) (*models.Order, error)
	GetOrderItems(ctx context.Context, orderID string) ([]models.OrderItem, error)
	GetVendorIDsForProducts(ctx context.Context, productIDs []string) ([]string, error)
	UpsertOrderQRCodes(ctx context.Context, codes []models.OrderQRCode) error
}

type Result struct {
	VendorCount int
	QRCodeURL   string
	Payload     string
}

type Service struct {
	store        Store
	images       ImageSource
	deepLinkBase string
	logger       *zap.Logger
}

func NewService(store Store, images ImageSource, deepLinkBase string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:        store,
		images:       images,
		deepLinkBase: deepLinkBase,
		logger:       logger,
	}
}

// DeepLinkURL is the link the app opens when an order QR is scanned
func DeepLinkURL(base, orderID string) string {
	return strings.TrimRight(base, "/") + "/order/" + orderID
}

// Generate writes the QR records of an order. Running it again for the same
// order overwrites the existing records instead of adding new ones.
func (s *Service) Generate(ctx context.Context, orderID string) (*Result, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return nil, ErrMissingOrderID
	}

	order, err := s.store.GetOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	items, err := s.store.GetOrderItems(ctx, order.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order items: %w", err)
	}

	var vendorIDs []string
	if productIDs := distinctProductIDs(items); len(productIDs) > 0 {
		vendorIDs, err = s.store.GetVendorIDsForProducts(ctx, productIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to get vendors: %w", err)
		}
	}

	payload, err := json.Marshal(models.QRPayload{
		OrderID:   order.ID,
		OrderCode: order.OrderCode,
		URL:       DeepLinkURL(s.deepLinkBase, order.ID),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode qr payload: %w", err)
	}

	imageURL, err := s.images.ImageURL(ctx, order.ID, string(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build qr image: %w", err)
	}

	codes := make([]models.OrderQRCode, 0, len(vendorIDs)+1)
	codes = append(codes, models.OrderQRCode{
		OrderID:   order.ID,
		QRCodeURL: imageURL,
		QRPayload: string(payload),
	})
	for _, vendorID := range vendorIDs {
		vendorID := vendorID
		codes = append(codes, models.OrderQRCode{
			OrderID:   order.ID,
			VendorID:  &vendorID,
			QRCodeURL: imageURL,
			QRPayload: string(payload),
		})
	}

	if err := s.store.UpsertOrderQRCodes(ctx, codes); err != nil {
		return nil, fmt.Errorf("failed to save qr codes: %w", err)
	}

	s.logger.Info("order qr codes generated",
		zap.String("order_id", order.ID),
		zap.Int("vendor_count", len(vendorIDs)))

	return &Result{
		VendorCount: len(vendorIDs),
		QRCodeURL:   imageURL,
		Payload:     string(payload),
	}, nil
}

func distinctProductIDs(items []models.OrderItem) []string {
	seen := make(map[string]bool, len(items))
	ids := make([]string, 0, len(items))
	for _, item := range items {
		if item.ProductID == "" || seen[item.ProductID] {
			continue
		}
		seen[item.ProductID] = true
		ids = append(ids, item.ProductID)
	}
	return ids
}
