// Package pricing resolves product prices and aggregates checkout totals.
// Every function here is pure except ResolveProductPrice, which fetches its
// inputs first.
package pricing

import (
	"context"
	"fmt"

	"giftyy-backend/internal/models"

	"go.uber.org/zap"
)

// LowestPrice returns the cheapest price a product can be bought at, given its
// base price and variations. It never returns more than basePrice.
func LowestPrice(basePrice float64, variations []models.Variation) float64 {
	lowest := basePrice

	for _, v := range variations {
		switch attrs := v.Attributes.(type) {
		case models.CombinationAttributes:
			for _, combo := range attrs.Combinations {
				if combo.StockQuantity <= 0 {
					continue
				}
				if p := combo.FinalPrice(basePrice); p < lowest {
					lowest = p
				}
			}
		case models.OptionAttributes:
			// An explicit price takes precedence over the options list. The
			// intended precedence is undocumented upstream; this keeps the
			// order the app has always checked them in.
			if v.Price != nil {
				lowest = minPrice(lowest, *v.Price)
				continue
			}
			for _, opt := range attrs.Options {
				if opt.Price != nil {
					lowest = minPrice(lowest, *opt.Price)
				}
			}
		default:
			if v.Price != nil {
				lowest = minPrice(lowest, *v.Price)
			}
		}
	}

	return lowest
}

func minPrice(a, b float64) float64 {
	if b < a {
		return b
	}
	return a
}

// ProductSource loads the inputs of a price resolution
type ProductSource interface {
	GetProduct(ctx context.Context, productID string) (*models.Product, error)
	GetVariations(ctx context.Context, productID string) ([]models.Variation, error)
}

// ResolveProductPrice fetches a product and its variations and returns the
// lowest price. A failure to load variations degrades to the base price.
func ResolveProductPrice(ctx context.Context, source ProductSource, productID string, logger *zap.Logger) (*models.Product, float64, error) {
	product, err := source.GetProduct(ctx, productID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to load product: %w", err)
	}

	variations, err := source.GetVariations(ctx, productID)
	if err != nil {
		if logger != nil {
			logger.Warn("variations unavailable, using base price",
				zap.String("product_id", productID), zap.Error(err))
		}
		return product, product.BasePrice, nil
	}

	return product, LowestPrice(product.BasePrice, variations), nil
}
