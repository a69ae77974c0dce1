package pricing

import (
	"testing"

	"giftyy-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTotals_NoCardNoShipping(t *testing.T) {
	result := Totals(50, 0, ShippingBreakdown{}, 0.08)

	assert.InDelta(t, 4.00, result.Tax.Items, 1e-9)
	assert.Equal(t, 0.0, result.Tax.Card)
	assert.InDelta(t, 4.00, result.Tax.Total, 1e-9)
	assert.InDelta(t, 54.00, result.Total, 1e-9)
	assert.Equal(t, "$54.00", FormatCurrency(result.Total))
}

func TestTotals_WithCardAndShipping(t *testing.T) {
	shipping := ShippingBreakdown{Total: 7.5}
	result := Totals(100, 5, shipping, 0.1)

	assert.InDelta(t, 10.0, result.Tax.Items, 1e-9)
	assert.InDelta(t, 0.5, result.Tax.Card, 1e-9)
	assert.InDelta(t, 10.5, result.Tax.Total, 1e-9)
	assert.InDelta(t, 123.0, result.Total, 1e-9)
}

func TestTotals_NegativeCardIsNotTaxed(t *testing.T) {
	result := Totals(10, -1, ShippingBreakdown{}, 0.5)
	assert.Equal(t, 0.0, result.Tax.Card)
}

func TestTotals_NoIntermediateRounding(t *testing.T) {
	// three vendors at 3.333 each must not be rounded to 3.33 before summing
	shipping := ShippingBreakdown{Total: 3.333 * 3}
	result := Totals(0, 0, shipping, 0)
	assert.InDelta(t, 9.999, result.Total, 1e-9)
	assert.Equal(t, "$10.00", FormatCurrency(result.Total))
}

func TestFormatShipping(t *testing.T) {
	assert.Equal(t, "Free", FormatShipping(0))
	assert.Equal(t, "$4.99", FormatShipping(4.99))
	assert.NotEqual(t, "$0.00", FormatShipping(0))
}

func TestParsePrice(t *testing.T) {
	tests := map[string]float64{
		"$24.99":    24.99,
		"24.99":     24.99,
		"$1,024.50": 1024.5,
		" $ 3 ":     3,
		"":          0,
		"free":      0,
		"$1.2.3":    0,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParsePrice(in), in)
	}
}

func TestValidPrice(t *testing.T) {
	tests := map[string]bool{
		"$24.99":      true,
		"24.99":       true,
		"$1,024.50":   true,
		" $ 3 ":       true,
		"$0.00":       true,
		"":            false,
		"free":        false,
		"$1.2.3":      false,
		"12.00-15.00": false,
		"1.024,50 €":  false,
		"-5":          false,
		"$1,02.50":    false,
	}
	for in, want := range tests {
		assert.Equal(t, want, ValidPrice(in), in)
	}
}

func TestEstimateShipping(t *testing.T) {
	items := []models.CartItem{
		{ID: "a", Price: "$20.00", Quantity: 2, VendorID: "v1", VendorName: "Bloom"},
		{ID: "b", Price: "$15.00", Quantity: 1, VendorID: "v2", VendorName: "Cocoa"},
		{ID: "c", Price: "$5.00", Quantity: 1, VendorID: "v1", VendorName: "Bloom"},
		{ID: "d", Price: "$8.00", Quantity: 1},
	}
	rules := map[string]models.ShippingRule{
		"v1": {VendorID: "v1", VendorName: "Bloom Co.", FlatRate: 6, FreeThreshold: 40},
		"v2": {VendorID: "v2", FlatRate: 4.5},
	}

	result := EstimateShipping(items, rules)

	require.Len(t, result.Breakdown, 3)

	bloom := result.Breakdown[0]
	assert.Equal(t, "v1", bloom.VendorID)
	assert.Equal(t, "Bloom Co.", bloom.VendorName)
	assert.Equal(t, 45.0, bloom.Subtotal)
	assert.Equal(t, 3, bloom.ItemCount)
	assert.Equal(t, 0.0, bloom.Shipping, "subtotal over threshold ships free")

	cocoa := result.Breakdown[1]
	assert.Equal(t, "Cocoa", cocoa.VendorName)
	assert.Equal(t, 4.5, cocoa.Shipping)

	house := result.Breakdown[2]
	assert.Equal(t, DefaultVendorName, house.VendorName)
	assert.Equal(t, 0.0, house.Shipping)

	assert.Equal(t, 4.5, result.Total)
}

func TestEstimateShipping_EmptyCart(t *testing.T) {
	result := EstimateShipping(nil, nil)
	assert.Equal(t, 0.0, result.Total)
	assert.Empty(t, result.Breakdown)
}

func TestBuildQuote(t *testing.T) {
	items := []models.CartItem{
		{ID: "a", Price: "$25.00", Quantity: 2, VendorID: "v1", VendorName: "Bloom"},
	}
	rules := map[string]models.ShippingRule{
		"v1": {VendorID: "v1", FlatRate: 5},
	}

	quote := BuildQuote(items, 4.99, rules, 0.08)

	assert.Equal(t, 50.0, quote.Subtotal)
	assert.Equal(t, 5.0, quote.Shipping.Total)
	assert.InDelta(t, 4.0, quote.Tax.Items, 1e-9)
	assert.InDelta(t, 0.3992, quote.Tax.Card, 1e-9)
	assert.InDelta(t, 50+4.99+5+4.3992, quote.Total, 1e-9)

	assert.Equal(t, "$50.00", quote.Display.Subtotal)
	assert.Equal(t, "$4.99", quote.Display.Card)
	assert.Equal(t, "$5.00", quote.Display.ShippingTotal)
	assert.Equal(t, "$4.40", quote.Display.Tax)
	assert.Equal(t, "$64.39", quote.Display.Total)
	require.Len(t, quote.Display.Shipping, 1)
	assert.Equal(t, "$5.00", quote.Display.Shipping[0].Amount)
}

func TestBuildQuote_FreeShippingDisplay(t *testing.T) {
	items := []models.CartItem{
		{ID: "a", Price: "$10.00", Quantity: 1, VendorID: "v1", VendorName: "Bloom"},
	}

	quote := BuildQuote(items, 0, nil, 0.08)

	assert.Empty(t, quote.Display.Card)
	assert.Equal(t, "Free", quote.Display.ShippingTotal)
	require.Len(t, quote.Display.Shipping, 1)
	assert.Equal(t, "Free", quote.Display.Shipping[0].Amount)
}
