package pricing

import "giftyy-backend/internal/models"

// ShippingLine is a VendorShipping rendered for display
type ShippingLine struct {
	VendorName string `json:"vendor_name"`
	Amount     string `json:"amount"`
}

// Summary is the display-ready form of a Quote
type Summary struct {
	Subtotal      string         `json:"subtotal"`
	Card          string         `json:"card,omitempty"`
	Shipping      []ShippingLine `json:"shipping"`
	ShippingTotal string         `json:"shipping_total"`
	Tax           string         `json:"tax"`
	Total         string         `json:"total"`
}

// Quote is everything the confirmation screen and the order record need
type Quote struct {
	Subtotal  float64           `json:"subtotal"`
	CardAddOn float64           `json:"card_add_on"`
	Shipping  ShippingBreakdown `json:"shipping"`
	Tax       TaxBreakdown      `json:"tax"`
	Total     float64           `json:"total"`
	Display   Summary           `json:"display"`
}

// Subtotal sums price times quantity over the cart lines
func Subtotal(items []models.CartItem) float64 {
	var subtotal float64
	for _, item := range items {
		subtotal += ParsePrice(item.Price) * float64(item.Quantity)
	}
	return subtotal
}

// BuildQuote prices a whole checkout: items, card add-on, per-vendor shipping
// and tax.
func BuildQuote(items []models.CartItem, cardAddOn float64, rules map[string]models.ShippingRule, taxRate float64) Quote {
	subtotal := Subtotal(items)
	shipping := EstimateShipping(items, rules)
	totals := Totals(subtotal, cardAddOn, shipping, taxRate)

	return Quote{
		Subtotal:  subtotal,
		CardAddOn: cardAddOn,
		Shipping:  shipping,
		Tax:       totals.Tax,
		Total:     totals.Total,
		Display:   Summarize(subtotal, cardAddOn, shipping, totals),
	}
}

func Summarize(subtotal, cardAddOn float64, shipping ShippingBreakdown, totals TotalsResult) Summary {
	s := Summary{
		Subtotal:      FormatCurrency(subtotal),
		Shipping:      make([]ShippingLine, 0, len(shipping.Breakdown)),
		ShippingTotal: FormatShipping(shipping.Total),
		Tax:           FormatCurrency(totals.Tax.Total),
		Total:         FormatCurrency(totals.Total),
	}
	if cardAddOn > 0 {
		s.Card = FormatCurrency(cardAddOn)
	}
	for _, vendor := range shipping.Breakdown {
		s.Shipping = append(s.Shipping, ShippingLine{
			VendorName: vendor.VendorName,
			Amount:     FormatShipping(vendor.Shipping),
		})
	}
	return s
}
