package pricing

// TaxBreakdown splits sales tax between the cart items and the card add-on
type TaxBreakdown struct {
	Items float64 `json:"items"`
	Card  float64 `json:"card"`
	Total float64 `json:"total"`
}

// TotalsResult is the order total with the tax that went into it
type TotalsResult struct {
	Tax   TaxBreakdown `json:"tax"`
	Total float64      `json:"total"`
}

// Totals computes tax and the grand total of a checkout. Nothing is rounded
// here; rounding happens only when amounts are formatted for display.
func Totals(itemsSubtotal, cardAddOn float64, shipping ShippingBreakdown, taxRate float64) TotalsResult {
	tax := TaxBreakdown{
		Items: itemsSubtotal * taxRate,
	}
	if cardAddOn > 0 {
		tax.Card = cardAddOn * taxRate
	}
	tax.Total = tax.Items + tax.Card

	return TotalsResult{
		Tax:   tax,
		Total: itemsSubtotal + cardAddOn + shipping.Total + tax.Total,
	}
}
