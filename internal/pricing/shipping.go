package pricing

import "giftyy-backend/internal/models"

// DefaultVendorName labels cart lines that carry no vendor
const DefaultVendorName = "Giftyy"

// VendorShipping is one vendor's share of the cart and what it charges to ship it
type VendorShipping struct {
	VendorID   string  `json:"vendorId"`
	VendorName string  `json:"vendorName"`
	Subtotal   float64 `json:"subtotal"`
	Shipping   float64 `json:"shipping"`
	ItemCount  int     `json:"itemCount"`
}

// ShippingBreakdown lists shipping per vendor in cart order, plus the sum
type ShippingBreakdown struct {
	Total     float64          `json:"total"`
	Breakdown []VendorShipping `json:"breakdown"`
}

// EstimateShipping groups cart lines by vendor and applies each vendor's
// shipping rule to its share of the cart. Vendors without a rule ship free.
// The breakdown lists vendors in the order they first appear in the cart.
func EstimateShipping(items []models.CartItem, rules map[string]models.ShippingRule) ShippingBreakdown {
	index := make(map[string]int)
	result := ShippingBreakdown{Breakdown: []VendorShipping{}}

	for _, item := range items {
		i, ok := index[item.VendorID]
		if !ok {
			name := item.VendorName
			if rule, found := rules[item.VendorID]; found && rule.VendorName != "" {
				name = rule.VendorName
			}
			if name == "" {
				name = DefaultVendorName
			}
			result.Breakdown = append(result.Breakdown, VendorShipping{
				VendorID:   item.VendorID,
				VendorName: name,
			})
			i = len(result.Breakdown) - 1
			index[item.VendorID] = i
		}

		group := &result.Breakdown[i]
		group.Subtotal += ParsePrice(item.Price) * float64(item.Quantity)
		group.ItemCount += item.Quantity
	}

	for i := range result.Breakdown {
		group := &result.Breakdown[i]
		group.Shipping = vendorShipping(group.Subtotal, rules[group.VendorID])
		result.Total += group.Shipping
	}

	return result
}

func vendorShipping(subtotal float64, rule models.ShippingRule) float64 {
	if rule.FlatRate <= 0 {
		return 0
	}
	if rule.FreeThreshold > 0 && subtotal >= rule.FreeThreshold {
		return 0
	}
	return rule.FlatRate
}
