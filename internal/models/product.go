package models

import "time"

type Product struct {
	ID         string    `json:"id"`
	VendorID   *string   `json:"vendor_id,omitempty"`
	VendorName string    `json:"vendor_name,omitempty"`
	Name       string    `json:"name"`
	BasePrice  float64   `json:"base_price"`
	ImageURL   string    `json:"image_url,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Variation is a purchasable configuration of a product. Its attribute
// document comes in one of three shapes, see VariationAttributes.
type Variation struct {
	ID         string              `json:"id"`
	ProductID  string              `json:"product_id"`
	Attributes VariationAttributes `json:"-"`
	Price      *float64            `json:"price,omitempty"`
}

// VariationAttributes is the closed set of attribute shapes a variation can
// carry: CombinationAttributes, OptionAttributes or FlatAttributes.
type VariationAttributes interface {
	variationAttributes()
}

// CombinationAttributes is the {"format":"combination"} shape.
type CombinationAttributes struct {
	Combinations []Combination
}

// OptionAttributes is the {"options":[...]} shape.
type OptionAttributes struct {
	Options []VariationOption
}

// FlatAttributes covers variations without structured attributes, including
// documents that did not match any known shape.
type FlatAttributes struct{}

func (CombinationAttributes) variationAttributes() {}
func (OptionAttributes) variationAttributes()      {}
func (FlatAttributes) variationAttributes()        {}

type Combination struct {
	PriceModifier      float64 `json:"priceModifier"`
	DiscountPercentage float64 `json:"discountPercentage,omitempty"`
	StockQuantity      int     `json:"stockQuantity"`
}

// FinalPrice applies the modifier and then the discount to basePrice.
func (c Combination) FinalPrice(basePrice float64) float64 {
	price := basePrice + c.PriceModifier
	if c.DiscountPercentage > 0 {
		price = price * (1 - c.DiscountPercentage/100)
	}
	return price
}

type VariationOption struct {
	Name  string   `json:"name,omitempty"`
	Value string   `json:"value,omitempty"`
	Price *float64 `json:"price,omitempty"`
}

// ProductPriceResponse is returned by the product price endpoint
type ProductPriceResponse struct {
	ProductID   string  `json:"product_id"`
	BasePrice   float64 `json:"base_price"`
	LowestPrice float64 `json:"lowest_price"`
	Display     string  `json:"display"`
}
