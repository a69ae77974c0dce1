package pricing

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var displayPrice = regexp.MustCompile(`^\$?\s*(\d{1,3}(,\d{3})+|\d+)(\.\d+)?$`)

// FormatCurrency renders an amount the way the app displays prices
func FormatCurrency(amount float64) string {
	return fmt.Sprintf("$%.2f", amount)
}

// FormatShipping renders a vendor's shipping charge; a charge of exactly
// zero reads "Free", never "$0.00".
func FormatShipping(amount float64) string {
	if amount == 0 {
		return "Free"
	}
	return FormatCurrency(amount)
}

// ParsePrice reads a display-formatted price such as "$1,024.50" back into a
// number. Unparseable input yields 0.
func ParsePrice(display string) float64 {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= '0' && r <= '9', r == '.', r == '-':
			return r
		default:
			return -1
		}
	}, display)

	if cleaned == "" {
		return 0
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return v
}

// ValidPrice reports whether display is a single dollar amount ParsePrice
// reads exactly. Ranges and other locales' separators are not.
func ValidPrice(display string) bool {
	return displayPrice.MatchString(strings.TrimSpace(display))
}
