package payments

import (
	"math"

	"backend/internal/config"
)

// AmountCents computes the charge for a kit in a storefront language, after
// an optional discount. Percentage discounts round to the nearest cent;
// both shapes floor at zero.
func AmountCents(kit config.Kit, lang string, d *config.Discount) int64 {
	price, ok := kit.Prices[lang]
	if !ok {
		price = kit.Prices["en"]
	}

	if d == nil {
		return price
	}

	switch d.Type {
	case config.DiscountPercentage:
		off := int64(math.Round(float64(price) * float64(d.Value) / 100))
		price -= off
	case config.DiscountFixed:
		price -= d.Value
	}

	if price < 0 {
		return 0
	}
	return price
}
