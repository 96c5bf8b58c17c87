package config

import "strings"

type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// Discount is a static code. Percentage values are whole percent points,
// fixed values are cents off. No expiry or usage limits: codes rotate by
// editing this table and redeploying.
type Discount struct {
	Code  string
	Type  DiscountType
	Value int64
}

var discounts = map[string]Discount{
	"WELCOME10":        {Code: "WELCOME10", Type: DiscountPercentage, Value: 10},
	"AYOMEMBER237":     {Code: "AYOMEMBER237", Type: DiscountPercentage, Value: 10},
	"INFLUENCERFOODDE": {Code: "INFLUENCERFOODDE", Type: DiscountPercentage, Value: 15},
	"FOODANATOMIST":    {Code: "FOODANATOMIST", Type: DiscountPercentage, Value: 10},
	"OLIVE5":           {Code: "OLIVE5", Type: DiscountFixed, Value: 500},
}

// ResolveDiscount looks up a code after trimming and upper-casing.
func ResolveDiscount(code string) (Discount, bool) {
	d, ok := discounts[strings.ToUpper(strings.TrimSpace(code))]
	return d, ok
}
