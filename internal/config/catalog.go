package config

import "strings"

// Kit is a purchasable adoption product. Prices are cents, keyed by the
// normalized site language ("it" or "en") since the two storefronts list
// different prices.
type Kit struct {
	ID     string
	Name   string
	Prices map[string]int64
}

var catalog = map[string]Kit{
	"welcome-kit": {
		ID:     "welcome-kit",
		Name:   "Welcome Kit (1 Liter)",
		Prices: map[string]int64{"en": 7900, "it": 4900},
	},
	"reserve-kit": {
		ID:     "reserve-kit",
		Name:   "Reserve Kit (2 Liters)",
		Prices: map[string]int64{"en": 12900, "it": 7900},
	},
	"family-kit": {
		ID:     "family-kit",
		Name:   "Family Kit (5 Liters)",
		Prices: map[string]int64{"en": 21900, "it": 12900},
	},
}

// KitByID returns the catalog entry for a kit id, or ok=false for unknown ids.
func KitByID(id string) (Kit, bool) {
	k, ok := catalog[strings.ToLower(strings.TrimSpace(id))]
	return k, ok
}

// NormalizeLang collapses raw language tags ("it-IT", "EN-us", ...) to the
// two storefront languages. Anything not Italian is English.
func NormalizeLang(raw string) string {
	if strings.HasPrefix(strings.ToLower(strings.TrimSpace(raw)), "it") {
		return "it"
	}
	return "en"
}

// CountriesIT and CountriesEU are the shipping country sets per storefront.
var (
	CountriesIT = []string{"IT"}
	CountriesEU = []string{
		"IT", "FR", "DE", "ES", "NL", "BE", "AT", "IE", "PT", "LU",
		"FI", "DK", "SE", "GR", "BG", "HR", "CY", "CZ", "EE", "HU",
		"LV", "LT", "MT", "PL", "RO", "SK", "SI",
	}
)
