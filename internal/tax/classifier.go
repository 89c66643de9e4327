// Package tax maps free-text item descriptions to FBR GST rate bands.
package tax

import "strings"

// Classify returns the GST percentage for a product description.
//
// Matching happens in strict precedence order: luxury modifier keywords,
// packaged-food modifier keywords, an exact table hit, then the first table
// entry contained in the description. Unmatched or empty descriptions fall
// back to the standard 17% rate. Containment matching is deliberately loose
// and order-dependent ("automobile" hits "mobile"); the table order defines
// the behavior.
func Classify(description string) float64 {
	if description == "" {
		return DefaultRate
	}

	normalized := strings.TrimSpace(strings.ToLower(description))

	for _, keyword := range luxuryKeywords {
		if strings.Contains(normalized, keyword) {
			return RateLuxuryPercent
		}
	}

	for _, keyword := range packagedKeywords {
		if strings.Contains(normalized, keyword) {
			return RatePackagedPercent
		}
	}

	for _, entry := range fbrCategoryRates {
		if normalized == entry.Keyword {
			return entry.Rate
		}
	}

	for _, entry := range fbrCategoryRates {
		if strings.Contains(normalized, entry.Keyword) {
			return entry.Rate
		}
	}

	return DefaultRate
}
