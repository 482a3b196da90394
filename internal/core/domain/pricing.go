package domain

import "math"

// SanitizeAmount coerces NaN, infinities and negatives to 0. A malformed
// price must never block the flow, but it has to show up as a visible zero so
// staff notice something is off.
func SanitizeAmount(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// PriceCatalogLine resolves the package price for a catalog line:
// base + urgent surcharge (if flagged) + premium-paper surcharge (if flagged).
// Pure; returns ErrPriceNotFound when the (size, quantity) pair is not listed.
func PriceCatalogLine(c *Catalog, size string, quantity int, urgent, premiumPaper bool) (float64, error) {
	entry, ok := c.Lookup(size, quantity)
	if !ok {
		return 0, ErrPriceNotFound
	}
	price := SanitizeAmount(entry.BasePrice)
	if urgent {
		price += SanitizeAmount(entry.UrgentSurcharge)
	}
	if premiumPaper {
		price += SanitizeAmount(entry.PremiumSurcharge)
	}
	return price, nil
}

// PriceManualLine validates a hand-entered package price. The value prices
// the whole line; quantity on a manual line describes the package contents
// and is never multiplied in. That is a domain rule, not an oversight.
func PriceManualLine(enteredPackagePrice float64) float64 {
	return SanitizeAmount(enteredPackagePrice)
}
