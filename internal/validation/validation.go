// Package validation holds the field-level rules for stock payloads.
package validation

import (
	"math"
	"regexp"
)

// Dates must look like DD-MM-YYYY; calendar validity is not checked,
// so 99-99-9999 passes.
var datePattern = regexp.MustCompile(`^\d{2}-\d{2}-\d{4}$`)

// PurchasePrice reports whether price is a usable number. There is no
// upper bound and no currency awareness.
func PurchasePrice(price float64) bool {
	return !math.IsNaN(price) && !math.IsInf(price, 0)
}

// PurchaseDate reports whether date matches DD-MM-YYYY or is the
// sentinel "NA".
func PurchaseDate(date string) bool {
	return date == "NA" || datePattern.MatchString(date)
}

// Shares reports whether shares is non-negative. Zero is permitted.
func Shares(shares int) bool {
	return shares >= 0
}

// Fields reports whether all three stock fields are valid.
func Fields(price float64, date string, shares int) bool {
	return PurchasePrice(price) && PurchaseDate(date) && Shares(shares)
}
