// internal/domain/pricing/pricing.go
package pricing

import (
	"fmt"
	"strconv"
	"strings"
)

// Line is the minimal priced view of a cart line. Prices are minor
// currency units (cents). OriginalUnitPrice is nil when the source
// recorded no compare-at price; such a line contributes zero savings.
type Line struct {
	UnitPrice         int64
	OriginalUnitPrice *int64
	Quantity          int
}

// Totals represents calculated cart totals in minor currency units
type Totals struct {
	TotalFinal    int64 `json:"total_final"`
	TotalOriginal int64 `json:"total_original"`
	TotalSavings  int64 `json:"total_savings"`
}

// Compute derives aggregate totals from a line set. A line without an
// original price counts its final price toward TotalOriginal, so it
// never produces a negative or undefined savings term. TotalSavings is
// clamped at zero so a data anomaly (original below final) is never
// shown to the user as negative savings.
func Compute(lines []Line) Totals {
	var totals Totals

	for _, line := range lines {
		qty := int64(line.Quantity)
		totals.TotalFinal += line.UnitPrice * qty

		original := line.UnitPrice
		if line.OriginalUnitPrice != nil {
			original = *line.OriginalUnitPrice
		}
		totals.TotalOriginal += original * qty
	}

	if savings := totals.TotalOriginal - totals.TotalFinal; savings > 0 {
		totals.TotalSavings = savings
	}

	return totals
}

// ParseAmount normalizes a price supplied as a decimal string, possibly
// currency-formatted ("$1,234.50"), into minor currency units. Prices
// must always be stored numeric, never as formatted strings.
func ParseAmount(s string) (int64, error) {
	cleaned := strings.TrimSpace(s)
	cleaned = strings.TrimPrefix(cleaned, "$")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = strings.TrimSpace(cleaned)

	if cleaned == "" {
		return 0, fmt.Errorf("empty price")
	}

	negative := false
	if strings.HasPrefix(cleaned, "-") {
		negative = true
		cleaned = cleaned[1:]
	}

	whole := cleaned
	frac := ""
	if i := strings.IndexByte(cleaned, '.'); i >= 0 {
		whole = cleaned[:i]
		frac = cleaned[i+1:]
	}
	if whole == "" {
		whole = "0"
	}
	if len(frac) > 2 {
		return 0, fmt.Errorf("price %q has more than two decimal places", s)
	}
	// Pad to cents: "9.5" -> 950
	for len(frac) < 2 {
		frac += "0"
	}

	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid price %q: %w", s, err)
	}
	cents, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid price %q: %w", s, err)
	}

	amount := units*100 + cents
	if negative {
		amount = -amount
	}
	return amount, nil
}

// FormatAmount renders minor units as a plain decimal string for
// presentation ("1250" -> "12.50"). Formatting happens only here,
// never before arithmetic.
func FormatAmount(amount int64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	return fmt.Sprintf("%s%d.%02d", sign, amount/100, amount%100)
}
