package volume

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

// NotAvailable is returned where a figure cannot be computed.
const NotAvailable = "N/A"

// PercentageVariation returns ((previous - current) / current) * 100 rounded to
// one decimal, e.g. "50.0%". The variation is relative to current, not to
// previous; callers wanting the conventional change pass (current, previous).
// A zero current value yields "N/A".
//
// Rounding applies to the exact binary value of the quotient, so 0.15 (stored
// as 0.1499...) gives "0.1%", and a small negative result keeps its sign ("-0.0%").
func PercentageVariation(previous, current float64) string {
	if current == 0 {
		return NotAvailable
	}
	v := ((previous - current) / current) * 100
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return NotAvailable
	}
	return strconv.FormatFloat(v, 'f', 1, 64) + "%"
}

// FormatThousands renders n with "." as the thousands separator, whatever the
// process locale: 1234567 -> "1.234.567".
func FormatThousands(n int64) string {
	return strings.ReplaceAll(humanize.Comma(n), ",", ".")
}

// TotalsAndDifference sums colA and colB (truncated to integers) and returns both
// totals and sum(colB) - sum(colA), dot-grouped.
func TotalsAndDifference(t Table, colA, colB string) (totalA, totalB, diff string, err error) {
	a, err := t.Numbers(colA)
	if err != nil {
		return "", "", "", fmt.Errorf("totals: %w", err)
	}
	b, err := t.Numbers(colB)
	if err != nil {
		return "", "", "", fmt.Errorf("totals: %w", err)
	}
	sa, sb := int64(sum(a)), int64(sum(b))
	return FormatThousands(sa), FormatThousands(sb), FormatThousands(sb - sa), nil
}

// TotalVolume sums one column of a summary table, dot-grouped.
func TotalVolume(summary Table, totalCol string) (string, error) {
	v, err := summary.Numbers(totalCol)
	if err != nil {
		return "", fmt.Errorf("total volume: %w", err)
	}
	return FormatThousands(int64(sum(v))), nil
}
