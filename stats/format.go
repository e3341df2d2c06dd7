package stats

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

var suffixes = []struct {
	limit  float64
	suffix string
}{
	{1e12, "T"},
	{1e9, "B"},
	{1e6, "M"},
	{1e3, "K"},
}

// FormatLargeNumber renders 3420000000000 as "3.42T". Values below one
// thousand are rendered as a plain integer.
func FormatLargeNumber(v float64) string {
	for _, s := range suffixes {
		if v >= s.limit {
			return decimal.NewFromFloat(v / s.limit).StringFixed(2) + s.suffix
		}
	}
	return decimal.NewFromFloat(math.Round(v)).String()
}

func FormatPercent(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2) + "%"
}

// MoverLabel renders "Bitcoin (BTC)", or "-" when there is no mover.
func MoverLabel(m *Mover) string {
	if m == nil {
		return "-"
	}
	return m.Name + " (" + strings.ToUpper(m.Symbol) + ")"
}
