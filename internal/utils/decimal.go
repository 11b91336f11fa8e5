package utils

import (
	"math"

	"github.com/shopspring/decimal"
)

// RoundYen rounds a JPY amount to whole yen, halves away from zero.
// Non-finite values round to 0.
func RoundYen(val float64) int64 {
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return 0
	}
	return decimal.NewFromFloat(val).Round(0).IntPart()
}

// FormatYen renders a JPY amount with thousands separators, e.g. -1,234,567.
func FormatYen(val float64) string {
	n := RoundYen(val)
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}
	digits := decimal.NewFromInt(n).String()

	out := make([]byte, 0, len(digits)+len(digits)/3)
	for i := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, digits[i])
	}
	return sign + string(out)
}

// FormatPrice renders a unit price with up to four decimals.
func FormatPrice(val float64) string {
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return "0"
	}
	return decimal.NewFromFloat(val).Round(4).String()
}
