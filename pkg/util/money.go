package util

import (
	"fmt"
	"math"
	"strings"
)

// RoundCents rounds a monetary amount to two decimal places
func RoundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

// FormatBRL renders an amount the way the shop prints it: R$ 1.234,56
func FormatBRL(v float64) string {
	negative := v < 0
	cents := int64(math.Round(math.Abs(v) * 100))
	units := cents / 100
	frac := cents % 100

	digits := fmt.Sprintf("%d", units)
	var grouped strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			grouped.WriteByte('.')
		}
		grouped.WriteRune(d)
	}

	sign := ""
	if negative && cents > 0 {
		sign = "-"
	}
	return fmt.Sprintf("%sR$ %s,%02d", sign, grouped.String(), frac)
}
