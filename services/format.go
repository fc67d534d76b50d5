package services

import (
	"fmt"
	"strings"
)

// FormatRand formats a float64 amount in South African Rand notation:
// space-separated thousands groups and a decimal comma, e.g.
// "R 24 500,00". The result always includes exactly 2 decimal places and
// mirrors the locale the number parser accepts on the way in.
func FormatRand(amount float64) string {
	negative := false
	if amount < 0 {
		negative = true
		amount = -amount
	}

	raw := fmt.Sprintf("%.2f", amount)

	parts := strings.SplitN(raw, ".", 2)
	intPart := parts[0]
	decPart := parts[1]

	result := "R " + applyThousandsGrouping(intPart) + "," + decPart
	if negative {
		result = "-" + result
	}
	return result
}

// applyThousandsGrouping inserts spaces into an integer string, grouping
// every 3 digits from the right.
func applyThousandsGrouping(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}

	result := s[n-3:]
	remaining := s[:n-3]

	for len(remaining) > 3 {
		result = remaining[len(remaining)-3:] + " " + result
		remaining = remaining[:len(remaining)-3]
	}
	if len(remaining) > 0 {
		result = remaining + " " + result
	}

	return result
}
