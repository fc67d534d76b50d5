package parser

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	trailingDecimalComma = regexp.MustCompile(`,\d{1,2}$`)
	numericToken         = regexp.MustCompile(`^-?\d+(\.\d+)?$`)
)

// currencyReplacer strips the currency markers and grouping spaces seen
// in BOQ cells. Both the ASCII space and the non-breaking space show up
// as thousands separators in exported workbooks.
var currencyReplacer = strings.NewReplacer(
	"R", "", "r", "",
	"ZAR", "", "zar", "",
	"$", "", "€", "", "£", "",
	" ", "", " ", "",
)

// ParseNumber converts a raw BOQ cell into a float. Currency symbols and
// spaces are stripped first. A trailing ",dd" is read as a decimal comma
// (South African locale); any other comma is a thousands separator.
// Anything non-numeric parses to 0; cell noise is expected, not an
// error.
func ParseNumber(raw string) float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0
	}

	s = currencyReplacer.Replace(s)
	s = strings.TrimSpace(s)
	if s == "" || s == "-" {
		return 0
	}

	if loc := trailingDecimalComma.FindStringIndex(s); loc != nil {
		// "1.234,56" style: periods before the decimal comma are
		// grouping, the final comma is the decimal point.
		intPart := strings.NewReplacer(",", "", ".", "").Replace(s[:loc[0]])
		s = intPart + "." + s[loc[0]+1:]
	} else {
		s = strings.ReplaceAll(s, ",", "")
	}

	if !numericToken.MatchString(s) {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// ParsePercent pulls an explicit "10%" style token out of free text and
// returns its numeric value. The second return value reports whether a
// token was present.
func ParsePercent(text string) (float64, bool) {
	m := percentTokenPattern.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	v := ParseNumber(m[1])
	if v <= 0 || v > 100 {
		return 0, false
	}
	return v, true
}
