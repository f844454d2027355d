package utils

import (
	"math"
	"strconv"
	"strings"
)

// ParseAmount converts a monetary string to a float64, tolerating common
// locale formats ("1234.56", "1.234,56", "1,234.56", "1234"). The second
// return value is false if the string cannot be interpreted as a number;
// callers must treat that as "no value", not as zero.
func ParseAmount(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v, true
	}

	lastDot := strings.LastIndex(s, ".")
	lastComma := strings.LastIndex(s, ",")
	var normalized string
	switch {
	case lastDot >= 0 && lastComma >= 0 && lastComma > lastDot:
		// German style: dot groups, comma decimal ("1.234,56")
		normalized = strings.ReplaceAll(s, ".", "")
		normalized = strings.Replace(normalized, ",", ".", 1)
	case lastDot >= 0 && lastComma >= 0:
		// English style with thousand separators ("1,234.56")
		normalized = strings.ReplaceAll(s, ",", "")
	case lastComma >= 0:
		// Only commas present: a single comma is a decimal mark,
		// several commas are group separators ("1,234,567").
		if strings.Count(s, ",") == 1 {
			normalized = strings.Replace(s, ",", ".", 1)
		} else {
			normalized = strings.ReplaceAll(s, ",", "")
		}
	default:
		normalized = s
	}

	v, err := strconv.ParseFloat(normalized, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// FormatAmount renders a EUR amount with two decimal places.
func FormatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// RoundFloat rounds a float64 to a specified number of decimal places.
func RoundFloat(val float64, precision uint) float64 {
	ratio := math.Pow(10, float64(precision))
	return math.Round(val*ratio) / ratio
}

// HasValue reports whether a harvested field carries real content.
// Empty strings and the "NA" placeholder both count as absent.
func HasValue(s string) bool {
	return s != "" && s != "NA"
}
