package utils

import "regexp"

// Matches year-leading dates: YYYY, YYYY-MM or YYYY-MM-DD.
var yearLeadingDate = regexp.MustCompile(`^\d{4}(-[0-1]\d(-[0-3]\d)?)?$`)

// TruncateToYear reduces a year-leading date string ("2021", "2021-05",
// "2021-05-17") to its 4-digit year. Text that does not start with a
// recognisable date is returned verbatim.
func TruncateToYear(text string) string {
	if yearLeadingDate.MatchString(text) {
		return text[:4]
	}
	return text
}
