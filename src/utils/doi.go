package utils

import "strings"

var doiPrefixes = []string{
	"https://doi.org/",
	"http://doi.org/",
	"https://dx.doi.org/",
	"http://dx.doi.org/",
	"doi:",
}

// NormalizeDOI reduces a raw DOI value to its canonical lowercase form,
// stripping resolver URLs and the "doi:" scheme. The second return value is
// false if the remainder is not a plausible DOI (must start with "10.").
func NormalizeDOI(raw string) (string, bool) {
	doi := strings.TrimSpace(raw)
	lower := strings.ToLower(doi)
	for _, prefix := range doiPrefixes {
		if strings.HasPrefix(lower, prefix) {
			doi = doi[len(prefix):]
			break
		}
	}
	doi = strings.ToLower(strings.TrimSpace(doi))
	if !strings.HasPrefix(doi, "10.") {
		return "", false
	}
	return doi, true
}
