package util

import (
	"regexp"
	"strings"
)

var (
	reDisallowed = regexp.MustCompile(`[^a-z0-9\s-]`)
	reSpaces     = regexp.MustCompile(`\s+`)
	reHyphens    = regexp.MustCompile(`-+`)
)

// Sanitize turns an arbitrary identifier into a filesystem- and URL-safe
// lowercase token. Total: any input is accepted, empty input yields "".
func Sanitize(input string) string {
	s := strings.ToLower(input)
	s = reDisallowed.ReplaceAllString(s, "")
	s = reSpaces.ReplaceAllString(s, "-")
	s = reHyphens.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// PairFileName is the canonical data file name for a (country, series)
// pair. Deterministic across runs.
func PairFileName(countryCode, seriesCode string) string {
	return Sanitize(countryCode) + "-" + Sanitize(seriesCode) + ".csv"
}
