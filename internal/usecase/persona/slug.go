package persona

import (
	"regexp"
	"strings"
)

var nonAlnumRe = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowers a persona name and collapses non-alphanumeric runs into
// single dashes. An empty result falls back to "persona".
func Slugify(name string) string {
	s := nonAlnumRe.ReplaceAllString(strings.ToLower(name), "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return "persona"
	}
	return s
}
