package models

import (
	"regexp"
	"strings"
)

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	slugIllegal   = regexp.MustCompile(`[^a-z0-9-]`)
)

// Slugify derives a job slug: lower-case, whitespace runs become "-", and
// anything outside [a-z0-9-] is dropped.
func Slugify(title string) string {
	s := strings.ToLower(title)
	s = whitespaceRun.ReplaceAllString(s, "-")
	return slugIllegal.ReplaceAllString(s, "")
}
