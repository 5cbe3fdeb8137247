package util

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)
	trimHyphens     = regexp.MustCompile(`^-+|-+$`)
)

// SlugWords lowercases s, strips accents, and splits it into alphanumeric
// words. Returns nil when nothing is left.
func SlugWords(s string) []string {
	s = strings.ToLower(s)
	s = removeAccents(s)
	s = nonAlphanumeric.ReplaceAllString(s, "-")
	s = trimHyphens.ReplaceAllString(s, "")

	if s == "" {
		return nil
	}

	return strings.Split(s, "-")
}

// Slug joins the first maxWords slug words of s with hyphens, the way the
// service builds the readable tail of board and card URLs. maxWords <= 0
// keeps every word.
func Slug(s string, maxWords int) string {
	words := SlugWords(s)
	if maxWords > 0 && len(words) > maxWords {
		words = words[:maxWords]
	}
	return strings.Join(words, "-")
}

// removeAccents decomposes s (NFD) and drops the combining marks.
func removeAccents(s string) string {
	result := norm.NFD.String(s)

	var b strings.Builder
	for _, r := range result {
		if !unicode.Is(unicode.Mn, r) {
			b.WriteRune(r)
		}
	}

	return b.String()
}
