package banksalad

import (
	"strings"
	"unicode"

	"github.com/texttheater/golang-levenshtein/levenshtein"
	"golang.org/x/text/unicode/norm"
)

// normalizeToken collapses a free-text label into a matching key: NFKC
// normalization, lower case, letters and digits only. "신한 은행-123" and
// "신한은행123" normalize to the same token.
func normalizeToken(s string) string {
	if s == "" {
		return ""
	}

	var b strings.Builder
	for _, r := range strings.ToLower(norm.NFKC.String(s)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}

	return b.String()
}

// canonicalAccount maps freeform spreadsheet text onto a known account's
// display name when the two normalize to the same token. Unmatched text is
// kept as-is (trimmed).
func canonicalAccount(raw string, known []string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}

	key := normalizeToken(trimmed)
	for _, name := range known {
		if normalizeToken(name) == key {
			return name
		}
	}

	return trimmed
}

// Unit costs. The library's DefaultOptions charge 2 per substitution,
// which breaks the [0, 1] normalization below.
var similarityOptions = levenshtein.Options{
	InsCost: 1,
	DelCost: 1,
	SubCost: 1,
	Matches: levenshtein.IdenticalRunes,
}

// similarity is a Levenshtein-based string similarity in [0, 1],
// case-insensitive. Two empty strings are identical; one empty string
// matches nothing.
func similarity(a, b string) float64 {
	s1 := strings.ToLower(strings.TrimSpace(a))
	s2 := strings.ToLower(strings.TrimSpace(b))

	if s1 == "" && s2 == "" {
		return 1.0
	}
	if s1 == "" || s2 == "" {
		return 0.0
	}
	if s1 == s2 {
		return 1.0
	}

	r1 := []rune(s1)
	r2 := []rune(s2)

	distance := levenshtein.DistanceForStrings(r1, r2, similarityOptions)

	maxLen := len(r1)
	if len(r2) > maxLen {
		maxLen = len(r2)
	}

	return 1.0 - float64(distance)/float64(maxLen)
}

func containsAny(haystack string, patterns []string) bool {
	if haystack == "" {
		return false
	}
	for _, p := range patterns {
		if p != "" && strings.Contains(haystack, strings.ToLower(p)) {
			return true
		}
	}
	return false
}
