// Package query normalizes free text into token sets shared by the
// query side and the movie side of relevance scoring.
package query

import (
	"strings"
	"unicode"
)

// Tokenize lower-cases raw and splits it on non-alphanumeric boundaries.
// Punctuation-only or empty input yields a nil slice.
func Tokenize(raw string) []string {
	return strings.FieldsFunc(strings.ToLower(raw), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// TokenSet returns the distinct tokens of raw.
func TokenSet(raw string) map[string]struct{} {
	tokens := Tokenize(raw)
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}
