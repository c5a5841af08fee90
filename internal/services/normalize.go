package services

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var nonASCII = runes.Predicate(func(r rune) bool { return r > unicode.MaxASCII })

// NormalizeName canonicalizes a free-text name so spelling variants of the
// same driver compare equal: "  JÉAN   Dupont" and "jean dupont" both
// normalize to "jean dupont".
//
// Characters without an ASCII decomposition are dropped. The result is
// idempotent and an empty string is returned when nothing survives.
func NormalizeName(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}

	t := transform.Chain(norm.NFKD, runes.Remove(nonASCII))
	folded, _, err := transform.String(t, strings.ToLower(text))
	if err != nil {
		return ""
	}

	// Decomposition can surface uppercase compatibility forms, so lowercase
	// again after the ASCII fold.
	return strings.Join(strings.Fields(strings.ToLower(folded)), " ")
}
