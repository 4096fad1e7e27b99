package geo

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize strips accents and surrounding whitespace so municipality
// names compare the same way across sources.
func Normalize(s string) string {
	out, _, err := transform.String(stripAccents, s)
	if err != nil {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(out)
}

// Slug renders a municipality name the way the IBGE Cidades site does.
func Slug(s string) string {
	return strings.ReplaceAll(strings.ToLower(Normalize(s)), " ", "-")
}
