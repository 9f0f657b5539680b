package grocery

import (
	"strings"
	"unicode"

	"github.com/dukerupert/cesta/internal/model"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize folds s for name comparison: trims, lowercases and strips
// combining accents, so "Plátanos " and "platanos" compare equal.
func Normalize(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(strings.TrimSpace(out))
}

// Matcher decides whether a candidate entity name answers a user query.
type Matcher interface {
	Match(candidate, query string) bool
}

// MatcherFunc adapts a plain function to Matcher.
type MatcherFunc func(candidate, query string) bool

func (f MatcherFunc) Match(candidate, query string) bool { return f(candidate, query) }

// SubstringMatcher matches when the normalized query is contained in the
// normalized candidate. Empty queries never match.
type SubstringMatcher struct{}

func (SubstringMatcher) Match(candidate, query string) bool {
	q := Normalize(query)
	if q == "" {
		return false
	}
	return strings.Contains(Normalize(candidate), q)
}

// MatchProduct reports whether query matches the product name or any alias.
func MatchProduct(m Matcher, p model.Product, query string) bool {
	if m.Match(p.Name, query) {
		return true
	}
	for _, a := range p.Aliases {
		if m.Match(a, query) {
			return true
		}
	}
	return false
}

// Capitalize upper-cases the first letter of s.
func Capitalize(s string) string {
	s = strings.TrimSpace(s)
	for i, r := range s {
		return string(unicode.ToUpper(r)) + s[i+len(string(r)):]
	}
	return s
}
