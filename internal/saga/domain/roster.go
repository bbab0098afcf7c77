package domain

import (
	"regexp"
	"strings"
)

// Roster is the closed set of bindable character names. Extending the set
// is configuration, not code: dispatch logic only consults the roster value
// it was given.
type Roster []string

// DefaultRoster lists the four bindable characters of the covenant.
func DefaultRoster() Roster {
	return Roster{"Drocathmor", "Dreknoth", "Thayren", "Veydran"}
}

// Canonical resolves a name to its roster casing. The match is
// case-insensitive.
func (r Roster) Canonical(name string) (string, bool) {
	for _, entry := range r {
		if strings.EqualFold(entry, name) {
			return entry, true
		}
	}
	return "", false
}

// nameToken matches a single bare word: optional opening quote, letters,
// at most one trailing punctuation mark. Multi-word input never matches.
var nameToken = regexp.MustCompile(`^\s*["“]?([A-Za-z]+)[.!?"]?\s*$`)

// ParseNameToken extracts a roster name from input when the entire trimmed
// input is that single name token. It returns the canonical roster casing.
func ParseNameToken(input string, roster Roster) (string, bool) {
	m := nameToken.FindStringSubmatch(input)
	if m == nil {
		return "", false
	}
	return roster.Canonical(m[1])
}
