package cell

import (
	"strings"
	"unicode/utf8"
)

// Alphabet is the set of letters a cell accepts. It always contains the
// 26 basic Latin letters; extra letters (diacritics of the puzzle
// language) are supplied per language set.
type Alphabet struct {
	extra map[rune]bool
}

// NewAlphabet builds an alphabet from extra letters beyond A-Z.
// Extras are uppercased, so NewAlphabet('ä', 'ö') and NewAlphabet('Ä', 'Ö')
// are equivalent.
func NewAlphabet(extra ...rune) Alphabet {
	m := make(map[rune]bool, len(extra))
	for _, r := range extra {
		for _, u := range strings.ToUpper(string(r)) {
			m[u] = true
		}
	}
	return Alphabet{extra: m}
}

// Contains reports whether the (already uppercased) rune is a member.
func (a Alphabet) Contains(r rune) bool {
	if r >= 'A' && r <= 'Z' {
		return true
	}
	return a.extra[r]
}

// Normalize uppercases a single-character string and reports whether the
// result belongs to the alphabet. Empty strings, multi-character strings
// and non-member characters come back with ok=false.
func (a Alphabet) Normalize(s string) (string, bool) {
	if s == "" || utf8.RuneCountInString(s) != 1 {
		return "", false
	}
	up := strings.ToUpper(s)
	r, _ := utf8.DecodeRuneInString(up)
	if !a.Contains(r) {
		return "", false
	}
	return up, true
}
