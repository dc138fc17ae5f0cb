// Package stringutil provides common string manipulation utilities.
package stringutil

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold lower-cases s and strips combining accents, so that
// "¿Cuánto CUESTA?" and "¿cuanto cuesta?" compare equal.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(folded)
}

// Truncate shortens s to at most max runes, appending "..." when cut.
// Invalid UTF-8 is cut on rune boundaries as decoded by range.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	n := 0
	for i := range s {
		if n == max {
			return s[:i] + "..."
		}
		n++
	}
	return s
}

// ContainsWord reports whether phrase occurs in text bounded by non-letter,
// non-digit runes (or the ends of text). Both inputs are compared as given;
// callers fold them first when accent and case insensitivity is wanted.
//
//	ContainsWord("es bueno", "no")        // false
//	ContainsWord("no me gusta", "no")     // true
func ContainsWord(text, phrase string) bool {
	if phrase == "" {
		return false
	}
	for start := 0; start <= len(text); {
		idx := strings.Index(text[start:], phrase)
		if idx < 0 {
			return false
		}
		i := start + idx
		j := i + len(phrase)
		if isBoundary(text, i, true) && isBoundary(text, j, false) {
			return true
		}
		_, size := utf8.DecodeRuneInString(text[i:])
		start = i + size
	}
	return false
}

func isBoundary(text string, pos int, before bool) bool {
	var r rune
	if before {
		if pos == 0 {
			return true
		}
		r, _ = utf8.DecodeLastRuneInString(text[:pos])
	} else {
		if pos >= len(text) {
			return true
		}
		r, _ = utf8.DecodeRuneInString(text[pos:])
	}
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}
