package token

import (
	"unicode"
	"unicode/utf8"
)

// IsIdentStart reports whether r may start an identifier: any Unicode
// letter or underscore.
func IsIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

// IsIdentPart reports whether r may continue an identifier. Combining
// marks are accepted so that scripts written with diacritics (Arabic
// harakat, for example) stay in one identifier.
func IsIdentPart(r rune) bool {
	return IsIdentStart(r) || unicode.IsDigit(r) || unicode.In(r, unicode.Mn, unicode.Mc)
}

// IsIdentifier reports whether s is a single identifier-shaped run.
func IsIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r == utf8.RuneError {
			return false
		}
		if i == 0 && !IsIdentStart(r) || !IsIdentPart(r) {
			return false
		}
	}
	return true
}
