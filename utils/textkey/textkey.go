// Package textkey derives the normalized institution+department key used
// to group lecturers for directory lookups.
package textkey

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Canon lowercases a display name, strips diacritics and collapses every
// run of non-alphanumeric characters into a single separator, so that
// "École Polytechnique" and "ecole polytechnique" map to the same key.
func Canon(s string) string {
	decomposed := norm.NFD.String(s)

	var b strings.Builder
	b.Grow(len(decomposed))
	lastSep := true
	for _, r := range decomposed {
		switch {
		case unicode.Is(unicode.Mn, r):
			// combining mark from the decomposition, drop it
		case unicode.IsLetter(r) || unicode.IsNumber(r):
			b.WriteRune(unicode.ToLower(r))
			lastSep = false
		default:
			if !lastSep {
				b.WriteRune('-')
				lastSep = true
			}
		}
	}

	return strings.TrimSuffix(b.String(), "-")
}

// UFKey combines a canonicalized university and faculty into the
// composite lookup key.
func UFKey(university, faculty string) string {
	return Canon(university) + "::" + Canon(faculty)
}
