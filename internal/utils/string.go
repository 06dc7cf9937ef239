package utils

import (
	"strings"
	"unicode"
)

// IsSeparator checks if a rune may appear inside a package name or module
// specifier without being a letter or digit.
func IsSeparator(r rune) bool {
	switch r {
	case ' ', '_', '-', '.', '/', '@', '$':
		return true
	}
	return false
}

// ContainsSpecialChars checks if a string contains characters that never
// occur in library names, globals or module specifiers.
func ContainsSpecialChars(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && !IsSeparator(r) {
			return true
		}
	}
	return false
}

// IsValidTerm reports whether s is worth looking up. Numeric-only strings are
// kept since some globals and modules are plain numbers.
func IsValidTerm(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	return !ContainsSpecialChars(s)
}

// StripNamespace removes a leading "@types/" so that a pasted package
// identifier searches for the bare name.
func StripNamespace(term, namespace string) string {
	if namespace != "" && strings.HasPrefix(term, namespace) && len(term) > len(namespace) {
		return term[len(namespace):]
	}
	return term
}
