package textutil

import (
	"strings"

	"golang.org/x/text/cases"
)

// Fold returns s trimmed, with inner whitespace runs collapsed to one space
// and Unicode case folding applied.
func Fold(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return cases.Fold().String(strings.Join(fields, " "))
}

// EqualFold reports whether a and b are equal after folding.
func EqualFold(a, b string) bool {
	return Fold(a) == Fold(b)
}

// MutualContains reports whether either folded string contains the other.
// Empty input never matches.
func MutualContains(a, b string) bool {
	fa, fb := Fold(a), Fold(b)
	if fa == "" || fb == "" {
		return false
	}
	return strings.Contains(fa, fb) || strings.Contains(fb, fa)
}
