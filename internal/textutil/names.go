package textutil

import "strings"

// SplitName splits a display name on its first space. Everything after the
// first space is the last name, so "Jalen Van Buren" yields ("Jalen", "Van Buren").
// A single token yields an empty last name.
func SplitName(name string) (first, last string) {
	name = strings.TrimSpace(name)
	first, last, _ = strings.Cut(name, " ")
	return first, strings.TrimSpace(last)
}

// FullName joins first and last the way SplitName separates them.
func FullName(first, last string) string {
	first, last = strings.TrimSpace(first), strings.TrimSpace(last)
	switch {
	case last == "":
		return first
	case first == "":
		return last
	default:
		return first + " " + last
	}
}
