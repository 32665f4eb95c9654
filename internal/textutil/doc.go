// Package textutil provides the name matching helpers reconciliation relies on.
//
// Team and player names arrive from the save extraction tool with arbitrary
// casing and decoration ("Alabama Crimson Tide" for a dynasty recorded as
// "Alabama"). Fold applies Unicode case folding so comparisons stay
// case-insensitive beyond ASCII, and MutualContains implements the two-way
// containment test used to decide which side of a game belongs to the user.
package textutil
