// Package reconcile computes what a save extraction adds to a dynasty.
//
// ComputeDiff is a pure function: callers load the existing games for the
// target season and the existing players for the dynasty, and it returns a
// SyncDiff listing only the records that are new. Identity rules per entity:
//
//   - Games are keyed by week alone. A season holds one game per week, so an
//     extracted game whose week is already recorded is skipped whatever the
//     opponent. Games missing a week or either score are skipped, as are games
//     where neither side matches the dynasty's team name.
//   - Players are keyed by case-folded "first last" against the dynasty roster.
//   - Draft picks are not deduplicated. Only entries with neither a round nor a
//     pick are dropped.
package reconcile
