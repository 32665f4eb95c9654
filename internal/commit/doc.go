// Package commit writes an accepted SyncDiff into the store.
//
// Records are created in a fixed order (games, then players with their
// season shells, then draft picks), each create awaited before the next. In
// sequential mode a failure stops the loop and the records already written
// stay written; the returned *PartialError names the record that failed and
// carries the counts completed so far. In transactional mode the same loop
// runs inside one store transaction and a failure rolls everything back.
package commit
