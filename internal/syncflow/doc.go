// Package syncflow drives one save-file sync through its states.
//
// The Orchestrator walks idle -> validating -> validated (or unsupported) ->
// extracting -> confirming -> saving -> done. Entering confirming starts an
// auto-confirm countdown that commits the pending diff when it reaches zero
// unless Cancel or Confirm gets there first. Only one operation runs at a
// time: overlapping calls get ErrBusy, and calls the current state does not
// allow get ErrInvalidState. The file watcher enters through
// HandleSaveModified, which ignores modifications while a sync is in flight.
package syncflow
