// Package daemon runs the background save watcher for one dynasty season.
//
// It takes a flock-based lock under the data directory so only one watch
// daemon runs per database, starts the file watcher on the save path and
// hands each debounced modification to the sync orchestrator. Whether a
// modification turns into a sync is the orchestrator's decision; the daemon
// only owns startup, shutdown and status.
package daemon
