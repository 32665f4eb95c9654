// Package sidecar runs the external save extraction tool.
//
// The Gateway spawns `<tool> <subcommand> <path>`, accumulates stdout and
// returns it trimmed once the process exits. It never returns a Go error for
// process trouble: spawn failures, timeouts and silent non-zero exits come
// back as a Result carrying a Failure, so callers branch on one value instead
// of two. The Executor interface isolates os/exec for tests.
//
// The gateway does not serialize concurrent calls. Callers that need one
// process in flight at a time (the sync orchestrator) enforce it themselves.
package sidecar
