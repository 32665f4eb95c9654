// Package watcher monitors one save file for modifications and invokes a
// callback once per burst of writes.
//
// A Watcher holds at most one live watch. Starting a new watch stops the
// previous one first, and callbacks from a superseded watch never fire.
// Failures to start or stop are logged and swallowed; callers inspect
// IsWatching instead of handling errors.
package watcher
