// Package syncrun assembles the sync pipeline from configuration: store,
// extraction gateway, save reader, commit engine and orchestrator. The CLI
// uses Open for one-shot commands and Watch to run the foreground watch
// daemon until a signal arrives.
package syncrun
