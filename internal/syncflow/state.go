package syncflow

import (
	"errors"

	"dynastysync/internal/commit"
	"dynastysync/internal/reconcile"
	"dynastysync/internal/savefile"
)

// State names a step of the sync state machine.
type State string

const (
	StateIdle        State = "idle"
	StateValidating  State = "validating"
	StateUnsupported State = "unsupported"
	StateValidated   State = "validated"
	StateExtracting  State = "extracting"
	StateConfirming  State = "confirming"
	StateSaving      State = "saving"
	StateDone        State = "done"
)

var (
	// ErrBusy is returned when another operation is already running.
	ErrBusy = errors.New("sync operation already in progress")
	// ErrInvalidState is returned when the current state does not allow the call.
	ErrInvalidState = errors.New("operation not allowed in current sync state")
)

// Session is the dynasty season a sync writes into.
type Session struct {
	DynastyID int64
	SeasonID  int64
	Year      int
	TeamName  string
}

// Snapshot is a copy of the orchestrator's observable state.
type Snapshot struct {
	State     State                       `json:"state"`
	RunID     string                      `json:"runId,omitempty"`
	SavePath  string                      `json:"savePath,omitempty"`
	Verdict   *savefile.ValidationVerdict `json:"verdict,omitempty"`
	Diff      *reconcile.SyncDiff         `json:"diff,omitempty"`
	Outcome   *commit.Outcome             `json:"outcome,omitempty"`
	LastError string                      `json:"lastError,omitempty"`
	// Countdown is the seconds left before auto-confirm, zero when none is running.
	Countdown int `json:"countdown"`
}
