package syncflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"dynastysync/internal/commit"
	"dynastysync/internal/logging"
	"dynastysync/internal/reconcile"
	"dynastysync/internal/savefile"
	"dynastysync/internal/services"
	"dynastysync/internal/store"
)

// DefaultAutoConfirm is the countdown length used when none is configured.
const DefaultAutoConfirm = 10

// SaveReader validates and extracts save files.
type SaveReader interface {
	Validate(ctx context.Context, filePath string) savefile.ValidationVerdict
	Extract(ctx context.Context, filePath string) savefile.ExtractionResult
}

// Repository supplies the existing records reconciliation compares against
// and the database commits write into.
type Repository interface {
	commit.Database
	GamesBySeason(ctx context.Context, seasonID int64) ([]*store.Game, error)
	PlayersByDynasty(ctx context.Context, dynastyID int64) ([]*store.Player, error)
	PlayerSeasonsByDynasty(ctx context.Context, dynastyID int64) ([]*store.PlayerSeason, error)
}

// Committer applies an accepted diff. *commit.Engine satisfies it.
type Committer interface {
	Commit(ctx context.Context, db commit.Database, diff reconcile.SyncDiff, target commit.Target) (commit.Outcome, error)
}

// Option configures the orchestrator.
type Option func(*Orchestrator)

// WithClock replaces the wall clock used by the countdown.
func WithClock(clock Clock) Option {
	return func(o *Orchestrator) {
		if clock != nil {
			o.clock = clock
		}
	}
}

// WithAutoConfirm sets the countdown length in seconds. Zero disables
// auto-confirm so only Confirm commits.
func WithAutoConfirm(seconds int) Option {
	return func(o *Orchestrator) {
		if seconds >= 0 {
			o.autoConfirm = seconds
		}
	}
}

// WithLogger attaches a logger under the "syncflow" component.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logging.NewComponentLogger(logger, "syncflow")
	}
}

// WithBaseContext sets the context auto-confirmed commits run under.
func WithBaseContext(ctx context.Context) Option {
	return func(o *Orchestrator) {
		if ctx != nil {
			o.baseCtx = ctx
		}
	}
}

// Orchestrator is the sync state machine for one dynasty season.
type Orchestrator struct {
	reader    SaveReader
	repo      Repository
	committer Committer
	session   Session

	clock       Clock
	autoConfirm int
	logger      *slog.Logger
	baseCtx     context.Context

	mu        sync.Mutex
	state     State
	busy      bool
	runID     string
	savePath  string
	verdict   *savefile.ValidationVerdict
	diff      *reconcile.SyncDiff
	outcome   *commit.Outcome
	lastErr   string
	countdown int
	// countdownGen invalidates scheduled ticks. Every start, cancel, confirm
	// and expiry bumps it under mu, and a tick only acts when its captured
	// generation is still current.
	countdownGen uint64
	timer        Timer
	listeners    []func(Snapshot)
}

// New constructs an orchestrator in the idle state.
func New(reader SaveReader, repo Repository, committer Committer, session Session, opts ...Option) (*Orchestrator, error) {
	if reader == nil || repo == nil || committer == nil {
		return nil, errors.New("syncflow: reader, repository and committer are required")
	}
	if session.DynastyID <= 0 || session.SeasonID <= 0 {
		return nil, errors.New("syncflow: session requires dynasty and season ids")
	}
	o := &Orchestrator{
		reader:      reader,
		repo:        repo,
		committer:   committer,
		session:     session,
		clock:       RealClock(),
		autoConfirm: DefaultAutoConfirm,
		logger:      logging.NewComponentLogger(nil, "syncflow"),
		baseCtx:     context.Background(),
		state:       StateIdle,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// OnChange registers a listener that receives a snapshot after every
// transition and countdown tick. Listeners run on the goroutine that caused
// the change and must not call back into the orchestrator synchronously.
func (o *Orchestrator) OnChange(fn func(Snapshot)) {
	if fn == nil {
		return
	}
	o.mu.Lock()
	o.listeners = append(o.listeners, fn)
	o.mu.Unlock()
}

// State returns the current state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Countdown returns the seconds left before auto-confirm.
func (o *Orchestrator) Countdown() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.countdown
}

// Snapshot returns a copy of the observable state.
func (o *Orchestrator) Snapshot() Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.snapshotLocked()
}

// Session returns the dynasty season this orchestrator writes into.
func (o *Orchestrator) Session() Session {
	return o.session
}

// Validate checks filePath with the extraction tool. It runs from idle,
// unsupported, validated or done, and lands in validated, unsupported, or
// idle with the failure recorded.
func (o *Orchestrator) Validate(ctx context.Context, filePath string) (savefile.ValidationVerdict, error) {
	o.mu.Lock()
	if err := o.beginLocked(StateIdle, StateUnsupported, StateValidated, StateDone); err != nil {
		o.mu.Unlock()
		return savefile.ValidationVerdict{}, err
	}
	o.runID = uuid.NewString()
	o.savePath = filePath
	o.verdict, o.diff, o.outcome, o.lastErr = nil, nil, nil, ""
	o.enterLocked(StateValidating)
	notify := o.notifyLocked()
	o.mu.Unlock()
	notify()

	verdict := o.reader.Validate(o.annotate(ctx), filePath)

	o.mu.Lock()
	o.busy = false
	o.verdict = &verdict
	switch {
	case verdict.Failure != nil:
		o.lastErr = verdict.Failure.Error()
		o.enterLocked(StateIdle)
	case verdict.Unsupported():
		o.enterLocked(StateUnsupported)
	case verdict.Ready():
		o.enterLocked(StateValidated)
	default:
		o.lastErr = "save file is not a valid dynasty save"
		o.enterLocked(StateIdle)
	}
	notify = o.notifyLocked()
	o.mu.Unlock()
	notify()
	return verdict, nil
}

// Extract reads the validated save, reconciles it against the store and, on
// success, enters confirming with a fresh countdown. Extraction or lookup
// failures return to validated with the error recorded.
func (o *Orchestrator) Extract(ctx context.Context) (reconcile.SyncDiff, error) {
	o.mu.Lock()
	if err := o.beginLocked(StateValidated); err != nil {
		o.mu.Unlock()
		return reconcile.SyncDiff{}, err
	}
	o.diff, o.outcome, o.lastErr = nil, nil, ""
	path := o.savePath
	o.enterLocked(StateExtracting)
	notify := o.notifyLocked()
	o.mu.Unlock()
	notify()

	ctx = o.annotate(ctx)
	diff, err := o.buildDiff(ctx, path)

	o.mu.Lock()
	o.busy = false
	if err != nil {
		o.lastErr = err.Error()
		o.enterLocked(StateValidated)
		notify = o.notifyLocked()
		o.mu.Unlock()
		notify()
		return reconcile.SyncDiff{}, err
	}
	o.diff = &diff
	o.enterLocked(StateConfirming)
	o.startCountdownLocked()
	notify = o.notifyLocked()
	o.mu.Unlock()
	notify()
	return diff, nil
}

// Confirm commits the pending diff immediately.
func (o *Orchestrator) Confirm(ctx context.Context) (commit.Outcome, error) {
	o.mu.Lock()
	if err := o.beginLocked(StateConfirming); err != nil {
		o.mu.Unlock()
		return commit.Outcome{}, err
	}
	o.stopCountdownLocked()
	return o.saveLocked(ctx)
}

// Cancel abandons the pending diff and returns to validated without
// committing. It is only valid while confirming.
func (o *Orchestrator) Cancel() error {
	o.mu.Lock()
	if o.state != StateConfirming {
		state := o.state
		o.mu.Unlock()
		return fmt.Errorf("%w: cancel from %s", ErrInvalidState, state)
	}
	o.stopCountdownLocked()
	o.diff = nil
	o.enterLocked(StateValidated)
	notify := o.notifyLocked()
	o.mu.Unlock()

	o.logger.Info("pending sync cancelled",
		logging.String(logging.FieldCorrelationID, o.RunID()),
		logging.String(logging.FieldEventType, "sync_cancelled"),
	)
	notify()
	return nil
}

// Reset returns a settled orchestrator to idle, dropping the last run's data.
func (o *Orchestrator) Reset() error {
	o.mu.Lock()
	if err := o.beginLocked(StateIdle, StateUnsupported, StateValidated, StateDone); err != nil {
		o.mu.Unlock()
		return err
	}
	o.busy = false
	o.savePath, o.runID, o.lastErr = "", "", ""
	o.verdict, o.diff, o.outcome = nil, nil, nil
	o.enterLocked(StateIdle)
	notify := o.notifyLocked()
	o.mu.Unlock()
	notify()
	return nil
}

// RunID returns the correlation id of the current run.
func (o *Orchestrator) RunID() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.runID
}

// HandleSaveModified is the file watcher entry point. Modifications that
// arrive while a sync is validating, extracting, confirming or saving are
// ignored and reported as false. From idle, unsupported, validated or done it
// validates and extracts, landing in confirming with a restarted countdown.
func (o *Orchestrator) HandleSaveModified(ctx context.Context, filePath string) bool {
	o.mu.Lock()
	state, busy := o.state, o.busy
	o.mu.Unlock()

	switch {
	case busy:
		o.ignored(filePath, state)
		return false
	case state == StateIdle, state == StateUnsupported, state == StateValidated, state == StateDone:
	default:
		o.ignored(filePath, state)
		return false
	}

	verdict, err := o.Validate(ctx, filePath)
	if err != nil {
		// Another caller won the race for the state machine.
		o.ignored(filePath, o.State())
		return false
	}
	if !verdict.Ready() {
		return true
	}
	if _, err := o.Extract(ctx); err != nil && (errors.Is(err, ErrBusy) || errors.Is(err, ErrInvalidState)) {
		o.ignored(filePath, o.State())
		return false
	}
	return true
}

func (o *Orchestrator) ignored(filePath string, state State) {
	o.logger.Info("save modification ignored; sync in progress",
		logging.String(logging.FieldSavePath, filePath),
		logging.String(logging.FieldSyncState, string(state)),
		logging.String(logging.FieldEventType, "watch_trigger_ignored"),
	)
}

func (o *Orchestrator) buildDiff(ctx context.Context, path string) (reconcile.SyncDiff, error) {
	extraction := o.reader.Extract(ctx, path)
	if extraction.Failed() {
		return reconcile.SyncDiff{}, services.Wrap(services.ErrExternalTool, "syncflow", "extract",
			"save extraction failed", extraction.Failure)
	}
	if extraction.DetectedYear != 0 && o.session.Year != 0 && extraction.DetectedYear != o.session.Year {
		logging.WarnWithContext(logging.WithContext(ctx, o.logger), "save year differs from target season", "season_year_mismatch",
			logging.Int("detected_year", extraction.DetectedYear),
			logging.Int("season_year", o.session.Year),
			logging.String(logging.FieldErrorHint, "check --year matches the in-game season"),
			logging.String(logging.FieldImpact, "records will be filed under the target season"),
		)
	}

	games, err := o.repo.GamesBySeason(ctx, o.session.SeasonID)
	if err != nil {
		return reconcile.SyncDiff{}, fmt.Errorf("load season games: %w", err)
	}
	players, err := o.repo.PlayersByDynasty(ctx, o.session.DynastyID)
	if err != nil {
		return reconcile.SyncDiff{}, fmt.Errorf("load dynasty players: %w", err)
	}
	playerSeasons, err := o.repo.PlayerSeasonsByDynasty(ctx, o.session.DynastyID)
	if err != nil {
		return reconcile.SyncDiff{}, fmt.Errorf("load player seasons: %w", err)
	}

	diff := reconcile.ComputeDiff(extraction, reconcile.Existing{
		Games:         games,
		Players:       players,
		PlayerSeasons: playerSeasons,
	}, o.session.TeamName)
	logging.WithContext(ctx, o.logger).Info("diff ready",
		logging.Int("games_to_add", len(diff.GamesToAdd)),
		logging.Int("games_skipped", diff.GamesSkippedCount),
		logging.Int("players_to_add", len(diff.PlayersToAdd)),
		logging.Int("players_skipped", diff.PlayersSkippedCount),
		logging.Int("draft_picks_to_add", len(diff.DraftPicksToAdd)),
		logging.Int("draft_picks_skipped", diff.DraftPicksSkippedCount),
		logging.String(logging.FieldEventType, "diff_ready"),
	)
	return diff, nil
}

// saveLocked runs the commit. It is entered with mu held and the state
// already checked; it releases mu before writing.
func (o *Orchestrator) saveLocked(ctx context.Context) (commit.Outcome, error) {
	diff := reconcile.SyncDiff{}
	if o.diff != nil {
		diff = *o.diff
	}
	o.enterLocked(StateSaving)
	notify := o.notifyLocked()
	o.mu.Unlock()
	notify()

	target := commit.Target{DynastyID: o.session.DynastyID, SeasonID: o.session.SeasonID, Year: o.session.Year}
	outcome, err := o.committer.Commit(o.annotate(ctx), o.repo, diff, target)

	if err != nil {
		var partial *commit.PartialError
		if errors.As(err, &partial) {
			outcome = partial.Completed
		}
		logging.ErrorWithContext(o.logger, "sync commit failed", "sync_commit_failed",
			logging.Error(err),
			logging.Int("records_written", outcome.Total()),
			logging.String(logging.FieldCorrelationID, o.RunID()),
		)
	} else {
		o.logger.Info("sync committed",
			logging.Int("games_added", outcome.GamesAdded),
			logging.Int("players_added", outcome.PlayersAdded),
			logging.Int("draft_picks_added", outcome.DraftPicksAdded),
			logging.String(logging.FieldCorrelationID, o.RunID()),
			logging.String(logging.FieldEventType, "sync_committed"),
		)
	}

	o.mu.Lock()
	o.busy = false
	o.outcome = &outcome
	if err != nil {
		o.lastErr = err.Error()
	}
	o.enterLocked(StateDone)
	notify = o.notifyLocked()
	o.mu.Unlock()
	notify()
	return outcome, err
}

func (o *Orchestrator) startCountdownLocked() {
	o.countdownGen++
	if o.timer != nil {
		o.timer.Stop()
		o.timer = nil
	}
	if o.autoConfirm <= 0 {
		o.countdown = 0
		return
	}
	o.countdown = o.autoConfirm
	o.scheduleTickLocked(o.countdownGen)
}

func (o *Orchestrator) scheduleTickLocked(gen uint64) {
	o.timer = o.clock.AfterFunc(time.Second, func() { o.tick(gen) })
}

func (o *Orchestrator) stopCountdownLocked() {
	o.countdownGen++
	if o.timer != nil {
		o.timer.Stop()
		o.timer = nil
	}
	o.countdown = 0
}

func (o *Orchestrator) tick(gen uint64) {
	o.mu.Lock()
	if gen != o.countdownGen || o.state != StateConfirming || o.busy {
		o.mu.Unlock()
		return
	}
	o.countdown--
	if o.countdown > 0 {
		o.scheduleTickLocked(gen)
		notify := o.notifyLocked()
		o.mu.Unlock()
		notify()
		return
	}

	o.stopCountdownLocked()
	o.busy = true
	runID := o.runID
	o.logger.Info("auto-confirm countdown elapsed; committing",
		logging.String(logging.FieldCorrelationID, runID),
		logging.String(logging.FieldEventType, "sync_auto_confirm"),
	)
	_, _ = o.saveLocked(o.baseCtx)
}

// beginLocked marks an operation in flight when the current state is one of
// allowed. Callers hold mu.
func (o *Orchestrator) beginLocked(allowed ...State) error {
	if o.busy {
		return fmt.Errorf("%w (state %s)", ErrBusy, o.state)
	}
	for _, s := range allowed {
		if o.state == s {
			o.busy = true
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrInvalidState, o.state)
}

func (o *Orchestrator) enterLocked(next State) {
	prev := o.state
	o.state = next
	o.logger.Debug("sync state changed",
		logging.String("from", string(prev)),
		logging.String(logging.FieldSyncState, string(next)),
		logging.String(logging.FieldCorrelationID, o.runID),
		logging.String(logging.FieldEventType, "sync_state_changed"),
	)
}

func (o *Orchestrator) snapshotLocked() Snapshot {
	snap := Snapshot{
		State:     o.state,
		RunID:     o.runID,
		SavePath:  o.savePath,
		LastError: o.lastErr,
		Countdown: o.countdown,
	}
	if o.verdict != nil {
		v := *o.verdict
		snap.Verdict = &v
	}
	if o.diff != nil {
		d := *o.diff
		snap.Diff = &d
	}
	if o.outcome != nil {
		out := *o.outcome
		snap.Outcome = &out
	}
	return snap
}

// notifyLocked captures a snapshot and the listener list under mu and
// returns a func that delivers them after mu is released.
func (o *Orchestrator) notifyLocked() func() {
	if len(o.listeners) == 0 {
		return func() {}
	}
	snap := o.snapshotLocked()
	listeners := append([]func(Snapshot){}, o.listeners...)
	return func() {
		for _, fn := range listeners {
			fn(snap)
		}
	}
}

func (o *Orchestrator) annotate(ctx context.Context) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	o.mu.Lock()
	runID, state := o.runID, o.state
	o.mu.Unlock()
	ctx = services.WithDynastyID(ctx, o.session.DynastyID)
	ctx = services.WithSeasonID(ctx, o.session.SeasonID)
	ctx = services.WithState(ctx, string(state))
	if runID != "" {
		ctx = services.WithRequestID(ctx, runID)
	}
	return ctx
}
