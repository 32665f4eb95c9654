package commit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"dynastysync/internal/logging"
	"dynastysync/internal/reconcile"
	"dynastysync/internal/store"
	"dynastysync/internal/textutil"
)

// Writer is the set of create calls a commit issues. *store.Store and
// *store.Tx both satisfy it.
type Writer interface {
	CreateGame(ctx context.Context, attrs store.NewGame) (*store.Game, error)
	CreatePlayer(ctx context.Context, attrs store.NewPlayer) (*store.Player, error)
	CreatePlayerSeason(ctx context.Context, attrs store.NewPlayerSeason) (*store.PlayerSeason, error)
	CreateDraftPick(ctx context.Context, attrs store.NewDraftPick) (*store.DraftPick, error)
}

// Database is a Writer that can also open a transaction.
type Database interface {
	Writer
	InTx(ctx context.Context, fn func(*store.Tx) error) error
}

// Target identifies where a diff lands.
type Target struct {
	DynastyID int64
	SeasonID  int64
	Year      int
}

// Outcome counts the records a commit created.
type Outcome struct {
	GamesAdded      int `json:"gamesAdded"`
	PlayersAdded    int `json:"playersAdded"`
	DraftPicksAdded int `json:"draftPicksAdded"`
}

// Total returns the number of primary records created.
func (o Outcome) Total() int {
	return o.GamesAdded + o.PlayersAdded + o.DraftPicksAdded
}

// Entity kinds named by PartialError.
const (
	EntityGame         = "game"
	EntityPlayer       = "player"
	EntityPlayerSeason = "player_season"
	EntityDraftPick    = "draft_pick"
)

// PartialError reports the record a commit stopped at.
type PartialError struct {
	Entity string
	// Index is the record's position within its diff slice.
	Index int
	Label string
	// Completed is what was persisted before the failure. After a rollback
	// it is zero.
	Completed  Outcome
	RolledBack bool
	Err        error
}

func (e *PartialError) Error() string {
	state := fmt.Sprintf("%d records kept", e.Completed.Total())
	if e.RolledBack {
		state = "rolled back"
	}
	return fmt.Sprintf("commit stopped at %s %d (%s), %s: %v", e.Entity, e.Index+1, e.Label, state, e.Err)
}

func (e *PartialError) Unwrap() error { return e.Err }

// Option configures the engine.
type Option func(*Engine)

// WithTransactional switches the engine to all-or-nothing commits.
func WithTransactional(enabled bool) Option {
	return func(e *Engine) { e.transactional = enabled }
}

// Engine applies diffs.
type Engine struct {
	transactional bool
	logger        *slog.Logger
}

// NewEngine constructs an engine. A nil logger discards output.
func NewEngine(logger *slog.Logger, opts ...Option) *Engine {
	e := &Engine{logger: logging.NewComponentLogger(logger, "commit")}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Transactional reports whether commits run in one transaction.
func (e *Engine) Transactional() bool {
	return e.transactional
}

// Commit writes diff into db for target and returns the counts created. On
// failure the error is a *PartialError.
func (e *Engine) Commit(ctx context.Context, db Database, diff reconcile.SyncDiff, target Target) (Outcome, error) {
	if target.DynastyID <= 0 || target.SeasonID <= 0 {
		return Outcome{}, errors.New("commit target requires dynasty and season ids")
	}
	logger := logging.WithContext(ctx, e.logger)

	if !e.transactional {
		outcome, err := apply(ctx, db, diff, target)
		e.report(logger, outcome, err)
		return outcome, err
	}

	var outcome Outcome
	err := db.InTx(ctx, func(tx *store.Tx) error {
		var applyErr error
		outcome, applyErr = apply(ctx, tx, diff, target)
		return applyErr
	})
	if err != nil {
		var partial *PartialError
		if !errors.As(err, &partial) {
			partial = &PartialError{Entity: "transaction", Label: "commit", Err: err}
		}
		partial.RolledBack = true
		partial.Completed = Outcome{}
		e.report(logger, Outcome{}, partial)
		return Outcome{}, partial
	}
	e.report(logger, outcome, nil)
	return outcome, nil
}

func (e *Engine) report(logger *slog.Logger, outcome Outcome, err error) {
	attrs := []logging.Attr{
		logging.Int("games_added", outcome.GamesAdded),
		logging.Int("players_added", outcome.PlayersAdded),
		logging.Int("draft_picks_added", outcome.DraftPicksAdded),
		logging.Bool("transactional", e.transactional),
	}
	if err != nil {
		attrs = append(attrs,
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "re-run the sync; records already written are skipped"),
			logging.String(logging.FieldImpact, "sync only partly recorded"),
		)
		logging.ErrorWithContext(logger, "commit failed", "commit_failed", attrs...)
		return
	}
	attrs = append(attrs, logging.String(logging.FieldEventType, "commit_done"))
	logger.Info("commit complete", logging.Args(attrs...)...)
}

func apply(ctx context.Context, w Writer, diff reconcile.SyncDiff, target Target) (Outcome, error) {
	var out Outcome
	fail := func(entity string, index int, label string, err error) (Outcome, error) {
		return out, &PartialError{Entity: entity, Index: index, Label: label, Completed: out, Err: err}
	}

	for i, g := range diff.GamesToAdd {
		if err := ctx.Err(); err != nil {
			return fail(EntityGame, i, gameLabel(g), err)
		}
		if _, err := w.CreateGame(ctx, store.NewGame{
			SeasonID:      target.SeasonID,
			DynastyID:     target.DynastyID,
			Week:          g.Week,
			Opponent:      g.Opponent,
			Location:      g.Location(),
			OurScore:      g.OurScore,
			OpponentScore: g.OpponentScore,
			Result:        string(g.Result),
			GameType:      string(g.GameType),
		}); err != nil {
			return fail(EntityGame, i, gameLabel(g), err)
		}
		out.GamesAdded++
	}

	for i, p := range diff.PlayersToAdd {
		name := deref(p.Name)
		if err := ctx.Err(); err != nil {
			return fail(EntityPlayer, i, name, err)
		}
		first, last := textutil.SplitName(name)
		player, err := w.CreatePlayer(ctx, store.NewPlayer{
			DynastyID:    target.DynastyID,
			FirstName:    first,
			LastName:     last,
			Position:     strings.TrimSpace(deref(p.Position)),
			JerseyNumber: p.JerseyNumber,
			Status:       store.PlayerStatusActive,
		})
		if err != nil {
			return fail(EntityPlayer, i, name, err)
		}
		out.PlayersAdded++
		if p.Overall == nil {
			continue
		}
		if _, err := w.CreatePlayerSeason(ctx, store.NewPlayerSeason{
			PlayerID:  player.ID,
			DynastyID: target.DynastyID,
			Year:      target.Year,
			Stats:     map[string]int{"overall": *p.Overall},
		}); err != nil {
			return fail(EntityPlayerSeason, i, name, err)
		}
	}

	for i, d := range diff.DraftPicksToAdd {
		label := pickLabel(i, d.Round, d.Pick)
		if err := ctx.Err(); err != nil {
			return fail(EntityDraftPick, i, label, err)
		}
		round := 1
		if d.Round != nil {
			round = *d.Round
		}
		pickNumber := ""
		if d.Pick != nil {
			pickNumber = strconv.Itoa(*d.Pick)
		}
		if _, err := w.CreateDraftPick(ctx, store.NewDraftPick{
			DynastyID:  target.DynastyID,
			SeasonID:   target.SeasonID,
			Year:       target.Year,
			Round:      round,
			PickNumber: pickNumber,
			NFLTeam:    strings.TrimSpace(deref(d.Team)),
		}); err != nil {
			return fail(EntityDraftPick, i, label, err)
		}
		out.DraftPicksAdded++
	}
	return out, nil
}

func gameLabel(g reconcile.MappedGame) string {
	return fmt.Sprintf("week %d vs %s", g.Week, g.Opponent)
}

func pickLabel(i int, round, pick *int) string {
	switch {
	case round != nil && pick != nil:
		return fmt.Sprintf("round %d pick %d", *round, *pick)
	case pick != nil:
		return fmt.Sprintf("pick %d", *pick)
	case round != nil:
		return fmt.Sprintf("round %d", *round)
	default:
		return fmt.Sprintf("entry %d", i+1)
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
