package syncrun

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"dynastysync/internal/commit"
	"dynastysync/internal/config"
	"dynastysync/internal/logging"
	"dynastysync/internal/savefile"
	"dynastysync/internal/sidecar"
	"dynastysync/internal/store"
	"dynastysync/internal/syncflow"
)

// Target selects the dynasty season a sync writes into.
type Target struct {
	DynastyID int64
	Year      int
}

// Runtime holds the wired pipeline for one dynasty season.
type Runtime struct {
	Store        *store.Store
	Gateway      *sidecar.Gateway
	Reader       *savefile.Reader
	Engine       *commit.Engine
	Orchestrator *syncflow.Orchestrator
	Dynasty      *store.Dynasty
	Season       *store.Season
}

// Option adjusts the orchestrator Open builds.
type Option = syncflow.Option

// Open wires the pipeline for target. The season is created when the dynasty
// has none for the year yet.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger, target Target, opts ...Option) (*Runtime, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	st, err := store.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	rt := &Runtime{Store: st}
	ok := false
	defer func() {
		if !ok {
			_ = st.Close()
		}
	}()

	dynasty, err := st.GetDynasty(ctx, target.DynastyID)
	if err != nil {
		return nil, err
	}
	if dynasty == nil {
		return nil, fmt.Errorf("dynasty %d not found", target.DynastyID)
	}
	year := target.Year
	if year <= 0 {
		return nil, fmt.Errorf("season year must be positive, got %d", year)
	}
	season, err := st.EnsureSeason(ctx, dynasty.ID, year)
	if err != nil {
		return nil, fmt.Errorf("resolve season: %w", err)
	}
	rt.Dynasty, rt.Season = dynasty, season

	gateway, err := sidecar.NewFromConfig(cfg, logger)
	if err != nil {
		return nil, err
	}
	rt.Gateway = gateway
	rt.Reader = savefile.NewReader(gateway, logger)
	rt.Engine = commit.NewEngine(logger, commit.WithTransactional(cfg.Transactional()))

	all := []syncflow.Option{
		syncflow.WithAutoConfirm(cfg.Sync.AutoConfirmSeconds),
		syncflow.WithLogger(logger),
		syncflow.WithBaseContext(ctx),
	}
	all = append(all, opts...)
	orch, err := syncflow.New(rt.Reader, st, rt.Engine, syncflow.Session{
		DynastyID: dynasty.ID,
		SeasonID:  season.ID,
		Year:      season.Year,
		TeamName:  dynasty.TeamName,
	}, all...)
	if err != nil {
		return nil, err
	}
	rt.Orchestrator = orch
	ok = true
	return rt, nil
}

// Close releases the store.
func (r *Runtime) Close() error {
	if r == nil || r.Store == nil {
		return nil
	}
	return r.Store.Close()
}
