package store

import (
	"context"
	"database/sql"
	"fmt"
)

// Tx exposes the create calls inside one database transaction.
type Tx struct {
	tx *sql.Tx
}

// InTx runs fn inside a transaction. The transaction commits when fn returns
// nil and rolls back otherwise, including on panic.
func (s *Store) InTx(ctx context.Context, fn func(*Tx) error) (err error) {
	ctx = ensureContext(ctx)
	var sqlTx *sql.Tx
	if err := retryOnBusy(ctx, func() error {
		var beginErr error
		sqlTx, beginErr = s.db.BeginTx(ctx, nil)
		return beginErr
	}); err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = sqlTx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = sqlTx.Rollback()
		}
	}()

	if err = fn(&Tx{tx: sqlTx}); err != nil {
		return err
	}
	if err = sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// CreateGame inserts one game inside the transaction.
func (t *Tx) CreateGame(ctx context.Context, attrs NewGame) (*Game, error) {
	out, err := createGame(ensureContext(ctx), t.tx, attrs)
	if err != nil {
		return nil, fmt.Errorf("create game: %w", err)
	}
	return out, nil
}

// CreatePlayer inserts one player inside the transaction.
func (t *Tx) CreatePlayer(ctx context.Context, attrs NewPlayer) (*Player, error) {
	out, err := createPlayer(ensureContext(ctx), t.tx, attrs)
	if err != nil {
		return nil, fmt.Errorf("create player: %w", err)
	}
	return out, nil
}

// CreatePlayerSeason inserts one player season inside the transaction.
func (t *Tx) CreatePlayerSeason(ctx context.Context, attrs NewPlayerSeason) (*PlayerSeason, error) {
	out, err := createPlayerSeason(ensureContext(ctx), t.tx, attrs)
	if err != nil {
		return nil, fmt.Errorf("create player season: %w", err)
	}
	return out, nil
}

// CreateDraftPick inserts one draft pick inside the transaction.
func (t *Tx) CreateDraftPick(ctx context.Context, attrs NewDraftPick) (*DraftPick, error) {
	out, err := createDraftPick(ensureContext(ctx), t.tx, attrs)
	if err != nil {
		return nil, fmt.Errorf("create draft pick: %w", err)
	}
	return out, nil
}
