package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

const seasonColumns = "id, dynasty_id, year, created_at"

func scanSeason(row rowScanner) (*Season, error) {
	var (
		season  Season
		created string
	)
	if err := row.Scan(&season.ID, &season.DynastyID, &season.Year, &created); err != nil {
		return nil, err
	}
	season.CreatedAt = parseTime(created)
	return &season, nil
}

// CreateSeason inserts a season for a dynasty. A dynasty holds at most one
// season per year.
func (s *Store) CreateSeason(ctx context.Context, dynastyID int64, year int) (*Season, error) {
	ctx = ensureContext(ctx)
	if year <= 0 {
		return nil, fmt.Errorf("season year must be positive, got %d", year)
	}
	createdAt, timestamp := nowTimestamp()
	var id int64
	err := retryOnBusy(ctx, func() error {
		res, err := s.db.ExecContext(ctx,
			`INSERT INTO seasons (dynasty_id, year, created_at) VALUES (?, ?, ?)`,
			dynastyID, year, timestamp,
		)
		if err != nil {
			return err
		}
		id, err = insertID(res)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("insert season: %w", err)
	}
	return &Season{ID: id, DynastyID: dynastyID, Year: year, CreatedAt: createdAt}, nil
}

// FindSeason returns the dynasty's season for year, or nil, nil when absent.
func (s *Store) FindSeason(ctx context.Context, dynastyID int64, year int) (*Season, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx,
		`SELECT `+seasonColumns+` FROM seasons WHERE dynasty_id = ? AND year = ?`, dynastyID, year)
	season, err := scanSeason(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find season: %w", err)
	}
	return season, nil
}

// EnsureSeason returns the existing season for year or creates it.
func (s *Store) EnsureSeason(ctx context.Context, dynastyID int64, year int) (*Season, error) {
	season, err := s.FindSeason(ctx, dynastyID, year)
	if err != nil || season != nil {
		return season, err
	}
	return s.CreateSeason(ctx, dynastyID, year)
}

// ListSeasons returns a dynasty's seasons ordered by year.
func (s *Store) ListSeasons(ctx context.Context, dynastyID int64) ([]*Season, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+seasonColumns+` FROM seasons WHERE dynasty_id = ? ORDER BY year`, dynastyID)
	if err != nil {
		return nil, fmt.Errorf("list seasons: %w", err)
	}
	out, err := collect(rows, scanSeason)
	if err != nil {
		return nil, fmt.Errorf("scan seasons: %w", err)
	}
	return out, nil
}
