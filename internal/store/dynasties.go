package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

const dynastyColumns = "id, name, team_name, sport, start_year, created_at"

func scanDynasty(row rowScanner) (*Dynasty, error) {
	var (
		d       Dynasty
		created string
	)
	if err := row.Scan(&d.ID, &d.Name, &d.TeamName, &d.Sport, &d.StartYear, &created); err != nil {
		return nil, err
	}
	d.CreatedAt = parseTime(created)
	return &d, nil
}

// CreateDynasty inserts a dynasty. The team name drives which side of each
// extracted game belongs to the user.
func (s *Store) CreateDynasty(ctx context.Context, name, teamName string, startYear int) (*Dynasty, error) {
	ctx = ensureContext(ctx)
	name = strings.TrimSpace(name)
	teamName = strings.TrimSpace(teamName)
	if name == "" {
		return nil, errors.New("dynasty name is required")
	}
	if teamName == "" {
		return nil, errors.New("dynasty team name is required")
	}
	if startYear <= 0 {
		return nil, fmt.Errorf("dynasty start year must be positive, got %d", startYear)
	}

	createdAt, timestamp := nowTimestamp()
	var id int64
	err := retryOnBusy(ctx, func() error {
		res, err := s.db.ExecContext(ctx,
			`INSERT INTO dynasties (name, team_name, sport, start_year, created_at) VALUES (?, ?, ?, ?, ?)`,
			name, teamName, "cfb", startYear, timestamp,
		)
		if err != nil {
			return err
		}
		id, err = insertID(res)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("insert dynasty: %w", err)
	}
	return &Dynasty{ID: id, Name: name, TeamName: teamName, Sport: "cfb", StartYear: startYear, CreatedAt: createdAt}, nil
}

// GetDynasty fetches a dynasty by id. It returns nil, nil when none exists.
func (s *Store) GetDynasty(ctx context.Context, id int64) (*Dynasty, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx, `SELECT `+dynastyColumns+` FROM dynasties WHERE id = ?`, id)
	d, err := scanDynasty(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get dynasty: %w", err)
	}
	return d, nil
}

// ListDynasties returns every dynasty ordered by id.
func (s *Store) ListDynasties(ctx context.Context) ([]*Dynasty, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx, `SELECT `+dynastyColumns+` FROM dynasties ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list dynasties: %w", err)
	}
	out, err := collect(rows, scanDynasty)
	if err != nil {
		return nil, fmt.Errorf("scan dynasties: %w", err)
	}
	return out, nil
}

// CountsForDynasty reports row counts for a dynasty across every child table.
func (s *Store) CountsForDynasty(ctx context.Context, dynastyID int64) (Counts, error) {
	ctx = ensureContext(ctx)
	var c Counts
	err := s.db.QueryRowContext(ctx, `SELECT
            (SELECT COUNT(1) FROM seasons WHERE dynasty_id = ?),
            (SELECT COUNT(1) FROM games WHERE dynasty_id = ?),
            (SELECT COUNT(1) FROM players WHERE dynasty_id = ?),
            (SELECT COUNT(1) FROM player_seasons WHERE dynasty_id = ?),
            (SELECT COUNT(1) FROM draft_picks WHERE dynasty_id = ?)`,
		dynastyID, dynastyID, dynastyID, dynastyID, dynastyID,
	).Scan(&c.Seasons, &c.Games, &c.Players, &c.PlayerSeasons, &c.DraftPicks)
	if err != nil {
		return Counts{}, fmt.Errorf("count dynasty rows: %w", err)
	}
	return c, nil
}
