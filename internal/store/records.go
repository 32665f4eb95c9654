package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

const (
	gameColumns         = "id, season_id, dynasty_id, week, opponent, location, our_score, opponent_score, result, game_type, created_at"
	playerColumns       = "id, dynasty_id, first_name, last_name, position, jersey_number, status, created_at"
	playerSeasonColumns = "id, player_id, dynasty_id, year, stats_json, created_at"
	draftPickColumns    = "id, dynasty_id, season_id, year, round, pick_number, nfl_team, player_name, created_at"
)

func scanGame(row rowScanner) (*Game, error) {
	var (
		g       Game
		created string
	)
	if err := row.Scan(&g.ID, &g.SeasonID, &g.DynastyID, &g.Week, &g.Opponent, &g.Location,
		&g.OurScore, &g.OpponentScore, &g.Result, &g.GameType, &created); err != nil {
		return nil, err
	}
	g.CreatedAt = parseTime(created)
	return &g, nil
}

func scanPlayer(row rowScanner) (*Player, error) {
	var (
		p        Player
		position sql.NullString
		jersey   sql.NullInt64
		created  string
	)
	if err := row.Scan(&p.ID, &p.DynastyID, &p.FirstName, &p.LastName, &position, &jersey, &p.Status, &created); err != nil {
		return nil, err
	}
	p.Position = position.String
	p.JerseyNumber = intPtr(jersey)
	p.CreatedAt = parseTime(created)
	return &p, nil
}

func scanPlayerSeason(row rowScanner) (*PlayerSeason, error) {
	var (
		ps      PlayerSeason
		stats   string
		created string
	)
	if err := row.Scan(&ps.ID, &ps.PlayerID, &ps.DynastyID, &ps.Year, &stats, &created); err != nil {
		return nil, err
	}
	ps.Stats = decodeStats(stats)
	ps.CreatedAt = parseTime(created)
	return &ps, nil
}

func scanDraftPick(row rowScanner) (*DraftPick, error) {
	var (
		d       DraftPick
		created string
	)
	if err := row.Scan(&d.ID, &d.DynastyID, &d.SeasonID, &d.Year, &d.Round, &d.PickNumber,
		&d.NFLTeam, &d.PlayerName, &created); err != nil {
		return nil, err
	}
	d.CreatedAt = parseTime(created)
	return &d, nil
}

func createGame(ctx context.Context, q querier, attrs NewGame) (*Game, error) {
	if attrs.SeasonID <= 0 || attrs.DynastyID <= 0 {
		return nil, errors.New("game requires season and dynasty ids")
	}
	switch attrs.Location {
	case LocationHome, LocationAway, LocationNeutral:
	default:
		return nil, fmt.Errorf("game location %q is not home, away or neutral", attrs.Location)
	}
	createdAt, timestamp := nowTimestamp()
	res, err := q.ExecContext(ctx,
		`INSERT INTO games (
            season_id, dynasty_id, week, opponent, location, our_score, opponent_score,
            result, game_type, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		attrs.SeasonID, attrs.DynastyID, attrs.Week, attrs.Opponent, attrs.Location,
		attrs.OurScore, attrs.OpponentScore, attrs.Result, attrs.GameType, timestamp,
	)
	if err != nil {
		return nil, err
	}
	id, err := insertID(res)
	if err != nil {
		return nil, err
	}
	return &Game{
		ID:            id,
		SeasonID:      attrs.SeasonID,
		DynastyID:     attrs.DynastyID,
		Week:          attrs.Week,
		Opponent:      attrs.Opponent,
		Location:      attrs.Location,
		OurScore:      attrs.OurScore,
		OpponentScore: attrs.OpponentScore,
		Result:        attrs.Result,
		GameType:      attrs.GameType,
		CreatedAt:     createdAt,
	}, nil
}

func createPlayer(ctx context.Context, q querier, attrs NewPlayer) (*Player, error) {
	if attrs.DynastyID <= 0 {
		return nil, errors.New("player requires a dynasty id")
	}
	if strings.TrimSpace(attrs.FirstName) == "" {
		return nil, errors.New("player first name is required")
	}
	status := attrs.Status
	if status == "" {
		status = PlayerStatusActive
	}
	createdAt, timestamp := nowTimestamp()
	res, err := q.ExecContext(ctx,
		`INSERT INTO players (dynasty_id, first_name, last_name, position, jersey_number, status, created_at)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
		attrs.DynastyID, attrs.FirstName, attrs.LastName, nullableString(attrs.Position),
		nullableInt(attrs.JerseyNumber), status, timestamp,
	)
	if err != nil {
		return nil, err
	}
	id, err := insertID(res)
	if err != nil {
		return nil, err
	}
	return &Player{
		ID:           id,
		DynastyID:    attrs.DynastyID,
		FirstName:    attrs.FirstName,
		LastName:     attrs.LastName,
		Position:     attrs.Position,
		JerseyNumber: attrs.JerseyNumber,
		Status:       status,
		CreatedAt:    createdAt,
	}, nil
}

func createPlayerSeason(ctx context.Context, q querier, attrs NewPlayerSeason) (*PlayerSeason, error) {
	if attrs.PlayerID <= 0 || attrs.DynastyID <= 0 {
		return nil, errors.New("player season requires player and dynasty ids")
	}
	stats, err := encodeStats(attrs.Stats)
	if err != nil {
		return nil, fmt.Errorf("encode stats: %w", err)
	}
	createdAt, timestamp := nowTimestamp()
	res, err := q.ExecContext(ctx,
		`INSERT INTO player_seasons (player_id, dynasty_id, year, stats_json, created_at) VALUES (?, ?, ?, ?, ?)`,
		attrs.PlayerID, attrs.DynastyID, attrs.Year, stats, timestamp,
	)
	if err != nil {
		return nil, err
	}
	id, err := insertID(res)
	if err != nil {
		return nil, err
	}
	return &PlayerSeason{
		ID:        id,
		PlayerID:  attrs.PlayerID,
		DynastyID: attrs.DynastyID,
		Year:      attrs.Year,
		Stats:     decodeStats(stats),
		CreatedAt: createdAt,
	}, nil
}

func createDraftPick(ctx context.Context, q querier, attrs NewDraftPick) (*DraftPick, error) {
	if attrs.SeasonID <= 0 || attrs.DynastyID <= 0 {
		return nil, errors.New("draft pick requires season and dynasty ids")
	}
	createdAt, timestamp := nowTimestamp()
	res, err := q.ExecContext(ctx,
		`INSERT INTO draft_picks (
            dynasty_id, season_id, year, round, pick_number, nfl_team, player_name, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		attrs.DynastyID, attrs.SeasonID, attrs.Year, attrs.Round, attrs.PickNumber,
		attrs.NFLTeam, attrs.PlayerName, timestamp,
	)
	if err != nil {
		return nil, err
	}
	id, err := insertID(res)
	if err != nil {
		return nil, err
	}
	return &DraftPick{
		ID:         id,
		DynastyID:  attrs.DynastyID,
		SeasonID:   attrs.SeasonID,
		Year:       attrs.Year,
		Round:      attrs.Round,
		PickNumber: attrs.PickNumber,
		NFLTeam:    attrs.NFLTeam,
		PlayerName: attrs.PlayerName,
		CreatedAt:  createdAt,
	}, nil
}

// CreateGame inserts one game.
func (s *Store) CreateGame(ctx context.Context, attrs NewGame) (*Game, error) {
	ctx = ensureContext(ctx)
	var out *Game
	err := retryOnBusy(ctx, func() error {
		var err error
		out, err = createGame(ctx, s.db, attrs)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("create game: %w", err)
	}
	return out, nil
}

// CreatePlayer inserts one player.
func (s *Store) CreatePlayer(ctx context.Context, attrs NewPlayer) (*Player, error) {
	ctx = ensureContext(ctx)
	var out *Player
	err := retryOnBusy(ctx, func() error {
		var err error
		out, err = createPlayer(ctx, s.db, attrs)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("create player: %w", err)
	}
	return out, nil
}

// CreatePlayerSeason inserts one player season row.
func (s *Store) CreatePlayerSeason(ctx context.Context, attrs NewPlayerSeason) (*PlayerSeason, error) {
	ctx = ensureContext(ctx)
	var out *PlayerSeason
	err := retryOnBusy(ctx, func() error {
		var err error
		out, err = createPlayerSeason(ctx, s.db, attrs)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("create player season: %w", err)
	}
	return out, nil
}

// CreateDraftPick inserts one draft pick. No duplicate check is made against
// picks already recorded for the season.
func (s *Store) CreateDraftPick(ctx context.Context, attrs NewDraftPick) (*DraftPick, error) {
	ctx = ensureContext(ctx)
	var out *DraftPick
	err := retryOnBusy(ctx, func() error {
		var err error
		out, err = createDraftPick(ctx, s.db, attrs)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("create draft pick: %w", err)
	}
	return out, nil
}

// GamesBySeason returns a season's games ordered by week.
func (s *Store) GamesBySeason(ctx context.Context, seasonID int64) ([]*Game, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+gameColumns+` FROM games WHERE season_id = ? ORDER BY week, id`, seasonID)
	if err != nil {
		return nil, fmt.Errorf("games by season: %w", err)
	}
	out, err := collect(rows, scanGame)
	if err != nil {
		return nil, fmt.Errorf("scan games: %w", err)
	}
	return out, nil
}

// PlayersByDynasty returns a dynasty's players ordered by id.
func (s *Store) PlayersByDynasty(ctx context.Context, dynastyID int64) ([]*Player, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+playerColumns+` FROM players WHERE dynasty_id = ? ORDER BY id`, dynastyID)
	if err != nil {
		return nil, fmt.Errorf("players by dynasty: %w", err)
	}
	out, err := collect(rows, scanPlayer)
	if err != nil {
		return nil, fmt.Errorf("scan players: %w", err)
	}
	return out, nil
}

// PlayerSeasonsByDynasty returns every player season row of a dynasty.
func (s *Store) PlayerSeasonsByDynasty(ctx context.Context, dynastyID int64) ([]*PlayerSeason, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+playerSeasonColumns+` FROM player_seasons WHERE dynasty_id = ? ORDER BY year, id`, dynastyID)
	if err != nil {
		return nil, fmt.Errorf("player seasons by dynasty: %w", err)
	}
	out, err := collect(rows, scanPlayerSeason)
	if err != nil {
		return nil, fmt.Errorf("scan player seasons: %w", err)
	}
	return out, nil
}

// DraftPicksBySeason returns a season's draft picks ordered by round.
func (s *Store) DraftPicksBySeason(ctx context.Context, seasonID int64) ([]*DraftPick, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+draftPickColumns+` FROM draft_picks WHERE season_id = ? ORDER BY round, id`, seasonID)
	if err != nil {
		return nil, fmt.Errorf("draft picks by season: %w", err)
	}
	out, err := collect(rows, scanDraftPick)
	if err != nil {
		return nil, fmt.Errorf("scan draft picks: %w", err)
	}
	return out, nil
}
