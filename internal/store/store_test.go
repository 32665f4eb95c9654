package store_test

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"dynastysync/internal/store"
	"dynastysync/internal/testsupport"
)

func intp(v int) *int { return &v }

func TestOpenCreatesSchemaAndReopens(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if st.Path() != cfg.DatabasePath() {
		t.Fatalf("unexpected path %q", st.Path())
	}
	if _, err := st.CreateDynasty(context.Background(), "Roll Tide", "Alabama", 2024); err != nil {
		t.Fatalf("CreateDynasty: %v", err)
	}
	if err := st.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened := testsupport.MustOpenStore(t, cfg)
	dynasties, err := reopened.ListDynasties(context.Background())
	if err != nil {
		t.Fatalf("ListDynasties: %v", err)
	}
	if len(dynasties) != 1 || dynasties[0].TeamName != "Alabama" || dynasties[0].Sport != "cfb" {
		t.Fatalf("unexpected dynasties %+v", dynasties)
	}
}

func TestOpenRejectsSchemaMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.db")
	st, err := store.OpenPath(path)
	if err != nil {
		t.Fatalf("OpenPath: %v", err)
	}
	st.Close()

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("sql.Open: %v", err)
	}
	if _, err := db.Exec("UPDATE schema_version SET version = 99"); err != nil {
		t.Fatalf("bump version: %v", err)
	}
	db.Close()

	if _, err := store.OpenPath(path); !errors.Is(err, store.ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
}

func TestDynastyAndSeasonLifecycle(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	tests := []struct {
		name     string
		dynasty  string
		team     string
		year     int
		wantFail bool
	}{
		{name: "valid", dynasty: "Roll Tide", team: "Alabama", year: 2024},
		{name: "missing name", dynasty: " ", team: "Alabama", year: 2024, wantFail: true},
		{name: "missing team", dynasty: "X", team: "", year: 2024, wantFail: true},
		{name: "bad year", dynasty: "X", team: "Alabama", year: 0, wantFail: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := st.CreateDynasty(ctx, tt.dynasty, tt.team, tt.year)
			if tt.wantFail != (err != nil) {
				t.Fatalf("wantFail=%v err=%v", tt.wantFail, err)
			}
		})
	}

	dynasties, err := st.ListDynasties(ctx)
	if err != nil || len(dynasties) != 1 {
		t.Fatalf("ListDynasties: %v %+v", err, dynasties)
	}
	d := dynasties[0]

	missing, err := st.GetDynasty(ctx, d.ID+100)
	if err != nil || missing != nil {
		t.Fatalf("expected nil dynasty, got %+v %v", missing, err)
	}

	first, err := st.EnsureSeason(ctx, d.ID, 2025)
	if err != nil {
		t.Fatalf("EnsureSeason: %v", err)
	}
	again, err := st.EnsureSeason(ctx, d.ID, 2025)
	if err != nil {
		t.Fatalf("EnsureSeason again: %v", err)
	}
	if again.ID != first.ID {
		t.Fatalf("EnsureSeason created a duplicate: %d vs %d", again.ID, first.ID)
	}
	if _, err := st.CreateSeason(ctx, d.ID, 2025); err == nil {
		t.Fatalf("expected unique violation for duplicate season")
	}
	if _, err := st.CreateSeason(ctx, d.ID, 2024); err != nil {
		t.Fatalf("CreateSeason: %v", err)
	}
	seasons, err := st.ListSeasons(ctx, d.ID)
	if err != nil {
		t.Fatalf("ListSeasons: %v", err)
	}
	if len(seasons) != 2 || seasons[0].Year != 2024 || seasons[1].Year != 2025 {
		t.Fatalf("unexpected seasons %+v", seasons)
	}
	none, err := st.FindSeason(ctx, d.ID, 1999)
	if err != nil || none != nil {
		t.Fatalf("expected no season, got %+v %v", none, err)
	}
}

func TestRecordsRoundTrip(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()
	dynasty, season := testsupport.NewSeason(t, st, "Alabama", 2025)

	if _, err := st.CreateGame(ctx, store.NewGame{
		SeasonID: season.ID, DynastyID: dynasty.ID, Week: 1, Opponent: "Georgia",
		Location: store.LocationHome, OurScore: 24, OpponentScore: 17, Result: "W", GameType: "regular",
	}); err != nil {
		t.Fatalf("CreateGame: %v", err)
	}
	if _, err := st.CreateGame(ctx, store.NewGame{
		SeasonID: season.ID, DynastyID: dynasty.ID, Week: 2, Opponent: "Texas",
		Location: "stadium", Result: "W", GameType: "regular",
	}); err == nil {
		t.Fatalf("expected invalid location to be rejected")
	}

	player, err := st.CreatePlayer(ctx, store.NewPlayer{
		DynastyID: dynasty.ID, FirstName: "Jalen", LastName: "Milroe", Position: "QB", JerseyNumber: intp(4),
	})
	if err != nil {
		t.Fatalf("CreatePlayer: %v", err)
	}
	if player.Status != store.PlayerStatusActive {
		t.Fatalf("expected default status, got %q", player.Status)
	}
	if _, err := st.CreatePlayer(ctx, store.NewPlayer{DynastyID: dynasty.ID, FirstName: "Walk", LastName: "On"}); err != nil {
		t.Fatalf("CreatePlayer without jersey: %v", err)
	}
	if _, err := st.CreatePlayerSeason(ctx, store.NewPlayerSeason{
		PlayerID: player.ID, DynastyID: dynasty.ID, Year: 2025, Stats: map[string]int{"overall": 88},
	}); err != nil {
		t.Fatalf("CreatePlayerSeason: %v", err)
	}
	if _, err := st.CreateDraftPick(ctx, store.NewDraftPick{
		DynastyID: dynasty.ID, SeasonID: season.ID, Year: 2025, Round: 1, PickNumber: "7", NFLTeam: "Bears",
	}); err != nil {
		t.Fatalf("CreateDraftPick: %v", err)
	}

	games, err := st.GamesBySeason(ctx, season.ID)
	if err != nil || len(games) != 1 {
		t.Fatalf("GamesBySeason: %v %+v", err, games)
	}
	if games[0].Opponent != "Georgia" || games[0].Location != store.LocationHome || games[0].OurScore != 24 {
		t.Fatalf("unexpected game %+v", games[0])
	}

	players, err := st.PlayersByDynasty(ctx, dynasty.ID)
	if err != nil || len(players) != 2 {
		t.Fatalf("PlayersByDynasty: %v %+v", err, players)
	}
	if players[0].JerseyNumber == nil || *players[0].JerseyNumber != 4 {
		t.Fatalf("expected jersey 4, got %+v", players[0].JerseyNumber)
	}
	if players[1].JerseyNumber != nil || players[1].Position != "" {
		t.Fatalf("expected null jersey and position, got %+v", players[1])
	}

	seasons, err := st.PlayerSeasonsByDynasty(ctx, dynasty.ID)
	if err != nil || len(seasons) != 1 {
		t.Fatalf("PlayerSeasonsByDynasty: %v %+v", err, seasons)
	}
	if seasons[0].Stats["overall"] != 88 {
		t.Fatalf("unexpected stats %+v", seasons[0].Stats)
	}

	picks, err := st.DraftPicksBySeason(ctx, season.ID)
	if err != nil || len(picks) != 1 || picks[0].PickNumber != "7" || picks[0].NFLTeam != "Bears" {
		t.Fatalf("DraftPicksBySeason: %v %+v", err, picks)
	}

	counts, err := st.CountsForDynasty(ctx, dynasty.ID)
	if err != nil {
		t.Fatalf("CountsForDynasty: %v", err)
	}
	want := store.Counts{Seasons: 1, Games: 1, Players: 2, PlayerSeasons: 1, DraftPicks: 1}
	if counts != want {
		t.Fatalf("expected %+v, got %+v", want, counts)
	}
}

func TestForeignKeysEnforced(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	_, err := st.CreateGame(context.Background(), store.NewGame{
		SeasonID: 999, DynastyID: 999, Week: 1, Opponent: "Nobody",
		Location: store.LocationAway, Result: "L", GameType: "regular",
	})
	if err == nil {
		t.Fatalf("expected foreign key violation")
	}
}

func TestInTxRollsBackOnError(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()
	dynasty, season := testsupport.NewSeason(t, st, "Alabama", 2025)

	boom := errors.New("boom")
	err := st.InTx(ctx, func(tx *store.Tx) error {
		if _, err := tx.CreateGame(ctx, store.NewGame{
			SeasonID: season.ID, DynastyID: dynasty.ID, Week: 1, Opponent: "Georgia",
			Location: store.LocationHome, Result: "W", GameType: "regular",
		}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	games, err := st.GamesBySeason(ctx, season.ID)
	if err != nil {
		t.Fatalf("GamesBySeason: %v", err)
	}
	if len(games) != 0 {
		t.Fatalf("expected rollback, found %d games", len(games))
	}

	if err := st.InTx(ctx, func(tx *store.Tx) error {
		_, err := tx.CreatePlayer(ctx, store.NewPlayer{DynastyID: dynasty.ID, FirstName: "Ryan", LastName: "Williams"})
		return err
	}); err != nil {
		t.Fatalf("InTx commit: %v", err)
	}
	players, err := st.PlayersByDynasty(ctx, dynasty.ID)
	if err != nil || len(players) != 1 {
		t.Fatalf("expected committed player, got %v %+v", err, players)
	}
}
