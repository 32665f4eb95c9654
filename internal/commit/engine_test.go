package commit_test

import (
	"context"
	"errors"
	"testing"

	"dynastysync/internal/commit"
	"dynastysync/internal/reconcile"
	"dynastysync/internal/savefile"
	"dynastysync/internal/store"
	"dynastysync/internal/testsupport"
)

func intp(v int) *int       { return &v }
func strp(v string) *string { return &v }

func sampleDiff() reconcile.SyncDiff {
	return reconcile.SyncDiff{
		GamesToAdd: []reconcile.MappedGame{
			{Week: 1, Opponent: "Georgia", IsHome: true, OurScore: 24, OpponentScore: 17, Result: reconcile.ResultWin, GameType: reconcile.GameTypeRegular},
			{Week: 2, Opponent: "Texas", IsAway: true, OurScore: 10, OpponentScore: 31, Result: reconcile.ResultLoss, GameType: reconcile.GameTypeRegular},
		},
		PlayersToAdd: []savefile.RawPlayer{
			{Name: strp("Jalen Milroe"), Position: strp(" QB "), Overall: intp(88), JerseyNumber: intp(4)},
			{Name: strp("Ryan Williams"), Position: strp("WR")},
		},
		DraftPicksToAdd: []savefile.RawDraftPick{
			{Round: intp(2), Pick: intp(40), Team: strp(" Bears ")},
			{Pick: intp(12)},
		},
	}
}

func TestCommitSequentialWritesEverything(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	dynasty, season := testsupport.NewSeason(t, st, "Alabama", 2025)
	ctx := context.Background()

	engine := commit.NewEngine(nil)
	outcome, err := engine.Commit(ctx, st, sampleDiff(), commit.Target{DynastyID: dynasty.ID, SeasonID: season.ID, Year: 2025})
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if outcome != (commit.Outcome{GamesAdded: 2, PlayersAdded: 2, DraftPicksAdded: 2}) {
		t.Fatalf("unexpected outcome %+v", outcome)
	}

	games, _ := st.GamesBySeason(ctx, season.ID)
	if len(games) != 2 || games[0].Location != store.LocationHome || games[1].Location != store.LocationAway {
		t.Fatalf("unexpected games %+v", games)
	}
	if games[1].Result != "L" || games[1].OurScore != 10 {
		t.Fatalf("unexpected week 2 game %+v", games[1])
	}

	players, _ := st.PlayersByDynasty(ctx, dynasty.ID)
	if len(players) != 2 {
		t.Fatalf("expected 2 players, got %d", len(players))
	}
	if players[0].FirstName != "Jalen" || players[0].LastName != "Milroe" || players[0].Position != "QB" {
		t.Fatalf("unexpected player %+v", players[0])
	}
	if players[0].Status != store.PlayerStatusActive {
		t.Fatalf("expected active status, got %q", players[0].Status)
	}

	seasons, _ := st.PlayerSeasonsByDynasty(ctx, dynasty.ID)
	if len(seasons) != 1 {
		t.Fatalf("expected one player season for the rated player, got %d", len(seasons))
	}
	if seasons[0].PlayerID != players[0].ID || seasons[0].Year != 2025 || seasons[0].Stats["overall"] != 88 {
		t.Fatalf("unexpected player season %+v", seasons[0])
	}

	picks, _ := st.DraftPicksBySeason(ctx, season.ID)
	if len(picks) != 2 {
		t.Fatalf("expected 2 picks, got %d", len(picks))
	}
	byPick := map[string]*store.DraftPick{}
	for _, p := range picks {
		byPick[p.PickNumber] = p
	}
	if p := byPick["40"]; p == nil || p.Round != 2 || p.NFLTeam != "Bears" {
		t.Fatalf("unexpected pick 40 %+v", p)
	}
	if p := byPick["12"]; p == nil || p.Round != 1 || p.NFLTeam != "" {
		t.Fatalf("expected round default of 1, got %+v", p)
	}
}

func TestCommitEmptyDiff(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	dynasty, season := testsupport.NewSeason(t, st, "Alabama", 2025)

	outcome, err := commit.NewEngine(nil).Commit(context.Background(), st, reconcile.SyncDiff{},
		commit.Target{DynastyID: dynasty.ID, SeasonID: season.ID, Year: 2025})
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if outcome.Total() != 0 {
		t.Fatalf("expected nothing written, got %+v", outcome)
	}
}

func TestCommitRequiresTarget(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	if _, err := commit.NewEngine(nil).Commit(context.Background(), st, sampleDiff(), commit.Target{}); err == nil {
		t.Fatalf("expected error for missing target")
	}
}

// failingDB wraps a store and fails the nth player insert.
type failingDB struct {
	*store.Store
	failPlayerAt int
	players      int
}

func (f *failingDB) CreatePlayer(ctx context.Context, attrs store.NewPlayer) (*store.Player, error) {
	f.players++
	if f.players == f.failPlayerAt {
		return nil, errors.New("disk full")
	}
	return f.Store.CreatePlayer(ctx, attrs)
}

func TestCommitSequentialStopsAtFirstFailure(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	dynasty, season := testsupport.NewSeason(t, st, "Alabama", 2025)
	ctx := context.Background()

	db := &failingDB{Store: st, failPlayerAt: 2}
	outcome, err := commit.NewEngine(nil).Commit(ctx, db, sampleDiff(), commit.Target{DynastyID: dynasty.ID, SeasonID: season.ID, Year: 2025})

	var partial *commit.PartialError
	if !errors.As(err, &partial) {
		t.Fatalf("expected PartialError, got %v", err)
	}
	if partial.Entity != commit.EntityPlayer || partial.Index != 1 || partial.Label != "Ryan Williams" || partial.RolledBack {
		t.Fatalf("unexpected partial error %+v", partial)
	}
	want := commit.Outcome{GamesAdded: 2, PlayersAdded: 1}
	if outcome != want || partial.Completed != want {
		t.Fatalf("expected %+v kept, got outcome %+v completed %+v", want, outcome, partial.Completed)
	}

	counts, err := st.CountsForDynasty(ctx, dynasty.ID)
	if err != nil {
		t.Fatalf("CountsForDynasty: %v", err)
	}
	if counts.Games != 2 || counts.Players != 1 || counts.DraftPicks != 0 {
		t.Fatalf("expected earlier writes kept, got %+v", counts)
	}
}

func TestCommitTransactionalRollsBack(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	dynasty, season := testsupport.NewSeason(t, st, "Alabama", 2025)
	ctx := context.Background()

	engine := commit.NewEngine(nil, commit.WithTransactional(true))
	if !engine.Transactional() {
		t.Fatalf("expected transactional engine")
	}
	diff := sampleDiff()
	// An unknown result code trips the games CHECK constraint inside the transaction.
	diff.GamesToAdd = append(diff.GamesToAdd, reconcile.MappedGame{Week: 3, Opponent: "LSU", IsHome: true, Result: "X", GameType: reconcile.GameTypeRegular})

	outcome, err := engine.Commit(ctx, st, diff, commit.Target{DynastyID: dynasty.ID, SeasonID: season.ID, Year: 2025})
	var partial *commit.PartialError
	if !errors.As(err, &partial) {
		t.Fatalf("expected PartialError, got %v", err)
	}
	if !partial.RolledBack || partial.Entity != commit.EntityGame || partial.Index != 2 {
		t.Fatalf("unexpected partial error %+v", partial)
	}
	if outcome.Total() != 0 || partial.Completed.Total() != 0 {
		t.Fatalf("expected zero outcome after rollback, got %+v", outcome)
	}

	counts, err := st.CountsForDynasty(ctx, dynasty.ID)
	if err != nil {
		t.Fatalf("CountsForDynasty: %v", err)
	}
	if counts.Games != 0 || counts.Players != 0 {
		t.Fatalf("expected nothing persisted, got %+v", counts)
	}
}

func TestCommitTransactionalSuccess(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	dynasty, season := testsupport.NewSeason(t, st, "Alabama", 2025)

	outcome, err := commit.NewEngine(nil, commit.WithTransactional(true)).Commit(context.Background(), st, sampleDiff(),
		commit.Target{DynastyID: dynasty.ID, SeasonID: season.ID, Year: 2025})
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if outcome.Total() != 6 {
		t.Fatalf("expected 6 records, got %+v", outcome)
	}
}

func TestPartialErrorMessage(t *testing.T) {
	err := &commit.PartialError{Entity: commit.EntityDraftPick, Index: 0, Label: "round 1 pick 7", Completed: commit.Outcome{GamesAdded: 3}, Err: errors.New("boom")}
	want := "commit stopped at draft_pick 1 (round 1 pick 7), 3 records kept: boom"
	if err.Error() != want {
		t.Fatalf("expected %q, got %q", want, err.Error())
	}
	err.RolledBack = true
	if got := err.Error(); got != "commit stopped at draft_pick 1 (round 1 pick 7), rolled back: boom" {
		t.Fatalf("unexpected rolled back message %q", got)
	}
}
