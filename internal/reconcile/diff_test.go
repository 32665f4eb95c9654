package reconcile_test

import (
	"testing"

	"dynastysync/internal/reconcile"
	"dynastysync/internal/savefile"
	"dynastysync/internal/sidecar"
	"dynastysync/internal/store"
)

func intp(v int) *int       { return &v }
func strp(v string) *string { return &v }

func game(week *int, home, away string, homeScore, awayScore *int, kind *string) savefile.RawGame {
	return savefile.RawGame{Week: week, HomeTeam: strp(home), AwayTeam: strp(away), HomeScore: homeScore, AwayScore: awayScore, RawGameType: kind}
}

func TestComputeDiffGames(t *testing.T) {
	extraction := savefile.ExtractionResult{
		DetectedYear: 2025,
		Games: []savefile.RawGame{
			game(intp(1), "Alabama Crimson Tide", "Florida State", intp(17), intp(24), nil),
			game(intp(2), "Wisconsin", "ALABAMA", intp(10), intp(42), strp("Regular Season")),
			game(intp(3), "Alabama", "Georgia", intp(21), intp(21), strp("SEC Championship Bowl")),
			game(nil, "Alabama", "LSU", intp(1), intp(0), nil),
			game(intp(5), "Alabama", "Auburn", nil, intp(0), nil),
			game(intp(6), "Alabama", "Vanderbilt", intp(30), nil, nil),
			game(intp(7), "Oregon", "Ohio State", intp(30), intp(20), nil),
			game(intp(8), "Alabama", "Tennessee", intp(35), intp(3), nil),
		},
	}
	existing := reconcile.Existing{Games: []*store.Game{{Week: 8, Opponent: "Somebody Else"}}}

	diff := reconcile.ComputeDiff(extraction, existing, "Alabama")

	if len(diff.GamesToAdd) != 3 {
		t.Fatalf("expected 3 games, got %d: %+v", len(diff.GamesToAdd), diff.GamesToAdd)
	}
	if diff.GamesSkippedCount != 5 {
		t.Fatalf("expected 5 skipped, got %d", diff.GamesSkippedCount)
	}
	if diff.DetectedYear != 2025 {
		t.Fatalf("detected year %d", diff.DetectedYear)
	}

	first := diff.GamesToAdd[0]
	if !first.IsHome || first.IsAway || first.Opponent != "Florida State" || first.Result != reconcile.ResultLoss {
		t.Fatalf("unexpected week 1 mapping %+v", first)
	}
	if first.OurScore != 17 || first.OpponentScore != 24 || first.GameType != reconcile.GameTypeRegular {
		t.Fatalf("unexpected week 1 scores %+v", first)
	}
	second := diff.GamesToAdd[1]
	if second.IsHome || !second.IsAway || second.Opponent != "Wisconsin" || second.OurScore != 42 || second.Result != reconcile.ResultWin {
		t.Fatalf("unexpected week 2 mapping %+v", second)
	}
	third := diff.GamesToAdd[2]
	if third.Result != reconcile.ResultTie || third.GameType != reconcile.GameTypePlayoff {
		t.Fatalf("unexpected week 3 mapping %+v", third)
	}
	if third.Location() != store.LocationHome || second.Location() != store.LocationAway {
		t.Fatalf("unexpected locations %q %q", third.Location(), second.Location())
	}
}

func TestComputeDiffTeamSideResolution(t *testing.T) {
	extraction := savefile.ExtractionResult{Games: []savefile.RawGame{
		game(intp(1), "Alabama Crimson Tide", "Kent State", intp(50), intp(7), nil),
	}}
	diff := reconcile.ComputeDiff(extraction, reconcile.Existing{}, "Alabama")
	if len(diff.GamesToAdd) != 1 || !diff.GamesToAdd[0].IsHome {
		t.Fatalf("expected home resolution, got %+v", diff.GamesToAdd)
	}

	diff = reconcile.ComputeDiff(extraction, reconcile.Existing{}, "Michigan")
	if len(diff.GamesToAdd) != 0 || diff.GamesSkippedCount != 1 {
		t.Fatalf("expected unidentifiable game to be skipped, got %+v", diff)
	}
}

func TestComputeDiffPrefersExactSideWhenBothContain(t *testing.T) {
	extraction := savefile.ExtractionResult{Games: []savefile.RawGame{
		game(intp(9), "Texas A&M", "Texas", intp(17), intp(7), nil),
	}}
	diff := reconcile.ComputeDiff(extraction, reconcile.Existing{}, "Texas")
	if len(diff.GamesToAdd) != 1 {
		t.Fatalf("expected one game, got %+v", diff)
	}
	if g := diff.GamesToAdd[0]; g.IsHome || g.Opponent != "Texas A&M" || g.Result != reconcile.ResultLoss {
		t.Fatalf("expected exact away match, got %+v", g)
	}
}

func TestComputeDiffIsIdempotentAfterCommit(t *testing.T) {
	extraction := savefile.ExtractionResult{Games: []savefile.RawGame{
		game(intp(1), "Alabama", "A", intp(1), intp(0), nil),
		game(intp(2), "B", "Alabama", intp(1), intp(0), nil),
		game(nil, "Alabama", "C", intp(1), intp(0), nil),
	}}
	first := reconcile.ComputeDiff(extraction, reconcile.Existing{}, "Alabama")

	var persisted []*store.Game
	for _, g := range first.GamesToAdd {
		persisted = append(persisted, &store.Game{Week: g.Week, Opponent: g.Opponent})
	}
	second := reconcile.ComputeDiff(extraction, reconcile.Existing{Games: persisted}, "Alabama")

	if len(second.GamesToAdd) != 0 {
		t.Fatalf("expected nothing new, got %+v", second.GamesToAdd)
	}
	if want := len(first.GamesToAdd) + first.GamesSkippedCount; second.GamesSkippedCount != want {
		t.Fatalf("skipped = %d, want %d", second.GamesSkippedCount, want)
	}
}

func TestCanonicalGameType(t *testing.T) {
	tests := []struct {
		raw  string
		want reconcile.GameType
	}{
		{"SEC Championship Bowl", reconcile.GameTypePlayoff},
		{"Preseason Week 3", reconcile.GameTypeExhibition},
		{"", reconcile.GameTypeRegular},
		{"College Football Playoff", reconcile.GameTypePlayoff},
		{"Postseason", reconcile.GameTypePlayoff},
		{"Super Regional", reconcile.GameTypePlayoff},
		{"Spring Exhibition", reconcile.GameTypeExhibition},
		{"Conference", reconcile.GameTypeRegular},
	}
	for _, tt := range tests {
		if got := reconcile.CanonicalGameType(tt.raw); got != tt.want {
			t.Errorf("CanonicalGameType(%q) = %s, want %s", tt.raw, got, tt.want)
		}
	}

	extraction := savefile.ExtractionResult{Games: []savefile.RawGame{
		game(intp(1), "Alabama", "X", intp(1), intp(0), nil),
	}}
	diff := reconcile.ComputeDiff(extraction, reconcile.Existing{}, "Alabama")
	if diff.GamesToAdd[0].GameType != reconcile.GameTypeRegular {
		t.Fatalf("nil raw type should be Regular, got %s", diff.GamesToAdd[0].GameType)
	}
}

func TestComputeDiffPlayers(t *testing.T) {
	extraction := savefile.ExtractionResult{Players: []savefile.RawPlayer{
		{Name: strp("Jalen Milroe"), Overall: intp(84)},
		{Name: strp("RYAN WILLIAMS")},
		{Name: nil},
		{Name: strp("Kadyn Proctor"), Position: strp("LT")},
		{Name: strp("   ")},
	}}
	existing := reconcile.Existing{Players: []*store.Player{
		{FirstName: "Ryan", LastName: "Williams", Position: "QB", JerseyNumber: intp(99)},
	}}

	diff := reconcile.ComputeDiff(extraction, existing, "Alabama")
	if len(diff.PlayersToAdd) != 2 {
		t.Fatalf("expected 2 players, got %+v", diff.PlayersToAdd)
	}
	if *diff.PlayersToAdd[0].Name != "Jalen Milroe" || *diff.PlayersToAdd[1].Name != "Kadyn Proctor" {
		t.Fatalf("order not preserved: %+v", diff.PlayersToAdd)
	}
	if diff.PlayersSkippedCount != 3 {
		t.Fatalf("expected 3 skipped, got %d", diff.PlayersSkippedCount)
	}
}

func TestComputeDiffDraftPicks(t *testing.T) {
	extraction := savefile.ExtractionResult{DraftPicks: []savefile.RawDraftPick{
		{Round: nil, Pick: nil, Team: strp("Dallas")},
		{Round: nil, Pick: intp(3)},
		{Round: intp(2), Pick: nil},
		{Round: intp(1), Pick: intp(12), Team: strp("Denver")},
	}}
	diff := reconcile.ComputeDiff(extraction, reconcile.Existing{}, "Alabama")
	if len(diff.DraftPicksToAdd) != 3 || diff.DraftPicksSkippedCount != 1 {
		t.Fatalf("unexpected picks %+v skipped=%d", diff.DraftPicksToAdd, diff.DraftPicksSkippedCount)
	}
	if *diff.DraftPicksToAdd[0].Pick != 3 {
		t.Fatalf("order not preserved: %+v", diff.DraftPicksToAdd)
	}
}

func TestComputeDiffFailedExtraction(t *testing.T) {
	extraction := savefile.ExtractionResult{
		Games:   []savefile.RawGame{game(intp(1), "Alabama", "X", intp(1), intp(0), nil)},
		Failure: &sidecar.Failure{Kind: sidecar.KindParse, Message: "bad"},
	}
	if diff := reconcile.ComputeDiff(extraction, reconcile.Existing{}, "Alabama"); !diff.Empty() {
		t.Fatalf("expected empty diff, got %+v", diff)
	}
}
