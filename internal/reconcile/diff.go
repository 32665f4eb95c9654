package reconcile

import (
	"strings"

	"dynastysync/internal/savefile"
	"dynastysync/internal/textutil"
)

// ComputeDiff compares an extraction with existing records for one season and
// returns the records to add. Output slices keep the extraction's order.
func ComputeDiff(extraction savefile.ExtractionResult, existing Existing, ourTeamName string) SyncDiff {
	diff := SyncDiff{
		GamesToAdd:      []MappedGame{},
		PlayersToAdd:    []savefile.RawPlayer{},
		DraftPicksToAdd: []savefile.RawDraftPick{},
		DetectedYear:    extraction.DetectedYear,
	}
	if extraction.Failed() {
		return diff
	}

	weeks := make(map[int]struct{}, len(existing.Games))
	for _, g := range existing.Games {
		if g != nil {
			weeks[g.Week] = struct{}{}
		}
	}
	for _, raw := range extraction.Games {
		mapped, ok := mapGame(raw, weeks, ourTeamName)
		if !ok {
			diff.GamesSkippedCount++
			continue
		}
		diff.GamesToAdd = append(diff.GamesToAdd, mapped)
	}

	roster := make(map[string]struct{}, len(existing.Players))
	for _, p := range existing.Players {
		if p != nil {
			roster[textutil.Fold(textutil.FullName(p.FirstName, p.LastName))] = struct{}{}
		}
	}
	for _, raw := range extraction.Players {
		if raw.Name == nil || strings.TrimSpace(*raw.Name) == "" {
			diff.PlayersSkippedCount++
			continue
		}
		if _, known := roster[textutil.Fold(*raw.Name)]; known {
			diff.PlayersSkippedCount++
			continue
		}
		diff.PlayersToAdd = append(diff.PlayersToAdd, raw)
	}

	// Picks are not checked against persisted picks, so a re-sync of the same
	// draft class records it again.
	for _, raw := range extraction.DraftPicks {
		if raw.Round == nil && raw.Pick == nil {
			diff.DraftPicksSkippedCount++
			continue
		}
		diff.DraftPicksToAdd = append(diff.DraftPicksToAdd, raw)
	}
	return diff
}

func mapGame(raw savefile.RawGame, weeks map[int]struct{}, ourTeamName string) (MappedGame, bool) {
	if raw.Week == nil || raw.HomeScore == nil || raw.AwayScore == nil {
		return MappedGame{}, false
	}
	if _, taken := weeks[*raw.Week]; taken {
		return MappedGame{}, false
	}

	home, away := deref(raw.HomeTeam), deref(raw.AwayTeam)
	isHome, ok := resolveSide(ourTeamName, home, away)
	if !ok {
		return MappedGame{}, false
	}

	g := MappedGame{Week: *raw.Week, IsHome: isHome, IsAway: !isHome}
	if isHome {
		g.Opponent, g.OurScore, g.OpponentScore = strings.TrimSpace(away), *raw.HomeScore, *raw.AwayScore
	} else {
		g.Opponent, g.OurScore, g.OpponentScore = strings.TrimSpace(home), *raw.AwayScore, *raw.HomeScore
	}
	g.Result = resultFor(g.OurScore, g.OpponentScore)
	g.GameType = CanonicalGameType(deref(raw.RawGameType))
	return g, true
}

// resolveSide reports whether the dynasty is the home team. A side matches
// when either name contains the other, ignoring case. When both sides match,
// an exact name match wins, then home.
func resolveSide(ourTeamName, home, away string) (isHome bool, ok bool) {
	homeMatch := textutil.MutualContains(ourTeamName, home)
	awayMatch := textutil.MutualContains(ourTeamName, away)
	switch {
	case homeMatch && awayMatch:
		if textutil.EqualFold(ourTeamName, away) && !textutil.EqualFold(ourTeamName, home) {
			return false, true
		}
		return true, true
	case homeMatch:
		return true, true
	case awayMatch:
		return false, true
	default:
		return false, false
	}
}

func resultFor(ours, theirs int) Result {
	switch {
	case ours > theirs:
		return ResultWin
	case ours < theirs:
		return ResultLoss
	default:
		return ResultTie
	}
}

// CanonicalGameType maps the tool's free-form game type to a GameType.
// Checks run in priority order: playoff/post, then bowl/super, then
// exhibition/preseason. Anything else, including an empty type, is Regular.
func CanonicalGameType(raw string) GameType {
	t := textutil.Fold(raw)
	switch {
	case strings.Contains(t, "playoff"), strings.Contains(t, "post"):
		return GameTypePlayoff
	case strings.Contains(t, "bowl"), strings.Contains(t, "super"):
		return GameTypePlayoff
	case strings.Contains(t, "exhibition"), strings.Contains(t, "preseason"):
		return GameTypeExhibition
	default:
		return GameTypeRegular
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
