package reconcile

import (
	"dynastysync/internal/savefile"
	"dynastysync/internal/store"
)

// Result is a game outcome from the dynasty's point of view.
type Result string

const (
	ResultWin  Result = "W"
	ResultLoss Result = "L"
	ResultTie  Result = "T"
)

// GameType is the canonical category of a game.
type GameType string

const (
	GameTypeRegular    GameType = "Regular"
	GameTypePlayoff    GameType = "Playoff"
	GameTypeExhibition GameType = "Exhibition"
)

// MappedGame is an extracted game resolved to the dynasty's perspective. It
// only exists when week, both scores and the dynasty's side are known.
type MappedGame struct {
	Week          int      `json:"week"`
	Opponent      string   `json:"opponent"`
	IsHome        bool     `json:"isHome"`
	IsAway        bool     `json:"isAway"`
	IsNeutral     bool     `json:"isNeutral"`
	OurScore      int      `json:"ourScore"`
	OpponentScore int      `json:"opponentScore"`
	Result        Result   `json:"result"`
	GameType      GameType `json:"gameType"`
}

// Location returns the store location value for the game.
func (g MappedGame) Location() string {
	switch {
	case g.IsNeutral:
		return store.LocationNeutral
	case g.IsHome:
		return store.LocationHome
	default:
		return store.LocationAway
	}
}

// Existing is the persisted state a diff is computed against.
type Existing struct {
	// Games recorded for the target season.
	Games []*store.Game
	// Players recorded for the dynasty.
	Players []*store.Player
	// PlayerSeasons recorded for the dynasty. Matching does not consult them
	// today; they are carried so callers load the full reconciliation input.
	PlayerSeasons []*store.PlayerSeason
}

// SyncDiff is the set of new records one extraction would add. It is
// consumed once by the commit engine or discarded.
type SyncDiff struct {
	GamesToAdd             []MappedGame            `json:"gamesToAdd"`
	GamesSkippedCount      int                     `json:"gamesSkippedCount"`
	PlayersToAdd           []savefile.RawPlayer    `json:"playersToAdd"`
	PlayersSkippedCount    int                     `json:"playersSkippedCount"`
	DraftPicksToAdd        []savefile.RawDraftPick `json:"draftPicksToAdd"`
	DraftPicksSkippedCount int                     `json:"draftPicksSkippedCount"`
	// DetectedYear is the extraction's season year, or zero when unknown.
	DetectedYear int `json:"detectedYear,omitempty"`
}

// Empty reports whether the diff adds nothing.
func (d SyncDiff) Empty() bool {
	return len(d.GamesToAdd) == 0 && len(d.PlayersToAdd) == 0 && len(d.DraftPicksToAdd) == 0
}

// Additions returns the number of records the diff would create, excluding
// player season shells.
func (d SyncDiff) Additions() int {
	return len(d.GamesToAdd) + len(d.PlayersToAdd) + len(d.DraftPicksToAdd)
}
