package savefile

import (
	"encoding/json"

	"dynastysync/internal/sidecar"
)

// ValidationVerdict is the compatibility answer for one save file.
type ValidationVerdict struct {
	IsValid bool `json:"isValid"`
	// DetectedVersion is a display label such as "College Football 25", or
	// empty when the tool could not tell.
	DetectedVersion   string           `json:"detectedVersion,omitempty"`
	GameYear          int              `json:"gameYear,omitempty"`
	IsSupported       bool             `json:"isSupported"`
	UnsupportedReason string           `json:"unsupportedReason,omitempty"`
	Failure           *sidecar.Failure `json:"failure,omitempty"`
}

// Ready reports whether the save can move on to extraction.
func (v ValidationVerdict) Ready() bool {
	return v.Failure == nil && v.IsValid && v.IsSupported
}

// Unsupported reports the soft-incompatibility path: a readable save from a
// game version the tool cannot extract. It is not an error.
func (v ValidationVerdict) Unsupported() bool {
	return v.Failure == nil && v.IsValid && !v.IsSupported
}

// RawGame is one game row as the tool reports it. Any field may be missing.
type RawGame struct {
	Week        *int    `json:"week"`
	HomeTeam    *string `json:"homeTeam"`
	AwayTeam    *string `json:"awayTeam"`
	HomeScore   *int    `json:"homeScore"`
	AwayScore   *int    `json:"awayScore"`
	RawGameType *string `json:"gameType"`
}

// UnmarshalJSON accepts the game type under either "gameType" or "rawGameType".
func (g *RawGame) UnmarshalJSON(data []byte) error {
	type plain RawGame
	var aux struct {
		plain
		AltGameType *string `json:"rawGameType"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*g = RawGame(aux.plain)
	if g.RawGameType == nil {
		g.RawGameType = aux.AltGameType
	}
	return nil
}

// RawPlayer is one roster entry as the tool reports it.
type RawPlayer struct {
	Name         *string `json:"name"`
	Position     *string `json:"position"`
	Overall      *int    `json:"overall"`
	Age          *int    `json:"age"`
	JerseyNumber *int    `json:"jerseyNumber"`
}

// RawDraftPick is one draft selection as the tool reports it.
type RawDraftPick struct {
	Round *int    `json:"round"`
	Pick  *int    `json:"pick"`
	Team  *string `json:"team"`
}

// ExtractionResult holds everything one extract call produced. When Failure
// is set the slices are empty and there is nothing to reconcile.
type ExtractionResult struct {
	// DetectedYear is the in-game season year, or zero when unknown.
	DetectedYear int              `json:"detectedYear,omitempty"`
	Games        []RawGame        `json:"games"`
	Players      []RawPlayer      `json:"players"`
	DraftPicks   []RawDraftPick   `json:"draftPicks"`
	Failure      *sidecar.Failure `json:"failure,omitempty"`
}

// Failed reports whether extraction produced nothing usable.
func (r ExtractionResult) Failed() bool {
	return r.Failure != nil
}
