package store

import "time"

// Dynasty is one long-running save career the user tracks.
type Dynasty struct {
	ID        int64
	Name      string
	TeamName  string
	Sport     string
	StartYear int
	CreatedAt time.Time
}

// Season is one year of a dynasty.
type Season struct {
	ID        int64
	DynastyID int64
	Year      int
	CreatedAt time.Time
}

// Location values for Game.Location.
const (
	LocationHome    = "home"
	LocationAway    = "away"
	LocationNeutral = "neutral"
)

// PlayerStatusActive is the status assigned to imported players.
const PlayerStatusActive = "active"

// Game is a recorded result within a season.
type Game struct {
	ID            int64
	SeasonID      int64
	DynastyID     int64
	Week          int
	Opponent      string
	Location      string
	OurScore      int
	OpponentScore int
	Result        string
	GameType      string
	CreatedAt     time.Time
}

// NewGame carries the attributes for CreateGame.
type NewGame struct {
	SeasonID      int64
	DynastyID     int64
	Week          int
	Opponent      string
	Location      string
	OurScore      int
	OpponentScore int
	Result        string
	GameType      string
}

// Player is a roster member of a dynasty.
type Player struct {
	ID           int64
	DynastyID    int64
	FirstName    string
	LastName     string
	Position     string
	JerseyNumber *int
	Status       string
	CreatedAt    time.Time
}

// NewPlayer carries the attributes for CreatePlayer.
type NewPlayer struct {
	DynastyID    int64
	FirstName    string
	LastName     string
	Position     string
	JerseyNumber *int
	Status       string
}

// PlayerSeason holds one player's stats for one year.
type PlayerSeason struct {
	ID        int64
	PlayerID  int64
	DynastyID int64
	Year      int
	Stats     map[string]int
	CreatedAt time.Time
}

// NewPlayerSeason carries the attributes for CreatePlayerSeason.
type NewPlayerSeason struct {
	PlayerID  int64
	DynastyID int64
	Year      int
	Stats     map[string]int
}

// DraftPick is a player selected in the pro draft out of the dynasty's program.
type DraftPick struct {
	ID         int64
	DynastyID  int64
	SeasonID   int64
	Year       int
	Round      int
	PickNumber string
	NFLTeam    string
	PlayerName string
	CreatedAt  time.Time
}

// NewDraftPick carries the attributes for CreateDraftPick.
type NewDraftPick struct {
	DynastyID  int64
	SeasonID   int64
	Year       int
	Round      int
	PickNumber string
	NFLTeam    string
	PlayerName string
}

// Counts summarizes what a dynasty holds, for status output.
type Counts struct {
	Seasons       int
	Games         int
	Players       int
	PlayerSeasons int
	DraftPicks    int
}
