// Package feature derives model-ready predictive columns from a batch of
// historical matches: travel distance, rest days, rolling recent form, key
// players and a standings-proximity importance score. Every stage is a pure
// function over its inputs; aggregate values for a match only ever look at
// matches played strictly before it.
package feature

import "time"

// Match is one historical fixture. Goals and expected goals are nullable
// because upstream providers frequently omit them for older seasons.
type Match struct {
	ID          int64
	Date        time.Time
	Competition string
	Season      int
	Round       string
	HomeTeam    string
	AwayTeam    string
	HomeGoals   *int
	AwayGoals   *int
	HomeXG      *float64
	AwayXG      *float64
	// City is free text, optionally suffixed "-XX" with the state code.
	City string
}

// PlayerStat is one player's output in one match.
type PlayerStat struct {
	MatchID  int64
	PlayerID int64
	Team     string
	Goals    int
	Assists  int
}

// StandingsRow is a league-table snapshot line as of a given round.
type StandingsRow struct {
	Round    int
	Team     string
	Position int
	Points   int
}

// TeamCoordinate overrides the built-in home location for a team.
type TeamCoordinate struct {
	Name string
	City string
	Lat  float64
	Lon  float64
}

// KeyPlayer is one entry of a ranked recent-form player list.
type KeyPlayer struct {
	PlayerID int64 `json:"player_id"`
	Goals    int   `json:"goals"`
	Assists  int   `json:"assists"`
	Score    int   `json:"score"`
}

// RollingMetrics are trailing-window means from one side's perspective.
// A nil field means the team had no usable prior observations.
type RollingMetrics struct {
	GoalsFor     *float64
	GoalsAgainst *float64
	XGFor        *float64
	XGAgainst    *float64
}

// Features holds every derived column for one match. Nil means the value
// could not be derived for that row, never that the stage failed.
type Features struct {
	TravelKmHome   *float64
	TravelKmAway   *float64
	RestDaysHome   *int
	RestDaysAway   *int
	RollingHome    RollingMetrics
	RollingAway    RollingMetrics
	KeyPlayersHome []KeyPlayer
	KeyPlayersAway []KeyPlayer
	ImportanceHome *float64
	ImportanceAway *float64
}

// Row is a match together with its derived features.
type Row struct {
	Match
	Features
}

// Config tunes the windowed stages.
type Config struct {
	// Window is the trailing match count for rolling stats and key players.
	Window int
	// TopN caps each key-player list.
	TopN int
	// HighRoundThreshold is the round from which the importance stage
	// factor doubles.
	HighRoundThreshold int
	// G4Cutoff and Z4Cutoff are the qualification and relegation ranks.
	G4Cutoff int
	Z4Cutoff int
}

// DefaultConfig mirrors a 20-team Brazilian league: top four qualify,
// rank 17 opens the relegation zone, round 28 starts the title run-in.
func DefaultConfig() Config {
	return Config{
		Window:             5,
		TopN:               3,
		HighRoundThreshold: 28,
		G4Cutoff:           4,
		Z4Cutoff:           17,
	}
}

// WithDefaults fills unset fields from DefaultConfig.
func (c Config) WithDefaults() Config {
	d := DefaultConfig()
	if c.Window <= 0 {
		c.Window = d.Window
	}
	if c.TopN <= 0 {
		c.TopN = d.TopN
	}
	if c.HighRoundThreshold <= 0 {
		c.HighRoundThreshold = d.HighRoundThreshold
	}
	if c.G4Cutoff <= 0 {
		c.G4Cutoff = d.G4Cutoff
	}
	if c.Z4Cutoff <= 0 {
		c.Z4Cutoff = d.Z4Cutoff
	}
	return c
}

// Inputs bundles the primary match table with the optional auxiliary tables.
// Any auxiliary table may be empty; the matching columns degrade to nil.
type Inputs struct {
	Matches     []Match
	Overrides   []TeamCoordinate
	CityStates  map[string]string
	PlayerStats []PlayerStat
	Standings   []StandingsRow
}

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }
