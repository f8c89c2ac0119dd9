package match

import "time"

const (
	CompetitionSerieA       = "Serie A"
	CompetitionCopaDoBrasil = "Copa do Brasil"
	CompetitionLibertadores = "Libertadores"
)

// Record is one finished (or scheduled) fixture as harvested from the
// provider. Goals and expected goals stay nil when the provider omits them.
type Record struct {
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
	// City is the venue city, optionally suffixed "-XX" with the state
	// code, e.g. "Belo Horizonte-MG".
	City string
}
