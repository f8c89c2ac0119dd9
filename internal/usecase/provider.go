package usecase

import (
	"context"
	"time"
)

// MatchDataProvider is the outbound sports-data API seen from the harvest
// flow. Implementations live under external/.
type MatchDataProvider interface {
	FetchFixtures(ctx context.Context, leagueID, season int) ([]ExternalFixture, error)
	FetchFixturePlayers(ctx context.Context, fixtureID int64) ([]ExternalPlayerLine, error)
}

// ExternalFixture is one fixture as returned by the provider, before it is
// mapped onto a stored match record.
type ExternalFixture struct {
	ID        int64
	Date      time.Time
	Season    int
	Round     string
	HomeTeam  string
	AwayTeam  string
	HomeGoals *int
	AwayGoals *int
	HomeXG    *float64
	AwayXG    *float64
	City      string
}

// ExternalPlayerLine is one player's box-score line from the provider.
type ExternalPlayerLine struct {
	FixtureID int64
	PlayerID  int64
	Team      string
	Goals     int
	Assists   int
}
