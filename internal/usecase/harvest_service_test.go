package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/futalytics/brasileirao-features/internal/infrastructure/repository/memory"
)

type stubHarvestProvider struct {
	fixturesByLeague map[int][]ExternalFixture
	playersByFixture map[int64][]ExternalPlayerLine
	fixtureCalls     int
	playerCalls      int
}

func (p *stubHarvestProvider) FetchFixtures(_ context.Context, leagueID, _ int) ([]ExternalFixture, error) {
	p.fixtureCalls++
	return p.fixturesByLeague[leagueID], nil
}

func (p *stubHarvestProvider) FetchFixturePlayers(_ context.Context, fixtureID int64) ([]ExternalPlayerLine, error) {
	p.playerCalls++
	return p.playersByFixture[fixtureID], nil
}

func newHarvestFixtures() *stubHarvestProvider {
	date := time.Date(2024, 4, 14, 16, 0, 0, 0, time.UTC)
	return &stubHarvestProvider{
		fixturesByLeague: map[int][]ExternalFixture{
			71: {
				{ID: 1001, Date: date, Season: 2024, Round: "Regular Season - 1", HomeTeam: "Flamengo", AwayTeam: "Palmeiras", City: "Rio de Janeiro-RJ"},
				{ID: 1002, Date: date.AddDate(0, 0, 1), Season: 2024, Round: "Regular Season - 1", HomeTeam: "Santos", AwayTeam: "Grêmio", City: "Santos-SP"},
			},
			75: {
				// First qualifying phase, dropped regardless of the sides.
				{ID: 2001, Date: date, Season: 2024, Round: "1st Round", HomeTeam: "Flamengo", AwayTeam: "Ypiranga"},
				{ID: 2002, Date: date, Season: 2024, Round: "3rd Round", HomeTeam: "Corinthians", AwayTeam: "Remo"},
				{ID: 2003, Date: date, Season: 2024, Round: "Round of 16", HomeTeam: "Sampaio Corrêa", AwayTeam: "Paysandu"},
			},
			13: {
				{ID: 3001, Date: date, Season: 2024, Round: "Group Stage - 1", HomeTeam: "Atlético PR", AwayTeam: "Peñarol"},
				{ID: 3002, Date: date, Season: 2024, Round: "Group Stage - 1", HomeTeam: "River Plate", AwayTeam: "Nacional"},
			},
		},
		playersByFixture: map[int64][]ExternalPlayerLine{
			1001: {
				{FixtureID: 1001, PlayerID: 777, Team: "Flamengo", Goals: 2, Assists: 1},
				{FixtureID: 1001, PlayerID: 888, Team: "Palmeiras", Goals: 0, Assists: 0},
			},
		},
	}
}

func newHarvestService(provider MatchDataProvider, cfg HarvestConfig) (*HarvestService, *memory.MatchRepository, *memory.PlayerStatRepository, *memory.TeamInfoRepository) {
	matches := memory.NewMatchRepository(nil)
	playerStats := memory.NewPlayerStatRepository(matches, nil)
	teamInfos := memory.NewTeamInfoRepository(nil)
	return NewHarvestService(provider, matches, playerStats, teamInfos, memory.NewQuotaRepository(), cfg, nil),
		matches, playerStats, teamInfos
}

func TestHarvestService_Harvest_FiltersAndStores(t *testing.T) {
	t.Parallel()

	provider := newHarvestFixtures()
	svc, matches, _, teamInfos := newHarvestService(provider, HarvestConfig{})

	result, err := svc.Harvest(context.Background(), HarvestInput{StartSeason: 2024, EndSeason: 2024})
	if err != nil {
		t.Fatalf("Harvest error: %v", err)
	}

	if len(result.Seasons) != 1 {
		t.Fatalf("expected 1 season summary, got=%d", len(result.Seasons))
	}
	season := result.Seasons[0]
	// Both top-flight fixtures, the third-phase cup tie with a top-flight
	// side, and the aliased Athletico continental fixture survive.
	if season.InsertedMatches != 4 {
		t.Fatalf("expected 4 inserted matches, got=%d", season.InsertedMatches)
	}
	if result.HarvestID == "" {
		t.Fatal("expected a harvest id")
	}
	if result.RequestsUsed != 3 {
		t.Fatalf("expected 3 requests used, got=%d", result.RequestsUsed)
	}
	if result.RequestsRemaining != 97 {
		t.Fatalf("expected 97 requests remaining, got=%d", result.RequestsRemaining)
	}

	stored, err := matches.ListAll(context.Background())
	if err != nil {
		t.Fatalf("ListAll error: %v", err)
	}
	ids := make(map[int64]bool, len(stored))
	for _, r := range stored {
		ids[r.ID] = true
	}
	for _, want := range []int64{1001, 1002, 2002, 3001} {
		if !ids[want] {
			t.Fatalf("expected match %d to be stored, stored=%v", want, ids)
		}
	}
	for _, dropped := range []int64{2001, 2003, 3002} {
		if ids[dropped] {
			t.Fatalf("expected match %d to be filtered out", dropped)
		}
	}

	infos, err := teamInfos.ListAll(context.Background())
	if err != nil {
		t.Fatalf("ListAll team infos error: %v", err)
	}
	if len(infos) == 0 {
		t.Fatal("expected known teams to be seeded")
	}
}

func TestHarvestService_Harvest_SkipsStoredMatches(t *testing.T) {
	t.Parallel()

	provider := newHarvestFixtures()
	svc, _, _, _ := newHarvestService(provider, HarvestConfig{})

	if _, err := svc.Harvest(context.Background(), HarvestInput{StartSeason: 2024, EndSeason: 2024}); err != nil {
		t.Fatalf("first Harvest error: %v", err)
	}
	result, err := svc.Harvest(context.Background(), HarvestInput{StartSeason: 2024, EndSeason: 2024})
	if err != nil {
		t.Fatalf("second Harvest error: %v", err)
	}

	season := result.Seasons[0]
	if season.InsertedMatches != 0 {
		t.Fatalf("expected 0 inserted matches on rerun, got=%d", season.InsertedMatches)
	}
	if season.SkippedExisting != 4 {
		t.Fatalf("expected 4 skipped matches on rerun, got=%d", season.SkippedExisting)
	}
}

func TestHarvestService_Harvest_PlayerStats(t *testing.T) {
	t.Parallel()

	provider := newHarvestFixtures()
	svc, _, playerStats, _ := newHarvestService(provider, HarvestConfig{})

	result, err := svc.Harvest(context.Background(), HarvestInput{StartSeason: 2024, EndSeason: 2024, IncludePlayerStats: true})
	if err != nil {
		t.Fatalf("Harvest error: %v", err)
	}

	season := result.Seasons[0]
	if season.SavedPlayerStats != 2 {
		t.Fatalf("expected 2 saved player stat lines, got=%d", season.SavedPlayerStats)
	}
	// 3 fixture-list requests plus one per kept fixture.
	if result.RequestsUsed != 7 {
		t.Fatalf("expected 7 requests used, got=%d", result.RequestsUsed)
	}

	has, err := playerStats.HasMatch(context.Background(), 1001)
	if err != nil {
		t.Fatalf("HasMatch error: %v", err)
	}
	if !has {
		t.Fatal("expected stats for fixture 1001 to be stored")
	}
}

func TestHarvestService_Harvest_QuotaStopsEarly(t *testing.T) {
	t.Parallel()

	provider := newHarvestFixtures()
	svc, matches, _, _ := newHarvestService(provider, HarvestConfig{DailyQuota: 2})

	result, err := svc.Harvest(context.Background(), HarvestInput{StartSeason: 2024, EndSeason: 2024})
	if err != nil {
		t.Fatalf("Harvest error: %v", err)
	}

	// The third fixture list would need a third request.
	if len(result.Seasons) != 0 {
		t.Fatalf("expected no completed seasons, got=%d", len(result.Seasons))
	}
	if result.RequestsUsed != 2 {
		t.Fatalf("expected 2 requests used, got=%d", result.RequestsUsed)
	}
	if result.RequestsRemaining != 0 {
		t.Fatalf("expected 0 requests remaining, got=%d", result.RequestsRemaining)
	}
	if provider.fixtureCalls != 2 {
		t.Fatalf("expected 2 fixture list calls, got=%d", provider.fixtureCalls)
	}

	// Matches from the leagues fetched before exhaustion stay committed.
	stored, err := matches.ListAll(context.Background())
	if err != nil {
		t.Fatalf("ListAll error: %v", err)
	}
	if len(stored) != 3 {
		t.Fatalf("expected 3 committed matches, got=%d", len(stored))
	}
}

func TestHarvestService_Harvest_InvalidSeasonRange(t *testing.T) {
	t.Parallel()

	svc, _, _, _ := newHarvestService(&stubHarvestProvider{}, HarvestConfig{})

	cases := []HarvestInput{
		{StartSeason: 0, EndSeason: 2024},
		{StartSeason: 2024, EndSeason: 2023},
	}
	for _, input := range cases {
		if _, err := svc.Harvest(context.Background(), input); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput for %+v, got=%v", input, err)
		}
	}
}

func TestAllowedCopaRound(t *testing.T) {
	t.Parallel()

	cases := []struct {
		round string
		want  bool
	}{
		{"1st Round", false},
		{"2nd Round", false},
		{"3rd Round", true},
		{"Round of 32", true},
		{"Round of 16", true},
		{"Quarter-finals", true},
		{"Semi-finals", true},
		{"Final", true},
		{"Preliminary", false},
	}
	for _, tc := range cases {
		if got := allowedCopaRound(tc.round); got != tc.want {
			t.Fatalf("allowedCopaRound(%q)=%v want=%v", tc.round, got, tc.want)
		}
	}
}

func TestIsTopFlightTeam_Aliases(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"Athletico-PR", "Atlético PR", "Atletico Paranaense", "Bragantino", "Red Bull Bragantino"} {
		if !isTopFlightTeam(name) {
			t.Fatalf("expected %q to resolve to a top-flight side", name)
		}
	}
	for _, name := range []string{"Peñarol", "River Plate", "Remo"} {
		if isTopFlightTeam(name) {
			t.Fatalf("expected %q to be unknown", name)
		}
	}
}
