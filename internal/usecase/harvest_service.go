package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/futalytics/brasileirao-features/internal/domain/match"
	"github.com/futalytics/brasileirao-features/internal/domain/playerstat"
	"github.com/futalytics/brasileirao-features/internal/domain/quota"
	"github.com/futalytics/brasileirao-features/internal/domain/teaminfo"
	"github.com/futalytics/brasileirao-features/internal/feature"
	idgen "github.com/futalytics/brasileirao-features/internal/platform/id"
	"github.com/futalytics/brasileirao-features/internal/platform/logging"
)

// ErrQuotaExhausted stops a harvest once the provider's daily request
// allowance is spent. Work done so far stays committed.
var ErrQuotaExhausted = errors.New("daily request quota exhausted")

// Competition ids at the provider. Copa do Brasil and Libertadores
// fixtures are only kept when a top-flight side is involved.
type HarvestConfig struct {
	SerieALeagueID       int
	CopaDoBrasilLeagueID int
	LibertadoresLeagueID int
	DailyQuota           int
}

func (c HarvestConfig) withDefaults() HarvestConfig {
	if c.SerieALeagueID <= 0 {
		c.SerieALeagueID = 71
	}
	if c.CopaDoBrasilLeagueID <= 0 {
		c.CopaDoBrasilLeagueID = 75
	}
	if c.LibertadoresLeagueID <= 0 {
		c.LibertadoresLeagueID = 13
	}
	if c.DailyQuota <= 0 {
		c.DailyQuota = quota.DefaultDailyLimit
	}
	return c
}

type HarvestInput struct {
	StartSeason        int
	EndSeason          int
	IncludePlayerStats bool
}

type HarvestResult struct {
	// HarvestID tags every log line of one run so overlapping harvests
	// can be told apart.
	HarvestID         string                 `json:"harvest_id"`
	Seasons           []HarvestSeasonSummary `json:"seasons"`
	RequestsUsed      int                    `json:"requests_used"`
	RequestsRemaining int                    `json:"requests_remaining"`
}

type HarvestSeasonSummary struct {
	Season           int                    `json:"season"`
	InsertedMatches  int                    `json:"inserted_matches"`
	SkippedExisting  int                    `json:"skipped_existing"`
	SavedPlayerStats int                    `json:"saved_player_stats"`
	Leagues          []HarvestLeagueSummary `json:"leagues"`
}

type HarvestLeagueSummary struct {
	Competition     string `json:"competition"`
	LeagueID        int    `json:"league_id"`
	Season          int    `json:"season"`
	Fetched         int    `json:"fetched"`
	KeptAfterFilter int    `json:"kept_after_filter"`
	Inserted        int    `json:"inserted"`
}

// HarvestService pulls seasons of fixtures (and optionally player stats)
// from the provider into storage, deduplicating against what is already
// stored and spending the shared daily request quota as it goes.
type HarvestService struct {
	provider    MatchDataProvider
	matches     match.Repository
	playerStats playerstat.Repository
	teamInfos   teaminfo.Repository
	quotas      quota.Repository
	cfg         HarvestConfig
	ids         idgen.Generator
	logger      *logging.Logger
	now         func() time.Time
}

func NewHarvestService(
	provider MatchDataProvider,
	matches match.Repository,
	playerStats playerstat.Repository,
	teamInfos teaminfo.Repository,
	quotas quota.Repository,
	cfg HarvestConfig,
	logger *logging.Logger,
) *HarvestService {
	if logger == nil {
		logger = logging.Default()
	}
	return &HarvestService{
		provider:    provider,
		matches:     matches,
		playerStats: playerStats,
		teamInfos:   teamInfos,
		quotas:      quotas,
		cfg:         cfg.withDefaults(),
		ids:         idgen.NewRandomGenerator(),
		logger:      logger,
		now:         time.Now,
	}
}

// Harvest walks the requested season range in order. A season that trips
// the quota ends the run early with whatever was already stored; the
// result still reports the completed seasons.
func (s *HarvestService) Harvest(ctx context.Context, input HarvestInput) (HarvestResult, error) {
	ctx, span := startUsecaseSpan(ctx, "HarvestService.Harvest")
	defer span.End()

	if input.StartSeason <= 0 || input.EndSeason < input.StartSeason {
		return HarvestResult{}, fmt.Errorf("%w: season range %d..%d", ErrInvalidInput, input.StartSeason, input.EndSeason)
	}

	harvestID, err := s.ids.NewID()
	if err != nil {
		return HarvestResult{}, fmt.Errorf("generate harvest id: %w", err)
	}
	s.logger.InfoContext(ctx, "harvest starting",
		"harvest_id", harvestID,
		"start_season", input.StartSeason,
		"end_season", input.EndSeason,
		"include_player_stats", input.IncludePlayerStats,
	)

	if err := s.seedKnownTeams(ctx); err != nil {
		return HarvestResult{}, fmt.Errorf("seed known teams: %w", err)
	}

	result := HarvestResult{
		HarvestID: harvestID,
		Seasons:   make([]HarvestSeasonSummary, 0, input.EndSeason-input.StartSeason+1),
	}
	for season := input.StartSeason; season <= input.EndSeason; season++ {
		summary, err := s.harvestSeason(ctx, season, input.IncludePlayerStats)
		if err != nil {
			if errors.Is(err, ErrQuotaExhausted) {
				s.logger.WarnContext(ctx, "harvest stopped early", "season", season, "reason", "quota exhausted")
				break
			}
			return HarvestResult{}, fmt.Errorf("harvest season %d: %w", season, err)
		}
		result.Seasons = append(result.Seasons, summary)
	}

	usage, err := s.quotas.Get(ctx, quota.DayKey(s.now()))
	if err != nil {
		return HarvestResult{}, fmt.Errorf("read quota usage: %w", err)
	}
	result.RequestsUsed = usage.Count
	result.RequestsRemaining = usage.Remaining(s.cfg.DailyQuota)
	return result, nil
}

func (s *HarvestService) harvestSeason(ctx context.Context, season int, includePlayerStats bool) (HarvestSeasonSummary, error) {
	summary := HarvestSeasonSummary{Season: season}

	competitions := []struct {
		name     string
		leagueID int
	}{
		{match.CompetitionSerieA, s.cfg.SerieALeagueID},
		{match.CompetitionCopaDoBrasil, s.cfg.CopaDoBrasilLeagueID},
		{match.CompetitionLibertadores, s.cfg.LibertadoresLeagueID},
	}

	for _, competition := range competitions {
		if err := s.consumeQuota(ctx, 1); err != nil {
			return summary, err
		}
		fixtures, err := s.provider.FetchFixtures(ctx, competition.leagueID, season)
		if err != nil {
			return summary, fmt.Errorf("fetch %s fixtures: %w", competition.name, err)
		}

		league := HarvestLeagueSummary{
			Competition: competition.name,
			LeagueID:    competition.leagueID,
			Season:      season,
			Fetched:     len(fixtures),
		}

		ids := make([]int64, 0, len(fixtures))
		for _, f := range fixtures {
			ids = append(ids, f.ID)
		}
		existing, err := s.matches.ExistingIDs(ctx, ids)
		if err != nil {
			return summary, fmt.Errorf("check stored matches: %w", err)
		}

		pending := make([]match.Record, 0, len(fixtures))
		for _, f := range fixtures {
			if !keepFixture(competition.name, f) {
				continue
			}
			_, stored := existing[f.ID]

			statsNeeded := false
			if includePlayerStats {
				has, err := s.playerStats.HasMatch(ctx, f.ID)
				if err != nil {
					return summary, fmt.Errorf("check stored player stats: %w", err)
				}
				statsNeeded = !has
			}
			if stored && !statsNeeded {
				summary.SkippedExisting++
				continue
			}

			league.KeptAfterFilter++
			if !stored {
				pending = append(pending, fixtureToRecord(f, competition.name))
			}

			if statsNeeded {
				saved, err := s.harvestPlayerStats(ctx, f.ID)
				if err != nil {
					if errors.Is(err, ErrQuotaExhausted) {
						// Flush what we have before bailing out.
						if flushErr := s.flushPending(ctx, pending, &league, &summary); flushErr != nil {
							return summary, flushErr
						}
						summary.Leagues = append(summary.Leagues, league)
						return summary, err
					}
					s.logger.WarnContext(ctx, "skip player stats for fixture", "fixture_id", f.ID, "error", err.Error())
					continue
				}
				summary.SavedPlayerStats += saved
			}
		}

		if err := s.flushPending(ctx, pending, &league, &summary); err != nil {
			return summary, err
		}
		summary.Leagues = append(summary.Leagues, league)
	}
	return summary, nil
}

func (s *HarvestService) flushPending(ctx context.Context, pending []match.Record, league *HarvestLeagueSummary, summary *HarvestSeasonSummary) error {
	if len(pending) == 0 {
		return nil
	}
	inserted, err := s.matches.InsertBatch(ctx, pending)
	if err != nil {
		return fmt.Errorf("insert matches: %w", err)
	}
	league.Inserted += inserted
	summary.InsertedMatches += inserted
	return nil
}

func (s *HarvestService) harvestPlayerStats(ctx context.Context, fixtureID int64) (int, error) {
	if err := s.consumeQuota(ctx, 1); err != nil {
		return 0, err
	}
	lines, err := s.provider.FetchFixturePlayers(ctx, fixtureID)
	if err != nil {
		return 0, err
	}
	if len(lines) == 0 {
		return 0, nil
	}

	stats := make([]playerstat.Stat, 0, len(lines))
	for _, line := range lines {
		stats = append(stats, playerstat.Stat{
			MatchID:  line.FixtureID,
			PlayerID: line.PlayerID,
			Team:     line.Team,
			Goals:    line.Goals,
			Assists:  line.Assists,
		})
	}
	return s.playerStats.UpsertBatch(ctx, stats)
}

func (s *HarvestService) consumeQuota(ctx context.Context, n int) error {
	day := quota.DayKey(s.now())
	usage, err := s.quotas.Get(ctx, day)
	if err != nil {
		return fmt.Errorf("read quota: %w", err)
	}
	if usage.Remaining(s.cfg.DailyQuota) < n {
		return ErrQuotaExhausted
	}
	if _, err := s.quotas.Increment(ctx, day, n); err != nil {
		return fmt.Errorf("increment quota: %w", err)
	}
	return nil
}

func (s *HarvestService) seedKnownTeams(ctx context.Context) error {
	infos := make([]teaminfo.Info, 0, len(feature.BuiltinTeamHomeCities))
	for name, city := range feature.BuiltinTeamHomeCities {
		point, ok := feature.BuiltinTeamPoint(name)
		if !ok {
			continue
		}
		infos = append(infos, teaminfo.Info{Name: name, City: city, Lat: point.Lat, Lon: point.Lon})
	}
	_, err := s.teamInfos.UpsertBatch(ctx, infos)
	return err
}

func fixtureToRecord(f ExternalFixture, competition string) match.Record {
	return match.Record{
		ID:          f.ID,
		Date:        f.Date,
		Competition: competition,
		Season:      f.Season,
		Round:       f.Round,
		HomeTeam:    f.HomeTeam,
		AwayTeam:    f.AwayTeam,
		HomeGoals:   f.HomeGoals,
		AwayGoals:   f.AwayGoals,
		HomeXG:      f.HomeXG,
		AwayXG:      f.AwayXG,
		City:        f.City,
	}
}
