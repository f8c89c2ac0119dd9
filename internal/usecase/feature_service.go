package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/futalytics/brasileirao-features/internal/domain/match"
	"github.com/futalytics/brasileirao-features/internal/domain/playerstat"
	"github.com/futalytics/brasileirao-features/internal/domain/standings"
	"github.com/futalytics/brasileirao-features/internal/domain/teaminfo"
	"github.com/futalytics/brasileirao-features/internal/feature"
	"github.com/futalytics/brasileirao-features/internal/platform/cache"
	"github.com/futalytics/brasileirao-features/internal/platform/logging"
)

type FeatureQuery struct {
	Season int
	// Window and TopN override the configured defaults when positive.
	Window int
	TopN   int
}

type RecomputeInput struct {
	Seasons    []int
	MaxWorkers int
}

type RecomputeResult struct {
	TaskCount    int                  `json:"task_count"`
	SuccessCount int                  `json:"success_count"`
	FailedCount  int                  `json:"failed_count"`
	WorkerCount  int                  `json:"worker_count"`
	Seasons      []RecomputeSeasonRow `json:"seasons"`
}

type RecomputeSeasonRow struct {
	Season     int    `json:"season"`
	Status     string `json:"status"`
	Rows       int    `json:"rows"`
	DurationMs int64  `json:"duration_ms"`
	Message    string `json:"message,omitempty"`
}

const (
	recomputeStatusSuccess = "success"
	recomputeStatusFailed  = "failed"

	defaultRecomputeWorkers = 2
)

// FeatureService computes enriched feature rows over stored seasons.
// Output is cached per (season, window, top_n) when a store is set; a
// nil store disables caching. Stored team coordinates override the
// built-in table.
type FeatureService struct {
	matches     match.Repository
	playerStats playerstat.Repository
	standings   standings.Repository
	teamInfos   teaminfo.Repository
	pipelineCfg feature.Config
	cityStates  map[string]string
	maxWorkers  int
	cache       *cache.Store
	logger      *logging.Logger
}

func NewFeatureService(
	matches match.Repository,
	playerStats playerstat.Repository,
	standingsRepo standings.Repository,
	teamInfos teaminfo.Repository,
	pipelineCfg feature.Config,
	cityStates map[string]string,
	maxWorkers int,
	store *cache.Store,
	logger *logging.Logger,
) *FeatureService {
	if logger == nil {
		logger = logging.Default()
	}
	if maxWorkers <= 0 {
		maxWorkers = defaultRecomputeWorkers
	}
	return &FeatureService{
		matches:     matches,
		playerStats: playerStats,
		standings:   standingsRepo,
		teamInfos:   teamInfos,
		pipelineCfg: pipelineCfg,
		cityStates:  cityStates,
		maxWorkers:  maxWorkers,
		cache:       store,
		logger:      logger,
	}
}

// ComputeSeason returns one feature row per stored match of the season.
func (s *FeatureService) ComputeSeason(ctx context.Context, query FeatureQuery) ([]feature.Row, error) {
	ctx, span := startUsecaseSpan(ctx, "FeatureService.ComputeSeason")
	defer span.End()

	if query.Season <= 0 {
		return nil, fmt.Errorf("%w: season is required", ErrInvalidInput)
	}
	cfg := s.queryConfig(query)

	if s.cache == nil {
		return s.computeSeason(ctx, query.Season, cfg)
	}

	key := fmt.Sprintf("features:season=%d:window=%d:topn=%d", query.Season, cfg.Window, cfg.TopN)
	value, err := s.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		return s.computeSeason(ctx, query.Season, cfg)
	})
	if err != nil {
		return nil, err
	}

	rows, ok := value.([]feature.Row)
	if !ok {
		return nil, fmt.Errorf("unexpected cached value type %T", value)
	}
	return rows, nil
}

// Recompute runs the pipeline for several seasons on a worker pool and
// refreshes the cache with the results.
func (s *FeatureService) Recompute(ctx context.Context, input RecomputeInput) (RecomputeResult, error) {
	ctx, span := startUsecaseSpan(ctx, "FeatureService.Recompute")
	defer span.End()

	if len(input.Seasons) == 0 {
		return RecomputeResult{}, fmt.Errorf("%w: at least one season is required", ErrInvalidInput)
	}
	for _, season := range input.Seasons {
		if season <= 0 {
			return RecomputeResult{}, fmt.Errorf("%w: season %d", ErrInvalidInput, season)
		}
	}

	workerCount := input.MaxWorkers
	if workerCount <= 0 {
		workerCount = s.maxWorkers
	}
	if workerCount > len(input.Seasons) {
		workerCount = len(input.Seasons)
	}

	result := RecomputeResult{
		TaskCount:   len(input.Seasons),
		WorkerCount: workerCount,
		Seasons:     make([]RecomputeSeasonRow, 0, len(input.Seasons)),
	}

	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return RecomputeResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	rowsCh := make(chan RecomputeSeasonRow, len(input.Seasons))
	var successCount atomic.Int32
	var failedCount atomic.Int32

	cfg := s.pipelineCfg.WithDefaults()

	var workers sync.WaitGroup
	for _, season := range input.Seasons {
		season := season
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			start := time.Now()
			row := RecomputeSeasonRow{Season: season}

			rows, computeErr := s.computeSeason(ctx, season, cfg)
			if computeErr != nil {
				row.Status = recomputeStatusFailed
				row.Message = computeErr.Error()
				failedCount.Add(1)
			} else {
				if s.cache != nil {
					key := fmt.Sprintf("features:season=%d:window=%d:topn=%d", season, cfg.Window, cfg.TopN)
					s.cache.Set(ctx, key, rows)
				}
				row.Status = recomputeStatusSuccess
				row.Rows = len(rows)
				successCount.Add(1)
			}
			row.DurationMs = time.Since(start).Milliseconds()
			rowsCh <- row
		}); err != nil {
			workers.Done()
			return RecomputeResult{}, fmt.Errorf("submit season to worker pool: %w", err)
		}
	}

	workers.Wait()
	close(rowsCh)

	for row := range rowsCh {
		result.Seasons = append(result.Seasons, row)
	}
	sort.Slice(result.Seasons, func(i, j int) bool {
		return result.Seasons[i].Season < result.Seasons[j].Season
	})

	result.SuccessCount = int(successCount.Load())
	result.FailedCount = int(failedCount.Load())
	return result, nil
}

func (s *FeatureService) computeSeason(ctx context.Context, season int, cfg feature.Config) ([]feature.Row, error) {
	records, err := s.matches.ListBySeason(ctx, season)
	if err != nil {
		return nil, fmt.Errorf("load matches: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: no stored matches for season %d", ErrNotFound, season)
	}

	stats, err := s.playerStats.ListBySeason(ctx, season)
	if err != nil {
		return nil, fmt.Errorf("load player stats: %w", err)
	}
	table, err := s.standings.ListBySeason(ctx, season)
	if err != nil {
		return nil, fmt.Errorf("load standings: %w", err)
	}
	infos, err := s.teamInfos.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load team infos: %w", err)
	}

	inputs := feature.Inputs{
		Matches:     make([]feature.Match, 0, len(records)),
		Overrides:   make([]feature.TeamCoordinate, 0, len(infos)),
		CityStates:  s.cityStates,
		PlayerStats: make([]feature.PlayerStat, 0, len(stats)),
		Standings:   make([]feature.StandingsRow, 0, len(table)),
	}
	for _, r := range records {
		inputs.Matches = append(inputs.Matches, feature.Match(r))
	}
	for _, info := range infos {
		inputs.Overrides = append(inputs.Overrides, feature.TeamCoordinate{
			Name: info.Name,
			City: info.City,
			Lat:  info.Lat,
			Lon:  info.Lon,
		})
	}
	for _, stat := range stats {
		inputs.PlayerStats = append(inputs.PlayerStats, feature.PlayerStat(stat))
	}
	for _, row := range table {
		inputs.Standings = append(inputs.Standings, feature.StandingsRow{
			Round:    row.Round,
			Team:     row.Team,
			Position: row.Position,
			Points:   row.Points,
		})
	}

	rows, err := feature.NewPipeline(cfg).Run(ctx, inputs)
	if err != nil {
		if errors.Is(err, feature.ErrInvalidMatchTable) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return nil, fmt.Errorf("run feature pipeline: %w", err)
	}
	return rows, nil
}

// EffectiveConfig reports the pipeline configuration a query resolves to,
// so callers can label windowed output columns.
func (s *FeatureService) EffectiveConfig(query FeatureQuery) feature.Config {
	return s.queryConfig(query)
}

func (s *FeatureService) queryConfig(query FeatureQuery) feature.Config {
	cfg := s.pipelineCfg.WithDefaults()
	if query.Window > 0 {
		cfg.Window = query.Window
	}
	if query.TopN > 0 {
		cfg.TopN = query.TopN
	}
	return cfg
}
