package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/futalytics/brasileirao-features/external/apifootball"
	"github.com/futalytics/brasileirao-features/internal/config"
	"github.com/futalytics/brasileirao-features/internal/domain/match"
	"github.com/futalytics/brasileirao-features/internal/domain/teaminfo"
	"github.com/futalytics/brasileirao-features/internal/feature"
	cacherepo "github.com/futalytics/brasileirao-features/internal/infrastructure/repository/cache"
	"github.com/futalytics/brasileirao-features/internal/infrastructure/repository/postgres"
	"github.com/futalytics/brasileirao-features/internal/interfaces/httpapi"
	"github.com/futalytics/brasileirao-features/internal/platform/cache"
	"github.com/futalytics/brasileirao-features/internal/platform/logging"
	"github.com/futalytics/brasileirao-features/internal/platform/resilience"
	"github.com/futalytics/brasileirao-features/internal/usecase"
)

// NewHTTPServer wires the database, the fixture provider and the domain
// services into a ready-to-listen HTTP server. The returned *sqlx.DB is
// owned by the caller and must be closed on shutdown.
func NewHTTPServer(cfg config.Config, logger *slog.Logger) (*http.Server, *sqlx.DB, error) {
	if cfg.HTTPAddr == "" {
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	db, err := openDB(cfg)
	if err != nil {
		return nil, nil, err
	}

	if err := postgres.BootstrapSeed(context.Background(), db); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("bootstrap seed: %w", err)
	}

	var matchRepo match.Repository = postgres.NewMatchRepository(db)
	playerStatRepo := postgres.NewPlayerStatRepository(db)
	standingsRepo := postgres.NewStandingsRepository(db)
	var teamInfoRepo teaminfo.Repository = postgres.NewTeamInfoRepository(db)
	quotaRepo := postgres.NewQuotaRepository(db)

	var featureCache *cache.Store
	if cfg.CacheEnabled {
		featureCache = cache.NewStore(cfg.CacheTTL)
		repoCache := cache.NewStore(cfg.CacheTTL)
		matchRepo = cacherepo.NewMatchRepository(matchRepo, repoCache)
		teamInfoRepo = cacherepo.NewTeamInfoRepository(teamInfoRepo, repoCache)
	}

	domainLogger := logging.Default()

	provider := apifootball.NewClient(apifootball.ClientConfig{
		BaseURL:    cfg.APIFootballBaseURL,
		APIKey:     cfg.APIFootballKey,
		Timeout:    cfg.APIFootballTimeout,
		MaxRetries: cfg.APIFootballMaxRetries,
		Logger:     domainLogger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.APIFootballCircuitEnabled,
			FailureThreshold: cfg.APIFootballCircuitFailureCount,
			OpenTimeout:      cfg.APIFootballCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.APIFootballCircuitHalfOpenMaxReq,
		},
	})

	harvestSvc := usecase.NewHarvestService(
		provider,
		matchRepo,
		playerStatRepo,
		teamInfoRepo,
		quotaRepo,
		usecase.HarvestConfig{
			SerieALeagueID:       cfg.HarvestSerieALeagueID,
			CopaDoBrasilLeagueID: cfg.HarvestCopaLeagueID,
			LibertadoresLeagueID: cfg.HarvestLibertadoresLeagueID,
			DailyQuota:           cfg.HarvestDailyQuota,
		},
		domainLogger,
	)

	featureSvc := usecase.NewFeatureService(
		matchRepo,
		playerStatRepo,
		standingsRepo,
		teamInfoRepo,
		feature.Config{
			Window:             cfg.FeatureWindow,
			TopN:               cfg.FeatureTopN,
			HighRoundThreshold: cfg.FeatureHighRoundThreshold,
			G4Cutoff:           cfg.FeatureG4Cutoff,
			Z4Cutoff:           cfg.FeatureZ4Cutoff,
		},
		nil,
		cfg.FeatureMaxWorkers,
		featureCache,
		domainLogger,
	)

	matchSvc := usecase.NewMatchService(matchRepo)

	handler := httpapi.NewHandler(harvestSvc, featureSvc, matchSvc, domainLogger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return server, db, nil
}

func openDB(cfg config.Config) (*sqlx.DB, error) {
	dsn := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)

	db, err := otelsqlx.Connect("postgres", dsn,
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	return db, nil
}
