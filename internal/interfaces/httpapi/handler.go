package httpapi

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"

	"github.com/futalytics/brasileirao-features/internal/domain/match"
	"github.com/futalytics/brasileirao-features/internal/feature"
	"github.com/futalytics/brasileirao-features/internal/platform/logging"
	"github.com/futalytics/brasileirao-features/internal/usecase"
)

const maxRequestBodyBytes = 1 << 20

type Handler struct {
	harvestService *usecase.HarvestService
	featureService *usecase.FeatureService
	matchService   *usecase.MatchService
	logger         *logging.Logger
	validator      *validator.Validate
}

func NewHandler(
	harvestService *usecase.HarvestService,
	featureService *usecase.FeatureService,
	matchService *usecase.MatchService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		harvestService: harvestService,
		featureService: featureService,
		matchService:   matchService,
		logger:         logger,
		validator:      validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

type harvestRequest struct {
	StartSeason        int  `json:"start_season" validate:"required,gt=0"`
	EndSeason          int  `json:"end_season" validate:"required,gtefield=StartSeason"`
	IncludePlayerStats bool `json:"include_player_stats"`
}

func (h *Handler) Harvest(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Harvest")
	defer span.End()

	var req harvestRequest
	if err := h.decodeJSONBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err))
		return
	}

	result, err := h.harvestService.Harvest(ctx, usecase.HarvestInput{
		StartSeason:        req.StartSeason,
		EndSeason:          req.EndSeason,
		IncludePlayerStats: req.IncludePlayerStats,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "harvest failed", "start_season", req.StartSeason, "end_season", req.EndSeason, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) ListMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMatches")
	defer span.End()

	season, err := queryInt(r, "season", 0)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	records, err := h.matchService.List(ctx, usecase.MatchListInput{Season: season, Limit: limit})
	if err != nil {
		h.logger.WarnContext(ctx, "list matches failed", "season", season, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]matchDTO, 0, len(records))
	for _, record := range records {
		items = append(items, matchToDTO(record))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ListFeatures(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListFeatures")
	defer span.End()

	season, err := queryInt(r, "season", 0)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	window, err := queryInt(r, "window", 0)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	topN, err := queryInt(r, "top_n", 0)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	rows, err := h.featureService.ComputeSeason(ctx, usecase.FeatureQuery{Season: season, Window: window, TopN: topN})
	if err != nil {
		h.logger.WarnContext(ctx, "compute features failed", "season", season, "error", err)
		writeError(ctx, w, err)
		return
	}

	effectiveWindow := h.featureService.EffectiveConfig(usecase.FeatureQuery{Season: season, Window: window, TopN: topN}).Window
	items := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		items = append(items, featureRowToDTO(row, effectiveWindow))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

type recomputeRequest struct {
	Seasons    []int `json:"seasons" validate:"required,min=1,dive,gt=0"`
	MaxWorkers int   `json:"max_workers" validate:"gte=0"`
}

func (h *Handler) RecomputeFeatures(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RecomputeFeatures")
	defer span.End()

	var req recomputeRequest
	if err := h.decodeJSONBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err))
		return
	}

	result, err := h.featureService.Recompute(ctx, usecase.RecomputeInput{
		Seasons:    req.Seasons,
		MaxWorkers: req.MaxWorkers,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "recompute features failed", "seasons", req.Seasons, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) decodeJSONBody(r *http.Request, out any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBodyBytes))
	if err != nil {
		return fmt.Errorf("%w: read request body: %v", usecase.ErrInvalidInput, err)
	}
	if len(body) == 0 {
		return fmt.Errorf("%w: request body is required", usecase.ErrInvalidInput)
	}
	if err := sonic.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: decode request body: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

func queryInt(r *http.Request, name string, fallback int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: query parameter %q must be an integer", usecase.ErrInvalidInput, name)
	}
	return value, nil
}

type matchDTO struct {
	ID          int64    `json:"id"`
	Date        string   `json:"date"`
	Competition string   `json:"competition"`
	Season      int      `json:"season"`
	Round       string   `json:"round"`
	HomeTeam    string   `json:"home_team"`
	AwayTeam    string   `json:"away_team"`
	HomeGoals   *int     `json:"home_goals"`
	AwayGoals   *int     `json:"away_goals"`
	HomeXG      *float64 `json:"home_xg"`
	AwayXG      *float64 `json:"away_xg"`
	City        string   `json:"city,omitempty"`
}

func matchToDTO(record match.Record) matchDTO {
	return matchDTO{
		ID:          record.ID,
		Date:        record.Date.UTC().Format(time.RFC3339),
		Competition: record.Competition,
		Season:      record.Season,
		Round:       record.Round,
		HomeTeam:    record.HomeTeam,
		AwayTeam:    record.AwayTeam,
		HomeGoals:   record.HomeGoals,
		AwayGoals:   record.AwayGoals,
		HomeXG:      record.HomeXG,
		AwayXG:      record.AwayXG,
		City:        record.City,
	}
}

// featureRowToDTO flattens a feature row the way downstream model training
// expects it: rolling-form keys embed the window size, e.g.
// goals_for_last5_home.
func featureRowToDTO(row feature.Row, window int) map[string]any {
	out := map[string]any{
		"id":               row.ID,
		"date":             row.Date.UTC().Format(time.RFC3339),
		"competition":      row.Competition,
		"season":           row.Season,
		"round":            row.Round,
		"home_team":        row.HomeTeam,
		"away_team":        row.AwayTeam,
		"home_goals":       row.HomeGoals,
		"away_goals":       row.AwayGoals,
		"home_xg":          row.HomeXG,
		"away_xg":          row.AwayXG,
		"city":             row.City,
		"travel_km_home":   row.TravelKmHome,
		"travel_km_away":   row.TravelKmAway,
		"rest_days_home":   row.RestDaysHome,
		"rest_days_away":   row.RestDaysAway,
		"key_players_home": row.KeyPlayersHome,
		"key_players_away": row.KeyPlayersAway,
		"importance_home":  row.ImportanceHome,
		"importance_away":  row.ImportanceAway,
	}
	addRollingColumns(out, "home", row.RollingHome, window)
	addRollingColumns(out, "away", row.RollingAway, window)
	return out
}

func addRollingColumns(out map[string]any, side string, metrics feature.RollingMetrics, window int) {
	out[fmt.Sprintf("goals_for_last%d_%s", window, side)] = metrics.GoalsFor
	out[fmt.Sprintf("goals_against_last%d_%s", window, side)] = metrics.GoalsAgainst
	out[fmt.Sprintf("xg_for_last%d_%s", window, side)] = metrics.XGFor
	out[fmt.Sprintf("xg_against_last%d_%s", window, side)] = metrics.XGAgainst
}
