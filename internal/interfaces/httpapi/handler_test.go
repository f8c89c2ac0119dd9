package httpapi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/futalytics/brasileirao-features/internal/domain/match"
	"github.com/futalytics/brasileirao-features/internal/feature"
	"github.com/futalytics/brasileirao-features/internal/infrastructure/repository/memory"
	"github.com/futalytics/brasileirao-features/internal/platform/cache"
	"github.com/futalytics/brasileirao-features/internal/usecase"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	day := func(d int) time.Time {
		return time.Date(2024, 5, d, 16, 0, 0, 0, time.UTC)
	}
	matches := memory.NewMatchRepository([]match.Record{
		{ID: 1, Date: day(5), Competition: match.CompetitionSerieA, Season: 2024, Round: "Regular Season - 1", HomeTeam: "Flamengo", AwayTeam: "Palmeiras", City: "Rio de Janeiro-RJ"},
		{ID: 2, Date: day(12), Competition: match.CompetitionSerieA, Season: 2024, Round: "Regular Season - 2", HomeTeam: "Palmeiras", AwayTeam: "Flamengo", City: "São Paulo-SP"},
	})
	playerStats := memory.NewPlayerStatRepository(matches, nil)

	featureService := usecase.NewFeatureService(
		matches,
		playerStats,
		memory.NewStandingsRepository(nil),
		memory.NewTeamInfoRepository(nil),
		feature.DefaultConfig(),
		nil,
		2,
		cache.NewStore(time.Minute),
		nil,
	)
	matchService := usecase.NewMatchService(matches)
	handler := NewHandler(nil, featureService, matchService, nil)

	return NewRouter(handler, nil, []string{"*"})
}

func TestRouter_Healthz(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
}

func TestRouter_ListMatches(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/matches?season=2024", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Data []map[string]any `json:"data"`
	}
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}
	if len(body.Data) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(body.Data))
	}
	if got, _ := body.Data[0]["home_team"].(string); got != "Flamengo" {
		t.Fatalf("unexpected first home team: %q", got)
	}
}

func TestRouter_ListFeatures_WindowedColumnNames(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/features?season=2024&window=2", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Data []map[string]any `json:"data"`
	}
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}
	if len(body.Data) != 2 {
		t.Fatalf("expected 2 feature rows, got %d", len(body.Data))
	}

	row := body.Data[1]
	for _, key := range []string{"goals_for_last2_home", "xg_against_last2_away", "travel_km_home", "rest_days_home", "importance_home", "key_players_home"} {
		if _, ok := row[key]; !ok {
			t.Fatalf("expected key %q in feature row, keys=%v", key, rowKeys(row))
		}
	}
	if rest, ok := row["rest_days_home"].(float64); !ok || rest != 7 {
		t.Fatalf("expected rest_days_home=7, got %v", row["rest_days_home"])
	}
}

func TestRouter_ListFeatures_UnknownSeason(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/features?season=1999", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
}

func TestRouter_Recompute_InvalidBody(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/features/recompute", strings.NewReader(`{"seasons":[]}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func rowKeys(row map[string]any) []string {
	keys := make([]string, 0, len(row))
	for key := range row {
		keys = append(keys, key)
	}
	return keys
}
