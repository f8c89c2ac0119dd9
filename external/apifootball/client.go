// Package apifootball is the API-Football v3 client used by the harvest
// flow. Requests retry on transient failures behind a circuit breaker;
// identical in-flight requests are collapsed. The API key never appears in
// errors or logs.
package apifootball

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"

	"github.com/futalytics/brasileirao-features/internal/platform/logging"
	"github.com/futalytics/brasileirao-features/internal/platform/resilience"
	"github.com/futalytics/brasileirao-features/internal/usecase"
)

const (
	defaultBaseURL = "https://v3.football.api-sports.io"
	maxBodyBytes   = 6 << 20
)

var apiKeyHeaderRegex = regexp.MustCompile(`(?i)(x-rapidapi-key|x-apisports-key)[:=][^&\s"']+`)
var errTransient = crerr.New("api-football transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	APIKey         string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

type Client struct {
	httpClient     *http.Client
	baseURL        string
	host           string
	apiKey         string
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 30 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	host := baseURL
	if parsed, err := url.Parse(baseURL); err == nil && parsed.Host != "" {
		host = parsed.Host
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		host:           host,
		apiKey:         strings.TrimSpace(cfg.APIKey),
		maxRetries:     maxInt(cfg.MaxRetries, 0),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

// FetchFixtures pulls every fixture for one league season.
func (c *Client) FetchFixtures(ctx context.Context, leagueID, season int) ([]usecase.ExternalFixture, error) {
	if leagueID <= 0 || season <= 0 {
		return nil, fmt.Errorf("%w: league id and season must be positive", usecase.ErrInvalidInput)
	}

	var envelope fixturesEnvelope
	query := map[string]string{
		"league": strconv.Itoa(leagueID),
		"season": strconv.Itoa(season),
	}
	if err := c.doJSON(ctx, "/fixtures", query, &envelope); err != nil {
		return nil, fmt.Errorf("fetch fixtures league=%d season=%d: %w", leagueID, season, err)
	}

	out := make([]usecase.ExternalFixture, 0, len(envelope.Response))
	for _, item := range envelope.Response {
		fixture, err := item.toExternal()
		if err != nil {
			c.logger.WarnContext(ctx, "skip malformed fixture payload", "fixture_id", item.Fixture.ID, "error", err.Error())
			continue
		}
		out = append(out, fixture)
	}
	return out, nil
}

// FetchFixturePlayers pulls per-player goals and assists for one fixture.
func (c *Client) FetchFixturePlayers(ctx context.Context, fixtureID int64) ([]usecase.ExternalPlayerLine, error) {
	if fixtureID <= 0 {
		return nil, fmt.Errorf("%w: fixture id must be positive", usecase.ErrInvalidInput)
	}

	var envelope fixturePlayersEnvelope
	query := map[string]string{"fixture": strconv.FormatInt(fixtureID, 10)}
	if err := c.doJSON(ctx, "/fixtures/players", query, &envelope); err != nil {
		return nil, fmt.Errorf("fetch fixture players fixture=%d: %w", fixtureID, err)
	}

	out := make([]usecase.ExternalPlayerLine, 0, 32)
	for _, teamBlock := range envelope.Response {
		teamName := teamBlock.Team.Name
		for _, entry := range teamBlock.Players {
			if entry.Player.ID <= 0 {
				continue
			}
			line := usecase.ExternalPlayerLine{
				FixtureID: fixtureID,
				PlayerID:  entry.Player.ID,
				Team:      teamName,
			}
			if len(entry.Statistics) > 0 {
				stats := entry.Statistics[0]
				if stats.Goals.Total != nil {
					line.Goals = *stats.Goals.Total
				}
				if stats.Passes.GoalAssist != nil {
					line.Assists = *stats.Passes.GoalAssist
				}
			}
			out = append(out, line)
		}
	}
	return out, nil
}

func (c *Client) doJSON(ctx context.Context, path string, query map[string]string, target any) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "api-football circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("%w: sports data provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}
	fullURL := buildRequestURL(c.baseURL, path, values)

	out, err, _ := c.flight.Do(fullURL, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && crerr.Is(reqErr, errTransient) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return err
	}

	raw, ok := out.([]byte)
	if !ok {
		return fmt.Errorf("unexpected response payload type %T", out)
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode provider payload: %w", err)
	}
	if holder, ok := target.(apiErrorHolder); ok {
		if msg := holder.apiErrors(); msg != "" {
			return fmt.Errorf("provider rejected request: %s", msg)
		}
	}
	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")
		req.Header.Set("x-rapidapi-key", c.apiKey)
		req.Header.Set("x-rapidapi-host", c.host)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %s", errTransient, sanitizeSensitiveText(err.Error(), c.apiKey))
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
			_ = resp.Body.Close()
			if readErr != nil {
				lastErr = fmt.Errorf("%w: read response body: %v", errTransient, readErr)
			} else if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				return raw, nil
			} else if isRetryableStatus(resp.StatusCode) {
				lastErr = fmt.Errorf("%w: provider status=%d body=%s", errTransient, resp.StatusCode, abbreviateBody(raw))
			} else {
				return nil, fmt.Errorf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("provider request failed")
	}
	c.logger.WarnContext(ctx, "api-football request failed", "url", fullURL, "error", sanitizeSensitiveText(lastErr.Error(), c.apiKey))
	return nil, lastErr
}

func buildRequestURL(baseURL, path string, values url.Values) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	_, _ = buf.WriteString(baseURL)
	_, _ = buf.WriteString(path)
	if encoded := values.Encode(); encoded != "" {
		_ = buf.WriteByte('?')
		_, _ = buf.WriteString(encoded)
	}
	return buf.String()
}

func sanitizeSensitiveText(value, apiKey string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return value
	}
	if apiKey != "" {
		value = strings.ReplaceAll(value, apiKey, "REDACTED")
	}
	return apiKeyHeaderRegex.ReplaceAllString(value, "$1=REDACTED")
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}

func maxInt(left, right int) int {
	if left > right {
		return left
	}
	return right
}

type apiErrorHolder interface {
	apiErrors() string
}

// envelope is the provider's common response wrapper. The errors field is a
// map when populated and an empty array otherwise.
type envelope struct {
	Errors json.RawMessage `json:"errors"`
}

func (e envelope) apiErrors() string {
	trimmed := strings.TrimSpace(string(e.Errors))
	switch trimmed {
	case "", "[]", "{}", "null":
		return ""
	}
	return abbreviateBody(e.Errors)
}

type fixturesEnvelope struct {
	envelope
	Response []fixtureItem `json:"response"`
}

type fixtureItem struct {
	Fixture struct {
		ID    int64  `json:"id"`
		Date  string `json:"date"`
		Venue struct {
			Name string `json:"name"`
			City string `json:"city"`
		} `json:"venue"`
	} `json:"fixture"`
	League struct {
		ID     int64  `json:"id"`
		Season int    `json:"season"`
		Round  string `json:"round"`
	} `json:"league"`
	Teams struct {
		Home fixtureTeam `json:"home"`
		Away fixtureTeam `json:"away"`
	} `json:"teams"`
	Goals struct {
		Home *int `json:"home"`
		Away *int `json:"away"`
	} `json:"goals"`
}

type fixtureTeam struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	// Statistics only sometimes carries an object with expected goals.
	Statistics json.RawMessage `json:"statistics"`
}

func (t fixtureTeam) expectedGoals() *float64 {
	if len(t.Statistics) == 0 {
		return nil
	}
	var stats struct {
		XG *float64 `json:"xG"`
	}
	if err := sonic.Unmarshal(t.Statistics, &stats); err != nil {
		return nil
	}
	return stats.XG
}

func (f fixtureItem) toExternal() (usecase.ExternalFixture, error) {
	if f.Fixture.ID <= 0 {
		return usecase.ExternalFixture{}, fmt.Errorf("missing fixture id")
	}
	kickoff, err := time.Parse(time.RFC3339, f.Fixture.Date)
	if err != nil {
		return usecase.ExternalFixture{}, fmt.Errorf("parse fixture date %q: %w", f.Fixture.Date, err)
	}
	return usecase.ExternalFixture{
		ID:        f.Fixture.ID,
		Date:      kickoff,
		Season:    f.League.Season,
		Round:     f.League.Round,
		HomeTeam:  f.Teams.Home.Name,
		AwayTeam:  f.Teams.Away.Name,
		HomeGoals: f.Goals.Home,
		AwayGoals: f.Goals.Away,
		HomeXG:    f.Teams.Home.expectedGoals(),
		AwayXG:    f.Teams.Away.expectedGoals(),
		City:      f.Fixture.Venue.City,
	}, nil
}

type fixturePlayersEnvelope struct {
	envelope
	Response []fixturePlayersTeamBlock `json:"response"`
}

type fixturePlayersTeamBlock struct {
	Team struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	} `json:"team"`
	Players []fixturePlayerEntry `json:"players"`
}

type fixturePlayerEntry struct {
	Player struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	} `json:"player"`
	Statistics []fixturePlayerStats `json:"statistics"`
}

type fixturePlayerStats struct {
	Goals struct {
		Total *int `json:"total"`
	} `json:"goals"`
	Passes struct {
		GoalAssist *int `json:"goal_assist"`
	} `json:"passes"`
}

var _ usecase.MatchDataProvider = (*Client)(nil)
