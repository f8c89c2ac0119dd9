package feature

import (
	"context"
	"errors"
	"fmt"

	"github.com/sourcegraph/conc"
)

// ErrInvalidMatchTable marks a structurally broken primary match table, as
// opposed to a per-row data-quality gap, which only degrades columns to
// nil.
var ErrInvalidMatchTable = errors.New("invalid match table")

// Pipeline runs every stage over one batch of matches. Stages do not read
// each other's output and each re-derives chronological order internally,
// so they run concurrently and merge by match id afterwards.
type Pipeline struct {
	Config Config
}

func NewPipeline(cfg Config) *Pipeline {
	return &Pipeline{Config: cfg.WithDefaults()}
}

// Run validates the match table, computes every feature stage and returns
// one row per input match, in input order, ids untouched. Missing auxiliary
// tables never fail the run; they empty out the matching columns.
func (p *Pipeline) Run(ctx context.Context, in Inputs) ([]Row, error) {
	if err := validateMatches(in.Matches); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cfg := p.Config.WithDefaults()

	var (
		travel     map[int64]Travel
		rest       map[int64]Rest
		rolling    map[int64]Rolling
		keyPlayers map[int64]KeyPlayerSides
		importance map[int64]Importance
	)

	var wg conc.WaitGroup
	wg.Go(func() { travel = TravelDistances(in.Matches, in.Overrides, in.CityStates) })
	wg.Go(func() { rest = RestDays(in.Matches) })
	wg.Go(func() { rolling = RollingStats(in.Matches, cfg.Window) })
	wg.Go(func() { keyPlayers = KeyPlayersByMatch(in.Matches, in.PlayerStats, cfg.Window, cfg.TopN) })
	wg.Go(func() { importance = ImportanceScores(in.Matches, in.Standings, cfg) })
	wg.Wait()

	rows := make([]Row, len(in.Matches))
	for i, m := range in.Matches {
		t := travel[m.ID]
		r := rest[m.ID]
		roll := rolling[m.ID]
		kp := keyPlayers[m.ID]
		imp := importance[m.ID]
		rows[i] = Row{
			Match: m,
			Features: Features{
				TravelKmHome:   t.Home,
				TravelKmAway:   t.Away,
				RestDaysHome:   r.Home,
				RestDaysAway:   r.Away,
				RollingHome:    roll.Home,
				RollingAway:    roll.Away,
				KeyPlayersHome: kp.Home,
				KeyPlayersAway: kp.Away,
				ImportanceHome: imp.Home,
				ImportanceAway: imp.Away,
			},
		}
	}
	return rows, nil
}

func validateMatches(matches []Match) error {
	seen := make(map[int64]struct{}, len(matches))
	for _, m := range matches {
		if _, dup := seen[m.ID]; dup {
			return fmt.Errorf("%w: duplicate match id %d", ErrInvalidMatchTable, m.ID)
		}
		seen[m.ID] = struct{}{}
		if m.Date.IsZero() {
			return fmt.Errorf("%w: match %d has no date", ErrInvalidMatchTable, m.ID)
		}
		if m.HomeTeam == "" || m.AwayTeam == "" {
			return fmt.Errorf("%w: match %d is missing a team name", ErrInvalidMatchTable, m.ID)
		}
	}
	return nil
}
