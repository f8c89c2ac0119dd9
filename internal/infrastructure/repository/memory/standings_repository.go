package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/futalytics/brasileirao-features/internal/domain/standings"
)

type roundKey struct {
	season int
	round  int
}

type StandingsRepository struct {
	mu     sync.RWMutex
	rounds map[roundKey][]standings.Row
}

func NewStandingsRepository(rows []standings.Row) *StandingsRepository {
	r := &StandingsRepository{rounds: make(map[roundKey][]standings.Row)}
	for _, row := range rows {
		key := roundKey{season: row.Season, round: row.Round}
		r.rounds[key] = append(r.rounds[key], row)
	}
	return r
}

func (r *StandingsRepository) ListBySeason(_ context.Context, season int) ([]standings.Row, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []standings.Row
	for key, rows := range r.rounds {
		if key.season != season {
			continue
		}
		out = append(out, rows...)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Round != out[j].Round {
			return out[i].Round < out[j].Round
		}
		return out[i].Position < out[j].Position
	})
	return out, nil
}

func (r *StandingsRepository) ReplaceRound(_ context.Context, season, round int, rows []standings.Row) error {
	copied := make([]standings.Row, 0, len(rows))
	for _, row := range rows {
		row.Season = season
		row.Round = round
		copied = append(copied, row)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.rounds[roundKey{season: season, round: round}] = copied
	return nil
}

var _ standings.Repository = (*StandingsRepository)(nil)
