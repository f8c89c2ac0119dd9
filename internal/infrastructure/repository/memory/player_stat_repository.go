package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/futalytics/brasileirao-features/internal/domain/match"
	"github.com/futalytics/brasileirao-features/internal/domain/playerstat"
)

type statKey struct {
	matchID  int64
	playerID int64
}

// PlayerStatRepository keeps per-player box scores in memory. Season
// filtering needs the match table, so the repository holds a reference to
// its sibling match repository.
type PlayerStatRepository struct {
	mu      sync.RWMutex
	stats   map[statKey]playerstat.Stat
	matches *MatchRepository
}

func NewPlayerStatRepository(matches *MatchRepository, stats []playerstat.Stat) *PlayerStatRepository {
	byKey := make(map[statKey]playerstat.Stat, len(stats))
	for _, item := range stats {
		byKey[statKey{matchID: item.MatchID, playerID: item.PlayerID}] = item
	}
	return &PlayerStatRepository{stats: byKey, matches: matches}
}

func (r *PlayerStatRepository) ListAll(_ context.Context) ([]playerstat.Stat, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sortedStats(func(playerstat.Stat) bool { return true }), nil
}

func (r *PlayerStatRepository) ListBySeason(ctx context.Context, season int) ([]playerstat.Stat, error) {
	seasonMatches, err := r.matches.ListBySeason(ctx, season)
	if err != nil {
		return nil, err
	}
	inSeason := make(map[int64]struct{}, len(seasonMatches))
	for _, m := range seasonMatches {
		inSeason[m.ID] = struct{}{}
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sortedStats(func(s playerstat.Stat) bool {
		_, ok := inSeason[s.MatchID]
		return ok
	}), nil
}

func (r *PlayerStatRepository) HasMatch(_ context.Context, matchID int64) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for key := range r.stats {
		if key.matchID == matchID {
			return true, nil
		}
	}
	return false, nil
}

func (r *PlayerStatRepository) UpsertBatch(_ context.Context, stats []playerstat.Stat) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, item := range stats {
		r.stats[statKey{matchID: item.MatchID, playerID: item.PlayerID}] = item
	}
	return len(stats), nil
}

func (r *PlayerStatRepository) sortedStats(keep func(playerstat.Stat) bool) []playerstat.Stat {
	out := make([]playerstat.Stat, 0, len(r.stats))
	for _, item := range r.stats {
		if keep(item) {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].MatchID != out[j].MatchID {
			return out[i].MatchID < out[j].MatchID
		}
		return out[i].PlayerID < out[j].PlayerID
	})
	return out
}

var _ playerstat.Repository = (*PlayerStatRepository)(nil)
var _ match.Repository = (*MatchRepository)(nil)
