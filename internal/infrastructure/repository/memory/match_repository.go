package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/futalytics/brasileirao-features/internal/domain/match"
)

type MatchRepository struct {
	mu      sync.RWMutex
	records map[int64]match.Record
}

func NewMatchRepository(records []match.Record) *MatchRepository {
	byID := make(map[int64]match.Record, len(records))
	for _, item := range records {
		byID[item.ID] = item
	}
	return &MatchRepository{records: byID}
}

func (r *MatchRepository) ListAll(_ context.Context) ([]match.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sortedRecords(func(match.Record) bool { return true }), nil
}

func (r *MatchRepository) ListBySeason(_ context.Context, season int) ([]match.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sortedRecords(func(m match.Record) bool { return m.Season == season }), nil
}

func (r *MatchRepository) ListRecent(_ context.Context, season int, limit int) ([]match.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := r.sortedRecords(func(m match.Record) bool {
		return season <= 0 || m.Season == season
	})
	// Newest first.
	for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
		items[i], items[j] = items[j], items[i]
	}
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (r *MatchRepository) ExistingIDs(_ context.Context, ids []int64) (map[int64]struct{}, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := r.records[id]; ok {
			out[id] = struct{}{}
		}
	}
	return out, nil
}

func (r *MatchRepository) InsertBatch(_ context.Context, records []match.Record) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	inserted := 0
	for _, item := range records {
		if _, exists := r.records[item.ID]; exists {
			continue
		}
		r.records[item.ID] = item
		inserted++
	}
	return inserted, nil
}

func (r *MatchRepository) sortedRecords(keep func(match.Record) bool) []match.Record {
	out := make([]match.Record, 0, len(r.records))
	for _, item := range r.records {
		if keep(item) {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].ID < out[j].ID
	})
	return out
}
