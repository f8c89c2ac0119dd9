package cache

import (
	"context"
	"strconv"

	"github.com/futalytics/brasileirao-features/internal/domain/match"
	"github.com/futalytics/brasileirao-features/internal/domain/teaminfo"
	basecache "github.com/futalytics/brasileirao-features/internal/platform/cache"
)

// TeamInfoRepository caches the full team-info list. The table is small
// and read on every feature computation, so a single list key is enough.
type TeamInfoRepository struct {
	next  teaminfo.Repository
	cache *basecache.Store
}

func NewTeamInfoRepository(next teaminfo.Repository, cache *basecache.Store) *TeamInfoRepository {
	return &TeamInfoRepository{next: next, cache: cache}
}

func (r *TeamInfoRepository) ListAll(ctx context.Context) ([]teaminfo.Info, error) {
	v, err := r.cache.GetOrLoad(ctx, "team-info:list", func(ctx context.Context) (any, error) {
		items, err := r.next.ListAll(ctx)
		if err != nil {
			return nil, err
		}
		return append([]teaminfo.Info(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]teaminfo.Info)
	return append([]teaminfo.Info(nil), items...), nil
}

func (r *TeamInfoRepository) UpsertBatch(ctx context.Context, infos []teaminfo.Info) (int, error) {
	inserted, err := r.next.UpsertBatch(ctx, infos)
	if err != nil {
		return 0, err
	}
	r.cache.Delete(ctx, "team-info:list")
	return inserted, nil
}

// MatchRepository caches season and recent listings and drops them when a
// harvest inserts new rows. ID lookups go straight through; they run once
// per harvest batch with ever-changing key sets.
type MatchRepository struct {
	next  match.Repository
	cache *basecache.Store
}

func NewMatchRepository(next match.Repository, cache *basecache.Store) *MatchRepository {
	return &MatchRepository{next: next, cache: cache}
}

func (r *MatchRepository) ListAll(ctx context.Context) ([]match.Record, error) {
	v, err := r.cache.GetOrLoad(ctx, "match:list:all", func(ctx context.Context) (any, error) {
		items, err := r.next.ListAll(ctx)
		if err != nil {
			return nil, err
		}
		return append([]match.Record(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]match.Record)
	return append([]match.Record(nil), items...), nil
}

func (r *MatchRepository) ListBySeason(ctx context.Context, season int) ([]match.Record, error) {
	key := "match:list:season:" + strconv.Itoa(season)
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.ListBySeason(ctx, season)
		if err != nil {
			return nil, err
		}
		return append([]match.Record(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]match.Record)
	return append([]match.Record(nil), items...), nil
}

func (r *MatchRepository) ListRecent(ctx context.Context, season int, limit int) ([]match.Record, error) {
	key := "match:recent:" + strconv.Itoa(season) + ":" + strconv.Itoa(limit)
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.ListRecent(ctx, season, limit)
		if err != nil {
			return nil, err
		}
		return append([]match.Record(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]match.Record)
	return append([]match.Record(nil), items...), nil
}

func (r *MatchRepository) ExistingIDs(ctx context.Context, ids []int64) (map[int64]struct{}, error) {
	return r.next.ExistingIDs(ctx, ids)
}

func (r *MatchRepository) InsertBatch(ctx context.Context, records []match.Record) (int, error) {
	inserted, err := r.next.InsertBatch(ctx, records)
	if err != nil {
		return 0, err
	}
	if inserted > 0 {
		r.cache.DeletePrefix(ctx, "match:")
	}
	return inserted, nil
}
