package playerstat

import "context"

type Repository interface {
	ListAll(ctx context.Context) ([]Stat, error)
	ListBySeason(ctx context.Context, season int) ([]Stat, error)
	HasMatch(ctx context.Context, matchID int64) (bool, error)
	UpsertBatch(ctx context.Context, stats []Stat) (int, error)
}
