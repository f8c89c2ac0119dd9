package match

import "context"

// Repository exposes match storage.
type Repository interface {
	ListAll(ctx context.Context) ([]Record, error)
	ListBySeason(ctx context.Context, season int) ([]Record, error)
	// ListRecent returns the newest matches first, capped at limit.
	ListRecent(ctx context.Context, season int, limit int) ([]Record, error)
	ExistingIDs(ctx context.Context, ids []int64) (map[int64]struct{}, error)
	InsertBatch(ctx context.Context, records []Record) (int, error)
}
