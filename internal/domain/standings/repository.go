package standings

import "context"

type Repository interface {
	ListBySeason(ctx context.Context, season int) ([]Row, error)
	ReplaceRound(ctx context.Context, season, round int, rows []Row) error
}
