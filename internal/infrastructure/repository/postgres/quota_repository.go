package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/futalytics/brasileirao-features/internal/domain/quota"
	qb "github.com/futalytics/brasileirao-features/internal/platform/querybuilder"
)

type QuotaRepository struct {
	db *sqlx.DB
}

func NewQuotaRepository(db *sqlx.DB) *QuotaRepository {
	return &QuotaRepository{db: db}
}

func (r *QuotaRepository) Get(ctx context.Context, day string) (quota.Usage, error) {
	query, args, err := qb.Select("used").From("request_quota").
		Where(qb.Eq("day", day)).
		ToSQL()
	if err != nil {
		return quota.Usage{}, fmt.Errorf("build select quota query: %w", err)
	}

	var used int
	if err := r.db.GetContext(ctx, &used, query, args...); err != nil {
		if isNotFound(err) {
			return quota.Usage{Day: day}, nil
		}
		return quota.Usage{}, fmt.Errorf("select quota for %s: %w", day, err)
	}
	return quota.Usage{Day: day, Count: used}, nil
}

func (r *QuotaRepository) Increment(ctx context.Context, day string, n int) (int, error) {
	const query = `INSERT INTO request_quota (day, used) VALUES ($1, $2)
ON CONFLICT (day) DO UPDATE SET used = request_quota.used + EXCLUDED.used
RETURNING used`

	var total int
	if err := r.db.GetContext(ctx, &total, query, day, n); err != nil {
		return 0, fmt.Errorf("increment quota for %s: %w", day, err)
	}
	return total, nil
}
