package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/futalytics/brasileirao-features/internal/infrastructure/repository/memory"
)

// BootstrapSeed fills teams_info with the built-in club coordinates when
// the table is empty, so travel distances resolve before the first
// harvest ever runs. A populated table is left alone.
func BootstrapSeed(ctx context.Context, db *sqlx.DB) error {
	var count int
	if err := db.GetContext(ctx, &count, `SELECT COUNT(1) FROM teams_info`); err != nil {
		return fmt.Errorf("count teams info for bootstrap seed: %w", err)
	}
	if count > 0 {
		return nil
	}

	repo := NewTeamInfoRepository(db)
	if _, err := repo.UpsertBatch(ctx, memory.SeedTeamInfos()); err != nil {
		return fmt.Errorf("seed teams info: %w", err)
	}
	return nil
}
