package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/futalytics/brasileirao-features/internal/domain/teaminfo"
	qb "github.com/futalytics/brasileirao-features/internal/platform/querybuilder"
)

type teamInfoTableModel struct {
	Name string  `db:"name"`
	City string  `db:"city"`
	Lat  float64 `db:"latitude"`
	Lon  float64 `db:"longitude"`
}

type TeamInfoRepository struct {
	db *sqlx.DB
}

func NewTeamInfoRepository(db *sqlx.DB) *TeamInfoRepository {
	return &TeamInfoRepository{db: db}
}

func (r *TeamInfoRepository) ListAll(ctx context.Context) ([]teaminfo.Info, error) {
	query, args, err := qb.Select("name, city, latitude, longitude").
		From("teams_info").
		OrderBy("name").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select teams info query: %w", err)
	}

	var rows []teamInfoTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select teams info: %w", err)
	}

	out := make([]teaminfo.Info, 0, len(rows))
	for _, row := range rows {
		out = append(out, teaminfo.Info{
			Name: row.Name,
			City: row.City,
			Lat:  row.Lat,
			Lon:  row.Lon,
		})
	}
	return out, nil
}

func (r *TeamInfoRepository) UpsertBatch(ctx context.Context, infos []teaminfo.Info) (int, error) {
	if len(infos) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin upsert teams info tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	const suffix = `ON CONFLICT (name) DO UPDATE
SET city = EXCLUDED.city, latitude = EXCLUDED.latitude, longitude = EXCLUDED.longitude`

	written := 0
	for _, info := range infos {
		model := teamInfoTableModel{Name: info.Name, City: info.City, Lat: info.Lat, Lon: info.Lon}
		query, args, err := qb.InsertModel("teams_info", model, suffix)
		if err != nil {
			return 0, fmt.Errorf("build upsert team info query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return 0, fmt.Errorf("upsert team info %s: %w", info.Name, err)
		}
		written++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit upsert teams info tx: %w", err)
	}
	return written, nil
}
