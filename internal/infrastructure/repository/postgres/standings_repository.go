package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/futalytics/brasileirao-features/internal/domain/standings"
	qb "github.com/futalytics/brasileirao-features/internal/platform/querybuilder"
)

type standingsTableModel struct {
	Season   int    `db:"season"`
	Round    int    `db:"round"`
	Team     string `db:"team"`
	Position int    `db:"position"`
	Points   int    `db:"points"`
}

type StandingsRepository struct {
	db *sqlx.DB
}

func NewStandingsRepository(db *sqlx.DB) *StandingsRepository {
	return &StandingsRepository{db: db}
}

func (r *StandingsRepository) ListBySeason(ctx context.Context, season int) ([]standings.Row, error) {
	query, args, err := qb.Select("season, round, team, position, points").
		From("standings").
		Where(qb.Eq("season", season)).
		OrderBy("round", "position").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select standings query: %w", err)
	}

	var rows []standingsTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select standings: %w", err)
	}

	out := make([]standings.Row, 0, len(rows))
	for _, row := range rows {
		out = append(out, standings.Row{
			Season:   row.Season,
			Round:    row.Round,
			Team:     row.Team,
			Position: row.Position,
			Points:   row.Points,
		})
	}
	return out, nil
}

func (r *StandingsRepository) ReplaceRound(ctx context.Context, season, round int, rows []standings.Row) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace standings tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM standings WHERE season = $1 AND round = $2", season, round); err != nil {
		return fmt.Errorf("delete standings season=%d round=%d: %w", season, round, err)
	}

	for _, row := range rows {
		model := standingsTableModel{
			Season:   season,
			Round:    round,
			Team:     row.Team,
			Position: row.Position,
			Points:   row.Points,
		}
		query, args, err := qb.InsertModel("standings", model, "")
		if err != nil {
			return fmt.Errorf("build insert standings query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert standings row season=%d round=%d team=%s: %w", season, round, row.Team, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace standings tx: %w", err)
	}
	return nil
}
