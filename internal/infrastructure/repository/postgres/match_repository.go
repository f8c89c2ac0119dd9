package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/futalytics/brasileirao-features/internal/domain/match"
	qb "github.com/futalytics/brasileirao-features/internal/platform/querybuilder"
)

const matchColumns = "id, match_date, competition, season, round, home_team, away_team, home_goals, away_goals, home_xg, away_xg, city"

type MatchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

func (r *MatchRepository) ListAll(ctx context.Context) ([]match.Record, error) {
	query, args, err := qb.Select(matchColumns).From("matches").
		OrderBy("match_date", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select matches query: %w", err)
	}
	return r.selectMatches(ctx, query, args)
}

func (r *MatchRepository) ListBySeason(ctx context.Context, season int) ([]match.Record, error) {
	query, args, err := qb.Select(matchColumns).From("matches").
		Where(qb.Eq("season", season)).
		OrderBy("match_date", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select matches by season query: %w", err)
	}
	return r.selectMatches(ctx, query, args)
}

func (r *MatchRepository) ListRecent(ctx context.Context, season int, limit int) ([]match.Record, error) {
	builder := qb.Select(matchColumns).From("matches").
		OrderBy("match_date DESC", "id DESC")
	if season > 0 {
		builder = builder.Where(qb.Eq("season", season))
	}
	if limit > 0 {
		builder = builder.Limit(limit)
	}
	query, args, err := builder.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select recent matches query: %w", err)
	}
	return r.selectMatches(ctx, query, args)
}

func (r *MatchRepository) ExistingIDs(ctx context.Context, ids []int64) (map[int64]struct{}, error) {
	if len(ids) == 0 {
		return map[int64]struct{}{}, nil
	}

	values := make([]any, 0, len(ids))
	for _, id := range ids {
		values = append(values, id)
	}
	query, args, err := qb.Select("id").From("matches").
		Where(qb.In("id", values)).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select existing match ids query: %w", err)
	}

	var found []int64
	if err := r.db.SelectContext(ctx, &found, query, args...); err != nil {
		return nil, fmt.Errorf("select existing match ids: %w", err)
	}

	out := make(map[int64]struct{}, len(found))
	for _, id := range found {
		out[id] = struct{}{}
	}
	return out, nil
}

func (r *MatchRepository) InsertBatch(ctx context.Context, records []match.Record) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin insert matches tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	inserted := 0
	for _, record := range records {
		query, args, err := qb.InsertModel("matches", matchModelFromDomain(record), "ON CONFLICT (id) DO NOTHING")
		if err != nil {
			return 0, fmt.Errorf("build insert match query: %w", err)
		}
		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return 0, fmt.Errorf("insert match %d: %w", record.ID, err)
		}
		if n, err := res.RowsAffected(); err == nil {
			inserted += int(n)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit insert matches tx: %w", err)
	}
	return inserted, nil
}

func (r *MatchRepository) selectMatches(ctx context.Context, query string, args []any) ([]match.Record, error) {
	var rows []matchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select matches: %w", err)
	}
	out := make([]match.Record, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}
