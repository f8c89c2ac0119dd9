package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/futalytics/brasileirao-features/internal/domain/playerstat"
	qb "github.com/futalytics/brasileirao-features/internal/platform/querybuilder"
)

type playerStatTableModel struct {
	MatchID  int64  `db:"match_id"`
	PlayerID int64  `db:"player_id"`
	Team     string `db:"team"`
	Goals    int    `db:"goals"`
	Assists  int    `db:"assists"`
}

func (m playerStatTableModel) toDomain() playerstat.Stat {
	return playerstat.Stat{
		MatchID:  m.MatchID,
		PlayerID: m.PlayerID,
		Team:     m.Team,
		Goals:    m.Goals,
		Assists:  m.Assists,
	}
}

type PlayerStatRepository struct {
	db *sqlx.DB
}

func NewPlayerStatRepository(db *sqlx.DB) *PlayerStatRepository {
	return &PlayerStatRepository{db: db}
}

func (r *PlayerStatRepository) ListAll(ctx context.Context) ([]playerstat.Stat, error) {
	query, args, err := qb.Select("match_id, player_id, team, goals, assists").
		From("player_stats").
		OrderBy("match_id", "player_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select player stats query: %w", err)
	}
	return r.selectStats(ctx, query, args)
}

func (r *PlayerStatRepository) ListBySeason(ctx context.Context, season int) ([]playerstat.Stat, error) {
	// Player stats carry no season of their own; join through matches.
	query := `SELECT ps.match_id, ps.player_id, ps.team, ps.goals, ps.assists
FROM player_stats ps
JOIN matches m ON m.id = ps.match_id
WHERE m.season = $1
ORDER BY ps.match_id, ps.player_id`
	return r.selectStats(ctx, query, []any{season})
}

func (r *PlayerStatRepository) HasMatch(ctx context.Context, matchID int64) (bool, error) {
	query, args, err := qb.Select("COUNT(1)").From("player_stats").
		Where(qb.Eq("match_id", matchID)).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build count player stats query: %w", err)
	}

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return false, fmt.Errorf("count player stats for match %d: %w", matchID, err)
	}
	return count > 0, nil
}

func (r *PlayerStatRepository) UpsertBatch(ctx context.Context, stats []playerstat.Stat) (int, error) {
	if len(stats) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin upsert player stats tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	const suffix = `ON CONFLICT (match_id, player_id) DO UPDATE
SET team = EXCLUDED.team, goals = EXCLUDED.goals, assists = EXCLUDED.assists`

	written := 0
	for _, stat := range stats {
		model := playerStatTableModel{
			MatchID:  stat.MatchID,
			PlayerID: stat.PlayerID,
			Team:     stat.Team,
			Goals:    stat.Goals,
			Assists:  stat.Assists,
		}
		query, args, err := qb.InsertModel("player_stats", model, suffix)
		if err != nil {
			return 0, fmt.Errorf("build upsert player stat query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return 0, fmt.Errorf("upsert player stat match=%d player=%d: %w", stat.MatchID, stat.PlayerID, err)
		}
		written++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit upsert player stats tx: %w", err)
	}
	return written, nil
}

func (r *PlayerStatRepository) selectStats(ctx context.Context, query string, args []any) ([]playerstat.Stat, error) {
	var rows []playerStatTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select player stats: %w", err)
	}
	out := make([]playerstat.Stat, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}
