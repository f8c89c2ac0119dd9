package postgres

import (
	"database/sql"
	"time"

	"github.com/futalytics/brasileirao-features/internal/domain/match"
)

type matchTableModel struct {
	ID          int64           `db:"id"`
	MatchDate   time.Time       `db:"match_date"`
	Competition string          `db:"competition"`
	Season      int             `db:"season"`
	Round       string          `db:"round"`
	HomeTeam    string          `db:"home_team"`
	AwayTeam    string          `db:"away_team"`
	HomeGoals   sql.NullInt64   `db:"home_goals"`
	AwayGoals   sql.NullInt64   `db:"away_goals"`
	HomeXG      sql.NullFloat64 `db:"home_xg"`
	AwayXG      sql.NullFloat64 `db:"away_xg"`
	City        string          `db:"city"`
}

func (m matchTableModel) toDomain() match.Record {
	return match.Record{
		ID:          m.ID,
		Date:        m.MatchDate,
		Competition: m.Competition,
		Season:      m.Season,
		Round:       m.Round,
		HomeTeam:    m.HomeTeam,
		AwayTeam:    m.AwayTeam,
		HomeGoals:   nullInt64ToIntPtr(m.HomeGoals),
		AwayGoals:   nullInt64ToIntPtr(m.AwayGoals),
		HomeXG:      nullFloat64ToPtr(m.HomeXG),
		AwayXG:      nullFloat64ToPtr(m.AwayXG),
		City:        m.City,
	}
}

func matchModelFromDomain(r match.Record) matchTableModel {
	return matchTableModel{
		ID:          r.ID,
		MatchDate:   r.Date,
		Competition: r.Competition,
		Season:      r.Season,
		Round:       r.Round,
		HomeTeam:    r.HomeTeam,
		AwayTeam:    r.AwayTeam,
		HomeGoals:   intPtrToNullInt64(r.HomeGoals),
		AwayGoals:   intPtrToNullInt64(r.AwayGoals),
		HomeXG:      floatPtrToNullFloat64(r.HomeXG),
		AwayXG:      floatPtrToNullFloat64(r.AwayXG),
		City:        r.City,
	}
}

func nullInt64ToIntPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}

func nullFloat64ToPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func intPtrToNullInt64(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func floatPtrToNullFloat64(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}
