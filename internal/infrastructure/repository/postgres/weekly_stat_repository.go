package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/mlonzayes/dbr-fantasy/internal/domain/weeklystat"
	qb "github.com/mlonzayes/dbr-fantasy/internal/platform/querybuilder"
)

type WeeklyStatRepository struct {
	q sqlx.ExtContext
}

var weeklyStatSelectColumns = qb.Columns(weeklyStatTableModel{})

func (r *WeeklyStatRepository) Get(ctx context.Context, key weeklystat.Key) (weeklystat.WeeklyStat, bool, error) {
	query, args, err := qb.Select(weeklyStatSelectColumns...).From("weekly_stats").
		Where(
			qb.Eq("player_id", key.PlayerID),
			qb.Eq("week", key.Week),
			qb.Eq("year", key.Year),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return weeklystat.WeeklyStat{}, false, fmt.Errorf("build get weekly stat query: %w", err)
	}

	var row weeklyStatTableModel
	if err := sqlx.GetContext(ctx, r.q, &row, query, args...); err != nil {
		if isNotFound(err) {
			return weeklystat.WeeklyStat{}, false, nil
		}
		return weeklystat.WeeklyStat{}, false, fmt.Errorf("get weekly stat %s w%d/%d: %w", key.PlayerID, key.Week, key.Year, err)
	}
	return weeklystat.WeeklyStat(row), true, nil
}

func (r *WeeklyStatRepository) Upsert(ctx context.Context, item weeklystat.WeeklyStat) error {
	row := weeklyStatTableModel(item)
	row.CreatedAt = timeOrNow(row.CreatedAt)
	row.UpdatedAt = timeOrNow(row.UpdatedAt)

	query, args, err := qb.InsertModel("weekly_stats", row, `ON CONFLICT (player_id, week, year)
DO UPDATE SET
    points = EXCLUDED.points,
    price_delta = EXCLUDED.price_delta,
    updated_at = EXCLUDED.updated_at`)
	if err != nil {
		return fmt.Errorf("build upsert weekly stat query: %w", err)
	}

	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert weekly stat %s w%d/%d: %w", item.PlayerID, item.Week, item.Year, err)
	}
	return nil
}

func (r *WeeklyStatRepository) ListByPlayerIDs(ctx context.Context, playerIDs []string) ([]weeklystat.WeeklyStat, error) {
	if len(playerIDs) == 0 {
		return []weeklystat.WeeklyStat{}, nil
	}

	query, args, err := qb.Select(weeklyStatSelectColumns...).From("weekly_stats").
		Where(qb.Any("player_id", pq.Array(playerIDs))).
		OrderBy("player_id", "year", "week").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select weekly stats query: %w", err)
	}

	var rows []weeklyStatTableModel
	if err := sqlx.SelectContext(ctx, r.q, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select weekly stats: %w", err)
	}

	out := make([]weeklystat.WeeklyStat, 0, len(rows))
	for _, row := range rows {
		out = append(out, weeklystat.WeeklyStat(row))
	}
	return out, nil
}

func (r *WeeklyStatRepository) DeleteByPlayerID(ctx context.Context, playerID string) error {
	query, args, err := qb.DeleteFrom("weekly_stats").
		Where(qb.Eq("player_id", playerID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete weekly stats query: %w", err)
	}

	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete weekly stats of player %s: %w", playerID, err)
	}
	return nil
}
