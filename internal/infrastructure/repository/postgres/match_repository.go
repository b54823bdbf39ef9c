package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/mlonzayes/dbr-fantasy/internal/domain/match"
	qb "github.com/mlonzayes/dbr-fantasy/internal/platform/querybuilder"
)

var matchColumns = []string{"id", "round", "home_team", "away_team", "stadium", "match_date", "created_at"}

type MatchRepository struct {
	q sqlx.ExtContext
}

func (r *MatchRepository) List(ctx context.Context) ([]match.Match, error) {
	query, args, err := qb.Select(matchColumns...).From("matches").
		OrderBy("match_date ASC", "id ASC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select matches query: %w", err)
	}

	var rows []matchTableModel
	if err := sqlx.SelectContext(ctx, r.q, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select matches: %w", err)
	}

	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		out = append(out, match.Match(row))
	}
	return out, nil
}

func (r *MatchRepository) GetByID(ctx context.Context, matchID string) (match.Match, bool, error) {
	query, args, err := qb.Select(matchColumns...).From("matches").
		Where(qb.Eq("id", matchID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return match.Match{}, false, fmt.Errorf("build get match query: %w", err)
	}

	var row matchTableModel
	if err := sqlx.GetContext(ctx, r.q, &row, query, args...); err != nil {
		if isNotFound(err) {
			return match.Match{}, false, nil
		}
		return match.Match{}, false, fmt.Errorf("get match %s: %w", matchID, err)
	}
	return match.Match(row), true, nil
}

func (r *MatchRepository) Create(ctx context.Context, item match.Match) error {
	query, args, err := qb.InsertModel("matches", matchTableModel(item), "")
	if err != nil {
		return fmt.Errorf("build insert match query: %w", err)
	}

	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		if constraint, ok := uniqueViolation(err); ok && constraint == matchPKConstraint {
			return fmt.Errorf("match %s already exists", item.ID)
		}
		return fmt.Errorf("insert match %s: %w", item.ID, err)
	}
	return nil
}

func (r *MatchRepository) Delete(ctx context.Context, matchID string) (bool, error) {
	query, args, err := qb.DeleteFrom("matches").
		Where(qb.Eq("id", matchID)).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build delete match query: %w", err)
	}

	res, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("delete match %s: %w", matchID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete match %s: rows affected: %w", matchID, err)
	}
	return n > 0, nil
}
