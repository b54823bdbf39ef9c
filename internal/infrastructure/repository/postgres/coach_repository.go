package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/mlonzayes/dbr-fantasy/internal/domain/coach"
	qb "github.com/mlonzayes/dbr-fantasy/internal/platform/querybuilder"
)

type CoachRepository struct {
	q sqlx.ExtContext
}

func (r *CoachRepository) List(ctx context.Context) ([]coach.Coach, error) {
	query, args, err := qb.Select("id", "name", "image_url").From("coaches").
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select coaches query: %w", err)
	}

	var rows []coachTableModel
	if err := sqlx.SelectContext(ctx, r.q, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select coaches: %w", err)
	}

	out := make([]coach.Coach, 0, len(rows))
	for _, row := range rows {
		out = append(out, coach.Coach(row))
	}
	return out, nil
}

func (r *CoachRepository) GetByID(ctx context.Context, coachID string) (coach.Coach, bool, error) {
	query, args, err := qb.Select("id", "name", "image_url").From("coaches").
		Where(qb.Eq("id", coachID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return coach.Coach{}, false, fmt.Errorf("build get coach query: %w", err)
	}

	var row coachTableModel
	if err := sqlx.GetContext(ctx, r.q, &row, query, args...); err != nil {
		if isNotFound(err) {
			return coach.Coach{}, false, nil
		}
		return coach.Coach{}, false, fmt.Errorf("get coach %s: %w", coachID, err)
	}
	return coach.Coach(row), true, nil
}

func (r *CoachRepository) Create(ctx context.Context, item coach.Coach) error {
	query, args, err := qb.InsertModel("coaches", coachTableModel(item), "")
	if err != nil {
		return fmt.Errorf("build insert coach query: %w", err)
	}

	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		if constraint, ok := uniqueViolation(err); ok && constraint == coachPKConstraint {
			return fmt.Errorf("coach %s already exists", item.ID)
		}
		return fmt.Errorf("insert coach %s: %w", item.ID, err)
	}
	return nil
}

func (r *CoachRepository) Delete(ctx context.Context, coachID string) error {
	query, args, err := qb.DeleteFrom("coaches").
		Where(qb.Eq("id", coachID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete coach query: %w", err)
	}

	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete coach %s: %w", coachID, err)
	}
	return nil
}
