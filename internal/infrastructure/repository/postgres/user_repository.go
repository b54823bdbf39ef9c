package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/mlonzayes/dbr-fantasy/internal/domain/user"
	qb "github.com/mlonzayes/dbr-fantasy/internal/platform/querybuilder"
)

type UserRepository struct {
	q sqlx.ExtContext
}

var userSelectColumns = qb.Columns(userTableModel{})

func (r *UserRepository) GetByID(ctx context.Context, userID string) (user.User, bool, error) {
	return r.get(ctx, userID, false)
}

func (r *UserRepository) GetForUpdate(ctx context.Context, userID string) (user.User, bool, error) {
	return r.get(ctx, userID, true)
}

func (r *UserRepository) get(ctx context.Context, userID string, lock bool) (user.User, bool, error) {
	builder := qb.Select(userSelectColumns...).From("users").
		Where(qb.Eq("id", userID)).
		Limit(1)
	if lock {
		builder = builder.ForUpdate()
	}
	query, args, err := builder.ToSQL()
	if err != nil {
		return user.User{}, false, fmt.Errorf("build get user query: %w", err)
	}

	var row userTableModel
	if err := sqlx.GetContext(ctx, r.q, &row, query, args...); err != nil {
		if isNotFound(err) {
			return user.User{}, false, nil
		}
		return user.User{}, false, fmt.Errorf("get user %s: %w", userID, err)
	}

	return user.User(row), true, nil
}

func (r *UserRepository) Create(ctx context.Context, item user.User) (bool, error) {
	row := userTableModel(item)
	row.CreatedAt = timeOrNow(row.CreatedAt)
	row.UpdatedAt = timeOrNow(row.UpdatedAt)

	query, args, err := qb.InsertModel("users", row, "ON CONFLICT (id) DO NOTHING")
	if err != nil {
		return false, fmt.Errorf("build insert user query: %w", err)
	}

	res, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("insert user %s: %w", item.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("insert user %s rows affected: %w", item.ID, err)
	}
	return n > 0, nil
}

func (r *UserRepository) UpdateBalance(ctx context.Context, userID string, balance int64) error {
	if balance < 0 {
		return fmt.Errorf("%w: balance=%d", user.ErrInsufficientBalance, balance)
	}

	query, args, err := qb.Update("users").
		Set("balance", balance).
		Set("updated_at", time.Now().UTC()).
		Where(qb.Eq("id", userID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update user balance query: %w", err)
	}

	res, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update user %s balance: %w", userID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("user %s not found", userID)
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, userID string) error {
	query, args, err := qb.DeleteFrom("users").
		Where(qb.Eq("id", userID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete user query: %w", err)
	}

	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete user %s: %w", userID, err)
	}
	return nil
}
