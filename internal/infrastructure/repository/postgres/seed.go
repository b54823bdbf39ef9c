package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/mlonzayes/dbr-fantasy/internal/domain/coach"
	"github.com/mlonzayes/dbr-fantasy/internal/domain/player"
)

// BootstrapSeed loads the catalog fixtures into an empty players table.
func BootstrapSeed(ctx context.Context, db *sqlx.DB, players []player.Player, coaches []coach.Coach) error {
	var count int
	if err := db.GetContext(ctx, &count, `SELECT COUNT(1) FROM players`); err != nil {
		return fmt.Errorf("count players for bootstrap seed: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, p := range players {
		sqlQuery, args, err := sqlx.Named(`
INSERT INTO players (id, name, position, division, base_price, current_price, total_points, image_url)
VALUES (:id, :name, :position, :division, :base_price, :current_price, :total_points, :image_url)
ON CONFLICT (id) DO NOTHING`, playerRowFromDomain(p))
		if err != nil {
			return fmt.Errorf("bind seed player %s query: %w", p.ID, err)
		}
		sqlQuery = tx.Rebind(sqlQuery)
		if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
			return fmt.Errorf("seed player %s: %w", p.ID, err)
		}
	}

	for _, c := range coaches {
		sqlQuery, args, err := sqlx.Named(`
INSERT INTO coaches (id, name, image_url)
VALUES (:id, :name, :image_url)
ON CONFLICT (id) DO NOTHING`, coachTableModel(c))
		if err != nil {
			return fmt.Errorf("bind seed coach %s query: %w", c.ID, err)
		}
		sqlQuery = tx.Rebind(sqlQuery)
		if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
			return fmt.Errorf("seed coach %s: %w", c.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed tx: %w", err)
	}
	return nil
}
