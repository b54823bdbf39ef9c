package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/mlonzayes/dbr-fantasy/internal/domain/player"
	qb "github.com/mlonzayes/dbr-fantasy/internal/platform/querybuilder"
)

type PlayerRepository struct {
	q sqlx.ExtContext
}

var playerSelectColumns = qb.Columns(playerTableModel{})

func (r *PlayerRepository) List(ctx context.Context) ([]player.Player, error) {
	query, args, err := qb.Select(playerSelectColumns...).From("players").
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select players query: %w", err)
	}

	var rows []playerTableModel
	if err := sqlx.SelectContext(ctx, r.q, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select players: %w", err)
	}

	return playersFromRows(rows), nil
}

func (r *PlayerRepository) GetByID(ctx context.Context, playerID string) (player.Player, bool, error) {
	return r.get(ctx, playerID, false)
}

func (r *PlayerRepository) GetForUpdate(ctx context.Context, playerID string) (player.Player, bool, error) {
	return r.get(ctx, playerID, true)
}

func (r *PlayerRepository) get(ctx context.Context, playerID string, lock bool) (player.Player, bool, error) {
	builder := qb.Select(playerSelectColumns...).From("players").
		Where(qb.Eq("id", playerID)).
		Limit(1)
	if lock {
		builder = builder.ForUpdate()
	}
	query, args, err := builder.ToSQL()
	if err != nil {
		return player.Player{}, false, fmt.Errorf("build get player query: %w", err)
	}

	var row playerTableModel
	if err := sqlx.GetContext(ctx, r.q, &row, query, args...); err != nil {
		if isNotFound(err) {
			return player.Player{}, false, nil
		}
		return player.Player{}, false, fmt.Errorf("get player %s: %w", playerID, err)
	}

	return playerFromRow(row), true, nil
}

func (r *PlayerRepository) GetByIDs(ctx context.Context, playerIDs []string) ([]player.Player, error) {
	if len(playerIDs) == 0 {
		return []player.Player{}, nil
	}

	query, args, err := qb.Select(playerSelectColumns...).From("players").
		Where(qb.Any("id", pq.Array(playerIDs))).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select players by ids query: %w", err)
	}

	var rows []playerTableModel
	if err := sqlx.SelectContext(ctx, r.q, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select players by ids: %w", err)
	}

	return playersFromRows(rows), nil
}

func (r *PlayerRepository) Create(ctx context.Context, item player.Player) error {
	query, args, err := qb.InsertModel("players", playerRowFromDomain(item), "")
	if err != nil {
		return fmt.Errorf("build insert player query: %w", err)
	}

	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		if constraint, ok := uniqueViolation(err); ok && constraint == playerPKConstraint {
			return fmt.Errorf("player %s already exists", item.ID)
		}
		return fmt.Errorf("insert player %s: %w", item.ID, err)
	}
	return nil
}

func (r *PlayerRepository) Update(ctx context.Context, item player.Player) error {
	row := playerRowFromDomain(item)
	query, args, err := qb.Update("players").
		Set("name", row.Name).
		Set("position", row.Position).
		Set("division", row.Division).
		Set("base_price", row.BasePrice).
		Set("current_price", row.CurrentPrice).
		Set("total_points", row.TotalPoints).
		Set("image_url", row.ImageURL).
		Set("updated_at", row.UpdatedAt).
		Where(qb.Eq("id", item.ID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update player query: %w", err)
	}

	res, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update player %s: %w", item.ID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("player %s not found", item.ID)
	}
	return nil
}

func (r *PlayerRepository) Delete(ctx context.Context, playerID string) error {
	query, args, err := qb.DeleteFrom("players").
		Where(qb.Eq("id", playerID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete player query: %w", err)
	}

	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete player %s: %w", playerID, err)
	}
	return nil
}

func playerRowFromDomain(item player.Player) playerTableModel {
	return playerTableModel{
		ID:           item.ID,
		Name:         item.Name,
		Position:     string(item.Position),
		Division:     item.Division,
		BasePrice:    item.BasePrice,
		CurrentPrice: item.CurrentPrice,
		TotalPoints:  item.TotalPoints,
		ImageURL:     item.ImageURL,
		CreatedAt:    timeOrNow(item.CreatedAt),
		UpdatedAt:    timeOrNow(item.UpdatedAt),
	}
}

func playerFromRow(row playerTableModel) player.Player {
	return player.Player{
		ID:           row.ID,
		Name:         row.Name,
		Position:     player.Position(row.Position),
		Division:     row.Division,
		BasePrice:    row.BasePrice,
		CurrentPrice: row.CurrentPrice,
		TotalPoints:  row.TotalPoints,
		ImageURL:     row.ImageURL,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
}

func playersFromRows(rows []playerTableModel) []player.Player {
	out := make([]player.Player, 0, len(rows))
	for _, row := range rows {
		out = append(out, playerFromRow(row))
	}
	return out
}

func timeOrNow(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now().UTC()
	}
	return t
}
