package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/mlonzayes/dbr-fantasy/internal/domain/market"
	qb "github.com/mlonzayes/dbr-fantasy/internal/platform/querybuilder"
)

// appConfigRowID is the id of the single app_config row.
const appConfigRowID = 1

type MarketRepository struct {
	q sqlx.ExtContext
}

func (r *MarketRepository) GetConfig(ctx context.Context) (market.Config, bool, error) {
	query, args, err := qb.Select("id", "market_open", "updated_at").From("app_config").
		Where(qb.Eq("id", appConfigRowID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return market.Config{}, false, fmt.Errorf("build get app config query: %w", err)
	}

	var row appConfigTableModel
	if err := sqlx.GetContext(ctx, r.q, &row, query, args...); err != nil {
		if isNotFound(err) {
			return market.Config{}, false, nil
		}
		return market.Config{}, false, fmt.Errorf("get app config: %w", err)
	}
	return market.Config{MarketOpen: row.MarketOpen, UpdatedAt: row.UpdatedAt}, true, nil
}

func (r *MarketRepository) SaveConfig(ctx context.Context, cfg market.Config) error {
	row := appConfigTableModel{
		ID:         appConfigRowID,
		MarketOpen: cfg.MarketOpen,
		UpdatedAt:  timeOrNow(cfg.UpdatedAt),
	}
	query, args, err := qb.InsertModel("app_config", row, `ON CONFLICT (id)
DO UPDATE SET
    market_open = EXCLUDED.market_open,
    updated_at = EXCLUDED.updated_at`)
	if err != nil {
		return fmt.Errorf("build save app config query: %w", err)
	}

	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save app config: %w", err)
	}
	return nil
}
