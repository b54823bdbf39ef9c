package app

import (
	"context"
	"fmt"

	"github.com/mlonzayes/dbr-fantasy/internal/config"
	"github.com/mlonzayes/dbr-fantasy/internal/domain/coach"
	"github.com/mlonzayes/dbr-fantasy/internal/domain/fantasy"
	"github.com/mlonzayes/dbr-fantasy/internal/domain/market"
	"github.com/mlonzayes/dbr-fantasy/internal/domain/match"
	"github.com/mlonzayes/dbr-fantasy/internal/domain/onboarding"
	"github.com/mlonzayes/dbr-fantasy/internal/domain/player"
	"github.com/mlonzayes/dbr-fantasy/internal/domain/uow"
	"github.com/mlonzayes/dbr-fantasy/internal/domain/user"
	"github.com/mlonzayes/dbr-fantasy/internal/domain/weeklystat"
	"github.com/mlonzayes/dbr-fantasy/internal/infrastructure/repository/memory"
	"github.com/mlonzayes/dbr-fantasy/internal/infrastructure/repository/postgres"
	"github.com/mlonzayes/dbr-fantasy/internal/platform/logging"
)

// storage bundles the unit of work with read repositories bound outside any transaction.
type storage struct {
	store       uow.Store
	players     player.Repository
	coaches     coach.Repository
	users       user.Repository
	teams       fantasy.Repository
	weeklyStats weeklystat.Repository
	market      market.Repository
	onboarding  onboarding.Repository
	matches     match.Repository
	close       func() error
}

func openStorage(ctx context.Context, cfg config.Config, logger *logging.Logger) (*storage, error) {
	switch cfg.StorageDriver {
	case config.StoragePostgres:
		return openPostgresStorage(ctx, cfg, logger)
	default:
		return openMemoryStorage(ctx, cfg, logger)
	}
}

func openMemoryStorage(ctx context.Context, cfg config.Config, logger *logging.Logger) (*storage, error) {
	store := memory.NewStore()
	if cfg.SeedCatalog {
		if err := memory.Seed(ctx, store, memory.SeedPlayers(), memory.SeedCoaches()); err != nil {
			return nil, fmt.Errorf("seed memory store: %w", err)
		}
		logger.Info("memory catalog seeded")
	}

	return &storage{
		store:       store,
		players:     store.Players(),
		coaches:     store.Coaches(),
		users:       store.Users(),
		teams:       store.Teams(),
		weeklyStats: store.WeeklyStats(),
		market:      store.Market(),
		onboarding:  store.Onboarding(),
		matches:     store.Matches(),
		close:       func() error { return nil },
	}, nil
}

func openPostgresStorage(ctx context.Context, cfg config.Config, logger *logging.Logger) (*storage, error) {
	db, err := postgres.Open(ctx, postgres.OpenConfig{
		URL:                         cfg.DBURL,
		DisablePreparedBinaryResult: cfg.DBDisablePreparedBinary,
	})
	if err != nil {
		return nil, err
	}

	if cfg.SeedCatalog {
		if err := postgres.BootstrapSeed(ctx, db, memory.SeedPlayers(), memory.SeedCoaches()); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("seed postgres catalog: %w", err)
		}
	}
	logger.Info("postgres storage ready")

	store := postgres.NewStore(db)
	return &storage{
		store:       store,
		players:     store.Players(),
		coaches:     store.Coaches(),
		users:       store.Users(),
		teams:       store.Teams(),
		weeklyStats: store.WeeklyStats(),
		market:      store.Market(),
		onboarding:  store.Onboarding(),
		matches:     store.Matches(),
		close:       db.Close,
	}, nil
}
