package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/mlonzayes/dbr-fantasy/internal/config"
	"github.com/mlonzayes/dbr-fantasy/internal/domain/coach"
	"github.com/mlonzayes/dbr-fantasy/internal/domain/fantasy"
	"github.com/mlonzayes/dbr-fantasy/internal/domain/market"
	"github.com/mlonzayes/dbr-fantasy/internal/domain/player"
	"github.com/mlonzayes/dbr-fantasy/internal/domain/weeklystat"
	"github.com/mlonzayes/dbr-fantasy/internal/infrastructure/account/identity"
	repocache "github.com/mlonzayes/dbr-fantasy/internal/infrastructure/repository/cache"
	"github.com/mlonzayes/dbr-fantasy/internal/interfaces/httpapi"
	basecache "github.com/mlonzayes/dbr-fantasy/internal/platform/cache"
	idgen "github.com/mlonzayes/dbr-fantasy/internal/platform/id"
	"github.com/mlonzayes/dbr-fantasy/internal/platform/logging"
	"github.com/mlonzayes/dbr-fantasy/internal/platform/resilience"
	"github.com/mlonzayes/dbr-fantasy/internal/usecase"
)

// App owns the HTTP server and the background jobs that share its storage.
type App struct {
	Server    *http.Server
	logger    *logging.Logger
	storage   *storage
	scheduler gocron.Scheduler
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	st, err := openStorage(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	var (
		playerRepo  player.Repository = st.players
		coachRepo   coach.Repository  = st.coaches
		invalidator usecase.CatalogInvalidator
	)
	if cfg.CacheEnabled {
		catalogCache := basecache.NewStore(cfg.CacheTTL)
		playerRepo = repocache.NewPlayerRepository(st.players, catalogCache)
		coachRepo = repocache.NewCoachRepository(st.coaches, catalogCache)
		invalidator = repocache.NewInvalidator(catalogCache)
	}

	window := newWindow(cfg, st.market)
	rules := fantasy.DefaultRules()
	rules.BudgetCap = cfg.BudgetCap

	rosterSvc := usecase.NewRosterService(
		st.store,
		playerRepo,
		coachRepo,
		st.teams,
		st.users,
		st.weeklyStats,
		window,
		rules,
		usecase.RosterConfig{
			RequireOpenWindow: cfg.DraftRequiresOpenWindow,
			StartingBalance:   cfg.StartingBalance,
		},
		idgen.NewUUIDGenerator("team"),
		logger,
	)
	marketSvc := usecase.NewMarketService(st.store, window, rules, usecase.MarketConfig{EnforceQuota: cfg.MarketEnforceQuota}, logger)
	scoringSvc := usecase.NewScoringService(st.store, invalidator, usecase.ScoringConfig{
		PriceModel: weeklystat.PriceModel(cfg.ScoringPriceModel),
		Workers:    cfg.ScoringWorkers,
	}, logger)
	catalogSvc := usecase.NewCatalogService(st.store, playerRepo, coachRepo, invalidator, idgen.NewUUIDGenerator("plr"), logger)
	windowSvc := usecase.NewTransferWindowService(market.Mode(cfg.TransferWindowMode), window, st.market, logger)
	rankingSvc := usecase.NewRankingService(st.teams, playerRepo)
	accountSvc := usecase.NewAccountService(st.store, st.users, usecase.AccountConfig{
		StartingBalance: cfg.StartingBalance,
		AdminUserIDs:    cfg.AdminUserIDs,
	}, logger)
	onboardingSvc := usecase.NewOnboardingService(st.onboarding)
	calendarSvc := usecase.NewCalendarService(st.matches, idgen.NewUUIDGenerator("match"), logger)

	identityClient, err := identity.NewClient(identity.ClientConfig{
		BaseURL:        cfg.IdentityBaseURL,
		IntrospectPath: cfg.IdentityIntrospectPath,
		Timeout:        cfg.IdentityTimeout,
		CacheTTL:       cfg.IdentityCacheTTL,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.IdentityCircuitEnabled,
			FailureThreshold: cfg.IdentityCircuitFailureCount,
			OpenTimeout:      cfg.IdentityCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.IdentityCircuitHalfOpenMaxReq,
		},
		Logger: logger,
	})
	if err != nil {
		_ = st.close()
		return nil, fmt.Errorf("build identity client: %w", err)
	}

	handler := httpapi.NewHandler(
		rosterSvc,
		marketSvc,
		scoringSvc,
		catalogSvc,
		windowSvc,
		rankingSvc,
		accountSvc,
		onboardingSvc,
		calendarSvc,
		logger,
	)
	router := httpapi.NewRouter(handler, identityClient, accountSvc, logger, cfg.CORSAllowedOrigins, cfg.InternalWebhookToken)

	app := &App{
		Server: &http.Server{
			Addr:              cfg.HTTPAddr,
			Handler:           router,
			ReadTimeout:       cfg.ReadTimeout,
			ReadHeaderTimeout: cfg.ReadTimeout,
			WriteTimeout:      cfg.WriteTimeout,
		},
		logger:  logger,
		storage: st,
	}

	if cfg.MarketMonitorEnabled {
		scheduler, err := startWindowMonitor(windowSvc, cfg.MarketMonitorInterval, logger)
		if err != nil {
			_ = st.close()
			return nil, err
		}
		app.scheduler = scheduler
	}

	return app, nil
}

func newWindow(cfg config.Config, repo market.Repository) market.Window {
	if cfg.TransferWindowMode == config.WindowModeSchedule {
		schedule := market.DefaultSchedule()
		if loc, err := time.LoadLocation(cfg.TransferWindowTimezone); err == nil {
			schedule.Location = loc
		}
		schedule.Weekday = cfg.TransferWindowClosedWeekday
		schedule.FromHour = cfg.TransferWindowClosedFromHour
		schedule.ToHour = cfg.TransferWindowClosedToHour
		return market.NewScheduleWindow(schedule, time.Now)
	}
	return market.NewFlagWindow(repo)
}

// Shutdown stops background jobs, drains the HTTP server and closes storage.
func (a *App) Shutdown(ctx context.Context) error {
	var errs []error
	if a.scheduler != nil {
		if err := a.scheduler.Shutdown(); err != nil {
			errs = append(errs, fmt.Errorf("stop scheduler: %w", err))
		}
	}
	if err := a.Server.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("shutdown http server: %w", err))
	}
	if err := a.storage.close(); err != nil {
		errs = append(errs, fmt.Errorf("close storage: %w", err))
	}
	return errors.Join(errs...)
}
