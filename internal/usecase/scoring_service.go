package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mlonzayes/dbr-fantasy/internal/domain/uow"
	"github.com/mlonzayes/dbr-fantasy/internal/domain/weeklystat"
	"github.com/mlonzayes/dbr-fantasy/internal/platform/logging"
	"github.com/panjf2000/ants/v2"
	"github.com/sourcegraph/conc/iter"
	"go.opentelemetry.io/otel/attribute"
)

type IngestWeeklyScoresInput struct {
	Week int
	Year int
	Rows []weeklystat.RawRow
}

type IngestWeeklyScoresResult struct {
	Processed        int
	DivisionsUpdated int
	PricesChanged    int
	Errors           []string
}

type ScoringConfig struct {
	PriceModel weeklystat.PriceModel
	Workers    int
}

type ScoringService struct {
	store       uow.Store
	invalidator CatalogInvalidator
	cfg         ScoringConfig
	logger      *logging.Logger
	now         func() time.Time
}

func NewScoringService(store uow.Store, invalidator CatalogInvalidator, cfg ScoringConfig, logger *logging.Logger) *ScoringService {
	if logger == nil {
		logger = logging.Default()
	}
	if invalidator == nil {
		invalidator = noopCatalogInvalidator{}
	}
	if cfg.PriceModel == "" {
		cfg.PriceModel = weeklystat.PriceModelPerformance
	}
	if cfg.Workers < 1 {
		cfg.Workers = 4
	}

	return &ScoringService{
		store:       store,
		invalidator: invalidator,
		cfg:         cfg,
		logger:      logger,
		now:         time.Now,
	}
}

type rowOutcome struct {
	divisionUpdated bool
	priceChanged    bool
}

type lineError struct {
	line int
	msg  string
}

// IngestWeeklyScores applies each row in its own unit of work. A failing row is
// reported and never rolls back the others.
func (s *ScoringService) IngestWeeklyScores(ctx context.Context, input IngestWeeklyScoresInput) (IngestWeeklyScoresResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.IngestWeeklyScores",
		attribute.Int("score.week", input.Week),
		attribute.Int("score.year", input.Year),
		attribute.Int("score.rows", len(input.Rows)),
	)
	defer span.End()

	if err := weeklystat.ValidatePeriod(input.Week, input.Year); err != nil {
		return IngestWeeklyScoresResult{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if len(input.Rows) == 0 {
		return IngestWeeklyScoresResult{}, fmt.Errorf("%w: rows are required", ErrInvalidInput)
	}

	parsed := make([]weeklystat.ParsedRow, len(input.Rows))
	iter.ForEachIdx(input.Rows, func(i int, raw *weeklystat.RawRow) {
		parsed[i] = weeklystat.ParseRow(i+1, *raw, input.Week, input.Year)
	})

	var (
		mu        sync.Mutex
		failures  []lineError
		processed atomic.Int32
		divisions atomic.Int32
		prices    atomic.Int32
	)
	fail := func(line int, err error) {
		mu.Lock()
		failures = append(failures, lineError{line: line, msg: fmt.Sprintf("row %d: %v", line, err)})
		mu.Unlock()
	}

	pool, err := ants.NewPool(normalizeScoringWorkerCount(s.cfg.Workers, len(parsed)))
	if err != nil {
		return IngestWeeklyScoresResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var workers sync.WaitGroup
	for _, row := range parsed {
		if !row.Valid() {
			fail(row.Line, row.Err)
			continue
		}

		record := *row.Record
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			outcome, err := s.applyRecord(ctx, record)
			if err != nil {
				fail(record.Line, err)
				return
			}
			processed.Add(1)
			if outcome.divisionUpdated {
				divisions.Add(1)
			}
			if outcome.priceChanged {
				prices.Add(1)
			}
		}); err != nil {
			workers.Done()
			fail(record.Line, fmt.Errorf("submit to worker pool: %w", err))
		}
	}
	workers.Wait()
	if processed.Load() > 0 {
		s.invalidator.InvalidateCatalog(ctx)
	}

	sort.SliceStable(failures, func(i, j int) bool { return failures[i].line < failures[j].line })
	result := IngestWeeklyScoresResult{
		Processed:        int(processed.Load()),
		DivisionsUpdated: int(divisions.Load()),
		PricesChanged:    int(prices.Load()),
		Errors:           make([]string, 0, len(failures)),
	}
	for _, f := range failures {
		result.Errors = append(result.Errors, f.msg)
	}

	s.logger.InfoContext(ctx, "weekly scores ingested",
		"week", input.Week,
		"year", input.Year,
		"rows", len(input.Rows),
		"processed", result.Processed,
		"failed", len(result.Errors),
		"price_model", string(s.cfg.PriceModel),
	)

	return result, nil
}

func (s *ScoringService) applyRecord(ctx context.Context, record weeklystat.ScoreRecord) (rowOutcome, error) {
	var outcome rowOutcome
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx uow.Tx) error {
		p, exists, err := tx.Players().GetForUpdate(ctx, record.PlayerID)
		if err != nil {
			return fmt.Errorf("lock player: %w", err)
		}
		if !exists {
			return fmt.Errorf("%w: player=%s", ErrNotFound, record.PlayerID)
		}

		key := weeklystat.Key{PlayerID: record.PlayerID, Week: record.Week, Year: record.Year}
		stat, exists, err := tx.WeeklyStats().Get(ctx, key)
		if err != nil {
			return fmt.Errorf("get weekly stat: %w", err)
		}

		now := s.now().UTC()
		delta := record.Points
		if exists {
			delta = record.Points - stat.Points
		} else {
			stat = weeklystat.WeeklyStat{
				PlayerID:  record.PlayerID,
				Week:      record.Week,
				Year:      record.Year,
				CreatedAt: now,
			}
		}
		stat.Points = record.Points
		stat.UpdatedAt = now
		p.TotalPoints += delta

		if s.cfg.PriceModel == weeklystat.PriceModelPerformance && delta != 0 {
			next, applied := weeklystat.ApplyPriceBump(p.CurrentPrice, delta)
			p.CurrentPrice = next
			stat.PriceDelta += applied
			outcome.priceChanged = applied != 0
		}
		if record.Division != "" && record.Division != p.Division {
			p.Division = record.Division
			outcome.divisionUpdated = true
		}
		p.UpdatedAt = now

		if err := tx.WeeklyStats().Upsert(ctx, stat); err != nil {
			return fmt.Errorf("upsert weekly stat: %w", err)
		}
		if err := tx.Players().Update(ctx, p); err != nil {
			return fmt.Errorf("update player: %w", err)
		}
		return nil
	})
	return outcome, err
}

func normalizeScoringWorkerCount(value, taskCount int) int {
	if value < 1 {
		value = 1
	}
	if taskCount > 0 && value > taskCount {
		value = taskCount
	}
	return value
}
