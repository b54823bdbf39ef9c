package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mlonzayes/dbr-fantasy/internal/domain/match"
	idgen "github.com/mlonzayes/dbr-fantasy/internal/platform/id"
	"github.com/mlonzayes/dbr-fantasy/internal/platform/logging"
)

type CreateMatchInput struct {
	Round    string
	HomeTeam string
	AwayTeam string
	Stadium  string
	Date     time.Time
}

// CalendarService keeps the league fixture list shown next to the market.
type CalendarService struct {
	matchRepo match.Repository
	idGen     idgen.Generator
	logger    *logging.Logger
	now       func() time.Time
}

func NewCalendarService(matchRepo match.Repository, idGen idgen.Generator, logger *logging.Logger) *CalendarService {
	if logger == nil {
		logger = logging.Default()
	}

	return &CalendarService{
		matchRepo: matchRepo,
		idGen:     idGen,
		logger:    logger,
		now:       time.Now,
	}
}

// List returns fixtures by kickoff, optionally narrowed to one round.
func (s *CalendarService) List(ctx context.Context, round string) ([]match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CalendarService.List")
	defer span.End()

	items, err := s.matchRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}

	round = strings.TrimSpace(round)
	if round == "" {
		return items, nil
	}
	out := make([]match.Match, 0, len(items))
	for _, item := range items {
		if strings.EqualFold(item.Round, round) {
			out = append(out, item)
		}
	}
	return out, nil
}

func (s *CalendarService) Create(ctx context.Context, input CreateMatchInput) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CalendarService.Create")
	defer span.End()

	id, err := s.idGen.NewID()
	if err != nil {
		return match.Match{}, fmt.Errorf("generate match id: %w", err)
	}

	item := match.Match{
		ID:        id,
		Round:     strings.TrimSpace(input.Round),
		HomeTeam:  strings.TrimSpace(input.HomeTeam),
		AwayTeam:  strings.TrimSpace(input.AwayTeam),
		Stadium:   strings.TrimSpace(input.Stadium),
		Date:      input.Date.UTC(),
		CreatedAt: s.now().UTC(),
	}
	if err := item.Validate(); err != nil {
		return match.Match{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := s.matchRepo.Create(ctx, item); err != nil {
		return match.Match{}, fmt.Errorf("create match: %w", err)
	}

	s.logger.InfoContext(ctx, "match scheduled", "match_id", item.ID, "round", item.Round, "date", item.Date.Format(time.RFC3339))
	return item, nil
}

func (s *CalendarService) Delete(ctx context.Context, matchID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.CalendarService.Delete")
	defer span.End()

	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	removed, err := s.matchRepo.Delete(ctx, matchID)
	if err != nil {
		return fmt.Errorf("delete match: %w", err)
	}
	if !removed {
		return fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
	}

	s.logger.InfoContext(ctx, "match deleted", "match_id", matchID)
	return nil
}
