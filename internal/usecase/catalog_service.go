package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/mlonzayes/dbr-fantasy/internal/domain/coach"
	"github.com/mlonzayes/dbr-fantasy/internal/domain/player"
	"github.com/mlonzayes/dbr-fantasy/internal/domain/uow"
	idgen "github.com/mlonzayes/dbr-fantasy/internal/platform/id"
	"github.com/mlonzayes/dbr-fantasy/internal/platform/logging"
)

// CatalogInvalidator drops cached catalog reads after a write.
type CatalogInvalidator interface {
	InvalidateCatalog(ctx context.Context)
}

type noopCatalogInvalidator struct{}

func (noopCatalogInvalidator) InvalidateCatalog(context.Context) {}

type PlayerFilter struct {
	Position player.Position
	Division string
}

type CreatePlayerInput struct {
	Name     string
	Position string
	Division string
	Price    int64
	ImageURL string
}

type CreateCoachInput struct {
	Name     string
	ImageURL string
}

type PriceAdjustment struct {
	PlayerID string
	Delta    int64
}

type BulkCreateResult struct {
	Players []player.Player
	Errors  []string
}

type BulkPriceResult struct {
	Updated int
	Errors  []string
}

type DeletePlayerResult struct {
	PlayerID      string
	RefundedUsers int
	RefundAmount  int64
}

type CatalogService struct {
	store       uow.Store
	playerRepo  player.Repository
	coachRepo   coach.Repository
	invalidator CatalogInvalidator
	idGen       idgen.Generator
	logger      *logging.Logger
	now         func() time.Time
}

func NewCatalogService(
	store uow.Store,
	playerRepo player.Repository,
	coachRepo coach.Repository,
	invalidator CatalogInvalidator,
	idGen idgen.Generator,
	logger *logging.Logger,
) *CatalogService {
	if logger == nil {
		logger = logging.Default()
	}
	if invalidator == nil {
		invalidator = noopCatalogInvalidator{}
	}

	return &CatalogService{
		store:       store,
		playerRepo:  playerRepo,
		coachRepo:   coachRepo,
		invalidator: invalidator,
		idGen:       idGen,
		logger:      logger,
		now:         time.Now,
	}
}

func (s *CatalogService) ListPlayers(ctx context.Context, filter PlayerFilter) ([]player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CatalogService.ListPlayers")
	defer span.End()

	if filter.Position != "" {
		if _, ok := player.AllPositions[filter.Position]; !ok {
			return nil, fmt.Errorf("%w: unknown position %s", ErrInvalidInput, filter.Position)
		}
	}

	items, err := s.playerRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}

	division := strings.TrimSpace(filter.Division)
	out := make([]player.Player, 0, len(items))
	for _, item := range items {
		if filter.Position != "" && item.Position != filter.Position {
			continue
		}
		if division != "" && !strings.EqualFold(item.Division, division) {
			continue
		}
		out = append(out, item)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CurrentPrice != out[j].CurrentPrice {
			return out[i].CurrentPrice > out[j].CurrentPrice
		}
		return out[i].Name < out[j].Name
	})

	return out, nil
}

func (s *CatalogService) GetPlayer(ctx context.Context, playerID string) (player.Player, error) {
	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return player.Player{}, fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}

	item, exists, err := s.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		return player.Player{}, fmt.Errorf("get player: %w", err)
	}
	if !exists {
		return player.Player{}, fmt.Errorf("%w: player=%s", ErrNotFound, playerID)
	}
	return item, nil
}

func (s *CatalogService) ListCoaches(ctx context.Context) ([]coach.Coach, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CatalogService.ListCoaches")
	defer span.End()

	items, err := s.coachRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list coaches: %w", err)
	}
	return items, nil
}

func (s *CatalogService) CreatePlayer(ctx context.Context, input CreatePlayerInput) (player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CatalogService.CreatePlayer")
	defer span.End()

	item, err := s.createPlayer(ctx, input)
	if err != nil {
		return player.Player{}, err
	}
	s.invalidator.InvalidateCatalog(ctx)

	s.logger.InfoContext(ctx, "player created", "player_id", item.ID, "position", string(item.Position), "price", item.CurrentPrice)
	return item, nil
}

// BulkCreatePlayers creates each row on its own; bad rows are reported and skipped.
func (s *CatalogService) BulkCreatePlayers(ctx context.Context, inputs []CreatePlayerInput) (BulkCreateResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CatalogService.BulkCreatePlayers")
	defer span.End()

	if len(inputs) == 0 {
		return BulkCreateResult{}, fmt.Errorf("%w: players are required", ErrInvalidInput)
	}

	result := BulkCreateResult{Players: []player.Player{}, Errors: []string{}}
	for i, input := range inputs {
		item, err := s.createPlayer(ctx, input)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d (%s): %v", i+1, strings.TrimSpace(input.Name), err))
			continue
		}
		result.Players = append(result.Players, item)
	}
	if len(result.Players) > 0 {
		s.invalidator.InvalidateCatalog(ctx)
	}

	s.logger.InfoContext(ctx, "players bulk created", "rows", len(inputs), "created", len(result.Players), "failed", len(result.Errors))
	return result, nil
}

func (s *CatalogService) createPlayer(ctx context.Context, input CreatePlayerInput) (player.Player, error) {
	position, err := player.ParsePosition(input.Position)
	if err != nil {
		return player.Player{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	id, err := s.idGen.NewID()
	if err != nil {
		return player.Player{}, fmt.Errorf("generate player id: %w", err)
	}

	now := s.now().UTC()
	price := player.ClampPrice(input.Price)
	item := player.Player{
		ID:           id,
		Name:         strings.TrimSpace(input.Name),
		Position:     position,
		Division:     strings.TrimSpace(input.Division),
		BasePrice:    price,
		CurrentPrice: price,
		ImageURL:     strings.TrimSpace(input.ImageURL),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := item.Validate(); err != nil {
		return player.Player{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.playerRepo.Create(ctx, item); err != nil {
		return player.Player{}, fmt.Errorf("create player: %w", err)
	}
	return item, nil
}

// AdjustPrice moves a player's current price by delta, clamped to the legal range.
func (s *CatalogService) AdjustPrice(ctx context.Context, playerID string, delta int64) (player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CatalogService.AdjustPrice")
	defer span.End()

	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return player.Player{}, fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}

	var updated player.Player
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx uow.Tx) error {
		item, exists, err := tx.Players().GetForUpdate(ctx, playerID)
		if err != nil {
			return fmt.Errorf("lock player: %w", err)
		}
		if !exists {
			return fmt.Errorf("%w: player=%s", ErrNotFound, playerID)
		}

		item.CurrentPrice = player.ClampPrice(item.CurrentPrice + delta)
		item.UpdatedAt = s.now().UTC()
		if err := tx.Players().Update(ctx, item); err != nil {
			return fmt.Errorf("update player: %w", err)
		}
		updated = item
		return nil
	})
	if err != nil {
		return player.Player{}, err
	}
	s.invalidator.InvalidateCatalog(ctx)

	s.logger.InfoContext(ctx, "player price adjusted", "player_id", playerID, "delta", delta, "price", updated.CurrentPrice)
	return updated, nil
}

// BulkAdjustPrices applies each adjustment on its own; failures are reported per item.
func (s *CatalogService) BulkAdjustPrices(ctx context.Context, items []PriceAdjustment) (BulkPriceResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CatalogService.BulkAdjustPrices")
	defer span.End()

	if len(items) == 0 {
		return BulkPriceResult{}, fmt.Errorf("%w: adjustments are required", ErrInvalidInput)
	}

	result := BulkPriceResult{Errors: []string{}}
	for i, item := range items {
		if _, err := s.AdjustPrice(ctx, item.PlayerID, item.Delta); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("item %d (%s): %v", i+1, item.PlayerID, err))
			continue
		}
		result.Updated++
	}

	return result, nil
}

// DeletePlayer refunds every holder at the current price and removes the player
// with all of its roster memberships and weekly stats, as one unit.
func (s *CatalogService) DeletePlayer(ctx context.Context, playerID string) (DeletePlayerResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CatalogService.DeletePlayer")
	defer span.End()

	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return DeletePlayerResult{}, fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}

	result := DeletePlayerResult{PlayerID: playerID}
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx uow.Tx) error {
		item, exists, err := tx.Players().GetForUpdate(ctx, playerID)
		if err != nil {
			return fmt.Errorf("lock player: %w", err)
		}
		if !exists {
			return fmt.Errorf("%w: player=%s", ErrNotFound, playerID)
		}

		holders, err := tx.Teams().ListHolderUserIDs(ctx, playerID)
		if err != nil {
			return fmt.Errorf("list holders: %w", err)
		}
		for _, userID := range holders {
			owner, exists, err := tx.Users().GetForUpdate(ctx, userID)
			if err != nil {
				return fmt.Errorf("lock user %s: %w", userID, err)
			}
			if !exists {
				return fmt.Errorf("%w: holder user=%s", ErrNotFound, userID)
			}
			owner, err = owner.Credit(item.CurrentPrice)
			if err != nil {
				return err
			}
			if err := tx.Users().UpdateBalance(ctx, owner.ID, owner.Balance); err != nil {
				return fmt.Errorf("refund user %s: %w", userID, err)
			}
		}

		if err := tx.Teams().RemovePlayerFromAll(ctx, playerID); err != nil {
			return fmt.Errorf("remove player from teams: %w", err)
		}
		if err := tx.WeeklyStats().DeleteByPlayerID(ctx, playerID); err != nil {
			return fmt.Errorf("delete weekly stats: %w", err)
		}
		if err := tx.Players().Delete(ctx, playerID); err != nil {
			return fmt.Errorf("delete player: %w", err)
		}

		result.RefundedUsers = len(holders)
		result.RefundAmount = item.CurrentPrice
		return nil
	})
	if err != nil {
		return DeletePlayerResult{}, err
	}
	s.invalidator.InvalidateCatalog(ctx)

	s.logger.InfoContext(ctx, "player deleted",
		"player_id", playerID,
		"refunded_users", result.RefundedUsers,
		"refund_amount", result.RefundAmount,
	)
	return result, nil
}

func (s *CatalogService) CreateCoach(ctx context.Context, input CreateCoachInput) (coach.Coach, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CatalogService.CreateCoach")
	defer span.End()

	id, err := s.idGen.NewID()
	if err != nil {
		return coach.Coach{}, fmt.Errorf("generate coach id: %w", err)
	}

	item := coach.Coach{
		ID:       id,
		Name:     strings.TrimSpace(input.Name),
		ImageURL: strings.TrimSpace(input.ImageURL),
	}
	if err := item.Validate(); err != nil {
		return coach.Coach{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.coachRepo.Create(ctx, item); err != nil {
		return coach.Coach{}, fmt.Errorf("create coach: %w", err)
	}
	s.invalidator.InvalidateCatalog(ctx)

	s.logger.InfoContext(ctx, "coach created", "coach_id", item.ID)
	return item, nil
}

// DeleteCoach unsets the coach on every team that picked them, then removes the coach.
func (s *CatalogService) DeleteCoach(ctx context.Context, coachID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.CatalogService.DeleteCoach")
	defer span.End()

	coachID = strings.TrimSpace(coachID)
	if coachID == "" {
		return fmt.Errorf("%w: coach id is required", ErrInvalidInput)
	}

	err := s.store.WithinTx(ctx, func(ctx context.Context, tx uow.Tx) error {
		if _, exists, err := tx.Coaches().GetByID(ctx, coachID); err != nil {
			return fmt.Errorf("get coach: %w", err)
		} else if !exists {
			return fmt.Errorf("%w: coach=%s", ErrNotFound, coachID)
		}
		if err := tx.Teams().ClearCoach(ctx, coachID); err != nil {
			return fmt.Errorf("clear coach from teams: %w", err)
		}
		if err := tx.Coaches().Delete(ctx, coachID); err != nil {
			return fmt.Errorf("delete coach: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.invalidator.InvalidateCatalog(ctx)

	s.logger.InfoContext(ctx, "coach deleted", "coach_id", coachID)
	return nil
}
