package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/mlonzayes/dbr-fantasy/internal/domain/coach"
	"github.com/mlonzayes/dbr-fantasy/internal/domain/fantasy"
	"github.com/mlonzayes/dbr-fantasy/internal/domain/market"
	"github.com/mlonzayes/dbr-fantasy/internal/domain/player"
	"github.com/mlonzayes/dbr-fantasy/internal/domain/uow"
	"github.com/mlonzayes/dbr-fantasy/internal/domain/user"
	"github.com/mlonzayes/dbr-fantasy/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
)

type BuyResult struct {
	Player     player.Player
	Price      int64
	NewBalance int64
}

type SellResult struct {
	Player       player.Player
	RefundAmount int64
	NewBalance   int64
}

type MarketConfig struct {
	EnforceQuota bool
}

// MarketService trades players in and out of an existing team at current prices.
type MarketService struct {
	store  uow.Store
	window market.Window
	rules  fantasy.Rules
	cfg    MarketConfig
	logger *logging.Logger
}

func NewMarketService(store uow.Store, window market.Window, rules fantasy.Rules, cfg MarketConfig, logger *logging.Logger) *MarketService {
	if logger == nil {
		logger = logging.Default()
	}

	return &MarketService{
		store:  store,
		window: window,
		rules:  rules,
		cfg:    cfg,
		logger: logger,
	}
}

func (s *MarketService) Buy(ctx context.Context, userID, playerID string) (BuyResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MarketService.Buy", attribute.String("player.id", playerID))
	defer span.End()

	userID, playerID, err := cleanTradeInput(userID, playerID)
	if err != nil {
		return BuyResult{}, err
	}
	if err := ensureWindowOpen(ctx, s.window); err != nil {
		return BuyResult{}, err
	}

	var result BuyResult
	err = s.store.WithinTx(ctx, func(ctx context.Context, tx uow.Tx) error {
		owner, team, err := lockOwnerAndTeam(ctx, tx, userID)
		if err != nil {
			return err
		}

		target, exists, err := tx.Players().GetByID(ctx, playerID)
		if err != nil {
			return fmt.Errorf("get player: %w", err)
		}
		if !exists {
			return fmt.Errorf("%w: player=%s", ErrNotFound, playerID)
		}
		if team.Owns(playerID) {
			return fmt.Errorf("%w: %s", fantasy.ErrPlayerAlreadyOwned, playerID)
		}

		owner, err = owner.Debit(target.CurrentPrice)
		if err != nil {
			return err
		}

		if s.cfg.EnforceQuota {
			current, err := tx.Players().GetByIDs(ctx, team.PlayerIDs)
			if err != nil {
				return fmt.Errorf("get roster players: %w", err)
			}
			incoming := fantasy.Pick{PlayerID: target.ID, Position: target.Position, Price: target.CurrentPrice}
			if err := fantasy.ValidateAddition(fantasy.PicksFromPlayers(current), incoming, s.rules); err != nil {
				return err
			}
		}

		if err := tx.Teams().AddPlayer(ctx, team.ID, playerID); err != nil {
			return fmt.Errorf("add player to team: %w", err)
		}
		if err := tx.Users().UpdateBalance(ctx, owner.ID, owner.Balance); err != nil {
			return fmt.Errorf("update balance: %w", err)
		}

		result = BuyResult{Player: target, Price: target.CurrentPrice, NewBalance: owner.Balance}
		return nil
	})
	if err != nil {
		return BuyResult{}, err
	}

	s.logger.InfoContext(ctx, "player bought",
		"user_id", userID,
		"player_id", playerID,
		"price", result.Price,
		"balance", result.NewBalance,
	)

	return result, nil
}

// Sell credits the player's current price, not what was paid for them.
func (s *MarketService) Sell(ctx context.Context, userID, playerID string) (SellResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MarketService.Sell", attribute.String("player.id", playerID))
	defer span.End()

	userID, playerID, err := cleanTradeInput(userID, playerID)
	if err != nil {
		return SellResult{}, err
	}
	if err := ensureWindowOpen(ctx, s.window); err != nil {
		return SellResult{}, err
	}

	var result SellResult
	err = s.store.WithinTx(ctx, func(ctx context.Context, tx uow.Tx) error {
		owner, team, err := lockOwnerAndTeam(ctx, tx, userID)
		if err != nil {
			return err
		}
		if !team.Owns(playerID) {
			return fmt.Errorf("%w: %s", fantasy.ErrPlayerNotOwned, playerID)
		}

		target, exists, err := tx.Players().GetByID(ctx, playerID)
		if err != nil {
			return fmt.Errorf("get player: %w", err)
		}
		if !exists {
			return fmt.Errorf("%w: player=%s", ErrNotFound, playerID)
		}

		owner, err = owner.Credit(target.CurrentPrice)
		if err != nil {
			return err
		}

		if err := tx.Teams().RemovePlayer(ctx, team.ID, playerID); err != nil {
			return fmt.Errorf("remove player from team: %w", err)
		}
		if err := tx.Users().UpdateBalance(ctx, owner.ID, owner.Balance); err != nil {
			return fmt.Errorf("update balance: %w", err)
		}

		result = SellResult{Player: target, RefundAmount: target.CurrentPrice, NewBalance: owner.Balance}
		return nil
	})
	if err != nil {
		return SellResult{}, err
	}

	s.logger.InfoContext(ctx, "player sold",
		"user_id", userID,
		"player_id", playerID,
		"refund", result.RefundAmount,
		"balance", result.NewBalance,
	)

	return result, nil
}

// SetCoach assigns or clears (nil coachID) the team coach. Coaches carry no
// price and the transfer window does not apply.
func (s *MarketService) SetCoach(ctx context.Context, userID string, coachID *string) (*coach.Coach, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MarketService.SetCoach")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	coachID = cleanOptionalID(coachID)

	var assigned *coach.Coach
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx uow.Tx) error {
		team, exists, err := tx.Teams().GetByUserID(ctx, userID)
		if err != nil {
			return fmt.Errorf("get team by user: %w", err)
		}
		if !exists {
			return fmt.Errorf("%w: user=%s", fantasy.ErrTeamNotFound, userID)
		}

		if coachID != nil {
			item, exists, err := tx.Coaches().GetByID(ctx, *coachID)
			if err != nil {
				return fmt.Errorf("get coach: %w", err)
			}
			if !exists {
				return fmt.Errorf("%w: coach=%s", ErrNotFound, *coachID)
			}
			assigned = &item
		}

		if err := tx.Teams().SetCoach(ctx, team.ID, coachID); err != nil {
			return fmt.Errorf("set coach: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "coach updated", "user_id", userID, "coach_id", coachID)
	return assigned, nil
}

func lockOwnerAndTeam(ctx context.Context, tx uow.Tx, userID string) (user.User, fantasy.Team, error) {
	owner, exists, err := tx.Users().GetForUpdate(ctx, userID)
	if err != nil {
		return user.User{}, fantasy.Team{}, fmt.Errorf("lock user: %w", err)
	}
	if !exists {
		return user.User{}, fantasy.Team{}, fmt.Errorf("%w: user=%s", fantasy.ErrTeamNotFound, userID)
	}

	team, exists, err := tx.Teams().GetByUserID(ctx, userID)
	if err != nil {
		return user.User{}, fantasy.Team{}, fmt.Errorf("get team by user: %w", err)
	}
	if !exists {
		return user.User{}, fantasy.Team{}, fmt.Errorf("%w: user=%s", fantasy.ErrTeamNotFound, userID)
	}

	return owner, team, nil
}

func cleanTradeInput(userID, playerID string) (string, string, error) {
	userID = strings.TrimSpace(userID)
	playerID = strings.TrimSpace(playerID)
	if userID == "" {
		return "", "", fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if playerID == "" {
		return "", "", fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}
	return userID, playerID, nil
}
