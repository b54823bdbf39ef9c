package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mlonzayes/dbr-fantasy/internal/domain/uow"
	"github.com/mlonzayes/dbr-fantasy/internal/domain/user"
	"github.com/mlonzayes/dbr-fantasy/internal/platform/logging"
)

// Membership event types emitted by the identity provider.
const (
	MembershipEventCreated = "user.created"
	MembershipEventDeleted = "user.deleted"
)

type MembershipEvent struct {
	Type   string
	UserID string
}

type AccountConfig struct {
	StartingBalance int64
	AdminUserIDs    []string
}

// AccountService owns the user ledger rows and membership lifecycle.
type AccountService struct {
	store    uow.Store
	userRepo user.Repository
	cfg      AccountConfig
	admins   map[string]struct{}
	logger   *logging.Logger
	now      func() time.Time
}

func NewAccountService(store uow.Store, userRepo user.Repository, cfg AccountConfig, logger *logging.Logger) *AccountService {
	if logger == nil {
		logger = logging.Default()
	}

	admins := make(map[string]struct{}, len(cfg.AdminUserIDs))
	for _, id := range cfg.AdminUserIDs {
		if id = strings.TrimSpace(id); id != "" {
			admins[id] = struct{}{}
		}
	}

	return &AccountService{
		store:    store,
		userRepo: userRepo,
		cfg:      cfg,
		admins:   admins,
		logger:   logger,
		now:      time.Now,
	}
}

// GetAccount returns the caller's ledger row, provisioning it on first sight.
func (s *AccountService) GetAccount(ctx context.Context, userID string) (user.User, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AccountService.GetAccount")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return user.User{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	item, exists, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return user.User{}, fmt.Errorf("get user: %w", err)
	}
	if exists {
		return s.withAdminFlag(item), nil
	}

	if _, err := s.ensureUser(ctx, userID); err != nil {
		return user.User{}, err
	}
	item, exists, err = s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return user.User{}, fmt.Errorf("get user: %w", err)
	}
	if !exists {
		return user.User{}, fmt.Errorf("%w: user=%s", ErrNotFound, userID)
	}
	return s.withAdminFlag(item), nil
}

func (s *AccountService) IsAdmin(ctx context.Context, userID string) (bool, error) {
	if _, ok := s.admins[userID]; ok {
		return true, nil
	}

	item, exists, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("get user: %w", err)
	}
	return exists && item.IsAdmin, nil
}

func (s *AccountService) HandleMembershipEvent(ctx context.Context, event MembershipEvent) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.AccountService.HandleMembershipEvent")
	defer span.End()

	event.UserID = strings.TrimSpace(event.UserID)
	if event.UserID == "" {
		return fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	switch strings.TrimSpace(event.Type) {
	case MembershipEventCreated:
		created, err := s.ensureUser(ctx, event.UserID)
		if err != nil {
			return err
		}
		s.logger.InfoContext(ctx, "membership created", "user_id", event.UserID, "created", created)
		return nil
	case MembershipEventDeleted:
		err := s.store.WithinTx(ctx, func(ctx context.Context, tx uow.Tx) error {
			if err := tx.Teams().DeleteByUserID(ctx, event.UserID); err != nil {
				return fmt.Errorf("delete team: %w", err)
			}
			if err := tx.Onboarding().Delete(ctx, event.UserID); err != nil {
				return fmt.Errorf("delete onboarding profile: %w", err)
			}
			if err := tx.Users().Delete(ctx, event.UserID); err != nil {
				return fmt.Errorf("delete user: %w", err)
			}
			return nil
		})
		if err != nil {
			return err
		}
		s.logger.InfoContext(ctx, "membership deleted", "user_id", event.UserID)
		return nil
	default:
		s.logger.WarnContext(ctx, "ignored membership event", "type", event.Type, "user_id", event.UserID)
		return nil
	}
}

func (s *AccountService) ensureUser(ctx context.Context, userID string) (bool, error) {
	now := s.now().UTC()
	created, err := s.userRepo.Create(ctx, user.User{
		ID:        userID,
		Balance:   s.cfg.StartingBalance,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return false, fmt.Errorf("create user: %w", err)
	}
	return created, nil
}

func (s *AccountService) withAdminFlag(item user.User) user.User {
	if _, ok := s.admins[item.ID]; ok {
		item.IsAdmin = true
	}
	return item
}
