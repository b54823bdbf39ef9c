package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mlonzayes/dbr-fantasy/internal/domain/market"
	"github.com/mlonzayes/dbr-fantasy/internal/platform/logging"
)

type WindowStatus struct {
	Mode      market.Mode
	Open      bool
	UpdatedAt *time.Time
}

// TransferWindowService exposes the active window policy and, in flag mode,
// lets administrators flip the persisted switch.
type TransferWindowService struct {
	mode   market.Mode
	window market.Window
	repo   market.Repository
	logger *logging.Logger
	now    func() time.Time

	mu       sync.Mutex
	lastSeen *bool
}

func NewTransferWindowService(mode market.Mode, window market.Window, repo market.Repository, logger *logging.Logger) *TransferWindowService {
	if logger == nil {
		logger = logging.Default()
	}

	return &TransferWindowService{
		mode:   mode,
		window: window,
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

func (s *TransferWindowService) IsOpen(ctx context.Context) (bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TransferWindowService.IsOpen")
	defer span.End()

	open, err := s.window.IsOpen(ctx)
	if err != nil {
		return false, fmt.Errorf("check transfer window: %w", err)
	}
	return open, nil
}

func (s *TransferWindowService) Status(ctx context.Context) (WindowStatus, error) {
	open, err := s.IsOpen(ctx)
	if err != nil {
		return WindowStatus{}, err
	}

	status := WindowStatus{Mode: s.mode, Open: open}
	if s.mode == market.ModeFlag && s.repo != nil {
		cfg, exists, err := s.repo.GetConfig(ctx)
		if err != nil {
			return WindowStatus{}, fmt.Errorf("get market config: %w", err)
		}
		if exists && !cfg.UpdatedAt.IsZero() {
			updatedAt := cfg.UpdatedAt
			status.UpdatedAt = &updatedAt
		}
	}
	return status, nil
}

func (s *TransferWindowService) SetOpen(ctx context.Context, open bool) (WindowStatus, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TransferWindowService.SetOpen")
	defer span.End()

	if s.mode != market.ModeFlag {
		return WindowStatus{}, fmt.Errorf("%w: transfer window is %s-based and cannot be toggled", ErrInvalidInput, s.mode)
	}

	now := s.now().UTC()
	if err := s.repo.SaveConfig(ctx, market.Config{MarketOpen: open, UpdatedAt: now}); err != nil {
		return WindowStatus{}, fmt.Errorf("save market config: %w", err)
	}

	s.logger.InfoContext(ctx, "transfer window toggled", "open", open)
	return WindowStatus{Mode: s.mode, Open: open, UpdatedAt: &now}, nil
}

// Observe evaluates the window and logs when it changed since the previous call.
// It reports whether a transition happened.
func (s *TransferWindowService) Observe(ctx context.Context) (bool, error) {
	open, err := s.IsOpen(ctx)
	if err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.lastSeen == nil {
		s.lastSeen = &open
		s.logger.InfoContext(ctx, "transfer window observed", "mode", string(s.mode), "open", open)
		return false, nil
	}
	if *s.lastSeen == open {
		return false, nil
	}

	*s.lastSeen = open
	if open {
		s.logger.InfoContext(ctx, "transfer window opened", "mode", string(s.mode))
	} else {
		s.logger.InfoContext(ctx, "transfer window closed", "mode", string(s.mode))
	}
	return true, nil
}
