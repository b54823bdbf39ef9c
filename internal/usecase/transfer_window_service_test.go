package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/mlonzayes/dbr-fantasy/internal/domain/market"
	marketmock "github.com/mlonzayes/dbr-fantasy/internal/mocks/domain/market"
	"github.com/stretchr/testify/mock"
)

func TestTransferWindowService_SetOpenPersistsFlag(t *testing.T) {
	repo := marketmock.NewRepository(t)
	repo.On("SaveConfig", mock.Anything, market.Config{MarketOpen: true, UpdatedAt: fixtureNow}).Return(nil).Once()

	svc := NewTransferWindowService(market.ModeFlag, market.NewFlagWindow(repo), repo, nil)
	svc.now = func() time.Time { return fixtureNow }

	status, err := svc.SetOpen(t.Context(), true)
	if err != nil {
		t.Fatalf("set open: %v", err)
	}
	if !status.Open || status.Mode != market.ModeFlag {
		t.Fatalf("unexpected status: %+v", status)
	}
	if status.UpdatedAt == nil || !status.UpdatedAt.Equal(fixtureNow) {
		t.Fatalf("unexpected updated at: %v", status.UpdatedAt)
	}
}

func TestTransferWindowService_SetOpenRejectedInScheduleMode(t *testing.T) {
	repo := marketmock.NewRepository(t)
	window := market.NewScheduleWindow(market.DefaultSchedule(), func() time.Time { return fixtureNow })
	svc := NewTransferWindowService(market.ModeSchedule, window, repo, nil)

	_, err := svc.SetOpen(t.Context(), false)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	repo.AssertNotCalled(t, "SaveConfig", mock.Anything, mock.Anything)
}

func TestTransferWindowService_Status(t *testing.T) {
	repo := marketmock.NewRepository(t)
	repo.On("GetConfig", mock.Anything).Return(market.Config{MarketOpen: true, UpdatedAt: fixtureNow}, true, nil)

	svc := NewTransferWindowService(market.ModeFlag, market.NewFlagWindow(repo), repo, nil)

	status, err := svc.Status(t.Context())
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if !status.Open || status.UpdatedAt == nil || !status.UpdatedAt.Equal(fixtureNow) {
		t.Fatalf("unexpected status: %+v", status)
	}
}

func TestTransferWindowService_StatusPropagatesErrors(t *testing.T) {
	repo := marketmock.NewRepository(t)
	repo.On("GetConfig", mock.Anything).Return(market.Config{}, false, errors.New("db down"))

	svc := NewTransferWindowService(market.ModeFlag, market.NewFlagWindow(repo), repo, nil)

	if _, err := svc.Status(t.Context()); err == nil {
		t.Fatalf("expected error")
	}
}

func TestTransferWindowService_ObserveReportsTransitions(t *testing.T) {
	window := &switchWindow{open: true}
	svc := NewTransferWindowService(market.ModeFlag, window, nil, nil)

	steps := []struct {
		open bool
		want bool
	}{
		{open: true, want: false},
		{open: true, want: false},
		{open: false, want: true},
		{open: false, want: false},
		{open: true, want: true},
	}

	for i, step := range steps {
		window.set(step.open)
		changed, err := svc.Observe(t.Context())
		if err != nil {
			t.Fatalf("step %d: observe: %v", i, err)
		}
		if changed != step.want {
			t.Fatalf("step %d: expected changed=%v, got %v", i, step.want, changed)
		}
	}
}
