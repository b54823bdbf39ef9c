package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/mlonzayes/dbr-fantasy/internal/infrastructure/repository/memory"
)

func TestOnboardingService(t *testing.T) {
	store := memory.NewStore()
	svc := NewOnboardingService(store.Onboarding())
	svc.now = func() time.Time { return fixtureNow }

	profile, err := svc.GetProfile(t.Context(), "user-1")
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	if profile.OnboardingCompleted || !profile.CreatedAt.IsZero() {
		t.Fatalf("expected empty profile, got %+v", profile)
	}

	profile, err = svc.SetCompleted(t.Context(), "user-1", true)
	if err != nil {
		t.Fatalf("set completed: %v", err)
	}
	if !profile.OnboardingCompleted || !profile.CreatedAt.Equal(fixtureNow) {
		t.Fatalf("unexpected profile: %+v", profile)
	}

	profile, err = svc.GetProfile(t.Context(), "user-1")
	if err != nil || !profile.OnboardingCompleted {
		t.Fatalf("expected stored profile, got %+v err=%v", profile, err)
	}

	if _, err := svc.GetProfile(t.Context(), " "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
