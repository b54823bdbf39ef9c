package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mlonzayes/dbr-fantasy/internal/domain/onboarding"
)

type OnboardingService struct {
	profileRepo onboarding.Repository
	now         func() time.Time
}

func NewOnboardingService(profileRepo onboarding.Repository) *OnboardingService {
	return &OnboardingService{
		profileRepo: profileRepo,
		now:         time.Now,
	}
}

// GetProfile returns a not-completed profile for users that never saved one.
func (s *OnboardingService) GetProfile(ctx context.Context, userID string) (onboarding.Profile, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return onboarding.Profile{}, fmt.Errorf("%w: user_id is required", ErrInvalidInput)
	}

	profile, exists, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return onboarding.Profile{}, fmt.Errorf("get onboarding profile: %w", err)
	}
	if !exists {
		return onboarding.Profile{UserID: userID}, nil
	}

	return profile, nil
}

func (s *OnboardingService) SetCompleted(ctx context.Context, userID string, completed bool) (onboarding.Profile, error) {
	profile, err := s.GetProfile(ctx, userID)
	if err != nil {
		return onboarding.Profile{}, err
	}

	now := s.now().UTC()
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = now
	}
	profile.OnboardingCompleted = completed
	profile.UpdatedAt = now

	if err := s.profileRepo.Upsert(ctx, profile); err != nil {
		return onboarding.Profile{}, fmt.Errorf("upsert onboarding profile: %w", err)
	}

	return profile, nil
}
