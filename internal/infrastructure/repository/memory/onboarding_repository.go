package memory

import (
	"context"

	"github.com/mlonzayes/dbr-fantasy/internal/domain/onboarding"
)

type OnboardingRepository struct {
	v txView
}

func (r *OnboardingRepository) GetByUserID(_ context.Context, userID string) (onboarding.Profile, bool, error) {
	var (
		item onboarding.Profile
		ok   bool
	)
	r.v.read(func(st *state) {
		item, ok = st.profiles[userID]
	})
	return item, ok, nil
}

func (r *OnboardingRepository) Upsert(_ context.Context, profile onboarding.Profile) error {
	return r.v.write(func(st *state) error {
		st.profiles[profile.UserID] = profile
		return nil
	})
}

func (r *OnboardingRepository) Delete(_ context.Context, userID string) error {
	return r.v.write(func(st *state) error {
		delete(st.profiles, userID)
		return nil
	})
}
