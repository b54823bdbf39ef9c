package onboarding

import "time"

// Profile records per-user onboarding progress.
type Profile struct {
	UserID              string
	OnboardingCompleted bool
	CreatedAt           time.Time
	UpdatedAt           time.Time
}
