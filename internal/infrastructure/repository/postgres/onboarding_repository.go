package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/mlonzayes/dbr-fantasy/internal/domain/onboarding"
	qb "github.com/mlonzayes/dbr-fantasy/internal/platform/querybuilder"
)

type OnboardingRepository struct {
	q sqlx.ExtContext
}

func (r *OnboardingRepository) GetByUserID(ctx context.Context, userID string) (onboarding.Profile, bool, error) {
	query, args, err := qb.Select(qb.Columns(onboardingProfileTableModel{})...).
		From("user_onboarding_profiles").
		Where(qb.Eq("user_id", userID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return onboarding.Profile{}, false, fmt.Errorf("build get onboarding profile query: %w", err)
	}

	var row onboardingProfileTableModel
	if err := sqlx.GetContext(ctx, r.q, &row, query, args...); err != nil {
		if isNotFound(err) {
			return onboarding.Profile{}, false, nil
		}
		return onboarding.Profile{}, false, fmt.Errorf("get onboarding profile: %w", err)
	}

	return onboarding.Profile(row), true, nil
}

func (r *OnboardingRepository) Upsert(ctx context.Context, profile onboarding.Profile) error {
	row := onboardingProfileTableModel{
		UserID:              strings.TrimSpace(profile.UserID),
		OnboardingCompleted: profile.OnboardingCompleted,
		CreatedAt:           timeOrNow(profile.CreatedAt),
		UpdatedAt:           timeOrNow(profile.UpdatedAt),
	}

	query, args, err := qb.InsertModel("user_onboarding_profiles", row, `ON CONFLICT (user_id)
DO UPDATE SET
    onboarding_completed = EXCLUDED.onboarding_completed,
    updated_at = EXCLUDED.updated_at`)
	if err != nil {
		return fmt.Errorf("build upsert onboarding profile query: %w", err)
	}

	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert onboarding profile: %w", err)
	}

	return nil
}

func (r *OnboardingRepository) Delete(ctx context.Context, userID string) error {
	query, args, err := qb.DeleteFrom("user_onboarding_profiles").
		Where(qb.Eq("user_id", userID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete onboarding profile query: %w", err)
	}

	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete onboarding profile: %w", err)
	}
	return nil
}
