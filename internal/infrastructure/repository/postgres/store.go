package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/mlonzayes/dbr-fantasy/internal/domain/coach"
	"github.com/mlonzayes/dbr-fantasy/internal/domain/fantasy"
	"github.com/mlonzayes/dbr-fantasy/internal/domain/market"
	"github.com/mlonzayes/dbr-fantasy/internal/domain/onboarding"
	"github.com/mlonzayes/dbr-fantasy/internal/domain/player"
	"github.com/mlonzayes/dbr-fantasy/internal/domain/uow"
	"github.com/mlonzayes/dbr-fantasy/internal/domain/user"
	"github.com/mlonzayes/dbr-fantasy/internal/domain/weeklystat"
)

// Store runs units of work in a database transaction. Repositories obtained
// from the Store itself run each statement on its own connection.
type Store struct {
	db *sqlx.DB
}

func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, tx uow.Tx) error) (err error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = fn(ctx, txView{q: tx}); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (s *Store) Players() *PlayerRepository {
	return &PlayerRepository{q: s.db}
}

func (s *Store) Coaches() *CoachRepository {
	return &CoachRepository{q: s.db}
}

func (s *Store) Matches() *MatchRepository {
	return &MatchRepository{q: s.db}
}

func (s *Store) Users() *UserRepository {
	return &UserRepository{q: s.db}
}

func (s *Store) Teams() *TeamRepository {
	return &TeamRepository{q: s.db}
}

func (s *Store) WeeklyStats() *WeeklyStatRepository {
	return &WeeklyStatRepository{q: s.db}
}

func (s *Store) Market() *MarketRepository {
	return &MarketRepository{q: s.db}
}

func (s *Store) Onboarding() *OnboardingRepository {
	return &OnboardingRepository{q: s.db}
}

type txView struct {
	q sqlx.ExtContext
}

func (v txView) Players() player.Repository         { return &PlayerRepository{q: v.q} }
func (v txView) Coaches() coach.Repository          { return &CoachRepository{q: v.q} }
func (v txView) Users() user.Repository             { return &UserRepository{q: v.q} }
func (v txView) Teams() fantasy.Repository          { return &TeamRepository{q: v.q} }
func (v txView) WeeklyStats() weeklystat.Repository { return &WeeklyStatRepository{q: v.q} }
func (v txView) Market() market.Repository          { return &MarketRepository{q: v.q} }
func (v txView) Onboarding() onboarding.Repository  { return &OnboardingRepository{q: v.q} }
