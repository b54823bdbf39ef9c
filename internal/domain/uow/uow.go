// Package uow defines the transaction boundary shared by every mutating use case.
package uow

import (
	"context"

	"github.com/mlonzayes/dbr-fantasy/internal/domain/coach"
	"github.com/mlonzayes/dbr-fantasy/internal/domain/fantasy"
	"github.com/mlonzayes/dbr-fantasy/internal/domain/market"
	"github.com/mlonzayes/dbr-fantasy/internal/domain/onboarding"
	"github.com/mlonzayes/dbr-fantasy/internal/domain/player"
	"github.com/mlonzayes/dbr-fantasy/internal/domain/user"
	"github.com/mlonzayes/dbr-fantasy/internal/domain/weeklystat"
)

// Tx exposes repositories bound to one transaction.
type Tx interface {
	Players() player.Repository
	Coaches() coach.Repository
	Users() user.Repository
	Teams() fantasy.Repository
	WeeklyStats() weeklystat.Repository
	Market() market.Repository
	Onboarding() onboarding.Repository
}

// Store runs fn atomically: every write made through tx commits together or not at all.
// Returning an error from fn rolls the transaction back.
type Store interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}
