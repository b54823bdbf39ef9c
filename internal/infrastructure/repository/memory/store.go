package memory

import (
	"context"
	"sync"

	"github.com/mlonzayes/dbr-fantasy/internal/domain/coach"
	"github.com/mlonzayes/dbr-fantasy/internal/domain/fantasy"
	"github.com/mlonzayes/dbr-fantasy/internal/domain/market"
	"github.com/mlonzayes/dbr-fantasy/internal/domain/match"
	"github.com/mlonzayes/dbr-fantasy/internal/domain/onboarding"
	"github.com/mlonzayes/dbr-fantasy/internal/domain/player"
	"github.com/mlonzayes/dbr-fantasy/internal/domain/uow"
	"github.com/mlonzayes/dbr-fantasy/internal/domain/user"
	"github.com/mlonzayes/dbr-fantasy/internal/domain/weeklystat"
)

type state struct {
	players    map[string]player.Player
	coaches    map[string]coach.Coach
	users      map[string]user.User
	teams      map[string]fantasy.Team
	teamByUser map[string]string
	stats      map[weeklystat.Key]weeklystat.WeeklyStat
	market     *market.Config
	profiles   map[string]onboarding.Profile
	matches    map[string]match.Match
}

func newState() *state {
	return &state{
		players:    make(map[string]player.Player),
		coaches:    make(map[string]coach.Coach),
		users:      make(map[string]user.User),
		teams:      make(map[string]fantasy.Team),
		teamByUser: make(map[string]string),
		stats:      make(map[weeklystat.Key]weeklystat.WeeklyStat),
		profiles:   make(map[string]onboarding.Profile),
		matches:    make(map[string]match.Match),
	}
}

func (s *state) clone() *state {
	out := newState()
	for k, v := range s.players {
		out.players[k] = v
	}
	for k, v := range s.coaches {
		out.coaches[k] = v
	}
	for k, v := range s.users {
		out.users[k] = v
	}
	for k, v := range s.teams {
		out.teams[k] = cloneTeam(v)
	}
	for k, v := range s.teamByUser {
		out.teamByUser[k] = v
	}
	for k, v := range s.stats {
		out.stats[k] = v
	}
	if s.market != nil {
		cfg := *s.market
		out.market = &cfg
	}
	for k, v := range s.profiles {
		out.profiles[k] = v
	}
	for k, v := range s.matches {
		out.matches[k] = v
	}
	return out
}

// Store keeps every aggregate behind one lock. WithinTx works on a copy and
// swaps it in on success, so a failed unit of work leaves no trace.
type Store struct {
	mu sync.RWMutex
	st *state
}

func NewStore() *Store {
	return &Store{st: newState()}
}

func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, tx uow.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	working := s.st.clone()
	if err := fn(ctx, txView{store: s, tx: working}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.st = working
	return nil
}

func (s *Store) Players() *PlayerRepository {
	return &PlayerRepository{v: txView{store: s}}
}

func (s *Store) Coaches() *CoachRepository {
	return &CoachRepository{v: txView{store: s}}
}

func (s *Store) Users() *UserRepository {
	return &UserRepository{v: txView{store: s}}
}

func (s *Store) Teams() *TeamRepository {
	return &TeamRepository{v: txView{store: s}}
}

func (s *Store) WeeklyStats() *WeeklyStatRepository {
	return &WeeklyStatRepository{v: txView{store: s}}
}

func (s *Store) Market() *MarketRepository {
	return &MarketRepository{v: txView{store: s}}
}

func (s *Store) Onboarding() *OnboardingRepository {
	return &OnboardingRepository{v: txView{store: s}}
}

func (s *Store) Matches() *MatchRepository {
	return &MatchRepository{v: txView{store: s}}
}

// txView routes repository calls either to the committed state (tx == nil)
// or to the working copy of a running transaction, whose lock is already held.
type txView struct {
	store *Store
	tx    *state
}

func (v txView) read(fn func(st *state)) {
	if v.tx != nil {
		fn(v.tx)
		return
	}
	v.store.mu.RLock()
	defer v.store.mu.RUnlock()
	fn(v.store.st)
}

func (v txView) write(fn func(st *state) error) error {
	if v.tx != nil {
		return fn(v.tx)
	}
	v.store.mu.Lock()
	defer v.store.mu.Unlock()
	return fn(v.store.st)
}

func (v txView) Players() player.Repository         { return &PlayerRepository{v: v} }
func (v txView) Coaches() coach.Repository          { return &CoachRepository{v: v} }
func (v txView) Users() user.Repository             { return &UserRepository{v: v} }
func (v txView) Teams() fantasy.Repository          { return &TeamRepository{v: v} }
func (v txView) WeeklyStats() weeklystat.Repository { return &WeeklyStatRepository{v: v} }
func (v txView) Market() market.Repository          { return &MarketRepository{v: v} }
func (v txView) Onboarding() onboarding.Repository  { return &OnboardingRepository{v: v} }
