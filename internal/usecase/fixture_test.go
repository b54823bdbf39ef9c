package usecase

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mlonzayes/dbr-fantasy/internal/domain/coach"
	"github.com/mlonzayes/dbr-fantasy/internal/domain/fantasy"
	"github.com/mlonzayes/dbr-fantasy/internal/domain/player"
	"github.com/mlonzayes/dbr-fantasy/internal/infrastructure/repository/memory"
	"github.com/mlonzayes/dbr-fantasy/internal/platform/logging"
)

type staticIDGenerator struct {
	id string
}

func (g staticIDGenerator) NewID() (string, error) {
	return g.id, nil
}

type sequenceIDGenerator struct {
	prefix string
	next   atomic.Int64
}

func (g *sequenceIDGenerator) NewID() (string, error) {
	return fmt.Sprintf("%s-%03d", g.prefix, g.next.Add(1)), nil
}

type switchWindow struct {
	mu   sync.Mutex
	open bool
}

func (w *switchWindow) IsOpen(context.Context) (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.open, nil
}

func (w *switchWindow) set(open bool) {
	w.mu.Lock()
	w.open = open
	w.mu.Unlock()
}

type countingInvalidator struct {
	calls atomic.Int32
}

func (c *countingInvalidator) InvalidateCatalog(context.Context) {
	c.calls.Add(1)
}

var fixtureNow = time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC)

type economyFixture struct {
	store       *memory.Store
	window      *switchWindow
	invalidator *countingInvalidator
	roster      *RosterService
	market      *MarketService
	scoring     *ScoringService
	catalog     *CatalogService
	accounts    *AccountService
	ranking     *RankingService
}

func newEconomyFixture(t *testing.T) *economyFixture {
	t.Helper()

	store := memory.NewStore()
	window := &switchWindow{open: true}
	invalidator := &countingInvalidator{}
	rules := fantasy.DefaultRules()
	logger := logging.NewNop()

	f := &economyFixture{
		store:       store,
		window:      window,
		invalidator: invalidator,
	}
	f.roster = NewRosterService(
		store,
		store.Players(),
		store.Coaches(),
		store.Teams(),
		store.Users(),
		store.WeeklyStats(),
		window,
		rules,
		RosterConfig{RequireOpenWindow: true, StartingBalance: 1250},
		staticIDGenerator{id: "team-001"},
		logger,
	)
	f.roster.now = func() time.Time { return fixtureNow }
	f.market = NewMarketService(store, window, rules, MarketConfig{EnforceQuota: true}, logger)
	f.scoring = NewScoringService(store, invalidator, ScoringConfig{PriceModel: "performance", Workers: 3}, logger)
	f.scoring.now = func() time.Time { return fixtureNow }
	f.catalog = NewCatalogService(store, store.Players(), store.Coaches(), invalidator, &sequenceIDGenerator{prefix: "cat"}, logger)
	f.catalog.now = func() time.Time { return fixtureNow }
	f.accounts = NewAccountService(store, store.Users(), AccountConfig{StartingBalance: 1250}, logger)
	f.ranking = NewRankingService(store.Teams(), store.Players())

	return f
}

// seedRoster stores one quota-exact roster, p01..p15, in jersey order.
func (f *economyFixture) seedRoster(t *testing.T, price func(i int) int64) []string {
	t.Helper()

	rules := fantasy.DefaultRules()
	ids := make([]string, 0, rules.SquadSize)
	n := 0
	for _, pos := range player.OrderedPositions {
		for i := 0; i < rules.QuotaByPosition[pos]; i++ {
			n++
			id := fmt.Sprintf("p%02d", n)
			f.addPlayer(t, id, pos, price(n))
			ids = append(ids, id)
		}
	}
	return ids
}

func (f *economyFixture) addPlayer(t *testing.T, id string, pos player.Position, price int64) {
	t.Helper()

	err := f.store.Players().Create(context.Background(), player.Player{
		ID:           id,
		Name:         "Player " + id,
		Position:     pos,
		BasePrice:    price,
		CurrentPrice: price,
	})
	if err != nil {
		t.Fatalf("seed player %s: %v", id, err)
	}
}

func (f *economyFixture) addCoach(t *testing.T, id string) {
	t.Helper()

	if err := f.store.Coaches().Create(context.Background(), coach.Coach{ID: id, Name: "Coach " + id}); err != nil {
		t.Fatalf("seed coach %s: %v", id, err)
	}
}

func (f *economyFixture) createTeam(t *testing.T, userID string, playerIDs []string) CreateTeamResult {
	t.Helper()

	result, err := f.roster.CreateTeam(t.Context(), CreateTeamInput{
		UserID:    userID,
		Name:      "XV de " + userID,
		PlayerIDs: playerIDs,
	})
	if err != nil {
		t.Fatalf("create team for %s: %v", userID, err)
	}
	return result
}

func (f *economyFixture) balance(t *testing.T, userID string) int64 {
	t.Helper()

	item, exists, err := f.store.Users().GetByID(context.Background(), userID)
	if err != nil || !exists {
		t.Fatalf("get user %s: exists=%v err=%v", userID, exists, err)
	}
	return item.Balance
}

func (f *economyFixture) player(t *testing.T, playerID string) player.Player {
	t.Helper()

	item, exists, err := f.store.Players().GetByID(context.Background(), playerID)
	if err != nil || !exists {
		t.Fatalf("get player %s: exists=%v err=%v", playerID, exists, err)
	}
	return item
}

func flatPrice(v int64) func(int) int64 {
	return func(int) int64 { return v }
}
