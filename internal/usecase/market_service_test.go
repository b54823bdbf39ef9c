package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/mlonzayes/dbr-fantasy/internal/domain/fantasy"
	"github.com/mlonzayes/dbr-fantasy/internal/domain/market"
	"github.com/mlonzayes/dbr-fantasy/internal/domain/player"
	"github.com/mlonzayes/dbr-fantasy/internal/domain/user"
)

// draftedFixture drafts p01..p15 at 50 each for user-1, leaving 500.
func draftedFixture(t *testing.T) (*economyFixture, []string) {
	t.Helper()

	f := newEconomyFixture(t)
	ids := f.seedRoster(t, flatPrice(50))
	f.addPlayer(t, "free-hooker", player.PositionHooker, 30)
	f.addPlayer(t, "free-wing", player.PositionWing, 40)
	f.createTeam(t, "user-1", ids)
	return f, ids
}

func TestMarketService_SellThenBuy(t *testing.T) {
	f, ids := draftedFixture(t)
	hooker := ids[2]

	sold, err := f.market.Sell(t.Context(), "user-1", hooker)
	if err != nil {
		t.Fatalf("sell: %v", err)
	}
	if sold.RefundAmount != 50 || sold.NewBalance != 550 {
		t.Fatalf("unexpected sell result: %+v", sold)
	}

	bought, err := f.market.Buy(t.Context(), "user-1", "free-hooker")
	if err != nil {
		t.Fatalf("buy: %v", err)
	}
	if bought.NewBalance != 520 {
		t.Fatalf("unexpected balance after buy: %d", bought.NewBalance)
	}

	team, _, _ := f.store.Teams().GetByUserID(context.Background(), "user-1")
	if team.Owns(hooker) || !team.Owns("free-hooker") {
		t.Fatalf("unexpected roster: %v", team.PlayerIDs)
	}

	_, err = f.market.Buy(t.Context(), "user-1", "free-hooker")
	if !errors.Is(err, fantasy.ErrPlayerAlreadyOwned) {
		t.Fatalf("expected ErrPlayerAlreadyOwned, got %v", err)
	}
	if got := f.balance(t, "user-1"); got != 520 {
		t.Fatalf("failed buy must not move balance, got %d", got)
	}
}

func TestMarketService_RoundTripIsBalanceNeutral(t *testing.T) {
	f, ids := draftedFixture(t)
	before := f.balance(t, "user-1")

	if _, err := f.market.Sell(t.Context(), "user-1", ids[0]); err != nil {
		t.Fatalf("sell: %v", err)
	}
	if _, err := f.market.Buy(t.Context(), "user-1", ids[0]); err != nil {
		t.Fatalf("buy back: %v", err)
	}

	if after := f.balance(t, "user-1"); after != before {
		t.Fatalf("expected balance %d after round trip, got %d", before, after)
	}
}

func TestMarketService_SellIsMarkToMarket(t *testing.T) {
	f, ids := draftedFixture(t)

	if _, err := f.catalog.AdjustPrice(t.Context(), ids[0], 25); err != nil {
		t.Fatalf("adjust price: %v", err)
	}

	sold, err := f.market.Sell(t.Context(), "user-1", ids[0])
	if err != nil {
		t.Fatalf("sell: %v", err)
	}
	if sold.RefundAmount != 75 || sold.NewBalance != 575 {
		t.Fatalf("expected refund at current price 75, got %+v", sold)
	}
}

func TestMarketService_BuyRespectsQuota(t *testing.T) {
	f, ids := draftedFixture(t)

	if _, err := f.market.Sell(t.Context(), "user-1", ids[2]); err != nil {
		t.Fatalf("sell: %v", err)
	}

	_, err := f.market.Buy(t.Context(), "user-1", "free-wing")
	if !errors.Is(err, fantasy.ErrQuotaExceeded) {
		t.Fatalf("expected ErrQuotaExceeded, got %v", err)
	}

	f.market.cfg.EnforceQuota = false
	if _, err := f.market.Buy(t.Context(), "user-1", "free-wing"); err != nil {
		t.Fatalf("expected buy without quota enforcement, got %v", err)
	}
}

func TestMarketService_BuyOntoFullRosterReportsQuota(t *testing.T) {
	f, _ := draftedFixture(t)

	_, err := f.market.Buy(t.Context(), "user-1", "free-wing")
	if !errors.Is(err, fantasy.ErrQuotaExceeded) {
		t.Fatalf("expected ErrQuotaExceeded, got %v", err)
	}
	if got := f.balance(t, "user-1"); got != 500 {
		t.Fatalf("rejected buy must not move balance, got %d", got)
	}
}

func TestMarketService_RejectsWhenWindowClosed(t *testing.T) {
	f, ids := draftedFixture(t)
	f.window.set(false)

	_, err := f.market.Sell(t.Context(), "user-1", ids[0])
	if !errors.Is(err, market.ErrWindowClosed) {
		t.Fatalf("expected ErrWindowClosed on sell, got %v", err)
	}
	_, err = f.market.Buy(t.Context(), "user-1", "free-wing")
	if !errors.Is(err, market.ErrWindowClosed) {
		t.Fatalf("expected ErrWindowClosed on buy, got %v", err)
	}

	if _, err := f.roster.GetTeam(t.Context(), "user-1"); err != nil {
		t.Fatalf("reads must stay available while closed: %v", err)
	}
	if _, err := f.catalog.ListPlayers(t.Context(), PlayerFilter{}); err != nil {
		t.Fatalf("catalog must stay available while closed: %v", err)
	}
}

func TestMarketService_Errors(t *testing.T) {
	f, _ := draftedFixture(t)

	tests := []struct {
		name      string
		call      func() error
		targetErr error
	}{
		{
			name: "sell not owned",
			call: func() error {
				_, err := f.market.Sell(t.Context(), "user-1", "free-wing")
				return err
			},
			targetErr: fantasy.ErrPlayerNotOwned,
		},
		{
			name: "buy without team",
			call: func() error {
				_, err := f.market.Buy(t.Context(), "user-2", "free-wing")
				return err
			},
			targetErr: fantasy.ErrTeamNotFound,
		},
		{
			name: "buy unknown player",
			call: func() error {
				_, err := f.market.Buy(t.Context(), "user-1", "ghost")
				return err
			},
			targetErr: ErrNotFound,
		},
		{
			name: "empty player id",
			call: func() error {
				_, err := f.market.Buy(t.Context(), "user-1", " ")
				return err
			},
			targetErr: ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.call(); !errors.Is(err, tt.targetErr) {
				t.Fatalf("expected %v, got %v", tt.targetErr, err)
			}
		})
	}
}

func TestMarketService_ConcurrentBuysNeverOverdraw(t *testing.T) {
	f := newEconomyFixture(t)
	ids := f.seedRoster(t, flatPrice(80))
	f.createTeam(t, "user-1", ids) // 1250 - 1200 = 50 left

	// free both hooker and full slots, balance 50 + 80 + 80 = 210
	if _, err := f.market.Sell(t.Context(), "user-1", ids[2]); err != nil {
		t.Fatalf("sell hooker: %v", err)
	}
	if _, err := f.market.Sell(t.Context(), "user-1", ids[14]); err != nil {
		t.Fatalf("sell full: %v", err)
	}
	f.addPlayer(t, "hooker-a", player.PositionHooker, 150)
	f.addPlayer(t, "full-a", player.PositionFull, 150)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, id := range []string{"hooker-a", "full-a"} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = f.market.Buy(context.Background(), "user-1", id)
		}()
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		if !errors.Is(err, user.ErrInsufficientBalance) {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if succeeded != 1 {
		t.Fatalf("expected exactly one purchase, got %d", succeeded)
	}
	if got := f.balance(t, "user-1"); got != 60 {
		t.Fatalf("expected balance 60, got %d", got)
	}
}

func TestMarketService_SetCoach(t *testing.T) {
	f, _ := draftedFixture(t)
	f.addCoach(t, "coach-1")
	f.window.set(false)

	coachID := "coach-1"
	assigned, err := f.market.SetCoach(t.Context(), "user-1", &coachID)
	if err != nil {
		t.Fatalf("set coach: %v", err)
	}
	if assigned == nil || assigned.ID != "coach-1" {
		t.Fatalf("unexpected coach: %+v", assigned)
	}

	team, _, _ := f.store.Teams().GetByUserID(context.Background(), "user-1")
	if team.CoachID == nil || *team.CoachID != "coach-1" {
		t.Fatalf("coach not stored: %v", team.CoachID)
	}

	if _, err := f.market.SetCoach(t.Context(), "user-1", nil); err != nil {
		t.Fatalf("clear coach: %v", err)
	}
	team, _, _ = f.store.Teams().GetByUserID(context.Background(), "user-1")
	if team.CoachID != nil {
		t.Fatalf("expected cleared coach, got %v", *team.CoachID)
	}

	missing := "nobody"
	_, err = f.market.SetCoach(t.Context(), "user-1", &missing)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if got := f.balance(t, "user-1"); got != 500 {
		t.Fatalf("coach changes must not move balance, got %d", got)
	}
}
