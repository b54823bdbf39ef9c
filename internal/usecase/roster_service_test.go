package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/mlonzayes/dbr-fantasy/internal/domain/fantasy"
	"github.com/mlonzayes/dbr-fantasy/internal/domain/market"
	"github.com/mlonzayes/dbr-fantasy/internal/domain/player"
	"github.com/mlonzayes/dbr-fantasy/internal/domain/user"
)

func TestRosterService_CreateTeam_DebitsTotalCost(t *testing.T) {
	f := newEconomyFixture(t)
	ids := f.seedRoster(t, flatPrice(50))

	result := f.createTeam(t, "user-1", ids)

	if result.TotalCost != 750 {
		t.Fatalf("unexpected total cost: %d", result.TotalCost)
	}
	if result.Balance != 500 {
		t.Fatalf("unexpected balance: %d", result.Balance)
	}
	if got := f.balance(t, "user-1"); got != 500 {
		t.Fatalf("unexpected stored balance: %d", got)
	}

	team, exists, err := f.store.Teams().GetByUserID(context.Background(), "user-1")
	if err != nil || !exists {
		t.Fatalf("expected stored team, exists=%v err=%v", exists, err)
	}
	if team.ID != "team-001" || len(team.PlayerIDs) != 15 {
		t.Fatalf("unexpected team: %+v", team)
	}
}

func TestRosterService_CreateTeam_AcceptsExactlyBudgetCap(t *testing.T) {
	f := newEconomyFixture(t)
	// 88 + 14*83 = 1250
	ids := f.seedRoster(t, func(i int) int64 {
		if i == 1 {
			return 88
		}
		return 83
	})
	f.addPlayer(t, "extra", player.PositionWing, 1)

	result := f.createTeam(t, "user-1", ids)
	if result.Balance != 0 {
		t.Fatalf("expected zero balance, got %d", result.Balance)
	}

	_, err := f.market.Buy(t.Context(), "user-1", "extra")
	if !errors.Is(err, user.ErrInsufficientBalance) {
		t.Fatalf("expected insufficient balance, got %v", err)
	}
}

func TestRosterService_CreateTeam_RejectsWithoutPartialWrites(t *testing.T) {
	tests := []struct {
		name      string
		prepare   func(f *economyFixture, ids []string) []string
		targetErr error
	}{
		{
			name: "over budget cap",
			prepare: func(f *economyFixture, ids []string) []string {
				// 15*84 = 1260
				for _, id := range ids {
					_, _ = f.catalog.AdjustPrice(context.Background(), id, 34)
				}
				return ids
			},
			targetErr: fantasy.ErrExceededBudget,
		},
		{
			name: "fourteen players",
			prepare: func(_ *economyFixture, ids []string) []string {
				return ids[:14]
			},
			targetErr: fantasy.ErrInvalidSquadSize,
		},
		{
			name: "duplicate player",
			prepare: func(_ *economyFixture, ids []string) []string {
				out := append([]string(nil), ids...)
				out[1] = out[0]
				return out
			},
			targetErr: fantasy.ErrDuplicatePlayerInSquad,
		},
		{
			name: "unknown player",
			prepare: func(_ *economyFixture, ids []string) []string {
				out := append([]string(nil), ids...)
				out[14] = "missing"
				return out
			},
			targetErr: ErrNotFound,
		},
		{
			name: "quota exceeded",
			prepare: func(f *economyFixture, ids []string) []string {
				out := append([]string(nil), ids...)
				out[2] = "third-pilar"
				return out
			},
			targetErr: fantasy.ErrQuotaExceeded,
		},
		{
			name: "window closed",
			prepare: func(f *economyFixture, ids []string) []string {
				f.window.set(false)
				return ids
			},
			targetErr: market.ErrWindowClosed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newEconomyFixture(t)
			ids := f.seedRoster(t, flatPrice(50))
			f.addPlayer(t, "third-pilar", player.PositionPilar, 10)

			_, err := f.roster.CreateTeam(t.Context(), CreateTeamInput{
				UserID:    "user-1",
				Name:      "Los Pumitas",
				PlayerIDs: tt.prepare(f, ids),
			})
			if !errors.Is(err, tt.targetErr) {
				t.Fatalf("expected %v, got %v", tt.targetErr, err)
			}

			if _, exists, _ := f.store.Teams().GetByUserID(context.Background(), "user-1"); exists {
				t.Fatalf("expected no team after rejected draft")
			}
			if item, exists, _ := f.store.Users().GetByID(context.Background(), "user-1"); exists && item.Balance != 1250 {
				t.Fatalf("expected untouched balance, got %d", item.Balance)
			}
		})
	}
}

func TestRosterService_CreateTeam_IsOneShot(t *testing.T) {
	f := newEconomyFixture(t)
	ids := f.seedRoster(t, flatPrice(10))
	f.createTeam(t, "user-1", ids)

	_, err := f.roster.CreateTeam(t.Context(), CreateTeamInput{UserID: "user-1", Name: "again", PlayerIDs: ids})
	if !errors.Is(err, fantasy.ErrTeamAlreadyExists) {
		t.Fatalf("expected ErrTeamAlreadyExists, got %v", err)
	}
	if got := f.balance(t, "user-1"); got != 1100 {
		t.Fatalf("second draft must not debit, balance=%d", got)
	}
}

func TestRosterService_CreateTeam_WindowGateIsConfigurable(t *testing.T) {
	f := newEconomyFixture(t)
	ids := f.seedRoster(t, flatPrice(10))
	f.window.set(false)
	f.roster.cfg.RequireOpenWindow = false

	result := f.createTeam(t, "user-1", ids)
	if result.Balance != 1100 {
		t.Fatalf("unexpected balance: %d", result.Balance)
	}
}

func TestRosterService_CreateTeam_WithCoach(t *testing.T) {
	f := newEconomyFixture(t)
	ids := f.seedRoster(t, flatPrice(10))
	f.addCoach(t, "coach-1")
	coachID := " coach-1 "

	result, err := f.roster.CreateTeam(t.Context(), CreateTeamInput{UserID: "user-1", Name: "XV", PlayerIDs: ids, CoachID: &coachID})
	if err != nil {
		t.Fatalf("create team: %v", err)
	}
	if result.Team.CoachID == nil || *result.Team.CoachID != "coach-1" {
		t.Fatalf("unexpected coach id: %v", result.Team.CoachID)
	}

	missing := "nope"
	_, err = f.roster.CreateTeam(t.Context(), CreateTeamInput{UserID: "user-2", Name: "XV", PlayerIDs: ids, CoachID: &missing})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown coach, got %v", err)
	}
}

func TestRosterService_GetTeam_OrdersPlayersBySlot(t *testing.T) {
	f := newEconomyFixture(t)
	ids := f.seedRoster(t, flatPrice(20))

	shuffled := append([]string(nil), ids...)
	for i, j := 0, len(shuffled)-1; i < j; i, j = i+1, j-1 {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}
	f.createTeam(t, "user-1", shuffled)

	view, err := f.roster.GetTeam(t.Context(), "user-1")
	if err != nil {
		t.Fatalf("get team: %v", err)
	}
	if len(view.Players) != 15 || len(view.Slots) != 15 {
		t.Fatalf("unexpected sizes: players=%d slots=%d", len(view.Players), len(view.Slots))
	}
	for i, p := range view.Players {
		if p.ID != ids[i] {
			t.Fatalf("slot %d: expected %s, got %s", i, ids[i], p.ID)
		}
	}
	if view.TeamValue != 300 || view.Balance != 950 {
		t.Fatalf("unexpected value/balance: %d/%d", view.TeamValue, view.Balance)
	}

	_, err = f.roster.GetTeam(t.Context(), "nobody")
	if !errors.Is(err, fantasy.ErrTeamNotFound) {
		t.Fatalf("expected ErrTeamNotFound, got %v", err)
	}
}
