package usecase

import (
	"testing"

	"github.com/mlonzayes/dbr-fantasy/internal/domain/weeklystat"
)

func TestRankingService_List(t *testing.T) {
	f := newEconomyFixture(t)
	ids := f.seedRoster(t, flatPrice(50))
	f.createTeam(t, "user-1", ids)

	f.roster.idGen = staticIDGenerator{id: "team-002"}
	f.createTeam(t, "user-2", ids)
	if _, err := f.market.Sell(t.Context(), "user-2", ids[0]); err != nil {
		t.Fatalf("sell: %v", err)
	}

	f.roster.idGen = staticIDGenerator{id: "team-003"}
	f.createTeam(t, "user-3", ids)
	if _, err := f.market.Sell(t.Context(), "user-3", ids[1]); err != nil {
		t.Fatalf("sell: %v", err)
	}

	ingest(t, f,
		weeklystat.RawRow{"id": ids[0], "puntos": float64(10)},
		weeklystat.RawRow{"id": ids[1], "puntos": float64(4)},
	)

	standings, err := f.ranking.List(t.Context())
	if err != nil {
		t.Fatalf("list ranking: %v", err)
	}
	if len(standings) != 3 {
		t.Fatalf("expected 3 standings, got %d", len(standings))
	}

	want := []struct {
		userID string
		points int64
	}{
		{userID: "user-1", points: 14},
		{userID: "user-3", points: 10},
		{userID: "user-2", points: 4},
	}
	for i, w := range want {
		got := standings[i]
		if got.Position != i+1 || got.UserID != w.userID || got.TotalPoints != w.points {
			t.Fatalf("standing %d: expected %s with %d, got %+v", i, w.userID, w.points, got)
		}
	}
}

func TestRankingService_ListEmpty(t *testing.T) {
	f := newEconomyFixture(t)

	standings, err := f.ranking.List(t.Context())
	if err != nil {
		t.Fatalf("list ranking: %v", err)
	}
	if len(standings) != 0 {
		t.Fatalf("expected no standings, got %v", standings)
	}
}
