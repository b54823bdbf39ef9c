package match

import (
	"testing"
	"time"
)

func TestMatchValidate(t *testing.T) {
	kickoff := time.Date(2026, time.March, 14, 15, 30, 0, 0, time.UTC)
	valid := Match{ID: "m1", Round: "Fecha 1", HomeTeam: "Atlético del Rosario", AwayTeam: "Jockey Club", Stadium: "Plaza Jewell", Date: kickoff}

	tests := []struct {
		name    string
		mutate  func(m *Match)
		wantErr bool
	}{
		{name: "valid", mutate: func(*Match) {}},
		{name: "missing id", mutate: func(m *Match) { m.ID = "" }, wantErr: true},
		{name: "blank round", mutate: func(m *Match) { m.Round = "  " }, wantErr: true},
		{name: "missing away", mutate: func(m *Match) { m.AwayTeam = "" }, wantErr: true},
		{name: "same team", mutate: func(m *Match) { m.AwayTeam = "atlético del rosario " }, wantErr: true},
		{name: "missing stadium", mutate: func(m *Match) { m.Stadium = "" }, wantErr: true},
		{name: "zero date", mutate: func(m *Match) { m.Date = time.Time{} }, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			item := valid
			tc.mutate(&item)
			err := item.Validate()
			if tc.wantErr && err == nil {
				t.Fatalf("expected validation error")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestSortByDate(t *testing.T) {
	base := time.Date(2026, time.March, 14, 15, 30, 0, 0, time.UTC)
	items := []Match{
		{ID: "c", Date: base.Add(48 * time.Hour)},
		{ID: "b", Date: base},
		{ID: "a", Date: base},
	}

	SortByDate(items)

	got := []string{items[0].ID, items[1].ID, items[2].ID}
	if got[0] != "a" || got[1] != "b" || got[2] != "c" {
		t.Fatalf("unexpected order %v", got)
	}
}
