package querybuilder

import (
	"reflect"
	"testing"
)

func TestSelectBuilder(t *testing.T) {
	tests := []struct {
		name      string
		build     func() (string, []any, error)
		wantQuery string
		wantArgs  []any
	}{
		{
			name: "filters order and limit",
			build: func() (string, []any, error) {
				return Select("id", "name").
					From("players").
					Where(Eq("division", "Top 12"), IsNull("deleted_at")).
					OrderBy("current_price DESC", "name").
					Limit(10).
					ToSQL()
			},
			wantQuery: "SELECT id, name FROM players WHERE division = $1 AND deleted_at IS NULL ORDER BY current_price DESC, name LIMIT 10",
			wantArgs:  []any{"Top 12"},
		},
		{
			name: "row lock",
			build: func() (string, []any, error) {
				return Select("id", "balance").From("users").Where(Eq("id", "u1")).ForUpdate().ToSQL()
			},
			wantQuery: "SELECT id, balance FROM users WHERE id = $1 FOR UPDATE",
			wantArgs:  []any{"u1"},
		},
		{
			name: "array membership and expression",
			build: func() (string, []any, error) {
				return Select("player_id").
					From("weekly_stats").
					Where(Any("player_id", []string{"a", "b"}), Expr("year >= ? AND week <= ?", 2026, 10)).
					ToSQL()
			},
			wantQuery: "SELECT player_id FROM weekly_stats WHERE player_id = ANY($1) AND year >= $2 AND week <= $3",
			wantArgs:  []any{[]string{"a", "b"}, 2026, 10},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args, err := tt.build()
			if err != nil {
				t.Fatalf("build query: %v", err)
			}
			if query != tt.wantQuery {
				t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", tt.wantQuery, query)
			}
			if !reflect.DeepEqual(args, tt.wantArgs) {
				t.Fatalf("unexpected args: %+v", args)
			}
		})
	}
}

func TestInsertModel(t *testing.T) {
	type row struct {
		ID      string `db:"id"`
		Balance int64  `db:"balance"`
		Ignored string `db:"-"`
		hidden  string
	}

	query, args, err := InsertModel("users", row{ID: "u1", Balance: 1250, hidden: "x"}, "ON CONFLICT (id) DO NOTHING")
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO users (id, balance) VALUES ($1, $2) ON CONFLICT (id) DO NOTHING"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "u1" || args[1] != int64(1250) {
		t.Fatalf("unexpected args: %+v", args)
	}
	if cols := Columns(row{}); !reflect.DeepEqual(cols, []string{"id", "balance"}) {
		t.Fatalf("unexpected columns: %v", cols)
	}
}

func TestUpdateBuilder(t *testing.T) {
	query, args, err := Update("users").
		Set("balance", int64(500)).
		SetExpr("updated_at", "NOW()").
		Where(Eq("id", "u1")).
		ToSQL()
	if err != nil {
		t.Fatalf("build update query: %v", err)
	}

	wantQuery := "UPDATE users SET balance = $1, updated_at = NOW() WHERE id = $2"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != int64(500) || args[1] != "u1" {
		t.Fatalf("unexpected args: %+v", args)
	}

	if _, _, err := Update("users").Set("balance", 1).ToSQL(); err == nil {
		t.Fatalf("expected error for update without where clause")
	}
}

func TestDeleteBuilder(t *testing.T) {
	query, args, err := DeleteFrom("fantasy_team_players").
		Where(Eq("team_id", "t1"), Eq("player_id", "p1")).
		ToSQL()
	if err != nil {
		t.Fatalf("build delete query: %v", err)
	}

	wantQuery := "DELETE FROM fantasy_team_players WHERE team_id = $1 AND player_id = $2"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 {
		t.Fatalf("unexpected args: %+v", args)
	}

	if _, _, err := DeleteFrom("players").ToSQL(); err == nil {
		t.Fatalf("expected error for delete without where clause")
	}
}
