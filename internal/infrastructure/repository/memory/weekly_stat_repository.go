package memory

import (
	"context"
	"sort"

	"github.com/mlonzayes/dbr-fantasy/internal/domain/weeklystat"
)

type WeeklyStatRepository struct {
	v txView
}

func (r *WeeklyStatRepository) Get(_ context.Context, key weeklystat.Key) (weeklystat.WeeklyStat, bool, error) {
	var (
		item weeklystat.WeeklyStat
		ok   bool
	)
	r.v.read(func(st *state) {
		item, ok = st.stats[key]
	})
	return item, ok, nil
}

func (r *WeeklyStatRepository) Upsert(_ context.Context, item weeklystat.WeeklyStat) error {
	return r.v.write(func(st *state) error {
		st.stats[item.Key()] = item
		return nil
	})
}

func (r *WeeklyStatRepository) ListByPlayerIDs(_ context.Context, playerIDs []string) ([]weeklystat.WeeklyStat, error) {
	wanted := make(map[string]struct{}, len(playerIDs))
	for _, id := range playerIDs {
		wanted[id] = struct{}{}
	}

	var out []weeklystat.WeeklyStat
	r.v.read(func(st *state) {
		for key, item := range st.stats {
			if _, ok := wanted[key.PlayerID]; ok {
				out = append(out, item)
			}
		}
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].PlayerID != out[j].PlayerID {
			return out[i].PlayerID < out[j].PlayerID
		}
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].Week < out[j].Week
	})
	return out, nil
}

func (r *WeeklyStatRepository) DeleteByPlayerID(_ context.Context, playerID string) error {
	return r.v.write(func(st *state) error {
		for key := range st.stats {
			if key.PlayerID == playerID {
				delete(st.stats, key)
			}
		}
		return nil
	})
}
