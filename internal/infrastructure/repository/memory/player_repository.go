package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/mlonzayes/dbr-fantasy/internal/domain/player"
)

type PlayerRepository struct {
	v txView
}

func (r *PlayerRepository) List(_ context.Context) ([]player.Player, error) {
	var out []player.Player
	r.v.read(func(st *state) {
		out = make([]player.Player, 0, len(st.players))
		for _, item := range st.players {
			out = append(out, item)
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *PlayerRepository) GetByID(_ context.Context, playerID string) (player.Player, bool, error) {
	var (
		item player.Player
		ok   bool
	)
	r.v.read(func(st *state) {
		item, ok = st.players[playerID]
	})
	return item, ok, nil
}

func (r *PlayerRepository) GetForUpdate(ctx context.Context, playerID string) (player.Player, bool, error) {
	return r.GetByID(ctx, playerID)
}

func (r *PlayerRepository) GetByIDs(_ context.Context, playerIDs []string) ([]player.Player, error) {
	out := make([]player.Player, 0, len(playerIDs))
	r.v.read(func(st *state) {
		for _, id := range playerIDs {
			if item, ok := st.players[id]; ok {
				out = append(out, item)
			}
		}
	})
	return out, nil
}

func (r *PlayerRepository) Create(_ context.Context, item player.Player) error {
	return r.v.write(func(st *state) error {
		if _, exists := st.players[item.ID]; exists {
			return fmt.Errorf("player %s already exists", item.ID)
		}
		st.players[item.ID] = item
		return nil
	})
}

func (r *PlayerRepository) Update(_ context.Context, item player.Player) error {
	return r.v.write(func(st *state) error {
		if _, exists := st.players[item.ID]; !exists {
			return fmt.Errorf("player %s not found", item.ID)
		}
		st.players[item.ID] = item
		return nil
	})
}

func (r *PlayerRepository) Delete(_ context.Context, playerID string) error {
	return r.v.write(func(st *state) error {
		delete(st.players, playerID)
		return nil
	})
}
