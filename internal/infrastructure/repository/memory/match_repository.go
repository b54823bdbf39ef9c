package memory

import (
	"context"
	"fmt"

	"github.com/mlonzayes/dbr-fantasy/internal/domain/match"
)

type MatchRepository struct {
	v txView
}

func (r *MatchRepository) List(_ context.Context) ([]match.Match, error) {
	var out []match.Match
	r.v.read(func(st *state) {
		out = make([]match.Match, 0, len(st.matches))
		for _, item := range st.matches {
			out = append(out, item)
		}
	})
	match.SortByDate(out)
	return out, nil
}

func (r *MatchRepository) GetByID(_ context.Context, matchID string) (match.Match, bool, error) {
	var (
		item match.Match
		ok   bool
	)
	r.v.read(func(st *state) {
		item, ok = st.matches[matchID]
	})
	return item, ok, nil
}

func (r *MatchRepository) Create(_ context.Context, item match.Match) error {
	return r.v.write(func(st *state) error {
		if _, exists := st.matches[item.ID]; exists {
			return fmt.Errorf("match %s already exists", item.ID)
		}
		st.matches[item.ID] = item
		return nil
	})
}

func (r *MatchRepository) Delete(_ context.Context, matchID string) (bool, error) {
	var removed bool
	err := r.v.write(func(st *state) error {
		if _, removed = st.matches[matchID]; removed {
			delete(st.matches, matchID)
		}
		return nil
	})
	return removed, err
}
