package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/mlonzayes/dbr-fantasy/internal/domain/coach"
)

type CoachRepository struct {
	v txView
}

func (r *CoachRepository) List(_ context.Context) ([]coach.Coach, error) {
	var out []coach.Coach
	r.v.read(func(st *state) {
		out = make([]coach.Coach, 0, len(st.coaches))
		for _, item := range st.coaches {
			out = append(out, item)
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *CoachRepository) GetByID(_ context.Context, coachID string) (coach.Coach, bool, error) {
	var (
		item coach.Coach
		ok   bool
	)
	r.v.read(func(st *state) {
		item, ok = st.coaches[coachID]
	})
	return item, ok, nil
}

func (r *CoachRepository) Create(_ context.Context, item coach.Coach) error {
	return r.v.write(func(st *state) error {
		if _, exists := st.coaches[item.ID]; exists {
			return fmt.Errorf("coach %s already exists", item.ID)
		}
		st.coaches[item.ID] = item
		return nil
	})
}

func (r *CoachRepository) Delete(_ context.Context, coachID string) error {
	return r.v.write(func(st *state) error {
		delete(st.coaches, coachID)
		return nil
	})
}
