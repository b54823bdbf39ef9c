package memory

import (
	"context"
	"fmt"

	"github.com/mlonzayes/dbr-fantasy/internal/domain/user"
)

type UserRepository struct {
	v txView
}

func (r *UserRepository) GetByID(_ context.Context, userID string) (user.User, bool, error) {
	var (
		item user.User
		ok   bool
	)
	r.v.read(func(st *state) {
		item, ok = st.users[userID]
	})
	return item, ok, nil
}

func (r *UserRepository) GetForUpdate(ctx context.Context, userID string) (user.User, bool, error) {
	return r.GetByID(ctx, userID)
}

func (r *UserRepository) Create(_ context.Context, item user.User) (bool, error) {
	created := false
	err := r.v.write(func(st *state) error {
		if _, exists := st.users[item.ID]; exists {
			return nil
		}
		st.users[item.ID] = item
		created = true
		return nil
	})
	return created, err
}

func (r *UserRepository) UpdateBalance(_ context.Context, userID string, balance int64) error {
	return r.v.write(func(st *state) error {
		item, ok := st.users[userID]
		if !ok {
			return fmt.Errorf("user %s not found", userID)
		}
		if balance < 0 {
			return fmt.Errorf("%w: balance=%d", user.ErrInsufficientBalance, balance)
		}
		item.Balance = balance
		st.users[userID] = item
		return nil
	})
}

func (r *UserRepository) Delete(_ context.Context, userID string) error {
	return r.v.write(func(st *state) error {
		delete(st.users, userID)
		return nil
	})
}
