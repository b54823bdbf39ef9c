package user

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrNegativeAmount      = errors.New("amount must not be negative")
)

// Principal is the authenticated caller resolved from an access token.
type Principal struct {
	UserID string
	Email  string
}

// User holds the participant's budget ledger.
type User struct {
	ID        string
	Balance   int64
	IsAdmin   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Debit removes amount from the balance, refusing to go below zero.
func (u User) Debit(amount int64) (User, error) {
	if amount < 0 {
		return u, fmt.Errorf("%w: %d", ErrNegativeAmount, amount)
	}
	if u.Balance < amount {
		return u, fmt.Errorf("%w: balance=%d required=%d", ErrInsufficientBalance, u.Balance, amount)
	}
	u.Balance -= amount
	return u, nil
}

func (u User) Credit(amount int64) (User, error) {
	if amount < 0 {
		return u, fmt.Errorf("%w: %d", ErrNegativeAmount, amount)
	}
	u.Balance += amount
	return u, nil
}
