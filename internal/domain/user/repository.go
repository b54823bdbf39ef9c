package user

import "context"

// Repository describes user ledger persistence needs from use cases.
type Repository interface {
	GetByID(ctx context.Context, userID string) (User, bool, error)
	// GetForUpdate loads a user and holds its row until the surrounding transaction ends.
	GetForUpdate(ctx context.Context, userID string) (User, bool, error)
	// Create inserts the user when absent and reports whether a row was written.
	Create(ctx context.Context, item User) (bool, error)
	UpdateBalance(ctx context.Context, userID string, balance int64) error
	Delete(ctx context.Context, userID string) error
}
