package match

import "context"

// Repository describes calendar persistence needs from use cases.
// List returns fixtures ordered by date ascending.
type Repository interface {
	List(ctx context.Context) ([]Match, error)
	GetByID(ctx context.Context, matchID string) (Match, bool, error)
	Create(ctx context.Context, item Match) error
	Delete(ctx context.Context, matchID string) (bool, error)
}
