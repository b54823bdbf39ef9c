package weeklystat

import "context"

// Repository describes weekly stat persistence needs from use cases.
type Repository interface {
	Get(ctx context.Context, key Key) (WeeklyStat, bool, error)
	Upsert(ctx context.Context, item WeeklyStat) error
	ListByPlayerIDs(ctx context.Context, playerIDs []string) ([]WeeklyStat, error)
	DeleteByPlayerID(ctx context.Context, playerID string) error
}
