package fantasy

import "context"

// Repository describes fantasy team persistence needs from use cases.
type Repository interface {
	GetByUserID(ctx context.Context, userID string) (Team, bool, error)
	List(ctx context.Context) ([]Team, error)
	Create(ctx context.Context, team Team) error
	AddPlayer(ctx context.Context, teamID, playerID string) error
	RemovePlayer(ctx context.Context, teamID, playerID string) error
	SetCoach(ctx context.Context, teamID string, coachID *string) error
	// ListHolderUserIDs returns the owners of every team holding the player.
	ListHolderUserIDs(ctx context.Context, playerID string) ([]string, error)
	RemovePlayerFromAll(ctx context.Context, playerID string) error
	ClearCoach(ctx context.Context, coachID string) error
	DeleteByUserID(ctx context.Context, userID string) error
}
