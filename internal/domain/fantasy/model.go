package fantasy

import (
	"fmt"
	"strings"
	"time"

	"github.com/mlonzayes/dbr-fantasy/internal/domain/player"
)

// Team is a user's fantasy roster: 15 players and an optional coach.
type Team struct {
	ID        string
	UserID    string
	Name      string
	CoachID   *string
	PlayerIDs []string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (t Team) ValidateBasic() error {
	if t.ID == "" {
		return fmt.Errorf("team id is required")
	}
	if t.UserID == "" {
		return fmt.Errorf("user id is required")
	}
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("team name is required")
	}

	return nil
}

func (t Team) Owns(playerID string) bool {
	for _, id := range t.PlayerIDs {
		if id == playerID {
			return true
		}
	}
	return false
}

// Pick is one roster member with the attributes rules need.
type Pick struct {
	PlayerID string
	Position player.Position
	Price    int64
}

func PicksFromPlayers(items []player.Player) []Pick {
	out := make([]Pick, 0, len(items))
	for _, item := range items {
		out = append(out, Pick{
			PlayerID: item.ID,
			Position: item.Position,
			Price:    item.CurrentPrice,
		})
	}
	return out
}

// Standing is one row of the season ranking.
type Standing struct {
	Position    int
	TeamID      string
	TeamName    string
	UserID      string
	TotalPoints int64
}
