package fantasy

import (
	"errors"
	"fmt"

	"github.com/mlonzayes/dbr-fantasy/internal/domain/player"
)

var (
	ErrInvalidSquadSize       = errors.New("invalid squad size")
	ErrExceededBudget         = errors.New("budget cap exceeded")
	ErrQuotaExceeded          = errors.New("position quota exceeded")
	ErrUnknownPlayerPosition  = errors.New("unknown player position")
	ErrDuplicatePlayerInSquad = errors.New("duplicate player in squad")
	ErrTeamAlreadyExists      = errors.New("team already exists")
	ErrTeamNotFound           = errors.New("team not found")
	ErrPlayerAlreadyOwned     = errors.New("player already in team")
	ErrPlayerNotOwned         = errors.New("player not in team")
)

// Rules stores fantasy roster validation parameters.
type Rules struct {
	SquadSize       int
	BudgetCap       int64
	QuotaByPosition map[player.Position]int
}

func DefaultRules() Rules {
	return Rules{
		SquadSize: 15,
		BudgetCap: 1250,
		QuotaByPosition: map[player.Position]int{
			player.PositionPilar:       2,
			player.PositionHooker:      1,
			player.PositionSegundaLine: 2,
			player.PositionAla:         2,
			player.PositionNumberEight: 1,
			player.PositionMedioScrum:  1,
			player.PositionApertura:    1,
			player.PositionCentro:      2,
			player.PositionWing:        2,
			player.PositionFull:        1,
		},
	}
}

// ValidateRoster checks a full draft: size, distinct players, quotas and budget cap.
func ValidateRoster(picks []Pick, rules Rules) (int64, error) {
	if len(picks) != rules.SquadSize {
		return 0, fmt.Errorf("%w: expected %d, got %d", ErrInvalidSquadSize, rules.SquadSize, len(picks))
	}

	positionCounter := make(map[player.Position]int)
	playerSet := make(map[string]struct{})
	var totalCost int64

	for _, pick := range picks {
		if pick.PlayerID == "" {
			return 0, fmt.Errorf("player id is required")
		}
		if _, exists := playerSet[pick.PlayerID]; exists {
			return 0, fmt.Errorf("%w: %s", ErrDuplicatePlayerInSquad, pick.PlayerID)
		}
		playerSet[pick.PlayerID] = struct{}{}

		if _, ok := player.AllPositions[pick.Position]; !ok {
			return 0, fmt.Errorf("%w: %s", ErrUnknownPlayerPosition, pick.Position)
		}

		positionCounter[pick.Position]++
		if positionCounter[pick.Position] > rules.QuotaByPosition[pick.Position] {
			return 0, fmt.Errorf("%w: pos=%s max=%d", ErrQuotaExceeded, pick.Position, rules.QuotaByPosition[pick.Position])
		}
		totalCost += pick.Price
	}

	if totalCost > rules.BudgetCap {
		return 0, fmt.Errorf("%w: cap=%d used=%d", ErrExceededBudget, rules.BudgetCap, totalCost)
	}

	return totalCost, nil
}

// ValidateAddition checks that one more player fits the current roster's quotas.
func ValidateAddition(current []Pick, incoming Pick, rules Rules) error {
	if _, ok := player.AllPositions[incoming.Position]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPlayerPosition, incoming.Position)
	}

	count := 0
	for _, pick := range current {
		if pick.PlayerID == incoming.PlayerID {
			return fmt.Errorf("%w: %s", ErrPlayerAlreadyOwned, incoming.PlayerID)
		}
		if pick.Position == incoming.Position {
			count++
		}
	}
	quota := rules.QuotaByPosition[incoming.Position]
	if count >= quota {
		return fmt.Errorf("%w: pos=%s max=%d", ErrQuotaExceeded, incoming.Position, quota)
	}
	// quotas sum to the squad size, so this only trips on custom rules
	if len(current) >= rules.SquadSize {
		return fmt.Errorf("%w: squad already has %d players", ErrInvalidSquadSize, len(current))
	}

	return nil
}
