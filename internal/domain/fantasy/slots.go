package fantasy

import (
	"sort"

	"github.com/mlonzayes/dbr-fantasy/internal/domain/player"
)

// Slot is a stable roster position, e.g. the second Pilar is {Pilar, 2}.
type Slot struct {
	Position player.Position
	Index    int
	PlayerID string
}

// AssignSlots orders picks by position and, within a position, by player id,
// so the same roster always renders the same way.
func AssignSlots(picks []Pick) []Slot {
	byPosition := make(map[player.Position][]string)
	for _, pick := range picks {
		byPosition[pick.Position] = append(byPosition[pick.Position], pick.PlayerID)
	}

	out := make([]Slot, 0, len(picks))
	for _, pos := range player.OrderedPositions {
		ids := byPosition[pos]
		sort.Strings(ids)
		for i, id := range ids {
			out = append(out, Slot{Position: pos, Index: i + 1, PlayerID: id})
		}
	}

	return out
}
