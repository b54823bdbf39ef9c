package player

import (
	"fmt"
	"strings"
	"time"
)

// Position represents the rugby position categories used in fantasy rules.
type Position string

const (
	PositionPilar       Position = "Pilar"
	PositionHooker      Position = "Hooker"
	PositionSegundaLine Position = "Segunda línea"
	PositionAla         Position = "Ala"
	PositionNumberEight Position = "N°8"
	PositionMedioScrum  Position = "Medio scrum"
	PositionApertura    Position = "Apertura"
	PositionCentro      Position = "Centro"
	PositionWing        Position = "Wing"
	PositionFull        Position = "Full"
)

var AllPositions = map[Position]struct{}{
	PositionPilar:       {},
	PositionHooker:      {},
	PositionSegundaLine: {},
	PositionAla:         {},
	PositionNumberEight: {},
	PositionMedioScrum:  {},
	PositionApertura:    {},
	PositionCentro:      {},
	PositionWing:        {},
	PositionFull:        {},
}

// OrderedPositions lists positions in jersey order, front row first.
var OrderedPositions = []Position{
	PositionPilar,
	PositionHooker,
	PositionSegundaLine,
	PositionAla,
	PositionNumberEight,
	PositionMedioScrum,
	PositionApertura,
	PositionCentro,
	PositionWing,
	PositionFull,
}

const (
	MinPrice int64 = 1
	MaxPrice int64 = 150
)

// ClampPrice keeps a market price inside [MinPrice, MaxPrice].
func ClampPrice(price int64) int64 {
	if price < MinPrice {
		return MinPrice
	}
	if price > MaxPrice {
		return MaxPrice
	}
	return price
}

// positionAliases maps lowercased spellings found in imported sheets to positions.
var positionAliases = map[string]Position{
	"pilar":         PositionPilar,
	"hooker":        PositionHooker,
	"segunda línea": PositionSegundaLine,
	"segunda linea": PositionSegundaLine,
	"ala":           PositionAla,
	"n°8":           PositionNumberEight,
	"nº8":           PositionNumberEight,
	"n8":            PositionNumberEight,
	"medio scrum":   PositionMedioScrum,
	"apertura":      PositionApertura,
	"centro":        PositionCentro,
	"wing":          PositionWing,
	"full":          PositionFull,
	"full back":     PositionFull,
	"fullback":      PositionFull,
}

// ParsePosition accepts canonical names and their common spellings, ignoring case.
func ParsePosition(raw string) (Position, error) {
	key := strings.Join(strings.Fields(strings.ToLower(raw)), " ")
	if pos, ok := positionAliases[key]; ok {
		return pos, nil
	}
	return "", fmt.Errorf("invalid player position: %s", raw)
}

// Player is a selectable athlete in the fantasy pool.
type Player struct {
	ID           string
	Name         string
	Position     Position
	Division     string
	BasePrice    int64
	CurrentPrice int64
	TotalPoints  int64
	ImageURL     string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (p Player) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("player id is required")
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("player name is required")
	}
	if _, ok := AllPositions[p.Position]; !ok {
		return fmt.Errorf("invalid player position: %s", p.Position)
	}
	if p.CurrentPrice < MinPrice || p.CurrentPrice > MaxPrice {
		return fmt.Errorf("player price must be between %d and %d", MinPrice, MaxPrice)
	}

	return nil
}
