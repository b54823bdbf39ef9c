package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/mlonzayes/dbr-fantasy/internal/domain/coach"
	"github.com/mlonzayes/dbr-fantasy/internal/domain/player"
)

func SeedPlayers() []player.Player {
	created := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	type row struct {
		name     string
		position player.Position
		division string
		price    int64
	}
	rows := []row{
		{"Tomás Gallo", player.PositionPilar, "Primera", 95},
		{"Mayco Vivas", player.PositionPilar, "Primera", 80},
		{"Eduardo Bello", player.PositionPilar, "Intermedia", 60},
		{"Julián Montoya", player.PositionHooker, "Primera", 120},
		{"Ignacio Ruiz", player.PositionHooker, "Intermedia", 70},
		{"Guido Petti", player.PositionSegundaLine, "Primera", 110},
		{"Matías Alemanno", player.PositionSegundaLine, "Primera", 90},
		{"Franco Molina", player.PositionSegundaLine, "Intermedia", 55},
		{"Pablo Matera", player.PositionAla, "Primera", 130},
		{"Marcos Kremer", player.PositionAla, "Primera", 115},
		{"Juan Martín González", player.PositionAla, "Intermedia", 85},
		{"Facundo Isa", player.PositionNumberEight, "Primera", 105},
		{"Rodrigo Bruni", player.PositionNumberEight, "Intermedia", 75},
		{"Gonzalo Bertranou", player.PositionMedioScrum, "Primera", 88},
		{"Tomás Cubelli", player.PositionMedioScrum, "Intermedia", 65},
		{"Santiago Carreras", player.PositionApertura, "Primera", 125},
		{"Nicolás Sánchez", player.PositionApertura, "Intermedia", 90},
		{"Matías Moroni", player.PositionCentro, "Primera", 92},
		{"Jerónimo de la Fuente", player.PositionCentro, "Primera", 87},
		{"Lucio Cinti", player.PositionCentro, "Intermedia", 58},
		{"Emiliano Boffelli", player.PositionWing, "Primera", 118},
		{"Mateo Carreras", player.PositionWing, "Primera", 100},
		{"Bautista Delguy", player.PositionWing, "Intermedia", 70},
		{"Juan Cruz Mallía", player.PositionFull, "Primera", 112},
		{"Santiago Cordero", player.PositionFull, "Intermedia", 78},
	}

	out := make([]player.Player, 0, len(rows))
	for i, r := range rows {
		out = append(out, player.Player{
			ID:           fmt.Sprintf("plr-%03d", i+1),
			Name:         r.name,
			Position:     r.position,
			Division:     r.division,
			BasePrice:    r.price,
			CurrentPrice: r.price,
			CreatedAt:    created,
			UpdatedAt:    created,
		})
	}
	return out
}

func SeedCoaches() []coach.Coach {
	return []coach.Coach{
		{ID: "cch-001", Name: "Felipe Contepomi"},
		{ID: "cch-002", Name: "Michael Cheika"},
		{ID: "cch-003", Name: "Daniel Hourcade"},
	}
}

// Seed loads catalog fixtures into the store.
func Seed(ctx context.Context, store *Store, players []player.Player, coaches []coach.Coach) error {
	for _, item := range players {
		if err := store.Players().Create(ctx, item); err != nil {
			return fmt.Errorf("seed player %s: %w", item.ID, err)
		}
	}
	for _, item := range coaches {
		if err := store.Coaches().Create(ctx, item); err != nil {
			return fmt.Errorf("seed coach %s: %w", item.ID, err)
		}
	}
	return nil
}
