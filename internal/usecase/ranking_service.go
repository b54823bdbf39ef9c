package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/mlonzayes/dbr-fantasy/internal/domain/fantasy"
	"github.com/mlonzayes/dbr-fantasy/internal/domain/player"
	"github.com/sourcegraph/conc"
)

type RankingService struct {
	teamRepo   fantasy.Repository
	playerRepo player.Repository
}

func NewRankingService(teamRepo fantasy.Repository, playerRepo player.Repository) *RankingService {
	return &RankingService{teamRepo: teamRepo, playerRepo: playerRepo}
}

// List ranks teams by the summed total points of their current players.
func (s *RankingService) List(ctx context.Context) ([]fantasy.Standing, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RankingService.List")
	defer span.End()

	var (
		teams     []fantasy.Team
		players   []player.Player
		teamErr   error
		playerErr error
	)
	var wg conc.WaitGroup
	wg.Go(func() {
		teams, teamErr = s.teamRepo.List(ctx)
	})
	wg.Go(func() {
		players, playerErr = s.playerRepo.List(ctx)
	})
	wg.Wait()

	if teamErr != nil {
		return nil, fmt.Errorf("list teams: %w", teamErr)
	}
	if playerErr != nil {
		return nil, fmt.Errorf("list players: %w", playerErr)
	}

	points := make(map[string]int64, len(players))
	for _, p := range players {
		points[p.ID] = p.TotalPoints
	}

	out := make([]fantasy.Standing, 0, len(teams))
	for _, team := range teams {
		var total int64
		for _, id := range team.PlayerIDs {
			total += points[id]
		}
		out = append(out, fantasy.Standing{
			TeamID:      team.ID,
			TeamName:    team.Name,
			UserID:      team.UserID,
			TotalPoints: total,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].TotalPoints != out[j].TotalPoints {
			return out[i].TotalPoints > out[j].TotalPoints
		}
		return out[i].TeamName < out[j].TeamName
	})
	for i := range out {
		out[i].Position = i + 1
	}

	return out, nil
}
