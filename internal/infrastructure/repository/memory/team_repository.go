package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/mlonzayes/dbr-fantasy/internal/domain/fantasy"
)

type TeamRepository struct {
	v txView
}

func (r *TeamRepository) GetByUserID(_ context.Context, userID string) (fantasy.Team, bool, error) {
	var (
		item fantasy.Team
		ok   bool
	)
	r.v.read(func(st *state) {
		teamID, exists := st.teamByUser[userID]
		if !exists {
			return
		}
		item, ok = st.teams[teamID]
		item = cloneTeam(item)
	})
	return item, ok, nil
}

func (r *TeamRepository) List(_ context.Context) ([]fantasy.Team, error) {
	var out []fantasy.Team
	r.v.read(func(st *state) {
		out = make([]fantasy.Team, 0, len(st.teams))
		for _, item := range st.teams {
			out = append(out, cloneTeam(item))
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *TeamRepository) Create(_ context.Context, team fantasy.Team) error {
	return r.v.write(func(st *state) error {
		if _, exists := st.teamByUser[team.UserID]; exists {
			return fmt.Errorf("%w: user=%s", fantasy.ErrTeamAlreadyExists, team.UserID)
		}
		seen := make(map[string]struct{}, len(team.PlayerIDs))
		for _, id := range team.PlayerIDs {
			if _, dup := seen[id]; dup {
				return fmt.Errorf("%w: %s", fantasy.ErrDuplicatePlayerInSquad, id)
			}
			seen[id] = struct{}{}
		}
		st.teams[team.ID] = cloneTeam(team)
		st.teamByUser[team.UserID] = team.ID
		return nil
	})
}

func (r *TeamRepository) AddPlayer(_ context.Context, teamID, playerID string) error {
	return r.v.write(func(st *state) error {
		team, ok := st.teams[teamID]
		if !ok {
			return fmt.Errorf("%w: %s", fantasy.ErrTeamNotFound, teamID)
		}
		if team.Owns(playerID) {
			return fmt.Errorf("%w: %s", fantasy.ErrPlayerAlreadyOwned, playerID)
		}
		team.PlayerIDs = append(append([]string(nil), team.PlayerIDs...), playerID)
		st.teams[teamID] = team
		return nil
	})
}

func (r *TeamRepository) RemovePlayer(_ context.Context, teamID, playerID string) error {
	return r.v.write(func(st *state) error {
		team, ok := st.teams[teamID]
		if !ok {
			return fmt.Errorf("%w: %s", fantasy.ErrTeamNotFound, teamID)
		}
		if !team.Owns(playerID) {
			return fmt.Errorf("%w: %s", fantasy.ErrPlayerNotOwned, playerID)
		}
		st.teams[teamID] = withoutPlayer(team, playerID)
		return nil
	})
}

func (r *TeamRepository) SetCoach(_ context.Context, teamID string, coachID *string) error {
	return r.v.write(func(st *state) error {
		team, ok := st.teams[teamID]
		if !ok {
			return fmt.Errorf("%w: %s", fantasy.ErrTeamNotFound, teamID)
		}
		team.CoachID = cloneStringPtr(coachID)
		st.teams[teamID] = team
		return nil
	})
}

func (r *TeamRepository) ListHolderUserIDs(_ context.Context, playerID string) ([]string, error) {
	var out []string
	r.v.read(func(st *state) {
		for _, team := range st.teams {
			if team.Owns(playerID) {
				out = append(out, team.UserID)
			}
		}
	})
	sort.Strings(out)
	return out, nil
}

func (r *TeamRepository) RemovePlayerFromAll(_ context.Context, playerID string) error {
	return r.v.write(func(st *state) error {
		for id, team := range st.teams {
			if team.Owns(playerID) {
				st.teams[id] = withoutPlayer(team, playerID)
			}
		}
		return nil
	})
}

func (r *TeamRepository) ClearCoach(_ context.Context, coachID string) error {
	return r.v.write(func(st *state) error {
		for id, team := range st.teams {
			if team.CoachID != nil && *team.CoachID == coachID {
				team.CoachID = nil
				st.teams[id] = team
			}
		}
		return nil
	})
}

func (r *TeamRepository) DeleteByUserID(_ context.Context, userID string) error {
	return r.v.write(func(st *state) error {
		teamID, ok := st.teamByUser[userID]
		if !ok {
			return nil
		}
		delete(st.teams, teamID)
		delete(st.teamByUser, userID)
		return nil
	})
}

func withoutPlayer(team fantasy.Team, playerID string) fantasy.Team {
	kept := make([]string, 0, len(team.PlayerIDs))
	for _, id := range team.PlayerIDs {
		if id != playerID {
			kept = append(kept, id)
		}
	}
	team.PlayerIDs = kept
	return team
}

func cloneTeam(t fantasy.Team) fantasy.Team {
	copied := t
	copied.PlayerIDs = append([]string(nil), t.PlayerIDs...)
	copied.CoachID = cloneStringPtr(t.CoachID)
	return copied
}

func cloneStringPtr(v *string) *string {
	if v == nil {
		return nil
	}
	copied := *v
	return &copied
}
