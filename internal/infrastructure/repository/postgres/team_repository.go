package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/mlonzayes/dbr-fantasy/internal/domain/fantasy"
	qb "github.com/mlonzayes/dbr-fantasy/internal/platform/querybuilder"
)

type TeamRepository struct {
	q sqlx.ExtContext
}

var teamSelectColumns = qb.Columns(fantasyTeamTableModel{})

func (r *TeamRepository) GetByUserID(ctx context.Context, userID string) (fantasy.Team, bool, error) {
	query, args, err := qb.Select(teamSelectColumns...).From("fantasy_teams").
		Where(qb.Eq("user_id", userID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return fantasy.Team{}, false, fmt.Errorf("build get team by user query: %w", err)
	}

	var row fantasyTeamTableModel
	if err := sqlx.GetContext(ctx, r.q, &row, query, args...); err != nil {
		if isNotFound(err) {
			return fantasy.Team{}, false, nil
		}
		return fantasy.Team{}, false, fmt.Errorf("get team for user %s: %w", userID, err)
	}

	members, err := r.listMembers(ctx, []string{row.ID})
	if err != nil {
		return fantasy.Team{}, false, err
	}
	return teamFromRow(row, members[row.ID]), true, nil
}

func (r *TeamRepository) List(ctx context.Context) ([]fantasy.Team, error) {
	query, args, err := qb.Select(teamSelectColumns...).From("fantasy_teams").
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select teams query: %w", err)
	}

	var rows []fantasyTeamTableModel
	if err := sqlx.SelectContext(ctx, r.q, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select teams: %w", err)
	}
	if len(rows) == 0 {
		return []fantasy.Team{}, nil
	}

	teamIDs := make([]string, 0, len(rows))
	for _, row := range rows {
		teamIDs = append(teamIDs, row.ID)
	}
	members, err := r.listMembers(ctx, teamIDs)
	if err != nil {
		return nil, err
	}

	out := make([]fantasy.Team, 0, len(rows))
	for _, row := range rows {
		out = append(out, teamFromRow(row, members[row.ID]))
	}
	return out, nil
}

func (r *TeamRepository) listMembers(ctx context.Context, teamIDs []string) (map[string][]string, error) {
	query, args, err := qb.Select("team_id", "player_id").From("fantasy_team_players").
		Where(qb.Any("team_id", pq.Array(teamIDs))).
		OrderBy("team_id", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select team players query: %w", err)
	}

	var rows []fantasyTeamPlayerTableModel
	if err := sqlx.SelectContext(ctx, r.q, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select team players: %w", err)
	}

	out := make(map[string][]string, len(teamIDs))
	for _, row := range rows {
		out[row.TeamID] = append(out[row.TeamID], row.PlayerID)
	}
	return out, nil
}

func (r *TeamRepository) Create(ctx context.Context, team fantasy.Team) error {
	row := fantasyTeamTableModel{
		ID:        team.ID,
		UserID:    team.UserID,
		Name:      team.Name,
		CoachID:   nullableString(team.CoachID),
		CreatedAt: timeOrNow(team.CreatedAt),
		UpdatedAt: timeOrNow(team.UpdatedAt),
	}
	query, args, err := qb.InsertModel("fantasy_teams", row, "")
	if err != nil {
		return fmt.Errorf("build insert team query: %w", err)
	}
	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		if constraint, ok := uniqueViolation(err); ok && constraint == teamUserUniqueConstraint {
			return fmt.Errorf("%w: user=%s", fantasy.ErrTeamAlreadyExists, team.UserID)
		}
		return fmt.Errorf("insert team %s: %w", team.ID, err)
	}

	if len(team.PlayerIDs) == 0 {
		return nil
	}

	insert := qb.InsertInto("fantasy_team_players").Columns("team_id", "player_id")
	for _, playerID := range team.PlayerIDs {
		insert = insert.Values(team.ID, playerID)
	}
	query, args, err = insert.ToSQL()
	if err != nil {
		return fmt.Errorf("build insert team players query: %w", err)
	}
	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		if constraint, ok := uniqueViolation(err); ok && constraint == teamPlayerUniqueConstraint {
			return fmt.Errorf("%w: team=%s", fantasy.ErrDuplicatePlayerInSquad, team.ID)
		}
		return fmt.Errorf("insert team %s players: %w", team.ID, err)
	}
	return nil
}

func (r *TeamRepository) AddPlayer(ctx context.Context, teamID, playerID string) error {
	if err := r.touch(ctx, teamID); err != nil {
		return err
	}

	query, args, err := qb.InsertInto("fantasy_team_players").
		Columns("team_id", "player_id").
		Values(teamID, playerID).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build insert team player query: %w", err)
	}
	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		if constraint, ok := uniqueViolation(err); ok && constraint == teamPlayerUniqueConstraint {
			return fmt.Errorf("%w: %s", fantasy.ErrPlayerAlreadyOwned, playerID)
		}
		return fmt.Errorf("add player %s to team %s: %w", playerID, teamID, err)
	}
	return nil
}

func (r *TeamRepository) RemovePlayer(ctx context.Context, teamID, playerID string) error {
	if err := r.touch(ctx, teamID); err != nil {
		return err
	}

	query, args, err := qb.DeleteFrom("fantasy_team_players").
		Where(
			qb.Eq("team_id", teamID),
			qb.Eq("player_id", playerID),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete team player query: %w", err)
	}

	res, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("remove player %s from team %s: %w", playerID, teamID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", fantasy.ErrPlayerNotOwned, playerID)
	}
	return nil
}

func (r *TeamRepository) SetCoach(ctx context.Context, teamID string, coachID *string) error {
	query, args, err := qb.Update("fantasy_teams").
		Set("coach_id", nullableString(coachID)).
		Set("updated_at", time.Now().UTC()).
		Where(qb.Eq("id", teamID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build set coach query: %w", err)
	}

	res, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("set coach on team %s: %w", teamID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", fantasy.ErrTeamNotFound, teamID)
	}
	return nil
}

func (r *TeamRepository) ListHolderUserIDs(ctx context.Context, playerID string) ([]string, error) {
	query, args, err := qb.Select("t.user_id").
		From("fantasy_teams t JOIN fantasy_team_players tp ON tp.team_id = t.id").
		Where(qb.Eq("tp.player_id", playerID)).
		OrderBy("t.user_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select holders query: %w", err)
	}

	var out []string
	if err := sqlx.SelectContext(ctx, r.q, &out, query, args...); err != nil {
		return nil, fmt.Errorf("select holders of player %s: %w", playerID, err)
	}
	return out, nil
}

func (r *TeamRepository) RemovePlayerFromAll(ctx context.Context, playerID string) error {
	query, args, err := qb.DeleteFrom("fantasy_team_players").
		Where(qb.Eq("player_id", playerID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete player from teams query: %w", err)
	}

	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("remove player %s from teams: %w", playerID, err)
	}
	return nil
}

func (r *TeamRepository) ClearCoach(ctx context.Context, coachID string) error {
	query, args, err := qb.Update("fantasy_teams").
		Set("coach_id", nil).
		Set("updated_at", time.Now().UTC()).
		Where(qb.Eq("coach_id", coachID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build clear coach query: %w", err)
	}

	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("clear coach %s: %w", coachID, err)
	}
	return nil
}

func (r *TeamRepository) DeleteByUserID(ctx context.Context, userID string) error {
	query, args, err := qb.DeleteFrom("fantasy_teams").
		Where(qb.Eq("user_id", userID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete team query: %w", err)
	}

	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete team for user %s: %w", userID, err)
	}
	return nil
}

// touch bumps updated_at and fails when the team does not exist.
func (r *TeamRepository) touch(ctx context.Context, teamID string) error {
	query, args, err := qb.Update("fantasy_teams").
		Set("updated_at", time.Now().UTC()).
		Where(qb.Eq("id", teamID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build touch team query: %w", err)
	}

	res, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("touch team %s: %w", teamID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", fantasy.ErrTeamNotFound, teamID)
	}
	return nil
}

func teamFromRow(row fantasyTeamTableModel, playerIDs []string) fantasy.Team {
	if playerIDs == nil {
		playerIDs = []string{}
	}
	return fantasy.Team{
		ID:        row.ID,
		UserID:    row.UserID,
		Name:      row.Name,
		CoachID:   stringPtrFromNull(row.CoachID),
		PlayerIDs: playerIDs,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}
