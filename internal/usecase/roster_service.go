package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/mlonzayes/dbr-fantasy/internal/domain/coach"
	"github.com/mlonzayes/dbr-fantasy/internal/domain/fantasy"
	"github.com/mlonzayes/dbr-fantasy/internal/domain/market"
	"github.com/mlonzayes/dbr-fantasy/internal/domain/player"
	"github.com/mlonzayes/dbr-fantasy/internal/domain/uow"
	"github.com/mlonzayes/dbr-fantasy/internal/domain/user"
	"github.com/mlonzayes/dbr-fantasy/internal/domain/weeklystat"
	idgen "github.com/mlonzayes/dbr-fantasy/internal/platform/id"
	"github.com/mlonzayes/dbr-fantasy/internal/platform/logging"
)

// CreateTeamInput is the incoming payload for the one-shot draft.
type CreateTeamInput struct {
	UserID    string
	Name      string
	PlayerIDs []string
	CoachID   *string
}

type CreateTeamResult struct {
	Team      fantasy.Team
	TotalCost int64
	Balance   int64
}

type RosterConfig struct {
	RequireOpenWindow bool
	StartingBalance   int64
}

// TeamView is a team with its players in stable slot order.
type TeamView struct {
	Team        fantasy.Team
	Slots       []fantasy.Slot
	Players     []player.Player
	Coach       *coach.Coach
	Balance     int64
	TotalPoints int64
	TeamValue   int64
}

// PlayerWeeklyStats is one roster member with its history ordered by (year, week).
type PlayerWeeklyStats struct {
	Player player.Player
	Stats  []weeklystat.WeeklyStat
}

type TeamStats struct {
	View    TeamView
	Players []PlayerWeeklyStats
}

type RosterService struct {
	store      uow.Store
	playerRepo player.Repository
	coachRepo  coach.Repository
	teamRepo   fantasy.Repository
	userRepo   user.Repository
	statRepo   weeklystat.Repository
	window     market.Window
	rules      fantasy.Rules
	cfg        RosterConfig
	idGen      idgen.Generator
	logger     *logging.Logger
	now        func() time.Time
}

func NewRosterService(
	store uow.Store,
	playerRepo player.Repository,
	coachRepo coach.Repository,
	teamRepo fantasy.Repository,
	userRepo user.Repository,
	statRepo weeklystat.Repository,
	window market.Window,
	rules fantasy.Rules,
	cfg RosterConfig,
	idGen idgen.Generator,
	logger *logging.Logger,
) *RosterService {
	if logger == nil {
		logger = logging.Default()
	}

	return &RosterService{
		store:      store,
		playerRepo: playerRepo,
		coachRepo:  coachRepo,
		teamRepo:   teamRepo,
		userRepo:   userRepo,
		statRepo:   statRepo,
		window:     window,
		rules:      rules,
		cfg:        cfg,
		idGen:      idGen,
		logger:     logger,
		now:        time.Now,
	}
}

func (s *RosterService) CreateTeam(ctx context.Context, input CreateTeamInput) (CreateTeamResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.CreateTeam")
	defer span.End()

	input.UserID = strings.TrimSpace(input.UserID)
	input.Name = strings.TrimSpace(input.Name)
	coachID := cleanOptionalID(input.CoachID)

	if input.UserID == "" {
		return CreateTeamResult{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if input.Name == "" {
		return CreateTeamResult{}, fmt.Errorf("%w: team name is required", ErrInvalidInput)
	}

	playerIDs, err := cleanPlayerIDs(input.PlayerIDs)
	if err != nil {
		return CreateTeamResult{}, err
	}
	if len(playerIDs) != s.rules.SquadSize {
		return CreateTeamResult{}, fmt.Errorf("%w: expected %d, got %d", fantasy.ErrInvalidSquadSize, s.rules.SquadSize, len(playerIDs))
	}

	if s.cfg.RequireOpenWindow {
		if err := ensureWindowOpen(ctx, s.window); err != nil {
			return CreateTeamResult{}, err
		}
	}

	teamID, err := s.idGen.NewID()
	if err != nil {
		return CreateTeamResult{}, fmt.Errorf("generate team id: %w", err)
	}

	var result CreateTeamResult
	err = s.store.WithinTx(ctx, func(ctx context.Context, tx uow.Tx) error {
		owner, err := lockOrCreateUser(ctx, tx, input.UserID, s.cfg.StartingBalance, s.now().UTC())
		if err != nil {
			return err
		}

		if _, exists, err := tx.Teams().GetByUserID(ctx, input.UserID); err != nil {
			return fmt.Errorf("get team by user: %w", err)
		} else if exists {
			return fmt.Errorf("%w: user=%s", fantasy.ErrTeamAlreadyExists, input.UserID)
		}

		players, err := tx.Players().GetByIDs(ctx, playerIDs)
		if err != nil {
			return fmt.Errorf("get players by ids: %w", err)
		}
		if missing := missingIDs(playerIDs, players); len(missing) > 0 {
			return fmt.Errorf("%w: players not found: %s", ErrNotFound, strings.Join(missing, ","))
		}

		if coachID != nil {
			if _, exists, err := tx.Coaches().GetByID(ctx, *coachID); err != nil {
				return fmt.Errorf("get coach by id: %w", err)
			} else if !exists {
				return fmt.Errorf("%w: coach=%s", ErrNotFound, *coachID)
			}
		}

		totalCost, err := fantasy.ValidateRoster(fantasy.PicksFromPlayers(players), s.rules)
		if err != nil {
			return fmt.Errorf("validate roster: %w", err)
		}

		owner, err = owner.Debit(totalCost)
		if err != nil {
			return err
		}

		now := s.now().UTC()
		team := fantasy.Team{
			ID:        teamID,
			UserID:    input.UserID,
			Name:      input.Name,
			CoachID:   coachID,
			PlayerIDs: playerIDs,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := team.ValidateBasic(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}

		if err := tx.Teams().Create(ctx, team); err != nil {
			return fmt.Errorf("create team: %w", err)
		}
		if err := tx.Users().UpdateBalance(ctx, owner.ID, owner.Balance); err != nil {
			return fmt.Errorf("update balance: %w", err)
		}

		result = CreateTeamResult{Team: team, TotalCost: totalCost, Balance: owner.Balance}
		return nil
	})
	if err != nil {
		return CreateTeamResult{}, err
	}

	s.logger.InfoContext(ctx, "team created",
		"user_id", input.UserID,
		"team_id", result.Team.ID,
		"total_cost", result.TotalCost,
		"balance", result.Balance,
	)

	return result, nil
}

func (s *RosterService) GetTeam(ctx context.Context, userID string) (TeamView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.GetTeam")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return TeamView{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	team, exists, err := s.teamRepo.GetByUserID(ctx, userID)
	if err != nil {
		return TeamView{}, fmt.Errorf("get team: %w", err)
	}
	if !exists {
		return TeamView{}, fmt.Errorf("%w: user=%s", fantasy.ErrTeamNotFound, userID)
	}

	players, err := s.playerRepo.GetByIDs(ctx, team.PlayerIDs)
	if err != nil {
		return TeamView{}, fmt.Errorf("get players by ids: %w", err)
	}

	view := TeamView{Team: team}
	byID := make(map[string]player.Player, len(players))
	for _, p := range players {
		byID[p.ID] = p
		view.TotalPoints += p.TotalPoints
		view.TeamValue += p.CurrentPrice
	}
	view.Slots = fantasy.AssignSlots(fantasy.PicksFromPlayers(players))
	view.Players = make([]player.Player, 0, len(view.Slots))
	for _, slot := range view.Slots {
		view.Players = append(view.Players, byID[slot.PlayerID])
	}

	if team.CoachID != nil {
		item, exists, err := s.coachRepo.GetByID(ctx, *team.CoachID)
		if err != nil {
			return TeamView{}, fmt.Errorf("get coach: %w", err)
		}
		if exists {
			view.Coach = &item
		}
	}

	owner, exists, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return TeamView{}, fmt.Errorf("get user: %w", err)
	}
	if exists {
		view.Balance = owner.Balance
	}

	return view, nil
}

func (s *RosterService) GetTeamStats(ctx context.Context, userID string) (TeamStats, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RosterService.GetTeamStats")
	defer span.End()

	view, err := s.GetTeam(ctx, userID)
	if err != nil {
		return TeamStats{}, err
	}

	stats, err := s.statRepo.ListByPlayerIDs(ctx, view.Team.PlayerIDs)
	if err != nil {
		return TeamStats{}, fmt.Errorf("list weekly stats: %w", err)
	}
	byPlayer := make(map[string][]weeklystat.WeeklyStat, len(view.Players))
	for _, item := range stats {
		byPlayer[item.PlayerID] = append(byPlayer[item.PlayerID], item)
	}

	out := TeamStats{View: view, Players: make([]PlayerWeeklyStats, 0, len(view.Players))}
	for _, p := range view.Players {
		rows := byPlayer[p.ID]
		sort.SliceStable(rows, func(i, j int) bool {
			if rows[i].Year != rows[j].Year {
				return rows[i].Year < rows[j].Year
			}
			return rows[i].Week < rows[j].Week
		})
		out.Players = append(out.Players, PlayerWeeklyStats{Player: p, Stats: rows})
	}

	return out, nil
}

func ensureWindowOpen(ctx context.Context, window market.Window) error {
	if window == nil {
		return fmt.Errorf("%w: transfer window is not configured", ErrDependencyUnavailable)
	}
	open, err := window.IsOpen(ctx)
	if err != nil {
		return fmt.Errorf("check transfer window: %w", err)
	}
	if !open {
		return market.ErrWindowClosed
	}
	return nil
}

// lockOrCreateUser returns the locked ledger row, creating it with the starting
// balance when the identity provider's membership event has not arrived yet.
func lockOrCreateUser(ctx context.Context, tx uow.Tx, userID string, startingBalance int64, now time.Time) (user.User, error) {
	owner, exists, err := tx.Users().GetForUpdate(ctx, userID)
	if err != nil {
		return user.User{}, fmt.Errorf("lock user: %w", err)
	}
	if exists {
		return owner, nil
	}

	if _, err := tx.Users().Create(ctx, user.User{
		ID:        userID,
		Balance:   startingBalance,
		CreatedAt: now,
		UpdatedAt: now,
	}); err != nil {
		return user.User{}, fmt.Errorf("create user: %w", err)
	}

	owner, exists, err = tx.Users().GetForUpdate(ctx, userID)
	if err != nil {
		return user.User{}, fmt.Errorf("lock user: %w", err)
	}
	if !exists {
		return user.User{}, fmt.Errorf("user %s vanished after create", userID)
	}
	return owner, nil
}

func cleanPlayerIDs(playerIDs []string) ([]string, error) {
	cleaned := make([]string, 0, len(playerIDs))
	seen := make(map[string]struct{}, len(playerIDs))
	for _, id := range playerIDs {
		id = strings.TrimSpace(id)
		if id == "" {
			return nil, fmt.Errorf("%w: player id cannot be empty", ErrInvalidInput)
		}
		if _, ok := seen[id]; ok {
			return nil, fmt.Errorf("%w: %s", fantasy.ErrDuplicatePlayerInSquad, id)
		}
		seen[id] = struct{}{}
		cleaned = append(cleaned, id)
	}

	return cleaned, nil
}

func cleanOptionalID(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func missingIDs(wanted []string, found []player.Player) []string {
	have := make(map[string]struct{}, len(found))
	for _, p := range found {
		have[p.ID] = struct{}{}
	}
	var out []string
	for _, id := range wanted {
		if _, ok := have[id]; !ok {
			out = append(out, id)
		}
	}
	return out
}
