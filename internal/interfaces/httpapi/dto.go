package httpapi

import (
	"time"

	"github.com/mlonzayes/dbr-fantasy/internal/domain/coach"
	"github.com/mlonzayes/dbr-fantasy/internal/domain/fantasy"
	"github.com/mlonzayes/dbr-fantasy/internal/domain/match"
	"github.com/mlonzayes/dbr-fantasy/internal/domain/onboarding"
	"github.com/mlonzayes/dbr-fantasy/internal/domain/player"
	"github.com/mlonzayes/dbr-fantasy/internal/domain/user"
	"github.com/mlonzayes/dbr-fantasy/internal/domain/weeklystat"
	"github.com/mlonzayes/dbr-fantasy/internal/usecase"
)

type createTeamRequest struct {
	Name      string   `json:"name" validate:"required,max=100"`
	PlayerIDs []string `json:"player_ids" validate:"required,len=15,dive,required"`
	CoachID   *string  `json:"coach_id,omitempty" validate:"omitempty,min=1"`
}

type tradeRequest struct {
	PlayerID string `json:"player_id" validate:"required"`
}

type setCoachRequest struct {
	CoachID *string `json:"coach_id" validate:"omitempty,min=1"`
}

type ingestScoresRequest struct {
	Week int              `json:"week" validate:"required,min=1,max=53"`
	Year int              `json:"year" validate:"required,min=2000,max=2100"`
	Rows []map[string]any `json:"rows" validate:"required,min=1"`
}

type createPlayerRequest struct {
	Name     string `json:"name" validate:"required,max=120"`
	Position string `json:"position" validate:"required"`
	Division string `json:"division" validate:"omitempty,max=80"`
	Price    int64  `json:"price" validate:"required"`
	ImageURL string `json:"image_url" validate:"omitempty,url"`
}

// bulkCreatePlayersRequest leaves row checks to the service so one bad row
// does not reject the batch.
type bulkCreatePlayersRequest struct {
	Players []bulkPlayerRow `json:"players" validate:"required,min=1,max=500"`
}

type bulkPlayerRow struct {
	Name     string `json:"name"`
	Position string `json:"position"`
	Division string `json:"division"`
	Price    int64  `json:"price"`
	ImageURL string `json:"image_url"`
}

type adjustPriceRequest struct {
	Delta int64 `json:"delta" validate:"required"`
}

type bulkPriceRequest struct {
	Items []bulkPriceItem `json:"items" validate:"required,min=1,dive"`
}

type bulkPriceItem struct {
	PlayerID string `json:"player_id" validate:"required"`
	Delta    int64  `json:"delta"`
}

type createCoachRequest struct {
	Name     string `json:"name" validate:"required,max=120"`
	ImageURL string `json:"image_url" validate:"omitempty,url"`
}

// Date is RFC 3339; a missing offset is rejected.
type createMatchRequest struct {
	Round    string `json:"round" validate:"required,max=60"`
	HomeTeam string `json:"home_team" validate:"required,max=120"`
	AwayTeam string `json:"away_team" validate:"required,max=120"`
	Stadium  string `json:"stadium" validate:"required,max=120"`
	Date     string `json:"date" validate:"required"`
}

type setMarketRequest struct {
	Open *bool `json:"open" validate:"required"`
}

type onboardingRequest struct {
	Completed *bool `json:"onboarding_completed" validate:"required"`
}

// membershipEventRequest mirrors the identity provider webhook body.
type membershipEventRequest struct {
	Type string              `json:"type" validate:"required"`
	Data membershipEventData `json:"data"`
}

type membershipEventData struct {
	ID string `json:"id" validate:"required"`
}

type playerDTO struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Position     string `json:"position"`
	Division     string `json:"division,omitempty"`
	BasePrice    int64  `json:"base_price"`
	CurrentPrice int64  `json:"current_price"`
	TotalPoints  int64  `json:"total_points"`
	ImageURL     string `json:"image_url,omitempty"`
}

type coachDTO struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ImageURL string `json:"image_url,omitempty"`
}

type matchDTO struct {
	ID       string    `json:"id"`
	Round    string    `json:"round"`
	HomeTeam string    `json:"home_team"`
	AwayTeam string    `json:"away_team"`
	Stadium  string    `json:"stadium"`
	Date     time.Time `json:"date"`
}

type slotDTO struct {
	Position string    `json:"position"`
	Index    int       `json:"index"`
	Player   playerDTO `json:"player"`
}

type teamDTO struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Name        string    `json:"name"`
	Coach       *coachDTO `json:"coach,omitempty"`
	Slots       []slotDTO `json:"slots"`
	Balance     int64     `json:"balance"`
	TotalPoints int64     `json:"total_points"`
	TeamValue   int64     `json:"team_value"`
	CreatedAt   time.Time `json:"created_at"`
}

type createTeamResponse struct {
	TeamID    string   `json:"team_id"`
	Name      string   `json:"name"`
	PlayerIDs []string `json:"player_ids"`
	CoachID   *string  `json:"coach_id,omitempty"`
	TotalCost int64    `json:"total_cost"`
	Balance   int64    `json:"balance"`
}

type weeklyStatDTO struct {
	Week       int   `json:"week"`
	Year       int   `json:"year"`
	Points     int64 `json:"points"`
	PriceDelta int64 `json:"price_delta"`
}

type playerStatsDTO struct {
	Player playerDTO       `json:"player"`
	Weeks  []weeklyStatDTO `json:"weeks"`
}

type teamStatsDTO struct {
	Team    teamDTO          `json:"team"`
	Players []playerStatsDTO `json:"players"`
}

type buyResponse struct {
	Player     playerDTO `json:"player"`
	Price      int64     `json:"price"`
	NewBalance int64     `json:"new_balance"`
}

type sellResponse struct {
	Player       playerDTO `json:"player"`
	RefundAmount int64     `json:"refund_amount"`
	NewBalance   int64     `json:"new_balance"`
}

type setCoachResponse struct {
	Coach *coachDTO `json:"coach"`
}

type ingestScoresResponse struct {
	Processed        int      `json:"processed"`
	DivisionsUpdated int      `json:"divisions_updated"`
	PricesChanged    int      `json:"prices_changed"`
	Errors           []string `json:"errors"`
}

type bulkCreatePlayersResponse struct {
	Processed int         `json:"processed"`
	Players   []playerDTO `json:"players"`
	Errors    []string    `json:"errors"`
}

type bulkPriceResponse struct {
	Updated int      `json:"updated"`
	Errors  []string `json:"errors"`
}

type deletePlayerResponse struct {
	PlayerID      string `json:"player_id"`
	RefundedUsers int    `json:"refunded_users"`
	RefundAmount  int64  `json:"refund_amount"`
}

type marketStatusDTO struct {
	Mode      string     `json:"mode"`
	Open      bool       `json:"open"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

type standingDTO struct {
	Position    int    `json:"position"`
	TeamID      string `json:"team_id"`
	TeamName    string `json:"team_name"`
	UserID      string `json:"user_id"`
	TotalPoints int64  `json:"total_points"`
}

type accountDTO struct {
	UserID  string `json:"user_id"`
	Email   string `json:"email,omitempty"`
	Balance int64  `json:"balance"`
	IsAdmin bool   `json:"is_admin"`
}

type onboardingDTO struct {
	UserID              string     `json:"user_id"`
	OnboardingCompleted bool       `json:"onboarding_completed"`
	UpdatedAt           *time.Time `json:"updated_at,omitempty"`
}

func playerToDTO(item player.Player) playerDTO {
	return playerDTO{
		ID:           item.ID,
		Name:         item.Name,
		Position:     string(item.Position),
		Division:     item.Division,
		BasePrice:    item.BasePrice,
		CurrentPrice: item.CurrentPrice,
		TotalPoints:  item.TotalPoints,
		ImageURL:     item.ImageURL,
	}
}

func playersToDTO(items []player.Player) []playerDTO {
	out := make([]playerDTO, 0, len(items))
	for _, item := range items {
		out = append(out, playerToDTO(item))
	}
	return out
}

func coachToDTO(item *coach.Coach) *coachDTO {
	if item == nil {
		return nil
	}
	return &coachDTO{ID: item.ID, Name: item.Name, ImageURL: item.ImageURL}
}

func coachesToDTO(items []coach.Coach) []coachDTO {
	out := make([]coachDTO, 0, len(items))
	for i := range items {
		out = append(out, *coachToDTO(&items[i]))
	}
	return out
}

func matchToDTO(item match.Match) matchDTO {
	return matchDTO{
		ID:       item.ID,
		Round:    item.Round,
		HomeTeam: item.HomeTeam,
		AwayTeam: item.AwayTeam,
		Stadium:  item.Stadium,
		Date:     item.Date,
	}
}

func matchesToDTO(items []match.Match) []matchDTO {
	out := make([]matchDTO, 0, len(items))
	for _, item := range items {
		out = append(out, matchToDTO(item))
	}
	return out
}

func teamViewToDTO(view usecase.TeamView) teamDTO {
	slots := make([]slotDTO, 0, len(view.Slots))
	for i, slot := range view.Slots {
		var p player.Player
		if i < len(view.Players) {
			p = view.Players[i]
		}
		slots = append(slots, slotDTO{
			Position: string(slot.Position),
			Index:    slot.Index,
			Player:   playerToDTO(p),
		})
	}

	return teamDTO{
		ID:          view.Team.ID,
		UserID:      view.Team.UserID,
		Name:        view.Team.Name,
		Coach:       coachToDTO(view.Coach),
		Slots:       slots,
		Balance:     view.Balance,
		TotalPoints: view.TotalPoints,
		TeamValue:   view.TeamValue,
		CreatedAt:   view.Team.CreatedAt,
	}
}

func createTeamResultToDTO(result usecase.CreateTeamResult) createTeamResponse {
	return createTeamResponse{
		TeamID:    result.Team.ID,
		Name:      result.Team.Name,
		PlayerIDs: result.Team.PlayerIDs,
		CoachID:   result.Team.CoachID,
		TotalCost: result.TotalCost,
		Balance:   result.Balance,
	}
}

func teamStatsToDTO(stats usecase.TeamStats) teamStatsDTO {
	players := make([]playerStatsDTO, 0, len(stats.Players))
	for _, item := range stats.Players {
		players = append(players, playerStatsDTO{
			Player: playerToDTO(item.Player),
			Weeks:  weeklyStatsToDTO(item.Stats),
		})
	}
	return teamStatsDTO{Team: teamViewToDTO(stats.View), Players: players}
}

func weeklyStatsToDTO(items []weeklystat.WeeklyStat) []weeklyStatDTO {
	out := make([]weeklyStatDTO, 0, len(items))
	for _, item := range items {
		out = append(out, weeklyStatDTO{
			Week:       item.Week,
			Year:       item.Year,
			Points:     item.Points,
			PriceDelta: item.PriceDelta,
		})
	}
	return out
}

func windowStatusToDTO(status usecase.WindowStatus) marketStatusDTO {
	return marketStatusDTO{
		Mode:      string(status.Mode),
		Open:      status.Open,
		UpdatedAt: status.UpdatedAt,
	}
}

func standingsToDTO(items []fantasy.Standing) []standingDTO {
	out := make([]standingDTO, 0, len(items))
	for _, item := range items {
		out = append(out, standingDTO{
			Position:    item.Position,
			TeamID:      item.TeamID,
			TeamName:    item.TeamName,
			UserID:      item.UserID,
			TotalPoints: item.TotalPoints,
		})
	}
	return out
}

func accountToDTO(principal user.Principal, item user.User) accountDTO {
	return accountDTO{
		UserID:  item.ID,
		Email:   principal.Email,
		Balance: item.Balance,
		IsAdmin: item.IsAdmin,
	}
}

func onboardingToDTO(profile onboarding.Profile) onboardingDTO {
	out := onboardingDTO{
		UserID:              profile.UserID,
		OnboardingCompleted: profile.OnboardingCompleted,
	}
	if !profile.UpdatedAt.IsZero() {
		updatedAt := profile.UpdatedAt
		out.UpdatedAt = &updatedAt
	}
	return out
}

func errorsOrEmpty(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
