package postgres

import (
	"database/sql"
	"time"
)

const (
	teamUserUniqueConstraint   = "fantasy_teams_user_id_key"
	teamPlayerUniqueConstraint = "fantasy_team_players_team_id_player_id_key"
	playerPKConstraint         = "players_pkey"
	coachPKConstraint          = "coaches_pkey"
	matchPKConstraint          = "matches_pkey"
)

type playerTableModel struct {
	ID           string    `db:"id"`
	Name         string    `db:"name"`
	Position     string    `db:"position"`
	Division     string    `db:"division"`
	BasePrice    int64     `db:"base_price"`
	CurrentPrice int64     `db:"current_price"`
	TotalPoints  int64     `db:"total_points"`
	ImageURL     string    `db:"image_url"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

type coachTableModel struct {
	ID       string `db:"id"`
	Name     string `db:"name"`
	ImageURL string `db:"image_url"`
}

type userTableModel struct {
	ID        string    `db:"id"`
	Balance   int64     `db:"balance"`
	IsAdmin   bool      `db:"is_admin"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type fantasyTeamTableModel struct {
	ID        string         `db:"id"`
	UserID    string         `db:"user_id"`
	Name      string         `db:"name"`
	CoachID   sql.NullString `db:"coach_id"`
	CreatedAt time.Time      `db:"created_at"`
	UpdatedAt time.Time      `db:"updated_at"`
}

type fantasyTeamPlayerTableModel struct {
	TeamID   string `db:"team_id"`
	PlayerID string `db:"player_id"`
}

type weeklyStatTableModel struct {
	PlayerID   string    `db:"player_id"`
	Week       int       `db:"week"`
	Year       int       `db:"year"`
	Points     int64     `db:"points"`
	PriceDelta int64     `db:"price_delta"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

type appConfigTableModel struct {
	ID         int       `db:"id"`
	MarketOpen bool      `db:"market_open"`
	UpdatedAt  time.Time `db:"updated_at"`
}

type onboardingProfileTableModel struct {
	UserID              string    `db:"user_id"`
	OnboardingCompleted bool      `db:"onboarding_completed"`
	CreatedAt           time.Time `db:"created_at"`
	UpdatedAt           time.Time `db:"updated_at"`
}

type matchTableModel struct {
	ID        string    `db:"id"`
	Round     string    `db:"round"`
	HomeTeam  string    `db:"home_team"`
	AwayTeam  string    `db:"away_team"`
	Stadium   string    `db:"stadium"`
	Date      time.Time `db:"match_date"`
	CreatedAt time.Time `db:"created_at"`
}
