package weeklystat

import (
	"errors"
	"time"

	"github.com/mlonzayes/dbr-fantasy/internal/domain/player"
)

var ErrInvalidRow = errors.New("invalid score row")

const (
	MinWeek = 1
	MaxWeek = 53
	MinYear = 2000
	MaxYear = 2100

	// MaxAbsPoints bounds a single weekly score in either direction.
	MaxAbsPoints = 10_000
)

// WeeklyStat is a player's points for one (week, year).
type WeeklyStat struct {
	PlayerID   string
	Week       int
	Year       int
	Points     int64
	PriceDelta int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Key identifies a weekly stat row.
type Key struct {
	PlayerID string
	Week     int
	Year     int
}

func (s WeeklyStat) Key() Key {
	return Key{PlayerID: s.PlayerID, Week: s.Week, Year: s.Year}
}

// PriceModel selects how points move market prices.
type PriceModel string

const (
	PriceModelStatic      PriceModel = "static"
	PriceModelPerformance PriceModel = "performance"
)

// PriceBump is the raw price change for a points delta: floor(delta / 2).
func PriceBump(pointsDelta int64) int64 {
	q := pointsDelta / 2
	if pointsDelta%2 != 0 && pointsDelta < 0 {
		q--
	}
	return q
}

// ApplyPriceBump returns the new clamped price and the change actually applied.
func ApplyPriceBump(current, pointsDelta int64) (int64, int64) {
	next := player.ClampPrice(current + PriceBump(pointsDelta))
	return next, next - current
}
