package match

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Match is one fixture on the league calendar.
type Match struct {
	ID        string
	Round     string
	HomeTeam  string
	AwayTeam  string
	Stadium   string
	Date      time.Time
	CreatedAt time.Time
}

func (m Match) Validate() error {
	if m.ID == "" {
		return fmt.Errorf("match id is required")
	}
	if strings.TrimSpace(m.Round) == "" {
		return fmt.Errorf("match round is required")
	}
	if strings.TrimSpace(m.HomeTeam) == "" || strings.TrimSpace(m.AwayTeam) == "" {
		return fmt.Errorf("home and away teams are required")
	}
	if strings.EqualFold(strings.TrimSpace(m.HomeTeam), strings.TrimSpace(m.AwayTeam)) {
		return fmt.Errorf("a team cannot play itself")
	}
	if strings.TrimSpace(m.Stadium) == "" {
		return fmt.Errorf("match stadium is required")
	}
	if m.Date.IsZero() {
		return fmt.Errorf("match date is required")
	}

	return nil
}

// SortByDate orders fixtures by kickoff, breaking ties by id.
func SortByDate(items []Match) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].Date.Equal(items[j].Date) {
			return items[i].ID < items[j].ID
		}
		return items[i].Date.Before(items[j].Date)
	})
}
