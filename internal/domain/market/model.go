package market

import (
	"context"
	"errors"
	"time"
)

var ErrWindowClosed = errors.New("transfer window is closed")

// Mode names the active transfer window policy.
type Mode string

const (
	ModeSchedule Mode = "schedule"
	ModeFlag     Mode = "flag"
)

// Config is the persisted market switch used by the flag policy.
type Config struct {
	MarketOpen bool
	UpdatedAt  time.Time
}

// Window answers whether market operations are allowed right now.
type Window interface {
	IsOpen(ctx context.Context) (bool, error)
}

// Schedule describes the weekly closed interval [FromHour, ToHour) on Weekday.
type Schedule struct {
	Location *time.Location
	Weekday  time.Weekday
	FromHour int
	ToHour   int
}

func DefaultSchedule() Schedule {
	loc, err := time.LoadLocation("America/Argentina/Buenos_Aires")
	if err != nil {
		loc = time.FixedZone("ART", -3*60*60)
	}
	return Schedule{
		Location: loc,
		Weekday:  time.Saturday,
		FromHour: 10,
		ToHour:   19,
	}
}

// OpenAt reports whether the market is open at instant t.
func (s Schedule) OpenAt(t time.Time) bool {
	loc := s.Location
	if loc == nil {
		loc = time.UTC
	}
	local := t.In(loc)
	if local.Weekday() != s.Weekday {
		return true
	}
	hour := local.Hour()
	return hour < s.FromHour || hour >= s.ToHour
}

// ScheduleWindow is closed during the configured weekly interval.
type ScheduleWindow struct {
	schedule Schedule
	now      func() time.Time
}

func NewScheduleWindow(schedule Schedule, now func() time.Time) *ScheduleWindow {
	if now == nil {
		now = time.Now
	}
	return &ScheduleWindow{schedule: schedule, now: now}
}

func (w *ScheduleWindow) IsOpen(_ context.Context) (bool, error) {
	return w.schedule.OpenAt(w.now()), nil
}

// FlagWindow reads the persisted market switch. No stored config means closed.
type FlagWindow struct {
	repo Repository
}

func NewFlagWindow(repo Repository) *FlagWindow {
	return &FlagWindow{repo: repo}
}

func (w *FlagWindow) IsOpen(ctx context.Context) (bool, error) {
	cfg, exists, err := w.repo.GetConfig(ctx)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, nil
	}
	return cfg.MarketOpen, nil
}
