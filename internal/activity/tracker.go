// Package activity records the days on which the user read and derives streaks from them.
package activity

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/MrSnakeDoc/shelf/internal/logger"
	"github.com/MrSnakeDoc/shelf/internal/streak"
)

// Persister is the storage side of the tracker.
type Persister interface {
	LoadDates(ctx context.Context) []string
	SaveDates(ctx context.Context, dates []string)
}

// Summary is the dashboard view of reading activity.
type Summary struct {
	CurrentStreak int  `json:"currentStreak"`
	LongestStreak int  `json:"longestStreak"`
	HasReadToday  bool `json:"hasReadToday"`
	TotalDays     int  `json:"totalDays"`
}

// Tracker owns the reading-date set. Streaks are recomputed on every call.
type Tracker struct {
	mu    sync.Mutex
	dates []string // stored order, no duplicates

	persist Persister
	logger  logger.Logger
	now     func() time.Time
	loc     *time.Location
}

// Option customizes a Tracker.
type Option func(*Tracker)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// WithLocation sets the time zone that decides where a day starts.
func WithLocation(loc *time.Location) Option {
	return func(t *Tracker) {
		if loc != nil {
			t.loc = loc
		}
	}
}

// New loads the stored dates and returns a ready tracker.
func New(ctx context.Context, p Persister, log logger.Logger, opts ...Option) *Tracker {
	t := &Tracker{
		persist: p,
		logger:  log.With(logger.Component("activity")),
		now:     time.Now,
		loc:     time.Local,
	}
	for _, opt := range opts {
		opt(t)
	}

	seen := map[string]bool{}
	for _, d := range p.LoadDates(ctx) {
		if seen[d] {
			continue
		}
		seen[d] = true
		t.dates = append(t.dates, d)
	}

	t.logger.Info("reading activity loaded",
		logger.Int("days", len(t.dates)),
		logger.Int("current_streak", t.currentLocked()))
	return t
}

// MarkTodayAsRead records today and persists the set. Marking twice is a no-op.
func (t *Tracker) MarkTodayAsRead(ctx context.Context) {
	t.mu.Lock()
	defer t.mu.Unlock()

	today := streak.Day(t.today())
	if slices.Contains(t.dates, today) {
		return
	}
	t.dates = append(t.dates, today)
	t.persist.SaveDates(ctx, slices.Clone(t.dates))

	t.logger.Debug("marked today as read", logger.String("day", today))
}

// CurrentStreak returns the number of consecutive days ending today or yesterday.
func (t *Tracker) CurrentStreak() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.currentLocked()
}

// HasReadToday reports whether today is in the set.
func (t *Tracker) HasReadToday() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return slices.Contains(t.dates, streak.Day(t.today()))
}

// Summary returns streaks and totals in one consistent read.
func (t *Tracker) Summary() Summary {
	t.mu.Lock()
	defer t.mu.Unlock()

	return Summary{
		CurrentStreak: t.currentLocked(),
		LongestStreak: streak.Longest(t.dates, t.loc),
		HasReadToday:  slices.Contains(t.dates, streak.Day(t.today())),
		TotalDays:     len(streak.Distinct(t.dates, t.loc)),
	}
}

// Dates returns the valid recorded days, ascending.
func (t *Tracker) Dates() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return streak.Distinct(t.dates, t.loc)
}

func (t *Tracker) currentLocked() int {
	return streak.Current(t.dates, t.today())
}

func (t *Tracker) today() time.Time {
	return t.now().In(t.loc)
}
