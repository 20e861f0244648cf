package streak

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var paris = mustLoad("Europe/Paris")

func mustLoad(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

// daysAgo formats now minus n calendar days.
func daysAgo(now time.Time, n int) string {
	return Day(now.AddDate(0, 0, -n))
}

func TestCurrent(t *testing.T) {
	now := time.Date(2026, time.March, 15, 21, 30, 0, 0, time.UTC)

	tests := []struct {
		name string
		days []string
		want int
	}{
		{name: "empty", days: nil, want: 0},
		{name: "only today", days: []string{daysAgo(now, 0)}, want: 1},
		{name: "only yesterday", days: []string{daysAgo(now, 1)}, want: 1},
		{name: "two days ago only", days: []string{daysAgo(now, 2)}, want: 0},
		{
			name: "three in a row ending today",
			days: []string{daysAgo(now, 0), daysAgo(now, 1), daysAgo(now, 2)},
			want: 3,
		},
		{
			name: "run ending yesterday",
			days: []string{daysAgo(now, 1), daysAgo(now, 2), daysAgo(now, 3), daysAgo(now, 4)},
			want: 4,
		},
		{
			name: "gap after today",
			days: []string{daysAgo(now, 0), daysAgo(now, 3)},
			want: 1,
		},
		{
			name: "gap in the middle of a long run",
			days: []string{
				daysAgo(now, 0), daysAgo(now, 1),
				daysAgo(now, 3), daysAgo(now, 4), daysAgo(now, 5), daysAgo(now, 6),
			},
			want: 2,
		},
		{
			name: "old contiguous run is broken",
			days: []string{daysAgo(now, 3), daysAgo(now, 4), daysAgo(now, 5)},
			want: 0,
		},
		{
			name: "duplicates counted once",
			days: []string{daysAgo(now, 0), daysAgo(now, 0), daysAgo(now, 1), daysAgo(now, 1)},
			want: 2,
		},
		{
			name: "unordered input",
			days: []string{daysAgo(now, 2), daysAgo(now, 0), daysAgo(now, 1)},
			want: 3,
		},
		{
			name: "garbage ignored",
			days: []string{"not-a-date", daysAgo(now, 0), "2026-13-45"},
			want: 1,
		},
		{
			name: "future day does not count as today",
			days: []string{daysAgo(now, -1)},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Current(tt.days, now))
		})
	}
}

func TestCurrentAcrossMonthBoundary(t *testing.T) {
	now := time.Date(2026, time.March, 1, 8, 0, 0, 0, time.UTC)
	days := []string{"2026-03-01", "2026-02-28", "2026-02-27"}

	assert.Equal(t, 3, Current(days, now))
}

func TestCurrentAcrossDSTChange(t *testing.T) {
	// Clocks go forward in Paris on 2026-03-29.
	now := time.Date(2026, time.March, 30, 0, 30, 0, 0, paris)
	days := []string{"2026-03-30", "2026-03-29", "2026-03-28"}

	assert.Equal(t, 3, Current(days, now))
}

func TestCurrentUsesCallerLocation(t *testing.T) {
	// 23:30 UTC on the 10th is already the 11th in Paris.
	instant := time.Date(2026, time.June, 10, 23, 30, 0, 0, time.UTC)
	days := []string{"2026-06-11"}

	assert.Equal(t, 0, Current(days, instant.AddDate(0, 0, -1)))
	assert.Equal(t, 1, Current(days, instant.In(paris)))
}

func TestLongest(t *testing.T) {
	days := []string{
		"2026-01-01", "2026-01-02", "2026-01-03",
		"2026-01-10", "2026-01-11",
		"2026-01-03",
	}

	assert.Equal(t, 3, Longest(days, time.UTC))
	assert.Equal(t, 0, Longest(nil, time.UTC))
	assert.Equal(t, 1, Longest([]string{"2026-05-05"}, nil))
}

func TestDistinct(t *testing.T) {
	got := Distinct([]string{"2026-01-03", "bad", "2026-01-01", "2026-01-03"}, time.UTC)

	assert.Equal(t, []string{"2026-01-01", "2026-01-03"}, got)
}
