// Package streak counts consecutive reading days.
//
// Days are calendar-day strings in the caller's local time zone ("2006-01-02").
// Duplicates are tolerated and unparsable entries are ignored.
package streak

import (
	"sort"
	"time"
)

// DayLayout is the storage format of a calendar day.
const DayLayout = "2006-01-02"

// Day formats t as a calendar day in t's own location.
func Day(t time.Time) string {
	return t.Format(DayLayout)
}

// Current returns the number of consecutive days ending today or yesterday.
//
// If the most recent day is older than yesterday the streak is broken and 0
// is returned, even when older days are contiguous.
func Current(days []string, now time.Time) int {
	sorted := distinctDescending(days, now.Location())
	if len(sorted) == 0 {
		return 0
	}

	today := startOfDay(now)
	yesterday := today.AddDate(0, 0, -1)
	if !sorted[0].Equal(today) && !sorted[0].Equal(yesterday) {
		return 0
	}

	count := 1
	expected := sorted[0].AddDate(0, 0, -1)
	for _, d := range sorted[1:] {
		if !d.Equal(expected) {
			break
		}
		count++
		expected = expected.AddDate(0, 0, -1)
	}
	return count
}

// Longest returns the longest run of consecutive days anywhere in days.
func Longest(days []string, loc *time.Location) int {
	sorted := distinctDescending(days, loc)
	if len(sorted) == 0 {
		return 0
	}

	best, run := 1, 1
	for i := 1; i < len(sorted); i++ {
		if sorted[i].Equal(sorted[i-1].AddDate(0, 0, -1)) {
			run++
		} else {
			run = 1
		}
		if run > best {
			best = run
		}
	}
	return best
}

// Distinct returns the valid days of the input, de-duplicated and sorted ascending.
func Distinct(days []string, loc *time.Location) []string {
	sorted := distinctDescending(days, loc)
	out := make([]string, len(sorted))
	for i, d := range sorted {
		out[len(sorted)-1-i] = Day(d)
	}
	return out
}

// distinctDescending parses, de-duplicates and sorts days newest first.
func distinctDescending(days []string, loc *time.Location) []time.Time {
	if loc == nil {
		loc = time.Local
	}
	seen := make(map[string]bool, len(days))
	out := make([]time.Time, 0, len(days))
	for _, raw := range days {
		d, err := time.ParseInLocation(DayLayout, raw, loc)
		if err != nil {
			continue
		}
		key := Day(d)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].After(out[j]) })
	return out
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
