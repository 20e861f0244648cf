package library

import (
	"sort"
	"strings"

	"github.com/MrSnakeDoc/shelf/internal/domain"
)

// Filter selects books by derived status.
type Filter string

const (
	FilterAll       Filter = "All"
	FilterReading   Filter = Filter(domain.LabelReading)
	FilterCompleted Filter = Filter(domain.LabelCompleted)
	FilterLater     Filter = Filter(domain.LabelLater)
)

// ParseFilter accepts a filter name in any case; empty means All.
func ParseFilter(s string) (Filter, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return FilterAll, true
	case "reading":
		return FilterReading, true
	case "completed":
		return FilterCompleted, true
	case "later":
		return FilterLater, true
	}
	return "", false
}

// Matches reports whether b passes the filter.
func (f Filter) Matches(b domain.Book) bool {
	if f == FilterAll || f == "" {
		return true
	}
	return Filter(domain.StatusOf(b)) == f
}

// Query returns the books passing filter whose title or author contains
// search (case-insensitive), highest priority first, then newest first.
func (l *Library) Query(filter Filter, search string) []domain.Book {
	l.mu.Lock()
	defer l.mu.Unlock()

	needle := strings.ToLower(search)
	out := make([]domain.Book, 0, len(l.books))
	for _, b := range l.books {
		if !filter.Matches(b) {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(b.Title), needle) &&
			!strings.Contains(strings.ToLower(b.Author), needle) {
			continue
		}
		out = append(out, b.Clone())
	}

	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := out[i].Priority.Rank(), out[j].Priority.Rank()
		if ri != rj {
			return ri < rj
		}
		return out[i].ID > out[j].ID
	})
	return out
}

// Stats aggregates the whole library, ignoring any filter.
type Stats struct {
	TotalBooks int `json:"totalBooks"`
	Completed  int `json:"completed"`
	Reading    int `json:"reading"`
	Later      int `json:"later"`
	PagesRead  int `json:"pagesRead"`
}

// Stats counts books by derived status and sums pages read.
// Partial progress counts towards PagesRead.
func (l *Library) Stats() Stats {
	l.mu.Lock()
	defer l.mu.Unlock()

	s := Stats{TotalBooks: len(l.books)}
	for _, b := range l.books {
		switch domain.StatusOf(b) {
		case domain.LabelCompleted:
			s.Completed++
		case domain.LabelLater:
			s.Later++
		default:
			s.Reading++
		}
		s.PagesRead += b.CurrentPage
	}
	return s
}
