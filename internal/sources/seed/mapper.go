package seed

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/MrSnakeDoc/shelf/internal/domain"
	"github.com/MrSnakeDoc/shelf/internal/library"
)

// ErrNoBooks is returned when a seed file holds no usable entry.
var ErrNoBooks = errors.New("no valid books found in seed file")

// Rejected is a seed entry that failed validation.
type Rejected struct {
	Shelf  string
	Title  string
	Reason string
}

// Map converts a seed config to drafts, in file order.
// Entries without a title or author, or with non-positive pages, are rejected.
func Map(config ShelvesConfig) ([]library.Draft, []Rejected, error) {
	var (
		drafts   []library.Draft
		rejected []Rejected
	)

	for _, shelfMap := range config {
		for _, shelf := range sortedKeys(shelfMap) {
			for _, bookMap := range shelfMap[shelf] {
				for _, title := range sortedKeys(bookMap) {
					props := bookMap[title]
					d, reason := toDraft(title, props)
					if reason != "" {
						rejected = append(rejected, Rejected{Shelf: shelf, Title: title, Reason: reason})
						continue
					}
					drafts = append(drafts, d)
				}
			}
		}
	}

	if len(drafts) == 0 {
		return nil, rejected, ErrNoBooks
	}
	return drafts, rejected, nil
}

func toDraft(title string, p BookProps) (library.Draft, string) {
	title = strings.TrimSpace(title)
	author := strings.TrimSpace(p.Author)
	switch {
	case title == "":
		return library.Draft{}, "missing title"
	case author == "":
		return library.Draft{}, "missing author"
	case p.Pages <= 0:
		return library.Draft{}, fmt.Sprintf("invalid page count %d", p.Pages)
	}

	d := library.Draft{
		Title:      title,
		Author:     author,
		TotalPages: p.Pages,
		CoverURL:   strings.TrimSpace(p.Cover),
	}
	if s := domain.Status(strings.ToLower(strings.TrimSpace(p.Status))); s.IsValid() {
		d.Status = s
	}
	if pr := domain.Priority(strings.ToLower(strings.TrimSpace(p.Priority))); pr.IsValid() {
		d.Priority = pr
	}
	return d, ""
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
