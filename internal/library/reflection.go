package library

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/MrSnakeDoc/shelf/internal/domain"
	"github.com/MrSnakeDoc/shelf/internal/logger"
)

// ReflectionDraft is a new page reflection.
type ReflectionDraft struct {
	Page  int    `json:"page"`
	Topic string `json:"topic,omitempty"`
	Text  string `json:"text"`
	Mood  string `json:"mood,omitempty"`
}

// AddReflection attaches a reflection to a book, keeping reflections sorted by page.
// The page is clamped into [1, TotalPages]. Reports false for an unknown book.
func (l *Library) AddReflection(ctx context.Context, bookID int64, d ReflectionDraft) (domain.Reflection, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.indexLocked(bookID)
	if i < 0 {
		return domain.Reflection{}, false
	}

	b := &l.books[i]
	now := l.now()
	r := domain.Reflection{
		ID:        l.newID(),
		Page:      domain.ClampPage(d.Page, 1, b.TotalPages),
		Topic:     d.Topic,
		Text:      d.Text,
		Mood:      d.Mood,
		CreatedAt: now,
	}

	// Insert after every reflection on the same or an earlier page.
	at := sort.Search(len(b.PageReflections), func(j int) bool {
		return b.PageReflections[j].Page > r.Page
	})
	refs := make([]domain.Reflection, 0, len(b.PageReflections)+1)
	refs = append(refs, b.PageReflections[:at]...)
	refs = append(refs, r)
	refs = append(refs, b.PageReflections[at:]...)
	b.PageReflections = refs
	b.UpdatedAt = now

	l.saveLocked(ctx)

	l.logger.Debug("reflection added",
		logger.Int64("book_id", bookID),
		logger.String("reflection_id", r.ID),
		logger.Int("page", r.Page))
	return r, true
}

// DeleteReflection removes one reflection by id. Reports false if either id is unknown.
func (l *Library) DeleteReflection(ctx context.Context, bookID int64, reflectionID string) bool {
	if reflectionID == "" {
		return false
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.indexLocked(bookID)
	if i < 0 {
		return false
	}

	b := &l.books[i]
	for j, r := range b.PageReflections {
		if r.ID != reflectionID {
			continue
		}
		b.PageReflections = append(b.PageReflections[:j:j], b.PageReflections[j+1:]...)
		b.UpdatedAt = l.now()
		l.saveLocked(ctx)
		return true
	}
	return false
}

// clampAndSortReflections bounds every page into [1, total] and sorts by page, stable.
func clampAndSortReflections(refs []domain.Reflection, total int) []domain.Reflection {
	for i := range refs {
		refs[i].Page = domain.ClampPage(refs[i].Page, 1, total)
	}
	sort.SliceStable(refs, func(i, j int) bool { return refs[i].Page < refs[j].Page })
	return refs
}

// newReflectionID returns a time-ordered UUIDv7.
func newReflectionID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
