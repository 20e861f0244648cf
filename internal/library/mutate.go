package library

import (
	"context"
	"strings"

	"github.com/MrSnakeDoc/shelf/internal/domain"
	"github.com/MrSnakeDoc/shelf/internal/logger"
)

// Draft is a validated new-book entry.
// Title and author are expected to be trimmed and non-empty already.
type Draft struct {
	Title      string          `json:"title" yaml:"title"`
	Author     string          `json:"author" yaml:"author"`
	TotalPages int             `json:"totalPages" yaml:"totalPages"`
	CoverURL   string          `json:"coverUrl,omitempty" yaml:"coverUrl,omitempty"`
	Status     domain.Status   `json:"status,omitempty" yaml:"status,omitempty"`
	Priority   domain.Priority `json:"priority,omitempty" yaml:"priority,omitempty"`
}

// Patch lists the fields to merge into a book. Nil fields are left alone.
type Patch struct {
	Title           *string              `json:"title,omitempty"`
	Author          *string              `json:"author,omitempty"`
	TotalPages      *int                 `json:"totalPages,omitempty"`
	CurrentPage     *int                 `json:"currentPage,omitempty"`
	CoverURL        *string              `json:"coverUrl,omitempty"`
	Notes           *string              `json:"notes,omitempty"`
	Status          *domain.Status       `json:"status,omitempty"`
	Priority        *domain.Priority     `json:"priority,omitempty"`
	PageReflections *[]domain.Reflection `json:"pageReflections,omitempty"`
	PDFURL          *string              `json:"pdfUrl,omitempty"`
	PDFAnnotations  *[]domain.Annotation `json:"pdfAnnotations,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p == Patch{}
}

// Add creates a book from d, appends it and persists the list.
// The returned book is immediately visible to Get and Query.
func (l *Library) Add(ctx context.Context, d Draft) domain.Book {
	l.mu.Lock()
	defer l.mu.Unlock()

	b := l.newBookLocked(d)
	l.books = append(l.books, b)
	l.saveLocked(ctx)

	l.logger.Info("book added",
		logger.Int64("id", b.ID),
		logger.String("title", b.Title))
	return b.Clone()
}

func (l *Library) newBookLocked(d Draft) domain.Book {
	now := l.now()
	b := domain.Book{
		ID:              l.nextID(),
		Title:           d.Title,
		Author:          d.Author,
		CoverURL:        d.CoverURL,
		TotalPages:      d.TotalPages,
		CurrentPage:     0,
		Status:          d.Status,
		Priority:        d.Priority,
		PageReflections: []domain.Reflection{},
		PDFAnnotations:  []domain.Annotation{},
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if b.TotalPages < 1 {
		b.TotalPages = 1
	}
	return domain.Normalize(b)
}

// Update merges p into the book with id and persists the list.
// An unknown id is a no-op and reports false.
// CurrentPage is clamped into [0, TotalPages] on every call.
func (l *Library) Update(ctx context.Context, id int64, p Patch) (domain.Book, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.indexLocked(id)
	if i < 0 {
		l.logger.Debug("update of unknown book ignored", logger.Int64("id", id))
		return domain.Book{}, false
	}

	b := l.books[i]
	applyPatch(&b, p, l.newID)
	b.UpdatedAt = l.now()
	l.books[i] = b
	l.saveLocked(ctx)

	return b.Clone(), true
}

func applyPatch(b *domain.Book, p Patch, newID func() string) {
	if p.Title != nil {
		b.Title = *p.Title
	}
	if p.Author != nil {
		b.Author = *p.Author
	}
	if p.CoverURL != nil {
		b.CoverURL = *p.CoverURL
	}
	if b.CoverURL == "" {
		b.CoverURL = domain.DefaultCoverURL
	}
	if p.Notes != nil {
		b.Notes = *p.Notes
	}
	if p.Status != nil && p.Status.IsValid() {
		b.Status = *p.Status
	}
	if p.Priority != nil && p.Priority.IsValid() {
		b.Priority = *p.Priority
	}
	if p.PDFURL != nil {
		b.PDFURL = *p.PDFURL
	}
	if p.PDFAnnotations != nil {
		b.PDFAnnotations = append([]domain.Annotation{}, (*p.PDFAnnotations)...)
	}

	if p.TotalPages != nil {
		b.TotalPages = max(*p.TotalPages, 1)
	}
	if p.CurrentPage != nil {
		b.CurrentPage = *p.CurrentPage
	}
	b.CurrentPage = domain.ClampPage(b.CurrentPage, 0, b.TotalPages)

	if p.PageReflections != nil {
		b.PageReflections = append([]domain.Reflection{}, (*p.PageReflections)...)
		for i := range b.PageReflections {
			if b.PageReflections[i].ID == "" {
				b.PageReflections[i].ID = newID()
			}
		}
	}
	if p.PageReflections != nil || p.TotalPages != nil {
		b.PageReflections = clampAndSortReflections(b.PageReflections, b.TotalPages)
	}
}

// Delete removes the book with id and persists the list.
// An unknown id is a no-op and reports false.
func (l *Library) Delete(ctx context.Context, id int64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.indexLocked(id)
	if i < 0 {
		l.logger.Debug("delete of unknown book ignored", logger.Int64("id", id))
		return false
	}

	title := l.books[i].Title
	l.books = append(l.books[:i], l.books[i+1:]...)
	l.saveLocked(ctx)

	l.logger.Info("book deleted",
		logger.Int64("id", id),
		logger.String("title", title))
	return true
}

// ImportResult summarizes an Import call.
type ImportResult struct {
	Added   []domain.Book `json:"added"`
	Skipped int           `json:"skipped"`
}

// Import adds every draft whose title and author (case-insensitive) are not
// already in the library, then persists once.
func (l *Library) Import(ctx context.Context, drafts []Draft) ImportResult {
	l.mu.Lock()
	defer l.mu.Unlock()

	known := make(map[string]bool, len(l.books)+len(drafts))
	for _, b := range l.books {
		known[DedupeKey(b.Title, b.Author)] = true
	}

	result := ImportResult{Added: []domain.Book{}}
	for _, d := range drafts {
		key := DedupeKey(d.Title, d.Author)
		if known[key] {
			result.Skipped++
			continue
		}
		known[key] = true

		b := l.newBookLocked(d)
		l.books = append(l.books, b)
		result.Added = append(result.Added, b.Clone())
	}

	if len(result.Added) > 0 {
		l.saveLocked(ctx)
	}
	return result
}

// DedupeKey identifies a book by title and author, ignoring case and surrounding blanks.
func DedupeKey(title, author string) string {
	return strings.ToLower(strings.TrimSpace(title)) + "\x00" + strings.ToLower(strings.TrimSpace(author))
}
