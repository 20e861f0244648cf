package domain

import "time"

// DefaultCoverURL is used whenever a book has no cover of its own.
const DefaultCoverURL = "https://placehold.co/300x450?text=No+Cover"

// Book represents one library entry with its reading progress and annotations.
//
// It is NOT tied to any storage backend or presentation surface.
// Derived values (status label, progress, milestones) are never stored,
// see StatusOf, ProgressPercentage and Milestones.
type Book struct {
	// ─────────────────────────────
	// Identity (immutable)
	// ─────────────────────────────

	// ID is assigned once by the library at creation time.
	ID int64 `json:"id"`

	// ─────────────────────────────
	// Catalog
	// ─────────────────────────────

	Title    string `json:"title"`
	Author   string `json:"author"`
	CoverURL string `json:"coverUrl"`

	// ─────────────────────────────
	// Progress
	// ─────────────────────────────

	// TotalPages is always >= 1 for books written through the library.
	TotalPages int `json:"totalPages"`

	// CurrentPage is kept within [0, TotalPages].
	CurrentPage int `json:"currentPage"`

	// Status is the explicit reading/later flag.
	// Completion is derived from the page counters instead.
	Status Status `json:"status"`

	// Priority is advisory and only drives ordering.
	Priority Priority `json:"priority"`

	// ─────────────────────────────
	// Notes & reflections
	// ─────────────────────────────

	Notes string `json:"notes"`

	// PageReflections is sorted ascending by page.
	PageReflections []Reflection `json:"pageReflections"`

	// ─────────────────────────────
	// Attached document (opaque)
	// ─────────────────────────────

	PDFURL         string       `json:"pdfUrl,omitempty"`
	PDFAnnotations []Annotation `json:"pdfAnnotations"`

	// ─────────────────────────────
	// Metadata
	// ─────────────────────────────

	CreatedAt time.Time `json:"createdAt,omitzero"`
	UpdatedAt time.Time `json:"updatedAt,omitzero"`
}

// Status is the stored reading flag of a book.
type Status string

const (
	StatusReading Status = "reading"
	StatusLater   Status = "later"
)

// IsValid reports whether s is a known stored status.
func (s Status) IsValid() bool {
	switch s {
	case StatusReading, StatusLater:
		return true
	}
	return false
}

// Priority tags a book for ordering.
type Priority string

const (
	PriorityNone   Priority = "none"
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// IsValid reports whether p is a known priority.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityNone, PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Rank orders priorities: high sorts first, none (or unknown) last.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	default:
		return 3
	}
}

// Reflection is a note anchored to a page of a book.
// Several reflections may share the same page; ID tells them apart.
type Reflection struct {
	ID        string    `json:"id"`
	Page      int       `json:"page"`
	Topic     string    `json:"topic,omitempty"`
	Text      string    `json:"text"`
	Mood      string    `json:"mood,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitzero"`
}

// AnnotationType is the kind of mark left on an attached PDF.
type AnnotationType string

const (
	AnnotationHighlight AnnotationType = "highlight"
	AnnotationNote      AnnotationType = "note"
	AnnotationDrawing   AnnotationType = "drawing"
)

// Annotation is an opaque record owned by the PDF viewer.
// The library stores it verbatim and never interprets Content or Position.
type Annotation struct {
	ID        string         `json:"id"`
	Page      int            `json:"page"`
	Type      AnnotationType `json:"type"`
	Content   string         `json:"content,omitempty"`
	Color     string         `json:"color,omitempty"`
	Position  *Position      `json:"position,omitempty"`
	CreatedAt time.Time      `json:"createdAt,omitzero"`
}

// Position locates an annotation on its page.
type Position struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
}

// Clone returns a deep copy of b so callers never share slices with the library.
func (b Book) Clone() Book {
	out := b
	if b.PageReflections != nil {
		out.PageReflections = make([]Reflection, len(b.PageReflections))
		copy(out.PageReflections, b.PageReflections)
	}
	if b.PDFAnnotations != nil {
		out.PDFAnnotations = make([]Annotation, len(b.PDFAnnotations))
		for i, a := range b.PDFAnnotations {
			if a.Position != nil {
				pos := *a.Position
				a.Position = &pos
			}
			out.PDFAnnotations[i] = a
		}
	}
	return out
}
