package domain

// Normalize fills every optional field of a stored record with its default.
//
// It runs on every load, not once, so a record written by an older writer
// (missing status, priority, reflections or annotations) always comes back
// complete. TotalPages is left untouched: a stored zero is reported as 0%
// progress rather than silently repaired.
func Normalize(b Book) Book {
	if !b.Status.IsValid() {
		b.Status = StatusReading
	}
	if !b.Priority.IsValid() {
		b.Priority = PriorityNone
	}
	if b.CoverURL == "" {
		b.CoverURL = DefaultCoverURL
	}
	if b.PageReflections == nil {
		b.PageReflections = []Reflection{}
	}
	if b.PDFAnnotations == nil {
		b.PDFAnnotations = []Annotation{}
	}
	if b.CurrentPage < 0 {
		b.CurrentPage = 0
	}
	return b
}

// NormalizeAll applies Normalize to every record of a stored list.
func NormalizeAll(books []Book) []Book {
	out := make([]Book, 0, len(books))
	for _, b := range books {
		out = append(out, Normalize(b))
	}
	return out
}

// ClampPage bounds page into [low, high]. If high < low, low wins.
func ClampPage(page, low, high int) int {
	if page > high {
		page = high
	}
	if page < low {
		page = low
	}
	return page
}
