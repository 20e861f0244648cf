package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/MrSnakeDoc/shelf/internal/domain"
	"github.com/MrSnakeDoc/shelf/internal/httpserver/deps"
	"github.com/MrSnakeDoc/shelf/internal/library"
	"github.com/MrSnakeDoc/shelf/internal/logger"
)

type booksResponse struct {
	Filter library.Filter `json:"filter"`
	Query  string         `json:"query,omitempty"`
	Count  int            `json:"count"`
	Books  []domain.View  `json:"books"`
}

func toViews(books []domain.Book) []domain.View {
	views := make([]domain.View, len(books))
	for i, b := range books {
		views[i] = domain.NewView(b)
	}
	return views
}

// ListBooks serves the filtered, searched book list with derived fields.
func ListBooks(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, ok := library.ParseFilter(r.URL.Query().Get("filter"))
		if !ok {
			writeError(w, d, http.StatusBadRequest, "filter must be one of All, Reading, Completed, Later")
			return
		}
		q := strings.TrimSpace(r.URL.Query().Get("q"))

		books := d.Library.Query(filter, q)
		writeJSON(w, d, http.StatusOK, booksResponse{
			Filter: filter,
			Query:  q,
			Count:  len(books),
			Books:  toViews(books),
		})
	}
}

// GetBook serves one book.
func GetBook(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := bookID(r)
		if err != nil {
			writeError(w, d, http.StatusBadRequest, err.Error())
			return
		}
		b, ok := d.Library.Get(id)
		if !ok {
			writeError(w, d, http.StatusNotFound, "book not found")
			return
		}
		writeJSON(w, d, http.StatusOK, domain.NewView(b))
	}
}

// CreateBook validates a draft, adds it and records reading activity.
func CreateBook(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var draft library.Draft
		if err := decodeJSON(w, r, &draft); err != nil {
			writeError(w, d, http.StatusBadRequest, err.Error())
			return
		}
		if err := validateDraft(&draft); err != nil {
			writeError(w, d, http.StatusBadRequest, err.Error())
			return
		}

		b := d.Library.Add(r.Context(), draft)
		d.Activity.MarkTodayAsRead(r.Context())

		writeJSON(w, d, http.StatusCreated, domain.NewView(b))
	}
}

// UpdateBook merges a partial update into a book.
// Page and notes changes count as reading activity.
func UpdateBook(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := bookID(r)
		if err != nil {
			writeError(w, d, http.StatusBadRequest, err.Error())
			return
		}

		var patch library.Patch
		if err := decodeJSON(w, r, &patch); err != nil {
			writeError(w, d, http.StatusBadRequest, err.Error())
			return
		}
		if err := validatePatch(&patch); err != nil {
			writeError(w, d, http.StatusBadRequest, err.Error())
			return
		}

		b, ok := d.Library.Update(r.Context(), id, patch)
		if !ok {
			writeError(w, d, http.StatusNotFound, "book not found")
			return
		}
		if patch.CurrentPage != nil || patch.Notes != nil {
			d.Activity.MarkTodayAsRead(r.Context())
		}

		writeJSON(w, d, http.StatusOK, domain.NewView(b))
	}
}

// DeleteBook removes a book. Unknown ids still get 204.
func DeleteBook(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := bookID(r)
		if err != nil {
			writeError(w, d, http.StatusBadRequest, err.Error())
			return
		}
		if !d.Library.Delete(r.Context(), id) {
			d.Logger.Debug("delete of unknown book", logger.Int64("id", id))
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func validateDraft(dr *library.Draft) error {
	dr.Title = strings.TrimSpace(dr.Title)
	dr.Author = strings.TrimSpace(dr.Author)
	dr.CoverURL = strings.TrimSpace(dr.CoverURL)

	switch {
	case dr.Title == "":
		return errors.New("title is required")
	case dr.Author == "":
		return errors.New("author is required")
	case dr.TotalPages <= 0:
		return errors.New("totalPages must be a positive number")
	case dr.Status != "" && !dr.Status.IsValid():
		return errors.New("status must be reading or later")
	case dr.Priority != "" && !dr.Priority.IsValid():
		return errors.New("priority must be none, low, medium or high")
	}
	return nil
}

func validatePatch(p *library.Patch) error {
	if p.IsEmpty() {
		return errors.New("nothing to update")
	}
	if p.Title != nil {
		t := strings.TrimSpace(*p.Title)
		if t == "" {
			return errors.New("title cannot be empty")
		}
		p.Title = &t
	}
	if p.Author != nil {
		a := strings.TrimSpace(*p.Author)
		if a == "" {
			return errors.New("author cannot be empty")
		}
		p.Author = &a
	}
	if p.TotalPages != nil && *p.TotalPages <= 0 {
		return errors.New("totalPages must be a positive number")
	}
	if p.Status != nil && !p.Status.IsValid() {
		return errors.New("status must be reading or later")
	}
	if p.Priority != nil && !p.Priority.IsValid() {
		return errors.New("priority must be none, low, medium or high")
	}
	return nil
}
