package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/shelf/internal/httpserver/deps"
	"github.com/MrSnakeDoc/shelf/internal/library"
)

// AddReflection attaches a page reflection and records reading activity.
func AddReflection(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := bookID(r)
		if err != nil {
			writeError(w, d, http.StatusBadRequest, err.Error())
			return
		}

		var draft library.ReflectionDraft
		if err := decodeJSON(w, r, &draft); err != nil {
			writeError(w, d, http.StatusBadRequest, err.Error())
			return
		}
		draft.Text = strings.TrimSpace(draft.Text)
		draft.Topic = strings.TrimSpace(draft.Topic)
		if draft.Text == "" {
			writeError(w, d, http.StatusBadRequest, "text is required")
			return
		}

		ref, ok := d.Library.AddReflection(r.Context(), id, draft)
		if !ok {
			writeError(w, d, http.StatusNotFound, "book not found")
			return
		}
		d.Activity.MarkTodayAsRead(r.Context())

		writeJSON(w, d, http.StatusCreated, ref)
	}
}

// DeleteReflection removes a reflection. Unknown ids still get 204.
func DeleteReflection(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := bookID(r)
		if err != nil {
			writeError(w, d, http.StatusBadRequest, err.Error())
			return
		}
		d.Library.DeleteReflection(r.Context(), id, chi.URLParam(r, "rid"))
		w.WriteHeader(http.StatusNoContent)
	}
}
