package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/shelf/internal/httpserver/deps"
)

type componentStatus struct {
	OK          bool   `json:"ok"`
	Backend     string `json:"backend,omitempty"`
	BooksLoaded *int   `json:"books_loaded,omitempty"`
	Mode        string `json:"mode,omitempty"`
	Impact      string `json:"impact,omitempty"`
	Error       string `json:"error,omitempty"`
}

type readyzResponse struct {
	Ready      bool                       `json:"ready"`
	Mode       string                     `json:"mode"`
	Components map[string]componentStatus `json:"components"`
}

// Readyz reports whether the durable store answers and the last write landed.
// A failing store is "degraded": the library keeps serving from memory.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		books := d.Library.Count()
		components := map[string]componentStatus{
			"library": {OK: true, BooksLoaded: &books},
			"store":   checkStore(r.Context(), d),
			"persist": checkSaves(d),
		}

		resp := readyzResponse{
			Ready:      components["store"].OK,
			Mode:       determineMode(components),
			Components: components,
		}

		status := http.StatusOK
		if !resp.Ready {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, d, status, resp)
	}
}

func determineMode(components map[string]componentStatus) string {
	if store, ok := components["store"]; ok && !store.OK {
		return "memory-only"
	}
	if saves, ok := components["persist"]; ok && !saves.OK {
		return "degraded"
	}
	return "durable"
}

func checkStore(ctx context.Context, d deps.Deps) componentStatus {
	if d.Store == nil {
		return componentStatus{
			OK:     false,
			Mode:   "memory-only",
			Impact: "changes-lost-on-restart",
			Error:  "store not initialized",
		}
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := d.Store.Ping(ctx); err != nil {
		return componentStatus{
			OK:      false,
			Backend: d.Backend,
			Mode:    "memory-only",
			Impact:  "changes-lost-on-restart",
			Error:   err.Error(),
		}
	}
	return componentStatus{OK: true, Backend: d.Backend}
}

func checkSaves(d deps.Deps) componentStatus {
	if d.Saves == nil {
		return componentStatus{OK: true}
	}
	if err := d.Saves.LastSaveError(); err != nil {
		return componentStatus{
			OK:     false,
			Impact: "latest-changes-not-persisted",
			Error:  err.Error(),
		}
	}
	return componentStatus{OK: true}
}
