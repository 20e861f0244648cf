package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/shelf/internal/activity"
	"github.com/MrSnakeDoc/shelf/internal/httpserver/deps"
)

type activityResponse struct {
	activity.Summary
	Dates []string `json:"dates"`
}

func Stats(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, d, http.StatusOK, d.Library.Stats())
	}
}

func Activity(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, d, http.StatusOK, activityResponse{
			Summary: d.Activity.Summary(),
			Dates:   d.Activity.Dates(),
		})
	}
}

// MarkRead records today as a reading day. Repeated calls are harmless.
func MarkRead(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d.Activity.MarkTodayAsRead(r.Context())
		writeJSON(w, d, http.StatusOK, d.Activity.Summary())
	}
}
