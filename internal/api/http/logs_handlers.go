package http

import (
	"net/http"

	"github.com/avioprep/avioprep/internal/audit"
)

// GET /logs?limit=100 — the admin request-log screen.
func RecentEventsHandler(l *audit.Log) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := parseIntDefault(r.URL.Query().Get("limit"), 100)
		events, err := l.Recent(r.Context(), limit)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, events)
	}
}
