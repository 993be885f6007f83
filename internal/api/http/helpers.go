package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/avioprep/avioprep/internal/question"
	"github.com/avioprep/avioprep/internal/report"
	"github.com/avioprep/avioprep/internal/session"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeErr maps domain errors onto status codes: not-found and empty-paper
// are terminal 404s, validation problems are 400s, everything else is a 500
// the client may retry.
func writeErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, question.ErrNotFound),
		errors.Is(err, session.ErrEmptyPaper),
		errors.Is(err, report.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, report.ErrTypeRequired),
		errors.Is(err, report.ErrCommentRequired),
		errors.Is(err, report.ErrUnknownType),
		errors.Is(err, report.ErrUnknownStatus),
		errors.Is(err, report.ErrInvalidTransition):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil && v >= 0 {
		return v
	}
	return def
}
