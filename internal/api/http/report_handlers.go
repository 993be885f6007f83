package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	authmw "github.com/avioprep/avioprep/internal/auth/middleware"
	"github.com/avioprep/avioprep/internal/report"
)

// POST /reports
func CreateReportHandler(wf *report.Workflow) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var d report.Draft
		if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		d.Reporter = authmw.SubjectFromContext(r.Context())
		rep, err := wf.Submit(r.Context(), d)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, rep)
	}
}

// GET /reports?status=pending
func ListReportsHandler(wf *report.Workflow) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		opts := report.ListOpts{
			Status: report.Status(r.URL.Query().Get("status")),
			Limit:  parseIntDefault(r.URL.Query().Get("limit"), 50),
			Offset: parseIntDefault(r.URL.Query().Get("offset"), 0),
		}
		list, err := wf.List(r.Context(), opts)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

// PUT /reports/{reportID}/status  {"status": "reviewed"}
func UpdateReportStatusHandler(wf *report.Workflow) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "reportID")
		var req struct {
			Status report.Status `json:"status"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		rep, err := wf.SetStatus(r.Context(), id, req.Status)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, rep)
	}
}

// DELETE /reports/{reportID}?confirm=true — deletion is irreversible and
// requires the explicit confirm flag.
func DeleteReportHandler(wf *report.Workflow) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("confirm") != "true" {
			http.Error(w, "confirm=true required", http.StatusBadRequest)
			return
		}
		id := chi.URLParam(r, "reportID")
		if err := wf.Delete(r.Context(), id); err != nil {
			writeErr(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
