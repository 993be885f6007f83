package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/avioprep/avioprep/internal/audit"
	authmw "github.com/avioprep/avioprep/internal/auth/middleware"
	"github.com/avioprep/avioprep/internal/question"
)

// publicQuestion is the learner-facing shape: no correct label, no
// explanation. Those are revealed per question through the session flow.
type publicQuestion struct {
	ID      string   `json:"id"`
	Text    string   `json:"text"`
	Options []string `json:"options,omitempty"`
}

func ListPapersHandler(src *question.SQLSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := strings.TrimSpace(r.URL.Query().Get("q"))
		limit := parseIntDefault(r.URL.Query().Get("limit"), 50)
		offset := parseIntDefault(r.URL.Query().Get("offset"), 0)
		list, err := src.ListPapers(r.Context(), q, limit, offset)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

// GetQuestionsHandler serves the open-access question bank for one paper,
// stripped of answers.
func GetQuestionsHandler(src question.Source) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := chi.URLParam(r, "paperKey")
		qs, err := src.FetchQuestions(r.Context(), key)
		if err != nil {
			writeErr(w, err)
			return
		}
		out := make([]publicQuestion, len(qs))
		for i, q := range qs {
			out[i] = publicQuestion{ID: q.ID, Text: q.Text, Options: q.Options}
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// UploadPaperHandler upserts a paper from raw question JSON in any supported
// bank format. Admin-only.
func UploadPaperHandler(src *question.SQLSource, auditLog *audit.Log) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			PaperKey  string          `json:"paper_key"`
			Title     string          `json:"title"`
			Questions json.RawMessage `json:"questions"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if req.PaperKey == "" || len(req.Questions) == 0 {
			http.Error(w, "paper_key and questions required", http.StatusBadRequest)
			return
		}
		n, err := src.PutPaper(r.Context(), req.PaperKey, req.Title, req.Questions)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if auditLog != nil {
			_ = auditLog.Append(r.Context(), "PaperUploaded", req.PaperKey, map[string]any{
				"by": authmw.SubjectFromContext(r.Context()), "questions": n,
			})
		}
		writeJSON(w, http.StatusOK, map[string]any{"paper_key": req.PaperKey, "questions": n})
	}
}

func DeletePaperHandler(src *question.SQLSource, auditLog *audit.Log) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := chi.URLParam(r, "paperKey")
		if err := src.DeletePaper(r.Context(), key); err != nil {
			writeErr(w, err)
			return
		}
		if auditLog != nil {
			_ = auditLog.Append(r.Context(), "PaperDeleted", key, map[string]any{
				"by": authmw.SubjectFromContext(r.Context()),
			})
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
