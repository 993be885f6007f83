package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	authmw "github.com/avioprep/avioprep/internal/auth/middleware"
	"github.com/avioprep/avioprep/internal/question"
	"github.com/avioprep/avioprep/internal/session"
)

// SessionAPI exposes the practice-attempt state machine over HTTP. The
// server is stateless between requests: every call restores the snapshot,
// applies one transition, and persists.
type SessionAPI struct {
	Source question.Source
	Engine *session.Engine
}

type questionView struct {
	ID            string   `json:"id"`
	Text          string   `json:"text"`
	Options       []string `json:"options,omitempty"`
	Answered      bool     `json:"answered"`
	SelectedIndex *int     `json:"selected_index,omitempty"`
	IsCorrect     *bool    `json:"is_correct,omitempty"`
	CorrectLabel  string   `json:"correct_label,omitempty"`
	Explanation   string   `json:"explanation,omitempty"`
}

type sessionView struct {
	PaperKey     string       `json:"paper_key"`
	CurrentIndex int          `json:"current_index"`
	Total        int          `json:"total"`
	Answered     int          `json:"answered"`
	Score        int          `json:"score"`
	Done         bool         `json:"done"`
	Percent      *int         `json:"percent,omitempty"`
	StartTime    int64        `json:"start_time"`
	Question     questionView `json:"question"`
}

func viewOf(paperKey string, s *session.State) sessionView {
	q := s.Current()
	qv := questionView{ID: q.ID, Text: q.Text, Options: q.Options}
	if rec, ok := s.AnswersHistory[s.CurrentIndex]; ok {
		sel := rec.SelectedIndex
		corr := rec.IsCorrect
		qv.Answered = true
		qv.SelectedIndex = &sel
		qv.IsCorrect = &corr
		// answered questions reveal the key and its explanation
		qv.CorrectLabel = q.CorrectLabel
		qv.Explanation = q.Explanation
	}
	v := sessionView{
		PaperKey:     paperKey,
		CurrentIndex: s.CurrentIndex,
		Total:        len(s.Questions),
		Answered:     len(s.AnswersHistory),
		Score:        s.Score,
		Done:         s.Done,
		StartTime:    s.StartTime.Unix(),
		Question:     qv,
	}
	if s.Done {
		p := session.Percent(s.Score, len(s.Questions))
		v.Percent = &p
	}
	return v
}

// restore loads the question set and the caller's attempt for it. The
// snapshot key scopes per user and paper so attempts never interfere.
func (api *SessionAPI) restore(r *http.Request) (string, *session.State, error) {
	paperKey := chi.URLParam(r, "paperKey")
	qs, err := api.Source.FetchQuestions(r.Context(), paperKey)
	if err != nil {
		return "", nil, err
	}
	sub := authmw.SubjectFromContext(r.Context())
	st, err := api.Engine.LoadOrRestore(r.Context(), qs, sub+"/"+paperKey)
	if err != nil {
		return "", nil, err
	}
	return paperKey, st, nil
}

// GET or POST /papers/{paperKey}/session
func (api *SessionAPI) LoadHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		paperKey, st, err := api.restore(r)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, viewOf(paperKey, st))
	}
}

// POST /papers/{paperKey}/session/answer  {"index": n}
func (api *SessionAPI) AnswerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Index *int `json:"index"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Index == nil {
			http.Error(w, "index required", http.StatusBadRequest)
			return
		}
		paperKey, st, err := api.restore(r)
		if err != nil {
			writeErr(w, err)
			return
		}
		// a rejected submission (locked answer, bad index) is not an error;
		// the response simply reflects the unchanged state
		api.Engine.SubmitAnswer(r.Context(), st, *req.Index)
		writeJSON(w, http.StatusOK, viewOf(paperKey, st))
	}
}

// POST /papers/{paperKey}/session/advance
func (api *SessionAPI) AdvanceHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		paperKey, st, err := api.restore(r)
		if err != nil {
			writeErr(w, err)
			return
		}
		api.Engine.Advance(r.Context(), st)
		writeJSON(w, http.StatusOK, viewOf(paperKey, st))
	}
}

// POST /papers/{paperKey}/session/retreat
func (api *SessionAPI) RetreatHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		paperKey, st, err := api.restore(r)
		if err != nil {
			writeErr(w, err)
			return
		}
		api.Engine.Retreat(r.Context(), st)
		writeJSON(w, http.StatusOK, viewOf(paperKey, st))
	}
}

// POST /papers/{paperKey}/session/restart
func (api *SessionAPI) RestartHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		paperKey, st, err := api.restore(r)
		if err != nil {
			writeErr(w, err)
			return
		}
		api.Engine.Restart(r.Context(), st)
		writeJSON(w, http.StatusOK, viewOf(paperKey, st))
	}
}

// POST /papers/{paperKey}/session/ack clears a completed attempt after the
// summary has been shown.
func (api *SessionAPI) AcknowledgeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		paperKey, st, err := api.restore(r)
		if err != nil {
			writeErr(w, err)
			return
		}
		api.Engine.Acknowledge(r.Context(), st)
		writeJSON(w, http.StatusOK, viewOf(paperKey, st))
	}
}
