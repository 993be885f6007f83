package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	authmw "github.com/avioprep/avioprep/internal/auth/middleware"
	"github.com/avioprep/avioprep/internal/kvstore"
	"github.com/avioprep/avioprep/internal/question"
	"github.com/avioprep/avioprep/internal/session"
)

// mapSource serves fixed question sets keyed by paper.
type mapSource map[string][]question.Question

func (m mapSource) FetchQuestions(_ context.Context, paperKey string) ([]question.Question, error) {
	qs, ok := m[paperKey]
	if !ok || len(qs) == 0 {
		return nil, question.ErrNotFound
	}
	return qs, nil
}

func newSessionRouter(src question.Source) *chi.Mux {
	api := &SessionAPI{Source: src, Engine: session.NewEngine(kvstore.NewMemory())}
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(authmw.WithSubject(req.Context(), "u1")))
		})
	})
	r.Route("/papers/{paperKey}/session", func(r chi.Router) {
		r.Get("/", api.LoadHandler())
		r.Post("/answer", api.AnswerHandler())
		r.Post("/advance", api.AdvanceHandler())
		r.Post("/retreat", api.RetreatHandler())
		r.Post("/restart", api.RestartHandler())
		r.Post("/ack", api.AcknowledgeHandler())
	})
	return r
}

func testSource() mapSource {
	return mapSource{
		"nav-1": {
			{ID: "q1", Text: "Q1", Options: []string{"right", "wrong"}, CorrectLabel: "a", Explanation: "because"},
			{ID: "q2", Text: "Q2", Options: []string{"wrong", "right"}, CorrectLabel: "b"},
		},
	}
}

func doSession(t *testing.T, r http.Handler, method, path, body string) (int, sessionView) {
	t.Helper()
	var rd *strings.Reader
	if body == "" {
		rd = strings.NewReader("")
	} else {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	var v sessionView
	if rec.Code == http.StatusOK {
		if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
			t.Fatalf("decode response: %v", err)
		}
	}
	return rec.Code, v
}

func TestSessionFlowOverHTTP(t *testing.T) {
	r := newSessionRouter(testSource())
	base := "/papers/nav-1/session"

	code, v := doSession(t, r, http.MethodGet, base+"/", "")
	if code != http.StatusOK || v.CurrentIndex != 0 || v.Total != 2 {
		t.Fatalf("load: code=%d view=%+v", code, v)
	}
	if v.Question.CorrectLabel != "" || v.Question.Explanation != "" {
		t.Fatalf("unanswered question must not reveal the key: %+v", v.Question)
	}

	code, v = doSession(t, r, http.MethodPost, base+"/answer", `{"index":0}`)
	if code != http.StatusOK || v.Score != 1 {
		t.Fatalf("answer: code=%d view=%+v", code, v)
	}
	if !v.Question.Answered || v.Question.CorrectLabel != "a" || v.Question.Explanation != "because" {
		t.Fatalf("answered question should reveal key and explanation: %+v", v.Question)
	}

	// locked answer: a second submission leaves the state unchanged
	code, v = doSession(t, r, http.MethodPost, base+"/answer", `{"index":1}`)
	if code != http.StatusOK || v.Score != 1 || *v.Question.SelectedIndex != 0 {
		t.Fatalf("locked answer mutated state: %+v", v)
	}

	code, v = doSession(t, r, http.MethodPost, base+"/advance", "")
	if code != http.StatusOK || v.CurrentIndex != 1 {
		t.Fatalf("advance: %+v", v)
	}

	code, v = doSession(t, r, http.MethodPost, base+"/retreat", "")
	if code != http.StatusOK || v.CurrentIndex != 0 || v.Question.SelectedIndex == nil {
		t.Fatalf("retreat should restore the answered view: %+v", v)
	}

	doSession(t, r, http.MethodPost, base+"/advance", "")
	code, v = doSession(t, r, http.MethodPost, base+"/answer", `{"index":0}`)
	if code != http.StatusOK || v.Score != 1 {
		t.Fatalf("wrong answer must not score: %+v", v)
	}
	code, v = doSession(t, r, http.MethodPost, base+"/advance", "")
	if code != http.StatusOK || !v.Done {
		t.Fatalf("expected done: %+v", v)
	}
	if v.Percent == nil || *v.Percent != 50 {
		t.Fatalf("percent on completion = %v, want 50", v.Percent)
	}

	code, v = doSession(t, r, http.MethodPost, base+"/restart", "")
	if code != http.StatusOK || v.Score != 0 || v.CurrentIndex != 0 || v.Done {
		t.Fatalf("restart: %+v", v)
	}
}

func TestSessionStatePersistsAcrossRequests(t *testing.T) {
	r := newSessionRouter(testSource())
	base := "/papers/nav-1/session"

	doSession(t, r, http.MethodPost, base+"/answer", `{"index":0}`)
	doSession(t, r, http.MethodPost, base+"/advance", "")

	// a plain load restores the snapshot written by earlier requests
	code, v := doSession(t, r, http.MethodGet, base+"/", "")
	if code != http.StatusOK || v.CurrentIndex != 1 || v.Score != 1 || v.Answered != 1 {
		t.Fatalf("snapshot not restored: %+v", v)
	}
}

func TestSessionUnknownPaperIs404(t *testing.T) {
	r := newSessionRouter(testSource())
	code, _ := doSession(t, r, http.MethodGet, "/papers/nope/session/", "")
	if code != http.StatusNotFound {
		t.Fatalf("code = %d, want 404", code)
	}
}

func TestAnswerRequiresIndex(t *testing.T) {
	r := newSessionRouter(testSource())
	for _, body := range []string{"", "{}", `{"index":"a"}`} {
		code, _ := doSession(t, r, http.MethodPost, "/papers/nav-1/session/answer", body)
		if code != http.StatusBadRequest {
			t.Fatalf("body %q: code = %d, want 400", body, code)
		}
	}
}
