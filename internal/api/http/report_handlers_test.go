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
	"github.com/avioprep/avioprep/internal/report"
)

func newReportRouter() (*chi.Mux, *report.MemoryStore) {
	store := report.NewMemoryStore()
	wf := report.NewWorkflow(store)
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(authmw.WithSubject(req.Context(), "u1")))
		})
	})
	r.Post("/reports", CreateReportHandler(wf))
	r.Get("/reports", ListReportsHandler(wf))
	r.Put("/reports/{reportID}/status", UpdateReportStatusHandler(wf))
	r.Delete("/reports/{reportID}", DeleteReportHandler(wf))
	return r, store
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestCreateReport(t *testing.T) {
	r, _ := newReportRouter()
	rec := do(r, http.MethodPost, "/reports",
		`{"question_id":"q3","paper_key":"nav-1","type":"wrong_answer"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("code = %d, body = %s", rec.Code, rec.Body)
	}
	var rep report.Report
	if err := json.Unmarshal(rec.Body.Bytes(), &rep); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rep.ID == "" || rep.Status != report.StatusPending || rep.Reporter != "u1" {
		t.Fatalf("created report = %+v", rep)
	}
}

func TestCreateReportValidation(t *testing.T) {
	r, _ := newReportRouter()
	cases := []string{
		`{"question_id":"q3"}`,                   // no type
		`{"question_id":"q3","type":"other"}`,    // other without comment
		`{"question_id":"q3","type":"nonsense"}`, // unknown type
		`not json`,
	}
	for _, body := range cases {
		if rec := do(r, http.MethodPost, "/reports", body); rec.Code != http.StatusBadRequest {
			t.Fatalf("body %s: code = %d, want 400", body, rec.Code)
		}
	}
}

func TestReportStatusEndpoint(t *testing.T) {
	r, _ := newReportRouter()
	rec := do(r, http.MethodPost, "/reports", `{"question_id":"q1","type":"missing_data"}`)
	var rep report.Report
	json.Unmarshal(rec.Body.Bytes(), &rep)

	rec = do(r, http.MethodPut, "/reports/"+rep.ID+"/status", `{"status":"reviewed"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("update: code = %d, body = %s", rec.Code, rec.Body)
	}

	rec = do(r, http.MethodPut, "/reports/"+rep.ID+"/status", `{"status":"pending"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("reviewed -> pending should be 400, got %d", rec.Code)
	}

	rec = do(r, http.MethodPut, "/reports/missing/status", `{"status":"reviewed"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown report should be 404, got %d", rec.Code)
	}
}

func TestDeleteReportRequiresConfirm(t *testing.T) {
	r, store := newReportRouter()
	rec := do(r, http.MethodPost, "/reports", `{"question_id":"q1","type":"wrong_answer"}`)
	var rep report.Report
	json.Unmarshal(rec.Body.Bytes(), &rep)

	if rec := do(r, http.MethodDelete, "/reports/"+rep.ID, ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("delete without confirm should be 400, got %d", rec.Code)
	}
	if _, err := store.Get(context.Background(), rep.ID); err != nil {
		t.Fatalf("unconfirmed delete removed the report")
	}

	if rec := do(r, http.MethodDelete, "/reports/"+rep.ID+"?confirm=true", ""); rec.Code != http.StatusNoContent {
		t.Fatalf("confirmed delete: code = %d", rec.Code)
	}
	if rec := do(r, http.MethodDelete, "/reports/"+rep.ID+"?confirm=true", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("second delete should be 404, got %d", rec.Code)
	}
}

func TestListReportsFilter(t *testing.T) {
	r, _ := newReportRouter()
	do(r, http.MethodPost, "/reports", `{"question_id":"q1","type":"wrong_answer"}`)
	rec := do(r, http.MethodPost, "/reports", `{"question_id":"q2","type":"other","comment":"x"}`)
	var rep report.Report
	json.Unmarshal(rec.Body.Bytes(), &rep)
	do(r, http.MethodPut, "/reports/"+rep.ID+"/status", `{"status":"dismissed"}`)

	rec = do(r, http.MethodGet, "/reports?status=pending", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list: code = %d", rec.Code)
	}
	var list []report.Report
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(list) != 1 || list[0].QuestionID != "q1" {
		t.Fatalf("filtered list = %+v", list)
	}
}
