package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/amishk599/matchdeck/internal/model"
)

func TestFetchBestMatches_MixedShapes(t *testing.T) {
	payload := `{
		"recommended_jobs": [
			{"id": 1, "title": "Backend Engineer", "company_name": "Acme", "tech_stack": "Go, SQL", "similarity": 0.91},
			"Job(id=2, title='Data Engineer', company_name='Beta', tech_stack='Python, Spark', similarity=0.83)"
		],
		"explanation": "based on your profile"
	}`
	var gotPath, gotAuth, gotForce string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotForce = r.URL.Query().Get("force_refresh")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(payload))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok-123", srv.Client())
	recs, err := c.FetchBestMatches(context.Background(), true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotPath != "/recommendations/best-matches" {
		t.Errorf("unexpected path %s", gotPath)
	}
	if gotAuth != "Bearer tok-123" {
		t.Errorf("unexpected auth header %q", gotAuth)
	}
	if gotForce != "true" {
		t.Errorf("expected force_refresh=true, got %q", gotForce)
	}

	if len(recs) != 2 {
		t.Fatalf("expected 2 recommendations, got %d", len(recs))
	}
	if recs[0].ID == nil || *recs[0].ID != 1 {
		t.Errorf("expected first ID 1, got %v", recs[0].ID)
	}
	if recs[1].Company == nil || *recs[1].Company != "Beta" {
		t.Errorf("expected encoded item company Beta, got %v", recs[1].Company)
	}
	if recs[1].Similarity == nil || *recs[1].Similarity != 0.83 {
		t.Errorf("expected encoded item similarity 0.83, got %v", recs[1].Similarity)
	}
}

func TestFetchPage_ReportsTotal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/recommendations/paginated" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("page"); got != "2" {
			t.Errorf("expected page=2, got %q", got)
		}
		if got := r.URL.Query().Get("jobs_per_page"); got != "5" {
			t.Errorf("expected jobs_per_page=5, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"jobs": [{"id": 11, "title": "SRE"}, {"id": 12, "title": "Platform Engineer"}],
			"pagination": {"total_jobs": 23}
		}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", srv.Client())
	recs, total, err := c.FetchPage(context.Background(), 2, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 23 {
		t.Errorf("expected total 23, got %d", total)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 recommendations, got %d", len(recs))
	}
	if recs[1].Title == nil || *recs[1].Title != "Platform Engineer" {
		t.Errorf("unexpected second title %v", recs[1].Title)
	}
}

func TestFetchExplanation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		var req explanationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		if len(req.JobIDs) != 1 || req.JobIDs[0] != 42 {
			t.Errorf("expected job_ids [42], got %v", req.JobIDs)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"explanations": "strong overlap with your Go experience"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", srv.Client())
	text, err := c.FetchExplanation(context.Background(), 42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "strong overlap with your Go experience" {
		t.Errorf("unexpected explanation %q", text)
	}
}

func TestErrorStatusWrapsHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "120")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", srv.Client())
	_, err := c.FetchBestMatches(context.Background(), false)
	if err == nil {
		t.Fatal("expected error")
	}

	var httpErr *model.HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("expected HTTPError, got %T: %v", err, err)
	}
	if httpErr.StatusCode != http.StatusTooManyRequests {
		t.Errorf("expected status 429, got %d", httpErr.StatusCode)
	}
	if httpErr.RetryAfter != 120*time.Second {
		t.Errorf("expected Retry-After 120s, got %v", httpErr.RetryAfter)
	}
}
