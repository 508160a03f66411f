package matcher

import (
	"context"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNewClient_EmptyBaseURLDisablesRemote(t *testing.T) {
	if c := NewClient("", time.Second, nil); c != nil {
		t.Fatalf("expected nil client for empty base URL")
	}
	if c := NewClient("   ", time.Second, nil); c != nil {
		t.Fatalf("expected nil client for blank base URL")
	}
}

func TestHealthy(t *testing.T) {
	healthy := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if healthy {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, log.New(testWriter{t}, "", 0))

	if c.Healthy(context.Background()) {
		t.Fatalf("expected unhealthy")
	}
	healthy = true
	if !c.Healthy(context.Background()) {
		t.Fatalf("expected healthy")
	}
}

func TestHealthy_Unreachable(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", 200*time.Millisecond, nil)
	if c.Healthy(context.Background()) {
		t.Fatalf("expected unhealthy for unreachable service")
	}
}

func TestComputeMatch(t *testing.T) {
	id := uuid.New()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/compute-match" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("unexpected content type %s", ct)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"userId":"` + id.String() + `","score":87.5}]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, nil)
	scores, err := c.ComputeMatch(context.Background(), "guitar", ModeLearn)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(scores) != 1 {
		t.Fatalf("expected 1 score, got %d", len(scores))
	}
	if scores[0].UserID != id || scores[0].Score != 87.5 {
		t.Fatalf("unexpected score entry: %+v", scores[0])
	}
}

func TestComputeMatch_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, nil)
	if _, err := c.ComputeMatch(context.Background(), "guitar", ModeTeach); err == nil {
		t.Fatalf("expected error on 500 response")
	}
}

func TestComputeMatch_InvalidMode(t *testing.T) {
	c := NewClient("http://localhost:5000", time.Second, nil)
	if _, err := c.ComputeMatch(context.Background(), "guitar", "teaching"); err == nil {
		t.Fatalf("expected error for intent passed as mode")
	}
}

func TestWarmUp_SwallowsFailures(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", 200*time.Millisecond, nil)
	// Must not panic or block beyond the client timeout.
	c.WarmUp(context.Background())
}

type testWriter struct{ t *testing.T }

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Log(string(p))
	return len(p), nil
}
