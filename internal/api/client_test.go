package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestDoDecodesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "goal not found"})
	}))
	defer srv.Close()

	client, err := NewClient(Config{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("failed to build client: %v", err)
	}

	err = client.Get(context.Background(), "/api/goals/missing", &struct{}{})
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("got %T, want *api.Error", err)
	}
	if apiErr.Status != http.StatusNotFound || apiErr.Message != "goal not found" {
		t.Fatalf("got %+v, want status 404 with server message", apiErr)
	}
}

func TestAuthHeaderAttached(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}))
	defer srv.Close()

	tokens := NewTokenStore("session-token")
	client, err := NewClient(Config{BaseURL: srv.URL, Tokens: tokens})
	if err != nil {
		t.Fatalf("failed to build client: %v", err)
	}

	if err := client.Ping(context.Background()); err != nil {
		t.Fatalf("ping failed: %v", err)
	}
	if gotAuth != "Bearer session-token" {
		t.Fatalf("got Authorization %q, want bearer token", gotAuth)
	}

	// Cleared token means no header, not an empty bearer.
	tokens.Clear()
	if err := client.Ping(context.Background()); err != nil {
		t.Fatalf("ping failed: %v", err)
	}
	if gotAuth != "" {
		t.Fatalf("got Authorization %q after sign-out, want none", gotAuth)
	}
}

func TestPostRoundTrip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var in map[string]any
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		in["id"] = "srv-1"
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(in)
	}))
	defer srv.Close()

	client, err := NewClient(Config{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("failed to build client: %v", err)
	}

	out := map[string]any{}
	if err := client.Post(context.Background(), "/api/goals", map[string]string{"title": "Run"}, &out); err != nil {
		t.Fatalf("post failed: %v", err)
	}
	if out["id"] != "srv-1" || out["title"] != "Run" {
		t.Fatalf("unexpected response: %v", out)
	}
}

func TestConfigFromEnvRequiresURL(t *testing.T) {
	t.Setenv("HABIT_API_URL", "")
	if _, err := ConfigFromEnv(nil); err == nil {
		t.Fatal("missing HABIT_API_URL accepted")
	}

	t.Setenv("HABIT_API_URL", "http://localhost:8080")
	cfg, err := ConfigFromEnv(nil)
	if err != nil {
		t.Fatalf("failed to build config: %v", err)
	}
	if cfg.BaseURL != "http://localhost:8080" {
		t.Fatalf("got base url %q", cfg.BaseURL)
	}
}
