// Package helpers hosts the stub habit backend the integration tests talk
// to. It confirms mutations the way the real server does (assigns an id,
// clears the pending flag, echoes the client id) without modeling any
// business rules, and can be told to fail the next mutation so rollback
// paths get exercised.
package helpers

import (
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
)

const jwtSecret = "stub-backend-secret"

type StubBackend struct {
	Server *httptest.Server

	mu        sync.Mutex
	failNext  bool
	responses map[string]any
	Mutations int
}

func NewStubBackend() *StubBackend {
	b := &StubBackend{responses: make(map[string]any)}

	r := mux.NewRouter()
	r.HandleFunc("/health", b.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/api/auth/login", b.handleLogin).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/me", b.handleSeeded).Methods(http.MethodGet)

	r.HandleFunc("/api/goals", b.handleSeeded).Methods(http.MethodGet)
	r.HandleFunc("/api/goals", b.handleConfirm).Methods(http.MethodPost)
	r.HandleFunc("/api/goals/{id}", b.handleSeeded).Methods(http.MethodGet)
	r.HandleFunc("/api/goals/{id}", b.handleDelete).Methods(http.MethodDelete)
	r.HandleFunc("/api/goals/{id}/status", b.handleConfirm).Methods(http.MethodPut)
	r.HandleFunc("/api/goals/{id}/tracking/{type}/logs", b.handleSeeded).Methods(http.MethodGet)
	r.HandleFunc("/api/goals/{id}/tracking/{type}/logs", b.handleConfirm).Methods(http.MethodPost)
	r.HandleFunc("/api/goals/{id}/tracking/{type}/stats", b.handleSeeded).Methods(http.MethodGet)

	r.HandleFunc("/api/check-ins", b.handleSeeded).Methods(http.MethodGet)
	r.HandleFunc("/api/check-ins", b.handleConfirm).Methods(http.MethodPost)
	r.HandleFunc("/api/check-ins/today", b.handleSeeded).Methods(http.MethodGet)

	r.HandleFunc("/api/challenges", b.handleSeeded).Methods(http.MethodGet)
	r.HandleFunc("/api/challenges/memberships", b.handleSeeded).Methods(http.MethodGet)
	r.HandleFunc("/api/challenges/{id}", b.handleSeeded).Methods(http.MethodGet)
	r.HandleFunc("/api/challenges/{id}/join", b.handleConfirm).Methods(http.MethodPost)
	r.HandleFunc("/api/challenges/{id}/membership", b.handleDelete).Methods(http.MethodDelete)

	r.HandleFunc("/api/dashboard/home", b.handleSeeded).Methods(http.MethodGet)
	r.HandleFunc("/api/entities/{id}/streak", b.handleSeeded).Methods(http.MethodGet)
	r.HandleFunc("/api/entities/{id}/week-progress", b.handleSeeded).Methods(http.MethodGet)
	r.HandleFunc("/api/entities/{id}/chain", b.handleSeeded).Methods(http.MethodGet)

	r.HandleFunc("/api/partners", b.handleSeeded).Methods(http.MethodGet)
	r.HandleFunc("/api/partners", b.handleConfirm).Methods(http.MethodPost)
	r.HandleFunc("/api/partners/{id}", b.handleDelete).Methods(http.MethodDelete)
	r.HandleFunc("/api/nudges/sent", b.handleSeeded).Methods(http.MethodGet)
	r.HandleFunc("/api/nudges", b.handleConfirm).Methods(http.MethodPost)

	b.Server = httptest.NewServer(handlers.LoggingHandler(os.Stderr, r))
	return b
}

func (b *StubBackend) Close() {
	b.Server.Close()
}

// Seed installs the response for a GET path (without query string).
func (b *StubBackend) Seed(path string, payload any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.responses[path] = payload
}

// FailNextMutation makes the next POST/PUT/DELETE return a 500.
func (b *StubBackend) FailNextMutation() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failNext = true
}

func (b *StubBackend) takeFailure() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	failed := b.failNext
	b.failNext = false
	if !failed {
		b.Mutations++
	}
	return failed
}

func (b *StubBackend) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// MintToken issues a signed session token with the given lifetime.
func MintToken(ttl time.Duration) string {
	claims := jwt.MapClaims{
		"sub": uuid.New().String(),
		"exp": time.Now().Add(ttl).Unix(),
		"iat": time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(jwtSecret))
	if err != nil {
		log.Printf("Failed to sign stub token: %v", err)
		return ""
	}
	return signed
}

func (b *StubBackend) handleLogin(w http.ResponseWriter, r *http.Request) {
	if b.takeFailure() {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "injected failure"})
		return
	}

	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "email is required"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"token": MintToken(time.Hour),
		"account": map[string]any{
			"id":       uuid.New().String(),
			"email":    req.Email,
			"username": "stub-user",
		},
	})
}

// handleConfirm is the generic mutation confirmer: echo the request body,
// assign a server id when the client did not send one, and drop the pending
// and failed markers.
func (b *StubBackend) handleConfirm(w http.ResponseWriter, r *http.Request) {
	if b.takeFailure() {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "injected failure"})
		return
	}

	record := map[string]any{}
	if r.Body != nil {
		if err := json.NewDecoder(r.Body).Decode(&record); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "malformed body"})
			return
		}
	}

	if id, ok := record["id"].(string); !ok || id == "" {
		record["id"] = uuid.New().String()
	}
	delete(record, "pending")
	delete(record, "failed")
	writeJSON(w, http.StatusCreated, record)
}

func (b *StubBackend) handleDelete(w http.ResponseWriter, _ *http.Request) {
	if b.takeFailure() {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "injected failure"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (b *StubBackend) handleSeeded(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	payload, ok := b.responses[r.URL.Path]
	b.mu.Unlock()
	if !ok {
		// Unseeded collections read as empty rather than missing.
		writeJSON(w, http.StatusOK, []any{})
		return
	}
	writeJSON(w, http.StatusOK, payload)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("Failed to encode stub response: %v", err)
	}
}
