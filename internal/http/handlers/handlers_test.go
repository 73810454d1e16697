package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/learnhub-io/learnhub-be/internal/auth"
	"github.com/learnhub-io/learnhub-be/internal/http/respond"
	"github.com/learnhub-io/learnhub-be/internal/middleware"
	"github.com/learnhub-io/learnhub-be/internal/storage/memory"
)

// testEnv wires the full handler surface against the in-memory store, the
// same way internal/server does against Postgres.
type testEnv struct {
	store  *memory.Store
	tokens *auth.TokenManager
	mux    *http.ServeMux
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memory.New()
	tokens := auth.NewTokenManager("test-secret", "learnhub-test", time.Hour)
	hasher := auth.NewPasswordHasher(bcrypt.MinCost)
	mw := middleware.NewAuth(tokens, logger)

	mux := http.NewServeMux()
	NewHealthHandler(time.Now()).Register(mux)
	NewAuthHandler(store, tokens, hasher, logger).Register(mux, mw)
	NewCourseHandler(store, logger).Register(mux, mw)
	NewEnrollmentHandler(store, logger).Register(mux, mw)
	NewAdminHandler(store, logger).Register(mux, mw)

	return &testEnv{store: store, tokens: tokens, mux: mux}
}

// do issues a request against the mux and decodes the response envelope.
func (e *testEnv) do(t *testing.T, method, path, token string, body any) (int, respond.Envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.mux.ServeHTTP(rec, req)

	var envelope respond.Envelope
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&envelope))
	return rec.Code, envelope
}

// register creates an account through the API and returns its token and id.
func (e *testEnv) register(t *testing.T, name, email, password string) (string, int64) {
	t.Helper()
	status, envelope := e.do(t, http.MethodPost, "/register", "", map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusCreated, status)
	require.True(t, envelope.Success)

	data := dataMap(t, envelope)
	token, _ := data["token"].(string)
	require.NotEmpty(t, token)
	account := childMap(t, data, "account")
	return token, int64(account["id"].(float64))
}

func dataMap(t *testing.T, envelope respond.Envelope) map[string]any {
	t.Helper()
	data, ok := envelope.Data.(map[string]any)
	require.True(t, ok, "envelope data is %T", envelope.Data)
	return data
}

func childMap(t *testing.T, parent map[string]any, key string) map[string]any {
	t.Helper()
	child, ok := parent[key].(map[string]any)
	require.True(t, ok, "%s is %T", key, parent[key])
	return child
}
