package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func corsProbe(t *testing.T, origins []string, method, origin string) *httptest.ResponseRecorder {
	t.Helper()
	handler := CORS(origins, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	req := httptest.NewRequest(method, "/courses", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestCORS_WildcardOriginWithoutCredentials(t *testing.T) {
	t.Parallel()

	rec := corsProbe(t, []string{"*"}, http.MethodGet, "https://app.example.com")
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Credentials"),
		"wildcard origin must not advertise credentials")
	assert.Equal(t, corsMethods, rec.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, corsHeaders, rec.Header().Get("Access-Control-Allow-Headers"))
}

func TestCORS_ListedOriginEchoedWithCredentials(t *testing.T) {
	t.Parallel()

	origins := []string{"https://app.example.com"}
	rec := corsProbe(t, origins, http.MethodGet, "https://APP.example.com")
	assert.Equal(t, "https://APP.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
}

func TestCORS_UnlistedOriginGetsNoAllowHeaders(t *testing.T) {
	t.Parallel()

	origins := []string{"https://app.example.com"}
	rec := corsProbe(t, origins, http.MethodGet, "https://evil.example.com")
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Credentials"))
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, http.StatusOK, rec.Code, "the request itself still reaches the handler")
}

func TestCORS_PreflightShortCircuits(t *testing.T) {
	t.Parallel()

	rec := corsProbe(t, []string{"*"}, http.MethodOptions, "https://app.example.com")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
