package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/learnhub-io/learnhub-be/internal/auth"
	"github.com/learnhub-io/learnhub-be/internal/http/respond"
	"github.com/learnhub-io/learnhub-be/internal/models"
	"github.com/learnhub-io/learnhub-be/internal/storage"
)

const bearerPrefix = "Bearer "

// unauthenticatedMsg is deliberately the same for a missing header, a
// malformed header, a forged token, and an expired one.
const unauthenticatedMsg = "invalid or expired token"

type contextKey struct{}

var identityKey contextKey

// Identity is the authenticated caller attached to the request context.
type Identity struct {
	Subject int64
	Role    string
}

// IdentityFrom extracts the caller identity attached by Authenticate.
func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok
}

// OwnerLookup resolves the owning account of a protected resource. A missing
// resource is reported as storage.ErrNotFound.
type OwnerLookup func(ctx context.Context, resourceID int64) (int64, error)

// Auth provides the authentication and authorization middleware. Route
// definitions compose the policies; Authenticate must wrap them all.
type Auth struct {
	tokens *auth.TokenManager
	logger *slog.Logger
}

// NewAuth constructs the middleware around a token manager.
func NewAuth(tokens *auth.TokenManager, logger *slog.Logger) *Auth {
	return &Auth{tokens: tokens, logger: logger}
}

// Authenticate verifies the bearer token and attaches the caller identity to
// the request context. Rejection causes are logged but never surfaced to the
// client individually.
func (a *Auth) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, bearerPrefix) {
			respond.Error(w, http.StatusUnauthorized, unauthenticatedMsg)
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
		if token == "" {
			respond.Error(w, http.StatusUnauthorized, unauthenticatedMsg)
			return
		}

		principal, err := a.tokens.Verify(token)
		if err != nil {
			a.logger.Debug("token rejected", "path", r.URL.Path, "error", err)
			respond.Error(w, http.StatusUnauthorized, unauthenticatedMsg)
			return
		}

		identity := Identity{Subject: principal.AccountID, Role: principal.Role}
		ctx := context.WithValue(r.Context(), identityKey, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole allows only callers whose attached role matches. It must run
// inside Authenticate.
func (a *Auth) RequireRole(role string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFrom(r.Context())
		if !ok {
			respond.Error(w, http.StatusUnauthorized, unauthenticatedMsg)
			return
		}
		if identity.Role != role {
			respond.Error(w, http.StatusForbidden, "insufficient permissions")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireOwner allows the owner of the addressed resource, or any admin. The
// resource id is read from the named path parameter. A malformed id is
// rejected before the lookup runs; a missing resource yields 404 rather than
// a forbidden/allowed decision; a failing lookup is never treated as allow.
func (a *Auth) RequireOwner(pathParam string, lookup OwnerLookup, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFrom(r.Context())
		if !ok {
			respond.Error(w, http.StatusUnauthorized, unauthenticatedMsg)
			return
		}
		if identity.Role == models.RoleAdmin {
			next.ServeHTTP(w, r)
			return
		}

		resourceID, err := strconv.ParseInt(r.PathValue(pathParam), 10, 64)
		if err != nil {
			respond.Error(w, http.StatusBadRequest, "invalid resource identifier")
			return
		}

		ownerID, err := lookup(r.Context(), resourceID)
		switch {
		case errors.Is(err, storage.ErrNotFound):
			respond.Error(w, http.StatusNotFound, "resource not found")
			return
		case err != nil:
			a.logger.Error("ownership lookup failed", "path", r.URL.Path, "resource_id", resourceID, "error", err)
			respond.Error(w, http.StatusInternalServerError, "internal server error")
			return
		}

		if ownerID != identity.Subject {
			respond.Error(w, http.StatusForbidden, "you do not have access to this resource")
			return
		}
		next.ServeHTTP(w, r)
	})
}
