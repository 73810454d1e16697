package handlers

import (
	"log/slog"
	"net/http"

	"github.com/learnhub-io/learnhub-be/internal/http/respond"
	"github.com/learnhub-io/learnhub-be/internal/middleware"
	"github.com/learnhub-io/learnhub-be/internal/models"
	"github.com/learnhub-io/learnhub-be/internal/storage"
)

// AdminHandler owns the role-gated administrative endpoints.
type AdminHandler struct {
	store  storage.AccountStore
	logger *slog.Logger
}

// NewAdminHandler constructs the handler.
func NewAdminHandler(store storage.AccountStore, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{store: store, logger: logger}
}

// Register attaches admin routes to the mux behind the role policy.
func (h *AdminHandler) Register(mux *http.ServeMux, mw *middleware.Auth) {
	mux.Handle("GET /admin/accounts", mw.Authenticate(mw.RequireRole(models.RoleAdmin, http.HandlerFunc(h.handleListAccounts))))
}

func (h *AdminHandler) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.store.ListAccounts(r.Context())
	if err != nil {
		h.logger.Error("list accounts failed", "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to list accounts")
		return
	}
	if accounts == nil {
		accounts = []models.Account{}
	}
	respond.JSON(w, http.StatusOK, "ok", accounts)
}
