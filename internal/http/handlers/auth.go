package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/learnhub-io/learnhub-be/internal/auth"
	"github.com/learnhub-io/learnhub-be/internal/http/respond"
	"github.com/learnhub-io/learnhub-be/internal/middleware"
	"github.com/learnhub-io/learnhub-be/internal/models"
	"github.com/learnhub-io/learnhub-be/internal/models/dto"
	"github.com/learnhub-io/learnhub-be/internal/storage"
)

// AuthHandler owns the registration, login, and profile endpoints.
type AuthHandler struct {
	store  storage.AccountStore
	tokens *auth.TokenManager
	hasher auth.PasswordHasher
	logger *slog.Logger
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(store storage.AccountStore, tokens *auth.TokenManager, hasher auth.PasswordHasher, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{store: store, tokens: tokens, hasher: hasher, logger: logger}
}

// Register attaches auth and profile routes to the mux.
func (h *AuthHandler) Register(mux *http.ServeMux, mw *middleware.Auth) {
	mux.HandleFunc("POST /register", h.handleRegister)
	mux.HandleFunc("POST /login", h.handleLogin)
	mux.Handle("GET /me", mw.Authenticate(http.HandlerFunc(h.handleMe)))
	mux.Handle("PATCH /me", mw.Authenticate(http.HandlerFunc(h.handleUpdateProfile)))
	mux.Handle("POST /me/password", mw.Authenticate(http.HandlerFunc(h.handleChangePassword)))
}

func (h *AuthHandler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if err := validateRegistration(req); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	passwordHash, err := h.hasher.Hash(req.Password)
	if err != nil {
		h.logger.Error("hash password failed", "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to create account")
		return
	}

	account := models.Account{
		Name:         strings.TrimSpace(req.Name),
		Email:        strings.TrimSpace(req.Email),
		PasswordHash: passwordHash,
		Role:         models.RoleStudent,
	}
	created, err := h.store.CreateAccount(r.Context(), account)
	if err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			respond.Error(w, http.StatusConflict, "an account with this email already exists")
			return
		}
		h.logger.Error("create account failed", "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to create account")
		return
	}

	token, err := h.tokens.Issue(created.ID, created.Role)
	if err != nil {
		h.logger.Error("issue token failed", "account_id", created.ID, "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to issue token")
		return
	}
	respond.JSON(w, http.StatusCreated, "account created", dto.AuthResponse{Token: token, Account: created})
}

func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		respond.Error(w, http.StatusBadRequest, "email and password are required")
		return
	}

	// Unknown email and wrong password share one response.
	account, err := h.store.AccountByEmail(r.Context(), strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		h.logger.Error("fetch account failed", "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to fetch account")
		return
	}
	if !h.hasher.Verify(req.Password, account.PasswordHash) {
		respond.Error(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := h.tokens.Issue(account.ID, account.Role)
	if err != nil {
		h.logger.Error("issue token failed", "account_id", account.ID, "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to issue token")
		return
	}
	respond.JSON(w, http.StatusOK, "login successful", dto.AuthResponse{Token: token, Account: account})
}

func (h *AuthHandler) handleMe(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "invalid or expired token")
		return
	}
	account, err := h.store.AccountByID(r.Context(), identity.Subject)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "account not found")
			return
		}
		h.logger.Error("fetch account failed", "account_id", identity.Subject, "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to fetch account")
		return
	}
	respond.JSON(w, http.StatusOK, "ok", account)
}

func (h *AuthHandler) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "invalid or expired token")
		return
	}
	var req dto.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	patch := storage.AccountPatch{}
	if req.Name != nil {
		trimmed := strings.TrimSpace(*req.Name)
		if trimmed == "" {
			respond.Error(w, http.StatusBadRequest, "name must not be empty")
			return
		}
		patch.Name = &trimmed
	}

	updated, err := h.store.UpdateAccount(r.Context(), identity.Subject, patch)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "account not found")
			return
		}
		h.logger.Error("update account failed", "account_id", identity.Subject, "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to update account")
		return
	}
	respond.JSON(w, http.StatusOK, "profile updated", updated)
}

func (h *AuthHandler) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "invalid or expired token")
		return
	}
	var req dto.ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if err := validatePassword(req.NewPassword); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	account, err := h.store.AccountByID(r.Context(), identity.Subject)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "account not found")
			return
		}
		h.logger.Error("fetch account failed", "account_id", identity.Subject, "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to fetch account")
		return
	}
	if !h.hasher.Verify(req.CurrentPassword, account.PasswordHash) {
		respond.Error(w, http.StatusUnauthorized, "current password is incorrect")
		return
	}

	passwordHash, err := h.hasher.Hash(req.NewPassword)
	if err != nil {
		h.logger.Error("hash password failed", "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to change password")
		return
	}
	if err := h.store.UpdatePassword(r.Context(), identity.Subject, passwordHash); err != nil {
		h.logger.Error("update password failed", "account_id", identity.Subject, "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to change password")
		return
	}
	respond.JSON(w, http.StatusOK, "password changed", nil)
}

func validateRegistration(req dto.RegisterRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return errors.New("name is required")
	}
	email := strings.TrimSpace(req.Email)
	if email == "" {
		return errors.New("email is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return errors.New("email is not a valid address")
	}
	return validatePassword(req.Password)
}

// bcrypt refuses inputs longer than 72 bytes, so overlong passwords are a
// validation failure, not a hashing failure.
const maxPasswordBytes = 72

func validatePassword(password string) error {
	if len(password) < 8 || !utf8.ValidString(password) {
		return errors.New("password must be at least 8 characters")
	}
	if len(password) > maxPasswordBytes {
		return errors.New("password must be at most 72 characters")
	}
	return nil
}
