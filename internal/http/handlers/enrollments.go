package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/learnhub-io/learnhub-be/internal/http/respond"
	"github.com/learnhub-io/learnhub-be/internal/middleware"
	"github.com/learnhub-io/learnhub-be/internal/models"
	"github.com/learnhub-io/learnhub-be/internal/storage"
)

// EnrollmentHandler owns enrollment endpoints. Enrolling is open to any
// authenticated account; dropping an enrollment requires owning it.
type EnrollmentHandler struct {
	store  storage.EnrollmentStore
	logger *slog.Logger
}

// NewEnrollmentHandler constructs the handler.
func NewEnrollmentHandler(store storage.EnrollmentStore, logger *slog.Logger) *EnrollmentHandler {
	return &EnrollmentHandler{store: store, logger: logger}
}

// Register attaches enrollment routes to the mux.
func (h *EnrollmentHandler) Register(mux *http.ServeMux, mw *middleware.Auth) {
	mux.Handle("POST /courses/{id}/enroll", mw.Authenticate(http.HandlerFunc(h.handleEnroll)))
	mux.Handle("DELETE /enrollments/{id}", mw.Authenticate(mw.RequireOwner("id", h.store.EnrollmentOwner, http.HandlerFunc(h.handleDrop))))
}

func (h *EnrollmentHandler) handleEnroll(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "invalid or expired token")
		return
	}
	courseID, err := pathID(r, "id")
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid course identifier")
		return
	}

	enrollment := models.Enrollment{CourseID: courseID, AccountID: identity.Subject}
	created, err := h.store.CreateEnrollment(r.Context(), enrollment)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound):
			respond.Error(w, http.StatusNotFound, "course not found")
		case errors.Is(err, storage.ErrAlreadyExists):
			respond.Error(w, http.StatusConflict, "already enrolled in this course")
		default:
			h.logger.Error("create enrollment failed", "course_id", courseID, "error", err)
			respond.Error(w, http.StatusInternalServerError, "failed to enroll")
		}
		return
	}
	respond.JSON(w, http.StatusCreated, "enrolled", created)
}

func (h *EnrollmentHandler) handleDrop(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid enrollment identifier")
		return
	}
	if err := h.store.DeleteEnrollment(r.Context(), id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "enrollment not found")
			return
		}
		h.logger.Error("delete enrollment failed", "enrollment_id", id, "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to drop enrollment")
		return
	}
	respond.JSON(w, http.StatusOK, "enrollment dropped", nil)
}
