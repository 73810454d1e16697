package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/learnhub-io/learnhub-be/internal/http/respond"
	"github.com/learnhub-io/learnhub-be/internal/middleware"
	"github.com/learnhub-io/learnhub-be/internal/models"
	"github.com/learnhub-io/learnhub-be/internal/models/dto"
	"github.com/learnhub-io/learnhub-be/internal/storage"
)

// CourseHandler owns the course catalog endpoints. Catalog reads are public;
// creation requires authentication; mutation requires ownership (or admin).
type CourseHandler struct {
	store  storage.CourseStore
	logger *slog.Logger
}

// NewCourseHandler constructs the handler.
func NewCourseHandler(store storage.CourseStore, logger *slog.Logger) *CourseHandler {
	return &CourseHandler{store: store, logger: logger}
}

// Register attaches course routes to the mux. The ownership policy consults
// the store's CourseOwner lookup.
func (h *CourseHandler) Register(mux *http.ServeMux, mw *middleware.Auth) {
	mux.HandleFunc("GET /courses", h.handleList)
	mux.HandleFunc("GET /courses/{id}", h.handleGet)
	mux.Handle("POST /courses", mw.Authenticate(http.HandlerFunc(h.handleCreate)))
	mux.Handle("PUT /courses/{id}", mw.Authenticate(mw.RequireOwner("id", h.store.CourseOwner, http.HandlerFunc(h.handleUpdate))))
	mux.Handle("DELETE /courses/{id}", mw.Authenticate(mw.RequireOwner("id", h.store.CourseOwner, http.HandlerFunc(h.handleDelete))))
}

func (h *CourseHandler) handleList(w http.ResponseWriter, r *http.Request) {
	courses, err := h.store.ListCourses(r.Context())
	if err != nil {
		h.logger.Error("list courses failed", "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to list courses")
		return
	}
	if courses == nil {
		courses = []models.Course{}
	}
	respond.JSON(w, http.StatusOK, "ok", courses)
}

func (h *CourseHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid course identifier")
		return
	}
	course, err := h.store.CourseByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "course not found")
			return
		}
		h.logger.Error("fetch course failed", "course_id", id, "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to fetch course")
		return
	}
	respond.JSON(w, http.StatusOK, "ok", course)
}

func (h *CourseHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "invalid or expired token")
		return
	}
	var req dto.CreateCourseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		respond.Error(w, http.StatusBadRequest, "title is required")
		return
	}

	course := models.Course{
		Title:       title,
		Description: strings.TrimSpace(req.Description),
		OwnerID:     identity.Subject,
	}
	created, err := h.store.CreateCourse(r.Context(), course)
	if err != nil {
		h.logger.Error("create course failed", "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to create course")
		return
	}
	respond.JSON(w, http.StatusCreated, "course created", created)
}

func (h *CourseHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid course identifier")
		return
	}
	var req dto.UpdateCourseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	patch := storage.CoursePatch{Description: req.Description}
	if req.Title != nil {
		trimmed := strings.TrimSpace(*req.Title)
		if trimmed == "" {
			respond.Error(w, http.StatusBadRequest, "title must not be empty")
			return
		}
		patch.Title = &trimmed
	}

	updated, err := h.store.UpdateCourse(r.Context(), id, patch)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "course not found")
			return
		}
		h.logger.Error("update course failed", "course_id", id, "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to update course")
		return
	}
	respond.JSON(w, http.StatusOK, "course updated", updated)
}

func (h *CourseHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid course identifier")
		return
	}
	if err := h.store.DeleteCourse(r.Context(), id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "course not found")
			return
		}
		h.logger.Error("delete course failed", "course_id", id, "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to delete course")
		return
	}
	respond.JSON(w, http.StatusOK, "course deleted", nil)
}

func pathID(r *http.Request, param string) (int64, error) {
	return strconv.ParseInt(r.PathValue(param), 10, 64)
}
