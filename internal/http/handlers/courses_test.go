package handlers

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/learnhub-io/learnhub-be/internal/models"
)

// adminToken seeds an elevated account directly in the store and issues a
// token for it.
func adminToken(t *testing.T, env *testEnv) string {
	t.Helper()
	account, err := env.store.CreateAccount(context.Background(), models.Account{
		Name:         "Site Admin",
		Email:        "admin@example.com",
		PasswordHash: "unused",
		Role:         models.RoleAdmin,
	})
	require.NoError(t, err)
	token, err := env.tokens.Issue(account.ID, account.Role)
	require.NoError(t, err)
	return token
}

func createCourse(t *testing.T, env *testEnv, token, title string) int64 {
	t.Helper()
	status, envelope := env.do(t, http.MethodPost, "/courses", token, map[string]string{
		"title":       title,
		"description": "an introduction",
	})
	require.Equal(t, http.StatusCreated, status)
	course := dataMap(t, envelope)
	return int64(course["id"].(float64))
}

func TestCourses_PublicReads(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	token, ownerID := env.register(t, "Ada", "ada@example.com", "s3cret-pass")
	courseID := createCourse(t, env, token, "Analytical Engines 101")

	status, envelope := env.do(t, http.MethodGet, "/courses", "", nil)
	require.Equal(t, http.StatusOK, status)
	list, ok := envelope.Data.([]any)
	require.True(t, ok)
	assert.Len(t, list, 1)

	status, envelope = env.do(t, http.MethodGet, fmt.Sprintf("/courses/%d", courseID), "", nil)
	require.Equal(t, http.StatusOK, status)
	course := dataMap(t, envelope)
	assert.Equal(t, "Analytical Engines 101", course["title"])
	assert.Equal(t, ownerID, int64(course["owner_id"].(float64)))

	status, _ = env.do(t, http.MethodGet, "/courses/9999", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	status, _ = env.do(t, http.MethodGet, "/courses/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestCourses_CreateRequiresAuth(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	status, _ := env.do(t, http.MethodPost, "/courses", "", map[string]string{"title": "Nope"})
	assert.Equal(t, http.StatusUnauthorized, status)

	token, _ := env.register(t, "Ada", "ada@example.com", "s3cret-pass")
	status, _ = env.do(t, http.MethodPost, "/courses", token, map[string]string{"title": "  "})
	assert.Equal(t, http.StatusBadRequest, status)
}

// TestCourses_OwnershipScenario covers the full access-control story: a
// standard account is rejected from admin routes and from resources it does
// not own, succeeds on its own, and an elevated account bypasses ownership.
func TestCourses_OwnershipScenario(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	tokenA, _ := env.register(t, "Account A", "a@x.com", "s3cret17")
	tokenB, _ := env.register(t, "Account B", "b@x.com", "s3cret27")
	courseB := createCourse(t, env, tokenB, "B's Course")
	courseA := createCourse(t, env, tokenA, "A's Course")

	// Standard role on a role-gated admin endpoint.
	status, _ := env.do(t, http.MethodGet, "/admin/accounts", tokenA, nil)
	assert.Equal(t, http.StatusForbidden, status)

	// A mutating a resource owned by B.
	status, _ = env.do(t, http.MethodPut, fmt.Sprintf("/courses/%d", courseB), tokenA, map[string]string{"title": "Hijacked"})
	assert.Equal(t, http.StatusForbidden, status)

	// A mutating its own resource.
	status, envelope := env.do(t, http.MethodPut, fmt.Sprintf("/courses/%d", courseA), tokenA, map[string]string{"title": "A's Course, 2nd ed."})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "A's Course, 2nd ed.", dataMap(t, envelope)["title"])

	// Missing resource yields 404 before any forbidden decision.
	status, _ = env.do(t, http.MethodPut, "/courses/9999", tokenA, map[string]string{"title": "X"})
	assert.Equal(t, http.StatusNotFound, status)

	// Malformed identifier yields 400.
	status, _ = env.do(t, http.MethodPut, "/courses/abc", tokenA, map[string]string{"title": "X"})
	assert.Equal(t, http.StatusBadRequest, status)

	// An elevated account mutates and deletes anyone's course.
	admin := adminToken(t, env)
	status, _ = env.do(t, http.MethodPut, fmt.Sprintf("/courses/%d", courseB), admin, map[string]string{"title": "Moderated"})
	assert.Equal(t, http.StatusOK, status)
	status, _ = env.do(t, http.MethodDelete, fmt.Sprintf("/courses/%d", courseB), admin, nil)
	assert.Equal(t, http.StatusOK, status)

	// And the admin endpoint lists every account.
	status, envelope = env.do(t, http.MethodGet, "/admin/accounts", admin, nil)
	require.Equal(t, http.StatusOK, status)
	accounts, ok := envelope.Data.([]any)
	require.True(t, ok)
	assert.Len(t, accounts, 3)
}

func TestCourses_DeleteByOwner(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	token, _ := env.register(t, "Ada", "ada@example.com", "s3cret-pass")
	courseID := createCourse(t, env, token, "Short-lived")

	status, _ := env.do(t, http.MethodDelete, fmt.Sprintf("/courses/%d", courseID), token, nil)
	require.Equal(t, http.StatusOK, status)
	status, _ = env.do(t, http.MethodGet, fmt.Sprintf("/courses/%d", courseID), "", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestEnrollments(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	tokenA, _ := env.register(t, "Account A", "a@x.com", "s3cret17")
	tokenB, idB := env.register(t, "Account B", "b@x.com", "s3cret27")
	courseA := createCourse(t, env, tokenA, "A's Course")

	// B enrolls in A's course.
	status, envelope := env.do(t, http.MethodPost, fmt.Sprintf("/courses/%d/enroll", courseA), tokenB, nil)
	require.Equal(t, http.StatusCreated, status)
	enrollment := dataMap(t, envelope)
	enrollmentID := int64(enrollment["id"].(float64))
	assert.Equal(t, idB, int64(enrollment["account_id"].(float64)))

	// Double enrollment conflicts; a missing course is 404.
	status, _ = env.do(t, http.MethodPost, fmt.Sprintf("/courses/%d/enroll", courseA), tokenB, nil)
	assert.Equal(t, http.StatusConflict, status)
	status, _ = env.do(t, http.MethodPost, "/courses/9999/enroll", tokenB, nil)
	assert.Equal(t, http.StatusNotFound, status)

	// Only the enrollee (or an admin) may drop the enrollment.
	status, _ = env.do(t, http.MethodDelete, fmt.Sprintf("/enrollments/%d", enrollmentID), tokenA, nil)
	assert.Equal(t, http.StatusForbidden, status)
	status, _ = env.do(t, http.MethodDelete, fmt.Sprintf("/enrollments/%d", enrollmentID), tokenB, nil)
	assert.Equal(t, http.StatusOK, status)
	status, _ = env.do(t, http.MethodDelete, fmt.Sprintf("/enrollments/%d", enrollmentID), tokenB, nil)
	assert.Equal(t, http.StatusNotFound, status)
}
