package postgres

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/learnhub-io/learnhub-be/internal/models"
	"github.com/learnhub-io/learnhub-be/internal/storage"
)

// TestStoreIntegration exercises the Postgres store against a live database.
func TestStoreIntegration(t *testing.T) {
	if os.Getenv("RUN_INTEGRATION") != "true" {
		t.Skip("set RUN_INTEGRATION=true to run this integration test")
	}

	for _, path := range []string{".env", "../../../.env"} {
		_ = godotenv.Overload(path)
	}
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Fatal("DATABASE_URL is required")
	}

	ctx := context.Background()
	store, err := New(ctx, dbURL)
	require.NoError(t, err)
	defer store.Close()

	suffix := time.Now().UnixNano()
	email := fmt.Sprintf("itest_%d@example.com", suffix)

	account, err := store.CreateAccount(ctx, models.Account{
		Name:         "Integration Tester",
		Email:        email,
		PasswordHash: "$2a$10$placeholderplaceholderplaceholde",
		Role:         models.RoleStudent,
	})
	require.NoError(t, err)
	require.NotZero(t, account.ID)

	_, err = store.CreateAccount(ctx, models.Account{
		Name: "Duplicate", Email: email, PasswordHash: "x", Role: models.RoleStudent,
	})
	assert.ErrorIs(t, err, storage.ErrAlreadyExists)

	byEmail, err := store.AccountByEmail(ctx, email)
	require.NoError(t, err)
	assert.Equal(t, account.ID, byEmail.ID)

	course, err := store.CreateCourse(ctx, models.Course{
		Title: fmt.Sprintf("Course %d", suffix), Description: "integration", OwnerID: account.ID,
	})
	require.NoError(t, err)

	ownerID, err := store.CourseOwner(ctx, course.ID)
	require.NoError(t, err)
	assert.Equal(t, account.ID, ownerID)

	title := "Renamed Course"
	updated, err := store.UpdateCourse(ctx, course.ID, storage.CoursePatch{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, title, updated.Title)
	assert.Equal(t, "integration", updated.Description)

	enrollment, err := store.CreateEnrollment(ctx, models.Enrollment{CourseID: course.ID, AccountID: account.ID})
	require.NoError(t, err)
	_, err = store.CreateEnrollment(ctx, models.Enrollment{CourseID: course.ID, AccountID: account.ID})
	assert.ErrorIs(t, err, storage.ErrAlreadyExists)

	enrollee, err := store.EnrollmentOwner(ctx, enrollment.ID)
	require.NoError(t, err)
	assert.Equal(t, account.ID, enrollee)

	require.NoError(t, store.DeleteCourse(ctx, course.ID))
	_, err = store.CourseOwner(ctx, course.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = store.EnrollmentOwner(ctx, enrollment.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound, "enrollments cascade with their course")
}
