package storage

import (
	"context"
	"errors"

	"github.com/learnhub-io/learnhub-be/internal/models"
)

// ErrNotFound indicates a record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists indicates a uniqueness conflict.
var ErrAlreadyExists = errors.New("record already exists")

// AccountPatch is the closed set of mutable profile fields. A nil slot means
// "leave unchanged"; there is no dynamic field enumeration. Password changes
// go through UpdatePassword, never through a patch.
type AccountPatch struct {
	Name *string
}

// CoursePatch is the closed set of mutable course fields.
type CoursePatch struct {
	Title       *string
	Description *string
}

// AccountStore captures persistence operations for accounts.
type AccountStore interface {
	CreateAccount(ctx context.Context, account models.Account) (models.Account, error)
	AccountByID(ctx context.Context, id int64) (models.Account, error)
	AccountByEmail(ctx context.Context, email string) (models.Account, error)
	UpdateAccount(ctx context.Context, id int64, patch AccountPatch) (models.Account, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	ListAccounts(ctx context.Context) ([]models.Account, error)
}

// CourseStore captures persistence operations for courses. CourseOwner is the
// ownership-lookup collaborator consumed by the access-control middleware.
type CourseStore interface {
	CreateCourse(ctx context.Context, course models.Course) (models.Course, error)
	CourseByID(ctx context.Context, id int64) (models.Course, error)
	ListCourses(ctx context.Context) ([]models.Course, error)
	UpdateCourse(ctx context.Context, id int64, patch CoursePatch) (models.Course, error)
	DeleteCourse(ctx context.Context, id int64) error
	CourseOwner(ctx context.Context, id int64) (int64, error)
}

// EnrollmentStore captures persistence operations for enrollments.
type EnrollmentStore interface {
	CreateEnrollment(ctx context.Context, enrollment models.Enrollment) (models.Enrollment, error)
	DeleteEnrollment(ctx context.Context, id int64) error
	EnrollmentOwner(ctx context.Context, id int64) (int64, error)
}

// Store aggregates all persistence concerns behind one value for wiring.
type Store interface {
	AccountStore
	CourseStore
	EnrollmentStore
}
