// Package memory provides an in-memory storage.Store used by tests and local
// development without a database.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/learnhub-io/learnhub-be/internal/models"
	"github.com/learnhub-io/learnhub-be/internal/storage"
)

var _ storage.Store = (*Store)(nil)

// Store keeps all records in maps guarded by one mutex.
type Store struct {
	mu          sync.Mutex
	accounts    map[int64]models.Account
	courses     map[int64]models.Course
	enrollments map[int64]models.Enrollment
	nextID      int64
}

// New returns an empty store.
func New() *Store {
	return &Store{
		accounts:    make(map[int64]models.Account),
		courses:     make(map[int64]models.Course),
		enrollments: make(map[int64]models.Enrollment),
	}
}

func (s *Store) allocID() int64 {
	s.nextID++
	return s.nextID
}

// CreateAccount inserts an account, enforcing email uniqueness.
func (s *Store) CreateAccount(ctx context.Context, account models.Account) (models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.accounts {
		if existing.Email == account.Email {
			return models.Account{}, storage.ErrAlreadyExists
		}
	}
	account.ID = s.allocID()
	account.CreatedAt = time.Now()
	s.accounts[account.ID] = account
	return account, nil
}

// AccountByID fetches an account by identifier.
func (s *Store) AccountByID(ctx context.Context, id int64) (models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	account, ok := s.accounts[id]
	if !ok {
		return models.Account{}, storage.ErrNotFound
	}
	return account, nil
}

// AccountByEmail fetches an account by its login identifier (case-sensitive).
func (s *Store) AccountByEmail(ctx context.Context, email string) (models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, account := range s.accounts {
		if account.Email == email {
			return account, nil
		}
	}
	return models.Account{}, storage.ErrNotFound
}

// UpdateAccount applies the closed patch set to an account.
func (s *Store) UpdateAccount(ctx context.Context, id int64, patch storage.AccountPatch) (models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	account, ok := s.accounts[id]
	if !ok {
		return models.Account{}, storage.ErrNotFound
	}
	if patch.Name != nil {
		account.Name = *patch.Name
	}
	s.accounts[id] = account
	return account, nil
}

// UpdatePassword replaces the stored password hash.
func (s *Store) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	account, ok := s.accounts[id]
	if !ok {
		return storage.ErrNotFound
	}
	account.PasswordHash = passwordHash
	s.accounts[id] = account
	return nil
}

// ListAccounts returns all accounts ordered by identifier.
func (s *Store) ListAccounts(ctx context.Context) ([]models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Account, 0, len(s.accounts))
	for _, account := range s.accounts {
		out = append(out, account)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// CreateCourse inserts a course.
func (s *Store) CreateCourse(ctx context.Context, course models.Course) (models.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	course.ID = s.allocID()
	course.CreatedAt = time.Now()
	s.courses[course.ID] = course
	return course, nil
}

// CourseByID fetches a course by identifier.
func (s *Store) CourseByID(ctx context.Context, id int64) (models.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	course, ok := s.courses[id]
	if !ok {
		return models.Course{}, storage.ErrNotFound
	}
	return course, nil
}

// ListCourses returns all courses ordered by identifier.
func (s *Store) ListCourses(ctx context.Context) ([]models.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Course, 0, len(s.courses))
	for _, course := range s.courses {
		out = append(out, course)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// UpdateCourse applies the closed patch set to a course.
func (s *Store) UpdateCourse(ctx context.Context, id int64, patch storage.CoursePatch) (models.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	course, ok := s.courses[id]
	if !ok {
		return models.Course{}, storage.ErrNotFound
	}
	if patch.Title != nil {
		course.Title = *patch.Title
	}
	if patch.Description != nil {
		course.Description = *patch.Description
	}
	s.courses[id] = course
	return course, nil
}

// DeleteCourse removes a course and its enrollments.
func (s *Store) DeleteCourse(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.courses[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.courses, id)
	for eid, enrollment := range s.enrollments {
		if enrollment.CourseID == id {
			delete(s.enrollments, eid)
		}
	}
	return nil
}

// CourseOwner resolves the owning account of a course.
func (s *Store) CourseOwner(ctx context.Context, id int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	course, ok := s.courses[id]
	if !ok {
		return 0, storage.ErrNotFound
	}
	return course.OwnerID, nil
}

// CreateEnrollment inserts an enrollment, enforcing one per account per course.
func (s *Store) CreateEnrollment(ctx context.Context, enrollment models.Enrollment) (models.Enrollment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.courses[enrollment.CourseID]; !ok {
		return models.Enrollment{}, storage.ErrNotFound
	}
	for _, existing := range s.enrollments {
		if existing.CourseID == enrollment.CourseID && existing.AccountID == enrollment.AccountID {
			return models.Enrollment{}, storage.ErrAlreadyExists
		}
	}
	enrollment.ID = s.allocID()
	enrollment.CreatedAt = time.Now()
	s.enrollments[enrollment.ID] = enrollment
	return enrollment, nil
}

// DeleteEnrollment removes an enrollment.
func (s *Store) DeleteEnrollment(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.enrollments[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.enrollments, id)
	return nil
}

// EnrollmentOwner resolves the enrolled account for an enrollment.
func (s *Store) EnrollmentOwner(ctx context.Context, id int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	enrollment, ok := s.enrollments[id]
	if !ok {
		return 0, storage.ErrNotFound
	}
	return enrollment.AccountID, nil
}
