package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/learnhub-io/learnhub-be/internal/models"
	"github.com/learnhub-io/learnhub-be/internal/storage"
)

// Ensure Store satisfies the storage.Store interface at compile time.
var _ storage.Store = (*Store)(nil)

const uniqueViolation = "23505"

// Store provides Postgres-backed persistence for accounts, courses, and
// enrollments.
type Store struct {
	pool *pgxpool.Pool
}

// New creates a new Store and runs migrations.
func New(ctx context.Context, databaseURL string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	s := &Store{pool: pool}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return s, nil
}

// Close releases database resources.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *Store) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS accounts (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT UNIQUE NOT NULL,
			password_hash TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT 'student',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE TABLE IF NOT EXISTS courses (
			id BIGSERIAL PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			owner_id BIGINT NOT NULL REFERENCES accounts(id),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE INDEX IF NOT EXISTS courses_owner_idx ON courses (owner_id);`,
		`CREATE TABLE IF NOT EXISTS enrollments (
			id BIGSERIAL PRIMARY KEY,
			course_id BIGINT NOT NULL REFERENCES courses(id) ON DELETE CASCADE,
			account_id BIGINT NOT NULL REFERENCES accounts(id),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (course_id, account_id)
		);`,
	}
	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
	}
	return nil
}

// CreateAccount inserts a new account row.
func (s *Store) CreateAccount(ctx context.Context, account models.Account) (models.Account, error) {
	const query = `
	INSERT INTO accounts (name, email, password_hash, role)
	VALUES ($1, $2, $3, $4)
	RETURNING id, name, email, password_hash, role, created_at;
	`
	row := s.pool.QueryRow(ctx, query, account.Name, account.Email, account.PasswordHash, account.Role)
	created, err := scanAccount(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return models.Account{}, storage.ErrAlreadyExists
		}
		return models.Account{}, err
	}
	return created, nil
}

// AccountByID fetches an account by identifier.
func (s *Store) AccountByID(ctx context.Context, id int64) (models.Account, error) {
	const query = `
	SELECT id, name, email, password_hash, role, created_at
	FROM accounts WHERE id = $1;
	`
	return scanAccount(s.pool.QueryRow(ctx, query, id))
}

// AccountByEmail fetches an account by its login identifier. The lookup is
// case-sensitive by design.
func (s *Store) AccountByEmail(ctx context.Context, email string) (models.Account, error) {
	const query = `
	SELECT id, name, email, password_hash, role, created_at
	FROM accounts WHERE email = $1;
	`
	return scanAccount(s.pool.QueryRow(ctx, query, email))
}

// UpdateAccount applies the closed patch set to an account row. Each optional
// slot maps to a fixed statement; no SET clause is assembled dynamically.
func (s *Store) UpdateAccount(ctx context.Context, id int64, patch storage.AccountPatch) (models.Account, error) {
	if patch.Name == nil {
		return s.AccountByID(ctx, id)
	}
	const query = `
	UPDATE accounts SET name = $1 WHERE id = $2
	RETURNING id, name, email, password_hash, role, created_at;
	`
	return scanAccount(s.pool.QueryRow(ctx, query, *patch.Name, id))
}

// UpdatePassword replaces the stored password hash.
func (s *Store) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	tag, err := s.pool.Exec(ctx, `UPDATE accounts SET password_hash = $1 WHERE id = $2;`, passwordHash, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// ListAccounts returns all accounts ordered by identifier.
func (s *Store) ListAccounts(ctx context.Context) ([]models.Account, error) {
	const query = `
	SELECT id, name, email, password_hash, role, created_at
	FROM accounts ORDER BY id;
	`
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, account)
	}
	return out, rows.Err()
}

// CreateCourse inserts a new course row.
func (s *Store) CreateCourse(ctx context.Context, course models.Course) (models.Course, error) {
	const query = `
	INSERT INTO courses (title, description, owner_id)
	VALUES ($1, $2, $3)
	RETURNING id, title, description, owner_id, created_at;
	`
	row := s.pool.QueryRow(ctx, query, course.Title, course.Description, course.OwnerID)
	return scanCourse(row)
}

// CourseByID fetches a course by identifier.
func (s *Store) CourseByID(ctx context.Context, id int64) (models.Course, error) {
	const query = `
	SELECT id, title, description, owner_id, created_at
	FROM courses WHERE id = $1;
	`
	return scanCourse(s.pool.QueryRow(ctx, query, id))
}

// ListCourses returns all courses ordered by identifier.
func (s *Store) ListCourses(ctx context.Context) ([]models.Course, error) {
	const query = `
	SELECT id, title, description, owner_id, created_at
	FROM courses ORDER BY id;
	`
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Course
	for rows.Next() {
		course, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, course)
	}
	return out, rows.Err()
}

// UpdateCourse applies the closed patch set to a course row.
func (s *Store) UpdateCourse(ctx context.Context, id int64, patch storage.CoursePatch) (models.Course, error) {
	const query = `
	UPDATE courses
	SET title = COALESCE($1, title), description = COALESCE($2, description)
	WHERE id = $3
	RETURNING id, title, description, owner_id, created_at;
	`
	return scanCourse(s.pool.QueryRow(ctx, query, patch.Title, patch.Description, id))
}

// DeleteCourse removes a course row; enrollments cascade.
func (s *Store) DeleteCourse(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM courses WHERE id = $1;`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// CourseOwner resolves the owning account of a course.
func (s *Store) CourseOwner(ctx context.Context, id int64) (int64, error) {
	var ownerID int64
	err := s.pool.QueryRow(ctx, `SELECT owner_id FROM courses WHERE id = $1;`, id).Scan(&ownerID)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, storage.ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	return ownerID, nil
}

// CreateEnrollment inserts a new enrollment row.
func (s *Store) CreateEnrollment(ctx context.Context, enrollment models.Enrollment) (models.Enrollment, error) {
	const query = `
	INSERT INTO enrollments (course_id, account_id)
	VALUES ($1, $2)
	RETURNING id, course_id, account_id, created_at;
	`
	row := s.pool.QueryRow(ctx, query, enrollment.CourseID, enrollment.AccountID)
	var created models.Enrollment
	err := row.Scan(&created.ID, &created.CourseID, &created.AccountID, &created.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case uniqueViolation:
				return models.Enrollment{}, storage.ErrAlreadyExists
			case "23503": // course or account no longer exists
				return models.Enrollment{}, storage.ErrNotFound
			}
		}
		return models.Enrollment{}, err
	}
	return created, nil
}

// DeleteEnrollment removes an enrollment row.
func (s *Store) DeleteEnrollment(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM enrollments WHERE id = $1;`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// EnrollmentOwner resolves the enrolled account for an enrollment.
func (s *Store) EnrollmentOwner(ctx context.Context, id int64) (int64, error) {
	var accountID int64
	err := s.pool.QueryRow(ctx, `SELECT account_id FROM enrollments WHERE id = $1;`, id).Scan(&accountID)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, storage.ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	return accountID, nil
}

func scanAccount(row pgx.Row) (models.Account, error) {
	var account models.Account
	if err := row.Scan(&account.ID, &account.Name, &account.Email, &account.PasswordHash, &account.Role, &account.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Account{}, storage.ErrNotFound
		}
		return models.Account{}, err
	}
	return account, nil
}

func scanCourse(row pgx.Row) (models.Course, error) {
	var course models.Course
	if err := row.Scan(&course.ID, &course.Title, &course.Description, &course.OwnerID, &course.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Course{}, storage.ErrNotFound
		}
		return models.Course{}, err
	}
	return course, nil
}
