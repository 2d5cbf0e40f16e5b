package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/warp/leave-engine/leave"
)

// =============================================================================
// USERS
// =============================================================================

// User is an account record. PasswordHash is a bcrypt hash and never leaves
// the api layer.
type User struct {
	ID             int
	Names          string
	Email          string
	Phone          string
	DepartmentID   int
	DepartmentName string
	Role           leave.Role
	Status         int
	PasswordHash   string
	LastLogin      string
	CreatedAt      time.Time
}

// ErrDuplicateEmail is returned when registering an email that already exists.
var ErrDuplicateEmail = errors.New("email already registered")

func (s *Store) CreateUser(ctx context.Context, u User) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var exists int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE email = ?`, u.Email).Scan(&exists); err != nil {
		return nil, err
	}
	if exists > 0 {
		return nil, ErrDuplicateEmail
	}

	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO users (names, email, phone, department_id, department_name,
			role, status, password_hash, last_login, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, '', ?)`,
		u.Names, u.Email, u.Phone, u.DepartmentID, u.DepartmentName,
		string(u.Role), u.Status, u.PasswordHash, now.Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	u.ID = int(id)
	u.CreatedAt = now
	return &u, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	return scanUser(row)
}

func (s *Store) GetUser(ctx context.Context, id int) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

func (s *Store) ListUsers(ctx context.Context) ([]User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}
	return out, rows.Err()
}

// ListReviewers returns users allowed to approve or reject requests.
func (s *Store) ListReviewers(ctx context.Context) ([]User, error) {
	users, err := s.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	var reviewers []User
	for _, u := range users {
		if u.Role.CanReview() {
			reviewers = append(reviewers, u)
		}
	}
	return reviewers, nil
}

// TouchLastLogin records a successful login.
func (s *Store) TouchLastLogin(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`UPDATE users SET last_login = ? WHERE id = ?`,
		time.Now().UTC().Format(time.RFC3339), id)
	return err
}

const userColumns = `id, names, email, phone, department_id, department_name,
	role, status, password_hash, last_login, created_at`

func scanUser(row rowScanner) (*User, error) {
	var (
		u         User
		role      string
		createdAt string
	)
	err := row.Scan(&u.ID, &u.Names, &u.Email, &u.Phone, &u.DepartmentID,
		&u.DepartmentName, &role, &u.Status, &u.PasswordHash, &u.LastLogin, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, leave.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	u.Role = leave.Role(role)
	u.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &u, nil
}
