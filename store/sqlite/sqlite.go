/*
Package sqlite provides the SQLite-backed implementation of leave.Store plus
user and notification persistence.

PURPOSE:
  Production storage for the leave engine. The same patterns apply to
  PostgreSQL - only minor SQL dialect differences.

KEY TABLES:
  leave_types:   Reference catalog of leave types
  leaves:        Leave requests with their lifecycle fields
  users:         Accounts (bcrypt hash, role, department)
  notifications: Per-user notification feed

ATOMIC TRANSITION:
  UpdateStatus is a single conditional UPDATE guarded by status='Pending'.
  Status, comment and operator change together or not at all; a request that
  has already left Pending yields ConflictError. This serializes concurrent
  reviewers at the database.

WAL MODE:
  SQLite is opened with WAL and foreign keys on, matching the driver options
  that behave well with one writer and many readers.

USAGE:
  store, err := sqlite.New("./data/leave.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"github.com/warp/leave-engine/leave"
)

// Store implements leave.Store and holds users and notifications.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection: SQLite allows a single writer, and an in-memory
	// database exists per connection.
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS leave_types (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		title      TEXT NOT NULL UNIQUE,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS leaves (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		employee_id   INTEGER NOT NULL,
		leave_type_id INTEGER NOT NULL REFERENCES leave_types(id),
		from_date     TEXT NOT NULL,
		return_date   TEXT NOT NULL,
		is_full_day   INTEGER NOT NULL,
		days          TEXT NOT NULL,
		reason        TEXT NOT NULL,
		status        TEXT NOT NULL DEFAULT 'Pending',
		comment       TEXT NOT NULL DEFAULT '',
		operator_id   INTEGER,
		created_at    TEXT NOT NULL,
		updated_at    TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_leaves_employee ON leaves(employee_id);
	CREATE INDEX IF NOT EXISTS idx_leaves_status ON leaves(status);

	CREATE TABLE IF NOT EXISTS users (
		id              INTEGER PRIMARY KEY AUTOINCREMENT,
		names           TEXT NOT NULL,
		email           TEXT NOT NULL UNIQUE,
		phone           TEXT NOT NULL DEFAULT '',
		department_id   INTEGER NOT NULL DEFAULT 0,
		department_name TEXT NOT NULL DEFAULT '',
		role            TEXT NOT NULL DEFAULT 'USER',
		status          INTEGER NOT NULL DEFAULT 1,
		password_hash   TEXT NOT NULL,
		last_login      TEXT NOT NULL DEFAULT '',
		created_at      TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS notifications (
		id         TEXT PRIMARY KEY,
		user_id    INTEGER NOT NULL,
		leave_id   INTEGER NOT NULL DEFAULT 0,
		message    TEXT NOT NULL,
		read       INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_notifications_user ON notifications(user_id);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return err
	}
	return s.seedLeaveTypes()
}

// seedLeaveTypes inserts the default catalog on first run.
func (s *Store) seedLeaveTypes() error {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM leave_types`).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	now := time.Now().UTC().Format(time.RFC3339)
	for _, title := range []string{"Annual leave", "Sick leave", "Personal leave"} {
		if _, err := s.db.Exec(
			`INSERT INTO leave_types (title, created_at, updated_at) VALUES (?, ?, ?)`,
			title, now, now,
		); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// LEAVE REQUESTS (leave.Store)
// =============================================================================

func (s *Store) CreateRequest(ctx context.Context, req leave.LeaveRequest) (*leave.LeaveRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO leaves (employee_id, leave_type_id, from_date, return_date,
			is_full_day, days, reason, status, comment, operator_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, '', NULL, ?, ?)`,
		req.EmployeeID, req.LeaveTypeID, req.FromDate.String(), req.ReturnDate.String(),
		boolToInt(req.IsFullDay), req.Days.String(), req.Reason, string(leave.StatusPending),
		now.Format(time.RFC3339), now.Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("insert leave: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	req.ID = int(id)
	req.Status = leave.StatusPending
	req.Comment = ""
	req.OperatorID = nil
	req.CreatedAt = now
	req.UpdatedAt = now
	return &req, nil
}

func (s *Store) UpdateStatus(ctx context.Context, id int, status leave.Status, comment string, operatorID int) (*leave.LeaveRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.ExecContext(ctx, `
		UPDATE leaves
		SET status = ?, comment = ?, operator_id = ?, updated_at = ?
		WHERE id = ? AND status = ?`,
		string(status), comment, operatorID, now, id, string(leave.StatusPending),
	)
	if err != nil {
		return nil, fmt.Errorf("update leave status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		// Either the id is unknown or the request was already resolved.
		existing, err := s.getRequestLocked(ctx, id)
		if err != nil {
			return nil, err
		}
		return nil, &leave.ConflictError{RequestID: id, Status: existing.Status}
	}

	return s.getRequestLocked(ctx, id)
}

func (s *Store) GetRequest(ctx context.Context, id int) (*leave.LeaveRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getRequestLocked(ctx, id)
}

const leaveColumns = `id, employee_id, leave_type_id, from_date, return_date,
	is_full_day, days, reason, status, comment, operator_id, created_at, updated_at`

func (s *Store) getRequestLocked(ctx context.Context, id int) (*leave.LeaveRequest, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+leaveColumns+` FROM leaves WHERE id = ?`, id)
	req, err := scanLeave(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, leave.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return req, nil
}

func (s *Store) ListForEmployee(ctx context.Context, employeeID int) ([]leave.LeaveRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+leaveColumns+` FROM leaves WHERE employee_id = ? ORDER BY id`, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectLeaves(rows)
}

func (s *Store) ListRequests(ctx context.Context) ([]leave.LeaveRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+leaveColumns+` FROM leaves ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectLeaves(rows)
}

func (s *Store) ListLeaveTypes(ctx context.Context) ([]leave.LeaveType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT id, title FROM leave_types ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var types []leave.LeaveType
	for rows.Next() {
		var lt leave.LeaveType
		if err := rows.Scan(&lt.ID, &lt.Title); err != nil {
			return nil, err
		}
		types = append(types, lt)
	}
	return types, rows.Err()
}

// CreateLeaveType adds a leave type to the catalog (admin surface).
func (s *Store) CreateLeaveType(ctx context.Context, title string) (*leave.LeaveType, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO leave_types (title, created_at, updated_at) VALUES (?, ?, ?)`,
		title, now, now)
	if err != nil {
		return nil, fmt.Errorf("insert leave type: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &leave.LeaveType{ID: int(id), Title: title}, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLeave(row rowScanner) (*leave.LeaveRequest, error) {
	var (
		req        leave.LeaveRequest
		fromDate   string
		returnDate string
		isFullDay  int
		days       string
		status     string
		operatorID sql.NullInt64
		createdAt  string
		updatedAt  string
	)
	err := row.Scan(&req.ID, &req.EmployeeID, &req.LeaveTypeID, &fromDate, &returnDate,
		&isFullDay, &days, &req.Reason, &status, &req.Comment, &operatorID, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	if req.FromDate, err = leave.ParseDate(fromDate); err != nil {
		return nil, err
	}
	if req.ReturnDate, err = leave.ParseDate(returnDate); err != nil {
		return nil, err
	}
	if req.Days, err = decimal.NewFromString(days); err != nil {
		return nil, fmt.Errorf("corrupt days value %q: %w", days, err)
	}
	req.IsFullDay = isFullDay != 0
	req.Status = leave.Status(status)
	if operatorID.Valid {
		op := int(operatorID.Int64)
		req.OperatorID = &op
	}
	req.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	req.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &req, nil
}

func collectLeaves(rows *sql.Rows) ([]leave.LeaveRequest, error) {
	var out []leave.LeaveRequest
	for rows.Next() {
		req, err := scanLeave(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *req)
	}
	return out, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

var _ leave.Store = (*Store)(nil)
