package sqlite

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/warp/leave-engine/leave"
)

// =============================================================================
// NOTIFICATIONS
// =============================================================================

// Notification is one entry in a user's feed. Delivery is best-effort: a
// failed insert never fails the lifecycle operation that triggered it.
type Notification struct {
	ID        string
	UserID    int
	LeaveID   int
	Message   string
	Read      bool
	CreatedAt time.Time
}

func (s *Store) CreateNotification(ctx context.Context, userID, leaveID int, message string) (*Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := Notification{
		ID:        uuid.NewString(),
		UserID:    userID,
		LeaveID:   leaveID,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO notifications (id, user_id, leave_id, message, read, created_at)
		VALUES (?, ?, ?, ?, 0, ?)`,
		n.ID, n.UserID, n.LeaveID, n.Message, n.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (s *Store) ListNotifications(ctx context.Context, userID int) ([]Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, leave_id, message, read, created_at
		FROM notifications WHERE user_id = ? ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Notification
	for rows.Next() {
		var (
			n         Notification
			read      int
			createdAt string
		)
		if err := rows.Scan(&n.ID, &n.UserID, &n.LeaveID, &n.Message, &read, &createdAt); err != nil {
			return nil, err
		}
		n.Read = read != 0
		n.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		out = append(out, n)
	}
	return out, rows.Err()
}

// MarkNotificationRead flags a notification as seen.
func (s *Store) MarkNotificationRead(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`UPDATE notifications SET read = 1 WHERE id = ?`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return leave.ErrNotFound
	}
	return nil
}
