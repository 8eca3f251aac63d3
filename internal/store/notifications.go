package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jmoreira/pulse/internal/model"
)

// Errors
var (
	ErrNotFound = errors.New("record not found")
)

// Notifications persists social-interaction notifications.
type Notifications struct {
	db     *pgxpool.Pool
	logger *slog.Logger
}

// NewNotifications creates the notification store.
func NewNotifications(db *pgxpool.Pool, logger *slog.Logger) *Notifications {
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifications{
		db:     db,
		logger: logger,
	}
}

// newNotification builds the record that Insert writes.
func newNotification(recipientID, actorID string, kind model.NotificationKind, subjectID string) model.Notification {
	return model.Notification{
		ID:          uuid.New(),
		RecipientID: recipientID,
		ActorID:     actorID,
		Kind:        kind,
		SubjectID:   subjectID,
		Read:        false,
		CreatedAt:   time.Now().UTC(),
	}
}

// Insert writes one notification and returns the persisted record.
func (s *Notifications) Insert(ctx context.Context, recipientID, actorID string, kind model.NotificationKind, subjectID string) (model.Notification, error) {
	n := newNotification(recipientID, actorID, kind, subjectID)

	_, err := s.db.Exec(ctx,
		`INSERT INTO notifications (id, recipient_id, actor_id, kind, subject_id, read, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		n.ID, n.RecipientID, n.ActorID, n.Kind, n.SubjectID, n.Read, n.CreatedAt,
	)
	if err != nil {
		return model.Notification{}, fmt.Errorf("insert notification: %w", err)
	}

	return n, nil
}

// ListForUser returns a user's notifications, latest first.
func (s *Notifications) ListForUser(ctx context.Context, userID string) ([]model.Notification, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, recipient_id, actor_id, kind, subject_id, read, created_at
		 FROM notifications
		 WHERE recipient_id = $1
		 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query notifications: %w", err)
	}
	defer rows.Close()

	var ns []model.Notification
	for rows.Next() {
		var n model.Notification
		if err := rows.Scan(&n.ID, &n.RecipientID, &n.ActorID, &n.Kind, &n.SubjectID, &n.Read, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		ns = append(ns, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read notifications: %w", err)
	}

	return ns, nil
}

// MarkRead marks one of the user's notifications as read.
func (s *Notifications) MarkRead(ctx context.Context, userID string, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE notifications SET read = TRUE
		 WHERE id = $1 AND recipient_id = $2`,
		id, userID,
	)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkAllRead marks every unread notification for the user as read.
func (s *Notifications) MarkAllRead(ctx context.Context, userID string) error {
	_, err := s.db.Exec(ctx,
		`UPDATE notifications SET read = TRUE
		 WHERE recipient_id = $1 AND read = FALSE`,
		userID,
	)
	if err != nil {
		return fmt.Errorf("mark all notifications read: %w", err)
	}
	return nil
}

// Delete removes one of the user's notifications.
func (s *Notifications) Delete(ctx context.Context, userID string, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx,
		`DELETE FROM notifications
		 WHERE id = $1 AND recipient_id = $2`,
		id, userID,
	)
	if err != nil {
		return fmt.Errorf("delete notification: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
