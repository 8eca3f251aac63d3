package store

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jmoreira/pulse/internal/model"
)

// Messages persists direct messages.
type Messages struct {
	db     *pgxpool.Pool
	logger *slog.Logger
}

// NewMessages creates the message store.
func NewMessages(db *pgxpool.Pool, logger *slog.Logger) *Messages {
	if logger == nil {
		logger = slog.Default()
	}
	return &Messages{
		db:     db,
		logger: logger,
	}
}

// newMessage builds the record that Insert writes.
func newMessage(senderID, receiverID, body string) model.Message {
	return model.Message{
		ID:         uuid.New(),
		SenderID:   senderID,
		ReceiverID: receiverID,
		Body:       body,
		CreatedAt:  time.Now().UTC(),
	}
}

// Insert writes one message and returns the persisted record.
func (s *Messages) Insert(ctx context.Context, senderID, receiverID, body string) (model.Message, error) {
	msg := newMessage(senderID, receiverID, body)

	_, err := s.db.Exec(ctx,
		`INSERT INTO messages (id, sender_id, receiver_id, body, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		msg.ID, msg.SenderID, msg.ReceiverID, msg.Body, msg.CreatedAt,
	)
	if err != nil {
		return model.Message{}, fmt.Errorf("insert message: %w", err)
	}

	return msg, nil
}

// Conversation returns the full history between two users, oldest first.
// This is the pull path a receiver falls back on after a missed live push.
func (s *Messages) Conversation(ctx context.Context, userA, userB string) ([]model.Message, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, sender_id, receiver_id, body, created_at
		 FROM messages
		 WHERE (sender_id = $1 AND receiver_id = $2)
		    OR (sender_id = $2 AND receiver_id = $1)
		 ORDER BY created_at`,
		userA, userB,
	)
	if err != nil {
		return nil, fmt.Errorf("query conversation: %w", err)
	}
	defer rows.Close()

	var msgs []model.Message
	for rows.Next() {
		var m model.Message
		if err := rows.Scan(&m.ID, &m.SenderID, &m.ReceiverID, &m.Body, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		msgs = append(msgs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read conversation: %w", err)
	}

	return msgs, nil
}

// Partners returns the distinct users the given user has exchanged messages
// with, most recent conversation first. Feeds the chat sidebar.
func (s *Messages) Partners(ctx context.Context, userID string) ([]string, error) {
	rows, err := s.db.Query(ctx,
		`SELECT partner FROM (
		     SELECT CASE WHEN sender_id = $1 THEN receiver_id ELSE sender_id END AS partner,
		            MAX(created_at) AS last_at
		     FROM messages
		     WHERE sender_id = $1 OR receiver_id = $1
		     GROUP BY partner
		 ) p
		 ORDER BY last_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query partners: %w", err)
	}
	defer rows.Close()

	var partners []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("scan partner: %w", err)
		}
		partners = append(partners, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read partners: %w", err)
	}

	return partners, nil
}
