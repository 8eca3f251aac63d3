package model

import (
	"time"

	"github.com/google/uuid"
)

// Message is a persisted direct message between two users.
type Message struct {
	ID         uuid.UUID `json:"id"`          // Primary key
	SenderID   string    `json:"sender_id"`   // Authenticated sender
	ReceiverID string    `json:"receiver_id"` // Target user
	Body       string    `json:"body"`        // Message text
	CreatedAt  time.Time `json:"created_at"`  // Insert time (UTC)
}

// NotificationKind identifies the social interaction behind a notification.
type NotificationKind string

const (
	KindLike    NotificationKind = "like"
	KindComment NotificationKind = "comment"
	KindFollow  NotificationKind = "follow"
)

// Valid reports whether k is a known notification kind.
func (k NotificationKind) Valid() bool {
	switch k {
	case KindLike, KindComment, KindFollow:
		return true
	}
	return false
}

// Notification is a persisted social-interaction notification.
type Notification struct {
	ID          uuid.UUID        `json:"id"`                   // Primary key
	RecipientID string           `json:"recipient_id"`         // User being notified
	ActorID     string           `json:"actor_id"`             // User who acted
	Kind        NotificationKind `json:"kind"`                 // like, comment, follow
	SubjectID   string           `json:"subject_id,omitempty"` // Post/story id, empty for follow
	Read        bool             `json:"read"`                 // Read flag, owned by the durable store
	CreatedAt   time.Time        `json:"created_at"`           // Insert time (UTC)
}
