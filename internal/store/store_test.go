package store

import (
	"testing"

	"github.com/google/uuid"

	"github.com/jmoreira/pulse/internal/model"
)

func TestNewMessageRecord(t *testing.T) {
	msg := newMessage("sender", "receiver", "hello")

	if msg.ID == uuid.Nil {
		t.Error("ID not assigned")
	}
	if msg.SenderID != "sender" {
		t.Errorf("SenderID = %q, want %q", msg.SenderID, "sender")
	}
	if msg.ReceiverID != "receiver" {
		t.Errorf("ReceiverID = %q, want %q", msg.ReceiverID, "receiver")
	}
	if msg.Body != "hello" {
		t.Errorf("Body = %q, want %q", msg.Body, "hello")
	}
	if msg.CreatedAt.IsZero() {
		t.Error("CreatedAt not assigned")
	}

	// Two records never share an ID.
	if other := newMessage("sender", "receiver", "hello"); other.ID == msg.ID {
		t.Error("duplicate message IDs")
	}
}

func TestNewNotificationRecord(t *testing.T) {
	n := newNotification("author", "liker", model.KindLike, "post-1")

	if n.ID == uuid.Nil {
		t.Error("ID not assigned")
	}
	if n.RecipientID != "author" || n.ActorID != "liker" {
		t.Errorf("recipient/actor = %q/%q, want author/liker", n.RecipientID, n.ActorID)
	}
	if n.Kind != model.KindLike {
		t.Errorf("Kind = %q, want %q", n.Kind, model.KindLike)
	}
	if n.SubjectID != "post-1" {
		t.Errorf("SubjectID = %q, want %q", n.SubjectID, "post-1")
	}
	if n.Read {
		t.Error("new notification must start unread")
	}
}
