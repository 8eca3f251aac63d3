package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNotificationKind_Valid(t *testing.T) {
	tests := []struct {
		kind NotificationKind
		want bool
	}{
		{KindLike, true},
		{KindComment, true},
		{KindFollow, true},
		{NotificationKind("repost"), false},
		{NotificationKind(""), false},
	}

	for _, tt := range tests {
		if got := tt.kind.Valid(); got != tt.want {
			t.Errorf("NotificationKind(%q).Valid() = %v, want %v", tt.kind, got, tt.want)
		}
	}
}

func TestNotification_JSONOmitsEmptySubject(t *testing.T) {
	n := Notification{
		ID:          uuid.New(),
		RecipientID: "u1",
		ActorID:     "u2",
		Kind:        KindFollow,
		CreatedAt:   time.Now().UTC(),
	}

	data, err := json.Marshal(n)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := m["subject_id"]; ok {
		t.Error("follow notification should omit subject_id")
	}
}
