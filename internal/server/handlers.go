package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/jmoreira/pulse/internal/model"
	"github.com/jmoreira/pulse/internal/store"
)

// handleOnline exposes the live online-user set.
func (s *Server) handleOnline(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"online": s.registry.Snapshot(),
	})
}

// handleSendMessage persists a direct message, then attempts one live push.
// A missed push is not an error; the receiver catches up from history.
func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	senderID, ok := s.identity(r)
	if !ok {
		s.writeError(w, http.StatusUnauthorized, "missing identity")
		return
	}
	receiverID := r.PathValue("id")

	var body struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(body.Message) == "" {
		s.writeError(w, http.StatusBadRequest, "message text is required")
		return
	}

	msg, err := s.msgStore.Insert(r.Context(), senderID, receiverID, body.Message)
	if err != nil {
		s.logger.Error("failed to persist message", "error", err)
		s.writeError(w, http.StatusInternalServerError, "server error")
		return
	}

	delivered := s.messages.Deliver(msg)

	s.writeJSON(w, http.StatusCreated, map[string]any{
		"message":   msg,
		"delivered": delivered,
	})
}

// handleConversation returns the message history with one user.
func (s *Server) handleConversation(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.identity(r)
	if !ok {
		s.writeError(w, http.StatusUnauthorized, "missing identity")
		return
	}
	otherID := r.PathValue("id")

	msgs, err := s.msgStore.Conversation(r.Context(), userID, otherID)
	if err != nil {
		s.logger.Error("failed to load conversation", "error", err)
		s.writeError(w, http.StatusInternalServerError, "server error")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"messages": msgs,
	})
}

// handlePartners returns the chat sidebar user list.
func (s *Server) handlePartners(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.identity(r)
	if !ok {
		s.writeError(w, http.StatusUnauthorized, "missing identity")
		return
	}

	partners, err := s.msgStore.Partners(r.Context(), userID)
	if err != nil {
		s.logger.Error("failed to load chat partners", "error", err)
		s.writeError(w, http.StatusInternalServerError, "server error")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"partners": partners,
	})
}

// handleCreateNotification is called by the post/story/follow collaborators
// after their own durable write: persist the notification, then attempt one
// live push.
func (s *Server) handleCreateNotification(w http.ResponseWriter, r *http.Request) {
	actorID, ok := s.identity(r)
	if !ok {
		s.writeError(w, http.StatusUnauthorized, "missing identity")
		return
	}

	var body struct {
		RecipientID string `json:"recipient_id"`
		Kind        string `json:"kind"`
		SubjectID   string `json:"subject_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	kind := model.NotificationKind(body.Kind)
	if !kind.Valid() {
		s.writeError(w, http.StatusBadRequest, "unknown notification kind")
		return
	}
	if body.RecipientID == "" {
		s.writeError(w, http.StatusBadRequest, "recipient_id is required")
		return
	}
	if body.RecipientID == actorID {
		s.writeError(w, http.StatusBadRequest, "cannot notify yourself")
		return
	}

	n, err := s.notifStore.Insert(r.Context(), body.RecipientID, actorID, kind, body.SubjectID)
	if err != nil {
		s.logger.Error("failed to persist notification", "error", err)
		s.writeError(w, http.StatusInternalServerError, "server error")
		return
	}

	delivered := s.notifications.Fanout(n)

	s.writeJSON(w, http.StatusCreated, map[string]any{
		"notification": n,
		"delivered":    delivered,
	})
}

// handleListNotifications returns the caller's notifications, latest first.
func (s *Server) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.identity(r)
	if !ok {
		s.writeError(w, http.StatusUnauthorized, "missing identity")
		return
	}

	ns, err := s.notifStore.ListForUser(r.Context(), userID)
	if err != nil {
		s.logger.Error("failed to load notifications", "error", err)
		s.writeError(w, http.StatusInternalServerError, "server error")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"notifications": ns,
	})
}

// handleMarkRead marks one notification as read.
func (s *Server) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.identity(r)
	if !ok {
		s.writeError(w, http.StatusUnauthorized, "missing identity")
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid notification id")
		return
	}

	switch err := s.notifStore.MarkRead(r.Context(), userID, id); {
	case errors.Is(err, store.ErrNotFound):
		s.writeError(w, http.StatusNotFound, "notification not found")
	case err != nil:
		s.logger.Error("failed to mark notification read", "error", err)
		s.writeError(w, http.StatusInternalServerError, "server error")
	default:
		s.writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	}
}

// handleMarkAllRead marks every unread notification as read.
func (s *Server) handleMarkAllRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.identity(r)
	if !ok {
		s.writeError(w, http.StatusUnauthorized, "missing identity")
		return
	}

	if err := s.notifStore.MarkAllRead(r.Context(), userID); err != nil {
		s.logger.Error("failed to mark notifications read", "error", err)
		s.writeError(w, http.StatusInternalServerError, "server error")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// handleDeleteNotification removes one notification.
func (s *Server) handleDeleteNotification(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.identity(r)
	if !ok {
		s.writeError(w, http.StatusUnauthorized, "missing identity")
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid notification id")
		return
	}

	switch err := s.notifStore.Delete(r.Context(), userID, id); {
	case errors.Is(err, store.ErrNotFound):
		s.writeError(w, http.StatusNotFound, "notification not found")
	case err != nil:
		s.logger.Error("failed to delete notification", "error", err)
		s.writeError(w, http.StatusInternalServerError, "server error")
	default:
		s.writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	}
}
