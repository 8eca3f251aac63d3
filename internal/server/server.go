package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/jmoreira/pulse/internal/deliver"
	"github.com/jmoreira/pulse/internal/model"
	"github.com/jmoreira/pulse/internal/presence"
	"github.com/jmoreira/pulse/internal/router"
	"github.com/jmoreira/pulse/internal/session"
)

// MessageStore is the durable message collaborator.
type MessageStore interface {
	Insert(ctx context.Context, senderID, receiverID, body string) (model.Message, error)
	Conversation(ctx context.Context, userA, userB string) ([]model.Message, error)
	Partners(ctx context.Context, userID string) ([]string, error)
}

// NotificationStore is the durable notification collaborator.
type NotificationStore interface {
	Insert(ctx context.Context, recipientID, actorID string, kind model.NotificationKind, subjectID string) (model.Notification, error)
	ListForUser(ctx context.Context, userID string) ([]model.Notification, error)
	MarkRead(ctx context.Context, userID string, id uuid.UUID) error
	MarkAllRead(ctx context.Context, userID string) error
	Delete(ctx context.Context, userID string, id uuid.UUID) error
}

// Pinger reports database health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Options wires the server's collaborators.
type Options struct {
	Registry          presence.Registry
	Router            *router.Router
	Messages          *deliver.Messages
	Notifications     *deliver.Notifications
	MessageStore      MessageStore
	NotificationStore NotificationStore
	Sessions          session.Config
	DB                Pinger // nil skips the database health check
	Logger            *slog.Logger
}

// Server is the HTTP surface.
type Server struct {
	registry      presence.Registry
	router        *router.Router
	messages      *deliver.Messages
	notifications *deliver.Notifications
	msgStore      MessageStore
	notifStore    NotificationStore
	sessions      session.Config
	db            Pinger
	upgrader      websocket.Upgrader
	logger        *slog.Logger
}

// New creates the server.
func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Server{
		registry:      opts.Registry,
		router:        opts.Router,
		messages:      opts.Messages,
		notifications: opts.Notifications,
		msgStore:      opts.MessageStore,
		notifStore:    opts.NotificationStore,
		sessions:      opts.Sessions,
		db:            opts.DB,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Session auth is header/query based; origin policy belongs to
			// the fronting proxy.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		logger: logger,
	}
}

// Handler returns the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /ws", s.handleWS)
	mux.HandleFunc("GET /online", s.handleOnline)
	mux.HandleFunc("GET /health", s.handleHealth)

	mux.HandleFunc("POST /users/{id}/messages", s.handleSendMessage)
	mux.HandleFunc("GET /users/{id}/messages", s.handleConversation)
	mux.HandleFunc("GET /chat/partners", s.handlePartners)

	mux.HandleFunc("POST /notifications", s.handleCreateNotification)
	mux.HandleFunc("GET /notifications", s.handleListNotifications)
	mux.HandleFunc("POST /notifications/{id}/read", s.handleMarkRead)
	mux.HandleFunc("POST /notifications/read-all", s.handleMarkAllRead)
	mux.HandleFunc("DELETE /notifications/{id}", s.handleDeleteNotification)

	return mux
}

// identity returns the verified caller identity, or false if absent.
func (s *Server) identity(r *http.Request) (string, bool) {
	userID := r.Header.Get("X-User-ID")
	return userID, userID != ""
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("failed to write response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}
