package session

import (
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/jmoreira/pulse/internal/event"
)

// Errors
var (
	ErrClosed = errors.New("session closed")
)

// Config configures a single session.
type Config struct {
	WriteTimeout time.Duration // Write deadline for pushes
	PingInterval time.Duration // Keepalive ping period
	PongTimeout  time.Duration // Max silence before the connection is considered dead
	MaxFrameSize int64         // Read limit for inbound frames
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		WriteTimeout: 5 * time.Second,
		PingInterval: 25 * time.Second,
		PongTimeout:  60 * time.Second,
		MaxFrameSize: 4096,
	}
}

// Session wraps one accepted websocket connection for one user.
type Session struct {
	id      string
	userID  string
	boundAt time.Time

	cfg    Config
	conn   *websocket.Conn
	logger *slog.Logger

	// Write serialization
	writeMu sync.Mutex

	// State
	mu     sync.Mutex
	closed bool
	done   chan struct{}
}

// New wraps an upgraded connection and starts its keepalive goroutines.
// The session ID is assigned here and never changes.
func New(conn *websocket.Conn, userID string, cfg Config, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Session{
		id:      uuid.NewString(),
		userID:  userID,
		boundAt: time.Now().UTC(),
		cfg:     cfg,
		conn:    conn,
		done:    make(chan struct{}),
	}
	s.logger = logger.With("session_id", s.id, "user_id", userID)

	conn.SetReadLimit(cfg.MaxFrameSize)
	conn.SetReadDeadline(time.Now().Add(cfg.PongTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(cfg.PongTimeout))
	})

	go s.readLoop()
	go s.pingLoop()

	s.logger.Debug("session opened")
	return s
}

// ID returns the session's unique identifier.
func (s *Session) ID() string {
	return s.id
}

// UserID returns the authenticated user this session belongs to.
func (s *Session) UserID() string {
	return s.userID
}

// BoundAt returns when the session was established.
func (s *Session) BoundAt() time.Time {
	return s.boundAt
}

// Done is closed when the session has ended, either by Close or because the
// peer went away.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Send delivers one event over the connection. A failed send leaves the
// session registered; cleanup happens only on disconnect.
func (s *Session) Send(ev event.Event) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	s.mu.Unlock()

	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
	return s.conn.WriteMessage(websocket.TextMessage, data)
}

// Close shuts the session down. Safe to call more than once.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	close(s.done)

	s.conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second),
	)
	err := s.conn.Close()

	s.logger.Debug("session closed")
	return err
}

// readLoop drains inbound frames until the connection dies. Pulse sessions
// are push-only, so frame contents are discarded; the loop exists to service
// pong handlers and to detect disconnects.
func (s *Session) readLoop() {
	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			// Ignore errors after Close() is called
			select {
			case <-s.done:
			default:
				s.logger.Debug("session read ended", "error", err)
			}
			s.Close()
			return
		}
	}
}

// pingLoop sends keepalive pings. A peer that stops answering trips the read
// deadline, which ends readLoop and closes the session.
func (s *Session) pingLoop() {
	ticker := time.NewTicker(s.cfg.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			deadline := time.Now().Add(s.cfg.WriteTimeout)
			if err := s.conn.WriteControl(websocket.PingMessage, []byte("keepalive"), deadline); err != nil {
				s.logger.Debug("failed to send ping", "error", err)
			}
		}
	}
}
