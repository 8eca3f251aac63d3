package presence

import (
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/jmoreira/pulse/internal/event"
)

// Session is the live transport bound to a user. Implemented by
// session.Session; tests substitute fakes.
type Session interface {
	// ID returns the session's unique identifier.
	ID() string

	// Send attempts one synchronous delivery over the transport.
	Send(ev event.Event) error

	// Close shuts the transport down. The registry itself never closes a
	// session; this exists for the owner's shutdown path.
	Close() error
}

// Binding associates a user with one live session.
type Binding struct {
	UserID  string
	Session Session
	BoundAt time.Time
}

// Registry is the authoritative mapping from user identity to active session.
type Registry interface {
	// Bind registers or overwrites the binding for userID. Always succeeds.
	Bind(userID string, sess Session)

	// Unbind removes the binding whose current session matches sessionID.
	// A stale or unknown sessionID is a no-op.
	Unbind(sessionID string)

	// Lookup returns the session currently bound to userID, if any.
	Lookup(userID string) (Session, bool)

	// Snapshot returns the sorted set of online user IDs.
	Snapshot() []string

	// Sessions returns every currently bound session.
	Sessions() []Session

	// Changes returns membership-change signals. Each value is the snapshot
	// taken under the mutation's lock, so signal N is at least as fresh as
	// mutation N.
	Changes() <-chan []string
}

// registry implements Registry with a mutex-guarded map. The map is never
// exposed to callers.
type registry struct {
	logger *slog.Logger

	mu        sync.RWMutex
	bindings  map[string]Binding // userID → binding
	sessOwner map[string]string  // sessionID → userID, current bindings only

	changes chan []string
}

// NewRegistry creates an empty registry. changeBuffer controls how many
// membership signals may be pending before new ones are dropped.
func NewRegistry(changeBuffer int, logger *slog.Logger) Registry {
	if logger == nil {
		logger = slog.Default()
	}
	if changeBuffer < 1 {
		changeBuffer = 1
	}

	return &registry{
		logger:    logger,
		bindings:  make(map[string]Binding),
		sessOwner: make(map[string]string),
		changes:   make(chan []string, changeBuffer),
	}
}

// Bind registers or overwrites the binding for userID.
func (r *registry) Bind(userID string, sess Session) {
	r.mu.Lock()

	old, rebind := r.bindings[userID]
	if rebind {
		// The previous session is orphaned, not closed; its own disconnect
		// signal becomes a stale unbind and is ignored.
		delete(r.sessOwner, old.Session.ID())
	}

	r.bindings[userID] = Binding{
		UserID:  userID,
		Session: sess,
		BoundAt: time.Now().UTC(),
	}
	r.sessOwner[sess.ID()] = userID

	var snap []string
	if !rebind {
		snap = r.snapshotLocked()
	}
	r.mu.Unlock()

	r.logger.Debug("bound session",
		"user_id", userID,
		"session_id", sess.ID(),
		"rebind", rebind,
	)

	// Reconnects keep the user in the set, so only a new member changes it.
	if !rebind {
		r.publish(snap)
	}
}

// Unbind removes the binding whose current session matches sessionID.
func (r *registry) Unbind(sessionID string) {
	r.mu.Lock()

	userID, ok := r.sessOwner[sessionID]
	if !ok {
		r.mu.Unlock()
		r.logger.Debug("ignoring stale unbind", "session_id", sessionID)
		return
	}

	// Membership is keyed by session ID, not user ID: a disconnect for a
	// superseded session must not evict the fresher binding.
	b := r.bindings[userID]
	if b.Session == nil || b.Session.ID() != sessionID {
		delete(r.sessOwner, sessionID)
		r.mu.Unlock()
		return
	}

	delete(r.bindings, userID)
	delete(r.sessOwner, sessionID)
	snap := r.snapshotLocked()
	r.mu.Unlock()

	r.logger.Debug("unbound session", "user_id", userID, "session_id", sessionID)
	r.publish(snap)
}

// Lookup returns the session currently bound to userID.
func (r *registry) Lookup(userID string) (Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.bindings[userID]
	if !ok {
		return nil, false
	}
	return b.Session, true
}

// Snapshot returns the sorted set of online user IDs.
func (r *registry) Snapshot() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshotLocked()
}

// Sessions returns every currently bound session.
func (r *registry) Sessions() []Session {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sessions := make([]Session, 0, len(r.bindings))
	for _, b := range r.bindings {
		sessions = append(sessions, b.Session)
	}
	return sessions
}

// Changes returns the membership-change channel.
func (r *registry) Changes() <-chan []string {
	return r.changes
}

// snapshotLocked derives the online set. Callers must hold at least a read lock.
func (r *registry) snapshotLocked() []string {
	users := make([]string, 0, len(r.bindings))
	for userID := range r.bindings {
		users = append(users, userID)
	}
	sort.Strings(users)
	return users
}

// publish signals a membership change without blocking a registry caller.
func (r *registry) publish(snap []string) {
	select {
	case r.changes <- snap:
	default:
		r.logger.Warn("presence change buffer full, dropping signal",
			"online", len(snap),
		)
	}
}
