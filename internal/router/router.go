// Package router implements the Event Router, the single fan-out primitive
// between "a durable write happened" and "a live user sees it".
package router

import (
	"log/slog"
	"sync"

	"github.com/jmoreira/pulse/internal/event"
	"github.com/jmoreira/pulse/internal/presence"
)

// Router attempts best-effort real-time delivery of typed events.
type Router struct {
	registry presence.Registry
	logger   *slog.Logger

	mu        sync.RWMutex
	attempted int64
	delivered int64
	missed    int64
}

// Stats contains runtime delivery counters.
type Stats struct {
	Attempted int64 // Push calls issued
	Delivered int64 // Sends that reached a live session
	Missed    int64 // Target offline or transport send failed
}

// New creates an Event Router over the given registry.
func New(registry presence.Registry, logger *slog.Logger) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{
		registry: registry,
		logger:   logger,
	}
}

// Push attempts one synchronous delivery to targetUserID. It returns whether
// the send succeeded. An offline target is the expected common case, not a
// failure: the caller's durable record remains the source of truth and the
// user catches up on their next pull. No retries, no queuing.
func (r *Router) Push(targetUserID string, ev event.Event) bool {
	r.count(func() { r.attempted++ })

	sess, ok := r.registry.Lookup(targetUserID)
	if !ok {
		r.count(func() { r.missed++ })
		return false
	}

	if err := sess.Send(ev); err != nil {
		// Delivery failed for this call only. The binding stays; a later
		// disconnect signal performs cleanup.
		r.logger.Debug("push send failed",
			"user_id", targetUserID,
			"session_id", sess.ID(),
			"kind", ev.Kind,
			"error", err,
		)
		r.count(func() { r.missed++ })
		return false
	}

	r.count(func() { r.delivered++ })
	return true
}

// Stats returns current delivery counters.
func (r *Router) Stats() Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return Stats{
		Attempted: r.attempted,
		Delivered: r.delivered,
		Missed:    r.missed,
	}
}

func (r *Router) count(fn func()) {
	r.mu.Lock()
	fn()
	r.mu.Unlock()
}
