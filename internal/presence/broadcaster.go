package presence

import (
	"context"
	"log/slog"
	"sync"

	"github.com/jmoreira/pulse/internal/event"
)

// Broadcaster keeps every connected session informed of the online-user set.
// It consumes the registry's membership signals and pushes the whole set to
// all bound sessions, not just the one that triggered the change.
type Broadcaster struct {
	registry Registry
	logger   *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewBroadcaster creates a Presence Broadcaster over the given registry.
func NewBroadcaster(registry Registry, logger *slog.Logger) *Broadcaster {
	if logger == nil {
		logger = slog.Default()
	}
	return &Broadcaster{
		registry: registry,
		logger:   logger,
	}
}

// Start begins consuming membership changes.
func (b *Broadcaster) Start(ctx context.Context) error {
	b.ctx, b.cancel = context.WithCancel(ctx)

	b.wg.Add(1)
	go b.run()

	b.logger.Info("presence broadcaster started")
	return nil
}

// Stop gracefully shuts down the broadcaster.
func (b *Broadcaster) Stop(ctx context.Context) error {
	if b.cancel != nil {
		b.cancel()
	}

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		b.logger.Info("presence broadcaster stopped")
		return nil
	case <-ctx.Done():
		b.logger.Warn("presence broadcaster stop timed out")
		return ctx.Err()
	}
}

// run is the broadcast goroutine.
func (b *Broadcaster) run() {
	defer b.wg.Done()

	changes := b.registry.Changes()

	for {
		select {
		case <-b.ctx.Done():
			return
		case snap, ok := <-changes:
			if !ok {
				return
			}
			b.broadcast(snap)
		}
	}
}

// broadcast sends the online set to every bound session. A send failure on
// one session must not block delivery to the others.
func (b *Broadcaster) broadcast(online []string) {
	ev, err := event.New(event.KindPresence, online)
	if err != nil {
		b.logger.Error("failed to encode presence event", "error", err)
		return
	}

	sessions := b.registry.Sessions()
	for _, sess := range sessions {
		if err := sess.Send(ev); err != nil {
			b.logger.Debug("presence send failed",
				"session_id", sess.ID(),
				"error", err,
			)
		}
	}

	b.logger.Debug("presence broadcast",
		"online", len(online),
		"sessions", len(sessions),
	)
}
