package deliver

import (
	"log/slog"

	"github.com/jmoreira/pulse/internal/event"
	"github.com/jmoreira/pulse/internal/model"
	"github.com/jmoreira/pulse/internal/router"
)

// Notifications is the social-interaction notification fan-out.
type Notifications struct {
	router *router.Router
	logger *slog.Logger
}

// NewNotifications creates the notification fan-out.
func NewNotifications(rt *router.Router, logger *slog.Logger) *Notifications {
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifications{
		router: rt,
		logger: logger,
	}
}

// Fanout makes exactly one push attempt for a persisted notification.
// Self-directed notifications are skipped entirely; the originating
// collaborator enforces the same rule on the durable record, and this
// re-check keeps a buggy caller from pushing one.
func (f *Notifications) Fanout(n model.Notification) bool {
	if n.RecipientID == n.ActorID {
		f.logger.Debug("skipping self notification",
			"user_id", n.ActorID,
			"kind", n.Kind,
		)
		return false
	}

	ev, err := event.New(event.KindNotification, n)
	if err != nil {
		f.logger.Error("failed to encode notification event",
			"notification_id", n.ID,
			"error", err,
		)
		return false
	}

	delivered := f.router.Push(n.RecipientID, ev)

	f.logger.Debug("notification push",
		"notification_id", n.ID,
		"recipient_id", n.RecipientID,
		"kind", n.Kind,
		"delivered", delivered,
	)
	return delivered
}
