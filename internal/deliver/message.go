package deliver

import (
	"log/slog"

	"github.com/jmoreira/pulse/internal/event"
	"github.com/jmoreira/pulse/internal/model"
	"github.com/jmoreira/pulse/internal/router"
)

// Messages is the direct-message delivery pipeline.
type Messages struct {
	router *router.Router
	logger *slog.Logger
}

// NewMessages creates the message delivery pipeline.
func NewMessages(rt *router.Router, logger *slog.Logger) *Messages {
	if logger == nil {
		logger = slog.Default()
	}
	return &Messages{
		router: rt,
		logger: logger,
	}
}

// Deliver makes exactly one push attempt for a persisted message and reports
// whether the receiver's live session got it. A false result is not surfaced
// to the sender; conversation history covers the gap.
func (d *Messages) Deliver(msg model.Message) bool {
	ev, err := event.New(event.KindMessage, msg)
	if err != nil {
		d.logger.Error("failed to encode message event",
			"message_id", msg.ID,
			"error", err,
		)
		return false
	}

	delivered := d.router.Push(msg.ReceiverID, ev)

	d.logger.Debug("message push",
		"message_id", msg.ID,
		"receiver_id", msg.ReceiverID,
		"delivered", delivered,
	)
	return delivered
}
