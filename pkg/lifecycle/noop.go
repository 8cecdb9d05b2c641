package lifecycle

import (
	"context"
	"log/slog"
)

// NoopNotifier discards every notification.
type NoopNotifier struct{}

// NewNoopNotifier creates a notifier that does nothing.
func NewNoopNotifier() *NoopNotifier { return &NoopNotifier{} }

func (NoopNotifier) Notify(ctx context.Context, event NotificationEvent) error { return nil }

// LogNotifier writes notifications to a structured logger. Useful as a
// default until a real dispatch channel is wired.
type LogNotifier struct {
	log *slog.Logger
}

// NewLogNotifier creates a notifier that logs each event.
func NewLogNotifier(log *slog.Logger) *LogNotifier {
	if log == nil {
		log = slog.Default()
	}
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Notify(ctx context.Context, event NotificationEvent) error {
	n.log.Info("notification", "kind", event.Kind, "content_id", event.ContentID, "user_id", event.UserID)
	return nil
}
