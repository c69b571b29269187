// Package notify delivers dispatch notifications to external observers.
// The core treats notification delivery as fire-and-forget; this adapter
// writes structured log lines that a push gateway or socket fan-out would
// consume in a full deployment.
package notify

import (
	"context"
	"log/slog"

	"dispatch/internal/core/ports"
)

// SlogNotifier implements ports.Notifier on top of a structured logger.
type SlogNotifier struct {
	logger *slog.Logger
}

// NewSlogNotifier creates a notifier writing to the given logger.
// A nil logger falls back to the default slog logger.
func NewSlogNotifier(logger *slog.Logger) *SlogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogNotifier{
		logger: logger.With(slog.String("component", "notifier")),
	}
}

// Notify emits one notification. Never returns an error and never blocks
// on downstream delivery: a lost notification must not fail the state
// transition that produced it.
func (n *SlogNotifier) Notify(ctx context.Context, notification ports.Notification) {
	attrs := []any{
		slog.String("event", string(notification.Event)),
		slog.String("audience", string(notification.Audience)),
		slog.String("order_id", notification.OrderID.String()),
		slog.String("order_number", notification.OrderNumber),
		slog.String("message", notification.Message),
	}
	if notification.CourierID != nil {
		attrs = append(attrs, slog.String("courier_id", notification.CourierID.String()))
	}

	n.logger.InfoContext(ctx, "notification", attrs...)
}
