package notify

import (
	"context"
	"log/slog"

	"github.com/floatops/float_ledger_app/internal/core/domain"
)

// LogNotifier is the fallback when no AMQP broker is configured: it logs the
// notification and reports success.
type LogNotifier struct {
	Logger *slog.Logger
}

// Notify logs the notification instead of delivering it.
func (n *LogNotifier) Notify(_ context.Context, notification domain.Notification) error {
	logger := n.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("Notification (no broker configured)",
		slog.String("user_id", notification.UserID),
		slog.String("category", string(notification.Category)),
		slog.String("title", notification.Title),
	)
	return nil
}
