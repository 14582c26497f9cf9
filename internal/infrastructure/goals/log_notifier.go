package goals

import (
	"context"

	"github.com/salesops/backend/internal/domain/goals"
	"go.uber.org/zap"
)

// LogNotifier records notifications in the log instead of delivering them.
// It stands in for the goals tracker when Kafka is disabled.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a new LogNotifier
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify logs each notification
func (n *LogNotifier) Notify(_ context.Context, notifications ...goals.Notification) error {
	for _, notification := range notifications {
		n.logger.Info("goal notification (delivery disabled)",
			zap.String("user_id", notification.UserID.String()),
			zap.String("sale_id", notification.SaleID.String()),
			zap.String("role", notification.Role),
			zap.String("event_type", notification.EventType),
		)
	}
	return nil
}

// Close is a no-op
func (n *LogNotifier) Close() error {
	return nil
}

var _ goals.Notifier = (*LogNotifier)(nil)
