// Package notification delivers counterparty notifications.
package notification

import (
	"context"

	"github.com/google/uuid"
	"github.com/procureflow/backend/internal/domain/shared"
	"go.uber.org/zap"
)

var _ shared.Notifier = (*LogNotifier)(nil)

// LogNotifier implements Notifier by writing structured log entries.
// It stands in for an outbound channel (email, webhook) in deployments
// that have not wired one up; callers treat delivery as fire-and-forget
// either way.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a log-backed notifier
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.Named("notifier")}
}

// Notify records the notification
func (n *LogNotifier) Notify(ctx context.Context, recipient uuid.UUID, kind shared.TemplateKind, payload map[string]any) error {
	n.logger.Info("notification dispatched",
		zap.String("recipient", recipient.String()),
		zap.String("template", string(kind)),
		zap.Any("payload", payload),
	)
	return nil
}
