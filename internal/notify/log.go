// Package notify holds notifiers that need no external service.
package notify

import (
	"context"

	interfaces "github.com/jrose1022/SubTrack/internal/interfaces"
	"go.uber.org/zap"
)

// LogNotifier writes notifications to the structured log.
type LogNotifier struct {
	log *zap.Logger
}

func NewLogNotifier(log *zap.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Notify(ctx context.Context, text string) error {
	n.log.Info("notification", zap.String("text", text))
	return nil
}

var _ interfaces.Notifier = (*LogNotifier)(nil)
