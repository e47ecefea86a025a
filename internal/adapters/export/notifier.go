package export

import (
	"context"
	"log/slog"
)

// LogNotifier reports export problems through the structured logger.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a LogNotifier. A nil logger uses slog.Default.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger}
}

// Notify logs message at error level with detail attached.
func (n *LogNotifier) Notify(ctx context.Context, message, detail string) error {
	n.logger.ErrorContext(ctx, message, "detail", detail)
	return nil
}
