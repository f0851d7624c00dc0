package action

import (
	"context"
	"log/slog"

	"github.com/pastewatch/pastewatch/internal/model"
)

// LogMatch emits a structured log record for every match. It is the
// cheapest possible alert channel and useful as a smoke test for a new
// matcher configuration.
type LogMatch struct {
	logger *slog.Logger
}

// NewLogMatch creates a LogMatch action. A nil logger means slog.Default.
func NewLogMatch(logger *slog.Logger) *LogMatch {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogMatch{logger: logger}
}

// Name returns the action name.
func (a *LogMatch) Name() string {
	return "log"
}

// Perform logs the match. Matched terms go through the redacting log
// handler, so credential-looking values are masked on output.
func (a *LogMatch) Perform(_ context.Context, paste *model.Paste, matcherName string, matches []string) error {
	a.logger.Info("paste matched",
		"key", paste.Key,
		"source", paste.Source,
		"matcher", matcherName,
		"match_count", len(matches),
	)
	return nil
}
