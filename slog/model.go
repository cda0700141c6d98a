package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/docrag"
)

var _ docrag.LanguageModel = (*LoggingLanguageModel)(nil)

// LoggingLanguageModel wraps a LanguageModel with logging.
type LoggingLanguageModel struct {
	next   docrag.LanguageModel
	logger *slog.Logger
}

// NewLoggingLanguageModel returns a LanguageModel that logs calls to next.
func NewLoggingLanguageModel(next docrag.LanguageModel, logger *slog.Logger) *LoggingLanguageModel {
	return &LoggingLanguageModel{next: next, logger: logger}
}

// Complete delegates to the wrapped model and logs prompt and reply sizes.
func (m *LoggingLanguageModel) Complete(ctx context.Context, prompt string) (reply string, err error) {
	defer func(begin time.Time) {
		m.logger.Info("complete",
			"prompt_chars", len(prompt),
			"reply_chars", len(reply),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return m.next.Complete(ctx, prompt)
}
