package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/docrag"
)

var _ docrag.Embedder = (*LoggingEmbedder)(nil)

// LoggingEmbedder wraps an Embedder. Successful calls are logged at debug
// level since an index build embeds every chunk; failures at error level.
type LoggingEmbedder struct {
	next   docrag.Embedder
	logger *slog.Logger
}

// NewLoggingEmbedder returns an Embedder that logs calls to next.
func NewLoggingEmbedder(next docrag.Embedder, logger *slog.Logger) *LoggingEmbedder {
	return &LoggingEmbedder{next: next, logger: logger}
}

// Embed delegates to the wrapped embedder.
func (e *LoggingEmbedder) Embed(ctx context.Context, text string) (vec []float32, err error) {
	defer func(begin time.Time) {
		if err != nil {
			e.logger.Error("embed",
				"chars", len(text),
				"duration", time.Since(begin),
				"err", err,
			)
			return
		}
		e.logger.Debug("embed",
			"chars", len(text),
			"dims", len(vec),
			"duration", time.Since(begin),
		)
	}(time.Now())
	return e.next.Embed(ctx, text)
}
