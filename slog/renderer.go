package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/credex"
)

var _ credex.Renderer = (*LoggingRenderer)(nil)

// LoggingRenderer wraps a Renderer with logging.
type LoggingRenderer struct {
	next   credex.Renderer
	logger *slog.Logger
}

// NewLoggingRenderer creates a new LoggingRenderer.
func NewLoggingRenderer(next credex.Renderer, logger *slog.Logger) *LoggingRenderer {
	return &LoggingRenderer{next: next, logger: logger}
}

// Render delegates to the wrapped renderer and logs the operation.
func (r *LoggingRenderer) Render(ctx context.Context, req credex.RenderRequest) (html string, err error) {
	defer func(begin time.Time) {
		r.logger.Info("render",
			"url", req.URL,
			"clicks", len(req.ClickSelectors),
			"bytes", len(html),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return r.next.Render(ctx, req)
}
