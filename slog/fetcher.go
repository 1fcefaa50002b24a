package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/credex"
)

var _ credex.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps a Fetcher with logging.
type LoggingFetcher struct {
	next   credex.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next credex.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch delegates to the wrapped fetcher and logs the operation.
func (f *LoggingFetcher) Fetch(ctx context.Context, url string) (html string, err error) {
	defer func(begin time.Time) {
		f.logger.Info("fetch",
			"url", url,
			"bytes", len(html),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return f.next.Fetch(ctx, url)
}

var _ credex.HTMLFetcher = (*LoggingHTMLFetcher)(nil)

// LoggingHTMLFetcher wraps an HTMLFetcher with logging.
type LoggingHTMLFetcher struct {
	next   credex.HTMLFetcher
	logger *slog.Logger
}

// NewLoggingHTMLFetcher creates a new LoggingHTMLFetcher.
func NewLoggingHTMLFetcher(next credex.HTMLFetcher, logger *slog.Logger) *LoggingHTMLFetcher {
	return &LoggingHTMLFetcher{next: next, logger: logger}
}

// FetchHTML delegates to the wrapped fetcher and logs whether the page was cached.
func (f *LoggingHTMLFetcher) FetchHTML(ctx context.Context, url string, forceRefresh bool) (result *credex.FetchResult, err error) {
	defer func(begin time.Time) {
		cached := result != nil && result.FromCache
		f.logger.Info("fetch html",
			"url", url,
			"force_refresh", forceRefresh,
			"cached", cached,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return f.next.FetchHTML(ctx, url, forceRefresh)
}
