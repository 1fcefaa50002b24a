package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/credex"
)

var _ credex.SitemapService = (*LoggingSitemapService)(nil)

// LoggingSitemapService wraps a SitemapService with logging. On domains with
// known URL patterns it also reports how many discovered URLs are project
// pages, and warns when a known domain yields none.
type LoggingSitemapService struct {
	next   credex.SitemapService
	logger *slog.Logger
}

// NewLoggingSitemapService creates a new LoggingSitemapService.
func NewLoggingSitemapService(next credex.SitemapService, logger *slog.Logger) *LoggingSitemapService {
	return &LoggingSitemapService{next: next, logger: logger}
}

// DiscoverURLs delegates to the wrapped service and logs the operation.
func (s *LoggingSitemapService) DiscoverURLs(ctx context.Context, baseURL string, filter *credex.URLFilter) (urls []string, err error) {
	defer func(begin time.Time) {
		domain := credex.Domain(baseURL)
		attrs := []any{
			"domain", domain,
			"filtered", filter != nil,
			"count", len(urls),
			"duration", time.Since(begin),
		}
		level := slog.LevelInfo
		if patterns, known := credex.PatternsFor(domain); known && patterns.Project != nil {
			projects := 0
			for _, u := range urls {
				if patterns.Project.MatchString(u) {
					projects++
				}
			}
			attrs = append(attrs, "projects", projects)
			if projects == 0 && err == nil {
				level = slog.LevelWarn
			}
		}
		if err != nil {
			attrs = append(attrs, "err", err)
		}
		s.logger.Log(ctx, level, "sitemap discovery", attrs...)
	}(time.Now())
	return s.next.DiscoverURLs(ctx, baseURL, filter)
}
