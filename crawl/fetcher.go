package crawl

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/fwojciec/credex"
)

var _ credex.HTMLFetcher = (*SnapshotFetcher)(nil)

// SnapshotFetcher serves page HTML from a snapshot cache, falling back to
// a rate-limited, retrying network fetch whose result is cached.
type SnapshotFetcher struct {
	fetcher credex.Fetcher
	cache   credex.SnapshotCache
	limiter credex.DomainLimiter
	delays  []time.Duration
	logger  *slog.Logger
}

// FetcherOption configures a SnapshotFetcher.
type FetcherOption func(*SnapshotFetcher)

// WithCache sets the snapshot cache.
func WithCache(c credex.SnapshotCache) FetcherOption {
	return func(f *SnapshotFetcher) {
		f.cache = c
	}
}

// WithLimiter sets the per-domain rate limiter applied to network fetches.
func WithLimiter(l credex.DomainLimiter) FetcherOption {
	return func(f *SnapshotFetcher) {
		f.limiter = l
	}
}

// WithRetryDelays sets the delays between fetch attempts.
func WithRetryDelays(delays []time.Duration) FetcherOption {
	return func(f *SnapshotFetcher) {
		f.delays = delays
	}
}

// WithFetchLogger sets the logger for retries and cache failures.
func WithFetchLogger(l *slog.Logger) FetcherOption {
	return func(f *SnapshotFetcher) {
		f.logger = l
	}
}

// NewSnapshotFetcher creates a SnapshotFetcher over fetcher.
func NewSnapshotFetcher(fetcher credex.Fetcher, opts ...FetcherOption) *SnapshotFetcher {
	f := &SnapshotFetcher{
		fetcher: fetcher,
		delays:  DefaultRetryDelays(),
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FetchHTML returns the HTML for url. Cache read and write failures are
// logged and otherwise ignored. Returns EFETCH when no HTML is available.
func (f *SnapshotFetcher) FetchHTML(ctx context.Context, url string, forceRefresh bool) (*credex.FetchResult, error) {
	if f.cache != nil && !forceRefresh {
		html, ok, err := f.cache.Get(url)
		switch {
		case err != nil:
			f.logger.Warn("snapshot read failed", "url", url, "err", err)
		case ok && strings.TrimSpace(html) != "":
			return &credex.FetchResult{HTML: html, FromCache: true}, nil
		}
	}

	if f.limiter != nil {
		if err := f.limiter.Wait(ctx, credex.Domain(url)); err != nil {
			return nil, credex.Errorf(credex.EFETCH, "rate limit wait for %s: %v", url, err)
		}
	}

	html, err := FetchWithRetry(ctx, url, f.fetcher.Fetch, f.logger, f.delays)
	if err != nil {
		if credex.ErrorCode(err) == credex.EFETCH {
			return nil, err
		}
		return nil, credex.Errorf(credex.EFETCH, "fetching %s: %v", url, err)
	}
	if strings.TrimSpace(html) == "" {
		return nil, credex.Errorf(credex.EFETCH, "empty response for %s", url)
	}

	if f.cache != nil {
		if err := f.cache.Put(url, html); err != nil {
			f.logger.Warn("snapshot write failed", "url", url, "err", err)
		}
	}
	return &credex.FetchResult{HTML: html}, nil
}

// Fetch returns the HTML for url, using the cache when present.
func (f *SnapshotFetcher) Fetch(ctx context.Context, url string) (string, error) {
	res, err := f.FetchHTML(ctx, url, false)
	if err != nil {
		return "", err
	}
	return res.HTML, nil
}
