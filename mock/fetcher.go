package mock

import (
	"context"

	"github.com/fwojciec/credex"
)

var _ credex.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of credex.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (string, error)
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	return f.FetchFn(ctx, url)
}

var _ credex.HTMLFetcher = (*HTMLFetcher)(nil)

// HTMLFetcher is a mock implementation of credex.HTMLFetcher.
type HTMLFetcher struct {
	FetchHTMLFn func(ctx context.Context, url string, forceRefresh bool) (*credex.FetchResult, error)
}

func (f *HTMLFetcher) FetchHTML(ctx context.Context, url string, forceRefresh bool) (*credex.FetchResult, error) {
	return f.FetchHTMLFn(ctx, url, forceRefresh)
}

var _ credex.SnapshotCache = (*SnapshotCache)(nil)

// SnapshotCache is a mock implementation of credex.SnapshotCache.
type SnapshotCache struct {
	GetFn func(url string) (string, bool, error)
	PutFn func(url string, html string) error
}

func (c *SnapshotCache) Get(url string) (string, bool, error) {
	return c.GetFn(url)
}

func (c *SnapshotCache) Put(url string, html string) error {
	return c.PutFn(url, html)
}

var _ credex.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter is a mock implementation of credex.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (l *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return l.WaitFn(ctx, domain)
}
