package credex

import "context"

// Fetcher retrieves raw HTML from URLs.
type Fetcher interface {
	// Fetch returns the page body. The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)
}

// FetchResult is the outcome of an HTMLFetcher call.
type FetchResult struct {
	HTML      string
	FromCache bool
}

// HTMLFetcher delivers page HTML, optionally from a snapshot cache.
type HTMLFetcher interface {
	// FetchHTML returns the page HTML. forceRefresh bypasses any cache.
	// Returns EFETCH when no HTML could be delivered.
	FetchHTML(ctx context.Context, url string, forceRefresh bool) (*FetchResult, error)
}

// SnapshotCache stores raw page HTML keyed by URL.
type SnapshotCache interface {
	// Get returns the cached HTML and whether it was present.
	Get(url string) (html string, ok bool, err error)

	// Put stores the HTML for url, replacing any previous snapshot.
	Put(url string, html string) error
}
