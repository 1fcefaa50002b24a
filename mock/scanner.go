package mock

import (
	"context"

	"github.com/fwojciec/credex"
)

var _ credex.LinkScanner = (*LinkScanner)(nil)

// LinkScanner is a mock implementation of credex.LinkScanner.
type LinkScanner struct {
	AnalyzeFn func(html string, baseURL string) (*credex.SiteAnalysis, error)
}

func (s *LinkScanner) Analyze(html string, baseURL string) (*credex.SiteAnalysis, error) {
	return s.AnalyzeFn(html, baseURL)
}

var _ credex.SitemapService = (*SitemapService)(nil)

// SitemapService is a mock implementation of credex.SitemapService.
type SitemapService struct {
	DiscoverURLsFn func(ctx context.Context, baseURL string, filter *credex.URLFilter) ([]string, error)
}

func (s *SitemapService) DiscoverURLs(ctx context.Context, baseURL string, filter *credex.URLFilter) ([]string, error) {
	return s.DiscoverURLsFn(ctx, baseURL, filter)
}
