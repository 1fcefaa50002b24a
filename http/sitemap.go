package http

import (
	"bufio"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/beevik/etree"
	"github.com/fwojciec/credex"
)

// DefaultMaxSitemapURLs caps the number of URLs collected per discovery.
const DefaultMaxSitemapURLs = 50000

var _ credex.SitemapService = (*SitemapService)(nil)

// SitemapService discovers project page URLs from a site's sitemaps.
type SitemapService struct {
	client *http.Client
	max    int
}

// NewSitemapService creates a SitemapService using client.
// If client is nil, http.DefaultClient is used.
func NewSitemapService(client *http.Client) *SitemapService {
	if client == nil {
		client = http.DefaultClient
	}
	return &SitemapService{client: client, max: DefaultMaxSitemapURLs}
}

// DiscoverURLs returns the URLs listed in the sitemaps of baseURL's site
// that pass filter. Returns an empty slice when the site has no sitemap.
func (s *SitemapService) DiscoverURLs(ctx context.Context, baseURL string, filter *credex.URLFilter) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	base, err := url.Parse(baseURL)
	if err != nil || base.Host == "" {
		return nil, credex.Errorf(credex.EINVALID, "invalid base url %q", baseURL)
	}
	root := &url.URL{Scheme: base.Scheme, Host: base.Host}

	sitemaps, err := s.locate(ctx, root)
	if err != nil {
		return nil, err
	}

	w := &sitemapWalk{
		svc:     s,
		filter:  filter,
		visited: make(map[string]bool),
		seen:    make(map[string]bool),
		urls:    []string{},
	}
	for _, sm := range sitemaps {
		if err := w.visit(ctx, sm); err != nil {
			return nil, err
		}
	}
	return w.urls, nil
}

// locate returns the sitemaps declared in robots.txt, or /sitemap.xml when
// robots.txt declares none and the file exists.
func (s *SitemapService) locate(ctx context.Context, root *url.URL) ([]string, error) {
	robots := root.ResolveReference(&url.URL{Path: "/robots.txt"}).String()
	if declared, err := s.robotsSitemaps(ctx, robots); err == nil && len(declared) > 0 {
		return declared, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fallback := root.ResolveReference(&url.URL{Path: "/sitemap.xml"}).String()
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, fallback, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, nil
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, nil
	}
	return []string{fallback}, nil
}

func (s *SitemapService) robotsSitemaps(ctx context.Context, robotsURL string) ([]string, error) {
	body, err := s.open(ctx, robotsURL)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var sitemaps []string
	sc := bufio.NewScanner(body)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if len(line) < len("sitemap:") || !strings.EqualFold(line[:len("sitemap:")], "sitemap:") {
			continue
		}
		if u := strings.TrimSpace(line[len("sitemap:"):]); u != "" {
			sitemaps = append(sitemaps, u)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading robots.txt: %w", err)
	}
	return sitemaps, nil
}

// open GETs targetURL and returns its body, transparently decompressing
// gzipped sitemaps.
func (s *SitemapService) open(ctx context.Context, targetURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", DefaultUserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, credex.Errorf(credex.EFETCH, "HTTP %d for %s", resp.StatusCode, targetURL)
	}
	if !strings.HasSuffix(strings.ToLower(req.URL.Path), ".gz") {
		return resp.Body, nil
	}
	zr, err := gzip.NewReader(resp.Body)
	if err != nil {
		resp.Body.Close()
		return nil, credex.Errorf(credex.EMALFORMED, "gzip sitemap %s: %v", targetURL, err)
	}
	return gzipBody{Reader: zr, body: resp.Body}, nil
}

type gzipBody struct {
	*gzip.Reader
	body io.Closer
}

func (g gzipBody) Close() error {
	_ = g.Reader.Close()
	return g.body.Close()
}

// sitemapWalk accumulates URLs across a tree of sitemap indexes.
type sitemapWalk struct {
	svc     *SitemapService
	filter  *credex.URLFilter
	visited map[string]bool
	seen    map[string]bool
	urls    []string
}

func (w *sitemapWalk) full() bool {
	return w.svc.max > 0 && len(w.urls) >= w.svc.max
}

func (w *sitemapWalk) visit(ctx context.Context, sitemapURL string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if w.visited[sitemapURL] || w.full() {
		return nil
	}
	w.visited[sitemapURL] = true

	body, err := w.svc.open(ctx, sitemapURL)
	if err != nil {
		return err
	}
	defer body.Close()

	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(body); err != nil {
		return credex.Errorf(credex.EMALFORMED, "parsing sitemap %s: %v", sitemapURL, err)
	}
	root := doc.Root()
	if root == nil {
		return credex.Errorf(credex.EMALFORMED, "empty sitemap %s", sitemapURL)
	}

	if root.Tag == "sitemapindex" {
		for _, child := range locs(root, "sitemap") {
			if err := w.visit(ctx, child); err != nil {
				return err
			}
		}
		return nil
	}

	for _, u := range locs(root, "url") {
		if w.full() {
			break
		}
		if w.seen[u] || !w.filter.Match(u) {
			continue
		}
		w.seen[u] = true
		w.urls = append(w.urls, u)
	}
	return nil
}

// locs returns the trimmed <loc> text of every tag child of root.
func locs(root *etree.Element, tag string) []string {
	var out []string
	for _, el := range root.SelectElements(tag) {
		loc := el.SelectElement("loc")
		if loc == nil {
			continue
		}
		if u := strings.TrimSpace(loc.Text()); u != "" {
			out = append(out, u)
		}
	}
	return out
}
