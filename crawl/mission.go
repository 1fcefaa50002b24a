// Package crawl runs scraping missions: it discovers project pages from
// listing pages and sitemaps and extracts each one through the pipeline.
package crawl

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/fwojciec/credex"
	"github.com/fwojciec/credex/cascade"
	"golang.org/x/sync/errgroup"
)

// Mission defaults.
const (
	DefaultConcurrency     = 4
	DefaultMaxListingPages = 5

	frontierExpectedURLs      = 10000
	frontierFalsePositiveRate = 0.01
)

// PageExtractor runs the extraction pipeline for one URL.
type PageExtractor interface {
	ExtractURL(ctx context.Context, url string, hints credex.Hints) *cascade.Result
}

// Mission discovers and extracts project pages. Fetcher, Scanner,
// Extractor and Store are required; the rest are optional.
type Mission struct {
	Fetcher   credex.HTMLFetcher
	Scanner   credex.LinkScanner
	Extractor PageExtractor
	Store     credex.RecordStore

	Writer    credex.RecordWriter
	Knowledge credex.KnowledgeBase
	Sitemaps  credex.SitemapService
	Logger    *slog.Logger

	Concurrency     int
	MaxListingPages int
	// MaxProjects caps the number of project pages extracted; 0 means no cap.
	MaxProjects int
	// ForceRefresh bypasses snapshots for listing pages.
	ForceRefresh bool
}

// MissionResult summarizes a mission.
type MissionResult struct {
	Scraped int
	Failed  int
	Records []*credex.Record
}

// Run processes startURLs. Start URLs matching a known project pattern are
// extracted directly; others are scanned as listing pages. A page whose
// fetch fails or whose record has no companies counts as failed and is
// skipped. Run returns an error only when ctx is canceled.
func (m *Mission) Run(ctx context.Context, startURLs []string) (*MissionResult, error) {
	r := &missionRun{
		Mission:  m,
		frontier: NewFrontier(frontierExpectedURLs, frontierFalsePositiveRate),
		records:  map[int]*credex.Record{},
		logger:   m.Logger,
	}
	if r.logger == nil {
		r.logger = slog.New(slog.DiscardHandler)
	}

	for _, u := range startURLs {
		kind := KindListing
		if isProjectURL(u) {
			kind = KindProject
		}
		r.frontier.Push(Link{URL: u, Kind: kind})
		if kind == KindListing {
			r.discoverSitemap(ctx, u)
		}
	}

	concurrency := m.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for {
		if err := ctx.Err(); err != nil {
			break
		}
		link, ok := r.frontier.Pop()
		if !ok {
			// Only this loop pushes, so an empty frontier ends the mission.
			break
		}
		if m.MaxProjects > 0 && r.dispatched >= m.MaxProjects {
			break
		}
		switch link.Kind {
		case KindListing:
			r.scanListing(ctx, link.URL)
		case KindProject:
			index := r.dispatched
			r.dispatched++
			pageURL := link.URL
			g.Go(func() error {
				r.extract(gctx, index, pageURL)
				return nil
			})
		}
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return r.result(), err
	}
	return r.result(), nil
}

type missionRun struct {
	*Mission
	frontier   *Frontier
	logger     *slog.Logger
	dispatched int

	mu      sync.Mutex
	scraped int
	failed  int
	records map[int]*credex.Record
}

func (r *missionRun) fail() {
	r.mu.Lock()
	r.failed++
	r.mu.Unlock()
}

func (r *missionRun) result() *MissionResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	res := &MissionResult{Scraped: r.scraped, Failed: r.failed, Records: []*credex.Record{}}
	for i := 0; i < r.dispatched; i++ {
		if rec, ok := r.records[i]; ok {
			res.Records = append(res.Records, rec)
		}
	}
	return res
}

// discoverSitemap queues the project URLs listed in the site's sitemap.
// Unknown domains have no project pattern and are skipped.
func (r *missionRun) discoverSitemap(ctx context.Context, startURL string) {
	if r.Sitemaps == nil {
		return
	}
	filter := credex.ProjectFilter(credex.Domain(startURL))
	if filter == nil {
		return
	}
	urls, err := r.Sitemaps.DiscoverURLs(ctx, startURL, filter)
	if err != nil {
		r.logger.Warn("sitemap discovery failed", "url", startURL, "err", err)
		return
	}
	queued := 0
	for _, u := range urls {
		if r.frontier.Push(Link{URL: u, Kind: KindProject}) {
			queued++
		}
	}
	r.logger.Info("sitemap discovery", "url", startURL, "found", len(urls), "queued", queued)
}

// scanListing analyzes a listing page, queueing its project links and the
// next page when the listing is paginated. A listing without project links
// is treated as a project page itself.
func (r *missionRun) scanListing(ctx context.Context, listingURL string) {
	fetched, err := r.Fetcher.FetchHTML(ctx, listingURL, r.ForceRefresh)
	if err != nil {
		r.logger.Error("listing fetch failed", "url", listingURL, "err", err)
		r.fail()
		return
	}
	analysis, err := r.Scanner.Analyze(fetched.HTML, listingURL)
	if err != nil {
		r.logger.Error("listing analysis failed", "url", listingURL, "err", err)
		r.fail()
		return
	}

	queued := 0
	for _, u := range analysis.ProjectLinks {
		if r.frontier.Push(Link{URL: u, Kind: KindProject}) {
			queued++
		}
	}
	r.logger.Info("listing scanned",
		"url", listingURL,
		"strategy", analysis.Strategy,
		"projects", len(analysis.ProjectLinks),
		"queued", queued,
	)

	if len(analysis.ProjectLinks) == 0 && !analysis.HasPagination {
		index := r.dispatched
		r.dispatched++
		r.extract(ctx, index, listingURL)
		return
	}

	if next, ok := r.nextPage(listingURL, analysis); ok {
		r.frontier.Push(Link{URL: next, Kind: KindListing})
	}
}

// nextPage returns the URL of the following listing page, if any.
func (r *missionRun) nextPage(listingURL string, analysis *credex.SiteAnalysis) (string, bool) {
	if !analysis.HasPagination {
		return "", false
	}
	u, err := url.Parse(listingURL)
	if err != nil {
		return "", false
	}
	q := u.Query()
	page, err := strconv.Atoi(q.Get("page"))
	if err != nil || page < 1 {
		page = 1
	}
	limit := r.MaxListingPages
	if limit <= 0 {
		limit = DefaultMaxListingPages
	}
	if page >= limit || (analysis.MaxPage > 0 && page >= analysis.MaxPage) {
		return "", false
	}
	q.Set("page", strconv.Itoa(page+1))
	u.RawQuery = q.Encode()
	return u.String(), true
}

// extract runs the pipeline for one project page and stores the record.
func (r *missionRun) extract(ctx context.Context, index int, pageURL string) {
	domain := credex.Domain(pageURL)
	res := r.Extractor.ExtractURL(ctx, pageURL, r.hints(ctx, domain))

	if res.Err != nil {
		r.logger.Error("page failed", "url", pageURL, "err", res.Err)
		r.fail()
		return
	}
	record := res.Record
	if record == nil || len(record.Companies) == 0 {
		r.logger.Warn("page yielded no companies", "url", pageURL)
		r.fail()
		return
	}

	if err := r.Store.SaveRecord(ctx, record); err != nil {
		r.logger.Error("saving record failed", "url", pageURL, "err", err)
		r.fail()
		return
	}
	if r.Writer != nil {
		if err := r.Writer.WriteRecord(record); err != nil {
			r.logger.Warn("writing record file failed", "url", pageURL, "err", err)
		}
	}
	r.learn(ctx, domain, record, res.Selectors)

	r.mu.Lock()
	r.scraped++
	r.records[index] = record
	r.mu.Unlock()

	r.logger.Info("page scraped",
		"url", pageURL,
		"method", record.Meta.ExtractionMethod,
		"companies", len(record.Companies),
		"credits", record.CreditCount(),
		"cached", res.FromCache,
	)
}

func (r *missionRun) hints(ctx context.Context, domain string) credex.Hints {
	hints, err := LoadHints(ctx, r.Knowledge, domain)
	if err != nil {
		r.logger.Warn("knowledge lookup failed", "domain", domain, "err", err)
	}
	return hints
}

func (r *missionRun) learn(ctx context.Context, domain string, record *credex.Record, selectors credex.LearnedSelectors) {
	if err := Learn(ctx, r.Knowledge, domain, record, selectors); err != nil {
		r.logger.Warn("knowledge update failed", "domain", domain, "err", err)
	}
}

// LoadHints builds per-page hints from what kb learned about domain. A nil
// kb or empty domain yields empty hints. Lookup failures are returned
// alongside whatever could be loaded.
func LoadHints(ctx context.Context, kb credex.KnowledgeBase, domain string) (credex.Hints, error) {
	var hints credex.Hints
	if kb == nil || domain == "" {
		return hints, nil
	}
	preferred, perr := kb.PreferredMethods(ctx, domain)
	hints.Preferred = preferred

	selectors, serr := kb.Selectors(ctx, domain)
	if len(selectors) > 0 {
		hints.Selectors = selectors
	}
	return hints, errors.Join(perr, serr)
}

// Learn writes the method that produced record's companies and any oracle
// selectors back to kb. Records without companies teach nothing.
func Learn(ctx context.Context, kb credex.KnowledgeBase, domain string, record *credex.Record, selectors credex.LearnedSelectors) error {
	if kb == nil || domain == "" || record == nil || len(record.Companies) == 0 {
		return nil
	}
	var errs []error
	if method := BaseMethod(record.Meta.ExtractionMethod); method != "" {
		if err := kb.RecordSuccess(ctx, domain, method); err != nil {
			errs = append(errs, err)
		}
	}
	for strategy, learned := range selectors {
		if len(learned) == 0 {
			continue
		}
		if err := kb.SaveSelectors(ctx, domain, strategy, learned); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// BaseMethod strips escalation prefixes such as "oracle+" or "render+"
// from an extraction method, leaving the strategy that produced companies.
func BaseMethod(method string) credex.StrategyID {
	if i := strings.LastIndex(method, "+"); i >= 0 {
		method = method[i+1:]
	}
	return credex.StrategyID(method)
}

func isProjectURL(u string) bool {
	p, ok := credex.PatternsFor(credex.Domain(u))
	return ok && p.Project != nil && p.Project.MatchString(u)
}
