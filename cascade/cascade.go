// Package cascade runs the extraction state machine for one page: structure
// detection, the strategy cascade, validation and the escalation tiers.
// Absence of data never surfaces as an error; it is reported in the
// record's meta block.
package cascade

import (
	"context"
	"log/slog"
	"slices"

	"github.com/fwojciec/credex"
)

// Result is the outcome of one page run.
type Result struct {
	Record *credex.Record

	// Selectors holds the merged selector overrides, keyed by the strategy
	// they were run with, when an oracle suggestion improved the record.
	Selectors credex.LearnedSelectors

	// FromCache reports whether the page HTML came from a snapshot.
	FromCache bool

	// Err is the fetch failure that aborted the run, if any.
	Err error
}

// Pipeline extracts records from project pages.
type Pipeline struct {
	detector credex.StructureDetector
	registry credex.StrategyRegistry
	metadata credex.MetadataExtractor
	fetcher  credex.HTMLFetcher
	oracle   credex.SelectorOracle
	renderer credex.Renderer
	roles    credex.RoleResolver
	config   credex.PipelineConfig
	logger   *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithFetcher sets the collaborator ExtractURL fetches pages with.
func WithFetcher(f credex.HTMLFetcher) Option {
	return func(p *Pipeline) {
		p.fetcher = f
	}
}

// WithOracle sets the selector oracle used by the oracle tier.
func WithOracle(o credex.SelectorOracle) Option {
	return func(p *Pipeline) {
		p.oracle = o
	}
}

// WithRenderer sets the headless renderer used by the render tier.
func WithRenderer(r credex.Renderer) Option {
	return func(p *Pipeline) {
		p.renderer = r
	}
}

// WithRoleResolver sets the resolver consulted for credits without a role.
func WithRoleResolver(r credex.RoleResolver) Option {
	return func(p *Pipeline) {
		p.roles = r
	}
}

// WithLogger sets the logger for cascade events.
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = l
	}
}

// New creates a Pipeline. Collaborators that are not set, or whose tier is
// switched off in config, are replaced with their disabled counterparts.
func New(
	detector credex.StructureDetector,
	registry credex.StrategyRegistry,
	metadata credex.MetadataExtractor,
	config credex.PipelineConfig,
	opts ...Option,
) *Pipeline {
	p := &Pipeline{
		detector: detector,
		registry: registry,
		metadata: metadata,
		config:   withDefaults(config),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.oracle == nil || !p.config.AIEnabled {
		p.oracle = credex.DisabledOracle{}
	}
	if p.roles == nil || !p.config.AIEnabled {
		p.roles = credex.DisabledRoleResolver{}
	}
	if p.renderer == nil || !p.config.RenderEnabled {
		p.renderer = credex.DisabledRenderer{}
	}
	if p.logger == nil {
		p.logger = slog.New(slog.DiscardHandler)
	}
	return p
}

func withDefaults(c credex.PipelineConfig) credex.PipelineConfig {
	if c.OracleMaxIterations <= 0 {
		c.OracleMaxIterations = credex.DefaultOracleMaxIterations
	}
	if c.OracleTimeout <= 0 {
		c.OracleTimeout = credex.DefaultOracleTimeout
	}
	if c.RenderTimeout <= 0 {
		c.RenderTimeout = credex.DefaultRenderTimeout
	}
	if c.EscalationOrder == nil {
		c.EscalationOrder = []credex.Escalation{credex.EscalationOracle, credex.EscalationRender}
	}
	c.EscalationOrder = append([]credex.Escalation(nil), c.EscalationOrder...)
	return c
}

// ExtractURL fetches pageURL and extracts its record. A fetch failure yields
// a record with no companies and every field reported missing.
func (p *Pipeline) ExtractURL(ctx context.Context, pageURL string, hints credex.Hints) *Result {
	if p.fetcher == nil {
		return failed(pageURL, credex.Errorf(credex.EFETCH, "no fetcher configured"))
	}
	fetched, err := p.fetcher.FetchHTML(ctx, pageURL, p.config.ForceRefresh)
	if err != nil {
		p.logger.Warn("fetch failed", "url", pageURL, "error", err)
		return failed(pageURL, err)
	}
	result := p.Extract(ctx, fetched.HTML, pageURL, hints)
	result.FromCache = fetched.FromCache
	return result
}

func failed(pageURL string, err error) *Result {
	record := credex.Finalize(&credex.Record{URL: pageURL}, "")
	record.Meta.MissingFields = credex.AllMissingFields()
	return &Result{Record: record, Err: err}
}

// Extract runs the state machine over already fetched HTML.
func (p *Pipeline) Extract(ctx context.Context, html string, pageURL string, hints credex.Hints) *Result {
	run := &run{
		p:       p,
		html:    html,
		pageURL: pageURL,
		domain:  credex.Domain(pageURL),
		hints:   hints,
	}
	return run.execute(ctx)
}

// run holds the state of one page's pipeline.
type run struct {
	p       *Pipeline
	html    string
	pageURL string
	domain  string
	hints   credex.Hints

	variant     credex.StructureVariant
	record      *credex.Record
	method      string
	selectors   credex.LearnedSelectors
	escalations []string
}

func (r *run) execute(ctx context.Context) *Result {
	r.variant = r.p.detector.Detect(r.html, r.pageURL)
	r.record = r.p.extractMetadata(r.html, r.pageURL)
	if r.hints.Client == "" {
		r.hints.Client = r.record.Client
	}

	if partial, id := r.p.cascade(r.html, r.pageURL, r.variant, r.hints); partial != nil {
		r.record = merge(r.record, partial)
		r.method = string(id)
	}

	missing := credex.Validate(r.record)
	for _, tier := range r.p.config.EscalationOrder {
		if len(missing) == 0 {
			break
		}
		switch tier {
		case credex.EscalationOracle:
			if !r.p.config.AIEnabled {
				continue
			}
			r.escalations = append(r.escalations, string(tier))
			r.escalateOracle(ctx, missing)
		case credex.EscalationRender:
			if !r.p.config.RenderEnabled {
				continue
			}
			r.escalations = append(r.escalations, string(tier))
			r.escalateRender(ctx)
		}
		missing = credex.Validate(r.record)
	}

	final := credex.Finalize(r.record, r.method)
	if len(final.Meta.UnknownRoles) > 0 && r.p.config.AIEnabled {
		if resolved := r.p.resolveRoles(ctx, r.html, final); resolved != nil {
			final = credex.Finalize(resolved, r.method)
		}
	}
	final.Meta.StructureVariant = r.variant
	final.Meta.EscalationsUsed = r.escalations
	final.Meta.MissingFields = credex.Validate(final)

	r.p.logger.Info("extraction finished",
		"url", r.pageURL,
		"variant", r.variant,
		"method", r.method,
		"companies", len(final.Companies),
		"missing", len(final.Meta.MissingFields),
	)
	return &Result{Record: final, Selectors: r.selectors}
}

// escalateOracle asks the oracle for selectors and re-runs the variant's
// selector strategy with every suggestion received so far, until nothing is
// missing, the oracle has nothing to add, it fails, or the iteration cap is hit.
// An iteration is kept when it leaves fewer fields missing. Its companies
// replace the current ones only when they are a strictly better set.
func (r *run) escalateOracle(ctx context.Context, missing []credex.MissingField) {
	strategy := r.p.registry.Get(r.p.registry.SelectorStrategy(r.variant))
	if strategy == nil {
		return
	}
	id := strategy.ID()
	accumulated := credex.MergeSelectors(nil, r.hints.Selectors.For(id))

	for i := 0; i < r.p.config.OracleMaxIterations && len(missing) > 0; i++ {
		suggestion, err := r.p.suggest(ctx, credex.SuggestRequest{
			HTML:              r.html,
			URL:               r.pageURL,
			MissingFields:     missing,
			PreviousSelectors: credex.MergeSelectors(nil, accumulated),
		})
		if err != nil {
			r.p.logger.Warn("oracle failed", "url", r.pageURL, "iteration", i+1, "error", err)
			return
		}
		if suggestion.Empty() {
			r.p.logger.Debug("oracle has no suggestions", "url", r.pageURL, "iteration", i+1)
			return
		}
		accumulated = credex.MergeSelectors(accumulated, suggestion.Selectors)

		hints := r.hints
		hints.Selectors = credex.LearnedSelectors{id: accumulated}
		hints.AllowPartial = true
		partial, err := strategy.Attempt(r.html, r.pageURL, hints)
		r.p.logAttempt(r.pageURL, id, partial, err)
		if err != nil || partial == nil {
			continue
		}

		companies := improves(partial.Companies, r.record.Companies)
		if !companies {
			fields := *partial
			fields.Companies = nil
			partial = &fields
		}
		candidate := merge(r.record, partial)
		if next := credex.Validate(candidate); len(next) < len(missing) {
			r.record = candidate
			r.selectors = credex.LearnedSelectors{id: credex.MergeSelectors(nil, accumulated)}
			if companies {
				r.method = string(credex.EscalationOracle) + "+" + string(id)
			}
			missing = next
		}
	}
}

// improves reports whether candidate is a strictly better company set than
// current: more companies, then more credits, then fewer credits without a role.
func improves(candidate, current []credex.Company) bool {
	if len(candidate) != len(current) {
		return len(candidate) > len(current)
	}
	cc, cu := creditStats(candidate)
	rc, ru := creditStats(current)
	if cc != rc {
		return cc > rc
	}
	return cu < ru
}

func creditStats(companies []credex.Company) (credits, unassigned int) {
	for _, c := range companies {
		credits += len(c.Credits)
		for _, cr := range c.Credits {
			if cr.Role == "" {
				unassigned++
			}
		}
	}
	return credits, unassigned
}

func (p *Pipeline) suggest(ctx context.Context, req credex.SuggestRequest) (*credex.Suggestion, error) {
	ctx, cancel := context.WithTimeout(ctx, p.config.OracleTimeout)
	defer cancel()
	return p.oracle.Suggest(ctx, req)
}

// escalateRender re-runs detection and the cascade on rendered HTML and
// adopts the result only when it has strictly more companies.
func (r *run) escalateRender(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, r.p.config.RenderTimeout)
	defer cancel()

	rendered, err := r.p.renderer.Render(ctx, credex.RenderRequest{
		URL:            r.pageURL,
		ClickSelectors: credex.RevealHints(r.domain),
		Timeout:        r.p.config.RenderTimeout,
	})
	if err != nil || rendered == "" {
		r.p.logger.Warn("render failed", "url", r.pageURL, "error", err)
		return
	}

	variant := r.p.detector.Detect(rendered, r.pageURL)
	partial, id := r.p.cascade(rendered, r.pageURL, variant, r.hints)
	if partial == nil || len(partial.Companies) <= len(r.record.Companies) {
		r.p.logger.Debug("render did not improve", "url", r.pageURL, "variant", variant)
		return
	}

	partial = merge(partial, r.p.extractMetadata(rendered, r.pageURL))
	r.record = merge(r.record, partial)
	r.method = string(credex.EscalationRender) + "+" + string(id)
	r.variant = variant
	r.html = rendered
	r.selectors = nil
}

// cascade runs the ordered strategies and returns the first partial record
// with companies. Preferred strategies run first.
func (p *Pipeline) cascade(html, pageURL string, variant credex.StructureVariant, hints credex.Hints) (*credex.PartialRecord, credex.StrategyID) {
	order := dedupe(append(append([]credex.StrategyID(nil), hints.Preferred...),
		p.registry.StrategiesFor(variant, credex.Domain(pageURL))...))

	for _, id := range order {
		strategy := p.registry.Get(id)
		if strategy == nil {
			continue
		}
		partial, err := strategy.Attempt(html, pageURL, hints)
		p.logAttempt(pageURL, id, partial, err)
		if err == nil && partial != nil && len(partial.Companies) > 0 {
			return partial, id
		}
	}
	return nil, ""
}

func (p *Pipeline) logAttempt(pageURL string, id credex.StrategyID, partial *credex.PartialRecord, err error) {
	switch credex.ErrorCode(err) {
	case "":
		companies := 0
		if partial != nil {
			companies = len(partial.Companies)
		}
		p.logger.Debug("strategy matched", "url", pageURL, "strategy", id, "companies", companies)
	case credex.ENOMATCH:
		p.logger.Debug("strategy found nothing", "url", pageURL, "strategy", id)
	case credex.EMALFORMED:
		p.logger.Warn("malformed source", "url", pageURL, "strategy", id, "error", credex.ErrorMessage(err))
	default:
		p.logger.Error("strategy failed", "url", pageURL, "strategy", id, "error", err)
	}
}

func (p *Pipeline) extractMetadata(html, pageURL string) *credex.Record {
	record := &credex.Record{URL: pageURL}
	if p.metadata == nil {
		return record
	}
	meta, err := p.metadata.ExtractMetadata(html, pageURL)
	if err != nil || meta == nil {
		p.logger.Debug("metadata extraction failed", "url", pageURL, "error", err)
		return record
	}
	record = merge(record, meta)
	return record
}

// resolveRoles fills empty roles from the resolver. Returns nil when no
// role was resolved.
func (p *Pipeline) resolveRoles(ctx context.Context, html string, record *credex.Record) *credex.Record {
	ctx, cancel := context.WithTimeout(ctx, p.config.OracleTimeout)
	defer cancel()

	resolved, err := p.roles.ResolveRoles(ctx, html, record.Meta.UnknownRoles)
	if err != nil {
		p.logger.Warn("role resolution failed", "url", record.URL, "error", err)
		return nil
	}
	if len(resolved) == 0 {
		return nil
	}

	out := *record
	out.Companies = make([]credex.Company, len(record.Companies))
	filled := 0
	for i, c := range record.Companies {
		c.Credits = append([]credex.Credit(nil), c.Credits...)
		for j, cr := range c.Credits {
			if cr.Role != "" {
				continue
			}
			role := resolved[cr.Person.ID]
			if role == "" {
				role = resolved[cr.Person.Name]
			}
			if role != "" {
				c.Credits[j].Role = role
				filled++
			}
		}
		out.Companies[i] = c
	}
	if filled == 0 {
		return nil
	}
	p.logger.Debug("roles resolved", "url", record.URL, "count", filled)
	return &out
}

// merge returns base with blank fields filled from partial. Companies are
// taken from partial as a whole when it has any.
func merge(base *credex.Record, partial *credex.PartialRecord) *credex.Record {
	out := *base
	fill(&out.Title, partial.Title)
	fill(&out.Description, partial.Description)
	fill(&out.Client, partial.Client)
	fill(&out.Date, partial.Date)
	fill(&out.Location, partial.Location)
	fill(&out.Format, partial.Format)
	fill(&out.PosterImage, partial.PosterImage)
	out.VideoLinks = appendUnique(append([]string(nil), base.VideoLinks...), partial.VideoLinks...)
	if len(partial.Companies) > 0 {
		out.Companies = partial.Companies
	}
	if out.URL == "" {
		out.URL = partial.URL
	}
	return &out
}

func appendUnique(dst []string, values ...string) []string {
	for _, v := range values {
		if v != "" && !slices.Contains(dst, v) {
			dst = append(dst, v)
		}
	}
	return dst
}

func fill(dst *string, value string) {
	if *dst == "" {
		*dst = value
	}
}

func dedupe(ids []credex.StrategyID) []credex.StrategyID {
	seen := make(map[credex.StrategyID]bool, len(ids))
	out := ids[:0]
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
