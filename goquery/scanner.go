package goquery

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/credex"
)

var _ credex.LinkScanner = (*Scanner)(nil)

var (
	projectKeywords = []string{"/work/", "/project", "/case", "/entry"}
	companyKeywords = []string{"/company", "/companies/", "/studio", "/vendor"}
	personKeywords  = []string{"/profile", "/people/"}
	roleWords       = []string{"director", "producer", "editor", "dop", "client", "agency", "production company"}
	pageParam       = regexp.MustCompile(`[?&]page=(\d+)`)
)

// Scanner analyzes listing pages: it groups same-host links into project,
// company and person links using the domain's URL patterns (or path
// keywords on unknown domains) and recommends a site strategy.
type Scanner struct{}

// NewScanner creates a new Scanner.
func NewScanner() *Scanner {
	return &Scanner{}
}

// Analyze groups the page's links. Links keep document order and are deduplicated.
func (s *Scanner) Analyze(rawHTML string, baseURL string) (*credex.SiteAnalysis, error) {
	base, err := url.Parse(baseURL)
	if err != nil || base.Host == "" {
		return nil, credex.Errorf(credex.EINVALID, "invalid base URL: %q", baseURL)
	}
	doc, err := parseDocument(rawHTML)
	if err != nil {
		return nil, err
	}

	patterns, known := credex.PatternsFor(base.Hostname())
	analysis := &credex.SiteAnalysis{
		Headline: text(doc.Find("h1").First()),
		Strategy: credex.SiteUnknown,
	}
	if analysis.Headline == "" {
		analysis.Headline = text(doc.Find("title").First())
	}

	seen := make(map[string]bool)
	var all []string
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href := a.AttrOr("href", "")
		if isNonHTTPLink(href) {
			return
		}
		resolved := resolveURL(base, href)
		if resolved == "" || seen[resolved] || !isSameHost(base, resolved) {
			return
		}
		seen[resolved] = true
		all = append(all, resolved)

		switch {
		case matchesKind(resolved, patterns.Project, known, projectKeywords):
			analysis.ProjectLinks = append(analysis.ProjectLinks, resolved)
		case matchesKind(resolved, patterns.Company, known, companyKeywords):
			analysis.CompanyLinks = append(analysis.CompanyLinks, resolved)
		case matchesKind(resolved, patterns.Person, known, personKeywords):
			analysis.PersonLinks = append(analysis.PersonLinks, resolved)
		}
	})

	pageText := strings.ToLower(doc.Find("body").Text())
	analysis.HasPagination = doc.Find("a[href*='page='], a[rel='next'], .pagination").Length() > 0 ||
		strings.Contains(pageText, "next page")
	for _, link := range all {
		if m := pageParam.FindStringSubmatch(link); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil && n > analysis.MaxPage {
				analysis.MaxPage = n
			}
		}
	}
	for _, role := range roleWords {
		if strings.Contains(pageText, role) {
			analysis.RolesDetected = append(analysis.RolesDetected, role)
		}
	}

	recommend(analysis)
	return analysis, nil
}

// recommend scores the site strategies and keeps the best.
func recommend(a *credex.SiteAnalysis) {
	hasRoles := len(a.RolesDetected) > 0
	gallery := len(a.ProjectLinks) > 10
	switch {
	case gallery && hasRoles:
		a.Strategy, a.Confidence = credex.SiteProjectWithCredits, 0.9
	case gallery:
		a.Strategy, a.Confidence = credex.SiteBasicGallery, 0.7
	case len(a.CompanyLinks) > 0 || len(a.PersonLinks) > 0:
		a.Strategy, a.Confidence = credex.SiteDirectoryStyle, 0.6
	default:
		a.Strategy, a.Confidence = credex.SiteUnknown, 0.3
	}
}

// matchesKind uses the domain pattern on known domains and path keywords
// otherwise. Keywords never match the host.
func matchesKind(link string, pattern *regexp.Regexp, known bool, keywords []string) bool {
	if known {
		return pattern != nil && pattern.MatchString(link)
	}
	u, err := url.Parse(link)
	if err != nil {
		return false
	}
	path := strings.ToLower(u.Path)
	for _, kw := range keywords {
		if strings.Contains(path, kw) {
			return true
		}
	}
	return false
}

// isSameHost checks if the resolved URL has the same host as the base URL,
// ignoring a leading "www.".
func isSameHost(base *url.URL, resolved string) bool {
	u, err := url.Parse(resolved)
	if err != nil {
		return false
	}
	return credex.Domain(u.String()) == credex.Domain(base.String())
}
