package credex

import (
	"net/url"
	"regexp"
	"strings"
)

// Domain returns the host of rawURL without a leading "www.", lower-cased.
// Returns "" when rawURL cannot be parsed.
func Domain(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}

// HostMatches reports whether host is suffix or a subdomain of it.
func HostMatches(host, suffix string) bool {
	host = strings.TrimPrefix(strings.ToLower(host), "www.")
	return host == suffix || strings.HasSuffix(host, "."+suffix)
}

// URLPatterns classifies a site's URLs.
type URLPatterns struct {
	Project *regexp.Regexp
	Company *regexp.Regexp
	Person  *regexp.Regexp
	Listing *regexp.Regexp
}

var knownURLPatterns = map[string]URLPatterns{
	"lbbonline.com": {
		Project: regexp.MustCompile(`^https?://(?:www\.)?lbbonline\.com/work/\d+`),
		Company: regexp.MustCompile(`^https?://(?:www\.)?lbbonline\.com/companies/`),
		Person:  regexp.MustCompile(`^https?://(?:www\.)?lbbonline\.com/people/`),
		Listing: regexp.MustCompile(`^https?://(?:www\.)?lbbonline\.com/work\?`),
	},
	"dandad.org": {
		Project: regexp.MustCompile(`^https?://(?:www\.)?dandad\.org/awards/.*/\d+/`),
		Company: regexp.MustCompile(`^https?://(?:www\.)?dandad\.org/profiles/`),
		Listing: regexp.MustCompile(`^https?://(?:www\.)?dandad\.org/search/archive/`),
	},
	"eyecannndy.com": {
		Project: regexp.MustCompile(`^https?://(?:www\.)?eyecannndy\.com/project/`),
		Listing: regexp.MustCompile(`^https?://(?:www\.)?eyecannndy\.com/technique/`),
	},
}

// PatternsFor returns the URL patterns of a known domain.
func PatternsFor(domain string) (URLPatterns, bool) {
	for suffix, p := range knownURLPatterns {
		if HostMatches(domain, suffix) {
			return p, true
		}
	}
	return URLPatterns{}, false
}

// SiteStrategy is the recommended way to scrape a site.
type SiteStrategy string

// Site strategies.
const (
	SiteProjectWithCredits SiteStrategy = "project_with_credits"
	SiteBasicGallery       SiteStrategy = "basic_gallery"
	SiteDirectoryStyle     SiteStrategy = "directory_style"
	SiteUnknown            SiteStrategy = "unknown"
)

// SiteAnalysis describes a listing or landing page.
type SiteAnalysis struct {
	Headline      string
	ProjectLinks  []string
	CompanyLinks  []string
	PersonLinks   []string
	HasPagination bool
	MaxPage       int
	RolesDetected []string
	Strategy      SiteStrategy
	Confidence    float64
}

// LinkScanner analyzes listing pages.
type LinkScanner interface {
	// Analyze groups the page's links and recommends a site strategy.
	// Links are resolved against baseURL.
	Analyze(html string, baseURL string) (*SiteAnalysis, error)
}
