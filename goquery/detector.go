package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/credex"
)

var _ credex.StructureDetector = (*Detector)(nil)

// Embedded payload markers.
const (
	markerCredits    = `"lbb_credits":"`
	markerOldCredits = `"old_credits":"`
)

// hostRule classifies pages of one host. ok is false when the host's
// markers are absent and generic probing should decide.
type hostRule struct {
	suffix string
	detect func(doc *goquery.Document, rawHTML string) (variant credex.StructureVariant, ok bool)
}

// probe is one structural fingerprint voting for a variant.
type probe struct {
	variant credex.StructureVariant
	match   func(doc *goquery.Document, rawHTML string) bool
}

// Detector classifies page structure from the URL's host and DOM fingerprints.
// Host rules take precedence; otherwise each probe that fires adds one point to
// its variant and the highest score wins, ties going to the variant declared first.
type Detector struct {
	hostRules []hostRule
	probes    []probe
	order     []credex.StructureVariant
}

// NewDetector creates a Detector with the built-in host rules and probes.
func NewDetector() *Detector {
	d := &Detector{
		hostRules: []hostRule{
			{suffix: "lbbonline.com", detect: detectLBB},
			{suffix: "dandad.org", detect: detectAward},
		},
		// Declaration order doubles as the tie-break order.
		order: []credex.StructureVariant{
			credex.VariantJSONEmbedded,
			credex.VariantDOMv2,
			credex.VariantDOMv1,
			credex.VariantDOMAward,
			credex.VariantTabularCredits,
			credex.VariantJSRendered,
		},
	}

	d.probes = []probe{
		{credex.VariantJSONEmbedded, containsMarker(markerCredits)},
		{credex.VariantJSONEmbedded, containsMarker(markerOldCredits)},

		{credex.VariantDOMv2, hasSelector("span.font-barlow.font-bold.text-black")},
		{credex.VariantDOMv2, hasSelector("div.flex.space-y-4")},
		{credex.VariantDOMv2, hasSelector(".rich-text.space-y-5")},

		{credex.VariantDOMv1, hasSelector(".credit-entry")},
		{credex.VariantDOMv1, hasSelector(".company-name")},
		{credex.VariantDOMv1, hasSelector(".field--name-field-basic-info")},

		{credex.VariantDOMAward, hasSelector(".award-credits-list")},
		{credex.VariantDOMAward, hasSelector(".award-meta-details")},

		{credex.VariantTabularCredits, hasCreditTable},

		{credex.VariantJSRendered, hasSelector(".credits-tab, .tab-selector, [data-tab='credits']")},
		{credex.VariantJSRendered, hasJSFrameworkHint},
	}
	return d
}

// Detect returns the page's structure variant, or VariantGeneric when no
// host rule matches and no probe fires.
func (d *Detector) Detect(rawHTML string, pageURL string) credex.StructureVariant {
	doc, err := parseDocument(rawHTML)
	if err != nil {
		return credex.VariantGeneric
	}

	host := credex.Domain(pageURL)
	for _, rule := range d.hostRules {
		if !credex.HostMatches(host, rule.suffix) {
			continue
		}
		if variant, ok := rule.detect(doc, rawHTML); ok {
			return variant
		}
	}

	scores := make(map[credex.StructureVariant]int)
	for _, p := range d.probes {
		if p.match(doc, rawHTML) {
			scores[p.variant]++
		}
	}

	best, bestScore := credex.VariantGeneric, 0
	for _, v := range d.order {
		if scores[v] > bestScore {
			best, bestScore = v, scores[v]
		}
	}
	return best
}

func detectLBB(doc *goquery.Document, rawHTML string) (credex.StructureVariant, bool) {
	switch {
	case strings.Contains(rawHTML, markerCredits) || strings.Contains(rawHTML, markerOldCredits):
		return credex.VariantJSONEmbedded, true
	case doc.Find("span.font-barlow.font-bold.text-black").Length() > 0 && doc.Find("div.flex.space-y-4").Length() > 0:
		return credex.VariantDOMv2, true
	case doc.Find(".credit-entry").Length() > 0:
		return credex.VariantDOMv1, true
	case doc.Find(".credits-tab, .tab-selector, [data-tab='credits']").Length() > 0:
		return credex.VariantJSRendered, true
	}
	return "", false
}

func detectAward(doc *goquery.Document, _ string) (credex.StructureVariant, bool) {
	if doc.Find(".award-credits-list, .award-meta-details").Length() > 0 {
		return credex.VariantDOMAward, true
	}
	return "", false
}

func hasSelector(selector string) func(*goquery.Document, string) bool {
	return func(doc *goquery.Document, _ string) bool {
		return doc.Find(selector).Length() > 0
	}
}

func containsMarker(marker string) func(*goquery.Document, string) bool {
	return func(_ *goquery.Document, rawHTML string) bool {
		return strings.Contains(rawHTML, marker)
	}
}

// jsHints are script fragments of client-rendered pages.
var jsHints = []string{
	"window.__INITIAL_STATE__",
	"window.__NUXT__",
	"__NEXT_DATA__",
	"ReactDOM",
	"ng-version",
	"data-reactroot",
}

func hasJSFrameworkHint(doc *goquery.Document, _ string) bool {
	if doc.Find("[data-reactroot], [ng-version], #__next, #__nuxt").Length() > 0 {
		return true
	}
	found := false
	doc.Find("script").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		body := s.Text()
		for _, hint := range jsHints {
			if strings.Contains(body, hint) {
				found = true
				return false
			}
		}
		return true
	})
	return found
}

// hasCreditTable reports whether a table with at least two rows carries a
// credit-like header or credit keywords in its rows.
func hasCreditTable(doc *goquery.Document, _ string) bool {
	found := false
	doc.Find("table").EachWithBreak(func(_ int, table *goquery.Selection) bool {
		if table.Find("tr").Length() < 2 {
			return true
		}
		header := strings.Join(cells(table.Find("tr").First()), " ")
		if tableHeaderKeyword.MatchString(header) || creditKeyword.MatchString(tableText(table)) {
			found = true
			return false
		}
		return true
	})
	return found
}
