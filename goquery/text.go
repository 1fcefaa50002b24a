package goquery

import (
	"encoding/json"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/credex"
	"golang.org/x/net/html"
)

var (
	// rolePersonPattern splits "Role: Person" text.
	rolePersonPattern = regexp.MustCompile(`^([^:]+):\s*(.+)$`)

	// nameSeparator splits multi-name values such as "Ann, Bob and Cy".
	nameSeparator = regexp.MustCompile(`,\s*(?:and\s+)?|\s+and\s+`)

	// trailingID extracts a numeric id from the end of a URL path.
	trailingID = regexp.MustCompile(`/(\d+)/?$`)

	// creditKeyword marks text that looks like a credit.
	creditKeyword = regexp.MustCompile(`(?i)\b(director|producer|editor|creative|cinematographer|dop|copywriter|art director|agency|production)\b`)
)

// parseDocument parses raw HTML. goquery only fails on reader errors, which is
// reported as EMALFORMED.
func parseDocument(rawHTML string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, credex.Errorf(credex.EMALFORMED, "failed to parse HTML: %v", err)
	}
	return doc, nil
}

// text returns the whitespace-normalized text of a selection.
func text(sel *goquery.Selection) string {
	return credex.CleanText(sel.Text())
}

// firstText returns the text of the first non-empty match of selector.
func firstText(root *goquery.Selection, selector string) string {
	if selector == "" {
		return ""
	}
	var found string
	root.Find(selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		found = text(s)
		return found == ""
	})
	return found
}

// splitRolePerson parses "Role: Person" text.
func splitRolePerson(s string) (role, person string, ok bool) {
	m := rolePersonPattern.FindStringSubmatch(credex.CleanText(s))
	if m == nil {
		return "", "", false
	}
	role = strings.TrimSpace(m[1])
	person = strings.TrimSpace(m[2])
	if role == "" || person == "" {
		return "", "", false
	}
	return role, person, true
}

// splitNames splits a multi-name value.
func splitNames(s string) []string {
	var names []string
	for _, part := range nameSeparator.Split(s, -1) {
		part = strings.Trim(credex.CleanText(part), " .;")
		if part != "" {
			names = append(names, part)
		}
	}
	return names
}

// creditsFor builds one credit per name in names.
func creditsFor(role, names string) []credex.Credit {
	var credits []credex.Credit
	for _, name := range splitNames(names) {
		credits = append(credits, credex.Credit{
			Person: credex.Person{ID: credex.Slug(name), Name: name},
			Role:   role,
		})
	}
	return credits
}

// idFromURL returns the trailing numeric id of href, or "".
func idFromURL(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if m := trailingID.FindStringSubmatch(u.Path); m != nil {
		return m[1]
	}
	return ""
}

// resolveURL resolves href against base, stripping fragments.
// Returns "" when href cannot be parsed.
func resolveURL(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "//") {
		href = "https:" + href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if base != nil {
		ref = base.ResolveReference(ref)
	}
	ref.Fragment = ""
	return ref.String()
}

// isNonHTTPLink checks if a href is a non-HTTP link that should be skipped.
func isNonHTTPLink(href string) bool {
	href = strings.ToLower(strings.TrimSpace(href))
	return strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:")
}

// embeddedUnescaper resolves the common escapes when strict decoding fails.
var embeddedUnescaper = strings.NewReplacer(`\\`, `\`, `\"`, `"`, `\/`, `/`, `\n`, "\n", `\t`, "\t")

// decodeEmbeddedString decodes the body of an escaped JSON string literal
// captured from page source. Doubled backslashes, escaped quotes and slashes
// and \uXXXX sequences are resolved. Bodies with invalid escapes are
// unescaped best-effort.
func decodeEmbeddedString(raw string) string {
	var s string
	if err := json.Unmarshal([]byte(`"`+raw+`"`), &s); err == nil {
		return s
	}
	return embeddedUnescaper.Replace(raw)
}

// blockElements are the elements whose boundaries end a line of flattened text.
var blockElements = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true, "br": true,
	"dd": true, "div": true, "dl": true, "dt": true, "figcaption": true, "footer": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true, "header": true,
	"hr": true, "li": true, "main": true, "nav": true, "ol": true, "p": true, "section": true,
	"table": true, "td": true, "th": true, "tr": true, "ul": true,
}

// lines flattens the selection's text into non-empty, whitespace-normalized
// lines, breaking at block element boundaries. Script and style content is skipped.
func lines(sel *goquery.Selection) []string {
	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			b.WriteString(n.Data)
			return
		case html.ElementNode:
			if n.Data == "script" || n.Data == "style" || n.Data == "noscript" {
				return
			}
		}
		block := n.Type == html.ElementNode && blockElements[n.Data]
		if block {
			b.WriteByte('\n')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if block {
			b.WriteByte('\n')
		}
	}
	for _, n := range sel.Nodes {
		walk(n)
	}

	var out []string
	for _, line := range strings.Split(b.String(), "\n") {
		if line = credex.CleanText(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// nearestHeading returns the text of the closest preceding heading sibling
// of sel or of one of its ancestors.
func nearestHeading(sel *goquery.Selection) string {
	const headings = "h1, h2, h3, h4, h5, h6"
	for cur := sel; cur.Length() > 0 && !cur.Is("body"); cur = cur.Parent() {
		if h := cur.PrevAllFiltered(headings).First(); h.Length() > 0 {
			if t := text(h); t != "" {
				return t
			}
		}
	}
	return ""
}

// companyType normalizes a free-text type label to a CompanyType.
func companyType(label string) credex.CompanyType {
	label = credex.CleanText(label)
	if label == "" {
		return credex.CompanyTypeUnknown
	}
	for _, t := range []credex.CompanyType{
		credex.CompanyTypeProduction,
		credex.CompanyTypeAgency,
		credex.CompanyTypeBrand,
		credex.CompanyTypePostProduction,
		credex.CompanyTypeSound,
		credex.CompanyTypeEditorial,
	} {
		if strings.EqualFold(label, string(t)) {
			return t
		}
	}
	return credex.InferCompanyType(label)
}
