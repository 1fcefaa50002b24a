package goquery

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/credex"
)

var _ credex.Strategy = (*SelectorStrategy)(nil)

// V1Selectors returns the selector set of the first-generation credit block layout.
func V1Selectors() map[string]string {
	return map[string]string{
		credex.SelectorTitle:          "h1",
		credex.SelectorDescription:    ".field--name-field-description",
		credex.SelectorCompanies:      ".credit-entry",
		credex.SelectorCompanyName:    ".company-name",
		credex.SelectorCompanyType:    ".company-type",
		credex.SelectorCompanyCredits: ".roles .role",
		credex.SelectorRoles:          ".role-name",
		credex.SelectorPerson:         ".person",
	}
}

// V2Selectors returns the selector set of the utility-class layout, where
// each team entry is a "Role: Person" line.
func V2Selectors() map[string]string {
	return map[string]string{
		credex.SelectorTitle:          "h1",
		credex.SelectorDescription:    ".rich-text.space-y-5 p",
		credex.SelectorCompanies:      "div.flex.space-y-4",
		credex.SelectorCompanyName:    "span.font-barlow.font-bold.text-black",
		credex.SelectorCompanyCredits: "div.team div",
	}
}

// AwardSelectors returns the selector set of award archive pages.
func AwardSelectors() map[string]string {
	return map[string]string{
		credex.SelectorTitle:          "h1",
		credex.SelectorDescription:    ".award-content-intro",
		credex.SelectorCompanies:      ".award-credits-list",
		credex.SelectorCompanyName:    ".company-name",
		credex.SelectorCompanyType:    ".company-role",
		credex.SelectorCompanyCredits: ".award-credits-role",
		credex.SelectorRoles:          ".role-title",
		credex.SelectorPerson:         ".person-name",
	}
}

// SelectorStrategy extracts repeated credit blocks with a selector set.
// Selectors learned for the strategy's own ID override its set key by key;
// sets learned for other strategies are ignored. Within a
// credit entry, role and person elements are used when the set names them;
// otherwise the entry text is parsed as "Role: Person" lines.
type SelectorStrategy struct {
	id        credex.StrategyID
	selectors map[string]string
}

// NewSelectorStrategy creates a SelectorStrategy registered under id.
func NewSelectorStrategy(id credex.StrategyID, selectors map[string]string) *SelectorStrategy {
	return &SelectorStrategy{id: id, selectors: selectors}
}

// ID returns the strategy's identifier.
func (s *SelectorStrategy) ID() credex.StrategyID {
	return s.id
}

// Selectors returns a copy of the strategy's own selector set.
func (s *SelectorStrategy) Selectors() map[string]string {
	return credex.MergeSelectors(s.selectors, nil)
}

// Attempt runs the merged selector set against the page. With
// hints.AllowPartial, title, description and media found without any
// credit block are still returned.
func (s *SelectorStrategy) Attempt(rawHTML string, pageURL string, hints credex.Hints) (*credex.PartialRecord, error) {
	sel := credex.MergeSelectors(s.selectors, hints.Selectors.For(s.id))
	if sel[credex.SelectorCompanies] == "" && !hints.AllowPartial {
		return nil, credex.Errorf(credex.ENOMATCH, "no company selector")
	}

	doc, err := parseDocument(rawHTML)
	if err != nil {
		return nil, err
	}
	base, _ := url.Parse(pageURL)

	record := &credex.PartialRecord{URL: pageURL}
	record.Title = firstText(doc.Selection, sel[credex.SelectorTitle])
	record.Description = firstText(doc.Selection, sel[credex.SelectorDescription])
	if media := sel[credex.SelectorMedia]; media != "" {
		collectMedia(doc.Find(media), base, record)
	}

	if companies := sel[credex.SelectorCompanies]; companies != "" {
		doc.Find(companies).Each(func(i int, block *goquery.Selection) {
			if company, ok := companyFromBlock(block, sel, base, i); ok {
				record.Companies = append(record.Companies, company)
			}
		})
	}

	if len(record.Companies) > 0 {
		return record, nil
	}
	if hints.AllowPartial && hasFields(record) {
		return record, nil
	}
	return nil, credex.Errorf(credex.ENOMATCH, "no credit blocks matched %q", sel[credex.SelectorCompanies])
}

func hasFields(r *credex.PartialRecord) bool {
	return r.Title != "" || r.Description != "" || r.PosterImage != "" || len(r.VideoLinks) > 0
}

func companyFromBlock(block *goquery.Selection, sel map[string]string, base *url.URL, index int) (credex.Company, bool) {
	var nameEl *goquery.Selection
	if nameSel := sel[credex.SelectorCompanyName]; nameSel != "" {
		nameEl = block.Find(nameSel).First()
	}
	if nameEl == nil || text(nameEl) == "" {
		nameEl = block.Find("h1, h2, h3, h4, h5, h6, strong, b").First()
	}
	name := strings.TrimSuffix(text(nameEl), ":")
	if name == "" {
		return credex.Company{}, false
	}

	href := resolveURL(base, linkOf(nameEl))
	id := idFromURL(href)
	if id == "" {
		id = credex.Slug(name)
	}
	if id == "" {
		id = "company_" + strconv.Itoa(index+1)
	}

	company := credex.Company{
		ID:   id,
		Name: name,
		Type: companyType(firstText(block, sel[credex.SelectorCompanyType])),
		URL:  href,
	}

	if entrySel := sel[credex.SelectorCompanyCredits]; entrySel != "" {
		block.Find(entrySel).Each(func(_ int, entry *goquery.Selection) {
			company.Credits = append(company.Credits, creditsFromEntry(entry, sel, base)...)
		})
	} else {
		for _, line := range lines(block) {
			if role, person, ok := splitRolePerson(line); ok {
				company.Credits = append(company.Credits, creditsFor(role, person)...)
			}
		}
	}
	return company, true
}

func creditsFromEntry(entry *goquery.Selection, sel map[string]string, base *url.URL) []credex.Credit {
	role := firstText(entry, sel[credex.SelectorRoles])

	var people []credex.Person
	if personSel := sel[credex.SelectorPerson]; personSel != "" {
		entry.Find(personSel).Each(func(_ int, p *goquery.Selection) {
			name := text(p)
			if name == "" {
				return
			}
			href := resolveURL(base, linkOf(p))
			id := idFromURL(href)
			if id == "" {
				id = credex.Slug(name)
			}
			people = append(people, credex.Person{ID: id, Name: name, URL: href})
		})
	}

	if len(people) > 0 {
		credits := make([]credex.Credit, len(people))
		for i, p := range people {
			credits[i] = credex.Credit{Person: p, Role: role}
		}
		return credits
	}

	if role != "" {
		rest := strings.TrimSpace(strings.TrimPrefix(text(entry), role))
		rest = strings.TrimSpace(strings.TrimPrefix(rest, ":"))
		return creditsFor(role, rest)
	}

	var credits []credex.Credit
	for _, line := range lines(entry) {
		if r, person, ok := splitRolePerson(line); ok {
			credits = append(credits, creditsFor(r, person)...)
		}
	}
	return credits
}

// linkOf returns the href of sel, of its first descendant anchor, or of its
// closest ancestor anchor.
func linkOf(sel *goquery.Selection) string {
	if sel == nil || sel.Length() == 0 {
		return ""
	}
	if href, ok := sel.Attr("href"); ok {
		return href
	}
	if href, ok := sel.Find("a[href]").First().Attr("href"); ok {
		return href
	}
	if href, ok := sel.Closest("a[href]").Attr("href"); ok {
		return href
	}
	return ""
}
