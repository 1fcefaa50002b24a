package goquery

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/credex"
)

var _ credex.Strategy = (*ParagraphStrategy)(nil)

var companyHeading = regexp.MustCompile(`(?i)(prod|agenc|studio|post|director|brand)`)

const (
	headingCandidates = "h2, h3, h4, strong, b"
	headingBoundary   = "h2, h3, h4"
	creditContainers  = ".credits, .team, .crew, .credit"
)

// ParagraphStrategy finds headings and bold runs that name a company-like
// section and reads the sibling nodes up to the next heading as that
// company's credits. When no heading yields credits, "Role: Person" lines
// inside explicit credit containers are attributed to a single company.
type ParagraphStrategy struct{}

// NewParagraphStrategy creates a new ParagraphStrategy.
func NewParagraphStrategy() *ParagraphStrategy {
	return &ParagraphStrategy{}
}

// ID returns credex.StrategyParagraph.
func (s *ParagraphStrategy) ID() credex.StrategyID {
	return credex.StrategyParagraph
}

// Attempt scans headings, then credit containers.
func (s *ParagraphStrategy) Attempt(rawHTML string, pageURL string, hints credex.Hints) (*credex.PartialRecord, error) {
	doc, err := parseDocument(rawHTML)
	if err != nil {
		return nil, err
	}

	record := &credex.PartialRecord{URL: pageURL}
	doc.Find(headingCandidates).Each(func(i int, heading *goquery.Selection) {
		if heading.Is("strong, b") && heading.Closest(headingBoundary).Length() > 0 {
			return
		}
		name := strings.TrimSuffix(text(heading), ":")
		if len(name) < 2 || len(name) > 50 || !companyHeading.MatchString(name) {
			return
		}

		var credits []credex.Credit
		for _, line := range sectionLines(heading) {
			if role, person, ok := splitRolePerson(line); ok {
				credits = append(credits, creditsFor(role, person)...)
			}
		}
		if len(credits) == 0 {
			return
		}
		record.Companies = append(record.Companies, credex.Company{
			ID:      "heading_" + strconv.Itoa(i+1),
			Name:    name,
			Credits: credits,
		})
	})

	if len(record.Companies) == 0 {
		var credits []credex.Credit
		doc.Find(creditContainers).Each(func(_ int, container *goquery.Selection) {
			for _, line := range lines(container) {
				if role, person, ok := splitRolePerson(line); ok {
					credits = append(credits, creditsFor(role, person)...)
				}
			}
		})
		if len(credits) > 0 {
			record.Companies = append(record.Companies, syntheticCompany(hints.Client, credits))
		}
	}

	if len(record.Companies) == 0 {
		return nil, credex.Errorf(credex.ENOMATCH, "no credit headings")
	}
	return record, nil
}

// sectionLines returns the text lines of the nodes following heading up to
// the next heading. A bold run that is its parent's only content is treated
// as its parent, so the run's block siblings form the section.
func sectionLines(heading *goquery.Selection) []string {
	anchor := heading
	if heading.Is("strong, b") {
		parent := heading.Parent()
		if text(parent) == text(heading) {
			anchor = parent
		} else {
			// Inline run: the rest of the parent is the section.
			rest := strings.TrimSpace(strings.TrimPrefix(text(parent), text(heading)))
			return []string{strings.TrimSpace(strings.TrimPrefix(rest, ":"))}
		}
	}

	var out []string
	for sib := anchor.Next(); sib.Length() > 0; sib = sib.Next() {
		if sib.Is(headingBoundary) || isBoldHeading(sib) {
			break
		}
		out = append(out, lines(sib)...)
	}
	return out
}

// isBoldHeading reports whether sel consists of a single bold run.
func isBoldHeading(sel *goquery.Selection) bool {
	bold := sel.ChildrenFiltered("strong, b")
	return bold.Length() == 1 && text(bold) == text(sel)
}

// syntheticCompany attributes credits to one company named after the client.
func syntheticCompany(client string, credits []credex.Credit) credex.Company {
	name := credex.CleanText(client)
	if name == "" {
		name = unknownCompany
	}
	return credex.Company{ID: "company_1", Name: name, Credits: credits}
}
