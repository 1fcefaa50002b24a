package goquery

import (
	"regexp"
	"strings"

	"github.com/fwojciec/credex"
)

var _ credex.Strategy = (*DesperateStrategy)(nil)

// desperatePatterns yield (role, person) or, when swapped, (person, role).
var desperatePatterns = []struct {
	re      *regexp.Regexp
	swapped bool
}{
	{re: regexp.MustCompile(`^([A-Za-z][\w &/'.-]{1,40}):\s+([A-Z][\w'.-]*(?:\s+[A-Z][\w'.-]*){0,4})$`)},
	{re: regexp.MustCompile(`\b((?i:creative director|director|producer|editor|cinematographer|dop))\s+(?:is\s+|was\s+|:\s*)?([A-Z][\w'.-]*(?:\s+[A-Z][\w'.-]*){1,3})`)},
	{re: regexp.MustCompile(`([A-Z][\w'.-]*(?:\s+[A-Z][\w'.-]*){1,3})\s+\(([A-Za-z][\w ]{1,40})\)`), swapped: true},
}

// DesperateStrategy runs a fixed set of patterns over the page's flattened
// text and attaches every hit, deduplicated by person name, to a single
// company named after the client.
type DesperateStrategy struct{}

// NewDesperateStrategy creates a new DesperateStrategy.
func NewDesperateStrategy() *DesperateStrategy {
	return &DesperateStrategy{}
}

// ID returns credex.StrategyDesperate.
func (s *DesperateStrategy) ID() credex.StrategyID {
	return credex.StrategyDesperate
}

// Attempt scans the body text line by line.
func (s *DesperateStrategy) Attempt(rawHTML string, pageURL string, hints credex.Hints) (*credex.PartialRecord, error) {
	doc, err := parseDocument(rawHTML)
	if err != nil {
		return nil, err
	}

	var credits []credex.Credit
	seen := make(map[string]bool)
	for _, line := range lines(doc.Find("body")) {
		for _, p := range desperatePatterns {
			for _, m := range p.re.FindAllStringSubmatch(line, -1) {
				role, person := m[1], m[2]
				if p.swapped {
					role, person = person, role
				}
				role, person = credex.CleanText(role), credex.CleanText(person)
				key := strings.ToLower(person)
				if person == "" || seen[key] {
					continue
				}
				seen[key] = true
				credits = append(credits, credex.Credit{
					Person: credex.Person{ID: credex.Slug(person), Name: person},
					Role:   role,
				})
			}
		}
	}

	if len(credits) == 0 {
		return nil, credex.Errorf(credex.ENOMATCH, "no credit patterns in page text")
	}
	return &credex.PartialRecord{
		URL:       pageURL,
		Companies: []credex.Company{syntheticCompany(hints.Client, credits)},
	}, nil
}
