package goquery

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/credex"
)

var _ credex.Strategy = (*ListStrategy)(nil)

var (
	listKeyword = regexp.MustCompile(`(?i)director|producer|editor|creative`)
	dashPair    = regexp.MustCompile(`^(.*?)\s+-\s+(.*)$`)
)

// ListStrategy treats lists with at least two items containing a colon or a
// credit keyword as credit lists. Items are read as "Role: Person" or
// "Role - Person".
type ListStrategy struct{}

// NewListStrategy creates a new ListStrategy.
func NewListStrategy() *ListStrategy {
	return &ListStrategy{}
}

// ID returns credex.StrategyList.
func (s *ListStrategy) ID() credex.StrategyID {
	return credex.StrategyList
}

// Attempt scans every list on the page. Each qualifying list is one company
// named by its preceding heading.
func (s *ListStrategy) Attempt(rawHTML string, pageURL string, _ credex.Hints) (*credex.PartialRecord, error) {
	doc, err := parseDocument(rawHTML)
	if err != nil {
		return nil, err
	}

	record := &credex.PartialRecord{URL: pageURL}
	doc.Find("ul, ol, dl").Each(func(i int, list *goquery.Selection) {
		items := listItems(list)
		candidates := 0
		for _, item := range items {
			if strings.Contains(item, ":") || listKeyword.MatchString(item) {
				candidates++
			}
		}
		if candidates < 2 {
			return
		}

		var credits []credex.Credit
		for _, item := range items {
			credits = append(credits, creditsFromItem(item)...)
		}
		if len(credits) == 0 {
			return
		}

		name := nearestHeading(list)
		if name == "" {
			name = unknownCompany
		}
		record.Companies = append(record.Companies, credex.Company{
			ID:      "list_" + strconv.Itoa(i+1),
			Name:    name,
			Credits: credits,
		})
	})

	if len(record.Companies) == 0 {
		return nil, credex.Errorf(credex.ENOMATCH, "no credit lists")
	}
	return record, nil
}

// listItems returns the direct item texts of a list. Definition lists pair
// each term with its description.
func listItems(list *goquery.Selection) []string {
	var items []string
	if list.Is("dl") {
		list.ChildrenFiltered("dt").Each(func(_ int, dt *goquery.Selection) {
			if dd := dt.NextFiltered("dd"); dd.Length() > 0 {
				items = append(items, text(dt)+": "+text(dd))
			}
		})
		return items
	}
	list.ChildrenFiltered("li").Each(func(_ int, li *goquery.Selection) {
		if t := text(li); t != "" {
			items = append(items, t)
		}
	})
	return items
}

func creditsFromItem(item string) []credex.Credit {
	if role, person, ok := splitRolePerson(item); ok {
		return creditsFor(role, person)
	}
	if m := dashPair.FindStringSubmatch(item); m != nil {
		return creditsFor(strings.TrimSpace(m[1]), m[2])
	}
	return nil
}
