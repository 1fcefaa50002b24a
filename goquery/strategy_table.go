package goquery

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/credex"
)

var _ credex.Strategy = (*TableStrategy)(nil)

var (
	tableHeaderKeyword = regexp.MustCompile(`(?i)company|role|name|credit`)
	roleColumn         = regexp.MustCompile(`(?i)role|position|job`)
	personColumn       = regexp.MustCompile(`(?i)name|person|who`)
	companyColumn      = regexp.MustCompile(`(?i)company|agency|studio`)
)

const unknownCompany = "Unknown Company"

// TableStrategy treats tables with at least two rows and a credit-like header
// or credit keywords as credit tables. Role and person columns are found by
// header keywords, defaulting to columns 0 and 1. A company column groups
// rows by company; otherwise each table is one company named by its caption
// or preceding heading.
type TableStrategy struct{}

// NewTableStrategy creates a new TableStrategy.
func NewTableStrategy() *TableStrategy {
	return &TableStrategy{}
}

// ID returns credex.StrategyTable.
func (s *TableStrategy) ID() credex.StrategyID {
	return credex.StrategyTable
}

// Attempt scans every table on the page.
func (s *TableStrategy) Attempt(rawHTML string, pageURL string, _ credex.Hints) (*credex.PartialRecord, error) {
	doc, err := parseDocument(rawHTML)
	if err != nil {
		return nil, err
	}

	record := &credex.PartialRecord{URL: pageURL}
	doc.Find("table").Each(func(i int, table *goquery.Selection) {
		record.Companies = append(record.Companies, companiesFromTable(table, i)...)
	})

	if len(record.Companies) == 0 {
		return nil, credex.Errorf(credex.ENOMATCH, "no credit tables")
	}
	return record, nil
}

func companiesFromTable(table *goquery.Selection, index int) []credex.Company {
	rows := table.Find("tr")
	if rows.Length() < 2 {
		return nil
	}

	first := cells(rows.First())
	header := strings.Join(first, " ")
	hasHeader := rows.First().Find("th").Length() > 0 || tableHeaderKeyword.MatchString(header)
	if !hasHeader && !creditKeyword.MatchString(tableText(table)) {
		return nil
	}

	roleCol, personCol, companyCol := -1, -1, -1
	if hasHeader {
		for i, h := range first {
			switch {
			case roleColumn.MatchString(h) && roleCol < 0:
				roleCol = i
			case companyColumn.MatchString(h) && companyCol < 0:
				companyCol = i
			case personColumn.MatchString(h) && personCol < 0:
				personCol = i
			}
		}
	}
	roleCol, personCol = freeColumns(len(first), roleCol, personCol, companyCol)

	name := text(table.Find("caption").First())
	if name == "" {
		name = nearestHeading(table)
	}
	if name == "" {
		name = unknownCompany
	}
	defaultID := "table_" + strconv.Itoa(index+1)

	var companies []credex.Company
	byName := make(map[string]int)
	rows.Each(func(i int, row *goquery.Selection) {
		if i == 0 && hasHeader {
			return
		}
		values := cells(row)
		credits := creditsFromRow(values, roleCol, personCol)
		if len(credits) == 0 {
			return
		}

		companyName, id := name, defaultID
		if companyCol >= 0 && companyCol < len(values) && values[companyCol] != "" {
			companyName = values[companyCol]
			id = credex.Slug(companyName)
		}
		idx, ok := byName[companyName]
		if !ok {
			idx = len(companies)
			byName[companyName] = idx
			companies = append(companies, credex.Company{ID: id, Name: companyName})
		}
		companies[idx].Credits = append(companies[idx].Credits, credits...)
	})
	return companies
}

func creditsFromRow(values []string, roleCol, personCol int) []credex.Credit {
	if len(values) == 1 {
		if role, person, ok := splitRolePerson(values[0]); ok {
			return creditsFor(role, person)
		}
		return nil
	}
	if roleCol >= len(values) || personCol >= len(values) {
		return nil
	}
	role := strings.TrimSuffix(values[roleCol], ":")
	return creditsFor(role, values[personCol])
}

// freeColumns assigns unmatched role and person columns, in that order, to
// the leftmost columns no other field claims.
func freeColumns(n, role, person, company int) (int, int) {
	taken := func(i int) bool { return i == role || i == person || i == company }
	next := func() int {
		for i := 0; i < max(n, 2); i++ {
			if !taken(i) {
				return i
			}
		}
		return max(n, 2)
	}
	if role < 0 {
		role = next()
	}
	if person < 0 {
		person = next()
	}
	return role, person
}

// tableText joins the cells of every row with spaces. Selection.Text runs
// adjacent cells together, which hides word boundaries.
func tableText(table *goquery.Selection) string {
	var parts []string
	table.Find("tr").Each(func(_ int, row *goquery.Selection) {
		parts = append(parts, cells(row)...)
	})
	return strings.Join(parts, " ")
}

func cells(row *goquery.Selection) []string {
	var out []string
	row.Find("th, td").Each(func(_ int, c *goquery.Selection) {
		out = append(out, text(c))
	})
	return out
}
