package goquery

import (
	"regexp"
	"strings"

	"github.com/fwojciec/credex"
)

var _ credex.Strategy = (*LegacyTextStrategy)(nil)

var legacyPayload = regexp.MustCompile(`"old_credits":"((?:\\.|[^"\\])*)"`)

const legacyIDPrefix = "oldcredits_"

// LegacyTextStrategy reads the older line-oriented credits blob. A line
// without a colon names the type of the companies that follow, a
// "Company name: X" line starts a company, and any other "Key: Value" line
// credits Value with role Key.
type LegacyTextStrategy struct {
	mapping *credex.Mapping
}

// NewLegacyTextStrategy creates a new LegacyTextStrategy.
func NewLegacyTextStrategy(mapping *credex.Mapping) *LegacyTextStrategy {
	return &LegacyTextStrategy{mapping: mapping}
}

// ID returns credex.StrategyLegacyText.
func (s *LegacyTextStrategy) ID() credex.StrategyID {
	return credex.StrategyLegacyText
}

// Attempt parses the blob. Credits before the first company are ignored.
func (s *LegacyTextStrategy) Attempt(rawHTML string, pageURL string, _ credex.Hints) (*credex.PartialRecord, error) {
	m := legacyPayload.FindStringSubmatch(rawHTML)
	if m == nil {
		return nil, credex.Errorf(credex.ENOMATCH, "no legacy credits blob")
	}

	record := &credex.PartialRecord{URL: pageURL}
	current := -1
	pendingType := credex.CompanyTypeUnknown

	blob := strings.ReplaceAll(decodeEmbeddedString(m[1]), "\r", "\n")
	for _, line := range strings.Split(blob, "\n") {
		line = credex.CleanText(line)
		if line == "" {
			continue
		}

		key, value, found := strings.Cut(line, ":")
		if !found {
			pendingType = s.sectionType(line)
			continue
		}
		key, value = strings.TrimSpace(key), strings.TrimSpace(value)
		if value == "" {
			continue
		}

		if strings.EqualFold(key, "company name") {
			record.Companies = append(record.Companies, credex.Company{
				ID:   legacyIDPrefix + credex.Slug(value),
				Name: value,
				Type: pendingType,
			})
			current = len(record.Companies) - 1
			continue
		}
		if current < 0 {
			continue
		}

		role := key
		if mapped := s.mapping.Role(key); mapped != "" {
			role = mapped
		}
		company := &record.Companies[current]
		company.Credits = append(company.Credits, credex.Credit{
			Person: credex.Person{ID: legacyIDPrefix + credex.Slug(value), Name: value},
			Role:   role,
		})
	}

	if len(record.Companies) == 0 {
		return nil, credex.Errorf(credex.ENOMATCH, "legacy credits blob has no companies")
	}
	return record, nil
}

func (s *LegacyTextStrategy) sectionType(label string) credex.CompanyType {
	if t := s.mapping.CompanyType(label); t != credex.CompanyTypeUnknown {
		return t
	}
	return companyType(label)
}
