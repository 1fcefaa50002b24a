package goquery

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/fwojciec/credex"
	"github.com/kaptinlin/jsonrepair"
)

var _ credex.Strategy = (*EmbeddedJSONStrategy)(nil)

var creditsPayload = regexp.MustCompile(`"lbb_credits":"((?:\\.|[^"\\])*)"`)

// Link templates for ids found in embedded payloads.
const (
	companyURLFormat = "https://lbbonline.com/companies/%s"
	personURLFormat  = "https://lbbonline.com/people/%s"
)

type creditSection struct {
	CatValue []any         `json:"cat_value"`
	CatID    any           `json:"cat_id"`
	Fields   []creditField `json:"fields"`
}

type creditField struct {
	FieldValue []any `json:"field_value"`
	FieldID    any   `json:"field_id"`
}

// EmbeddedJSONStrategy reads credits from a JSON array embedded in the page
// as an escaped string literal. Each section with an [id, name] pair is a
// company; each of its fields with an [id, name] pair is a credit whose role
// is resolved through the mapping.
type EmbeddedJSONStrategy struct {
	mapping *credex.Mapping
}

// NewEmbeddedJSONStrategy creates a new EmbeddedJSONStrategy. A nil mapping
// leaves roles and company types empty.
func NewEmbeddedJSONStrategy(mapping *credex.Mapping) *EmbeddedJSONStrategy {
	return &EmbeddedJSONStrategy{mapping: mapping}
}

// ID returns credex.StrategyEmbeddedJSON.
func (s *EmbeddedJSONStrategy) ID() credex.StrategyID {
	return credex.StrategyEmbeddedJSON
}

// Attempt locates and decodes the embedded payload.
func (s *EmbeddedJSONStrategy) Attempt(rawHTML string, pageURL string, _ credex.Hints) (*credex.PartialRecord, error) {
	m := creditsPayload.FindStringSubmatch(rawHTML)
	if m == nil {
		return nil, credex.Errorf(credex.ENOMATCH, "no embedded credits payload")
	}

	sections, err := decodeSections(decodeEmbeddedString(m[1]))
	if err != nil {
		return nil, err
	}

	linked := credex.HostMatches(credex.Domain(pageURL), "lbbonline.com")
	record := &credex.PartialRecord{URL: pageURL}
	for _, section := range sections {
		id, name, ok := pair(section.CatValue)
		if !ok {
			continue
		}
		company := credex.Company{
			ID:   id,
			Name: name,
			Type: s.mapping.CompanyType(scalar(section.CatID)),
		}
		if linked {
			company.URL = fmt.Sprintf(companyURLFormat, id)
		}
		for _, field := range section.Fields {
			personID, personName, ok := pair(field.FieldValue)
			if !ok {
				continue
			}
			person := credex.Person{ID: personID, Name: personName}
			if linked {
				person.URL = fmt.Sprintf(personURLFormat, personID)
			}
			company.Credits = append(company.Credits, credex.Credit{
				Person: person,
				Role:   s.mapping.Role(scalar(field.FieldID)),
			})
		}
		record.Companies = append(record.Companies, company)
	}

	if len(record.Companies) == 0 {
		return nil, credex.Errorf(credex.ENOMATCH, "embedded credits payload has no companies")
	}
	return record, nil
}

// decodeSections parses the payload, retrying once with a repaired document.
func decodeSections(payload string) ([]creditSection, error) {
	sections, err := unmarshalSections(payload)
	if err == nil {
		return sections, nil
	}
	repaired, repairErr := jsonrepair.JSONRepair(payload)
	if repairErr != nil {
		return nil, credex.Errorf(credex.EMALFORMED, "embedded credits: %v (repair failed: %v)", err, repairErr)
	}
	sections, err = unmarshalSections(repaired)
	if err != nil {
		return nil, credex.Errorf(credex.EMALFORMED, "embedded credits: %v", err)
	}
	return sections, nil
}

func unmarshalSections(payload string) ([]creditSection, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(payload)))
	dec.UseNumber()
	var sections []creditSection
	if err := dec.Decode(&sections); err != nil {
		return nil, err
	}
	return sections, nil
}

// pair reads an [id, name] pair.
func pair(values []any) (id, name string, ok bool) {
	if len(values) != 2 {
		return "", "", false
	}
	id, name = scalar(values[0]), scalar(values[1])
	return id, name, name != ""
}

// scalar formats a decoded JSON scalar as a string.
func scalar(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		return fmt.Sprint(v)
	}
	return ""
}
