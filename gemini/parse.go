package gemini

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/fwojciec/credex"
	"github.com/kaptinlin/jsonrepair"
)

var (
	fencedBlock  = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")
	braceBlock   = regexp.MustCompile(`(?s)\{.*\}`)
	selectorPair = regexp.MustCompile(`["']?(\w+)["']?\s*:\s*["']([^"'\n]+)["']`)
)

// selectorKeys are the keys salvaged from unparseable answers.
var selectorKeys = map[string]bool{
	credex.SelectorTitle:          true,
	credex.SelectorDescription:    true,
	credex.SelectorMedia:          true,
	credex.SelectorCompanies:      true,
	credex.SelectorCompanyName:    true,
	credex.SelectorCompanyType:    true,
	credex.SelectorCompanyCredits: true,
	credex.SelectorRoles:          true,
	credex.SelectorPerson:         true,
}

type wireSuggestion struct {
	Selectors    map[string]string `json:"selectors"`
	Explanations map[string]any    `json:"explanations"`
	Alternatives map[string]any    `json:"alternatives"`
}

// ParseSuggestion reads a model answer. The whole answer, a fenced code
// block and the outermost brace-delimited substring are decoded, strictly
// first and then repaired. When no object with a "selectors" key is found,
// "key": "selector" pairs are salvaged; failing that, the default
// selectors for the missing fields are returned.
func ParseSuggestion(text string, missing []credex.MissingField) *credex.Suggestion {
	if wire, ok := decodeJSON[wireSuggestion](text); ok && wire.Selectors != nil {
		return fromWire(wire)
	}

	salvaged := make(map[string]string)
	for _, m := range selectorPair.FindAllStringSubmatch(text, -1) {
		if selectorKeys[m[1]] && strings.TrimSpace(m[2]) != "" {
			salvaged[m[1]] = strings.TrimSpace(m[2])
		}
	}
	if len(salvaged) > 0 {
		return &credex.Suggestion{Selectors: salvaged}
	}
	return defaultSuggestion(missing)
}

// ParseRoles reads a person ID to role object from a model answer.
// Returns an empty map when none can be decoded.
func ParseRoles(text string) map[string]string {
	roles, ok := decodeJSON[map[string]string](text)
	if !ok {
		return map[string]string{}
	}
	out := make(map[string]string, len(roles))
	for id, role := range roles {
		if role = credex.CleanText(role); role != "" {
			out[id] = role
		}
	}
	return out
}

func decodeJSON[T any](text string) (T, bool) {
	candidates := []string{strings.TrimSpace(text)}
	if m := fencedBlock.FindStringSubmatch(text); m != nil {
		candidates = append(candidates, m[1])
	}
	if m := braceBlock.FindString(text); m != "" {
		candidates = append(candidates, m)
	}

	for _, c := range candidates {
		var v T
		if err := json.Unmarshal([]byte(c), &v); err == nil {
			return v, true
		}
	}
	for _, c := range candidates[1:] {
		repaired, err := jsonrepair.JSONRepair(c)
		if err != nil {
			continue
		}
		var v T
		if err := json.Unmarshal([]byte(repaired), &v); err == nil {
			return v, true
		}
	}
	var zero T
	return zero, false
}

func fromWire(w wireSuggestion) *credex.Suggestion {
	s := &credex.Suggestion{
		Selectors:    make(map[string]string),
		Explanations: make(map[string]string),
		Alternatives: make(map[string][]string),
	}
	for k, v := range w.Selectors {
		if v = strings.TrimSpace(v); v != "" {
			s.Selectors[k] = v
		}
	}
	for k, v := range w.Explanations {
		s.Explanations[k] = fmt.Sprint(v)
	}
	for k, v := range w.Alternatives {
		switch alt := v.(type) {
		case string:
			s.Alternatives[k] = []string{alt}
		case []any:
			for _, a := range alt {
				if str, ok := a.(string); ok && str != "" {
					s.Alternatives[k] = append(s.Alternatives[k], str)
				}
			}
		}
	}
	return s
}

func defaultSuggestion(missing []credex.MissingField) *credex.Suggestion {
	defaults := credex.DefaultSelectors()
	s := &credex.Suggestion{
		Selectors:    make(map[string]string),
		Explanations: make(map[string]string),
	}
	for _, f := range missing {
		if sel, ok := defaults[string(f)]; ok {
			s.Selectors[string(f)] = sel
			s.Explanations[string(f)] = "default selector"
		}
	}
	return s
}
