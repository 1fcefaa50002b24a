package credex

import "context"

// SuggestRequest describes what the oracle is asked to fix.
type SuggestRequest struct {
	HTML              string
	URL               string
	MissingFields     []MissingField
	PreviousSelectors map[string]string
}

// Suggestion is an oracle's answer. Selectors are keyed by the Selector* keys.
type Suggestion struct {
	Selectors    map[string]string   `json:"selectors"`
	Explanations map[string]string   `json:"explanations"`
	Alternatives map[string][]string `json:"alternatives"`
}

// Empty reports whether the suggestion carries no selectors.
func (s *Suggestion) Empty() bool {
	return s == nil || len(s.Selectors) == 0
}

// SelectorOracle suggests selectors for fields static extraction missed.
// Suggestions are best-effort and untrusted.
type SelectorOracle interface {
	// Suggest returns selector suggestions for the missing fields.
	// Returns EEXTERNAL when the remote call fails or times out.
	Suggest(ctx context.Context, req SuggestRequest) (*Suggestion, error)
}

// DefaultSelectors returns the per-field selector set used when oracle
// responses cannot be salvaged.
func DefaultSelectors() map[string]string {
	return map[string]string{
		SelectorTitle:          "h1, .title, header h2",
		SelectorDescription:    ".description, .content p:first-of-type, article p",
		SelectorCompanies:      ".company, .credit-company, .partner",
		SelectorCompanyCredits: ".team, .credit-person, .member",
		SelectorRoles:          ".role, .job-title, .position",
		SelectorMedia:          "iframe[src*=video], .main-image, .hero img",
	}
}

// MergeSelectors returns base overlaid with every non-empty entry of overrides.
func MergeSelectors(base, overrides map[string]string) map[string]string {
	merged := make(map[string]string, len(base)+len(overrides))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range overrides {
		if v != "" {
			merged[k] = v
		}
	}
	return merged
}

// RoleResolver fills in roles for credits whose role could not be read from the page.
type RoleResolver interface {
	// ResolveRoles returns person ID to role for the credits it could resolve.
	ResolveRoles(ctx context.Context, html string, unknown []UnknownRole) (map[string]string, error)
}

// Converter turns page HTML into a compact text form for prompts.
type Converter interface {
	// Convert returns the converted page. Returns EINVALID for empty input.
	Convert(html string) (string, error)
}
