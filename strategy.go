package credex

// StrategyID identifies an extraction strategy.
type StrategyID string

// Built-in extraction strategies.
const (
	StrategyEmbeddedJSON StrategyID = "embedded-json"
	StrategyLegacyText   StrategyID = "legacy-text"
	StrategyDOMv2        StrategyID = "dom-v2"
	StrategyDOMv1        StrategyID = "dom-v1"
	StrategyDOMAward     StrategyID = "dom-award"
	StrategyDOMSelectors StrategyID = "dom-selectors"
	StrategyTable        StrategyID = "table"
	StrategyList         StrategyID = "list"
	StrategyParagraph    StrategyID = "paragraph"
	StrategyDesperate    StrategyID = "desperate-regex"
)

// DefaultStrategyOrder is the cascade order for variants without a dedicated entry.
func DefaultStrategyOrder() []StrategyID {
	return []StrategyID{
		StrategyEmbeddedJSON,
		StrategyLegacyText,
		StrategyDOMSelectors,
		StrategyTable,
		StrategyList,
		StrategyParagraph,
		StrategyDesperate,
	}
}

// Selector keys understood by selector-driven strategies. The keys shared with
// MissingField let oracle suggestions address the field they fix.
const (
	SelectorTitle          = "title"
	SelectorDescription    = "description"
	SelectorMedia          = "media"
	SelectorCompanies      = "companies"
	SelectorCompanyName    = "company_name"
	SelectorCompanyType    = "company_type"
	SelectorCompanyCredits = "company_credits"
	SelectorRoles          = "roles"
	SelectorPerson         = "person"
)

// LearnedSelectors holds selector overrides keyed by the strategy they were
// learned with. A strategy applies only its own entry.
type LearnedSelectors map[StrategyID]map[string]string

// For returns the overrides learned for id, or nil.
func (l LearnedSelectors) For(id StrategyID) map[string]string {
	if l == nil {
		return nil
	}
	return l[id]
}

// Hints carries per-run parameters for strategies.
type Hints struct {
	// Selectors overrides selector-driven strategy selectors by key, scoped
	// to the strategy each set was learned with.
	Selectors LearnedSelectors

	// Preferred strategies are tried before the registry's order,
	// typically learned from earlier successes on the same domain.
	Preferred []StrategyID

	// Client names the synthetic company of strategies that cannot
	// attribute credits to a company.
	Client string

	// AllowPartial accepts attempts that found record fields but no
	// companies. The oracle tier re-runs selector strategies this way.
	AllowPartial bool
}

// Strategy extracts a partial record from HTML. Implementations must be
// free of side effects.
type Strategy interface {
	// ID returns the strategy's identifier.
	ID() StrategyID

	// Attempt extracts what it can from the page.
	// Returns ENOMATCH when nothing was found and EMALFORMED when the source
	// could not be parsed. A successful attempt has at least one company
	// unless hints.AllowPartial is set.
	Attempt(html string, pageURL string, hints Hints) (*PartialRecord, error)
}

// StrategyRegistry maps structure variants to ordered strategy lists.
type StrategyRegistry interface {
	// StrategiesFor returns the ordered strategies to attempt. Domain-specific
	// overrides are consulted first, then the variant's list, then the default order.
	StrategiesFor(variant StructureVariant, domain string) []StrategyID

	// SelectorStrategy returns the selector-driven strategy re-run with
	// oracle suggestions for the variant.
	SelectorStrategy(variant StructureVariant) StrategyID

	// Get returns the strategy registered under id, or nil.
	Get(id StrategyID) Strategy

	// Register adds or replaces a strategy.
	Register(strategy Strategy)
}

// MetadataExtractor extracts the non-credit fields of a record
// (title, description, client, date, location, format, media).
type MetadataExtractor interface {
	ExtractMetadata(html string, pageURL string) (*PartialRecord, error)
}
