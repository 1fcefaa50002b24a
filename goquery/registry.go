package goquery

import "github.com/fwojciec/credex"

var _ credex.StrategyRegistry = (*Registry)(nil)

// Registry maps structure variants to ordered strategy lists and holds the
// strategy implementations. Domain prefixes are tried before the variant's
// list; a variant without a dedicated list uses credex.DefaultStrategyOrder.
type Registry struct {
	strategies map[credex.StrategyID]credex.Strategy
	variants   map[credex.StructureVariant][]credex.StrategyID
	domains    map[string][]credex.StrategyID
	selector   map[credex.StructureVariant]credex.StrategyID
}

// NewRegistry creates a Registry with the built-in ordering tables and no strategies.
func NewRegistry() *Registry {
	return &Registry{
		strategies: make(map[credex.StrategyID]credex.Strategy),
		variants: map[credex.StructureVariant][]credex.StrategyID{
			credex.VariantJSONEmbedded: {
				credex.StrategyEmbeddedJSON, credex.StrategyLegacyText, credex.StrategyDOMv2,
				credex.StrategyDOMv1, credex.StrategyTable, credex.StrategyList,
				credex.StrategyParagraph, credex.StrategyDesperate,
			},
			credex.VariantDOMv2: {
				credex.StrategyDOMv2, credex.StrategyEmbeddedJSON, credex.StrategyLegacyText,
				credex.StrategyParagraph, credex.StrategyDesperate,
			},
			credex.VariantDOMv1: {
				credex.StrategyDOMv1, credex.StrategyEmbeddedJSON, credex.StrategyLegacyText,
				credex.StrategyTable, credex.StrategyList, credex.StrategyParagraph,
				credex.StrategyDesperate,
			},
			credex.VariantDOMAward: {
				credex.StrategyDOMAward, credex.StrategyTable, credex.StrategyList,
				credex.StrategyParagraph, credex.StrategyDesperate,
			},
			credex.VariantTabularCredits: {
				credex.StrategyTable, credex.StrategyList, credex.StrategyDOMSelectors,
				credex.StrategyParagraph, credex.StrategyDesperate,
			},
			credex.VariantJSRendered: {
				credex.StrategyEmbeddedJSON, credex.StrategyLegacyText, credex.StrategyDOMv2,
				credex.StrategyDOMSelectors, credex.StrategyParagraph, credex.StrategyDesperate,
			},
		},
		// Embedded JSON is cheaper and more precise than any DOM strategy.
		domains: map[string][]credex.StrategyID{
			"lbbonline.com": {credex.StrategyEmbeddedJSON, credex.StrategyLegacyText},
		},
		selector: map[credex.StructureVariant]credex.StrategyID{
			credex.VariantDOMv1:    credex.StrategyDOMv1,
			credex.VariantDOMv2:    credex.StrategyDOMv2,
			credex.VariantDOMAward: credex.StrategyDOMAward,
		},
	}
}

// NewDefaultRegistry creates a Registry with every built-in strategy registered.
func NewDefaultRegistry(mapping *credex.Mapping) *Registry {
	r := NewRegistry()
	r.Register(NewEmbeddedJSONStrategy(mapping))
	r.Register(NewLegacyTextStrategy(mapping))
	r.Register(NewSelectorStrategy(credex.StrategyDOMv2, V2Selectors()))
	r.Register(NewSelectorStrategy(credex.StrategyDOMv1, V1Selectors()))
	r.Register(NewSelectorStrategy(credex.StrategyDOMAward, AwardSelectors()))
	r.Register(NewSelectorStrategy(credex.StrategyDOMSelectors, credex.DefaultSelectors()))
	r.Register(NewTableStrategy())
	r.Register(NewListStrategy())
	r.Register(NewParagraphStrategy())
	r.Register(NewDesperateStrategy())
	return r
}

// StrategiesFor returns the domain prefix followed by the variant's order,
// without duplicates.
func (r *Registry) StrategiesFor(variant credex.StructureVariant, domain string) []credex.StrategyID {
	order, ok := r.variants[variant]
	if !ok {
		order = credex.DefaultStrategyOrder()
	}

	var prefix []credex.StrategyID
	for suffix, ids := range r.domains {
		if credex.HostMatches(domain, suffix) {
			prefix = ids
			break
		}
	}

	seen := make(map[credex.StrategyID]bool)
	var out []credex.StrategyID
	for _, id := range append(append([]credex.StrategyID(nil), prefix...), order...) {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// SelectorStrategy returns the variant's DOM strategy, or StrategyDOMSelectors.
func (r *Registry) SelectorStrategy(variant credex.StructureVariant) credex.StrategyID {
	if id, ok := r.selector[variant]; ok {
		return id
	}
	return credex.StrategyDOMSelectors
}

// Get returns the strategy registered under id, or nil.
func (r *Registry) Get(id credex.StrategyID) credex.Strategy {
	return r.strategies[id]
}

// Register adds a strategy. If a strategy is already registered under the
// same id, it is replaced.
func (r *Registry) Register(strategy credex.Strategy) {
	r.strategies[strategy.ID()] = strategy
}
