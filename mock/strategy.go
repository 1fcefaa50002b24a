package mock

import "github.com/fwojciec/credex"

var _ credex.Strategy = (*Strategy)(nil)

// Strategy is a mock implementation of credex.Strategy.
type Strategy struct {
	IDFn      func() credex.StrategyID
	AttemptFn func(html string, pageURL string, hints credex.Hints) (*credex.PartialRecord, error)
}

func (s *Strategy) ID() credex.StrategyID {
	return s.IDFn()
}

func (s *Strategy) Attempt(html string, pageURL string, hints credex.Hints) (*credex.PartialRecord, error) {
	return s.AttemptFn(html, pageURL, hints)
}

var _ credex.StrategyRegistry = (*StrategyRegistry)(nil)

// StrategyRegistry is a mock implementation of credex.StrategyRegistry.
type StrategyRegistry struct {
	StrategiesForFn    func(variant credex.StructureVariant, domain string) []credex.StrategyID
	SelectorStrategyFn func(variant credex.StructureVariant) credex.StrategyID
	GetFn              func(id credex.StrategyID) credex.Strategy
	RegisterFn         func(strategy credex.Strategy)
}

func (r *StrategyRegistry) StrategiesFor(variant credex.StructureVariant, domain string) []credex.StrategyID {
	return r.StrategiesForFn(variant, domain)
}

func (r *StrategyRegistry) SelectorStrategy(variant credex.StructureVariant) credex.StrategyID {
	return r.SelectorStrategyFn(variant)
}

func (r *StrategyRegistry) Get(id credex.StrategyID) credex.Strategy {
	return r.GetFn(id)
}

func (r *StrategyRegistry) Register(strategy credex.Strategy) {
	r.RegisterFn(strategy)
}

var _ credex.StructureDetector = (*StructureDetector)(nil)

// StructureDetector is a mock implementation of credex.StructureDetector.
type StructureDetector struct {
	DetectFn func(html string, pageURL string) credex.StructureVariant
}

func (d *StructureDetector) Detect(html string, pageURL string) credex.StructureVariant {
	return d.DetectFn(html, pageURL)
}

var _ credex.MetadataExtractor = (*MetadataExtractor)(nil)

// MetadataExtractor is a mock implementation of credex.MetadataExtractor.
type MetadataExtractor struct {
	ExtractMetadataFn func(html string, pageURL string) (*credex.PartialRecord, error)
}

func (m *MetadataExtractor) ExtractMetadata(html string, pageURL string) (*credex.PartialRecord, error) {
	return m.ExtractMetadataFn(html, pageURL)
}
