package credex

import "context"

// RecordStore persists finalized records, one per page URL.
type RecordStore interface {
	// SaveRecord inserts or replaces the record stored for r.URL.
	SaveRecord(ctx context.Context, r *Record) error

	// FindRecord returns the record stored for url.
	// Returns ENOTFOUND if no record exists.
	FindRecord(ctx context.Context, url string) (*Record, error)

	// ListRecords returns summaries of all stored records, most recently updated first.
	ListRecords(ctx context.Context) ([]*RecordSummary, error)
}

// RecordWriter writes finalized records to an output sink.
type RecordWriter interface {
	WriteRecord(r *Record) error
}

// KnowledgeBase remembers what worked on each domain across runs.
type KnowledgeBase interface {
	// RecordSuccess notes that method produced companies on domain.
	// The most recent method is preferred first.
	RecordSuccess(ctx context.Context, domain string, method StrategyID) error

	// PreferredMethods returns methods that succeeded on domain, most recent first.
	PreferredMethods(ctx context.Context, domain string) ([]StrategyID, error)

	// SaveSelectors merges selectors learned with strategy on domain.
	SaveSelectors(ctx context.Context, domain string, strategy StrategyID, selectors map[string]string) error

	// Selectors returns the learned selectors for domain, per strategy.
	Selectors(ctx context.Context, domain string) (LearnedSelectors, error)
}
