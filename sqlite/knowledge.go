package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/fwojciec/credex"
)

var _ credex.KnowledgeBase = (*KnowledgeBase)(nil)

// KnowledgeBase implements credex.KnowledgeBase using SQLite.
type KnowledgeBase struct {
	db *DB
}

// NewKnowledgeBase creates a new KnowledgeBase.
func NewKnowledgeBase(db *DB) *KnowledgeBase {
	return &KnowledgeBase{db: db}
}

// RecordSuccess moves method to the front of domain's preferred methods.
func (kb *KnowledgeBase) RecordSuccess(ctx context.Context, domain string, method credex.StrategyID) error {
	if domain == "" || method == "" {
		return credex.Errorf(credex.EINVALID, "domain and method required")
	}
	_, err := kb.db.ExecContext(ctx, `
		INSERT INTO domain_methods (domain, method, successes, seq, succeeded_at)
		VALUES (?, ?, 1, (SELECT COALESCE(MAX(seq), 0) + 1 FROM domain_methods), ?)
		ON CONFLICT(domain, method) DO UPDATE SET
			successes = successes + 1,
			seq = excluded.seq,
			succeeded_at = excluded.succeeded_at
	`, domain, string(method), formatTime(time.Now()))
	if err != nil {
		return fmt.Errorf("recording success: %w", err)
	}
	return nil
}

// PreferredMethods returns the methods that succeeded on domain, most
// recent first. Unknown domains yield an empty list.
func (kb *KnowledgeBase) PreferredMethods(ctx context.Context, domain string) ([]credex.StrategyID, error) {
	rows, err := kb.db.QueryContext(ctx, `
		SELECT method FROM domain_methods WHERE domain = ? ORDER BY seq DESC
	`, domain)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	methods := []credex.StrategyID{}
	for rows.Next() {
		var m string
		if err := rows.Scan(&m); err != nil {
			return nil, err
		}
		methods = append(methods, credex.StrategyID(m))
	}
	return methods, rows.Err()
}

// SaveSelectors merges selectors into the ones learned with strategy on
// domain. Blank selectors are ignored.
func (kb *KnowledgeBase) SaveSelectors(ctx context.Context, domain string, strategy credex.StrategyID, selectors map[string]string) error {
	if domain == "" {
		return credex.Errorf(credex.EINVALID, "domain required")
	}
	if strategy == "" {
		return credex.Errorf(credex.EINVALID, "strategy required")
	}
	now := formatTime(time.Now())
	for field, selector := range selectors {
		if field == "" || selector == "" {
			continue
		}
		if _, err := kb.db.ExecContext(ctx, `
			INSERT INTO strategy_selectors (domain, strategy, field, selector, updated_at)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(domain, strategy, field) DO UPDATE SET
				selector = excluded.selector,
				updated_at = excluded.updated_at
		`, domain, string(strategy), field, selector, now); err != nil {
			return fmt.Errorf("saving selector %s: %w", field, err)
		}
	}
	return nil
}

// Selectors returns domain's learned selectors keyed by strategy, then field.
func (kb *KnowledgeBase) Selectors(ctx context.Context, domain string) (credex.LearnedSelectors, error) {
	rows, err := kb.db.QueryContext(ctx, `
		SELECT strategy, field, selector FROM strategy_selectors WHERE domain = ?
	`, domain)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	learned := credex.LearnedSelectors{}
	for rows.Next() {
		var strategy, field, selector string
		if err := rows.Scan(&strategy, &field, &selector); err != nil {
			return nil, err
		}
		id := credex.StrategyID(strategy)
		if learned[id] == nil {
			learned[id] = map[string]string{}
		}
		learned[id][field] = selector
	}
	return learned, rows.Err()
}
