package mock

import (
	"context"

	"github.com/fwojciec/credex"
)

var _ credex.RecordStore = (*RecordStore)(nil)

// RecordStore is a mock implementation of credex.RecordStore.
type RecordStore struct {
	SaveRecordFn  func(ctx context.Context, r *credex.Record) error
	FindRecordFn  func(ctx context.Context, url string) (*credex.Record, error)
	ListRecordsFn func(ctx context.Context) ([]*credex.RecordSummary, error)
}

func (s *RecordStore) SaveRecord(ctx context.Context, r *credex.Record) error {
	return s.SaveRecordFn(ctx, r)
}

func (s *RecordStore) FindRecord(ctx context.Context, url string) (*credex.Record, error) {
	return s.FindRecordFn(ctx, url)
}

func (s *RecordStore) ListRecords(ctx context.Context) ([]*credex.RecordSummary, error) {
	return s.ListRecordsFn(ctx)
}

var _ credex.RecordWriter = (*RecordWriter)(nil)

// RecordWriter is a mock implementation of credex.RecordWriter.
type RecordWriter struct {
	WriteRecordFn func(r *credex.Record) error
}

func (w *RecordWriter) WriteRecord(r *credex.Record) error {
	return w.WriteRecordFn(r)
}

var _ credex.KnowledgeBase = (*KnowledgeBase)(nil)

// KnowledgeBase is a mock implementation of credex.KnowledgeBase.
type KnowledgeBase struct {
	RecordSuccessFn    func(ctx context.Context, domain string, method credex.StrategyID) error
	PreferredMethodsFn func(ctx context.Context, domain string) ([]credex.StrategyID, error)
	SaveSelectorsFn    func(ctx context.Context, domain string, strategy credex.StrategyID, selectors map[string]string) error
	SelectorsFn        func(ctx context.Context, domain string) (credex.LearnedSelectors, error)
}

func (k *KnowledgeBase) RecordSuccess(ctx context.Context, domain string, method credex.StrategyID) error {
	return k.RecordSuccessFn(ctx, domain, method)
}

func (k *KnowledgeBase) PreferredMethods(ctx context.Context, domain string) ([]credex.StrategyID, error) {
	return k.PreferredMethodsFn(ctx, domain)
}

func (k *KnowledgeBase) SaveSelectors(ctx context.Context, domain string, strategy credex.StrategyID, selectors map[string]string) error {
	return k.SaveSelectorsFn(ctx, domain, strategy, selectors)
}

func (k *KnowledgeBase) Selectors(ctx context.Context, domain string) (credex.LearnedSelectors, error) {
	return k.SelectorsFn(ctx, domain)
}
