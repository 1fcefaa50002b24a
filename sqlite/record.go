package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fwojciec/credex"
	"github.com/google/uuid"
)

var _ credex.RecordStore = (*RecordStore)(nil)

// RecordStore implements credex.RecordStore using SQLite. The record is
// stored as JSON next to a few summary columns used for listing.
type RecordStore struct {
	db *DB
}

// NewRecordStore creates a new RecordStore.
func NewRecordStore(db *DB) *RecordStore {
	return &RecordStore{db: db}
}

// SaveRecord inserts r or replaces the record stored for r.URL.
// The row ID and creation time survive replacement.
func (s *RecordStore) SaveRecord(ctx context.Context, r *credex.Record) error {
	if r == nil || r.URL == "" {
		return credex.Errorf(credex.EINVALID, "record url required")
	}

	data, err := json.Marshal(r)
	if err != nil {
		return credex.Errorf(credex.EINTERNAL, "encoding record: %v", err)
	}
	now := formatTime(time.Now())

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO records (id, url, domain, title, client, method, companies, credits, content_hash, data, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(url) DO UPDATE SET
			domain = excluded.domain,
			title = excluded.title,
			client = excluded.client,
			method = excluded.method,
			companies = excluded.companies,
			credits = excluded.credits,
			content_hash = excluded.content_hash,
			data = excluded.data,
			updated_at = excluded.updated_at
	`, uuid.New().String(), r.URL, credex.Domain(r.URL), r.Title, r.Client, r.Meta.ExtractionMethod,
		len(r.Companies), r.CreditCount(), hashContent(data), string(data), now, now)
	if err != nil {
		return fmt.Errorf("saving record: %w", err)
	}
	return nil
}

// FindRecord returns the record stored for url.
func (s *RecordStore) FindRecord(ctx context.Context, url string) (*credex.Record, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT data FROM records WHERE url = ?`, url).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, credex.Errorf(credex.ENOTFOUND, "record not found")
	}
	if err != nil {
		return nil, err
	}

	var r credex.Record
	if err := json.Unmarshal([]byte(data), &r); err != nil {
		return nil, fmt.Errorf("decoding record: %w", err)
	}
	return &r, nil
}

// ListRecords returns summaries of all stored records, most recently
// updated first.
func (s *RecordStore) ListRecords(ctx context.Context) ([]*credex.RecordSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT url, title, client, companies, credits, method, updated_at
		FROM records
		ORDER BY updated_at DESC, url ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := []*credex.RecordSummary{}
	for rows.Next() {
		var sum credex.RecordSummary
		var updatedAt string
		if err := rows.Scan(&sum.URL, &sum.Title, &sum.Client, &sum.Companies, &sum.Credits,
			&sum.ExtractionMethod, &updatedAt); err != nil {
			return nil, err
		}
		if sum.UpdatedAt, err = parseRFC3339(updatedAt, "updated_at"); err != nil {
			return nil, err
		}
		summaries = append(summaries, &sum)
	}
	return summaries, rows.Err()
}
