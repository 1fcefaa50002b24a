package fs

import (
	"encoding/json"
	"path/filepath"

	"github.com/fwojciec/credex"
)

var _ credex.RecordWriter = (*RecordWriter)(nil)

// RecordWriter writes each record as an indented JSON file named after
// its URL.
type RecordWriter struct {
	dir string
}

// NewRecordWriter creates a RecordWriter that writes into dir.
func NewRecordWriter(dir string) *RecordWriter {
	return &RecordWriter{dir: dir}
}

// Path returns the output file path for url.
func (w *RecordWriter) Path(url string) string {
	return filepath.Join(w.dir, FileName(url, ".json"))
}

// WriteRecord writes r, replacing an earlier file for the same URL.
func (w *RecordWriter) WriteRecord(r *credex.Record) error {
	if r == nil || r.URL == "" {
		return credex.Errorf(credex.EINVALID, "record url required")
	}
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return credex.Errorf(credex.EINTERNAL, "encoding record: %v", err)
	}
	return writeAtomic(w.Path(r.URL), append(data, '\n'))
}
