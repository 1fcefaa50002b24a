// Package fs stores page snapshots and finalized records on disk.
package fs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/credex"
)

var _ credex.SnapshotCache = (*SnapshotStore)(nil)

// FileName returns the file name for url: the domain, a double underscore,
// the hex xxhash of the full URL and ext.
// Example: https://www.lbbonline.com/work/1 → lbbonline.com__<hash>.html
func FileName(url, ext string) string {
	domain := credex.Domain(url)
	if domain == "" {
		domain = "unknown"
	}
	domain = strings.NewReplacer(":", "_", "/", "_").Replace(domain)
	return fmt.Sprintf("%s__%016x%s", domain, xxhash.Sum64String(url), ext)
}

// SnapshotStore caches raw page HTML under a directory, one file per URL.
type SnapshotStore struct {
	dir string
}

// NewSnapshotStore creates a SnapshotStore rooted at dir.
// The directory is created on first Put.
func NewSnapshotStore(dir string) *SnapshotStore {
	return &SnapshotStore{dir: dir}
}

// Path returns the snapshot file path for url.
func (s *SnapshotStore) Path(url string) string {
	return filepath.Join(s.dir, FileName(url, ".html"))
}

// Get returns the cached HTML for url. A missing snapshot is not an error.
func (s *SnapshotStore) Get(url string) (string, bool, error) {
	data, err := os.ReadFile(s.Path(url))
	if errors.Is(err, os.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading snapshot: %w", err)
	}
	return string(data), true, nil
}

// Put stores html for url, replacing any previous snapshot atomically.
func (s *SnapshotStore) Put(url string, html string) error {
	return writeAtomic(s.Path(url), []byte(html))
}

// writeAtomic writes data to a temp file in the target directory and
// renames it into place, so readers never observe a partial file.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
