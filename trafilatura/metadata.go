// Package trafilatura reads page metadata for project pages whose markup
// carries no site-specific fields.
package trafilatura

import (
	"net/url"
	"strings"

	"github.com/fwojciec/credex"
	"github.com/markusmobius/go-trafilatura"
)

var _ credex.MetadataExtractor = (*MetadataExtractor)(nil)

// MetadataExtractor wraps go-trafilatura's metadata detection. It fills
// title, description, date (year) and poster image; it never yields credits.
type MetadataExtractor struct{}

// NewMetadataExtractor creates a new MetadataExtractor.
func NewMetadataExtractor() *MetadataExtractor {
	return &MetadataExtractor{}
}

// ExtractMetadata returns a partial record with no companies.
func (e *MetadataExtractor) ExtractMetadata(rawHTML string, pageURL string) (*credex.PartialRecord, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, credex.Errorf(credex.EINVALID, "empty HTML input")
	}

	opts := trafilatura.Options{
		EnableFallback: true,
		ExcludeTables:  false,
	}
	if u, err := url.Parse(pageURL); err == nil && u.Host != "" {
		opts.OriginalURL = u
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), opts)
	if err != nil {
		return nil, credex.Errorf(credex.EMALFORMED, "trafilatura: %v", err)
	}

	meta := result.Metadata
	record := &credex.PartialRecord{
		URL:         pageURL,
		Title:       credex.CleanText(meta.Title),
		Description: credex.CleanText(meta.Description),
		PosterImage: strings.TrimSpace(meta.Image),
	}
	if !meta.Date.IsZero() {
		record.Date = meta.Date.Format("2006")
	}
	return record, nil
}
