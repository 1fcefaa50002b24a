// Package readability reads page metadata with go-readability. It is the
// last fallback for pages whose markup and metadata tags carry no title or
// description.
package readability

import (
	"net/url"
	"strings"

	"github.com/fwojciec/credex"
	"github.com/go-shiori/go-readability"
)

var _ credex.MetadataExtractor = (*MetadataExtractor)(nil)

// MetadataExtractor wraps go-readability. It fills title, description and
// poster image from the page's main article.
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

	var base *url.URL
	if u, err := url.Parse(pageURL); err == nil && u.Host != "" {
		base = u
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), base)
	if err != nil {
		return nil, credex.Errorf(credex.EMALFORMED, "readability: %v", err)
	}

	title := credex.CleanText(article.Title)
	if article.SiteName != "" {
		title = strings.TrimSpace(strings.TrimSuffix(title, " | "+article.SiteName))
	}
	return &credex.PartialRecord{
		URL:         pageURL,
		Title:       title,
		Description: credex.CleanText(article.Excerpt),
		PosterImage: strings.TrimSpace(article.Image),
	}, nil
}
