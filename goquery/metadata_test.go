package goquery_test

import (
	"testing"

	"github.com/fwojciec/credex"
	"github.com/fwojciec/credex/goquery"
	"github.com/fwojciec/credex/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetadataExtractor_ExtractMetadata(t *testing.T) {
	t.Parallel()

	t.Run("reads embedded keys on lbbonline pages", func(t *testing.T) {
		t.Parallel()

		html := `<html><head><script>var page = {"brand_and_name":"Nike - Just Run","notube_id":"abc123","image":"/files/poster.jpg","lbb_credits":"[]"};</script></head><body></body></html>`

		got, err := goquery.NewMetadataExtractor().ExtractMetadata(html, "https://lbbonline.com/work/1")

		require.NoError(t, err)
		assert.Equal(t, "Just Run", got.Title)
		assert.Equal(t, "Nike", got.Client)
		assert.Equal(t, []string{"https://notube.lbbonline.com/v/abc123"}, got.VideoLinks)
		assert.Equal(t, "https://d3q27bh1u24u2o.cloudfront.net/files/poster.jpg", got.PosterImage)
		assert.Empty(t, got.Companies)
	})

	t.Run("reads generic markup and meta tags", func(t *testing.T) {
		t.Parallel()

		html := `<html><head>
			<title>Fallback Title</title>
			<meta name="description" content="A short film.">
			<meta property="og:image" content="/og.jpg">
		</head><body>
			<h1>Spot Title</h1>
			<ul class="project-info">
				<li>Client: Acme</li>
				<li>Year: 2023</li>
				<li>Location: Lisbon</li>
				<li>Format: Film</li>
			</ul>
			<iframe src="https://player.vimeo.com/video/1"></iframe>
			<a href="https://www.youtube.com/watch?v=x">Watch</a>
			<a href="/about">About</a>
		</body></html>`

		got, err := goquery.NewMetadataExtractor().ExtractMetadata(html, "https://example.com/p/1")

		require.NoError(t, err)
		assert.Equal(t, "Spot Title", got.Title)
		assert.Equal(t, "A short film.", got.Description)
		assert.Equal(t, "Acme", got.Client)
		assert.Equal(t, "2023", got.Date)
		assert.Equal(t, "Lisbon", got.Location)
		assert.Equal(t, "Film", got.Format)
		assert.Equal(t, []string{"https://player.vimeo.com/video/1", "https://www.youtube.com/watch?v=x"}, got.VideoLinks)
		assert.Equal(t, "https://example.com/og.jpg", got.PosterImage)
	})

	t.Run("strips the site suffix from the document title", func(t *testing.T) {
		t.Parallel()

		html := `<html><head><title>Just Run | LBBOnline</title></head><body></body></html>`

		got, err := goquery.NewMetadataExtractor().ExtractMetadata(html, "https://example.com/p/1")

		require.NoError(t, err)
		assert.Equal(t, "Just Run", got.Title)
	})

	t.Run("fills blank fields from the fallback", func(t *testing.T) {
		t.Parallel()

		fallback := &mock.MetadataExtractor{
			ExtractMetadataFn: func(html string, pageURL string) (*credex.PartialRecord, error) {
				return &credex.PartialRecord{
					Title:       "Other Title",
					Description: "From fallback.",
					Date:        "2020",
				}, nil
			},
		}
		html := `<html><body><h1>Own Title</h1></body></html>`

		got, err := goquery.NewMetadataExtractor(goquery.WithFallback(fallback)).ExtractMetadata(html, "https://example.com/p/1")

		require.NoError(t, err)
		assert.Equal(t, "Own Title", got.Title)
		assert.Equal(t, "From fallback.", got.Description)
		assert.Equal(t, "2020", got.Date)
	})

	t.Run("consults fallbacks in order", func(t *testing.T) {
		t.Parallel()

		first := &mock.MetadataExtractor{
			ExtractMetadataFn: func(string, string) (*credex.PartialRecord, error) {
				return &credex.PartialRecord{Description: "First."}, nil
			},
		}
		second := &mock.MetadataExtractor{
			ExtractMetadataFn: func(string, string) (*credex.PartialRecord, error) {
				return &credex.PartialRecord{Description: "Second.", PosterImage: "https://example.com/p.jpg"}, nil
			},
		}
		html := `<html><body><h1>Own Title</h1></body></html>`

		got, err := goquery.NewMetadataExtractor(goquery.WithFallback(first), goquery.WithFallback(second)).ExtractMetadata(html, "https://example.com/p/1")

		require.NoError(t, err)
		assert.Equal(t, "First.", got.Description)
		assert.Equal(t, "https://example.com/p.jpg", got.PosterImage)
	})
}
