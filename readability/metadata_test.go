package readability_test

import (
	"testing"

	"github.com/fwojciec/credex"
	"github.com/fwojciec/credex/readability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetadataExtractor_RejectsEmptyInput(t *testing.T) {
	t.Parallel()

	_, err := readability.NewMetadataExtractor().ExtractMetadata("  ", "https://acme.studio/project/one")

	require.Error(t, err)
	assert.Equal(t, credex.EINVALID, credex.ErrorCode(err))
}

func TestMetadataExtractor_ReadsTitleAndDescription(t *testing.T) {
	t.Parallel()

	html := `<!DOCTYPE html>
<html>
<head>
<title>Just Run</title>
<meta name="description" content="A spot about running at night.">
<meta property="og:image" content="https://acme.studio/img/poster.jpg">
</head>
<body>
<nav><a href="/home">Home</a></nav>
<article>
<h1>Just Run</h1>
<p>This is the story behind the spot, shot over three nights in the city with a small crew and a lot of coffee.</p>
<p>Directed by Jane Doe for Acme Films, with post production by Northside.</p>
</article>
</body>
</html>`

	got, err := readability.NewMetadataExtractor().ExtractMetadata(html, "https://acme.studio/project/one")

	require.NoError(t, err)
	assert.Equal(t, "https://acme.studio/project/one", got.URL)
	assert.Equal(t, "Just Run", got.Title)
	assert.Equal(t, "A spot about running at night.", got.Description)
	assert.Equal(t, "https://acme.studio/img/poster.jpg", got.PosterImage)
	assert.Empty(t, got.Companies)
}
