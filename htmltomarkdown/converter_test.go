package htmltomarkdown_test

import (
	"testing"

	"github.com/fwojciec/credex"
	"github.com/fwojciec/credex/htmltomarkdown"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConverter_Convert(t *testing.T) {
	t.Parallel()

	t.Run("converts headings and links", func(t *testing.T) {
		t.Parallel()

		html := `<h1>Just Run</h1><p>Directed by <a href="https://acme.studio/people/jane">Jane Doe</a>.</p>`

		md, err := htmltomarkdown.NewConverter().Convert(html)

		require.NoError(t, err)
		assert.Contains(t, md, "# Just Run")
		assert.Contains(t, md, "[Jane Doe](https://acme.studio/people/jane)")
	})

	t.Run("keeps credit tables as rows", func(t *testing.T) {
		t.Parallel()

		html := `<table>
<tr><th>Role</th><th>Name</th></tr>
<tr><td>Director</td><td>Jane Doe</td></tr>
</table>`

		md, err := htmltomarkdown.NewConverter().Convert(html)

		require.NoError(t, err)
		assert.Contains(t, md, "| Director | Jane Doe |")
	})

	t.Run("drops scripts and navigation", func(t *testing.T) {
		t.Parallel()

		html := `<html><head><title>T</title><style>.x{}</style></head><body>
<nav><a href="/">Home Nav Link</a></nav>
<script>var tracking = 1;</script>
<p>Editor: John Roe</p>
<footer>Copyright</footer>
</body></html>`

		md, err := htmltomarkdown.NewConverter().Convert(html)

		require.NoError(t, err)
		assert.Contains(t, md, "Editor: John Roe")
		assert.NotContains(t, md, "Home Nav Link")
		assert.NotContains(t, md, "tracking")
		assert.NotContains(t, md, "Copyright")
	})

	t.Run("rejects empty input", func(t *testing.T) {
		t.Parallel()

		_, err := htmltomarkdown.NewConverter().Convert("   ")

		require.Error(t, err)
		assert.Equal(t, credex.EINVALID, credex.ErrorCode(err))
	})
}
