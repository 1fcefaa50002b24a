//go:build integration

package rod_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fwojciec/credex"
	"github.com/fwojciec/credex/rod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderer_Render(t *testing.T) {
	t.Parallel()

	t.Run("returns JavaScript rendered HTML", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte(`<!DOCTYPE html>
<html><body>
<div id="credits">Loading...</div>
<script>document.getElementById('credits').textContent = 'Director: Jane Doe';</script>
</body></html>`))
		}))
		defer srv.Close()

		renderer, err := rod.NewRenderer()
		require.NoError(t, err)
		defer renderer.Close()

		html, err := renderer.Render(context.Background(), credex.RenderRequest{URL: srv.URL})

		require.NoError(t, err)
		assert.Contains(t, html, "Director: Jane Doe")
		assert.NotContains(t, html, "Loading...")
	})

	t.Run("clicks reveal controls before the snapshot", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte(`<!DOCTYPE html>
<html><body>
<button class="credits-tab" onclick="document.getElementById('panel').innerHTML = '<p>Producer: John Roe</p>'">Credits</button>
<div id="panel"></div>
</body></html>`))
		}))
		defer srv.Close()

		renderer, err := rod.NewRenderer(rod.WithSettleTime(200 * time.Millisecond))
		require.NoError(t, err)
		defer renderer.Close()

		html, err := renderer.Render(context.Background(), credex.RenderRequest{
			URL:            srv.URL,
			ClickSelectors: []string{".missing-tab", ".credits-tab"},
		})

		require.NoError(t, err)
		assert.Contains(t, html, "Producer: John Roe")
	})

	t.Run("times out on slow pages", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(500 * time.Millisecond)
			_, _ = w.Write([]byte(`<html><body>late</body></html>`))
		}))
		defer srv.Close()

		renderer, err := rod.NewRenderer()
		require.NoError(t, err)
		defer renderer.Close()

		_, err = renderer.Render(context.Background(), credex.RenderRequest{URL: srv.URL, Timeout: 100 * time.Millisecond})

		assert.Equal(t, credex.EEXTERNAL, credex.ErrorCode(err))
	})

	t.Run("rejects renders after close", func(t *testing.T) {
		t.Parallel()

		renderer, err := rod.NewRenderer()
		require.NoError(t, err)
		require.NoError(t, renderer.Close())

		_, err = renderer.Render(context.Background(), credex.RenderRequest{URL: "http://example.com"})

		assert.Equal(t, credex.EINVALID, credex.ErrorCode(err))
		assert.Contains(t, credex.ErrorMessage(err), "closed")
	})
}
