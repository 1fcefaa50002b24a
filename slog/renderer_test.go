package slog_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/fwojciec/credex"
	"github.com/fwojciec/credex/mock"
	credexslog "github.com/fwojciec/credex/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingRenderer_Render(t *testing.T) {
	t.Parallel()

	t.Run("logs clicks bytes and duration", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Renderer{
			RenderFn: func(ctx context.Context, req credex.RenderRequest) (string, error) {
				return "<html>rendered</html>", nil
			},
		}

		html, err := credexslog.NewLoggingRenderer(inner, logger).Render(context.Background(), credex.RenderRequest{
			URL:            "https://lbbonline.com/work/1",
			ClickSelectors: []string{".credits-tab"},
		})

		require.NoError(t, err)
		assert.Equal(t, "<html>rendered</html>", html)
		output := buf.String()
		assert.Contains(t, output, "msg=render")
		assert.Contains(t, output, "clicks=1")
		assert.Contains(t, output, "bytes=21")
		assert.Contains(t, output, "duration=")
	})
}
