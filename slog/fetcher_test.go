package slog_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/fwojciec/credex"
	"github.com/fwojciec/credex/mock"
	credexslog "github.com/fwojciec/credex/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingFetcher_Fetch(t *testing.T) {
	t.Parallel()

	t.Run("logs fetch with bytes and duration", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) {
				return "<html>content</html>", nil
			},
		}

		fetcher := credexslog.NewLoggingFetcher(inner, logger)
		html, err := fetcher.Fetch(context.Background(), "https://example.com/work/1")

		require.NoError(t, err)
		assert.Equal(t, "<html>content</html>", html)
		output := buf.String()
		assert.Contains(t, output, "fetch")
		assert.Contains(t, output, "url=https://example.com/work/1")
		assert.Contains(t, output, "bytes=20")
		assert.Contains(t, output, "duration=")
	})

	t.Run("logs error on failure", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) {
				return "", errors.New("network error")
			},
		}

		fetcher := credexslog.NewLoggingFetcher(inner, logger)
		_, err := fetcher.Fetch(context.Background(), "https://example.com/work/1")

		require.Error(t, err)
		assert.Contains(t, buf.String(), "err=\"network error\"")
	})
}

func TestLoggingHTMLFetcher_FetchHTML(t *testing.T) {
	t.Parallel()

	t.Run("logs cache hits", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.HTMLFetcher{
			FetchHTMLFn: func(ctx context.Context, url string, forceRefresh bool) (*credex.FetchResult, error) {
				return &credex.FetchResult{HTML: "<html></html>", FromCache: true}, nil
			},
		}

		result, err := credexslog.NewLoggingHTMLFetcher(inner, logger).FetchHTML(context.Background(), "https://example.com/work/1", false)

		require.NoError(t, err)
		assert.True(t, result.FromCache)
		output := buf.String()
		assert.Contains(t, output, "fetch html")
		assert.Contains(t, output, "cached=true")
		assert.Contains(t, output, "force_refresh=false")
	})
}
