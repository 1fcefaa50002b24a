package main_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/fwojciec/credex"
	main "github.com/fwojciec/credex/cmd/credex"
	"github.com/fwojciec/credex/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("prints variant and strategy order", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: &bytes.Buffer{},
			Fetcher: &mock.HTMLFetcher{
				FetchHTMLFn: func(_ context.Context, _ string, forceRefresh bool) (*credex.FetchResult, error) {
					assert.True(t, forceRefresh)
					return &credex.FetchResult{HTML: "<html></html>", FromCache: false}, nil
				},
			},
			Detector: &mock.StructureDetector{
				DetectFn: func(string, string) credex.StructureVariant { return credex.VariantTabularCredits },
			},
			Registry: &mock.StrategyRegistry{
				StrategiesForFn: func(variant credex.StructureVariant, domain string) []credex.StrategyID {
					assert.Equal(t, credex.VariantTabularCredits, variant)
					assert.Equal(t, "acme.studio", domain)
					return []credex.StrategyID{credex.StrategyTable, credex.StrategyList}
				},
			},
		}

		err := (&main.DetectCmd{URL: "https://acme.studio/project/one", Force: true}).Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "variant:    "+string(credex.VariantTabularCredits))
		assert.Contains(t, stdout.String(), "strategies: table, list")
		assert.NotContains(t, stdout.String(), "snapshot")
	})

	t.Run("returns fetch errors", func(t *testing.T) {
		t.Parallel()

		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: &bytes.Buffer{},
			Stderr: stderr,
			Fetcher: &mock.HTMLFetcher{
				FetchHTMLFn: func(context.Context, string, bool) (*credex.FetchResult, error) {
					return nil, credex.Errorf(credex.EFETCH, "HTTP 500 for https://acme.studio")
				},
			},
		}

		err := (&main.DetectCmd{URL: "https://acme.studio"}).Run(deps)

		require.Error(t, err)
		assert.Contains(t, stderr.String(), "HTTP 500")
	})
}
