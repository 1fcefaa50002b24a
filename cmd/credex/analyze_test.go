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

func TestAnalyzeCmd_Run(t *testing.T) {
	t.Parallel()

	newDeps := func(stdout *bytes.Buffer) *main.Dependencies {
		return &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: &bytes.Buffer{},
			Fetcher: &mock.HTMLFetcher{
				FetchHTMLFn: func(context.Context, string, bool) (*credex.FetchResult, error) {
					return &credex.FetchResult{HTML: "<html></html>"}, nil
				},
			},
			Scanner: &mock.LinkScanner{
				AnalyzeFn: func(_ string, baseURL string) (*credex.SiteAnalysis, error) {
					assert.Equal(t, "https://lbbonline.com/work", baseURL)
					return &credex.SiteAnalysis{
						Headline:      "Latest Work",
						ProjectLinks:  []string{"https://lbbonline.com/work/1", "https://lbbonline.com/work/2"},
						CompanyLinks:  []string{"https://lbbonline.com/companies/acme"},
						HasPagination: true,
						MaxPage:       12,
						RolesDetected: []string{"director", "producer"},
						Strategy:      credex.SiteProjectWithCredits,
						Confidence:    0.8,
					}, nil
				},
			},
		}
	}

	t.Run("prints a summary", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}

		err := (&main.AnalyzeCmd{URL: "https://lbbonline.com/work"}).Run(newDeps(stdout))

		require.NoError(t, err)
		output := stdout.String()
		assert.Contains(t, output, "headline:   Latest Work")
		assert.Contains(t, output, "strategy:   project_with_credits (confidence 0.80)")
		assert.Contains(t, output, "pagination: yes (12 pages)")
		assert.Contains(t, output, "roles:      director, producer")
		assert.Contains(t, output, "project links: 2")
		assert.Contains(t, output, "company links: 1")
		assert.Contains(t, output, "person links: 0")
		assert.NotContains(t, output, "https://lbbonline.com/work/1")
	})

	t.Run("prints links when asked", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}

		err := (&main.AnalyzeCmd{URL: "https://lbbonline.com/work", Links: true}).Run(newDeps(stdout))

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "  https://lbbonline.com/work/1\n")
		assert.Contains(t, stdout.String(), "  https://lbbonline.com/companies/acme\n")
	})
}
