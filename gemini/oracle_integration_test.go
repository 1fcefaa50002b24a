//go:build integration

package gemini_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/fwojciec/credex"
	"github.com/fwojciec/credex/gemini"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestOracle_Integration_SuggestsSelectors(t *testing.T) {
	t.Parallel()

	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		t.Skip("GEMINI_API_KEY not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	require.NoError(t, err)

	oracle := gemini.NewOracle(client, "")

	got, err := oracle.Suggest(ctx, credex.SuggestRequest{
		URL: "https://example.com/work/1",
		HTML: `<html><body><h1>Spot</h1>
			<section class="crew-list">
				<div class="studio"><h4>Acme Films</h4><ul><li><i>Director</i> Jane Doe</li></ul></div>
			</section></body></html>`,
		MissingFields: []credex.MissingField{credex.MissingCompanies},
	})

	require.NoError(t, err)
	assert.NotEmpty(t, got.Selectors[credex.SelectorCompanies])
}
