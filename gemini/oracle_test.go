package gemini_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/fwojciec/credex"
	"github.com/fwojciec/credex/gemini"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOracle_Suggest(t *testing.T) {
	t.Parallel()

	t.Run("returns an empty suggestion when nothing is missing", func(t *testing.T) {
		t.Parallel()

		oracle := gemini.NewOracle(nil, "") // nil client ok for this test

		got, err := oracle.Suggest(context.Background(), credex.SuggestRequest{URL: "https://example.com"})

		require.NoError(t, err)
		assert.True(t, got.Empty())
	})

	t.Run("reports an external failure without a client", func(t *testing.T) {
		t.Parallel()

		oracle := gemini.NewOracle(nil, "")

		_, err := oracle.Suggest(context.Background(), credex.SuggestRequest{
			MissingFields: []credex.MissingField{credex.MissingCompanies},
		})

		assert.Equal(t, credex.EEXTERNAL, credex.ErrorCode(err))
	})
}

func TestRoleResolver_ResolveRoles(t *testing.T) {
	t.Parallel()

	t.Run("resolves nothing without unknown roles", func(t *testing.T) {
		t.Parallel()

		got, err := gemini.NewRoleResolver(nil, "", nil).ResolveRoles(context.Background(), "", nil)

		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("reports an external failure without a client", func(t *testing.T) {
		t.Parallel()

		_, err := gemini.NewRoleResolver(nil, "", nil).ResolveRoles(context.Background(), "",
			[]credex.UnknownRole{{PersonID: "p1", Name: "Jane Doe"}})

		assert.Equal(t, credex.EEXTERNAL, credex.ErrorCode(err))
	})
}

func TestBuildConfig_SetsInstructionAndTemperature(t *testing.T) {
	t.Parallel()

	config := gemini.BuildConfig("be precise")

	require.NotNil(t, config.SystemInstruction)
	require.Len(t, config.SystemInstruction.Parts, 1)
	assert.Equal(t, "be precise", config.SystemInstruction.Parts[0].Text)
	require.NotNil(t, config.Temperature)
	assert.InDelta(t, 0.2, *config.Temperature, 0.001)
}

func TestBuildSuggestPrompt_ContainsRequest(t *testing.T) {
	t.Parallel()

	prompt := gemini.BuildSuggestPrompt(credex.SuggestRequest{
		HTML:              "<div class=\"crew\"></div>",
		URL:               "https://lbbonline.com/work/1",
		MissingFields:     []credex.MissingField{credex.MissingCompanies, credex.MissingRoles},
		PreviousSelectors: map[string]string{"companies": ".company"},
	})

	assert.Contains(t, prompt, "https://lbbonline.com/work/1")
	assert.Contains(t, prompt, "- companies, roles")
	assert.Contains(t, prompt, "Previously attempted selectors")
	assert.Contains(t, prompt, `"companies": ".company"`)
	assert.Contains(t, prompt, `<div class="crew"></div>`)
}

func TestBuildSuggestPrompt_TruncatesHTML(t *testing.T) {
	t.Parallel()

	prompt := gemini.BuildSuggestPrompt(credex.SuggestRequest{
		HTML:          strings.Repeat("a", 20000),
		MissingFields: []credex.MissingField{credex.MissingTitle},
	})

	assert.Contains(t, prompt, strings.Repeat("a", 15000)+"...")
	assert.NotContains(t, prompt, strings.Repeat("a", 15001))
	assert.NotContains(t, prompt, "Previously attempted selectors")
}

func TestBuildRolePrompt_LimitsKnownRoles(t *testing.T) {
	t.Parallel()

	known := make(map[string]string)
	for i := 0; i < 25; i++ {
		known[fmt.Sprintf("r%02d", i)] = fmt.Sprintf("Role %d", i)
	}

	prompt := gemini.BuildRolePrompt([]credex.UnknownRole{{PersonID: "p1", Name: "Jane Doe"}}, known, gemini.PageContext{})

	assert.Contains(t, prompt, `"personId": "p1"`)
	assert.Contains(t, prompt, `"r19": "Role 19"`)
	assert.NotContains(t, prompt, `"r20"`)
	assert.NotContains(t, prompt, "Page context")
	assert.Contains(t, prompt, "Contributor")
}

func TestBuildRolePrompt_IncludesPageContext(t *testing.T) {
	t.Parallel()

	unknown := []credex.UnknownRole{{PersonID: "p1", Name: "Jane Doe"}}

	t.Run("fences html by default", func(t *testing.T) {
		t.Parallel()

		prompt := gemini.BuildRolePrompt(unknown, nil, gemini.PageContext{Text: "<p>Jane Doe</p>"})

		assert.Contains(t, prompt, "Page context:\n```html\n<p>Jane Doe</p>\n```")
	})

	t.Run("fences converted markdown", func(t *testing.T) {
		t.Parallel()

		prompt := gemini.BuildRolePrompt(unknown, nil, gemini.PageContext{Text: "**Jane Doe** - DoP", Format: "markdown"})

		assert.Contains(t, prompt, "```markdown\n**Jane Doe** - DoP\n```")
	})
}
