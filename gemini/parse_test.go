package gemini_test

import (
	"testing"

	"github.com/fwojciec/credex"
	"github.com/fwojciec/credex/gemini"
	"github.com/stretchr/testify/assert"
)

func TestParseSuggestion(t *testing.T) {
	t.Parallel()

	missing := []credex.MissingField{credex.MissingCompanies, credex.MissingRoles}

	t.Run("decodes a plain JSON answer", func(t *testing.T) {
		t.Parallel()

		text := `{
			"selectors": {"companies": ".credit-block", "roles": ".credit-role"},
			"explanations": {"companies": "each block is a company"},
			"alternatives": {"companies": [".company", ".studio"], "roles": ".job"}
		}`

		got := gemini.ParseSuggestion(text, missing)

		assert.Equal(t, map[string]string{"companies": ".credit-block", "roles": ".credit-role"}, got.Selectors)
		assert.Equal(t, "each block is a company", got.Explanations["companies"])
		assert.Equal(t, []string{".company", ".studio"}, got.Alternatives["companies"])
		assert.Equal(t, []string{".job"}, got.Alternatives["roles"])
	})

	t.Run("extracts a fenced code block", func(t *testing.T) {
		t.Parallel()

		text := "Here you go:\n```json\n{\"selectors\": {\"companies\": \".credit\"}}\n```\nGood luck!"

		got := gemini.ParseSuggestion(text, missing)

		assert.Equal(t, map[string]string{"companies": ".credit"}, got.Selectors)
	})

	t.Run("extracts a brace-delimited substring", func(t *testing.T) {
		t.Parallel()

		text := `Suggested: {"selectors": {"title": "h1.headline"}} hope this helps`

		got := gemini.ParseSuggestion(text, missing)

		assert.Equal(t, map[string]string{"title": "h1.headline"}, got.Selectors)
	})

	t.Run("repairs malformed JSON", func(t *testing.T) {
		t.Parallel()

		text := "```json\n{'selectors': {'roles': '.role',},}\n```"

		got := gemini.ParseSuggestion(text, missing)

		assert.Equal(t, map[string]string{"roles": ".role"}, got.Selectors)
	})

	t.Run("salvages selector pairs from prose", func(t *testing.T) {
		t.Parallel()

		text := `I think "title": "h1.headline" and "companies": ".crew" would work, also "foo": "bar".`

		got := gemini.ParseSuggestion(text, missing)

		assert.Equal(t, map[string]string{"title": "h1.headline", "companies": ".crew"}, got.Selectors)
	})

	t.Run("falls back to default selectors for the missing fields", func(t *testing.T) {
		t.Parallel()

		got := gemini.ParseSuggestion("I cannot help with that.", missing)

		defaults := credex.DefaultSelectors()
		assert.Equal(t, map[string]string{
			"companies": defaults[credex.SelectorCompanies],
			"roles":     defaults[credex.SelectorRoles],
		}, got.Selectors)
	})

	t.Run("keeps an explicitly empty answer empty", func(t *testing.T) {
		t.Parallel()

		got := gemini.ParseSuggestion(`{"selectors": {}}`, missing)

		assert.True(t, got.Empty())
	})
}

func TestParseRoles(t *testing.T) {
	t.Parallel()

	t.Run("reads person roles and drops blanks", func(t *testing.T) {
		t.Parallel()

		got := gemini.ParseRoles("```json\n{\"p1\": \"Director\", \"p2\": \"\"}\n```")

		assert.Equal(t, map[string]string{"p1": "Director"}, got)
	})

	t.Run("returns an empty map for prose", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, gemini.ParseRoles("no idea"))
	})
}
