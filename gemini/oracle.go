// Package gemini implements the selector oracle and role resolver over the
// Google Gemini API.
package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/fwojciec/credex"
	"google.golang.org/genai"
)

// maxHTMLChars caps the page HTML sent with a prompt.
const maxHTMLChars = 15000

// maxKnownRoles caps the known role examples sent with a role prompt.
const maxKnownRoles = 20

const (
	suggestInstruction = "You are an expert web scraper and front-end engineer. " +
		"Your job is to find the best CSS selectors to extract elements from a webpage based on its raw HTML. " +
		"You are especially good at tracing elements based on visible text and structure."
	roleInstruction = "You are an expert in creative industry roles and job titles. " +
		"Your task is to normalize inconsistent or missing role names to standard industry terms."
)

var (
	_ credex.SelectorOracle = (*Oracle)(nil)
	_ credex.RoleResolver   = (*RoleResolver)(nil)
)

// Oracle implements credex.SelectorOracle using Google Gemini.
type Oracle struct {
	client *genai.Client
	model  string
}

// NewOracle creates a new Oracle. An empty model selects credex.DefaultModel.
func NewOracle(client *genai.Client, model string) *Oracle {
	if model == "" {
		model = credex.DefaultModel
	}
	return &Oracle{client: client, model: model}
}

// Suggest asks the model for selectors targeting the missing fields.
// Unparseable answers degrade to the default selector set for those fields.
func (o *Oracle) Suggest(ctx context.Context, req credex.SuggestRequest) (*credex.Suggestion, error) {
	if len(req.MissingFields) == 0 {
		return &credex.Suggestion{}, nil
	}
	text, err := generate(ctx, o.client, o.model, suggestInstruction, BuildSuggestPrompt(req))
	if err != nil {
		return nil, err
	}
	return ParseSuggestion(text, req.MissingFields), nil
}

// RoleResolver implements credex.RoleResolver using Google Gemini.
type RoleResolver struct {
	client    *genai.Client
	model     string
	mapping   *credex.Mapping
	converter credex.Converter
}

// RoleOption configures a RoleResolver.
type RoleOption func(*RoleResolver)

// WithConverter sends the page context in converted form (markdown) rather
// than raw HTML. Pages that fail to convert are sent as HTML.
func WithConverter(c credex.Converter) RoleOption {
	return func(r *RoleResolver) {
		r.converter = c
	}
}

// NewRoleResolver creates a new RoleResolver. Known roles from mapping are
// sent as examples.
func NewRoleResolver(client *genai.Client, model string, mapping *credex.Mapping, opts ...RoleOption) *RoleResolver {
	if model == "" {
		model = credex.DefaultModel
	}
	r := &RoleResolver{client: client, model: model, mapping: mapping}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ResolveRoles asks the model for the roles of the given people.
func (r *RoleResolver) ResolveRoles(ctx context.Context, html string, unknown []credex.UnknownRole) (map[string]string, error) {
	if len(unknown) == 0 {
		return map[string]string{}, nil
	}
	var known map[string]string
	if r.mapping != nil {
		known = r.mapping.RoleMappings
	}
	text, err := generate(ctx, r.client, r.model, roleInstruction, BuildRolePrompt(unknown, known, r.pageContext(html)))
	if err != nil {
		return nil, err
	}
	return ParseRoles(text), nil
}

func (r *RoleResolver) pageContext(html string) PageContext {
	if r.converter == nil || strings.TrimSpace(html) == "" {
		return PageContext{Text: html, Format: "html"}
	}
	md, err := r.converter.Convert(html)
	if err != nil || strings.TrimSpace(md) == "" {
		return PageContext{Text: html, Format: "html"}
	}
	return PageContext{Text: md, Format: "markdown"}
}

// PageContext is the page content sent with a role prompt. Format names
// the code fence language.
type PageContext struct {
	Text   string
	Format string
}

func generate(ctx context.Context, client *genai.Client, model, instruction, prompt string) (string, error) {
	if client == nil {
		return "", credex.Errorf(credex.EEXTERNAL, "gemini client not configured")
	}
	result, err := client.Models.GenerateContent(ctx, model,
		[]*genai.Content{{
			Parts: []*genai.Part{{Text: prompt}},
		}},
		BuildConfig(instruction),
	)
	if err != nil {
		return "", credex.Errorf(credex.EEXTERNAL, "gemini: %v", err)
	}
	if result == nil {
		return "", credex.Errorf(credex.EEXTERNAL, "gemini returned nil result")
	}
	return result.Text(), nil
}

// BuildConfig returns the GenerateContentConfig for Gemini API calls.
func BuildConfig(instruction string) *genai.GenerateContentConfig {
	temp := float32(0.2)
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: instruction}},
		},
		Temperature: &temp,
	}
}

// BuildSuggestPrompt builds the selector suggestion prompt.
func BuildSuggestPrompt(req credex.SuggestRequest) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "I'm scraping this page: %s\n", req.URL)
	sb.WriteString("I already have the HTML below. I'm trying to extract the following missing elements:\n")
	fmt.Fprintf(&sb, "- %s\n", strings.Join(credex.MissingFieldNames(req.MissingFields), ", "))
	if len(req.PreviousSelectors) > 0 {
		previous, _ := json.MarshalIndent(req.PreviousSelectors, "", "  ")
		fmt.Fprintf(&sb, "\nPreviously attempted selectors:\n```json\n%s\n```\n", previous)
	}
	sb.WriteString(`
Please scan the HTML, and for each missing element:
1. Suggest a precise CSS selector that targets that data
2. Explain why that selector works
3. List any obvious patterns or fallback selectors

Only return a JSON object with this structure:
{
  "selectors": {"element_name": "css selector"},
  "explanations": {"element_name": "explanation"},
  "alternatives": {"element_name": ["alt1", "alt2"]}
}

Here's the HTML:
`)
	fmt.Fprintf(&sb, "```html\n%s\n```", truncate(req.HTML, maxHTMLChars))
	return sb.String()
}

// BuildRolePrompt builds the role normalization prompt.
func BuildRolePrompt(unknown []credex.UnknownRole, known map[string]string, page PageContext) string {
	people, _ := json.MarshalIndent(unknown, "", "  ")

	keys := make([]string, 0, len(known))
	for k := range known {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if len(keys) > maxKnownRoles {
		keys = keys[:maxKnownRoles]
	}
	sample := make(map[string]string, len(keys))
	for _, k := range keys {
		sample[k] = known[k]
	}
	examples, _ := json.MarshalIndent(sample, "", "  ")

	var sb strings.Builder
	fmt.Fprintf(&sb, "I need to normalize these unknown roles from a creative project credits page:\n%s\n\n", people)
	fmt.Fprintf(&sb, "For reference, here are some examples of known roles and their IDs:\n%s\n\n", examples)
	if page.Text != "" {
		format := page.Format
		if format == "" {
			format = "html"
		}
		fmt.Fprintf(&sb, "Page context:\n```%s\n%s\n```\n\n", format, truncate(page.Text, maxHTMLChars))
	}
	sb.WriteString("For each person, determine the most likely standard job title based on the name, ID and any context available.\n")
	sb.WriteString("Return a JSON object with personId as keys and role names as values.\n")
	sb.WriteString(`If you can't determine a role, use "Contributor".`)
	return sb.String()
}

// truncate cuts s to at most n bytes on a rune boundary, marking the cut.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := n
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
