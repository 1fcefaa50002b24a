// Package htmltomarkdown condenses project pages into markdown for prompts.
package htmltomarkdown

import (
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/credex"
)

var _ credex.Converter = (*Converter)(nil)

// noise is markup that never carries credits.
const noise = "script, style, noscript, svg, iframe, head, nav, footer, form"

// Converter renders page HTML as markdown with tables kept, so credit
// tables survive as rows.
type Converter struct {
	conv *converter.Converter
}

// NewConverter creates a new Converter.
func NewConverter() *Converter {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)
	return &Converter{conv: conv}
}

// Convert strips non-content markup and returns the page as markdown.
func (c *Converter) Convert(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", credex.Errorf(credex.EINVALID, "empty HTML input")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", credex.Errorf(credex.EMALFORMED, "failed to parse HTML: %v", err)
	}
	doc.Find(noise).Remove()
	body, err := doc.Find("body").Html()
	if err != nil {
		return "", credex.Errorf(credex.EMALFORMED, "failed to render HTML: %v", err)
	}

	md, err := c.conv.ConvertString(body)
	if err != nil {
		return "", credex.Errorf(credex.EMALFORMED, "failed to convert HTML: %v", err)
	}
	return strings.TrimSpace(md), nil
}
