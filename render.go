package credex

import (
	"context"
	"time"
)

// RenderRequest describes a headless render.
type RenderRequest struct {
	URL string

	// WaitSelector, when set, is awaited before the snapshot is taken.
	WaitSelector string

	// ClickSelectors are clicked in order to reveal hidden content such as credit tabs.
	ClickSelectors []string

	Timeout time.Duration
}

// Renderer returns fully rendered HTML. Rendering is best-effort: an empty
// result or an error (EEXTERNAL) both signal failure.
type Renderer interface {
	Render(ctx context.Context, req RenderRequest) (html string, err error)
}

// revealHints maps known hosts to click selectors that reveal credits.
var revealHints = map[string][]string{
	"lbbonline.com": {".credits-tab", ".tab-selector", "[data-tab='credits']", "button[aria-controls*='credits']"},
	"dandad.org":    {".award-credits-toggle", "[data-tab='credits']"},
}

// RevealHints returns the click selectors that reveal credits on a known host.
// Hosts are matched on their registrable suffix, ignoring a leading "www.".
func RevealHints(host string) []string {
	for suffix, hints := range revealHints {
		if HostMatches(host, suffix) {
			return append([]string(nil), hints...)
		}
	}
	return nil
}
