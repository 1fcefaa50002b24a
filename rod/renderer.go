// Package rod renders JavaScript-heavy project pages in headless Chrome.
package rod

import (
	"context"
	"time"

	"github.com/fwojciec/credex"
	"github.com/go-rod/rod/lib/proto"
)

var (
	_ credex.Renderer = (*Renderer)(nil)
	_ credex.Fetcher  = (*Renderer)(nil)
)

// DefaultSettleTime is how long the DOM must stay unchanged after the
// reveal clicks before the snapshot is taken.
const DefaultSettleTime = time.Second

// Renderer returns fully rendered HTML, clicking "reveal credits" controls
// before taking the snapshot. Renderer is safe for concurrent use.
type Renderer struct {
	manager *BrowserManager
	settle  time.Duration
	maxPage int64
}

// RendererOption configures a Renderer.
type RendererOption func(*Renderer)

// WithSettleTime sets how long the DOM must be stable after clicks.
func WithSettleTime(d time.Duration) RendererOption {
	return func(r *Renderer) {
		r.settle = d
	}
}

// WithRecycleAfter sets the number of pages after which the browser is recycled.
func WithRecycleAfter(n int64) RendererOption {
	return func(r *Renderer) {
		r.maxPage = n
	}
}

// NewRenderer launches the browser backing a Renderer.
// Close must be called when the Renderer is no longer needed.
func NewRenderer(opts ...RendererOption) (*Renderer, error) {
	r := &Renderer{settle: DefaultSettleTime, maxPage: DefaultMaxPages}
	for _, opt := range opts {
		opt(r)
	}
	manager, err := NewBrowserManager(WithMaxPages(r.maxPage))
	if err != nil {
		return nil, credex.Errorf(credex.EEXTERNAL, "%v", err)
	}
	r.manager = manager
	return r, nil
}

// Render loads req.URL, waits for req.WaitSelector when set, clicks every
// present click selector in order and returns the resulting HTML.
// Missing click targets are skipped.
func (r *Renderer) Render(ctx context.Context, req credex.RenderRequest) (string, error) {
	if r.manager.closed.Load() {
		return "", credex.Errorf(credex.EINVALID, "renderer closed")
	}
	timeout := req.Timeout
	if timeout <= 0 {
		timeout = credex.DefaultRenderTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := ctx.Err(); err != nil {
		return "", credex.Errorf(credex.EEXTERNAL, "render %s: %v", req.URL, err)
	}

	page, err := r.manager.NewPage()
	if err != nil {
		return "", credex.Errorf(credex.EEXTERNAL, "render %s: %v", req.URL, err)
	}
	defer page.Close()
	page = page.Context(ctx)

	if err := page.Navigate(req.URL); err != nil {
		return "", credex.Errorf(credex.EEXTERNAL, "render %s: %v", req.URL, err)
	}
	if err := page.WaitLoad(); err != nil {
		return "", credex.Errorf(credex.EEXTERNAL, "render %s: %v", req.URL, err)
	}
	if req.WaitSelector != "" {
		if _, err := page.Element(req.WaitSelector); err != nil {
			return "", credex.Errorf(credex.EEXTERNAL, "render %s: waiting for %q: %v", req.URL, req.WaitSelector, err)
		}
	}

	clicked := 0
	for _, selector := range req.ClickSelectors {
		has, el, err := page.Has(selector)
		if err != nil || !has {
			continue
		}
		if err := el.Click(proto.InputMouseButtonLeft, 1); err == nil {
			clicked++
		}
	}
	if clicked > 0 {
		_ = page.WaitDOMStable(r.settle, 0)
	}

	html, err := page.HTML()
	if err != nil {
		return "", credex.Errorf(credex.EEXTERNAL, "render %s: %v", req.URL, err)
	}
	return html, nil
}

// Fetch renders url with the reveal hints of its host.
func (r *Renderer) Fetch(ctx context.Context, url string) (string, error) {
	return r.Render(ctx, credex.RenderRequest{
		URL:            url,
		ClickSelectors: credex.RevealHints(credex.Domain(url)),
	})
}

// Close releases browser resources. Close is safe to call multiple times.
func (r *Renderer) Close() error {
	return r.manager.Close()
}

// LauncherPID returns the process ID of the browser launcher.
func (r *Renderer) LauncherPID() int {
	return r.manager.LauncherPID()
}
