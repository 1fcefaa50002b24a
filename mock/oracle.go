package mock

import (
	"context"

	"github.com/fwojciec/credex"
)

var _ credex.SelectorOracle = (*SelectorOracle)(nil)

// SelectorOracle is a mock implementation of credex.SelectorOracle.
type SelectorOracle struct {
	SuggestFn func(ctx context.Context, req credex.SuggestRequest) (*credex.Suggestion, error)
}

func (o *SelectorOracle) Suggest(ctx context.Context, req credex.SuggestRequest) (*credex.Suggestion, error) {
	return o.SuggestFn(ctx, req)
}

var _ credex.RoleResolver = (*RoleResolver)(nil)

// RoleResolver is a mock implementation of credex.RoleResolver.
type RoleResolver struct {
	ResolveRolesFn func(ctx context.Context, html string, unknown []credex.UnknownRole) (map[string]string, error)
}

func (r *RoleResolver) ResolveRoles(ctx context.Context, html string, unknown []credex.UnknownRole) (map[string]string, error) {
	return r.ResolveRolesFn(ctx, html, unknown)
}

var _ credex.Renderer = (*Renderer)(nil)

// Renderer is a mock implementation of credex.Renderer.
type Renderer struct {
	RenderFn func(ctx context.Context, req credex.RenderRequest) (string, error)
}

func (r *Renderer) Render(ctx context.Context, req credex.RenderRequest) (string, error) {
	return r.RenderFn(ctx, req)
}
