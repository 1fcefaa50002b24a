package credex

import "context"

var (
	_ SelectorOracle = DisabledOracle{}
	_ Renderer       = DisabledRenderer{}
	_ RoleResolver   = DisabledRoleResolver{}
)

// DisabledOracle never suggests anything.
type DisabledOracle struct{}

// Suggest returns an empty suggestion.
func (DisabledOracle) Suggest(context.Context, SuggestRequest) (*Suggestion, error) {
	return &Suggestion{}, nil
}

// DisabledRenderer never renders.
type DisabledRenderer struct{}

// Render returns an empty string.
func (DisabledRenderer) Render(context.Context, RenderRequest) (string, error) {
	return "", nil
}

// DisabledRoleResolver resolves no roles.
type DisabledRoleResolver struct{}

// ResolveRoles returns an empty map.
func (DisabledRoleResolver) ResolveRoles(context.Context, string, []UnknownRole) (map[string]string, error) {
	return map[string]string{}, nil
}
