package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/credex"
)

var _ credex.SelectorOracle = (*LoggingOracle)(nil)

// LoggingOracle wraps a SelectorOracle with logging.
type LoggingOracle struct {
	next   credex.SelectorOracle
	logger *slog.Logger
}

// NewLoggingOracle creates a new LoggingOracle.
func NewLoggingOracle(next credex.SelectorOracle, logger *slog.Logger) *LoggingOracle {
	return &LoggingOracle{next: next, logger: logger}
}

// Suggest delegates to the wrapped oracle and logs the operation.
func (o *LoggingOracle) Suggest(ctx context.Context, req credex.SuggestRequest) (s *credex.Suggestion, err error) {
	defer func(begin time.Time) {
		selectors := 0
		if s != nil {
			selectors = len(s.Selectors)
		}
		o.logger.Info("oracle suggest",
			"url", req.URL,
			"fields", len(req.MissingFields),
			"selectors", selectors,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return o.next.Suggest(ctx, req)
}

var _ credex.RoleResolver = (*LoggingRoleResolver)(nil)

// LoggingRoleResolver wraps a RoleResolver with logging.
type LoggingRoleResolver struct {
	next   credex.RoleResolver
	logger *slog.Logger
}

// NewLoggingRoleResolver creates a new LoggingRoleResolver.
func NewLoggingRoleResolver(next credex.RoleResolver, logger *slog.Logger) *LoggingRoleResolver {
	return &LoggingRoleResolver{next: next, logger: logger}
}

// ResolveRoles delegates to the wrapped resolver and logs the operation.
func (r *LoggingRoleResolver) ResolveRoles(ctx context.Context, html string, unknown []credex.UnknownRole) (roles map[string]string, err error) {
	defer func(begin time.Time) {
		r.logger.Info("role resolution",
			"unknown", len(unknown),
			"resolved", len(roles),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return r.next.ResolveRoles(ctx, html, unknown)
}
