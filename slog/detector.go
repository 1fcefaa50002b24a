// Package slog provides logging decorators for credex interfaces.
package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/credex"
)

var _ credex.StructureDetector = (*LoggingDetector)(nil)

// LoggingDetector wraps a StructureDetector with logging.
type LoggingDetector struct {
	next   credex.StructureDetector
	logger *slog.Logger
}

// NewLoggingDetector creates a new LoggingDetector.
func NewLoggingDetector(next credex.StructureDetector, logger *slog.Logger) *LoggingDetector {
	return &LoggingDetector{next: next, logger: logger}
}

// Detect delegates to the wrapped detector and logs the variant.
func (d *LoggingDetector) Detect(html string, pageURL string) credex.StructureVariant {
	begin := time.Now()
	variant := d.next.Detect(html, pageURL)
	d.logger.Info("structure detection",
		"url", pageURL,
		"variant", string(variant),
		"duration", time.Since(begin),
	)
	return variant
}

var _ credex.StrategyRegistry = (*LoggingRegistry)(nil)

// LoggingRegistry wraps a StrategyRegistry with debug logging of strategy orders.
type LoggingRegistry struct {
	next   credex.StrategyRegistry
	logger *slog.Logger
}

// NewLoggingRegistry creates a new LoggingRegistry.
func NewLoggingRegistry(next credex.StrategyRegistry, logger *slog.Logger) *LoggingRegistry {
	return &LoggingRegistry{next: next, logger: logger}
}

// StrategiesFor delegates to the wrapped registry and logs the order.
func (r *LoggingRegistry) StrategiesFor(variant credex.StructureVariant, domain string) []credex.StrategyID {
	ids := r.next.StrategiesFor(variant, domain)
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = string(id)
	}
	r.logger.Debug("strategy order",
		"variant", string(variant),
		"domain", domain,
		"strategies", names,
	)
	return ids
}

// SelectorStrategy delegates to the wrapped registry.
func (r *LoggingRegistry) SelectorStrategy(variant credex.StructureVariant) credex.StrategyID {
	return r.next.SelectorStrategy(variant)
}

// Get delegates to the wrapped registry.
func (r *LoggingRegistry) Get(id credex.StrategyID) credex.Strategy {
	return r.next.Get(id)
}

// Register delegates to the wrapped registry.
func (r *LoggingRegistry) Register(strategy credex.Strategy) {
	r.next.Register(strategy)
}
