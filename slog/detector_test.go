package slog_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/fwojciec/credex"
	"github.com/fwojciec/credex/mock"
	credexslog "github.com/fwojciec/credex/slog"
	"github.com/stretchr/testify/assert"
)

func TestLoggingDetector_Detect(t *testing.T) {
	t.Parallel()

	t.Run("logs detected variant with duration", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.StructureDetector{
			DetectFn: func(html string, pageURL string) credex.StructureVariant {
				return credex.VariantDOMv2
			},
		}

		detector := credexslog.NewLoggingDetector(inner, logger)
		variant := detector.Detect("<html></html>", "https://lbbonline.com/work/1")

		assert.Equal(t, credex.VariantDOMv2, variant)
		output := buf.String()
		assert.Contains(t, output, "structure detection")
		assert.Contains(t, output, "variant=structured-dom-v2")
		assert.Contains(t, output, "duration=")
	})
}

func TestLoggingRegistry_StrategiesFor(t *testing.T) {
	t.Parallel()

	t.Run("logs the strategy order at debug level", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
		inner := &mock.StrategyRegistry{
			StrategiesForFn: func(variant credex.StructureVariant, domain string) []credex.StrategyID {
				return []credex.StrategyID{credex.StrategyEmbeddedJSON, credex.StrategyTable}
			},
		}

		registry := credexslog.NewLoggingRegistry(inner, logger)
		ids := registry.StrategiesFor(credex.VariantGeneric, "example.com")

		assert.Equal(t, []credex.StrategyID{credex.StrategyEmbeddedJSON, credex.StrategyTable}, ids)
		output := buf.String()
		assert.Contains(t, output, "strategy order")
		assert.Contains(t, output, "domain=example.com")
		assert.Contains(t, output, "strategies=\"[embedded-json table]\"")
	})

	t.Run("stays quiet above debug level", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.StrategyRegistry{
			StrategiesForFn: func(variant credex.StructureVariant, domain string) []credex.StrategyID {
				return nil
			},
		}

		credexslog.NewLoggingRegistry(inner, logger).StrategiesFor(credex.VariantGeneric, "example.com")

		assert.Empty(t, buf.String())
	})
}

func TestLoggingRegistry_Get(t *testing.T) {
	t.Parallel()

	t.Run("delegates to inner registry", func(t *testing.T) {
		t.Parallel()

		strategy := &mock.Strategy{}
		var registered credex.Strategy
		inner := &mock.StrategyRegistry{
			GetFn: func(id credex.StrategyID) credex.Strategy {
				return strategy
			},
			SelectorStrategyFn: func(variant credex.StructureVariant) credex.StrategyID {
				return credex.StrategyDOMv1
			},
			RegisterFn: func(s credex.Strategy) {
				registered = s
			},
		}

		registry := credexslog.NewLoggingRegistry(inner, slog.New(slog.DiscardHandler))
		registry.Register(strategy)

		assert.Equal(t, strategy, registry.Get(credex.StrategyTable))
		assert.Equal(t, credex.StrategyDOMv1, registry.SelectorStrategy(credex.VariantDOMv1))
		assert.Equal(t, strategy, registered)
	})
}
