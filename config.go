package credex

import "time"

// Escalation names an escalation tier.
type Escalation string

// Escalation tiers.
const (
	EscalationOracle Escalation = "oracle"
	EscalationRender Escalation = "render"
)

// Default pipeline settings.
const (
	DefaultModel               = "gemini-2.5-flash"
	DefaultOracleMaxIterations = 10
	DefaultOracleTimeout       = 60 * time.Second
	DefaultRenderTimeout       = 30 * time.Second
)

// PipelineConfig configures an extraction pipeline. It is passed by value at
// construction and never mutated afterwards.
type PipelineConfig struct {
	AIEnabled           bool
	Model               string
	OracleMaxIterations int
	OracleTimeout       time.Duration

	RenderEnabled bool
	RenderTimeout time.Duration

	// EscalationOrder lists the tiers tried when static extraction is incomplete.
	EscalationOrder []Escalation

	ForceRefresh bool
}

// DefaultPipelineConfig returns the default configuration: both escalation
// tiers enabled, oracle before render.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		AIEnabled:           true,
		Model:               DefaultModel,
		OracleMaxIterations: DefaultOracleMaxIterations,
		OracleTimeout:       DefaultOracleTimeout,
		RenderEnabled:       true,
		RenderTimeout:       DefaultRenderTimeout,
		EscalationOrder:     []Escalation{EscalationOracle, EscalationRender},
	}
}
