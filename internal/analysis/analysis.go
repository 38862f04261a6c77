package analysis

import (
	"github.com/danielpatrickdp/dosha-lens/internal/explain"
	"github.com/danielpatrickdp/dosha-lens/internal/features"
	"github.com/danielpatrickdp/dosha-lens/internal/knowledge"
	"github.com/danielpatrickdp/dosha-lens/internal/rules"
	"github.com/danielpatrickdp/dosha-lens/internal/scoring"
)

// #region result
// Result is everything one analysis produces, ready for presentation.
type Result struct {
	Features       features.Vector          `json:"features"`
	Prediction     scoring.Prediction       `json:"prediction"`
	Decision       rules.Decision           `json:"decision"`
	Recommendation knowledge.Recommendation `json:"recommendation"`
	Explanations   []explain.Entry          `json:"explanations"`
}

// #endregion result

// #region pipeline
// Pipeline runs scorer → rule overlay → recommendation lookup → explanation.
// It holds no mutable state and is safe for concurrent use.
type Pipeline struct {
	engine *rules.Engine
}

// NewPipeline creates a pipeline with the given rule thresholds.
func NewPipeline(config rules.RuleConfig) *Pipeline {
	return &Pipeline{engine: rules.NewEngine(config)}
}

// RuleConfig returns the thresholds the pipeline applies.
func (p *Pipeline) RuleConfig() rules.RuleConfig {
	return p.engine.Config()
}

// Analyze runs every stage to completion.
func (p *Pipeline) Analyze(v features.Vector) Result {
	pred := scoring.Predict(v)
	decision := p.engine.Evaluate(v, pred.Base)
	return Result{
		Features:       v,
		Prediction:     pred,
		Decision:       decision,
		Recommendation: knowledge.Lookup(decision.Final),
		Explanations:   explain.Generate(v, pred.Ranked),
	}
}

// Analyze runs the pipeline with the default rule thresholds.
func Analyze(v features.Vector) Result {
	return NewPipeline(rules.DefaultRuleConfig()).Analyze(v)
}

// #endregion pipeline
