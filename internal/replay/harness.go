package replay

import (
	"fmt"

	"github.com/danielpatrickdp/dosha-lens/internal/analysis"
	"github.com/danielpatrickdp/dosha-lens/internal/dosha"
	"github.com/danielpatrickdp/dosha-lens/internal/features"
	"github.com/danielpatrickdp/dosha-lens/internal/rules"
)

// #region types
// Case is one recorded or hand-written analysis to recompute.
type Case struct {
	ID       string
	Features features.Vector
	Expected Expectation
	Config   *rules.RuleConfig // overrides the run's thresholds when set
}

// Result captures the outcome of recomputing one case.
type Result struct {
	ID       string
	Expected Expectation
	Base     dosha.Category
	Final    dosha.Category
	Votes    dosha.VoteMap
	Fired    []rules.FiredRule
	Match    bool
	Reason   string // empty on match
}

// Summary provides aggregate stats from a replay run.
type Summary struct {
	Total        int
	Matches      int
	BaseDiffs    int
	FinalDiffs   int
	FinalByDosha dosha.VoteMap // replayed finals per category
}

// Diverged reports the number of cases that did not match.
func (s Summary) Diverged() int {
	return s.Total - s.Matches
}

// #endregion types

// #region replay
// Replay recomputes every case with the full pipeline and compares base and final
// predictions. Operates entirely in-memory.
func Replay(cases []Case, config rules.RuleConfig) []Result {
	results := make([]Result, 0, len(cases))
	pipelines := map[rules.RuleConfig]*analysis.Pipeline{config: analysis.NewPipeline(config)}

	for _, c := range cases {
		cfg := config
		if c.Config != nil {
			cfg = *c.Config
		}
		p, ok := pipelines[cfg]
		if !ok {
			p = analysis.NewPipeline(cfg)
			pipelines[cfg] = p
		}

		res := p.Analyze(c.Features)
		r := Result{
			ID:       c.ID,
			Expected: c.Expected,
			Base:     res.Prediction.Base,
			Final:    res.Decision.Final,
			Votes:    res.Decision.Votes,
			Fired:    res.Decision.Fired,
		}
		r.Match, r.Reason = compare(c.Expected, r)
		results = append(results, r)
	}
	return results
}

func compare(exp Expectation, r Result) (bool, string) {
	switch {
	case exp.Base != r.Base && exp.Final != r.Final:
		return false, fmt.Sprintf("base %s != %s and final %s != %s", r.Base, exp.Base, r.Final, exp.Final)
	case exp.Base != r.Base:
		return false, fmt.Sprintf("base %s != %s", r.Base, exp.Base)
	case exp.Final != r.Final:
		return false, fmt.Sprintf("final %s != %s", r.Final, exp.Final)
	}
	return true, ""
}

// Summarize computes aggregate stats from replay results.
func Summarize(results []Result) Summary {
	s := Summary{Total: len(results)}
	for _, r := range results {
		if r.Match {
			s.Matches++
		}
		if r.Base != r.Expected.Base {
			s.BaseDiffs++
		}
		if r.Final != r.Expected.Final {
			s.FinalDiffs++
		}
		s.FinalByDosha.Add(r.Final)
	}
	return s
}

// #endregion replay
