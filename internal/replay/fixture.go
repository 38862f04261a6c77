package replay

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/danielpatrickdp/dosha-lens/internal/dosha"
	"github.com/danielpatrickdp/dosha-lens/internal/features"
	"github.com/danielpatrickdp/dosha-lens/internal/logging"
	"github.com/danielpatrickdp/dosha-lens/internal/rules"
)

// #region fixture-types

// Fixture is the top-level JSON structure for a replay fixture.
type Fixture struct {
	Description string                    `json:"description"`
	Thresholds  *logging.RecordThresholds `json:"thresholds,omitempty"`
	Cases       []FixtureCase             `json:"cases"`
}

// FixtureCase is one feature vector with its expected predictions.
type FixtureCase struct {
	ID       string          `json:"id"`
	Features features.Vector `json:"features"`
	Expected Expectation     `json:"expected"`
}

// Expectation holds the predictions a case must reproduce.
type Expectation struct {
	Base  dosha.Category `json:"base"`
	Final dosha.Category `json:"final"`
}

// #endregion fixture-types

// #region fixture-loader

// LoadFixture reads and parses a JSON fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}
	f, err := ParseFixture(data)
	if err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	return f, nil
}

// ParseFixture decodes and validates fixture JSON.
func ParseFixture(data []byte) (*Fixture, error) {
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	if len(f.Cases) == 0 {
		return nil, errors.New("fixture has no cases")
	}
	// a missing category would decode as the zero value Vata
	var present struct {
		Cases []struct {
			Expected struct {
				Base  *dosha.Category `json:"base"`
				Final *dosha.Category `json:"final"`
			} `json:"expected"`
		} `json:"cases"`
	}
	if err := json.Unmarshal(data, &present); err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(f.Cases))
	for i, c := range f.Cases {
		if c.ID == "" {
			return nil, fmt.Errorf("case %d: missing id", i)
		}
		if seen[c.ID] {
			return nil, fmt.Errorf("case %d: duplicate id %q", i, c.ID)
		}
		seen[c.ID] = true
		exp := present.Cases[i].Expected
		if exp.Base == nil {
			return nil, fmt.Errorf("case %q: missing expected.base", c.ID)
		}
		if exp.Final == nil {
			return nil, fmt.Errorf("case %q: missing expected.final", c.ID)
		}
	}
	return &f, nil
}

// RuleConfig returns the fixture's thresholds, or the defaults when it has none.
func (f *Fixture) RuleConfig() rules.RuleConfig {
	if f.Thresholds == nil {
		return rules.DefaultRuleConfig()
	}
	return f.Thresholds.RuleConfig()
}

// ToCases converts fixture cases to replay cases.
func (f *Fixture) ToCases() []Case {
	cases := make([]Case, len(f.Cases))
	for i, fc := range f.Cases {
		cases[i] = Case{ID: fc.ID, Features: fc.Features, Expected: fc.Expected}
	}
	return cases
}

// #endregion fixture-loader
