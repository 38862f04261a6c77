// Package knowledge holds the static per-dosha recommendation content.
//
// The content ships as an embedded YAML file and is decoded once at process
// start. The tables are read-only afterwards; lookups hand out copies.
package knowledge

import (
	"embed"
	"fmt"
	"strings"

	"github.com/danielpatrickdp/dosha-lens/internal/dosha"
	"gopkg.in/yaml.v3"
)

//go:embed data/doshas.yaml
var dataFS embed.FS

const dataPath = "data/doshas.yaml"

// #region types

// Entry is the recommendation content for one dosha.
type Entry struct {
	Characteristics []string `yaml:"characteristics" json:"characteristics"`
	Diet            []string `yaml:"diet" json:"diet"`
	Herbs           []string `yaml:"herbs" json:"herbs"`
	Yoga            []string `yaml:"yoga" json:"yoga"`
	Routine         []string `yaml:"routine" json:"routine"`
}

// Recommendation is the formatted bundle returned by Lookup.
type Recommendation struct {
	Category        dosha.Category `json:"category"`
	Summary         string         `json:"summary"`
	Characteristics []string       `json:"characteristics"`
	Diet            []string       `json:"diet"`
	Herbs           []string       `json:"herbs"`
	Yoga            []string       `json:"yoga"`
	Routine         []string       `json:"routine"`
}

// yamlEntry is the on-disk form of an Entry.
type yamlEntry struct {
	Dosha string `yaml:"dosha"`
	Entry `yaml:",inline"`
}

// #endregion types

// #region load

var base = mustLoad()

func mustLoad() [dosha.Count]Entry {
	data, err := dataFS.ReadFile(dataPath)
	if err != nil {
		panic(fmt.Sprintf("knowledge: read %s: %v", dataPath, err))
	}
	entries, err := Parse(data)
	if err != nil {
		panic(fmt.Sprintf("knowledge: %v", err))
	}
	return entries
}

// Parse decodes a knowledge base document. Every category must appear exactly once
// with a non-empty diet list.
func Parse(data []byte) ([dosha.Count]Entry, error) {
	var out [dosha.Count]Entry
	var raw []yamlEntry
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return out, fmt.Errorf("parse knowledge base: %w", err)
	}

	var seen [dosha.Count]bool
	for _, r := range raw {
		c, err := dosha.Parse(r.Dosha)
		if err != nil {
			return out, fmt.Errorf("entry %q: %w", r.Dosha, err)
		}
		if seen[c] {
			return out, fmt.Errorf("duplicate entry for %s", c)
		}
		if len(r.Diet) == 0 {
			return out, fmt.Errorf("entry %s: empty diet list", c)
		}
		seen[c] = true
		out[c] = r.Entry
	}
	for _, c := range dosha.All {
		if !seen[c] {
			return out, fmt.Errorf("missing entry for %s", c)
		}
	}
	return out, nil
}

// #endregion load

// #region lookup

// Get returns a copy of the entry for c.
func Get(c dosha.Category) Entry {
	e := base[c]
	return Entry{
		Characteristics: clone(e.Characteristics),
		Diet:            clone(e.Diet),
		Herbs:           clone(e.Herbs),
		Yoga:            clone(e.Yoga),
		Routine:         clone(e.Routine),
	}
}

// Lookup returns the recommendation bundle for c.
func Lookup(c dosha.Category) Recommendation {
	e := Get(c)
	return Recommendation{
		Category:        c,
		Summary:         Summarize(c, e),
		Characteristics: e.Characteristics,
		Diet:            e.Diet,
		Herbs:           e.Herbs,
		Yoga:            e.Yoga,
		Routine:         e.Routine,
	}
}

// Summarize formats the one-line summary for an entry.
func Summarize(c dosha.Category, e Entry) string {
	return fmt.Sprintf("Predicted dosha: %s. Favour %s.", c, strings.Join(e.Diet, "; "))
}

// #endregion lookup

// #region helpers
func clone(s []string) []string {
	out := make([]string, len(s))
	copy(out, s)
	return out
}

// #endregion helpers
