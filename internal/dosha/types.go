package dosha

import (
	"encoding/json"
	"errors"
	"fmt"
)

// #region category

// Category is one of the three fixed dosha categories.
// The declaration order is also the tie-break priority for scores and votes.
type Category int

const (
	Vata Category = iota
	Pitta
	Kapha
)

// Count is the number of categories.
const Count = 3

// All lists every category in tie-break order.
var All = [Count]Category{Vata, Pitta, Kapha}

var names = [Count]string{"Vata", "Pitta", "Kapha"}

// ErrUnknownCategory is returned when a string does not name a category.
var ErrUnknownCategory = errors.New("unknown dosha category")

func (c Category) String() string {
	if !c.Valid() {
		return fmt.Sprintf("Category(%d)", int(c))
	}
	return names[c]
}

// Valid reports whether c is one of the enumerated categories.
func (c Category) Valid() bool {
	return c >= Vata && c <= Kapha
}

// Parse maps a category name to its Category.
func Parse(s string) (Category, error) {
	for i, n := range names {
		if n == s {
			return Category(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCategory, s)
}

// MarshalText encodes the category as its name.
func (c Category) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownCategory, int(c))
	}
	return []byte(names[c]), nil
}

// UnmarshalText decodes a category name.
func (c *Category) UnmarshalText(b []byte) error {
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// #endregion category

// #region score-map

// ScoreMap holds one score per category.
type ScoreMap [Count]float64

// Get returns the score for c.
func (m ScoreMap) Get(c Category) float64 { return m[c] }

// Top returns the category with the strictly highest score.
// Ties resolve to the earliest category in All.
func (m ScoreMap) Top() Category {
	best := Vata
	for _, c := range All[1:] {
		if m[c] > m[best] {
			best = c
		}
	}
	return best
}

// MarshalJSON encodes the map as {"Vata":x,"Pitta":y,"Kapha":z}.
func (m ScoreMap) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]float64{
		names[Vata]:  m[Vata],
		names[Pitta]: m[Pitta],
		names[Kapha]: m[Kapha],
	})
}

// UnmarshalJSON decodes a name-keyed object. Missing keys stay zero.
func (m *ScoreMap) UnmarshalJSON(b []byte) error {
	var raw map[string]float64
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	for k, v := range raw {
		c, err := Parse(k)
		if err != nil {
			return err
		}
		m[c] = v
	}
	return nil
}

// #endregion score-map

// #region vote-map

// VoteMap holds one vote count per category.
type VoteMap [Count]int

// Get returns the vote count for c.
func (m VoteMap) Get(c Category) int { return m[c] }

// Add increments the vote count for c.
func (m *VoteMap) Add(c Category) { m[c]++ }

// Total returns the sum of all votes.
func (m VoteMap) Total() int {
	return m[Vata] + m[Pitta] + m[Kapha]
}

// Top returns the category with the most votes, ties resolved as in ScoreMap.Top.
func (m VoteMap) Top() Category {
	best := Vata
	for _, c := range All[1:] {
		if m[c] > m[best] {
			best = c
		}
	}
	return best
}

// MarshalJSON encodes the map as {"Vata":n,"Pitta":n,"Kapha":n}.
func (m VoteMap) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]int{
		names[Vata]:  m[Vata],
		names[Pitta]: m[Pitta],
		names[Kapha]: m[Kapha],
	})
}

// UnmarshalJSON decodes a name-keyed object.
func (m *VoteMap) UnmarshalJSON(b []byte) error {
	var raw map[string]int
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	for k, v := range raw {
		c, err := Parse(k)
		if err != nil {
			return err
		}
		m[c] = v
	}
	return nil
}

// #endregion vote-map

// #region ranked

// Ranked pairs a category with its score.
type Ranked struct {
	Category Category `json:"category"`
	Score    float64  `json:"score"`
}

// Rank orders the scores descending. Equal scores keep enumeration order.
func (m ScoreMap) Rank() []Ranked {
	out := make([]Ranked, 0, Count)
	for _, c := range All {
		out = append(out, Ranked{Category: c, Score: m[c]})
	}
	// insertion sort keeps equal elements in place
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].Score > out[j-1].Score; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

// #endregion ranked
