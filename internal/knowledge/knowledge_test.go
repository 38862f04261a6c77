package knowledge

import (
	"strings"
	"testing"

	"github.com/danielpatrickdp/dosha-lens/internal/dosha"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup_SummaryNamesCategoryAndDiet(t *testing.T) {
	for _, c := range dosha.All {
		r := Lookup(c)
		assert.Equal(t, c, r.Category)
		assert.Contains(t, r.Summary, c.String())
		require.NotEmpty(t, r.Diet, "%s diet", c)

		found := false
		for _, item := range r.Diet {
			if strings.Contains(r.Summary, item) {
				found = true
				break
			}
		}
		assert.True(t, found, "%s summary should quote a diet item verbatim: %q", c, r.Summary)
	}
}

func TestLookup_AllListsPopulated(t *testing.T) {
	for _, c := range dosha.All {
		r := Lookup(c)
		assert.NotEmpty(t, r.Characteristics, "%s characteristics", c)
		assert.NotEmpty(t, r.Herbs, "%s herbs", c)
		assert.NotEmpty(t, r.Yoga, "%s yoga", c)
		assert.NotEmpty(t, r.Routine, "%s routine", c)
	}
}

func TestGet_ReturnsCopies(t *testing.T) {
	e := Get(dosha.Pitta)
	original := e.Diet[0]
	e.Diet[0] = "mutated"

	again := Get(dosha.Pitta)
	assert.Equal(t, original, again.Diet[0])
}

func TestParse_MissingCategory(t *testing.T) {
	doc := []byte(`
- dosha: Vata
  diet: [rice]
- dosha: Pitta
  diet: [melon]
`)
	_, err := Parse(doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Kapha")
}

func TestParse_DuplicateCategory(t *testing.T) {
	doc := []byte(`
- dosha: Vata
  diet: [rice]
- dosha: Vata
  diet: [oats]
`)
	_, err := Parse(doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")
}

func TestParse_UnknownCategory(t *testing.T) {
	_, err := Parse([]byte("- dosha: Ojas\n  diet: [honey]\n"))
	require.ErrorIs(t, err, dosha.ErrUnknownCategory)
}

func TestParse_EmptyDiet(t *testing.T) {
	_, err := Parse([]byte("- dosha: Kapha\n  herbs: [turmeric]\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty diet")
}
