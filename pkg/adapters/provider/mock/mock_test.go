package mock

import (
	"context"
	"math"
	"math/rand/v2"
	"regexp"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var nicheScorePattern = regexp.MustCompile(`^(\d+)/100$`)

// maxSource always yields the largest value, so IntN(n) returns n-1.
type maxSource struct{}

func (maxSource) Uint64() uint64 { return math.MaxUint64 }

func TestAnalyze_Bounds(t *testing.T) {
	p := NewProviderWithSource(rand.NewPCG(1, 2))

	for i := 0; i < 2000; i++ {
		res, err := p.Analyze(context.Background(), "coloring books", "fr")
		require.NoError(t, err)

		assert.Equal(t, "coloring books", res.Keyword)
		assert.GreaterOrEqual(t, res.SearchVolume, 500)
		assert.Less(t, res.SearchVolume, 10500)
		assert.GreaterOrEqual(t, res.Competition, 300)
		assert.Less(t, res.Competition, 2300)

		m := nicheScorePattern.FindStringSubmatch(res.NicheScore)
		require.NotNil(t, m, "niche score %q", res.NicheScore)
		n, _ := strconv.Atoi(m[1])
		assert.GreaterOrEqual(t, n, 55)
		assert.Less(t, n, 95)

		require.Len(t, res.RelatedKeywords, 2)
		assert.Equal(t, "coloring books for kids", res.RelatedKeywords[0].Keyword)
		assert.Equal(t, "simple coloring books", res.RelatedKeywords[1].Keyword)
		assert.GreaterOrEqual(t, res.RelatedKeywords[0].Volume, 0)
		assert.Less(t, res.RelatedKeywords[0].Volume, 5000)
		assert.GreaterOrEqual(t, res.RelatedKeywords[1].Volume, 0)
		assert.Less(t, res.RelatedKeywords[1].Volume, 3000)
	}
}

func TestAnalyze_UpperBoundsAreExclusive(t *testing.T) {
	p := NewProviderWithSource(maxSource{})

	res, err := p.Analyze(context.Background(), "journal", "us")
	require.NoError(t, err)

	assert.Equal(t, 10499, res.SearchVolume)
	assert.Equal(t, 2299, res.Competition)
	assert.Equal(t, "94/100", res.NicheScore)
	assert.Equal(t, 4999, res.RelatedKeywords[0].Volume)
	assert.Equal(t, 2999, res.RelatedKeywords[1].Volume)
}

func TestAnalyze_ValuesVary(t *testing.T) {
	p := NewProvider()

	seen := make(map[int]bool)
	for i := 0; i < 50; i++ {
		res, err := p.Analyze(context.Background(), "planner", "de")
		require.NoError(t, err)
		seen[res.SearchVolume] = true
	}
	assert.Greater(t, len(seen), 1)
}

func TestAnalyze_CancelledContext(t *testing.T) {
	p := NewProvider()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Analyze(ctx, "planner", "de")
	assert.ErrorIs(t, err, context.Canceled)
}
