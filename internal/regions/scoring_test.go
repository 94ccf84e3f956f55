package regions

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAsymmetryFor_BoundaryExact(t *testing.T) {
	t.Parallel()

	tests := []struct {
		score float64
		want  AsymmetryLevel
	}{
		{10, AsymmetryNone},
		{9, AsymmetryNone},
		{8.9, AsymmetryMild},
		{7, AsymmetryMild},
		{6.9, AsymmetryModerate},
		{4, AsymmetryModerate},
		{3.9, AsymmetrySevere},
		{3, AsymmetrySevere},
		{0, AsymmetrySevere},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, AsymmetryFor(tt.score), "score %v", tt.score)
	}
}

func TestLadder(t *testing.T) {
	t.Parallel()

	l := Ladder{Steps: []Step{{0.1, 10}, {0.2, 7}, {0.4, 4}}, Floor: 1}
	tests := []struct {
		v    float64
		want float64
	}{
		{-1, 10},
		{0, 10},
		{0.1, 10},
		{0.1000001, 7},
		{0.2, 7},
		{0.3, 4},
		{0.4, 4},
		{0.41, 1},
		{math.Inf(1), 1},
		{math.NaN(), 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, l.Score(tt.v), "value %v", tt.v)
	}

	assert.Equal(t, 3.0, Ladder{Floor: 3}.Score(0))
}

func TestCurve_InterpolatesAndClamps(t *testing.T) {
	t.Parallel()

	c := Curve{{0, 10}, {1, 6}, {3, 2}}

	assert.Equal(t, 10.0, c.Score(-5), "below first point")
	assert.Equal(t, 10.0, c.Score(0))
	assert.Equal(t, 8.0, c.Score(0.5))
	assert.Equal(t, 6.0, c.Score(1))
	assert.Equal(t, 4.0, c.Score(2))
	assert.Equal(t, 2.0, c.Score(3))
	assert.Equal(t, 2.0, c.Score(100), "above last point")
	assert.Equal(t, 9.3, c.Score(0.17), "rounded to one decimal")
	assert.Equal(t, 10.0, c.Score(math.NaN()))
	assert.Equal(t, 0.0, Curve(nil).Score(1))
}

func TestCurve_MonotonicForNonIncreasingScores(t *testing.T) {
	t.Parallel()

	curves := map[string]Curve{
		"descending": {{0, 10}, {0.1, 8}, {0.25, 8}, {0.5, 3}, {1, 0}},
		"plateau":    {{1, 5}, {2, 5}},
	}
	for name, c := range curves {
		prev := math.Inf(1)
		for v := -0.5; v <= 2.5; v += 0.01 {
			got := c.Score(v)
			assert.LessOrEqual(t, got, prev, "%s: score rose at %v", name, v)
			prev = got
		}
		assert.Equal(t, c[0].Score, c.Score(c[0].Value-1), name)
		assert.Equal(t, c[len(c)-1].Score, c.Score(c[len(c)-1].Value+1), name)
	}
}

func TestCalculationFinish(t *testing.T) {
	t.Parallel()

	c := newCalculation(RegionEyes)
	c.score("a", 10)
	c.score("b", 4)
	c.score("c", 12) // clamped
	c.score("unweighted", 0)
	c.finish(map[string]float64{"a": 0.5, "b": 0.25, "c": 0.25})

	assert.Equal(t, 8.5, c.OverallScore)
	assert.Equal(t, AsymmetryMild, c.AsymmetryLevel)
	s, ok := c.SubScore("c")
	assert.True(t, ok)
	assert.Equal(t, 10.0, s)
	assert.Equal(t, 0.0, c.SubScores[3].Weight)

	// Partial weights are renormalized.
	p := newCalculation(RegionEyes)
	p.score("a", 6)
	p.score("b", 2)
	p.finish(map[string]float64{"a": 0.3})
	assert.Equal(t, 6.0, p.OverallScore)
}
