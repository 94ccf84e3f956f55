package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/facescore/internal/regions"
)

func snapshot(score float64, regional map[regions.Region]float64) *Snapshot {
	s := &Snapshot{OverallScore: score, Regions: map[regions.Region]RegionMetrics{}}
	for r, v := range regional {
		s.Regions[r] = RegionMetrics{Region: r, OverallScore: ptr(v), CalculationSource: SourceDeterministic}
	}
	return s
}

func TestCompare_Improved(t *testing.T) {
	t.Parallel()

	p := Compare(snapshot(7.0, nil), snapshot(6.0, nil), true)
	assert.False(t, p.IsFirstAnalysis)
	assert.True(t, p.HasImproved)
	assert.Equal(t, TrendImproved, p.Trend)
	assert.Equal(t, 1.0, p.ScoreChange)
	assert.Equal(t, 16.7, p.PercentageChange)
	assert.Equal(t, "🎉", p.Emoji)
	for _, lang := range Languages {
		assert.NotEmpty(t, p.Message(lang), "language %s", lang)
	}
	assert.Contains(t, p.Message(LangEN), "1.0 points")
	assert.Contains(t, p.Message(LangES), "1.0 puntos")
	assert.NotEqual(t, p.Message(LangEN), p.Message(LangES))
}

func TestCompare_FirstAnalysis(t *testing.T) {
	t.Parallel()

	for _, score := range []float64{0, 4.2, 10} {
		for _, exercised := range []bool{false, true} {
			p := Compare(snapshot(score, nil), nil, exercised)
			assert.True(t, p.IsFirstAnalysis)
			assert.False(t, p.HasImproved)
			assert.Zero(t, p.ScoreChange)
			assert.Zero(t, p.PercentageChange)
			assert.Nil(t, p.RegionChanges)
			assert.Equal(t, TrendFirst, p.Trend)
			assert.NotEmpty(t, p.Message(LangEN))
			assert.NotEmpty(t, p.Message(LangES))
		}
	}
}

func TestCompare_Trends(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		cur, prev float64
		exercised bool
		trend     Trend
		change    float64
		emoji     string
	}{
		{"small gain is unchanged", 6.04, 6.0, false, TrendUnchanged, 0, "➖"},
		{"small loss is unchanged", 5.96, 6.0, true, TrendUnchanged, 0, "💪"},
		{"gain without exercise", 6.5, 6.0, false, TrendImproved, 0.5, "📈"},
		{"decline", 5.2, 6.0, false, TrendDeclined, -0.8, "📉"},
		{"decline with exercise", 5.2, 6.0, true, TrendDeclined, -0.8, "📉"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := Compare(snapshot(tt.cur, nil), snapshot(tt.prev, nil), tt.exercised)
			assert.Equal(t, tt.trend, p.Trend)
			assert.InDelta(t, tt.change, p.ScoreChange, 1e-9)
			assert.Equal(t, tt.trend == TrendImproved, p.HasImproved)
			assert.Equal(t, tt.emoji, p.Emoji)
			assert.NotEmpty(t, p.Message(LangES))
		})
	}
}

func TestCompare_DeclineMessageUsesMagnitude(t *testing.T) {
	t.Parallel()

	p := Compare(snapshot(5.0, nil), snapshot(6.0, nil), false)
	assert.Contains(t, p.Message(LangEN), "dropped by 1.0 points (-16.7%)")
}

func TestCompare_ZeroPrevious(t *testing.T) {
	t.Parallel()

	p := Compare(snapshot(3, nil), snapshot(0, nil), false)
	assert.Equal(t, 3.0, p.ScoreChange)
	assert.Zero(t, p.PercentageChange)
	assert.True(t, p.HasImproved)
}

func TestCompare_RegionChanges(t *testing.T) {
	t.Parallel()

	cur := snapshot(7, map[regions.Region]float64{
		regions.RegionNose: 8.2, regions.RegionEyes: 6.0, regions.RegionLips: 7.0,
	})
	prev := snapshot(6, map[regions.Region]float64{
		regions.RegionNose: 7.5, regions.RegionEyes: 6.5, regions.RegionJawline: 5.0,
	})

	p := Compare(cur, prev, false)
	require.Len(t, p.RegionChanges, 2)
	assert.Equal(t, RegionChange{Region: regions.RegionEyes, Previous: 6.5, Current: 6.0, Change: -0.5}, p.RegionChanges[0])
	assert.Equal(t, RegionChange{Region: regions.RegionNose, Previous: 7.5, Current: 8.2, Change: 0.7}, p.RegionChanges[1])
}

func TestCompare_Deterministic(t *testing.T) {
	t.Parallel()

	cur := snapshot(7.3, map[regions.Region]float64{regions.RegionEyes: 8, regions.RegionNose: 6})
	prev := snapshot(6.1, map[regions.Region]float64{regions.RegionEyes: 7, regions.RegionNose: 6.5})
	first := Compare(cur, prev, true)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Compare(cur, prev, true))
	}
}

func TestProgressMessageFallsBackToEnglish(t *testing.T) {
	t.Parallel()

	p := Compare(snapshot(7, nil), nil, false)
	assert.Equal(t, p.Message(LangEN), p.Message(Language("fr")))
}
