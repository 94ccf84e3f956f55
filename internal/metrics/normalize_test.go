package metrics

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/facescore/internal/regions"
)

func ptr[T any](v T) *T { return &v }

func TestNormalizeEyes_FallbackPaths(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		doc  string
		want *float64
	}{
		{"top level snake", `{"eyes": {"overall_score": 7.5}}`, ptr(7.5)},
		{"top level camel", `{"eyes": {"overallScore": 8}}`, ptr(8.0)},
		{"nested regions", `{"regions": {"eyes": {"score": "6.5"}}}`, ptr(6.5)},
		{"analysis container", `{"analysis": {"eyes": {"rating": "7.5/10"}}}`, ptr(7.5)},
		{"percent string", `{"results": {"eyes": {"score": "75%"}}}`, ptr(7.5)},
		{"hundred scale", `{"eyes": {"score": 82}}`, ptr(8.2)},
		{"bare region value", `{"eyes": "9/10"}`, ptr(9.0)},
		{"suffix container", `{"eyes_analysis": {"overall_score": 4}}`, ptr(4.0)},
		{"first usable path wins", `{"eyes": {"overall_score": "n/a", "score": 5}}`, ptr(5.0)},
		{"out of range", `{"eyes": {"score": 250}}`, nil},
		{"boolean", `{"eyes": {"score": true}}`, nil},
		{"null", `{"eyes": {"score": null}}`, nil},
		{"missing region", `{"nose": {"score": 5}}`, nil},
		{"not an object", `[1, 2, 3]`, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := NormalizeEyes(Parse([]byte(tt.doc)))
			assert.Equal(t, regions.RegionEyes, got.Region)
			assert.Equal(t, tt.want, got.OverallScore)
		})
	}
}

func TestNormalize_InvalidJSONIsEmpty(t *testing.T) {
	t.Parallel()

	doc := Parse([]byte(`{"eyes": `))
	assert.Nil(t, doc)
	for _, fn := range []func(any) RegionMetrics{NormalizeEyebrows, NormalizeEyes, NormalizeNose, NormalizeLips, NormalizeJawline} {
		m := fn(doc)
		assert.True(t, m.Empty())
		assert.Equal(t, SourceNarrative, m.CalculationSource)
	}
	assert.Empty(t, NormalizeAll(doc))
}

func TestNormalize_FullRecord(t *testing.T) {
	t.Parallel()

	doc := Parse([]byte(`{
		"calculation_source": "deterministic",
		"regions": {
			"nose": {
				"overall_score": 8.4,
				"symmetry_score": 9.1,
				"asymmetry_level": "mild",
				"classification": "balanced, straight",
				"metrics": {"width_ratio": 1.0, "axis_angle": "2.5", "length_ratio": "n/a"}
			}
		}
	}`))

	want := RegionMetrics{
		Region:            regions.RegionNose,
		OverallScore:      ptr(8.4),
		SymmetryScore:     ptr(9.1),
		AsymmetryLevel:    ptr("MILD"),
		Classification:    ptr("balanced, straight"),
		Details:           map[string]float64{"width_ratio": 1.0, "axis_angle": 2.5},
		CalculationSource: SourceDeterministic,
	}
	if diff := cmp.Diff(want, NormalizeNose(doc)); diff != "" {
		t.Errorf("NormalizeNose mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalize_AsymmetryLevelValidated(t *testing.T) {
	t.Parallel()

	m := NormalizeEyebrows(Parse([]byte(`{"eyebrows": {"score": 6, "asymmetry_level": "extreme"}}`)))
	assert.Nil(t, m.AsymmetryLevel)
	require.NotNil(t, m.OverallScore)
	assert.Equal(t, 6.0, *m.OverallScore)
}

func TestNormalize_RegionAliases(t *testing.T) {
	t.Parallel()

	doc := Parse([]byte(`{"mouth": {"score": 7, "lipRatio": 1.6}, "jaw": {"score": "5/10", "gonial_angle": 124}}`))

	lips := NormalizeLips(doc)
	assert.Equal(t, regions.RegionLips, lips.Region)
	require.NotNil(t, lips.OverallScore)
	assert.Equal(t, 7.0, *lips.OverallScore)
	assert.Equal(t, map[string]float64{"lip_ratio": 1.6}, lips.Details)

	jaw := NormalizeJawline(doc)
	assert.Equal(t, regions.RegionJawline, jaw.Region)
	require.NotNil(t, jaw.OverallScore)
	assert.Equal(t, 5.0, *jaw.OverallScore)
	assert.Equal(t, map[string]float64{"mean_gonial_angle": 124}, jaw.Details)
}

func TestNormalizeAll(t *testing.T) {
	t.Parallel()

	doc := Parse([]byte(`{
		"eyebrows": {"score": 6},
		"eyes": {"score": 7},
		"nose": {},
		"lips": {"score": 8}
	}`))
	all := NormalizeAll(doc)
	assert.Len(t, all, 3)
	assert.Contains(t, all, regions.RegionEyebrows)
	assert.Contains(t, all, regions.RegionEyes)
	assert.Contains(t, all, regions.RegionLips)
	assert.NotContains(t, all, regions.RegionNose)
}

func TestDocumentSource(t *testing.T) {
	t.Parallel()

	assert.Equal(t, SourceDeterministic, DocumentSource(Parse([]byte(`{"calculation_source": "Deterministic"}`))))
	assert.Equal(t, SourceDeterministic, DocumentSource(Parse([]byte(`{"metadata": {"calculation_source": "deterministic"}}`))))
	assert.Equal(t, SourceNarrative, DocumentSource(Parse([]byte(`{"calculation_source": "gpt"}`))))
	assert.Equal(t, SourceNarrative, DocumentSource(Parse([]byte(`{}`))))
	assert.Equal(t, SourceNarrative, DocumentSource(nil))
}

func TestToScore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   any
		want float64
		ok   bool
	}{
		{7.0, 7, true},
		{0.0, 0, true},
		{10.0, 10, true},
		{" 6.5 ", 6.5, true},
		{"3/5", 6, true},
		{"3/0", 0, false},
		{"80%", 8, true},
		{"150%", 0, false},
		{-1.0, 0, false},
		{101.0, 0, false},
		{"", 0, false},
		{"abc", 0, false},
		{false, 0, false},
		{nil, 0, false},
		{map[string]any{}, 0, false},
	}
	for _, tt := range tests {
		got, ok := toScore(tt.in)
		assert.Equal(t, tt.ok, ok, "toScore(%#v)", tt.in)
		assert.InDelta(t, tt.want, got, 1e-9, "toScore(%#v)", tt.in)
	}
}
