package regions_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/facescore/internal/config"
	"github.com/banshee-data/facescore/internal/geometry"
	"github.com/banshee-data/facescore/internal/landmark"
	"github.com/banshee-data/facescore/internal/normalize"
	"github.com/banshee-data/facescore/internal/regions"
	"github.com/banshee-data/facescore/internal/testutil"
)

func calculate(t *testing.T, c regions.Calculator, set *landmark.Set) *regions.Calculation {
	t.Helper()
	res, err := c.Calculate(set)
	require.NoError(t, err)
	require.NotNil(t, res)
	return res
}

func subScore(t *testing.T, c *regions.Calculation, name string) float64 {
	t.Helper()
	s, ok := c.SubScore(name)
	require.True(t, ok, "sub-score %q missing", name)
	return s
}

func TestCalculators_FrontalFace(t *testing.T) {
	t.Parallel()

	face := testutil.FrontalFace()
	want := map[regions.Region]float64{
		regions.RegionEyebrows: 10,
		regions.RegionEyes:     10,
		regions.RegionNose:     9.9,
		regions.RegionLips:     10,
		regions.RegionJawline:  9.7,
	}

	for _, calc := range regions.DefaultCalculators() {
		t.Run(string(calc.Region()), func(t *testing.T) {
			t.Parallel()
			c := calculate(t, calc, face)

			assert.Equal(t, calc.Region(), c.Region)
			assert.Equal(t, want[calc.Region()], c.OverallScore)
			assert.Equal(t, regions.AsymmetryNone, c.AsymmetryLevel)
			assert.NotEmpty(t, c.Classification)
			assert.GreaterOrEqual(t, len(c.Metrics), 15)

			var total float64
			for _, s := range c.SubScores {
				assert.GreaterOrEqual(t, s.Score, 0.0)
				assert.LessOrEqual(t, s.Score, 10.0)
				total += s.Weight
			}
			assert.InDelta(t, 1.0, total, 1e-9)
			assert.Equal(t, regions.DefaultWeights(calc.Region()), weightsOf(c))
		})
	}
}

func weightsOf(c *regions.Calculation) map[string]float64 {
	out := make(map[string]float64, len(c.SubScores))
	for _, s := range c.SubScores {
		out[s.Name] = s.Weight
	}
	return out
}

func TestCalculators_FrontalFaceDetails(t *testing.T) {
	t.Parallel()

	face := testutil.FrontalFace()

	nose := calculate(t, regions.Nose{}, face)
	assert.Equal(t, 9.4, subScore(t, nose, "length_proportion"))
	assert.Equal(t, 10.0, subScore(t, nose, "straightness"))
	assert.Equal(t, "balanced, straight", nose.Classification)

	jaw := calculate(t, regions.Jawline{}, face)
	assert.Equal(t, 6.8, subScore(t, jaw, "gonial_definition"))
	dev, ok := jaw.Metric("chin_deviation")
	require.True(t, ok)
	assert.InDelta(t, 0, dev, 1e-12)

	eyes := calculate(t, regions.Eyes{}, face)
	assert.Equal(t, "neutral tilt, balanced spacing", eyes.Classification)
	tilt, _ := eyes.Metric("right_canthal_tilt")
	assert.InDelta(t, 3.01, tilt, 0.01)

	brows := calculate(t, regions.Eyebrows{}, face)
	assert.Equal(t, "arched", brows.Classification)

	lips := calculate(t, regions.Lips{}, face)
	ratio, _ := lips.Metric("lip_ratio")
	assert.InDelta(t, 29.0/17.0, ratio, 1e-9)
	assert.Equal(t, "medium", lips.Classification)
}

func TestCalculators_InvariantUnderNormalization(t *testing.T) {
	t.Parallel()

	face := testutil.FrontalFace()
	nose, _ := face.Get(landmark.NoseTip)
	moved := testutil.Scale(testutil.Shift(testutil.Tilt(face, 11, nose), 35, -20), 1.4, geometry.Point3D{X: 500, Y: 500})

	a, err := normalize.Normalize(face, normalize.DefaultOptions())
	require.NoError(t, err)
	b, err := normalize.Normalize(moved, normalize.DefaultOptions())
	require.NoError(t, err)

	for _, calc := range regions.DefaultCalculators() {
		want := calculate(t, calc, a.Set)
		got := calculate(t, calc, b.Set)
		if diff := cmp.Diff(want, got, cmpopts.EquateApprox(0, 1e-6)); diff != "" {
			t.Errorf("%s differs after normalization (-want +got):\n%s", calc.Region(), diff)
		}
	}
}

func TestCalculators_MirroredIngestMatches(t *testing.T) {
	t.Parallel()

	face := testutil.FrontalFace()
	// Break symmetry so a wrong right/left mapping would show.
	face = testutil.Move(face, landmark.RightBrowPeak, 0, -12)
	face = testutil.Move(face, landmark.MouthLeft, 0, 6)

	ingested, err := landmark.Ingest(testutil.ScreenMirror(face), landmark.IngestOptions{Mirrored: true})
	require.NoError(t, err)

	for _, calc := range regions.DefaultCalculators() {
		want := calculate(t, calc, face)
		got := calculate(t, calc, ingested)
		if diff := cmp.Diff(want, got, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
			t.Errorf("%s differs for mirrored capture (-want +got):\n%s", calc.Region(), diff)
		}
	}
}

func TestCalculators_DetectAsymmetry(t *testing.T) {
	t.Parallel()

	face := testutil.FrontalFace()
	tests := []struct {
		name     string
		calc     regions.Calculator
		index    int
		dx, dy   float64
		subScore string
	}{
		{"raised brow", regions.Eyebrows{}, landmark.RightBrowPeak, 0, -25, "height_symmetry"},
		{"flattened arch", regions.Eyebrows{}, landmark.LeftBrowPeak, 0, 15, "arch_symmetry"},
		{"smaller eye", regions.Eyes{}, landmark.LeftEyeLower, 0, -12, "size_symmetry"},
		{"tilted eye", regions.Eyes{}, landmark.RightEyeOuter, 0, 12, "canthal_tilt_symmetry"},
		{"deviated tip", regions.Nose{}, landmark.NoseTip, 18, 0, "straightness"},
		{"wide alar", regions.Nose{}, landmark.LeftAlar, 20, 0, "alar_symmetry"},
		{"drooping corner", regions.Lips{}, landmark.MouthRight, 0, 18, "corner_symmetry"},
		{"uneven cupid peak", regions.Lips{}, landmark.LeftCupidPeak, 0, 6, "cupid_bow_symmetry"},
		{"shifted chin", regions.Jawline{}, landmark.Chin, 30, 0, "chin_alignment"},
		{"flared jaw", regions.Jawline{}, landmark.LeftJawAngle, 35, 0, "contour_symmetry"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			base := calculate(t, tt.calc, face)
			got := calculate(t, tt.calc, testutil.Move(face, tt.index, tt.dx, tt.dy))

			assert.Less(t, subScore(t, got, tt.subScore), subScore(t, base, tt.subScore))
			assert.Less(t, got.OverallScore, base.OverallScore)
		})
	}
}

func TestCalculators_MissingLandmark(t *testing.T) {
	t.Parallel()

	tests := []struct {
		calc  regions.Calculator
		index int
	}{
		{regions.Eyebrows{}, landmark.LeftBrowOuterLower},
		{regions.Eyes{}, landmark.RightEyeUpper},
		{regions.Nose{}, landmark.LeftNostril},
		{regions.Lips{}, landmark.RightCupidPeak},
		{regions.Jawline{}, landmark.RightChinSide},
		{regions.FaceShape{}, landmark.LeftTemple},
	}
	for _, tt := range tests {
		_, err := tt.calc.Calculate(testutil.FrontalFace().Without(tt.index))
		var missing *landmark.MissingLandmarkError
		require.True(t, errors.As(err, &missing), "%s: %v", tt.calc.Region(), err)
		assert.Equal(t, tt.index, missing.Index)
		assert.Contains(t, err.Error(), string(tt.calc.Region()))
	}
}

func TestFaceShape(t *testing.T) {
	t.Parallel()

	c := calculate(t, regions.FaceShape{}, testutil.FrontalFace())
	assert.Equal(t, "oval", c.Classification)
	assert.Equal(t, 10.0, subScore(t, c, "outline_symmetry"))
	assert.Greater(t, c.OverallScore, 7.0)

	// Pull the chin down: a long narrow face.
	long := testutil.Move(testutil.FrontalFace(), landmark.Chin, 0, 120)
	assert.Equal(t, "oblong", calculate(t, regions.FaceShape{}, long).Classification)
}

func TestRunAll(t *testing.T) {
	t.Parallel()

	out, err := regions.RunAll(context.Background(), testutil.FrontalFace(), regions.DefaultCalculators())
	require.NoError(t, err)
	assert.Len(t, out.Calculations, 5)
	assert.Empty(t, out.Errors)

	var order []regions.Region
	for _, c := range out.Ordered() {
		order = append(order, c.Region)
	}
	assert.Equal(t, []regions.Region{
		regions.RegionEyebrows, regions.RegionEyes, regions.RegionNose, regions.RegionLips, regions.RegionJawline,
	}, order)
	assert.Equal(t, 9.7, out.Scores()[regions.RegionJawline])

	// Deterministic across runs.
	again, err := regions.RunAll(context.Background(), testutil.FrontalFace(), regions.DefaultCalculators())
	require.NoError(t, err)
	if diff := cmp.Diff(out.Ordered(), again.Ordered()); diff != "" {
		t.Errorf("RunAll not deterministic:\n%s", diff)
	}
}

func TestRunAll_PartialFailure(t *testing.T) {
	t.Parallel()

	out, err := regions.RunAll(context.Background(), testutil.FrontalFace().Without(landmark.Chin), regions.DefaultCalculators())
	require.NoError(t, err)

	assert.Contains(t, out.Calculations, regions.RegionEyebrows)
	assert.Contains(t, out.Calculations, regions.RegionEyes)
	for _, r := range []regions.Region{regions.RegionNose, regions.RegionLips, regions.RegionJawline} {
		var missing *landmark.MissingLandmarkError
		assert.True(t, errors.As(out.Errors[r], &missing), "region %s", r)
	}
	assert.Len(t, out.Ordered(), 2)
}

func TestRunAll_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := regions.RunAll(ctx, testutil.FrontalFace(), regions.DefaultCalculators())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCalculatorsFromConfig(t *testing.T) {
	t.Parallel()

	calcs, unavailable := regions.CalculatorsFromConfig(config.EmptyScoringConfig())
	assert.Len(t, calcs, 5)
	require.Len(t, unavailable, 1)
	assert.Equal(t, regions.RegionFaceShape, unavailable[0].Region)
	assert.Equal(t, regions.FaceShapeUnavailableReason, unavailable[0].Reason)

	enabled := true
	cfg := config.EmptyScoringConfig()
	cfg.EnableFaceShape = &enabled
	cfg.RegionWeights = map[string]map[string]float64{
		"eyebrows": {"height_symmetry": 1},
	}
	calcs, unavailable = regions.CalculatorsFromConfig(cfg)
	assert.Len(t, calcs, 6)
	assert.Empty(t, unavailable)

	// Only brow height counts under the override.
	face := testutil.Move(testutil.FrontalFace(), landmark.RightBrowPeak, 0, -25)
	brows := calculate(t, calcs[0], face)
	assert.Equal(t, subScore(t, brows, "height_symmetry"), brows.OverallScore)
}
