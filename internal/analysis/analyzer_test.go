package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/facescore/internal/attractiveness"
	"github.com/banshee-data/facescore/internal/capture"
	"github.com/banshee-data/facescore/internal/config"
	"github.com/banshee-data/facescore/internal/db"
	"github.com/banshee-data/facescore/internal/geometry"
	"github.com/banshee-data/facescore/internal/landmark"
	"github.com/banshee-data/facescore/internal/metrics"
	"github.com/banshee-data/facescore/internal/monitoring"
	"github.com/banshee-data/facescore/internal/regions"
	"github.com/banshee-data/facescore/internal/testutil"
	"github.com/banshee-data/facescore/internal/timeutil"
)

func init() {
	monitoring.SetLogger(nil)
}

var fixedTime = time.Date(2025, 4, 2, 10, 30, 0, 0, time.UTC)

func newTestAnalyzer(cfg *config.ScoringConfig) *Analyzer {
	a := New(cfg)
	a.clock = timeutil.NewMockClock(fixedTime)
	a.newID = func() string { return "test-analysis" }
	return a
}

func TestAnalyze_FrontalFace(t *testing.T) {
	t.Parallel()

	res, err := newTestAnalyzer(nil).Analyze(context.Background(), []*landmark.Set{testutil.FrontalFace()}, Options{})
	require.NoError(t, err)

	assert.False(t, res.RawCoordinates)
	require.Len(t, res.Transforms, 1)
	assert.Equal(t, 1, res.Averaged.CaptureCount)
	assert.Equal(t, capture.MaxConsistency, res.Averaged.ConsistencyScore)
	assert.Empty(t, res.Regions.Errors)
	assert.Len(t, res.Regions.Calculations, 5)
	assert.Equal(t, []regions.Unavailable{{Region: regions.RegionFaceShape, Reason: regions.FaceShapeUnavailableReason}}, res.Unavailable)

	assert.Equal(t, attractiveness.ConfidenceHigh, res.Attractiveness.ConfidenceTier)
	require.NotNil(t, res.Attractiveness.Breakdown.Regional)
	assert.GreaterOrEqual(t, res.Attractiveness.OverallScore, 8.5)

	rec := res.Record
	assert.Equal(t, "test-analysis", rec.ID)
	assert.Equal(t, fixedTime, rec.CreatedAt)
	assert.Equal(t, res.Attractiveness.OverallScore, rec.OverallScore)
	assert.Equal(t, config.DefaultVersion, rec.ConfigVersion)
	assert.NotEmpty(t, rec.EngineVersion)
	require.NotNil(t, rec.Confidence)
	assert.Equal(t, 95.0, *rec.Confidence)
	require.NotNil(t, rec.ConsistencyScore)
	assert.Equal(t, 100.0, *rec.ConsistencyScore)
}

func TestAnalyze_RecordRoundTripsThroughNormalizer(t *testing.T) {
	t.Parallel()

	res, err := newTestAnalyzer(nil).Analyze(context.Background(), []*landmark.Set{testutil.FrontalFace()}, Options{})
	require.NoError(t, err)

	var doc Document
	require.NoError(t, json.Unmarshal(res.Record.Metrics, &doc))
	assert.Equal(t, metrics.SourceDeterministic, doc.CalculationSource)
	assert.Len(t, doc.Regions, 5)

	snap := db.Snapshot(res.Record)
	require.Len(t, snap.Regions, 5)
	for r, calc := range res.Regions.Calculations {
		m, ok := snap.Regions[r]
		require.True(t, ok, "region %s", r)
		assert.Equal(t, metrics.SourceDeterministic, m.CalculationSource)
		require.NotNil(t, m.OverallScore, "region %s", r)
		assert.Equal(t, calc.OverallScore, *m.OverallScore, "region %s", r)
		require.NotNil(t, m.AsymmetryLevel, "region %s", r)
		assert.Equal(t, string(calc.AsymmetryLevel), *m.AsymmetryLevel)
		assert.NotEmpty(t, m.Details, "region %s", r)
	}
}

func TestAnalyze_InvariantToCameraPose(t *testing.T) {
	t.Parallel()

	a := newTestAnalyzer(nil)
	face := testutil.FrontalFace()
	posed := testutil.Scale(testutil.Shift(testutil.Tilt(face, -9, geometry.Point3D{X: 500, Y: 500}), 40, -25), 1.3, geometry.Point3D{X: 500, Y: 500})

	want, err := a.Analyze(context.Background(), []*landmark.Set{face}, Options{})
	require.NoError(t, err)
	got, err := a.Analyze(context.Background(), []*landmark.Set{posed}, Options{})
	require.NoError(t, err)

	assert.Equal(t, want.Attractiveness.OverallScore, got.Attractiveness.OverallScore)
	assert.Equal(t, want.Attractiveness.Breakdown, got.Attractiveness.Breakdown)
	assert.Equal(t, want.Regions.Scores(), got.Regions.Scores())
}

func TestAnalyze_MultipleCaptures(t *testing.T) {
	t.Parallel()

	face := testutil.FrontalFace()
	captures := []*landmark.Set{
		face,
		testutil.Shift(face, 30, 12),
		testutil.Tilt(face, 4, geometry.Point3D{X: 500, Y: 450}),
	}
	res, err := newTestAnalyzer(nil).Analyze(context.Background(), captures, Options{})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Averaged.CaptureCount)
	assert.Equal(t, capture.QualityExcellent, res.Averaged.Tier)
	assert.Len(t, res.Transforms, 3)

	jittered := []*landmark.Set{testutil.Jitter(face, 25, 1), testutil.Jitter(face, 25, 2)}
	noisy, err := newTestAnalyzer(nil).Analyze(context.Background(), jittered, Options{})
	require.NoError(t, err)
	assert.Less(t, noisy.Averaged.ConsistencyScore, res.Averaged.ConsistencyScore)
	require.NotNil(t, noisy.Record.ConsistencyScore)
	assert.Equal(t, noisy.Averaged.ConsistencyScore, *noisy.Record.ConsistencyScore)
}

func TestAnalyze_RawCoordinateFallback(t *testing.T) {
	t.Parallel()

	noTip := testutil.FrontalFace().Without(landmark.NoseTip)
	res, err := newTestAnalyzer(nil).Analyze(context.Background(), []*landmark.Set{noTip}, Options{})
	require.NoError(t, err)

	assert.True(t, res.RawCoordinates)
	assert.Nil(t, res.Transforms)
	// One missing critical point gives MEDIUM; raw coordinates lower it again.
	assert.Equal(t, attractiveness.ConfidenceLow, res.Attractiveness.ConfidenceTier)
	assert.Equal(t, 50.0, res.Attractiveness.Confidence)
	assert.Contains(t, res.Attractiveness.Notes, "scored on raw coordinates")
	assert.Contains(t, res.Regions.Errors, regions.RegionNose)

	var missing *landmark.MissingLandmarkError
	assert.True(t, errors.As(res.Regions.Errors[regions.RegionNose], &missing))

	var doc Document
	require.NoError(t, json.Unmarshal(res.Record.Metrics, &doc))
	assert.True(t, doc.RawCoordinates)
	assert.Contains(t, doc.RegionErrors, "nose")
	assert.NotContains(t, doc.Regions, "nose")
}

func TestAnalyze_MissingEyeCornerDowngradesOnce(t *testing.T) {
	t.Parallel()

	noCorner := testutil.FrontalFace().Without(landmark.RightEyeOuter)
	res, err := newTestAnalyzer(nil).Analyze(context.Background(), []*landmark.Set{noCorner}, Options{})
	require.NoError(t, err)

	assert.True(t, res.RawCoordinates)
	assert.True(t, res.Attractiveness.TiltSkipped)
	// One missing critical point gives MEDIUM; the skipped tilt correction
	// and the raw coordinates share a single step down.
	assert.Equal(t, attractiveness.ConfidenceLow, res.Attractiveness.ConfidenceTier)
	assert.Equal(t, 50.0, res.Attractiveness.Confidence)
	assert.Contains(t, res.Attractiveness.Notes, "scored on raw coordinates")
}

func TestAnalyze_Errors(t *testing.T) {
	t.Parallel()

	a := newTestAnalyzer(nil)

	_, err := a.Analyze(context.Background(), nil, Options{})
	var empty *capture.EmptyInputError
	assert.True(t, errors.As(err, &empty))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = a.Analyze(ctx, []*landmark.Set{testutil.FrontalFace()}, Options{})
	assert.True(t, errors.Is(err, context.Canceled))

	face := testutil.FrontalFace()
	_, err = a.Analyze(context.Background(), []*landmark.Set{face, face, face, face}, Options{})
	var tooMany *capture.TooManyCapturesError
	assert.True(t, errors.As(err, &tooMany))
}

func TestAnalyze_Deterministic(t *testing.T) {
	t.Parallel()

	a := newTestAnalyzer(nil)
	captures := []*landmark.Set{testutil.Jitter(testutil.FrontalFace(), 6, 1), testutil.Jitter(testutil.FrontalFace(), 6, 3)}

	first, err := a.Analyze(context.Background(), captures, Options{Gender: attractiveness.GenderFemale})
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := a.Analyze(context.Background(), captures, Options{Gender: attractiveness.GenderFemale})
		require.NoError(t, err)
		assert.Equal(t, first.Record, again.Record)
	}
}

func TestAnalyze_FaceShapeIsInformational(t *testing.T) {
	t.Parallel()

	enabled := true
	cfg := config.EmptyScoringConfig()
	cfg.EnableFaceShape = &enabled

	base, err := newTestAnalyzer(nil).Analyze(context.Background(), []*landmark.Set{testutil.FrontalFace()}, Options{})
	require.NoError(t, err)
	res, err := newTestAnalyzer(cfg).Analyze(context.Background(), []*landmark.Set{testutil.FrontalFace()}, Options{})
	require.NoError(t, err)

	assert.Empty(t, res.Unavailable)
	assert.Contains(t, res.Regions.Calculations, regions.RegionFaceShape)
	assert.Equal(t, base.Attractiveness.OverallScore, res.Attractiveness.OverallScore)

	var doc Document
	require.NoError(t, json.Unmarshal(res.Record.Metrics, &doc))
	assert.Contains(t, doc.Regions, "face_shape")
}

func TestAnalyzePhotos(t *testing.T) {
	t.Parallel()

	face := testutil.FrontalFace()
	provider := landmark.ProviderFunc(func(ctx context.Context, photo landmark.Photo) ([]geometry.Point3D, error) {
		switch photo.ID {
		case "front":
			return face.Points(), nil
		case "selfie":
			return testutil.ScreenMirror(face), nil
		}
		return nil, errors.New("unreadable photo")
	})
	boundary := landmark.NewBoundary(provider)
	a := newTestAnalyzer(nil)

	direct, err := a.Analyze(context.Background(), []*landmark.Set{face}, Options{})
	require.NoError(t, err)

	res, err := a.AnalyzePhotos(context.Background(), boundary, []landmark.Photo{
		{ID: "front"},
		{ID: "selfie", Mirrored: true},
	}, Options{})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Averaged.CaptureCount)
	assert.Equal(t, capture.QualityExcellent, res.Averaged.Tier)
	assert.Equal(t, direct.Attractiveness.OverallScore, res.Attractiveness.OverallScore)

	_, err = a.AnalyzePhotos(context.Background(), boundary, []landmark.Photo{{ID: "front"}, {ID: "blurry"}}, Options{})
	assert.ErrorContains(t, err, "unreadable photo")
}
