package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/banshee-data/facescore/internal/db"
	"github.com/banshee-data/facescore/internal/metrics"
	"github.com/banshee-data/facescore/internal/regions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngSignature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func score(v float64) *float64 { return &v }

func TestWriteTrendPNG(t *testing.T) {
	t.Parallel()
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("multiple records", func(t *testing.T) {
		t.Parallel()
		records := []*db.AnalysisRecord{
			{ID: "c", OverallScore: 7.4, CreatedAt: base.Add(48 * time.Hour)},
			{ID: "a", OverallScore: 6.1, CreatedAt: base},
			nil,
			{ID: "b", OverallScore: 6.8, CreatedAt: base.Add(24 * time.Hour)},
		}
		var buf bytes.Buffer
		require.NoError(t, WriteTrendPNG(records, &buf))
		assert.True(t, bytes.HasPrefix(buf.Bytes(), pngSignature))
	})

	t.Run("single record", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		require.NoError(t, WriteTrendPNG([]*db.AnalysisRecord{{OverallScore: 5, CreatedAt: base}}, &buf))
		assert.True(t, bytes.HasPrefix(buf.Bytes(), pngSignature))
	})

	t.Run("no records", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		assert.ErrorIs(t, WriteTrendPNG(nil, &buf), ErrNoRecords)
		assert.Zero(t, buf.Len())
	})
}

func TestTrendPointsChronological(t *testing.T) {
	t.Parallel()
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	pts := trendPoints([]*db.AnalysisRecord{
		{OverallScore: 3, CreatedAt: base.Add(2 * time.Hour)},
		{OverallScore: 1, CreatedAt: base},
		{OverallScore: 2, CreatedAt: base.Add(time.Hour)},
	})
	require.Len(t, pts, 3)
	for i, want := range []float64{1, 2, 3} {
		assert.Equal(t, want, pts[i].Y)
	}
	assert.Equal(t, float64(base.Unix()), pts[0].X)
}

func TestWriteRegionChartHTML(t *testing.T) {
	t.Parallel()
	current := &metrics.Snapshot{
		OverallScore: 7.2,
		CreatedAt:    time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC),
		Regions: map[regions.Region]metrics.RegionMetrics{
			regions.RegionEyes: {Region: regions.RegionEyes, OverallScore: score(8.1)},
			regions.RegionNose: {Region: regions.RegionNose, OverallScore: score(6.4)},
		},
	}
	previous := &metrics.Snapshot{
		OverallScore: 6.9,
		Regions: map[regions.Region]metrics.RegionMetrics{
			regions.RegionEyes:    {Region: regions.RegionEyes, OverallScore: score(7.6)},
			regions.RegionJawline: {Region: regions.RegionJawline, OverallScore: score(5.5)},
		},
	}

	t.Run("with previous", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		require.NoError(t, WriteRegionChartHTML(current, previous, &buf))
		out := buf.String()
		assert.Contains(t, out, "<html")
		assert.Contains(t, out, "Region scores")
		assert.Contains(t, out, "eyes")
		assert.Contains(t, out, "nose")
		assert.Contains(t, out, "jawline")
		assert.NotContains(t, out, "eyebrows")
		assert.Contains(t, out, "current 2025-03-02")
		assert.Contains(t, out, "previous")
	})

	t.Run("without previous", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		require.NoError(t, WriteRegionChartHTML(current, nil, &buf))
		out := buf.String()
		assert.Contains(t, out, "nose")
		assert.NotContains(t, out, "jawline")
	})

	t.Run("errors", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		assert.Error(t, WriteRegionChartHTML(nil, previous, &buf))
		assert.Error(t, WriteRegionChartHTML(&metrics.Snapshot{}, nil, &buf))
	})
}
