package db

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/facescore/internal/monitoring"
	"github.com/banshee-data/facescore/internal/regions"
	"github.com/banshee-data/facescore/internal/timeutil"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()
	monitoring.SetLogger(nil)
	db, err := NewDB(filepath.Join(t.TempDir(), "facescore.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func floatPtr(f float64) *float64 { return &f }

var t0 = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func TestPragmasApplied(t *testing.T) {
	db := setupTestDB(t)

	var journalMode string
	require.NoError(t, db.QueryRow("PRAGMA journal_mode").Scan(&journalMode))
	assert.Equal(t, "wal", journalMode)

	var busyTimeout int
	require.NoError(t, db.QueryRow("PRAGMA busy_timeout").Scan(&busyTimeout))
	assert.Equal(t, 5000, busyTimeout)

	var synchronous int
	require.NoError(t, db.QueryRow("PRAGMA synchronous").Scan(&synchronous))
	assert.Equal(t, 1, synchronous) // NORMAL

	var tempStore int
	require.NoError(t, db.QueryRow("PRAGMA temp_store").Scan(&tempStore))
	assert.Equal(t, 2, tempStore) // MEMORY
}

func TestMigrations(t *testing.T) {
	monitoring.SetLogger(nil)
	path := filepath.Join(t.TempDir(), "m.db")

	raw, err := OpenDB(path)
	require.NoError(t, err)
	defer raw.Close()

	status, err := raw.GetMigrationStatus()
	require.NoError(t, err)
	assert.False(t, status.SchemaMigrationsExists)
	assert.Equal(t, uint(0), status.CurrentVersion)
	assert.True(t, status.Pending())

	latest, err := LatestMigrationVersion()
	require.NoError(t, err)
	assert.Equal(t, uint(2), latest)

	require.NoError(t, raw.MigrateUp())
	require.NoError(t, raw.MigrateUp(), "second run is a no-op")
	version, dirty, err := raw.MigrateVersion()
	require.NoError(t, err)
	assert.Equal(t, latest, version)
	assert.False(t, dirty)

	require.NoError(t, raw.MigrateDown())
	version, _, err = raw.MigrateVersion()
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)

	require.NoError(t, raw.MigrateTo(2))
	status, err = raw.GetMigrationStatus()
	require.NoError(t, err)
	assert.False(t, status.Pending())
	assert.True(t, status.SchemaMigrationsExists)
}

func TestAnalysisStore_InsertGet(t *testing.T) {
	store := setupTestDB(t).Analyses()

	rec := &AnalysisRecord{
		OverallScore:  7.4,
		Metrics:       json.RawMessage(`{"calculation_source":"deterministic","regions":{"eyes":{"overall_score":8.1}}}`),
		CreatedAt:     t0,
		EngineVersion: "dev",
		ConfigVersion: "2025.1",
		Confidence:    floatPtr(95),
	}
	require.NoError(t, store.Insert(rec))
	require.NotEmpty(t, rec.ID)

	got, err := store.Get(rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, got.ID)
	assert.Equal(t, 7.4, got.OverallScore)
	assert.True(t, t0.Equal(got.CreatedAt))
	assert.JSONEq(t, string(rec.Metrics), string(got.Metrics))
	assert.Equal(t, "2025.1", got.ConfigVersion)
	require.NotNil(t, got.Confidence)
	assert.Equal(t, 95.0, *got.Confidence)
	assert.Nil(t, got.ConsistencyScore)
}

func TestAnalysisStore_InsertDefaults(t *testing.T) {
	clock := timeutil.NewMockClock(t0)
	store := setupTestDB(t).Analyses().WithClock(clock)

	rec := &AnalysisRecord{OverallScore: 5}
	require.NoError(t, store.Insert(rec))
	assert.Equal(t, t0, rec.CreatedAt)
	assert.NotEmpty(t, rec.ID)
	assert.JSONEq(t, `{}`, string(rec.Metrics))

	bad := &AnalysisRecord{OverallScore: 5, Metrics: json.RawMessage(`{`)}
	assert.Error(t, store.Insert(bad))

	dup := &AnalysisRecord{ID: rec.ID, OverallScore: 6}
	assert.Error(t, store.Insert(dup))
}

func TestAnalysisStore_Ordering(t *testing.T) {
	store := setupTestDB(t).Analyses()

	_, err := store.Latest()
	assert.True(t, errors.Is(err, ErrNotFound))

	var recs []*AnalysisRecord
	for i, score := range []float64{6.0, 6.5, 7.0} {
		rec := &AnalysisRecord{OverallScore: score, CreatedAt: t0.Add(time.Duration(i) * 24 * time.Hour)}
		require.NoError(t, store.Insert(rec))
		recs = append(recs, rec)
	}

	latest, err := store.Latest()
	require.NoError(t, err)
	assert.Equal(t, recs[2].ID, latest.ID)

	prev, err := store.Previous(latest)
	require.NoError(t, err)
	assert.Equal(t, recs[1].ID, prev.ID)

	_, err = store.Previous(recs[0])
	assert.True(t, errors.Is(err, ErrNotFound))

	list, err := store.ListRecent(2)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, recs[2].ID, list[0].ID)
	assert.Equal(t, recs[1].ID, list[1].ID)

	none, err := store.ListRecent(0)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestAnalysisStore_PreviousBreaksTiesByID(t *testing.T) {
	store := setupTestDB(t).Analyses()

	a := &AnalysisRecord{ID: "a", OverallScore: 5, CreatedAt: t0}
	b := &AnalysisRecord{ID: "b", OverallScore: 6, CreatedAt: t0}
	require.NoError(t, store.Insert(a))
	require.NoError(t, store.Insert(b))

	prev, err := store.Previous(b)
	require.NoError(t, err)
	assert.Equal(t, "a", prev.ID)
}

func TestAnalysisStore_Delete(t *testing.T) {
	store := setupTestDB(t).Analyses()

	rec := &AnalysisRecord{OverallScore: 5, CreatedAt: t0}
	require.NoError(t, store.Insert(rec))
	require.NoError(t, store.Delete(rec.ID))

	_, err := store.Get(rec.ID)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.True(t, errors.Is(store.Delete(rec.ID), ErrNotFound))
}

func TestSnapshot(t *testing.T) {
	t.Parallel()

	assert.Nil(t, Snapshot(nil))

	rec := &AnalysisRecord{
		ID:           "r1",
		OverallScore: 7,
		CreatedAt:    t0,
		Metrics: json.RawMessage(`{
			"calculation_source": "deterministic",
			"regions": {
				"eyes": {"overall_score": 8.1, "asymmetry_level": "MILD"},
				"nose": {"overall_score": 6.4, "metrics": {"width_ratio": 1.02}}
			}
		}`),
	}
	snap := Snapshot(rec)
	require.NotNil(t, snap)
	assert.Equal(t, "r1", snap.ID)
	assert.Equal(t, 7.0, snap.OverallScore)
	require.Len(t, snap.Regions, 2)

	eyes := snap.Regions[regions.RegionEyes]
	require.NotNil(t, eyes.OverallScore)
	assert.Equal(t, 8.1, *eyes.OverallScore)
	assert.Equal(t, "deterministic", string(eyes.CalculationSource))
	assert.Equal(t, map[string]float64{"width_ratio": 1.02}, snap.Regions[regions.RegionNose].Details)
}

func TestRetryOnBusy(t *testing.T) {
	t.Parallel()

	clock := timeutil.NewMockClock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	calls := 0
	err := retryOnBusy(clock, func() error {
		calls++
		if calls < 3 {
			return errors.New("database is locked (5) (SQLITE_BUSY)")
		}
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []time.Duration{busyBackoff, 2 * busyBackoff}, clock.Sleeps())

	calls = 0
	other := errors.New("constraint failed")
	err = retryOnBusy(clock, func() error {
		calls++
		return other
	})
	assert.Equal(t, other, err)
	assert.Equal(t, 1, calls)
}
