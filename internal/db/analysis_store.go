package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/banshee-data/facescore/internal/timeutil"
)

// ErrNotFound is returned when an analysis does not exist.
var ErrNotFound = errors.New("analysis not found")

// AnalysisRecord is the durable result of one analysis. Metrics holds the
// per-region document in the same shape the metrics normalizer reads.
type AnalysisRecord struct {
	ID               string          `json:"id"`
	OverallScore     float64         `json:"overall_score"`
	Metrics          json.RawMessage `json:"metrics"`
	CreatedAt        time.Time       `json:"created_at"`
	EngineVersion    string          `json:"engine_version,omitempty"`
	ConfigVersion    string          `json:"config_version,omitempty"`
	Confidence       *float64        `json:"confidence,omitempty"`
	ConsistencyScore *float64        `json:"consistency_score,omitempty"`
}

// AnalysisStore persists AnalysisRecords.
type AnalysisStore struct {
	db    *sql.DB
	clock timeutil.Clock
}

// NewAnalysisStore creates a new AnalysisStore.
func NewAnalysisStore(db *sql.DB) *AnalysisStore {
	return &AnalysisStore{db: db, clock: timeutil.RealClock{}}
}

// WithClock returns a copy of the store that stamps records and waits out
// lock contention on clock.
func (s *AnalysisStore) WithClock(clock timeutil.Clock) *AnalysisStore {
	return &AnalysisStore{db: s.db, clock: clock}
}

const analysisColumns = `analysis_id, overall_score, metrics_json, created_at,
	engine_version, config_version, confidence, consistency_score`

// Insert persists rec. An empty ID is filled with a UUID and a zero
// CreatedAt with the current time.
func (s *AnalysisStore) Insert(rec *AnalysisRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = s.clock.Now().UTC()
	}
	if len(rec.Metrics) == 0 {
		rec.Metrics = json.RawMessage("{}")
	}
	if !json.Valid(rec.Metrics) {
		return fmt.Errorf("insert analysis %s: metrics is not valid JSON", rec.ID)
	}

	return retryOnBusy(s.clock, func() error {
		_, err := s.db.Exec(`
			INSERT INTO analyses (`+analysisColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			rec.ID, rec.OverallScore, string(rec.Metrics), rec.CreatedAt.UnixNano(),
			rec.EngineVersion, rec.ConfigVersion, nullFloat(rec.Confidence), nullFloat(rec.ConsistencyScore),
		)
		if err != nil {
			return fmt.Errorf("insert analysis %s: %w", rec.ID, err)
		}
		return nil
	})
}

// Get returns a single analysis by ID.
func (s *AnalysisStore) Get(id string) (*AnalysisRecord, error) {
	row := s.db.QueryRow(`SELECT `+analysisColumns+` FROM analyses WHERE analysis_id = ?`, id)
	rec, err := scanAnalysis(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("analysis %s: %w", id, ErrNotFound)
	}
	return rec, err
}

// Latest returns the most recent analysis.
func (s *AnalysisStore) Latest() (*AnalysisRecord, error) {
	row := s.db.QueryRow(`SELECT ` + analysisColumns + ` FROM analyses
		ORDER BY created_at DESC, analysis_id DESC LIMIT 1`)
	rec, err := scanAnalysis(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return rec, err
}

// Previous returns the analysis immediately before rec, or ErrNotFound if
// rec is the earliest.
func (s *AnalysisStore) Previous(rec *AnalysisRecord) (*AnalysisRecord, error) {
	ts := rec.CreatedAt.UnixNano()
	row := s.db.QueryRow(`SELECT `+analysisColumns+` FROM analyses
		WHERE created_at < ? OR (created_at = ? AND analysis_id < ?)
		ORDER BY created_at DESC, analysis_id DESC LIMIT 1`, ts, ts, rec.ID)
	prev, err := scanAnalysis(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("before analysis %s: %w", rec.ID, ErrNotFound)
	}
	return prev, err
}

// ListRecent returns up to limit analyses, newest first.
func (s *AnalysisStore) ListRecent(limit int) ([]*AnalysisRecord, error) {
	if limit <= 0 {
		return nil, nil
	}
	rows, err := s.db.Query(`SELECT `+analysisColumns+` FROM analyses
		ORDER BY created_at DESC, analysis_id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query analyses: %w", err)
	}
	defer rows.Close()

	var out []*AnalysisRecord
	for rows.Next() {
		rec, err := scanAnalysis(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Delete removes an analysis by ID.
func (s *AnalysisStore) Delete(id string) error {
	return retryOnBusy(s.clock, func() error {
		result, err := s.db.Exec(`DELETE FROM analyses WHERE analysis_id = ?`, id)
		if err != nil {
			return fmt.Errorf("delete analysis: %w", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("rows affected: %w", err)
		}
		if affected == 0 {
			return fmt.Errorf("analysis %s: %w", id, ErrNotFound)
		}
		return nil
	})
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAnalysis(row scanner) (*AnalysisRecord, error) {
	var (
		rec         AnalysisRecord
		metrics     string
		createdAt   int64
		confidence  sql.NullFloat64
		consistency sql.NullFloat64
	)
	err := row.Scan(
		&rec.ID, &rec.OverallScore, &metrics, &createdAt,
		&rec.EngineVersion, &rec.ConfigVersion, &confidence, &consistency,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan analysis row: %w", err)
	}
	rec.Metrics = json.RawMessage(metrics)
	rec.CreatedAt = time.Unix(0, createdAt).UTC()
	if confidence.Valid {
		rec.Confidence = &confidence.Float64
	}
	if consistency.Valid {
		rec.ConsistencyScore = &consistency.Float64
	}
	return &rec, nil
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

const (
	busyRetries = 5
	busyBackoff = 20 * time.Millisecond
)

// retryOnBusy retries fn while SQLite reports the database as locked.
func retryOnBusy(clock timeutil.Clock, fn func() error) error {
	var err error
	for attempt := 0; attempt < busyRetries; attempt++ {
		if err = fn(); err == nil || !isBusy(err) {
			return err
		}
		clock.Sleep(busyBackoff * time.Duration(attempt+1))
	}
	return err
}

func isBusy(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}
