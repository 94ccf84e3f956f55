package db

import (
	"github.com/banshee-data/facescore/internal/metrics"
)

// Snapshot converts rec into the comparator's input. Region metrics are
// read through the metrics normalizer so stored and narrative documents
// share one path.
func Snapshot(rec *AnalysisRecord) *metrics.Snapshot {
	if rec == nil {
		return nil
	}
	return &metrics.Snapshot{
		ID:           rec.ID,
		OverallScore: rec.OverallScore,
		CreatedAt:    rec.CreatedAt,
		Regions:      metrics.NormalizeAll(metrics.Parse(rec.Metrics)),
	}
}
