package analysis

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/banshee-data/facescore/internal/attractiveness"
	"github.com/banshee-data/facescore/internal/capture"
	"github.com/banshee-data/facescore/internal/db"
	"github.com/banshee-data/facescore/internal/geometry"
	"github.com/banshee-data/facescore/internal/metrics"
	"github.com/banshee-data/facescore/internal/regions"
	"github.com/banshee-data/facescore/internal/version"
)

// Document is the metrics JSON stored with every record. Its region
// entries use the field names the metrics normalizer tries first, so
// stored records round-trip through metrics.NormalizeAll.
type Document struct {
	CalculationSource metrics.Source            `json:"calculation_source"`
	EngineVersion     string                    `json:"engine_version"`
	ConfigVersion     string                    `json:"config_version"`
	Attractiveness    attractiveness.Result     `json:"attractiveness"`
	Consistency       Consistency               `json:"consistency"`
	Regions           map[string]RegionDocument `json:"regions"`
	Unavailable       []regions.Unavailable     `json:"unavailable,omitempty"`
	RegionErrors      map[string]string         `json:"region_errors,omitempty"`
	RawCoordinates    bool                      `json:"raw_coordinates,omitempty"`
}

// Consistency summarizes the capture session.
type Consistency struct {
	Score        float64             `json:"score"`
	Tier         capture.QualityTier `json:"tier"`
	CaptureCount int                 `json:"capture_count"`
	Issues       []string            `json:"issues,omitempty"`
}

// RegionDocument is one region's stored calculation.
type RegionDocument struct {
	OverallScore   float64            `json:"overall_score"`
	SymmetryScore  *float64           `json:"symmetry_score,omitempty"`
	AsymmetryLevel string             `json:"asymmetry_level"`
	Classification string             `json:"classification,omitempty"`
	Metrics        map[string]float64 `json:"metrics"`
	SubScores      map[string]float64 `json:"sub_scores"`
}

func (a *Analyzer) record(res *Result, start time.Time) (*db.AnalysisRecord, error) {
	doc := a.document(res)
	body, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode analysis metrics: %w", err)
	}
	confidence := res.Attractiveness.Confidence
	consistency := res.Averaged.ConsistencyScore
	return &db.AnalysisRecord{
		ID:               a.newID(),
		OverallScore:     res.Attractiveness.OverallScore,
		Metrics:          body,
		CreatedAt:        start,
		EngineVersion:    doc.EngineVersion,
		ConfigVersion:    doc.ConfigVersion,
		Confidence:       &confidence,
		ConsistencyScore: &consistency,
	}, nil
}

func (a *Analyzer) document(res *Result) Document {
	doc := Document{
		CalculationSource: metrics.SourceDeterministic,
		EngineVersion:     version.Engine(),
		ConfigVersion:     a.cfg.GetVersion(),
		Attractiveness:    res.Attractiveness,
		Consistency: Consistency{
			Score:        res.Averaged.ConsistencyScore,
			Tier:         res.Averaged.Tier,
			CaptureCount: res.Averaged.CaptureCount,
			Issues:       res.Averaged.Issues,
		},
		Regions:        make(map[string]RegionDocument, len(res.Regions.Calculations)),
		Unavailable:    res.Unavailable,
		RawCoordinates: res.RawCoordinates,
	}
	for _, c := range res.Regions.Ordered() {
		doc.Regions[string(c.Region)] = regionDocument(c)
	}
	if len(res.Regions.Errors) > 0 {
		doc.RegionErrors = make(map[string]string, len(res.Regions.Errors))
		for r, err := range res.Regions.Errors {
			doc.RegionErrors[string(r)] = err.Error()
		}
	}
	return doc
}

func regionDocument(c *regions.Calculation) RegionDocument {
	rd := RegionDocument{
		OverallScore:   c.OverallScore,
		AsymmetryLevel: string(c.AsymmetryLevel),
		Classification: c.Classification,
		Metrics:        make(map[string]float64, len(c.Metrics)),
		SubScores:      make(map[string]float64, len(c.SubScores)),
	}
	for _, m := range c.Metrics {
		rd.Metrics[m.Name] = m.Value
	}
	var symmetry []float64
	for _, s := range c.SubScores {
		rd.SubScores[s.Name] = s.Score
		if strings.HasSuffix(s.Name, "_symmetry") {
			symmetry = append(symmetry, s.Score)
		}
	}
	if len(symmetry) > 0 {
		var sum float64
		for _, v := range symmetry {
			sum += v
		}
		mean := geometry.Round1(sum / float64(len(symmetry)))
		rd.SymmetryScore = &mean
	}
	return rd
}
