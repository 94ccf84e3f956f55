package capture

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/banshee-data/facescore/internal/config"
	"github.com/banshee-data/facescore/internal/geometry"
	"github.com/banshee-data/facescore/internal/landmark"
)

// QualityTier grades the agreement between captures.
type QualityTier string

const (
	// QualityExcellent: consistency >= 85.
	QualityExcellent QualityTier = "excellent"
	// QualityGood: consistency >= 65.
	QualityGood QualityTier = "good"
	// QualityWarning: consistency >= 40; the user should consider retaking a photo.
	QualityWarning QualityTier = "warning"
	// QualityPoor: consistency < 40.
	QualityPoor QualityTier = "poor"
)

// MaxConsistency is the score given to a single capture and to identical
// captures.
const MaxConsistency = 100.0

// Options control averaging and consistency grading.
type Options struct {
	MaxCaptures int
	// SpreadScale is the spread at which consistency decays to 100/e.
	SpreadScale float64
	// Tier lower bounds, descending.
	ExcellentAt float64
	GoodAt      float64
	WarningAt   float64
	// Relevant restricts variance to these indices. Nil means
	// landmark.RelevantIndices().
	Relevant []int
}

// DefaultOptions returns the product defaults.
func DefaultOptions() Options {
	return OptionsFromConfig(config.EmptyScoringConfig())
}

// OptionsFromConfig reads the aggregator settings from cfg.
func OptionsFromConfig(cfg *config.ScoringConfig) Options {
	return Options{
		MaxCaptures: cfg.GetMaxCaptures(),
		SpreadScale: cfg.GetConsistencySpreadScale(),
		ExcellentAt: cfg.GetConsistencyExcellent(),
		GoodAt:      cfg.GetConsistencyGood(),
		WarningAt:   cfg.GetConsistencyWarning(),
	}
}

// LandmarkVariance is the per-axis population variance of one landmark
// across captures.
type LandmarkVariance struct {
	Index int     `json:"index"`
	VarX  float64 `json:"var_x"`
	VarY  float64 `json:"var_y"`
	VarZ  float64 `json:"var_z"`
	// Deviation is sqrt(VarX + VarY), the RMS in-plane distance from the mean.
	Deviation float64 `json:"deviation"`
}

// VarianceDetails summarises disagreement over the relevant landmarks.
// Depth variance is reported but does not affect the score.
type VarianceDetails struct {
	PerLandmark    []LandmarkVariance `json:"per_landmark"`
	PointsCompared int                `json:"points_compared"`
	Spread         float64            `json:"spread"`
	MeanDeviation  float64            `json:"mean_deviation"`
	MaxDeviation   float64            `json:"max_deviation"`
	WorstIndex     int                `json:"worst_index"`
	MeanVarZ       float64            `json:"mean_var_z"`
}

// AveragedResult is the fused landmark set of one session.
type AveragedResult struct {
	Set              *landmark.Set
	Variance         *VarianceDetails
	ConsistencyScore float64
	Tier             QualityTier
	CaptureCount     int
	Issues           []string
}

// Average computes the per-index mean of captures and grades their
// consistency. Only indices present in every capture are kept. A single
// capture is returned unchanged with maximal consistency and no variance.
func Average(captures []*landmark.Set, opts Options) (*AveragedResult, error) {
	if len(captures) == 0 {
		return nil, &EmptyInputError{}
	}
	if opts.MaxCaptures > 0 && len(captures) > opts.MaxCaptures {
		return nil, &TooManyCapturesError{Count: len(captures), Max: opts.MaxCaptures}
	}
	for i, c := range captures {
		if c == nil || c.Len() == 0 {
			return nil, fmt.Errorf("capture %d is empty", i)
		}
	}

	if len(captures) == 1 {
		return &AveragedResult{
			Set:              captures[0].Map(func(p geometry.Point3D) geometry.Point3D { return p }),
			ConsistencyScore: MaxConsistency,
			Tier:             QualityExcellent,
			CaptureCount:     1,
		}, nil
	}

	common := commonIndices(captures)
	if len(common) == 0 {
		return nil, ErrNoCommonLandmarks
	}

	n := len(captures)
	xs := make([]float64, n)
	ys := make([]float64, n)
	zs := make([]float64, n)
	collect := func(idx int) {
		for i, c := range captures {
			p, _ := c.Get(idx)
			xs[i], ys[i], zs[i] = p.X, p.Y, p.Z
		}
	}

	mean := make([]geometry.Point3D, 0, len(common))
	for _, idx := range common {
		collect(idx)
		mean = append(mean, geometry.Point3D{
			X:     stat.Mean(xs, nil),
			Y:     stat.Mean(ys, nil),
			Z:     stat.Mean(zs, nil),
			Index: idx,
		})
	}
	set, err := landmark.NewSet(mean)
	if err != nil {
		return nil, fmt.Errorf("build averaged set: %w", err)
	}

	relevant := opts.Relevant
	if relevant == nil {
		relevant = landmark.RelevantIndices()
	}
	compared := intersect(relevant, set)
	var issues []string
	if len(compared) == 0 {
		compared = common
		issues = append(issues, "no relevant landmarks shared by all captures; variance uses every shared landmark")
	}

	details := &VarianceDetails{
		PerLandmark:    make([]LandmarkVariance, 0, len(compared)),
		PointsCompared: len(compared),
		WorstIndex:     geometry.NoIndex,
	}
	var sumPlanar, sumDev, sumZ float64
	for _, idx := range compared {
		collect(idx)
		lv := LandmarkVariance{
			Index: idx,
			VarX:  stat.PopVariance(xs, nil),
			VarY:  stat.PopVariance(ys, nil),
			VarZ:  stat.PopVariance(zs, nil),
		}
		lv.Deviation = math.Sqrt(lv.VarX + lv.VarY)
		details.PerLandmark = append(details.PerLandmark, lv)

		sumPlanar += lv.VarX + lv.VarY
		sumDev += lv.Deviation
		sumZ += lv.VarZ
		if lv.Deviation > details.MaxDeviation || details.WorstIndex == geometry.NoIndex {
			details.MaxDeviation = lv.Deviation
			details.WorstIndex = idx
		}
	}
	k := float64(len(compared))
	details.Spread = math.Sqrt(sumPlanar / k)
	details.MeanDeviation = sumDev / k
	details.MeanVarZ = sumZ / k

	score := ConsistencyScore(details.Spread, opts.SpreadScale)
	tier := TierFor(score, opts)
	switch tier {
	case QualityWarning:
		issues = append(issues, fmt.Sprintf("captures disagree noticeably around %s; consider retaking one photo", landmark.Name(details.WorstIndex)))
	case QualityPoor:
		issues = append(issues, fmt.Sprintf("captures disagree strongly around %s; retake the photos", landmark.Name(details.WorstIndex)))
	}

	return &AveragedResult{
		Set:              set,
		Variance:         details,
		ConsistencyScore: score,
		Tier:             tier,
		CaptureCount:     n,
		Issues:           issues,
	}, nil
}

// ConsistencyScore maps spread to [0, 100]: 100 at zero spread, strictly
// decreasing, rounded to one decimal.
func ConsistencyScore(spread, scale float64) float64 {
	if spread <= 0 {
		return MaxConsistency
	}
	if scale <= 0 {
		return 0
	}
	return geometry.Round1(MaxConsistency * math.Exp(-spread/scale))
}

// TierFor bands a consistency score.
func TierFor(score float64, opts Options) QualityTier {
	switch {
	case score >= opts.ExcellentAt:
		return QualityExcellent
	case score >= opts.GoodAt:
		return QualityGood
	case score >= opts.WarningAt:
		return QualityWarning
	default:
		return QualityPoor
	}
}

func commonIndices(captures []*landmark.Set) []int {
	var out []int
	for _, idx := range captures[0].Indices() {
		shared := true
		for _, c := range captures[1:] {
			if !c.Has(idx) {
				shared = false
				break
			}
		}
		if shared {
			out = append(out, idx)
		}
	}
	return out
}

func intersect(indices []int, set *landmark.Set) []int {
	out := make([]int, 0, len(indices))
	for _, idx := range indices {
		if set.Has(idx) {
			out = append(out, idx)
		}
	}
	sort.Ints(out)
	return out
}
