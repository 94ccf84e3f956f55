package analysis

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/banshee-data/facescore/internal/attractiveness"
	"github.com/banshee-data/facescore/internal/capture"
	"github.com/banshee-data/facescore/internal/config"
	"github.com/banshee-data/facescore/internal/db"
	"github.com/banshee-data/facescore/internal/landmark"
	"github.com/banshee-data/facescore/internal/monitoring"
	"github.com/banshee-data/facescore/internal/normalize"
	"github.com/banshee-data/facescore/internal/regions"
	"github.com/banshee-data/facescore/internal/timeutil"
)

// Options are per-analysis inputs.
type Options struct {
	Gender attractiveness.Gender
}

// Result is everything one analysis produced.
type Result struct {
	Record         *db.AnalysisRecord
	Attractiveness attractiveness.Result
	Averaged       *capture.AveragedResult
	Regions        *regions.Outcome
	Unavailable    []regions.Unavailable
	Transforms     []normalize.TransformParams
	// RawCoordinates is true when normalization was skipped for lack of
	// reference landmarks.
	RawCoordinates bool
}

// Analyzer holds the configured pipeline stages. It is safe for
// concurrent use.
type Analyzer struct {
	cfg         *config.ScoringConfig
	norm        normalize.Options
	capture     capture.Options
	scorer      *attractiveness.Scorer
	calculators []regions.Calculator
	unavailable []regions.Unavailable
	clock       timeutil.Clock
	newID       func() string
}

// New builds an analyzer from cfg. A nil cfg uses the built-in defaults.
func New(cfg *config.ScoringConfig) *Analyzer {
	if cfg == nil {
		cfg = config.EmptyScoringConfig()
	}
	calcs, unavailable := regions.CalculatorsFromConfig(cfg)
	return &Analyzer{
		cfg:         cfg,
		norm:        normalize.OptionsFromConfig(cfg),
		capture:     capture.OptionsFromConfig(cfg),
		scorer:      attractiveness.NewScorer(attractiveness.ParamsFromConfig(cfg)),
		calculators: calcs,
		unavailable: unavailable,
		clock:       timeutil.RealClock{},
		newID:       func() string { return uuid.New().String() },
	}
}

// Analyze scores one session of captures.
func (a *Analyzer) Analyze(ctx context.Context, captures []*landmark.Set, opts Options) (*Result, error) {
	if len(captures) == 0 {
		return nil, &capture.EmptyInputError{}
	}
	start := a.clock.Now()

	sets, transforms, raw, err := a.normalizeAll(captures)
	if err != nil {
		return nil, err
	}

	averaged, err := capture.Average(sets, a.capture)
	if err != nil {
		return nil, fmt.Errorf("average captures: %w", err)
	}
	for _, issue := range averaged.Issues {
		monitoring.Warnf("analysis: %s", issue)
	}

	outcome, err := regions.RunAll(ctx, averaged.Set, a.calculators)
	if err != nil {
		return nil, fmt.Errorf("region calculators: %w", err)
	}
	for _, r := range regions.Order {
		if err, ok := outcome.Errors[r]; ok {
			monitoring.Warnf("analysis: region %s unavailable: %v", r, err)
		}
	}

	score := a.scorer.Score(averaged.Set, opts.Gender, regionalScores(outcome))
	// Raw coordinates cost one tier unless the scorer already charged it for
	// skipping tilt correction.
	if raw && !score.Fallback {
		if !score.TiltSkipped {
			score.ConfidenceTier = score.ConfidenceTier.Downgrade()
			score.Confidence = a.scorer.Params().Confidence[score.ConfidenceTier]
		}
		score.Notes = append(score.Notes, "scored on raw coordinates")
	}

	res := &Result{
		Attractiveness: score,
		Averaged:       averaged,
		Regions:        outcome,
		Unavailable:    a.unavailable,
		Transforms:     transforms,
		RawCoordinates: raw,
	}
	res.Record, err = a.record(res, start)
	if err != nil {
		return nil, err
	}
	monitoring.Logf("analysis %s: score %.1f (%s), confidence %s, %d capture(s), consistency %.1f in %v",
		res.Record.ID, score.OverallScore, score.ScoreLabel, score.ConfidenceTier,
		averaged.CaptureCount, averaged.ConsistencyScore, a.clock.Since(start))
	return res, nil
}

// normalizeAll normalizes every capture. If any capture lacks a reference
// landmark, all captures are used raw: averaging mixed frames would be
// meaningless.
func (a *Analyzer) normalizeAll(captures []*landmark.Set) ([]*landmark.Set, []normalize.TransformParams, bool, error) {
	sets := make([]*landmark.Set, len(captures))
	transforms := make([]normalize.TransformParams, len(captures))
	for i, c := range captures {
		norm, err := normalize.Normalize(c, a.norm)
		if err != nil {
			var missing *normalize.MissingReferenceLandmarkError
			if errors.As(err, &missing) {
				monitoring.Warnf("analysis: capture %d: %v; falling back to raw coordinates", i, err)
				return captures, nil, true, nil
			}
			return nil, nil, false, fmt.Errorf("normalize capture %d: %w", i, err)
		}
		sets[i] = norm.Set
		transforms[i] = norm.Params
	}
	return sets, transforms, false, nil
}

// regionalScores returns nil when no region succeeded so the scorer uses
// the general blend alone.
func regionalScores(o *regions.Outcome) map[regions.Region]float64 {
	scores := o.Scores()
	// Face shape is informational and never part of the regional blend.
	delete(scores, regions.RegionFaceShape)
	if len(scores) == 0 {
		return nil
	}
	return scores
}
