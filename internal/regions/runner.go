package regions

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/banshee-data/facescore/internal/config"
	"github.com/banshee-data/facescore/internal/landmark"
)

// Unavailable describes a region that was not calculated on purpose.
type Unavailable struct {
	Region Region `json:"region"`
	Reason string `json:"reason"`
}

// DefaultCalculators returns the five standard calculators with their
// built-in weights. FaceShape is not included.
func DefaultCalculators() []Calculator {
	return []Calculator{Eyebrows{}, Eyes{}, Nose{}, Lips{}, Jawline{}}
}

// CalculatorsFromConfig returns the calculators enabled by cfg with its
// weight overrides applied, and the regions left out.
func CalculatorsFromConfig(cfg *config.ScoringConfig) ([]Calculator, []Unavailable) {
	calcs := []Calculator{
		Eyebrows{Weights: cfg.GetRegionWeights(string(RegionEyebrows))},
		Eyes{Weights: cfg.GetRegionWeights(string(RegionEyes))},
		Nose{Weights: cfg.GetRegionWeights(string(RegionNose))},
		Lips{Weights: cfg.GetRegionWeights(string(RegionLips))},
		Jawline{Weights: cfg.GetRegionWeights(string(RegionJawline))},
	}
	if cfg.GetEnableFaceShape() {
		return append(calcs, FaceShape{Weights: cfg.GetRegionWeights(string(RegionFaceShape))}), nil
	}
	return calcs, []Unavailable{{Region: RegionFaceShape, Reason: FaceShapeUnavailableReason}}
}

// DefaultWeights returns a copy of a region's built-in sub-score weights.
func DefaultWeights(region Region) map[string]float64 {
	switch region {
	case RegionEyebrows:
		return copyWeights(eyebrowWeights)
	case RegionEyes:
		return copyWeights(eyeWeights)
	case RegionNose:
		return copyWeights(noseWeights)
	case RegionLips:
		return copyWeights(lipWeights)
	case RegionJawline:
		return copyWeights(jawWeights)
	case RegionFaceShape:
		return copyWeights(faceShapeWeights)
	}
	return nil
}

// Outcome collects the results of RunAll. A region appears in exactly one
// of Calculations and Errors.
type Outcome struct {
	Calculations map[Region]*Calculation
	Errors       map[Region]error
}

// Ordered returns the successful calculations in canonical region order.
func (o *Outcome) Ordered() []*Calculation {
	var out []*Calculation
	for _, r := range Order {
		if c, ok := o.Calculations[r]; ok {
			out = append(out, c)
		}
	}
	return out
}

// Scores returns each successful region's overall score.
func (o *Outcome) Scores() map[Region]float64 {
	out := make(map[Region]float64, len(o.Calculations))
	for r, c := range o.Calculations {
		out[r] = c.OverallScore
	}
	return out
}

// maxParallel bounds concurrent calculators.
const maxParallel = 8

// RunAll runs every calculator against set concurrently. A calculator's
// own failure is recorded in Outcome.Errors; only context cancellation
// fails the whole run.
func RunAll(ctx context.Context, set *landmark.Set, calculators []Calculator) (*Outcome, error) {
	results := make([]*Calculation, len(calculators))
	errs := make([]error, len(calculators))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallel)
	for i, calc := range calculators {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i], errs[i] = calc.Calculate(set)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &Outcome{
		Calculations: make(map[Region]*Calculation, len(calculators)),
		Errors:       make(map[Region]error),
	}
	for i, calc := range calculators {
		if errs[i] != nil {
			out.Errors[calc.Region()] = errs[i]
			continue
		}
		out.Calculations[calc.Region()] = results[i]
	}
	return out, nil
}
