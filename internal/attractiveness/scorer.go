package attractiveness

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/banshee-data/facescore/internal/geometry"
	"github.com/banshee-data/facescore/internal/landmark"
	"github.com/banshee-data/facescore/internal/normalize"
	"github.com/banshee-data/facescore/internal/regions"
)

// Gender selects the optional harmony adjustment.
type Gender string

const (
	GenderUnspecified Gender = ""
	GenderFemale      Gender = "female"
	GenderMale        Gender = "male"
)

// ParseGender accepts "f", "female", "m", "male" in any case; anything
// else, including "", is unspecified.
func ParseGender(s string) Gender {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "f", "female":
		return GenderFemale
	case "m", "male":
		return GenderMale
	default:
		return GenderUnspecified
	}
}

// ConfidenceTier grades input completeness.
type ConfidenceTier string

const (
	ConfidenceHigh    ConfidenceTier = "HIGH"
	ConfidenceMedium  ConfidenceTier = "MEDIUM"
	ConfidenceLow     ConfidenceTier = "LOW"
	ConfidenceVeryLow ConfidenceTier = "VERY_LOW"
)

var tierOrder = []ConfidenceTier{ConfidenceHigh, ConfidenceMedium, ConfidenceLow, ConfidenceVeryLow}

// Downgrade returns the next lower tier.
func (t ConfidenceTier) Downgrade() ConfidenceTier {
	for i, o := range tierOrder {
		if o == t && i+1 < len(tierOrder) {
			return tierOrder[i+1]
		}
	}
	return ConfidenceVeryLow
}

// Fallback values for sets below the minimum landmark count.
const (
	FallbackScore = 5.0
	FallbackLabel = "Insufficient Data"
)

// InsufficientLandmarksError reports a set too sparse to score.
type InsufficientLandmarksError struct {
	Have int
	Need int
}

func (e *InsufficientLandmarksError) Error() string {
	return fmt.Sprintf("insufficient landmarks: have %d, need %d", e.Have, e.Need)
}

// Breakdown holds the component scores, each 0-10 and rounded to one
// decimal. Regional is nil when no regional scores were supplied.
type Breakdown struct {
	Symmetry    float64  `json:"symmetry"`
	Proportions float64  `json:"proportions"`
	Harmony     float64  `json:"harmony"`
	Regional    *float64 `json:"regional,omitempty"`
}

// Result is the scorer output.
type Result struct {
	OverallScore      float64        `json:"overall_score"`
	ScoreLabel        string         `json:"score_label"`
	Confidence        float64        `json:"confidence"`
	ConfidenceTier    ConfidenceTier `json:"confidence_tier"`
	Breakdown         Breakdown      `json:"breakdown"`
	FlawCount         int            `json:"flaw_count"`
	PenaltyMultiplier float64        `json:"penalty_multiplier"`
	MissingCritical   []int          `json:"missing_critical,omitempty"`
	Fallback          bool           `json:"fallback,omitempty"`
	TiltSkipped       bool           `json:"tilt_skipped,omitempty"`
	Notes             []string       `json:"notes,omitempty"`
}

// Scorer computes attractiveness scores. It is stateless apart from its
// parameters and safe for concurrent use.
type Scorer struct {
	p Params
}

// NewScorer returns a scorer using p.
func NewScorer(p Params) *Scorer {
	return &Scorer{p: p}
}

// Params returns the scorer's parameters.
func (s *Scorer) Params() Params {
	return s.p
}

// Check reports whether set has enough landmarks to score.
func (s *Scorer) Check(set *landmark.Set) error {
	if set.Len() < s.p.MinLandmarks {
		return &InsufficientLandmarksError{Have: set.Len(), Need: s.p.MinLandmarks}
	}
	return nil
}

// Score computes the attractiveness result. regional may be nil.
func (s *Scorer) Score(set *landmark.Set, gender Gender, regional map[regions.Region]float64) Result {
	if err := s.Check(set); err != nil {
		return Result{
			OverallScore:      FallbackScore,
			ScoreLabel:        FallbackLabel,
			Confidence:        0,
			ConfidenceTier:    ConfidenceVeryLow,
			PenaltyMultiplier: 1,
			Fallback:          true,
			Notes:             []string{err.Error()},
		}
	}

	missing := set.Missing(s.p.CriticalLandmarks)
	tier := s.tierFor(len(missing))
	var notes []string

	work := set
	tiltSkipped := false
	if derolled, _, err := normalize.Deroll(set); err == nil {
		work = derolled
	} else {
		tier = tier.Downgrade()
		tiltSkipped = true
		notes = append(notes, "tilt correction skipped: "+err.Error())
	}

	f := measure(work)
	symmetry := s.symmetry(f)
	proportions := s.proportions(f)
	harmony := s.harmony(f, gender)
	general := weighted(map[string]float64{
		"symmetry":    symmetry,
		"proportions": proportions,
		"harmony":     harmony,
	}, s.p.GeneralWeights, neutralScore)

	res := Result{
		ConfidenceTier:  tier,
		Confidence:      s.p.Confidence[tier],
		MissingCritical: missing,
		TiltSkipped:     tiltSkipped,
		Notes:           notes,
		Breakdown: Breakdown{
			Symmetry:    geometry.Round1(symmetry),
			Proportions: geometry.Round1(proportions),
			Harmony:     geometry.Round1(harmony),
		},
	}

	blended := general
	res.PenaltyMultiplier = 1
	if len(regional) > 0 {
		avg := s.regionalAverage(regional)
		r := geometry.Round1(avg)
		res.Breakdown.Regional = &r
		blended = s.p.RegionalContribution*avg + (1-s.p.RegionalContribution)*general
		res.FlawCount = s.flawCount(regional)
		res.PenaltyMultiplier = s.PenaltyMultiplier(regional)
	}

	score := blended*res.PenaltyMultiplier*s.p.CalibrationMultiplier + s.p.CalibrationOffset
	res.OverallScore = geometry.Round1(geometry.Clamp(score, 0, 10))
	res.ScoreLabel = s.Label(res.OverallScore)
	return res
}

// PenaltyMultiplier returns max(MinPenaltyMultiplier, 1 - k*PenaltyPerFlaw)
// where k counts regional scores below FlawThreshold.
func (s *Scorer) PenaltyMultiplier(regional map[regions.Region]float64) float64 {
	k := s.flawCount(regional)
	if k == 0 {
		return 1
	}
	return math.Max(s.p.MinPenaltyMultiplier, 1-float64(k)*s.p.PenaltyPerFlaw)
}

// Label returns the display label of a score.
func (s *Scorer) Label(score float64) string {
	for _, b := range s.p.Labels {
		if score >= b.Min {
			return b.Label
		}
	}
	if n := len(s.p.Labels); n > 0 {
		return s.p.Labels[n-1].Label
	}
	return ""
}

func (s *Scorer) flawCount(regional map[regions.Region]float64) int {
	k := 0
	for _, v := range regional {
		if v < s.p.FlawThreshold {
			k++
		}
	}
	return k
}

func (s *Scorer) tierFor(missing int) ConfidenceTier {
	switch {
	case missing == 0:
		return ConfidenceHigh
	case missing <= s.p.MediumMaxMissing:
		return ConfidenceMedium
	case missing <= s.p.LowMaxMissing:
		return ConfidenceLow
	default:
		return ConfidenceVeryLow
	}
}

// regionalAverage weights the supplied regions, renormalizing over those
// present. Regions without a weight are ignored; if none carry weight the
// plain mean is used.
func (s *Scorer) regionalAverage(regional map[regions.Region]float64) float64 {
	scores := make(map[string]float64, len(regional))
	for r, v := range regional {
		scores[string(r)] = v
	}
	mean := weighted(scores, uniform(scores), 0)
	return weighted(scores, s.p.RegionalWeights, mean)
}

const neutralScore = 5.0

// weighted is the weight-normalized mean of the scores that have a
// weight. With no weighted score present it returns fallback.
func weighted(scores, weights map[string]float64, fallback float64) float64 {
	names := make([]string, 0, len(scores))
	for name := range scores {
		names = append(names, name)
	}
	// Fixed summation order keeps results bit-identical across runs.
	sort.Strings(names)
	var sum, total float64
	for _, name := range names {
		w := weights[name]
		sum += scores[name] * w
		total += w
	}
	if total == 0 {
		return fallback
	}
	return sum / total
}

func uniform(scores map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(scores))
	for name := range scores {
		out[name] = 1
	}
	return out
}

// toleranceScore is 10 at zero deviation falling linearly to 0 at tol.
func toleranceScore(deviation, tol float64) float64 {
	if tol <= 0 {
		return 0
	}
	return 10 * math.Max(0, 1-math.Abs(deviation)/tol)
}
