package regions

import (
	"math"

	"github.com/banshee-data/facescore/internal/geometry"
	"github.com/banshee-data/facescore/internal/landmark"
	"github.com/banshee-data/facescore/internal/units"
)

var lipWeights = map[string]float64{
	"corner_symmetry":        0.25,
	"lip_ratio":              0.20,
	"cupid_bow_symmetry":     0.15,
	"half_width_symmetry":    0.15,
	"mouth_width_proportion": 0.15,
	"philtrum_proportion":    0.10,
}

var (
	// Lower lip height over upper lip height.
	lipRatioCurve = Curve{
		{0.8, 3}, {1.2, 7}, {1.5, 10}, {1.8, 10}, {2.2, 7}, {2.8, 3},
	}
	// Mouth width over alar width.
	mouthWidthCurve = Curve{
		{1.0, 3}, {1.25, 7}, {1.45, 10}, {1.65, 10}, {1.9, 7}, {2.3, 3},
	}
	// Philtrum over stomion-chin.
	philtrumCurve = Curve{
		{0.25, 3}, {0.35, 7}, {0.45, 10}, {0.55, 10}, {0.70, 7}, {0.90, 3},
	}
)

var lipIndices = []int{
	landmark.MouthRight, landmark.MouthLeft,
	landmark.UpperLipTop, landmark.UpperLipInner, landmark.LowerLipInner, landmark.LowerLipBottom,
	landmark.RightCupidPeak, landmark.LeftCupidPeak,
	landmark.Subnasale, landmark.Chin, landmark.RightAlar, landmark.LeftAlar,
}

// Lips scores mouth symmetry and lip proportions.
type Lips struct {
	Weights map[string]float64
}

func (Lips) Region() Region { return RegionLips }

func (l Lips) Calculate(set *landmark.Set) (*Calculation, error) {
	p, err := resolve(RegionLips, set, indices(lipIndices, midlineIndices)...)
	if err != nil {
		return nil, err
	}
	mid := newMidline(p)
	rCorner, lCorner := p[landmark.MouthRight], p[landmark.MouthLeft]
	top, upperInner := p[landmark.UpperLipTop], p[landmark.UpperLipInner]
	lowerInner, bottom := p[landmark.LowerLipInner], p[landmark.LowerLipBottom]
	rPeak, lPeak := p[landmark.RightCupidPeak], p[landmark.LeftCupidPeak]

	width := geometry.Distance2D(rCorner, lCorner)
	upper := geometry.Distance2D(top, upperInner)
	lower := geometry.Distance2D(lowerInner, bottom)
	stomion := geometry.Midpoint(upperInner, lowerInner)
	philtrum := geometry.Distance2D(p[landmark.Subnasale], top)
	lowerFace := geometry.Distance2D(stomion, p[landmark.Chin])
	alarWidth := geometry.Distance2D(p[landmark.RightAlar], p[landmark.LeftAlar])

	cornerDiff := math.Abs(rCorner.Y - lCorner.Y)
	cornerAsym := geometry.Ratio(cornerDiff, width)
	lipRatio := geometry.Ratio(lower, upper)
	rHalf, lHalf := mid.offset(rCorner), mid.offset(lCorner)
	halfAsym := geometry.RelativeDifference(rHalf, lHalf)
	rCupid, lCupid := geometry.Distance2D(rPeak, top), geometry.Distance2D(lPeak, top)
	cupidLevel := geometry.Ratio(math.Abs(rPeak.Y-lPeak.Y), upper)
	cupidAsym := math.Max(geometry.RelativeDifference(rCupid, lCupid), cupidLevel)
	mouthNose := geometry.Ratio(width, alarWidth)
	philtrumRatio := geometry.Ratio(philtrum, lowerFace)
	fullness := geometry.Ratio(upper+lower, width)

	c := newCalculation(RegionLips)
	c.metric("mouth_width", width, units.Pixels)
	c.metric("corner_height_difference", cornerDiff, units.Pixels)
	c.metric("corner_asymmetry", cornerAsym, units.Ratio)
	c.metric("corner_tilt", geometry.Angle(rCorner, lCorner), units.Degrees)
	c.metric("upper_lip_height", upper, units.Pixels)
	c.metric("lower_lip_height", lower, units.Pixels)
	c.metric("lip_ratio", lipRatio, units.Ratio)
	c.metric("lip_fullness", fullness, units.Ratio)
	c.metric("right_half_width", rHalf, units.Pixels)
	c.metric("left_half_width", lHalf, units.Pixels)
	c.metric("half_width_asymmetry", halfAsym, units.Ratio)
	c.metric("right_cupid_distance", rCupid, units.Pixels)
	c.metric("left_cupid_distance", lCupid, units.Pixels)
	c.metric("cupid_height_difference", cupidLevel, units.Ratio)
	c.metric("cupid_asymmetry", cupidAsym, units.Ratio)
	c.metric("cupid_bow_depth", geometry.Ratio((rPeak.Y+lPeak.Y)/2-top.Y, upper), units.Ratio)
	c.metric("stomion_deviation", geometry.Ratio(mid.offset(stomion), width), units.Ratio)
	c.metric("philtrum_length", philtrum, units.Pixels)
	c.metric("philtrum_ratio", philtrumRatio, units.Ratio)
	c.metric("mouth_nose_ratio", mouthNose, units.Ratio)

	c.score("corner_symmetry", offsetLadder.Score(cornerAsym))
	c.score("lip_ratio", lipRatioCurve.Score(lipRatio))
	c.score("cupid_bow_symmetry", symmetryLadder.Score(cupidAsym))
	c.score("half_width_symmetry", symmetryLadder.Score(halfAsym))
	c.score("mouth_width_proportion", mouthWidthCurve.Score(mouthNose))
	c.score("philtrum_proportion", philtrumCurve.Score(philtrumRatio))

	c.Classification = lipFullness(fullness)
	return c.finish(weightsOr(l.Weights, lipWeights)), nil
}

func lipFullness(ratio float64) string {
	switch {
	case ratio > 0.4:
		return "full"
	case ratio < 0.25:
		return "thin"
	default:
		return "medium"
	}
}
