package regions

import (
	"math"

	"github.com/banshee-data/facescore/internal/geometry"
	"github.com/banshee-data/facescore/internal/landmark"
	"github.com/banshee-data/facescore/internal/units"
)

var noseWeights = map[string]float64{
	"straightness":      0.25,
	"alar_symmetry":     0.20,
	"width_proportion":  0.20,
	"length_proportion": 0.15,
	"nostril_symmetry":  0.10,
	"projection":        0.10,
}

var (
	noseStraightLadder = Ladder{
		Steps: []Step{
			{0.01, 10}, {0.02, 9}, {0.035, 8}, {0.05, 7}, {0.07, 6},
			{0.09, 5}, {0.12, 4}, {0.16, 3},
		},
		Floor: 2,
	}
	// Alar width over intercanthal distance.
	noseWidthCurve = Curve{
		{0.60, 4}, {0.80, 8}, {0.90, 10}, {1.10, 10}, {1.30, 7}, {1.60, 3},
	}
	// Nasion-subnasale over forehead-chin.
	noseLengthCurve = Curve{
		{0.20, 3}, {0.26, 7}, {0.30, 10}, {0.36, 10}, {0.42, 7}, {0.50, 3},
	}
	// Tip depth ahead of the alar base over nose length. Detector depth is
	// relative, so the curve is deliberately flat.
	noseProjectionCurve = Curve{
		{0, 5}, {0.08, 7}, {0.15, 10}, {0.30, 10}, {0.45, 7}, {0.70, 5},
	}
)

var noseIndices = []int{
	landmark.Nasion, landmark.NoseBridge, landmark.NoseTip, landmark.Subnasale,
	landmark.RightAlar, landmark.LeftAlar, landmark.RightNostril, landmark.LeftNostril,
	landmark.RightEyeInner, landmark.LeftEyeInner, landmark.ForeheadTop, landmark.Chin,
}

// Nose scores nose straightness, symmetry and proportion.
type Nose struct {
	Weights map[string]float64
}

func (Nose) Region() Region { return RegionNose }

func (n Nose) Calculate(set *landmark.Set) (*Calculation, error) {
	p, err := resolve(RegionNose, set, indices(noseIndices, midlineIndices)...)
	if err != nil {
		return nil, err
	}
	mid := newMidline(p)
	nasion, tip, sub := p[landmark.Nasion], p[landmark.NoseTip], p[landmark.Subnasale]
	rAlar, lAlar := p[landmark.RightAlar], p[landmark.LeftAlar]
	rNostril, lNostril := p[landmark.RightNostril], p[landmark.LeftNostril]

	length := geometry.Distance2D(nasion, sub)
	faceHeight := geometry.Distance2D(p[landmark.ForeheadTop], p[landmark.Chin])
	alarWidth := geometry.Distance2D(rAlar, lAlar)
	intercanthal := geometry.Distance2D(p[landmark.RightEyeInner], p[landmark.LeftEyeInner])

	tipDev := geometry.Ratio(mid.offset(tip), length)
	subDev := geometry.Ratio(mid.offset(sub), length)
	bridgeDev := geometry.Ratio(mid.offset(p[landmark.NoseBridge]), length)
	straightness := math.Max(tipDev, math.Max(subDev, bridgeDev))

	rAlarDist, lAlarDist := mid.offset(rAlar), mid.offset(lAlar)
	alarAsym := geometry.RelativeDifference(rAlarDist, lAlarDist)
	rNostrilDist, lNostrilDist := mid.offset(rNostril), mid.offset(lNostril)
	nostrilLevel := geometry.Ratio(math.Abs(rNostril.Y-lNostril.Y), alarWidth)
	nostrilAsym := math.Max(geometry.RelativeDifference(rNostrilDist, lNostrilDist), nostrilLevel)

	widthRatio := geometry.Ratio(alarWidth, intercanthal)
	lengthRatio := geometry.Ratio(length, faceHeight)
	alarDepth := (rAlar.Z + lAlar.Z) / 2
	projection := geometry.Ratio(math.Max(0, alarDepth-tip.Z), length)

	c := newCalculation(RegionNose)
	c.metric("nose_length", length, units.Pixels)
	c.metric("length_ratio", lengthRatio, units.Ratio)
	c.metric("alar_width", alarWidth, units.Pixels)
	c.metric("width_ratio", widthRatio, units.Ratio)
	c.metric("width_length_ratio", geometry.Ratio(alarWidth, length), units.Ratio)
	c.metric("tip_deviation", tipDev, units.Ratio)
	c.metric("subnasale_deviation", subDev, units.Ratio)
	c.metric("bridge_deviation", bridgeDev, units.Ratio)
	c.metric("axis_angle", mid.deviationAngle(nasion, tip), units.Degrees)
	c.metric("right_alar_distance", rAlarDist, units.Pixels)
	c.metric("left_alar_distance", lAlarDist, units.Pixels)
	c.metric("alar_asymmetry", alarAsym, units.Ratio)
	c.metric("right_nostril_distance", rNostrilDist, units.Pixels)
	c.metric("left_nostril_distance", lNostrilDist, units.Pixels)
	c.metric("nostril_level_difference", nostrilLevel, units.Ratio)
	c.metric("nostril_asymmetry", nostrilAsym, units.Ratio)
	c.metric("projection_ratio", projection, units.Ratio)

	c.score("straightness", noseStraightLadder.Score(straightness))
	c.score("alar_symmetry", symmetryLadder.Score(alarAsym))
	c.score("width_proportion", noseWidthCurve.Score(widthRatio))
	c.score("length_proportion", noseLengthCurve.Score(lengthRatio))
	c.score("nostril_symmetry", symmetryLadder.Score(nostrilAsym))
	c.score("projection", noseProjectionCurve.Score(projection))

	c.Classification = noseWidth(widthRatio) + ", " + noseAxis(straightness)
	return c.finish(weightsOr(n.Weights, noseWeights)), nil
}

func noseWidth(ratio float64) string {
	switch {
	case ratio > 1.15:
		return "broad"
	case ratio < 0.8:
		return "narrow"
	default:
		return "balanced"
	}
}

func noseAxis(deviation float64) string {
	if deviation > 0.05 {
		return "deviated"
	}
	return "straight"
}
