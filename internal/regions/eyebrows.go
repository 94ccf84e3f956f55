package regions

import (
	"math"

	"github.com/banshee-data/facescore/internal/geometry"
	"github.com/banshee-data/facescore/internal/landmark"
	"github.com/banshee-data/facescore/internal/units"
)

var eyebrowWeights = map[string]float64{
	"height_symmetry":       0.28,
	"arch_symmetry":         0.24,
	"brow_eye_distance":     0.18,
	"inner_corner_distance": 0.12,
	"angle":                 0.10,
	"thickness":             0.06,
	"length":                0.02,
}

var (
	browHeightLadder = Ladder{
		Steps: []Step{
			{0.02, 10}, {0.05, 9}, {0.08, 8}, {0.12, 7}, {0.16, 6},
			{0.20, 5}, {0.25, 4}, {0.32, 3}, {0.40, 2},
		},
		Floor: 1.5,
	}
	browArchLadder = Ladder{
		Steps: []Step{
			{0.01, 10}, {0.025, 9}, {0.04, 8}, {0.06, 7}, {0.08, 6},
			{0.10, 5}, {0.13, 4}, {0.17, 3},
		},
		Floor: 2,
	}
	browAngleLadder = Ladder{
		Steps: []Step{
			{1, 10}, {2.5, 9}, {4, 8}, {6, 7}, {8, 6}, {11, 5}, {15, 4},
		},
		Floor: 3,
	}
	browThicknessLadder = Ladder{
		Steps: []Step{
			{0.05, 10}, {0.10, 9}, {0.15, 8}, {0.20, 7}, {0.30, 6}, {0.40, 5},
		},
		Floor: 4,
	}
	browLengthLadder = Ladder{
		Steps: []Step{
			{0.03, 10}, {0.06, 9}, {0.10, 8}, {0.15, 7}, {0.20, 6}, {0.30, 5},
		},
		Floor: 4,
	}
	// Peak-to-lid distance over eye width.
	browEyeCurve = Curve{
		{0.20, 3}, {0.35, 7}, {0.50, 10}, {0.70, 10}, {0.90, 6}, {1.20, 3},
	}
	// Gap between inner brow heads over intercanthal distance.
	browGapCurve = Curve{
		{0.50, 3}, {0.75, 8}, {0.90, 10}, {1.10, 10}, {1.30, 7}, {1.60, 3},
	}
)

type browSide struct {
	inner, peak, outer                int
	innerLower, peakLower, outerLower int
	eyeUpper, eyeInner, eyeOuter      int
}

var (
	rightBrow = browSide{
		inner: landmark.RightBrowInner, peak: landmark.RightBrowPeak, outer: landmark.RightBrowOuter,
		innerLower: landmark.RightBrowInnerLower, peakLower: landmark.RightBrowPeakLower, outerLower: landmark.RightBrowOuterLower,
		eyeUpper: landmark.RightEyeUpper, eyeInner: landmark.RightEyeInner, eyeOuter: landmark.RightEyeOuter,
	}
	leftBrow = browSide{
		inner: landmark.LeftBrowInner, peak: landmark.LeftBrowPeak, outer: landmark.LeftBrowOuter,
		innerLower: landmark.LeftBrowInnerLower, peakLower: landmark.LeftBrowPeakLower, outerLower: landmark.LeftBrowOuterLower,
		eyeUpper: landmark.LeftEyeUpper, eyeInner: landmark.LeftEyeInner, eyeOuter: landmark.LeftEyeOuter,
	}
)

func (s browSide) indices() []int {
	return []int{s.inner, s.peak, s.outer, s.innerLower, s.peakLower, s.outerLower, s.eyeUpper, s.eyeInner, s.eyeOuter}
}

type browMeasure struct {
	height      float64 // peak above the upper lid
	innerHeight float64 // inner head above the inner eye corner
	arch        float64 // peak above the inner-outer chord, over the chord
	length      float64
	thickness   float64
	tailAngle   float64 // degrees the tail drops from peak to outer end
	eyeWidth    float64
}

func measureBrow(p map[int]geometry.Point3D, s browSide) browMeasure {
	inner, peak, outer := p[s.inner], p[s.peak], p[s.outer]
	chord := geometry.Distance2D(inner, outer)
	return browMeasure{
		height:      geometry.Distance2D(peak, p[s.eyeUpper]),
		innerHeight: geometry.Distance2D(inner, p[s.eyeInner]),
		arch:        geometry.Ratio(math.Abs(geometry.PerpendicularDistance(peak, inner, outer)), chord),
		length:      geometry.PathLength(inner, peak, outer),
		thickness: (geometry.Distance2D(inner, p[s.innerLower]) +
			geometry.Distance2D(peak, p[s.peakLower]) +
			geometry.Distance2D(outer, p[s.outerLower])) / 3,
		tailAngle: geometry.RadToDeg(math.Atan2(outer.Y-peak.Y, math.Abs(outer.X-peak.X))),
		eyeWidth:  geometry.Distance2D(p[s.eyeInner], p[s.eyeOuter]),
	}
}

// Eyebrows scores brow symmetry, position and shape.
type Eyebrows struct {
	// Weights overrides the default sub-score weights when non-empty.
	Weights map[string]float64
}

func (Eyebrows) Region() Region { return RegionEyebrows }

func (e Eyebrows) Calculate(set *landmark.Set) (*Calculation, error) {
	p, err := resolve(RegionEyebrows, set, indices(rightBrow.indices(), leftBrow.indices())...)
	if err != nil {
		return nil, err
	}
	r, l := measureBrow(p, rightBrow), measureBrow(p, leftBrow)
	eyeWidth := (r.eyeWidth + l.eyeWidth) / 2
	intercanthal := geometry.Distance2D(p[landmark.RightEyeInner], p[landmark.LeftEyeInner])
	innerGap := geometry.Distance2D(p[landmark.RightBrowInner], p[landmark.LeftBrowInner])

	heightAsym := geometry.RelativeDifference(r.height, l.height)
	archDiff := math.Abs(r.arch - l.arch)
	browEye := geometry.Ratio((r.height+l.height)/2, eyeWidth)
	gapRatio := geometry.Ratio(innerGap, intercanthal)
	tailDiff := math.Abs(r.tailAngle - l.tailAngle)
	thicknessAsym := geometry.RelativeDifference(r.thickness, l.thickness)
	lengthAsym := geometry.RelativeDifference(r.length, l.length)
	peakLevel := geometry.Ratio(math.Abs(p[landmark.RightBrowPeak].Y-p[landmark.LeftBrowPeak].Y), eyeWidth)

	c := newCalculation(RegionEyebrows)
	c.metric("right_height", r.height, units.Pixels)
	c.metric("left_height", l.height, units.Pixels)
	c.metric("height_difference", math.Abs(r.height-l.height), units.Pixels)
	c.metric("height_asymmetry", heightAsym, units.Ratio)
	c.metric("peak_level_difference", peakLevel, units.Ratio)
	c.metric("right_inner_height", r.innerHeight, units.Pixels)
	c.metric("left_inner_height", l.innerHeight, units.Pixels)
	c.metric("inner_height_asymmetry", geometry.RelativeDifference(r.innerHeight, l.innerHeight), units.Ratio)
	c.metric("right_arch_ratio", r.arch, units.Ratio)
	c.metric("left_arch_ratio", l.arch, units.Ratio)
	c.metric("arch_difference", archDiff, units.Ratio)
	c.metric("brow_eye_ratio", browEye, units.Ratio)
	c.metric("inner_gap", innerGap, units.Pixels)
	c.metric("inner_gap_ratio", gapRatio, units.Ratio)
	c.metric("right_tail_angle", r.tailAngle, units.Degrees)
	c.metric("left_tail_angle", l.tailAngle, units.Degrees)
	c.metric("tail_angle_difference", tailDiff, units.Degrees)
	c.metric("right_thickness", r.thickness, units.Pixels)
	c.metric("left_thickness", l.thickness, units.Pixels)
	c.metric("thickness_asymmetry", thicknessAsym, units.Ratio)
	c.metric("right_length", r.length, units.Pixels)
	c.metric("left_length", l.length, units.Pixels)
	c.metric("length_asymmetry", lengthAsym, units.Ratio)
	c.metric("length_eye_ratio", geometry.Ratio((r.length+l.length)/2, eyeWidth), units.Ratio)

	c.score("height_symmetry", browHeightLadder.Score(heightAsym))
	c.score("arch_symmetry", browArchLadder.Score(archDiff))
	c.score("brow_eye_distance", browEyeCurve.Score(browEye))
	c.score("inner_corner_distance", browGapCurve.Score(gapRatio))
	c.score("angle", browAngleLadder.Score(tailDiff))
	c.score("thickness", browThicknessLadder.Score(thicknessAsym))
	c.score("length", browLengthLadder.Score(lengthAsym))

	c.Classification = browShape((r.arch + l.arch) / 2)
	return c.finish(weightsOr(e.Weights, eyebrowWeights)), nil
}

func browShape(arch float64) string {
	switch {
	case arch < 0.08:
		return "straight"
	case arch < 0.16:
		return "soft arch"
	case arch < 0.24:
		return "arched"
	default:
		return "high arch"
	}
}
