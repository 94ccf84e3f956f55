package regions

import (
	"math"

	"github.com/banshee-data/facescore/internal/geometry"
	"github.com/banshee-data/facescore/internal/landmark"
	"github.com/banshee-data/facescore/internal/units"
)

var eyeWeights = map[string]float64{
	"size_symmetry":           0.25,
	"shape_symmetry":          0.20,
	"canthal_tilt_symmetry":   0.15,
	"intercanthal_proportion": 0.15,
	"vertical_alignment":      0.15,
	"eye_face_proportion":     0.10,
}

var (
	eyeShapeLadder = Ladder{
		Steps: []Step{
			{0.04, 10}, {0.08, 9}, {0.12, 8}, {0.18, 7}, {0.25, 6},
			{0.33, 5}, {0.42, 4},
		},
		Floor: 3,
	}
	eyeLevelLadder = Ladder{
		Steps: []Step{
			{0.02, 10}, {0.04, 9}, {0.07, 8}, {0.10, 7}, {0.14, 6},
			{0.19, 5}, {0.25, 4},
		},
		Floor: 3,
	}
	// Intercanthal distance over mean eye width; one eye width apart is ideal.
	intercanthalCurve = Curve{
		{0.60, 3}, {0.80, 7}, {0.95, 10}, {1.10, 10}, {1.30, 7}, {1.60, 3},
	}
	// Eye width over face width; the face is about five eyes wide.
	eyeFaceCurve = Curve{
		{0.12, 3}, {0.16, 7}, {0.19, 10}, {0.23, 10}, {0.27, 7}, {0.32, 3},
	}
)

type eyeSide struct {
	outer, inner, upper, lower int
}

var (
	rightEye = eyeSide{landmark.RightEyeOuter, landmark.RightEyeInner, landmark.RightEyeUpper, landmark.RightEyeLower}
	leftEye  = eyeSide{landmark.LeftEyeOuter, landmark.LeftEyeInner, landmark.LeftEyeUpper, landmark.LeftEyeLower}
)

func (s eyeSide) indices() []int { return []int{s.outer, s.inner, s.upper, s.lower} }

type eyeMeasure struct {
	width, height, aspect, area float64
	// tilt is the canthal tilt in degrees, positive when the outer
	// corner sits higher than the inner one.
	tilt   float64
	center geometry.Point3D
}

func measureEye(p map[int]geometry.Point3D, s eyeSide) eyeMeasure {
	outer, inner := p[s.outer], p[s.inner]
	w := geometry.Distance2D(outer, inner)
	h := geometry.Distance2D(p[s.upper], p[s.lower])
	return eyeMeasure{
		width:  w,
		height: h,
		aspect: geometry.Ratio(h, w),
		area:   math.Pi / 4 * w * h,
		tilt:   geometry.RadToDeg(math.Atan2(inner.Y-outer.Y, math.Abs(outer.X-inner.X))),
		center: geometry.Center(outer, inner, p[s.upper], p[s.lower]),
	}
}

// Eyes scores eye size, shape, tilt and spacing.
type Eyes struct {
	Weights map[string]float64
}

func (Eyes) Region() Region { return RegionEyes }

func (e Eyes) Calculate(set *landmark.Set) (*Calculation, error) {
	p, err := resolve(RegionEyes, set,
		indices(rightEye.indices(), leftEye.indices(), []int{landmark.RightCheek, landmark.LeftCheek})...)
	if err != nil {
		return nil, err
	}
	r, l := measureEye(p, rightEye), measureEye(p, leftEye)
	meanWidth := (r.width + l.width) / 2
	faceWidth := geometry.Distance2D(p[landmark.RightCheek], p[landmark.LeftCheek])
	intercanthal := geometry.Distance2D(p[landmark.RightEyeInner], p[landmark.LeftEyeInner])

	sizeAsym := geometry.RelativeDifference(r.area, l.area)
	shapeAsym := geometry.RelativeDifference(r.aspect, l.aspect)
	tiltDiff := math.Abs(r.tilt - l.tilt)
	interRatio := geometry.Ratio(intercanthal, meanWidth)
	levelOffset := geometry.Ratio(math.Abs(r.center.Y-l.center.Y), meanWidth)
	eyeFace := geometry.Ratio(meanWidth, faceWidth)

	c := newCalculation(RegionEyes)
	c.metric("right_width", r.width, units.Pixels)
	c.metric("left_width", l.width, units.Pixels)
	c.metric("right_height", r.height, units.Pixels)
	c.metric("left_height", l.height, units.Pixels)
	c.metric("right_aspect", r.aspect, units.Ratio)
	c.metric("left_aspect", l.aspect, units.Ratio)
	c.metric("right_area", r.area, units.Pixels)
	c.metric("left_area", l.area, units.Pixels)
	c.metric("size_asymmetry", sizeAsym, units.Ratio)
	c.metric("width_asymmetry", geometry.RelativeDifference(r.width, l.width), units.Ratio)
	c.metric("height_asymmetry", geometry.RelativeDifference(r.height, l.height), units.Ratio)
	c.metric("shape_asymmetry", shapeAsym, units.Ratio)
	c.metric("right_canthal_tilt", r.tilt, units.Degrees)
	c.metric("left_canthal_tilt", l.tilt, units.Degrees)
	c.metric("mean_canthal_tilt", (r.tilt+l.tilt)/2, units.Degrees)
	c.metric("canthal_tilt_difference", tiltDiff, units.Degrees)
	c.metric("intercanthal_distance", intercanthal, units.Pixels)
	c.metric("intercanthal_ratio", interRatio, units.Ratio)
	c.metric("outer_canthal_distance", geometry.Distance2D(p[landmark.RightEyeOuter], p[landmark.LeftEyeOuter]), units.Pixels)
	c.metric("vertical_offset_ratio", levelOffset, units.Ratio)
	c.metric("eye_face_ratio", eyeFace, units.Ratio)
	c.metric("eye_face_percent", geometry.PercentOf(meanWidth, faceWidth), units.Percent)

	c.score("size_symmetry", symmetryLadder.Score(sizeAsym))
	c.score("shape_symmetry", eyeShapeLadder.Score(shapeAsym))
	c.score("canthal_tilt_symmetry", angleLadder.Score(tiltDiff))
	c.score("intercanthal_proportion", intercanthalCurve.Score(interRatio))
	c.score("vertical_alignment", eyeLevelLadder.Score(levelOffset))
	c.score("eye_face_proportion", eyeFaceCurve.Score(eyeFace))

	c.Classification = eyeTilt((r.tilt+l.tilt)/2) + ", " + eyeSpacing(interRatio)
	return c.finish(weightsOr(e.Weights, eyeWeights)), nil
}

func eyeTilt(deg float64) string {
	switch {
	case deg > 4:
		return "positive tilt"
	case deg < -2:
		return "negative tilt"
	default:
		return "neutral tilt"
	}
}

func eyeSpacing(ratio float64) string {
	switch {
	case ratio > 1.15:
		return "wide-set"
	case ratio < 0.85:
		return "close-set"
	default:
		return "balanced spacing"
	}
}
