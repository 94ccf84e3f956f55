package regions

import (
	"math"

	"github.com/banshee-data/facescore/internal/geometry"
	"github.com/banshee-data/facescore/internal/landmark"
	"github.com/banshee-data/facescore/internal/units"
)

var jawWeights = map[string]float64{
	"contour_symmetry":     0.25,
	"gonial_symmetry":      0.20,
	"chin_alignment":       0.20,
	"jaw_width_proportion": 0.15,
	"gonial_definition":    0.10,
	"jaw_length_symmetry":  0.10,
}

var (
	gonialLadder = Ladder{
		Steps: []Step{
			{1.5, 10}, {3, 9}, {5, 8}, {7, 7}, {9, 6}, {12, 5}, {15, 4},
		},
		Floor: 3,
	}
	// Bigonial width over face width.
	jawWidthCurve = Curve{
		{0.60, 4}, {0.70, 7}, {0.78, 10}, {0.92, 10}, {1.00, 7}, {1.10, 4},
	}
	// Mean gonial angle in degrees.
	gonialDefinitionCurve = Curve{
		{100, 6}, {115, 9}, {125, 10}, {130, 10}, {140, 7}, {155, 4}, {170, 2},
	}
)

// contourPairs are the right/left outline points compared by mirroring.
var contourPairs = [][2]int{
	{landmark.RightCheek, landmark.LeftCheek},
	{landmark.RightJawAngle, landmark.LeftJawAngle},
	{landmark.RightJawMid, landmark.LeftJawMid},
	{landmark.RightChinSide, landmark.LeftChinSide},
}

// Jawline scores the lower face outline.
type Jawline struct {
	Weights map[string]float64
}

func (Jawline) Region() Region { return RegionJawline }

func (j Jawline) Calculate(set *landmark.Set) (*Calculation, error) {
	need := []int{landmark.Chin}
	for _, pair := range contourPairs {
		need = append(need, pair[0], pair[1])
	}
	p, err := resolve(RegionJawline, set, indices(need, midlineIndices)...)
	if err != nil {
		return nil, err
	}
	mid := newMidline(p)
	chin := p[landmark.Chin]
	faceWidth := geometry.Distance2D(p[landmark.RightCheek], p[landmark.LeftCheek])
	jawWidth := geometry.Distance2D(p[landmark.RightJawAngle], p[landmark.LeftJawAngle])

	var contourSum, contourMax float64
	for _, pair := range contourPairs {
		d := geometry.Distance2D(p[pair[0]], mid.mirror(p[pair[1]]))
		contourSum += d
		contourMax = math.Max(contourMax, d)
	}
	contourAsym := geometry.Ratio(contourSum/float64(len(contourPairs)), faceWidth)

	rGonial := geometry.AngleAt(p[landmark.RightJawAngle], p[landmark.RightCheek], p[landmark.RightChinSide])
	lGonial := geometry.AngleAt(p[landmark.LeftJawAngle], p[landmark.LeftCheek], p[landmark.LeftChinSide])
	gonialDiff := math.Abs(rGonial - lGonial)
	meanGonial := (rGonial + lGonial) / 2

	chinDev := geometry.Ratio(mid.offset(chin), faceWidth)
	rLength := geometry.PathLength(p[landmark.RightJawAngle], p[landmark.RightJawMid], p[landmark.RightChinSide], chin)
	lLength := geometry.PathLength(p[landmark.LeftJawAngle], p[landmark.LeftJawMid], p[landmark.LeftChinSide], chin)
	lengthAsym := geometry.RelativeDifference(rLength, lLength)
	widthRatio := geometry.Ratio(jawWidth, faceWidth)
	chinWidth := geometry.Distance2D(p[landmark.RightChinSide], p[landmark.LeftChinSide])

	c := newCalculation(RegionJawline)
	c.metric("face_width", faceWidth, units.Pixels)
	c.metric("jaw_width", jawWidth, units.Pixels)
	c.metric("jaw_width_ratio", widthRatio, units.Ratio)
	c.metric("chin_width", chinWidth, units.Pixels)
	c.metric("chin_width_ratio", geometry.Ratio(chinWidth, jawWidth), units.Ratio)
	c.metric("contour_asymmetry", contourAsym, units.Ratio)
	c.metric("max_contour_offset", contourMax, units.Pixels)
	c.metric("right_gonial_angle", rGonial, units.Degrees)
	c.metric("left_gonial_angle", lGonial, units.Degrees)
	c.metric("gonial_difference", gonialDiff, units.Degrees)
	c.metric("mean_gonial_angle", meanGonial, units.Degrees)
	c.metric("chin_deviation", chinDev, units.Ratio)
	c.metric("chin_axis_angle", mid.deviationAngle(mid.a, chin), units.Degrees)
	c.metric("right_jaw_length", rLength, units.Pixels)
	c.metric("left_jaw_length", lLength, units.Pixels)
	c.metric("jaw_length_asymmetry", lengthAsym, units.Ratio)

	c.score("contour_symmetry", offsetLadder.Score(contourAsym))
	c.score("gonial_symmetry", gonialLadder.Score(gonialDiff))
	c.score("chin_alignment", offsetLadder.Score(chinDev))
	c.score("jaw_width_proportion", jawWidthCurve.Score(widthRatio))
	c.score("gonial_definition", gonialDefinitionCurve.Score(meanGonial))
	c.score("jaw_length_symmetry", symmetryLadder.Score(lengthAsym))

	c.Classification = jawProfile(widthRatio)
	return c.finish(weightsOr(j.Weights, jawWeights)), nil
}

func jawProfile(ratio float64) string {
	switch {
	case ratio > 0.9:
		return "square"
	case ratio < 0.75:
		return "tapered"
	default:
		return "balanced"
	}
}
