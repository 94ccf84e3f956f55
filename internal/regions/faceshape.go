package regions

import (
	"github.com/banshee-data/facescore/internal/geometry"
	"github.com/banshee-data/facescore/internal/landmark"
	"github.com/banshee-data/facescore/internal/units"
)

// FaceShapeUnavailableReason explains why FaceShape is off by default.
const FaceShapeUnavailableReason = "hairline estimation unreliable"

var faceShapeWeights = map[string]float64{
	"length_width_balance": 0.40,
	"width_taper":          0.30,
	"outline_symmetry":     0.30,
}

var (
	// Face height over cheek width.
	faceLengthCurve = Curve{
		{1.0, 4}, {1.2, 8}, {1.3, 10}, {1.5, 10}, {1.7, 7}, {2.0, 4},
	}
	// Temple width minus jaw width, over cheek width.
	faceTaperCurve = Curve{
		{-0.2, 3}, {-0.05, 7}, {0, 9}, {0.05, 10}, {0.15, 10}, {0.3, 7},
	}
)

// FaceShape classifies the face outline. It depends on the forehead top
// landmark, which detectors place inconsistently below the hairline, so
// it is an opt-in plug-in and not part of DefaultCalculators.
type FaceShape struct {
	Weights map[string]float64
}

func (FaceShape) Region() Region { return RegionFaceShape }

func (f FaceShape) Calculate(set *landmark.Set) (*Calculation, error) {
	p, err := resolve(RegionFaceShape, set, indices([]int{
		landmark.ForeheadTop, landmark.Chin,
		landmark.RightTemple, landmark.LeftTemple,
		landmark.RightCheek, landmark.LeftCheek,
		landmark.RightJawAngle, landmark.LeftJawAngle,
	}, midlineIndices)...)
	if err != nil {
		return nil, err
	}
	mid := newMidline(p)
	height := geometry.Distance2D(p[landmark.ForeheadTop], p[landmark.Chin])
	cheeks := geometry.Distance2D(p[landmark.RightCheek], p[landmark.LeftCheek])
	temples := geometry.Distance2D(p[landmark.RightTemple], p[landmark.LeftTemple])
	jaw := geometry.Distance2D(p[landmark.RightJawAngle], p[landmark.LeftJawAngle])

	lengthWidth := geometry.Ratio(height, cheeks)
	templeRatio := geometry.Ratio(temples, cheeks)
	jawRatio := geometry.Ratio(jaw, cheeks)
	taper := templeRatio - jawRatio
	outline := (geometry.RelativeDifference(mid.offset(p[landmark.RightTemple]), mid.offset(p[landmark.LeftTemple])) +
		geometry.RelativeDifference(mid.offset(p[landmark.RightCheek]), mid.offset(p[landmark.LeftCheek])) +
		geometry.RelativeDifference(mid.offset(p[landmark.RightJawAngle]), mid.offset(p[landmark.LeftJawAngle]))) / 3

	c := newCalculation(RegionFaceShape)
	c.metric("face_height", height, units.Pixels)
	c.metric("cheek_width", cheeks, units.Pixels)
	c.metric("temple_width", temples, units.Pixels)
	c.metric("jaw_width", jaw, units.Pixels)
	c.metric("length_width_ratio", lengthWidth, units.Ratio)
	c.metric("temple_ratio", templeRatio, units.Ratio)
	c.metric("jaw_ratio", jawRatio, units.Ratio)
	c.metric("taper", taper, units.Ratio)
	c.metric("outline_asymmetry", outline, units.Ratio)

	c.score("length_width_balance", faceLengthCurve.Score(lengthWidth))
	c.score("width_taper", faceTaperCurve.Score(taper))
	c.score("outline_symmetry", symmetryLadder.Score(outline))

	c.Classification = classifyShape(lengthWidth, templeRatio, jawRatio)
	return c.finish(weightsOr(f.Weights, faceShapeWeights)), nil
}

func classifyShape(lengthWidth, temple, jaw float64) string {
	switch {
	case lengthWidth > 1.55:
		return "oblong"
	case jaw > 0.9 && temple > 0.9:
		return "square"
	case lengthWidth < 1.2:
		return "round"
	case temple > jaw+0.1 && temple > 0.85:
		return "heart"
	case temple < 0.85 && jaw < 0.85:
		return "diamond"
	default:
		return "oval"
	}
}
