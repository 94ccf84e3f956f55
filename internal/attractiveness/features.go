package attractiveness

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/banshee-data/facescore/internal/geometry"
	"github.com/banshee-data/facescore/internal/landmark"
)

// features are the measurements behind the general scores. Each map
// holds only the terms whose landmarks were present.
type features struct {
	symmetry   map[string]float64 // deviation in face widths
	proportion map[string]float64 // raw ratio or coefficient of variation
	harmony    map[string]float64 // raw ratio
	jawRatio   float64
	hasJaw     bool
}

type axis struct {
	a, b geometry.Point3D
}

func (ax axis) offset(p geometry.Point3D) float64 {
	return math.Abs(geometry.PerpendicularDistance(p, ax.a, ax.b))
}

func faceAxis(set *landmark.Set) axis {
	r, okR := set.Get(landmark.RightEyeOuter)
	l, okL := set.Get(landmark.LeftEyeOuter)
	if okR && okL && geometry.Distance2D(r, l) > 0 {
		m := geometry.Midpoint(r, l)
		d := geometry.Distance2D(r, l)
		return axis{a: m, b: geometry.Point3D{X: m.X - (l.Y-r.Y)/d, Y: m.Y + (l.X-r.X)/d}}
	}
	c := geometry.Center(set.Points()...)
	return axis{a: c, b: geometry.Point3D{X: c.X, Y: c.Y + 1}}
}

func faceWidth(set *landmark.Set) float64 {
	if r, ok := set.Get(landmark.RightCheek); ok {
		if l, ok := set.Get(landmark.LeftCheek); ok {
			return geometry.Distance2D(r, l)
		}
	}
	minX, maxX := math.Inf(1), math.Inf(-1)
	for _, p := range set.Points() {
		minX = math.Min(minX, p.X)
		maxX = math.Max(maxX, p.X)
	}
	return maxX - minX
}

// get fetches several landmarks at once; ok is false if any is missing.
func get(set *landmark.Set, indices ...int) ([]geometry.Point3D, bool) {
	out := make([]geometry.Point3D, len(indices))
	for i, idx := range indices {
		p, ok := set.Get(idx)
		if !ok {
			return nil, false
		}
		out[i] = p
	}
	return out, true
}

func mean(vs ...float64) float64 {
	return stat.Mean(vs, nil)
}

func measure(set *landmark.Set) features {
	f := features{
		symmetry:   map[string]float64{},
		proportion: map[string]float64{},
		harmony:    map[string]float64{},
	}
	ax := faceAxis(set)
	fw := faceWidth(set)
	if fw <= 0 {
		return f
	}
	// pairTerm is the left/right mismatch of a landmark pair.
	pairTerm := func(r, l geometry.Point3D) float64 {
		return (math.Abs(ax.offset(r)-ax.offset(l)) + math.Abs(r.Y-l.Y)) / fw
	}

	if p, ok := get(set, landmark.RightEyeOuter, landmark.RightEyeInner, landmark.LeftEyeOuter, landmark.LeftEyeInner); ok {
		f.symmetry["eyes"] = pairTerm(geometry.Midpoint(p[0], p[1]), geometry.Midpoint(p[2], p[3]))
	}
	if tip, ok := set.Get(landmark.NoseTip); ok {
		terms := []float64{ax.offset(tip) / fw}
		if p, ok := get(set, landmark.RightAlar, landmark.LeftAlar); ok {
			terms = append(terms, math.Abs(ax.offset(p[0])-ax.offset(p[1]))/fw)
		}
		f.symmetry["nose"] = mean(terms...)
	}
	if p, ok := get(set, landmark.MouthRight, landmark.MouthLeft); ok {
		f.symmetry["mouth"] = pairTerm(p[0], p[1])
	}
	if p, ok := get(set, landmark.RightJawAngle, landmark.LeftJawAngle); ok {
		terms := []float64{pairTerm(p[0], p[1])}
		if chin, ok := set.Get(landmark.Chin); ok {
			terms = append(terms, ax.offset(chin)/fw)
		}
		f.symmetry["jaw"] = mean(terms...)
		f.jawRatio = geometry.Ratio(geometry.Distance2D(p[0], p[1]), fw)
		f.hasJaw = true
	}

	if p, ok := get(set, landmark.ForeheadTop, landmark.Glabella, landmark.Subnasale, landmark.Chin); ok {
		thirds := []float64{
			geometry.Distance2D(p[0], p[1]),
			geometry.Distance2D(p[1], p[2]),
			geometry.Distance2D(p[2], p[3]),
		}
		m, sd := stat.PopMeanStdDev(thirds, nil)
		if m > 0 {
			f.proportion["thirds"] = sd / m
		}
	}
	if p, ok := get(set, landmark.RightEyeOuter, landmark.RightEyeInner, landmark.LeftEyeOuter, landmark.LeftEyeInner); ok {
		eyeWidth := mean(geometry.Distance2D(p[0], p[1]), geometry.Distance2D(p[2], p[3]))
		if eyeWidth > 0 {
			f.proportion["eye_spacing"] = geometry.Distance2D(p[1], p[3]) / eyeWidth
		}
	}
	alar, hasAlar := get(set, landmark.RightAlar, landmark.LeftAlar)
	alarWidth := 0.0
	if hasAlar {
		alarWidth = geometry.Distance2D(alar[0], alar[1])
	}
	if tip, ok := set.Get(landmark.NoseTip); ok && alarWidth > 0 {
		f.proportion["nose_projection"] = math.Max(0, mean(alar[0].Z, alar[1].Z)-tip.Z) / alarWidth
	}

	if p, ok := get(set, landmark.MouthRight, landmark.MouthLeft); ok && alarWidth > 0 {
		f.harmony["mouth_nose"] = geometry.Distance2D(p[0], p[1]) / alarWidth
	}
	if p, ok := get(set, landmark.UpperLipTop, landmark.UpperLipInner, landmark.LowerLipInner, landmark.LowerLipBottom); ok {
		if upper := geometry.Distance2D(p[0], p[1]); upper > 0 {
			f.harmony["lip_ratio"] = geometry.Distance2D(p[2], p[3]) / upper
		}
		if q, ok := get(set, landmark.Subnasale, landmark.Chin); ok {
			stomion := geometry.Midpoint(p[1], p[2])
			if lower := geometry.Distance2D(stomion, q[1]); lower > 0 {
				f.harmony["philtrum"] = geometry.Distance2D(q[0], stomion) / lower
			}
		}
	}
	return f
}

func (s *Scorer) symmetry(f features) float64 {
	scores := make(map[string]float64, len(f.symmetry))
	for name, dev := range f.symmetry {
		scores[name] = toleranceScore(dev, s.p.SymmetryTolerance)
	}
	return weighted(scores, s.p.SymmetryWeights, neutralScore)
}

func (s *Scorer) proportions(f features) float64 {
	scores := map[string]float64{}
	if v, ok := f.proportion["thirds"]; ok {
		scores["thirds"] = toleranceScore(v, s.p.ThirdsTolerance)
	}
	if v, ok := f.proportion["eye_spacing"]; ok {
		scores["eye_spacing"] = toleranceScore(v-s.p.IdealEyeSpacingRatio, s.p.EyeSpacingTolerance)
	}
	if v, ok := f.proportion["nose_projection"]; ok {
		scores["nose_projection"] = toleranceScore(v-s.p.IdealNoseProjection, s.p.NoseProjectionTolerance)
	}
	return weighted(scores, s.p.ProportionWeights, neutralScore)
}

func (s *Scorer) harmony(f features, gender Gender) float64 {
	scores := map[string]float64{}
	if v, ok := f.harmony["mouth_nose"]; ok {
		scores["mouth_nose"] = toleranceScore(v-s.p.IdealMouthNoseRatio, s.p.MouthNoseTolerance)
	}
	lipRatio, hasLips := f.harmony["lip_ratio"]
	if hasLips {
		scores["lip_ratio"] = toleranceScore(lipRatio-s.p.IdealLipRatio, s.p.LipRatioTolerance)
	}
	if v, ok := f.harmony["philtrum"]; ok {
		scores["philtrum"] = toleranceScore(v-s.p.IdealPhiltrumRatio, s.p.PhiltrumTolerance)
	}
	h := weighted(scores, s.p.HarmonyWeights, neutralScore)

	adj := 0.0
	switch {
	case gender == GenderFemale && hasLips:
		adj = s.p.GenderAdjustment
		if lipRatio < s.p.IdealLipRatio {
			adj = -adj
		}
	case gender == GenderMale && f.hasJaw:
		adj = s.p.GenderAdjustment
		if f.jawRatio < s.p.StrongJawRatio {
			adj = -adj
		}
	}
	return geometry.Clamp(h*(1+adj), 0, 10)
}
