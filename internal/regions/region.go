package regions

import (
	"fmt"
	"math"

	"github.com/banshee-data/facescore/internal/geometry"
	"github.com/banshee-data/facescore/internal/landmark"
)

// Region names a facial region.
type Region string

const (
	RegionEyebrows  Region = "eyebrows"
	RegionEyes      Region = "eyes"
	RegionNose      Region = "nose"
	RegionLips      Region = "lips"
	RegionJawline   Region = "jawline"
	RegionFaceShape Region = "face_shape"
)

// Order is the canonical presentation order of regions.
var Order = []Region{RegionEyebrows, RegionEyes, RegionNose, RegionLips, RegionJawline, RegionFaceShape}

// AsymmetryLevel buckets a regional overall score.
type AsymmetryLevel string

const (
	AsymmetryNone     AsymmetryLevel = "NONE"
	AsymmetryMild     AsymmetryLevel = "MILD"
	AsymmetryModerate AsymmetryLevel = "MODERATE"
	AsymmetrySevere   AsymmetryLevel = "SEVERE"
)

// AsymmetryFor maps an overall score to its band: >=9 NONE, >=7 MILD,
// >=4 MODERATE, otherwise SEVERE.
func AsymmetryFor(score float64) AsymmetryLevel {
	switch {
	case score >= 9:
		return AsymmetryNone
	case score >= 7:
		return AsymmetryMild
	case score >= 4:
		return AsymmetryModerate
	default:
		return AsymmetrySevere
	}
}

// Metric is one raw measurement.
type Metric struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

// SubScore is one 0-10 score and its weight in the overall score.
type SubScore struct {
	Name   string  `json:"name"`
	Score  float64 `json:"score"`
	Weight float64 `json:"weight"`
}

// Calculation is the result of one region calculator. Slices keep
// insertion order so output is deterministic.
type Calculation struct {
	Region         Region         `json:"region"`
	Metrics        []Metric       `json:"metrics"`
	SubScores      []SubScore     `json:"sub_scores"`
	OverallScore   float64        `json:"overall_score"`
	AsymmetryLevel AsymmetryLevel `json:"asymmetry_level"`
	Classification string         `json:"classification,omitempty"`
}

// Metric looks up a metric by name.
func (c *Calculation) Metric(name string) (float64, bool) {
	for _, m := range c.Metrics {
		if m.Name == name {
			return m.Value, true
		}
	}
	return 0, false
}

// SubScore looks up a sub-score by name.
func (c *Calculation) SubScore(name string) (float64, bool) {
	for _, s := range c.SubScores {
		if s.Name == name {
			return s.Score, true
		}
	}
	return 0, false
}

// Calculator computes one region.
type Calculator interface {
	Region() Region
	Calculate(set *landmark.Set) (*Calculation, error)
}

func newCalculation(region Region) *Calculation {
	return &Calculation{Region: region}
}

func (c *Calculation) metric(name string, value float64, unit string) {
	c.Metrics = append(c.Metrics, Metric{Name: name, Value: value, Unit: unit})
}

func (c *Calculation) score(name string, score float64) {
	c.SubScores = append(c.SubScores, SubScore{Name: name, Score: geometry.Clamp(score, 0, 10)})
}

// finish assigns weights and derives the overall score. Sub-scores
// without a weight count zero; the sum is divided by the total weight
// used so a partial override cannot inflate the result.
func (c *Calculation) finish(weights map[string]float64) *Calculation {
	var sum, total float64
	for i := range c.SubScores {
		w := weights[c.SubScores[i].Name]
		c.SubScores[i].Weight = w
		sum += c.SubScores[i].Score * w
		total += w
	}
	if total > 0 {
		c.OverallScore = geometry.Round1(geometry.Clamp(sum/total, 0, 10))
	}
	c.AsymmetryLevel = AsymmetryFor(c.OverallScore)
	return c
}

// resolve fetches the named landmarks a calculator needs.
func resolve(region Region, set *landmark.Set, indices ...int) (map[int]geometry.Point3D, error) {
	pts := make(map[int]geometry.Point3D, len(indices))
	for _, idx := range indices {
		p, err := set.Require(idx)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", region, err)
		}
		pts[idx] = p
	}
	return pts, nil
}

// midline is the facial vertical axis: the perpendicular bisector of the
// outer eye corners. It stays valid for raw captures with head roll.
type midline struct {
	a, b geometry.Point3D
}

var midlineIndices = []int{landmark.RightEyeOuter, landmark.LeftEyeOuter}

func newMidline(pts map[int]geometry.Point3D) midline {
	r, l := pts[landmark.RightEyeOuter], pts[landmark.LeftEyeOuter]
	m := geometry.Midpoint(r, l)
	dx, dy := l.X-r.X, l.Y-r.Y
	n := math.Hypot(dx, dy)
	if n == 0 {
		return midline{a: m, b: geometry.Point3D{X: m.X, Y: m.Y + 100}}
	}
	// Perpendicular pointing down the face.
	return midline{a: m, b: geometry.Point3D{X: m.X - dy/n*100, Y: m.Y + dx/n*100}}
}

// offset is the unsigned distance of p from the midline.
func (m midline) offset(p geometry.Point3D) float64 {
	return math.Abs(geometry.PerpendicularDistance(p, m.a, m.b))
}

// mirror reflects p to the other side of the face.
func (m midline) mirror(p geometry.Point3D) geometry.Point3D {
	return geometry.Reflect(p, m.a, m.b)
}

// deviationAngle is the angle in degrees between from->to and the
// downward midline direction.
func (m midline) deviationAngle(from, to geometry.Point3D) float64 {
	dir := geometry.Point3D{X: from.X + (m.b.X - m.a.X), Y: from.Y + (m.b.Y - m.a.Y)}
	return geometry.AngleAt(from, to, dir)
}

func indices(groups ...[]int) []int {
	var out []int
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

func copyWeights(w map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(w))
	for k, v := range w {
		out[k] = v
	}
	return out
}

func weightsOr(override, defaults map[string]float64) map[string]float64 {
	if len(override) > 0 {
		return override
	}
	return defaults
}
