package regions

import (
	"math"
	"sort"

	"github.com/banshee-data/facescore/internal/geometry"
)

// Step is one rung of a Ladder.
type Step struct {
	Threshold float64
	Score     float64
}

// Ladder scores a value by the first step whose threshold it does not
// exceed. Values above every threshold get Floor. Steps must be sorted by
// ascending threshold.
type Ladder struct {
	Steps []Step
	Floor float64
}

// Score returns the ladder score for v.
func (l Ladder) Score(v float64) float64 {
	if math.IsNaN(v) {
		return l.Floor
	}
	for _, s := range l.Steps {
		if v <= s.Threshold {
			return s.Score
		}
	}
	return l.Floor
}

// ControlPoint anchors a Curve.
type ControlPoint struct {
	Value float64
	Score float64
}

// Curve scores a value by linear interpolation between control points
// sorted by ascending Value. Outside the first and last point the score
// is held flat; the result is rounded to one decimal.
type Curve []ControlPoint

// Score returns the interpolated score for v. An empty curve scores 0.
func (c Curve) Score(v float64) float64 {
	if len(c) == 0 {
		return 0
	}
	if math.IsNaN(v) || v <= c[0].Value {
		return geometry.Round1(c[0].Score)
	}
	last := c[len(c)-1]
	if v >= last.Value {
		return geometry.Round1(last.Score)
	}
	// First control point strictly above v; v > c[0] so i >= 1.
	i := sort.Search(len(c), func(i int) bool { return c[i].Value > v })
	lo, hi := c[i-1], c[i]
	t := (v - lo.Value) / (hi.Value - lo.Value)
	return geometry.Round1(lo.Score + t*(hi.Score-lo.Score))
}

// symmetryLadder grades a relative left/right difference.
var symmetryLadder = Ladder{
	Steps: []Step{
		{0.03, 10}, {0.06, 9}, {0.10, 8}, {0.15, 7}, {0.20, 6},
		{0.27, 5}, {0.35, 4}, {0.45, 3},
	},
	Floor: 2,
}

// offsetLadder grades a small offset expressed as a fraction of a
// reference width.
var offsetLadder = Ladder{
	Steps: []Step{
		{0.01, 10}, {0.02, 9}, {0.035, 8}, {0.05, 7}, {0.07, 6},
		{0.09, 5}, {0.12, 4},
	},
	Floor: 3,
}

// angleLadder grades a left/right angle difference in degrees.
var angleLadder = Ladder{
	Steps: []Step{
		{1, 10}, {2, 9}, {3, 8}, {4.5, 7}, {6, 6}, {8, 5}, {10, 4},
	},
	Floor: 3,
}
