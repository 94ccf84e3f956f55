// Package testutil provides shared test utilities and fixtures.
//
// This package centralises the synthetic face used across package tests so
// every calculator is exercised against the same deterministic geometry.
package testutil

import (
	"math"
	"testing"

	"github.com/banshee-data/facescore/internal/geometry"
	"github.com/banshee-data/facescore/internal/landmark"
)

// MidlineX is the vertical symmetry axis of FrontalFace.
const MidlineX = 500.0

// rightSide holds subject-right named points; FrontalFace mirrors them
// across MidlineX to build the left side.
var rightSide = []geometry.Point3D{
	{Index: landmark.RightEyeOuter, X: 355, Y: 440, Z: -5},
	{Index: landmark.RightEyeInner, X: 450, Y: 445, Z: -10},
	{Index: landmark.RightEyeUpper, X: 402, Y: 425, Z: -12},
	{Index: landmark.RightEyeLower, X: 402, Y: 455, Z: -8},

	{Index: landmark.RightBrowInner, X: 455, Y: 385, Z: -22},
	{Index: landmark.RightBrowPeak, X: 400, Y: 365, Z: -20},
	{Index: landmark.RightBrowOuter, X: 340, Y: 385, Z: -10},
	{Index: landmark.RightBrowInnerLower, X: 455, Y: 397, Z: -22},
	{Index: landmark.RightBrowPeakLower, X: 400, Y: 378, Z: -20},
	{Index: landmark.RightBrowOuterLower, X: 342, Y: 394, Z: -10},

	{Index: landmark.RightAlar, X: 455, Y: 575, Z: -30},
	{Index: landmark.RightNostril, X: 470, Y: 590, Z: -35},

	{Index: landmark.MouthRight, X: 430, Y: 680, Z: -20},
	{Index: landmark.RightCupidPeak, X: 485, Y: 652, Z: -31},

	{Index: landmark.RightCheek, X: 290, Y: 470, Z: 20},
	{Index: landmark.RightJawAngle, X: 320, Y: 700, Z: 10},
	{Index: landmark.RightJawMid, X: 360, Y: 760, Z: 0},
	{Index: landmark.RightChinSide, X: 430, Y: 805, Z: -10},
	{Index: landmark.RightTemple, X: 330, Y: 260, Z: 5},
}

var midline = []geometry.Point3D{
	{Index: landmark.ForeheadTop, X: MidlineX, Y: 170, Z: -10},
	{Index: landmark.Glabella, X: MidlineX, Y: 380, Z: -20},
	{Index: landmark.Nasion, X: MidlineX, Y: 400, Z: -18},
	{Index: landmark.NoseBridge, X: MidlineX, Y: 440, Z: -25},
	{Index: landmark.NoseTip, X: MidlineX, Y: 560, Z: -60},
	{Index: landmark.Subnasale, X: MidlineX, Y: 590, Z: -40},
	{Index: landmark.UpperLipTop, X: MidlineX, Y: 655, Z: -30},
	{Index: landmark.UpperLipInner, X: MidlineX, Y: 672, Z: -28},
	{Index: landmark.LowerLipInner, X: MidlineX, Y: 676, Z: -28},
	{Index: landmark.LowerLipBottom, X: MidlineX, Y: 705, Z: -28},
	{Index: landmark.Chin, X: MidlineX, Y: 820, Z: -15},
}

// fillerOval lists face-oval mesh indices that no calculator reads. They
// pad the fixture to a realistic landmark count.
var fillerOval = []int{
	338, 297, 332, 251, 389, 356, 323, 361, 288, 379, 400, 377,
	148, 176, 150, 58, 132, 93, 127, 162, 21, 103, 67, 109,
}

// FrontalPoints returns the raw points of a level, centred, perfectly
// symmetric face on the detector canvas.
func FrontalPoints() []geometry.Point3D {
	pts := make([]geometry.Point3D, 0, 2*len(rightSide)+len(midline)+len(fillerOval))
	pts = append(pts, midline...)
	for _, r := range rightSide {
		pts = append(pts, r)
		pts = append(pts, geometry.Point3D{
			Index: landmark.Counterpart(r.Index),
			X:     2*MidlineX - r.X,
			Y:     r.Y,
			Z:     r.Z,
		})
	}
	for i, idx := range fillerOval {
		theta := 2 * math.Pi * float64(i) / float64(len(fillerOval))
		pts = append(pts, geometry.Point3D{
			Index: idx,
			X:     MidlineX + 215*math.Sin(theta),
			Y:     500 - 330*math.Cos(theta),
			Z:     15,
		})
	}
	return pts
}

// FrontalFace returns FrontalPoints as a Set.
func FrontalFace() *landmark.Set {
	return landmark.MustNewSet(FrontalPoints())
}

// Tilt rotates every point by degrees about pivot (clockwise on screen
// for positive values).
func Tilt(s *landmark.Set, degrees float64, pivot geometry.Point3D) *landmark.Set {
	rad := geometry.DegToRad(degrees)
	return s.Map(func(p geometry.Point3D) geometry.Point3D {
		return geometry.Rotate2D(p, pivot, rad)
	})
}

// Shift translates every point in the image plane.
func Shift(s *landmark.Set, dx, dy float64) *landmark.Set {
	return s.Map(func(p geometry.Point3D) geometry.Point3D {
		p.X += dx
		p.Y += dy
		return p
	})
}

// Scale scales x, y and z about pivot.
func Scale(s *landmark.Set, f float64, pivot geometry.Point3D) *landmark.Set {
	return s.Map(func(p geometry.Point3D) geometry.Point3D {
		return geometry.Point3D{
			X: pivot.X + (p.X-pivot.X)*f,
			Y: pivot.Y + (p.Y-pivot.Y)*f,
			Z: pivot.Z + (p.Z-pivot.Z)*f,
		}
	})
}

// Move displaces a single landmark.
func Move(s *landmark.Set, index int, dx, dy float64) *landmark.Set {
	p, ok := s.Get(index)
	if !ok {
		return s
	}
	p.X += dx
	p.Y += dy
	return s.With(p)
}

// Jitter applies a deterministic per-index offset of at most amplitude
// pixels, with phase selecting a different pattern per capture.
func Jitter(s *landmark.Set, amplitude float64, phase int) *landmark.Set {
	return s.Map(func(p geometry.Point3D) geometry.Point3D {
		k := float64(p.Index*7 + phase*13)
		p.X += amplitude * math.Sin(k)
		p.Y += amplitude * math.Cos(k*1.3)
		return p
	})
}

// ScreenMirror produces the detector output a horizontally flipped
// selfie of s would yield: x flipped across the canvas and right/left
// labels swapped.
func ScreenMirror(s *landmark.Set) []geometry.Point3D {
	pts := s.Points()
	out := make([]geometry.Point3D, len(pts))
	for i, p := range pts {
		out[i] = geometry.Point3D{
			X:     landmark.CanvasSize - p.X,
			Y:     p.Y,
			Z:     p.Z,
			Index: landmark.Counterpart(p.Index),
		}
	}
	return out
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}
