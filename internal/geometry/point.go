package geometry

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// NoIndex marks a derived point (midpoint, centroid) that is not a
// detected landmark.
const NoIndex = -1

// Point3D is one detected landmark. X and Y are canvas pixels, Z is a
// relative depth. Index is the detector's semantic index.
type Point3D struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Z     float64 `json:"z"`
	Index int     `json:"index"`
}

// Vec returns the point as a gonum r3 vector.
func (p Point3D) Vec() r3.Vec {
	return r3.Vec{X: p.X, Y: p.Y, Z: p.Z}
}

// FromVec builds a point from a vector, keeping the given index.
func FromVec(v r3.Vec, index int) Point3D {
	return Point3D{X: v.X, Y: v.Y, Z: v.Z, Index: index}
}

// Distance2D is the Euclidean distance in the image plane.
func Distance2D(a, b Point3D) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

// Distance3D is the Euclidean distance including depth.
func Distance3D(a, b Point3D) float64 {
	return r3.Norm(r3.Sub(b.Vec(), a.Vec()))
}

// Midpoint returns the point halfway between a and b.
func Midpoint(a, b Point3D) Point3D {
	return FromVec(r3.Scale(0.5, r3.Add(a.Vec(), b.Vec())), NoIndex)
}

// Center returns the centroid of the given points. An empty call returns
// the zero point.
func Center(points ...Point3D) Point3D {
	if len(points) == 0 {
		return Point3D{Index: NoIndex}
	}
	var sum r3.Vec
	for _, p := range points {
		sum = r3.Add(sum, p.Vec())
	}
	return FromVec(r3.Scale(1/float64(len(points)), sum), NoIndex)
}

// PathLength sums the 2D segment lengths along the given points.
func PathLength(points ...Point3D) float64 {
	total := 0.0
	for i := 1; i < len(points); i++ {
		total += Distance2D(points[i-1], points[i])
	}
	return total
}
