package geometry

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Angle returns the direction of the vector from -> to in degrees, in
// (-180, 180], measured with atan2(dy, dx) in the 2D image plane.
//
// Because y grows downward, a positive angle means to sits visually lower
// than from: angles increase clockwise on screen, the opposite of the
// usual mathematical convention.
func Angle(from, to Point3D) float64 {
	return RadToDeg(math.Atan2(to.Y-from.Y, to.X-from.X))
}

// AngleRadians is Angle without the degree conversion.
func AngleRadians(from, to Point3D) float64 {
	return math.Atan2(to.Y-from.Y, to.X-from.X)
}

// AngleAt returns the interior angle a-vertex-b in degrees, in [0, 180],
// computed in the image plane. A zero-length edge yields 0.
func AngleAt(vertex, a, b Point3D) float64 {
	va := r3.Vec{X: a.X - vertex.X, Y: a.Y - vertex.Y}
	vb := r3.Vec{X: b.X - vertex.X, Y: b.Y - vertex.Y}
	if r3.Norm(va) == 0 || r3.Norm(vb) == 0 {
		return 0
	}
	cos := r3.Cos(va, vb)
	// Floating error can push |cos| just past 1.
	cos = math.Max(-1, math.Min(1, cos))
	return RadToDeg(math.Acos(cos))
}

// Rotate2D rotates p about pivot by radians in the image plane. Z and the
// index are kept. With y pointing down, a positive angle turns clockwise
// on screen.
func Rotate2D(p, pivot Point3D, radians float64) Point3D {
	sin, cos := math.Sincos(radians)
	dx := p.X - pivot.X
	dy := p.Y - pivot.Y
	return Point3D{
		X:     pivot.X + dx*cos - dy*sin,
		Y:     pivot.Y + dx*sin + dy*cos,
		Z:     p.Z,
		Index: p.Index,
	}
}

// PerpendicularDistance returns the signed distance of p from the line
// through a and b. The sign is positive when p lies above the line on
// screen (smaller y) for a line running left to right.
func PerpendicularDistance(p, a, b Point3D) float64 {
	length := Distance2D(a, b)
	if length == 0 {
		return Distance2D(p, a)
	}
	cross := (b.X-a.X)*(p.Y-a.Y) - (b.Y-a.Y)*(p.X-a.X)
	return -cross / length
}

// Reflect mirrors p across the line through a and b in the image plane.
// A degenerate line returns p unchanged.
func Reflect(p, a, b Point3D) Point3D {
	dx, dy := b.X-a.X, b.Y-a.Y
	l2 := dx*dx + dy*dy
	if l2 == 0 {
		return p
	}
	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / l2
	fx, fy := a.X+t*dx, a.Y+t*dy
	return Point3D{X: 2*fx - p.X, Y: 2*fy - p.Y, Z: p.Z, Index: p.Index}
}

// RadToDeg converts radians to degrees.
func RadToDeg(r float64) float64 { return r * 180 / math.Pi }

// DegToRad converts degrees to radians.
func DegToRad(d float64) float64 { return d * math.Pi / 180 }
