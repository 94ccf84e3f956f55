package landmark

import "github.com/banshee-data/facescore/internal/geometry"

// IngestOptions describes how a capture was produced.
type IngestOptions struct {
	// Mirrored is true for front-camera captures that were flipped
	// horizontally before detection, which swaps the detector's notion of
	// right and left.
	Mirrored bool
}

// Ingest converts detector output into a subject-relative Set. For
// mirrored captures the x axis is flipped across the canvas and every
// paired right/left index is swapped, so downstream code can always read
// RightEyeOuter as the subject's right eye.
func Ingest(points []geometry.Point3D, opts IngestOptions) (*Set, error) {
	if !opts.Mirrored {
		return NewSet(points)
	}
	converted := make([]geometry.Point3D, len(points))
	for i, p := range points {
		converted[i] = geometry.Point3D{
			X:     CanvasSize - p.X,
			Y:     p.Y,
			Z:     p.Z,
			Index: Counterpart(p.Index),
		}
	}
	return NewSet(converted)
}
