package normalize

import (
	"errors"
	"fmt"

	"github.com/banshee-data/facescore/internal/config"
	"github.com/banshee-data/facescore/internal/geometry"
	"github.com/banshee-data/facescore/internal/landmark"
)

// MissingReferenceLandmarkError means the canonical frame cannot be
// established because a reference landmark is absent. Callers may fall
// back to raw coordinates with reduced confidence.
type MissingReferenceLandmarkError struct {
	Index int
	Name  string
}

func (e *MissingReferenceLandmarkError) Error() string {
	return fmt.Sprintf("cannot normalize: missing reference landmark %d (%s)", e.Index, e.Name)
}

// ErrDegenerateFrame is returned when both eye corners coincide.
var ErrDegenerateFrame = errors.New("cannot normalize: eye corners coincide")

// Options configure the canonical frame.
type Options struct {
	// StandardEyeDistance is the outer-corner distance after scaling.
	StandardEyeDistance float64
	// AnchorX and AnchorY are where the nose tip lands.
	AnchorX, AnchorY float64
}

// DefaultOptions returns the standard frame on the detector canvas.
func DefaultOptions() Options {
	return Options{
		StandardEyeDistance: 200,
		AnchorX:             landmark.CanvasSize / 2,
		AnchorY:             landmark.CanvasSize / 2,
	}
}

// OptionsFromConfig reads the frame settings from cfg.
func OptionsFromConfig(cfg *config.ScoringConfig) Options {
	return Options{
		StandardEyeDistance: cfg.GetStandardEyeDistance(),
		AnchorX:             cfg.GetAnchorX(),
		AnchorY:             cfg.GetAnchorY(),
	}
}

// Translation is the offset applied after rotation.
type Translation struct {
	DX float64 `json:"dx"`
	DY float64 `json:"dy"`
	DZ float64 `json:"dz"`
}

// TransformParams records how a capture was normalized. They are kept
// for audit and overlays; scoring does not need them.
type TransformParams struct {
	Pivot           geometry.Point3D `json:"pivot"`
	RotationRadians float64          `json:"rotation_radians"`
	Translation     Translation      `json:"translation"`
	Scale           float64          `json:"scale"`
	Anchor          geometry.Point3D `json:"anchor"`
}

// Apply maps a raw point into the normalized frame.
func (tp TransformParams) Apply(p geometry.Point3D) geometry.Point3D {
	r := geometry.Rotate2D(p, tp.Pivot, tp.RotationRadians)
	return geometry.Point3D{
		X:     tp.Anchor.X + (r.X+tp.Translation.DX-tp.Anchor.X)*tp.Scale,
		Y:     tp.Anchor.Y + (r.Y+tp.Translation.DY-tp.Anchor.Y)*tp.Scale,
		Z:     (r.Z + tp.Translation.DZ) * tp.Scale,
		Index: p.Index,
	}
}

// Inverse maps a normalized point back to raw canvas coordinates.
func (tp TransformParams) Inverse(p geometry.Point3D) geometry.Point3D {
	if tp.Scale == 0 {
		return p
	}
	unscaled := geometry.Point3D{
		X:     tp.Anchor.X + (p.X-tp.Anchor.X)/tp.Scale - tp.Translation.DX,
		Y:     tp.Anchor.Y + (p.Y-tp.Anchor.Y)/tp.Scale - tp.Translation.DY,
		Z:     p.Z/tp.Scale - tp.Translation.DZ,
		Index: p.Index,
	}
	return geometry.Rotate2D(unscaled, tp.Pivot, -tp.RotationRadians)
}

// Result is a normalized landmark set with the transform that produced it.
type Result struct {
	Set    *landmark.Set
	Params TransformParams
}

func requireReference(set *landmark.Set, index int) (geometry.Point3D, error) {
	p, ok := set.Get(index)
	if !ok {
		return geometry.Point3D{}, &MissingReferenceLandmarkError{Index: index, Name: landmark.Name(index)}
	}
	return p, nil
}

// Roll returns the head roll in radians: the angle of the line from the
// subject's right outer eye corner to the left one. Positive roll means
// the subject's left eye sits lower on screen.
func Roll(set *landmark.Set) (float64, geometry.Point3D, error) {
	right, err := requireReference(set, landmark.RightEyeOuter)
	if err != nil {
		return 0, geometry.Point3D{}, err
	}
	left, err := requireReference(set, landmark.LeftEyeOuter)
	if err != nil {
		return 0, geometry.Point3D{}, err
	}
	if geometry.Distance2D(right, left) == 0 {
		return 0, geometry.Point3D{}, ErrDegenerateFrame
	}
	return geometry.AngleRadians(right, left), geometry.Midpoint(right, left), nil
}

// Deroll rotates the set by -roll about the eye-line midpoint, leaving
// position and scale unchanged. It returns the roll that was removed.
func Deroll(set *landmark.Set) (*landmark.Set, float64, error) {
	roll, pivot, err := Roll(set)
	if err != nil {
		return nil, 0, err
	}
	out := set.Map(func(p geometry.Point3D) geometry.Point3D {
		return geometry.Rotate2D(p, pivot, -roll)
	})
	return out, roll, nil
}

// Normalize rotates the eye line level, moves the nose tip onto the
// anchor and scales x, y and z together so the outer eye corners sit
// StandardEyeDistance apart.
func Normalize(set *landmark.Set, opts Options) (*Result, error) {
	if opts.StandardEyeDistance <= 0 {
		return nil, fmt.Errorf("standard eye distance must be positive, got %f", opts.StandardEyeDistance)
	}
	roll, pivot, err := Roll(set)
	if err != nil {
		return nil, err
	}
	nose, err := requireReference(set, landmark.NoseTip)
	if err != nil {
		return nil, err
	}
	right, _ := set.Get(landmark.RightEyeOuter)
	left, _ := set.Get(landmark.LeftEyeOuter)

	rotatedNose := geometry.Rotate2D(nose, pivot, -roll)
	anchor := geometry.Point3D{X: opts.AnchorX, Y: opts.AnchorY, Index: geometry.NoIndex}
	params := TransformParams{
		Pivot:           pivot,
		RotationRadians: -roll,
		Translation: Translation{
			DX: anchor.X - rotatedNose.X,
			DY: anchor.Y - rotatedNose.Y,
			DZ: -nose.Z,
		},
		// Rotation preserves length, so the raw distance is the
		// post-rotation inter-ocular distance.
		Scale:  opts.StandardEyeDistance / geometry.Distance2D(right, left),
		Anchor: anchor,
	}

	return &Result{Set: set.Map(params.Apply), Params: params}, nil
}
