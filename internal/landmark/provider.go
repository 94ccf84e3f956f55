package landmark

import (
	"context"
	"fmt"

	"github.com/banshee-data/facescore/internal/geometry"
)

// Photo is one captured image handed to the detector.
type Photo struct {
	ID       string
	Data     []byte
	Mirrored bool
}

// Provider is the external landmark detector. Implementations may omit
// low-confidence points; they must not emit duplicate indices.
type Provider interface {
	Landmarks(ctx context.Context, photo Photo) ([]geometry.Point3D, error)
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(ctx context.Context, photo Photo) ([]geometry.Point3D, error)

// Landmarks implements Provider.
func (f ProviderFunc) Landmarks(ctx context.Context, photo Photo) ([]geometry.Point3D, error) {
	return f(ctx, photo)
}

// Boundary is the single place where detector output is ingested and
// ambiguous labels are resolved. Region calculators downstream never
// guess at indices.
type Boundary struct {
	Provider  Provider
	Fallbacks []Fallback
}

// NewBoundary wraps p with the default fallback table.
func NewBoundary(p Provider) *Boundary {
	return &Boundary{Provider: p, Fallbacks: DefaultFallbacks()}
}

// Capture detects, resolves and ingests one photo. It returns the set and
// the subject-relative indices that were filled from fallbacks.
func (b *Boundary) Capture(ctx context.Context, photo Photo) (*Set, []int, error) {
	points, err := b.Provider.Landmarks(ctx, photo)
	if err != nil {
		return nil, nil, fmt.Errorf("detect landmarks for photo %q: %w", photo.ID, err)
	}
	return b.Resolve(photo, points)
}

// Resolve fills fallbacks on points and ingests the result. Fallback
// candidates are mesh neighbours in detector space, so they are resolved
// before a mirrored capture is flipped into the subject's frame.
func (b *Boundary) Resolve(photo Photo, points []geometry.Point3D) (*Set, []int, error) {
	raw, err := NewSet(points)
	if err != nil {
		return nil, nil, fmt.Errorf("ingest photo %q: %w", photo.ID, err)
	}
	resolved, filled := ResolveFallbacks(raw, b.Fallbacks)
	set, err := Ingest(resolved.Points(), IngestOptions{Mirrored: photo.Mirrored})
	if err != nil {
		return nil, nil, fmt.Errorf("ingest photo %q: %w", photo.ID, err)
	}
	if photo.Mirrored {
		for i, idx := range filled {
			filled[i] = Counterpart(idx)
		}
	}
	return set, filled, nil
}
