package analysis

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/banshee-data/facescore/internal/landmark"
	"github.com/banshee-data/facescore/internal/monitoring"
)

// maxDetections bounds concurrent detector calls.
const maxDetections = 3

// AnalyzePhotos runs the landmark boundary over each photo, then Analyze
// over the resulting sets in photo order.
func (a *Analyzer) AnalyzePhotos(ctx context.Context, boundary *landmark.Boundary, photos []landmark.Photo, opts Options) (*Result, error) {
	sets := make([]*landmark.Set, len(photos))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxDetections)
	for i, photo := range photos {
		g.Go(func() error {
			set, filled, err := boundary.Capture(gctx, photo)
			if err != nil {
				return err
			}
			if len(filled) > 0 {
				monitoring.Logf("analysis: photo %q: landmarks %v resolved by fallback", photo.ID, filled)
			}
			sets[i] = set
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("capture photos: %w", err)
	}
	return a.Analyze(ctx, sets, opts)
}
