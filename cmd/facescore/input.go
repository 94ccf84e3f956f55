package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/banshee-data/facescore/internal/geometry"
	"github.com/banshee-data/facescore/internal/landmark"
)

// captureFile is the landmark input format: one point list per capture.
type captureFile struct {
	Captures [][]geometry.Point3D `json:"captures"`
}

// decodedCaptures serves point lists read from a capture file to the
// landmark boundary in place of a live detector.
type decodedCaptures struct {
	photos []landmark.Photo
	points map[string][]geometry.Point3D
}

// Landmarks implements landmark.Provider.
func (d *decodedCaptures) Landmarks(ctx context.Context, photo landmark.Photo) ([]geometry.Point3D, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	pts, ok := d.points[photo.ID]
	if !ok {
		return nil, fmt.Errorf("no landmarks for %q", photo.ID)
	}
	return pts, nil
}

// readCaptures decodes r into one photo per capture. Ingestion and
// fallback resolution happen when the boundary requests each photo.
func readCaptures(r io.Reader, mirrored bool) (*decodedCaptures, error) {
	var in captureFile
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&in); err != nil {
		return nil, fmt.Errorf("decode captures: %w", err)
	}
	d := &decodedCaptures{
		photos: make([]landmark.Photo, 0, len(in.Captures)),
		points: make(map[string][]geometry.Point3D, len(in.Captures)),
	}
	for i, pts := range in.Captures {
		id := fmt.Sprintf("capture %d", i)
		d.photos = append(d.photos, landmark.Photo{ID: id, Mirrored: mirrored})
		d.points[id] = pts
	}
	return d, nil
}
