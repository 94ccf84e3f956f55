package landmark

import (
	"sort"

	"github.com/banshee-data/facescore/internal/geometry"
)

// MeshSize is the number of points in a full face mesh.
const MeshSize = 468

// MaxIndex is the largest valid landmark index.
const MaxIndex = MeshSize - 1

// CanvasSize is the side of the square pixel canvas the detector reports
// coordinates on.
const CanvasSize = 1000.0

// Set is an immutable, possibly sparse collection of landmarks keyed by
// index. The zero value is an empty set.
type Set struct {
	points  map[int]geometry.Point3D
	indices []int // sorted
}

// NewSet builds a set, rejecting duplicate and out-of-range indices.
func NewSet(points []geometry.Point3D) (*Set, error) {
	s := &Set{
		points:  make(map[int]geometry.Point3D, len(points)),
		indices: make([]int, 0, len(points)),
	}
	for _, p := range points {
		if p.Index < 0 || p.Index > MaxIndex {
			return nil, &IndexRangeError{Index: p.Index}
		}
		if _, dup := s.points[p.Index]; dup {
			return nil, &DuplicateIndexError{Index: p.Index}
		}
		s.points[p.Index] = p
		s.indices = append(s.indices, p.Index)
	}
	sort.Ints(s.indices)
	return s, nil
}

// MustNewSet is NewSet for fixtures; it panics on invalid input.
func MustNewSet(points []geometry.Point3D) *Set {
	s, err := NewSet(points)
	if err != nil {
		panic(err)
	}
	return s
}

// Len returns the number of landmarks present.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.indices)
}

// Get returns the landmark at index and whether it is present.
func (s *Set) Get(index int) (geometry.Point3D, bool) {
	if s == nil {
		return geometry.Point3D{}, false
	}
	p, ok := s.points[index]
	return p, ok
}

// Has reports whether index is present.
func (s *Set) Has(index int) bool {
	_, ok := s.Get(index)
	return ok
}

// Require returns the landmark at index or a MissingLandmarkError naming it.
func (s *Set) Require(index int) (geometry.Point3D, error) {
	p, ok := s.Get(index)
	if !ok {
		return geometry.Point3D{}, &MissingLandmarkError{Index: index, Name: Name(index)}
	}
	return p, nil
}

// Indices returns the present indices in ascending order.
func (s *Set) Indices() []int {
	if s == nil {
		return nil
	}
	out := make([]int, len(s.indices))
	copy(out, s.indices)
	return out
}

// Points returns the landmarks ordered by index.
func (s *Set) Points() []geometry.Point3D {
	if s == nil {
		return nil
	}
	out := make([]geometry.Point3D, len(s.indices))
	for i, idx := range s.indices {
		out[i] = s.points[idx]
	}
	return out
}

// Missing returns the subset of indices that are not present.
func (s *Set) Missing(indices []int) []int {
	var missing []int
	for _, idx := range indices {
		if !s.Has(idx) {
			missing = append(missing, idx)
		}
	}
	return missing
}

// Map returns a new set with fn applied to every landmark. fn must keep
// the index unchanged.
func (s *Set) Map(fn func(geometry.Point3D) geometry.Point3D) *Set {
	out := &Set{
		points:  make(map[int]geometry.Point3D, s.Len()),
		indices: s.Indices(),
	}
	for _, idx := range out.indices {
		p := fn(s.points[idx])
		p.Index = idx
		out.points[idx] = p
	}
	return out
}

// With returns a copy of the set with p added or replaced.
func (s *Set) With(p geometry.Point3D) *Set {
	pts := s.Points()
	replaced := false
	for i := range pts {
		if pts[i].Index == p.Index {
			pts[i] = p
			replaced = true
		}
	}
	if !replaced {
		pts = append(pts, p)
	}
	return MustNewSet(pts)
}

// Without returns a copy of the set with the given indices removed.
func (s *Set) Without(indices ...int) *Set {
	drop := make(map[int]bool, len(indices))
	for _, idx := range indices {
		drop[idx] = true
	}
	pts := make([]geometry.Point3D, 0, s.Len())
	for _, p := range s.Points() {
		if !drop[p.Index] {
			pts = append(pts, p)
		}
	}
	return MustNewSet(pts)
}
