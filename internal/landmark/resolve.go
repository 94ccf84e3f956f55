package landmark

import "github.com/banshee-data/facescore/internal/geometry"

// SearchPredicate selects a substitute landmark when the preferred index
// is absent.
type SearchPredicate func(p geometry.Point3D) bool

// IndexIs matches exactly one detector index.
func IndexIs(index int) SearchPredicate {
	return func(p geometry.Point3D) bool { return p.Index == index }
}

// Within matches any landmark within radius pixels of target in the
// image plane.
func Within(target geometry.Point3D, radius float64) SearchPredicate {
	return func(p geometry.Point3D) bool {
		return geometry.Distance2D(p, target) <= radius
	}
}

// Resolve returns the preferred landmark if present; otherwise the first
// landmark (in index order) accepted by search, relabelled with the
// preferred index. Without a match it returns a MissingLandmarkError.
func (s *Set) Resolve(preferred int, search SearchPredicate) (geometry.Point3D, error) {
	if p, ok := s.Get(preferred); ok {
		return p, nil
	}
	if search != nil {
		for _, p := range s.Points() {
			if search(p) {
				p.Index = preferred
				return p, nil
			}
		}
	}
	return geometry.Point3D{}, &MissingLandmarkError{Index: preferred, Name: Name(preferred)}
}

// Fallback lists neighbouring mesh indices that can stand in for a
// critical landmark, in priority order.
type Fallback struct {
	Index      int
	Candidates []int
}

// DefaultFallbacks covers the reference and critical landmarks with their
// nearest mesh neighbours.
func DefaultFallbacks() []Fallback {
	return []Fallback{
		{Index: NoseTip, Candidates: []int{4, 5}},
		{Index: Subnasale, Candidates: []int{94, 164}},
		{Index: Nasion, Candidates: []int{NoseBridge, 197}},
		{Index: Glabella, Candidates: []int{8, 151}},
		{Index: ForeheadTop, Candidates: []int{151, 109}},
		{Index: Chin, Candidates: []int{175, 199}},
		{Index: RightEyeOuter, Candidates: []int{130, 246}},
		{Index: LeftEyeOuter, Candidates: []int{359, 466}},
		{Index: RightEyeInner, Candidates: []int{243, 155}},
		{Index: LeftEyeInner, Candidates: []int{463, 382}},
		{Index: RightEyeUpper, Candidates: []int{158, 160}},
		{Index: LeftEyeUpper, Candidates: []int{385, 387}},
		{Index: RightEyeLower, Candidates: []int{144, 153}},
		{Index: LeftEyeLower, Candidates: []int{373, 380}},
		{Index: MouthRight, Candidates: []int{76, 62}},
		{Index: MouthLeft, Candidates: []int{306, 292}},
		{Index: UpperLipTop, Candidates: []int{11, 12}},
		{Index: LowerLipBottom, Candidates: []int{16, 18}},
		{Index: RightCheek, Candidates: []int{93, 127}},
		{Index: LeftCheek, Candidates: []int{323, 356}},
	}
}

// ResolveFallbacks fills absent fallback targets from their candidates and
// returns the new set with the list of indices that were filled.
func ResolveFallbacks(s *Set, fallbacks []Fallback) (*Set, []int) {
	out := s
	var filled []int
	for _, fb := range fallbacks {
		if out.Has(fb.Index) {
			continue
		}
		for _, c := range fb.Candidates {
			p, err := out.Resolve(fb.Index, IndexIs(c))
			if err == nil {
				out = out.With(p)
				filled = append(filled, fb.Index)
				break
			}
		}
	}
	return out, filled
}
