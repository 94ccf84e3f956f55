package metrics

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/AsaiYusuke/jsonpath"
	"github.com/spf13/cast"

	"github.com/banshee-data/facescore/internal/regions"
)

// Source records who produced a document.
type Source string

const (
	SourceDeterministic Source = "deterministic"
	SourceNarrative     Source = "narrative"
)

// RegionMetrics is the canonical comparison record of one region. Pointer
// fields are nil when the document did not carry a usable value.
type RegionMetrics struct {
	Region            regions.Region     `json:"region"`
	OverallScore      *float64           `json:"overall_score,omitempty"`
	SymmetryScore     *float64           `json:"symmetry_score,omitempty"`
	AsymmetryLevel    *string            `json:"asymmetry_level,omitempty"`
	Classification    *string            `json:"classification,omitempty"`
	Details           map[string]float64 `json:"details,omitempty"`
	CalculationSource Source             `json:"calculation_source"`
}

// Empty reports whether nothing was resolved.
func (m RegionMetrics) Empty() bool {
	return m.OverallScore == nil && m.SymmetryScore == nil && m.AsymmetryLevel == nil &&
		m.Classification == nil && len(m.Details) == 0
}

// regionPrefixes are the containers a region object has been found under.
var regionPrefixes = []string{"$.%s", "$.regions.%s", "$.analysis.%s", "$.results.%s", "$.%s_analysis"}

var (
	overallFields        = []string{"overall_score", "overallScore", "score", "rating"}
	symmetryFields       = []string{"symmetry_score", "symmetryScore", "symmetry"}
	asymmetryLevelFields = []string{"asymmetry_level", "asymmetryLevel", "asymmetry"}
	classificationFields = []string{"classification", "shape", "type"}
)

// detailFields lists, per region, the canonical detail name and the keys
// it has appeared under.
var detailFields = map[regions.Region][]detailField{
	regions.RegionEyebrows: {
		{"height_difference", []string{"metrics.height_difference", "height_difference", "heightDifference"}},
		{"arch_difference", []string{"metrics.arch_difference", "arch_difference", "archDifference", "arch_height_difference"}},
		{"brow_eye_ratio", []string{"metrics.brow_eye_ratio", "brow_eye_ratio", "browEyeRatio", "brow_eye_distance"}},
		{"thickness_asymmetry", []string{"metrics.thickness_asymmetry", "thickness_asymmetry", "thicknessAsymmetry"}},
	},
	regions.RegionEyes: {
		{"canthal_tilt_difference", []string{"metrics.canthal_tilt_difference", "canthal_tilt_difference", "canthalTiltDifference", "tilt_difference"}},
		{"mean_canthal_tilt", []string{"metrics.mean_canthal_tilt", "mean_canthal_tilt", "canthal_tilt", "canthalTilt"}},
		{"intercanthal_ratio", []string{"metrics.intercanthal_ratio", "intercanthal_ratio", "intercanthalRatio", "eye_spacing_ratio"}},
		{"size_asymmetry", []string{"metrics.size_asymmetry", "size_asymmetry", "sizeAsymmetry"}},
	},
	regions.RegionNose: {
		{"width_ratio", []string{"metrics.width_ratio", "width_ratio", "widthRatio", "nose_width_ratio"}},
		{"length_ratio", []string{"metrics.length_ratio", "length_ratio", "lengthRatio", "nose_length_ratio"}},
		{"axis_angle", []string{"metrics.axis_angle", "axis_angle", "axisAngle", "deviation_angle"}},
		{"projection_ratio", []string{"metrics.projection_ratio", "projection_ratio", "projectionRatio"}},
	},
	regions.RegionLips: {
		{"lip_ratio", []string{"metrics.lip_ratio", "lip_ratio", "lipRatio", "lower_upper_ratio"}},
		{"corner_height_difference", []string{"metrics.corner_height_difference", "corner_height_difference", "cornerHeightDifference"}},
		{"mouth_nose_ratio", []string{"metrics.mouth_nose_ratio", "mouth_nose_ratio", "mouthNoseRatio"}},
		{"cupid_height_difference", []string{"metrics.cupid_height_difference", "cupid_height_difference", "cupidHeightDifference"}},
	},
	regions.RegionJawline: {
		{"mean_gonial_angle", []string{"metrics.mean_gonial_angle", "mean_gonial_angle", "gonial_angle", "gonialAngle"}},
		{"contour_asymmetry", []string{"metrics.contour_asymmetry", "contour_asymmetry", "contourAsymmetry"}},
		{"chin_deviation", []string{"metrics.chin_deviation", "chin_deviation", "chinDeviation"}},
		{"jaw_width_ratio", []string{"metrics.jaw_width_ratio", "jaw_width_ratio", "jawWidthRatio"}},
	},
}

type detailField struct {
	name string
	keys []string
}

var validLevels = map[string]bool{"NONE": true, "MILD": true, "MODERATE": true, "SEVERE": true}

// Parse decodes a JSON document for the Normalize functions. Invalid JSON
// yields nil, which normalizes to empty records.
func Parse(data []byte) any {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil
	}
	return doc
}

// DocumentSource reports the producer of doc. Only documents explicitly
// tagged deterministic are trusted as such.
func DocumentSource(doc any) Source {
	if v, ok := lookup(doc, "$.calculation_source", "$.calculationSource", "$.metadata.calculation_source"); ok {
		if s, ok := v.(string); ok && Source(strings.ToLower(strings.TrimSpace(s))) == SourceDeterministic {
			return SourceDeterministic
		}
	}
	return SourceNarrative
}

// NormalizeEyebrows extracts the eyebrow record of doc.
func NormalizeEyebrows(doc any) RegionMetrics { return normalizeRegion(doc, regions.RegionEyebrows) }

// NormalizeEyes extracts the eye record of doc.
func NormalizeEyes(doc any) RegionMetrics { return normalizeRegion(doc, regions.RegionEyes) }

// NormalizeNose extracts the nose record of doc.
func NormalizeNose(doc any) RegionMetrics { return normalizeRegion(doc, regions.RegionNose) }

// NormalizeLips extracts the lip record of doc. The generator has also
// called this region "mouth".
func NormalizeLips(doc any) RegionMetrics {
	m := normalizeRegion(doc, regions.RegionLips)
	if m.Empty() {
		return normalizeRegionAs(doc, regions.RegionLips, "mouth")
	}
	return m
}

// NormalizeJawline extracts the jawline record of doc. "jaw" is accepted
// as an alias.
func NormalizeJawline(doc any) RegionMetrics {
	m := normalizeRegion(doc, regions.RegionJawline)
	if m.Empty() {
		return normalizeRegionAs(doc, regions.RegionJawline, "jaw")
	}
	return m
}

var normalizers = map[regions.Region]func(any) RegionMetrics{
	regions.RegionEyebrows: NormalizeEyebrows,
	regions.RegionEyes:     NormalizeEyes,
	regions.RegionNose:     NormalizeNose,
	regions.RegionLips:     NormalizeLips,
	regions.RegionJawline:  NormalizeJawline,
}

// NormalizeAll runs every region normalizer and keeps the non-empty
// records.
func NormalizeAll(doc any) map[regions.Region]RegionMetrics {
	out := make(map[regions.Region]RegionMetrics, len(normalizers))
	for r, fn := range normalizers {
		if m := fn(doc); !m.Empty() {
			out[r] = m
		}
	}
	return out
}

func normalizeRegion(doc any, region regions.Region) RegionMetrics {
	return normalizeRegionAs(doc, region, string(region))
}

func normalizeRegionAs(doc any, region regions.Region, key string) RegionMetrics {
	m := RegionMetrics{Region: region, CalculationSource: DocumentSource(doc)}
	if doc == nil {
		return m
	}
	if v, ok := lookupScore(doc, key, overallFields); ok {
		m.OverallScore = &v
	} else if v, ok := lookupBareScore(doc, key); ok {
		m.OverallScore = &v
	}
	if v, ok := lookupScore(doc, key, symmetryFields); ok {
		m.SymmetryScore = &v
	}
	if v, ok := lookup(doc, paths(key, asymmetryLevelFields)...); ok {
		if s, ok := v.(string); ok {
			level := strings.ToUpper(strings.TrimSpace(s))
			if validLevels[level] {
				m.AsymmetryLevel = &level
			}
		}
	}
	if v, ok := lookup(doc, paths(key, classificationFields)...); ok {
		if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
			c := strings.TrimSpace(s)
			m.Classification = &c
		}
	}
	for _, f := range detailFields[region] {
		v, ok := lookup(doc, paths(key, f.keys)...)
		if !ok {
			continue
		}
		n, ok := toNumber(v)
		if !ok {
			continue
		}
		if m.Details == nil {
			m.Details = make(map[string]float64)
		}
		m.Details[f.name] = n
	}
	return m
}

// lookupBareScore accepts a region whose value is the score itself, as in
// {"eyes": "8/10"}.
func lookupBareScore(doc any, key string) (float64, bool) {
	for _, prefix := range regionPrefixes {
		v, ok := lookup(doc, sprintfPath(prefix, key))
		if !ok {
			continue
		}
		switch v.(type) {
		case map[string]any, []any:
			continue
		}
		return toScore(v)
	}
	return 0, false
}

func lookupScore(doc any, key string, fields []string) (float64, bool) {
	for _, p := range paths(key, fields) {
		if v, ok := lookup(doc, p); ok {
			if n, ok := toScore(v); ok {
				return n, true
			}
		}
	}
	return 0, false
}

// paths expands field keys under every region container, in priority
// order: all fields of the first container before the next container.
func paths(key string, fields []string) []string {
	out := make([]string, 0, len(regionPrefixes)*len(fields))
	for _, prefix := range regionPrefixes {
		base := sprintfPath(prefix, key)
		for _, f := range fields {
			out = append(out, base+"."+f)
		}
	}
	return out
}

func sprintfPath(prefix, key string) string {
	return strings.Replace(prefix, "%s", key, 1)
}

// lookup returns the first non-null value found along paths.
func lookup(doc any, paths ...string) (any, bool) {
	if doc == nil {
		return nil, false
	}
	for _, p := range paths {
		got, err := jsonpath.Retrieve(p, doc)
		if err != nil || len(got) == 0 || got[0] == nil {
			continue
		}
		return got[0], true
	}
	return nil, false
}

// toScore coerces v onto the 0-10 scale. "7.5/10" and "75%" forms are
// rescaled, as are bare numbers in (10, 100]. Anything else outside
// [0, 10] is rejected.
func toScore(v any) (float64, bool) {
	if s, ok := v.(string); ok {
		s = strings.TrimSpace(s)
		if num, den, found := strings.Cut(s, "/"); found {
			n, okN := toNumber(num)
			d, okD := toNumber(den)
			if !okN || !okD || d <= 0 {
				return 0, false
			}
			return inScoreRange(n * 10 / d)
		}
		if pct, found := strings.CutSuffix(s, "%"); found {
			n, ok := toNumber(pct)
			if !ok {
				return 0, false
			}
			return inScoreRange(n / 10)
		}
	}
	n, ok := toNumber(v)
	if !ok {
		return 0, false
	}
	if n > 10 && n <= 100 {
		n /= 10
	}
	return inScoreRange(n)
}

func inScoreRange(n float64) (float64, bool) {
	if n < 0 || n > 10 {
		return 0, false
	}
	return n, true
}

// toNumber coerces numbers and numeric strings. Booleans and nulls are
// not numbers here even though cast would accept them.
func toNumber(v any) (float64, bool) {
	switch t := v.(type) {
	case nil, bool:
		return 0, false
	case string:
		t = strings.TrimSpace(t)
		if t == "" {
			return 0, false
		}
		v = strings.TrimSuffix(t, "%")
	}
	n, err := cast.ToFloat64E(v)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}
