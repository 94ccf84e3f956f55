// Package metrics maps loosely structured per-region analysis documents
// into canonical RegionMetrics records and compares snapshots of those
// records over time.
//
// Narrative documents come from an external generator whose schema drifts
// between releases, so every field is looked up along an ordered list of
// JSONPath fallbacks and coerced leniently. Nothing in this package returns
// an error: a field that cannot be resolved is simply absent.
//
// Dependency rules: metrics may import regions for the region vocabulary
// but never the geometry or scoring packages.
package metrics
