// Package regions holds the per-region metric calculators: eyebrows,
// eyes, nose, lips and jawline, plus the optional face shape plug-in.
//
// Each calculator is a pure function from a landmark set to a Calculation:
// a flat list of raw metrics, the 0-10 sub-scores derived from them, a
// weighted overall score and an asymmetry level. Every score is
// "higher is better": 10 means symmetric or ideally proportioned. Raw
// asymmetry magnitudes appear only as metrics.
//
// Calculators resolve a fixed set of named landmarks and fail with
// landmark.MissingLandmarkError when one is absent. Substituting nearby
// points is the landmark provider boundary's job, not theirs.
//
// Input is expected in the normalized frame (see package normalize) but
// every scored quantity is a ratio or an angle, so raw coordinates give
// the same scores.
package regions
