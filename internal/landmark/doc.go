// Package landmark owns the LandmarkSet data model and the boundary to the
// external landmark detector.
//
// Responsibilities: immutable index-addressable sets, the named MediaPipe
// face mesh indices used by this module, one-time conversion of captures
// into the subject-relative convention, and fallback resolution of
// unreliable detector labels.
// Key types: Set, Provider, Boundary, Fallback.
//
// Convention: every "Right"/"Left" name is relative to the subject, never
// to the screen. Mirrored selfie captures are converted once by Ingest;
// nothing downstream mirrors again.
//
// Dependency rule: landmark depends only on geometry.
package landmark
