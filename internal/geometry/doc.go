// Package geometry is the kernel of distance, angle and ratio primitives
// over indexed facial landmarks.
//
// Coordinate convention: x grows to the right and y grows downward (image
// pixel space); z is a unitless relative depth where smaller values are
// closer to the camera.
//
// Dependency rule: geometry depends on nothing else in this module.
// Functions never panic and never return errors; nil checks and missing
// landmark handling belong to the caller.
package geometry
