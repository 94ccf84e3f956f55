// Package capture fuses up to three normalized captures of one subject
// into a single denoised landmark set and grades how well the captures
// agree.
//
// Average is a pure function. Session keeps the captures of one
// multi-photo flow and recomputes the result whenever a photo is added or
// removed.
package capture
