// Package normalize places one capture's landmarks in a canonical frame:
// eye line horizontal, nose tip on a fixed anchor and a fixed inter-ocular
// distance. This removes head roll, framing and camera distance so
// captures from different photos and devices are comparable.
//
// Dependency rule: normalize depends on geometry and landmark only.
package normalize
