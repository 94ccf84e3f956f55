// Package units provides shared constants and validation for metric units
package units

import (
	"fmt"
	"math"
	"strings"
)

// Unit constants
const (
	Ratio   = "ratio"
	Percent = "percent"
	Degrees = "deg"
	Radians = "rad"
	Pixels  = "px" // normalized-frame pixels
	Score   = "score"
)

// ValidUnits contains all valid unit values
var ValidUnits = []string{Ratio, Percent, Degrees, Radians, Pixels, Score}

// IsValid checks if the given unit is in the list of valid units
func IsValid(unit string) bool {
	for _, validUnit := range ValidUnits {
		if unit == validUnit {
			return true
		}
	}
	return false
}

// GetValidUnitsString returns a comma-separated string of valid units for error messages
func GetValidUnitsString() string {
	return strings.Join(ValidUnits, ", ")
}

// ConvertAngle converts an angle in degrees to the target units.
// Metrics store angles in degrees.
func ConvertAngle(deg float64, targetUnits string) float64 {
	switch targetUnits {
	case Radians:
		return deg * math.Pi / 180
	default:
		return deg
	}
}

// Format renders a metric value with its unit suffix for display.
func Format(value float64, unit string) string {
	switch unit {
	case Percent:
		return fmt.Sprintf("%.1f%%", value)
	case Degrees:
		return fmt.Sprintf("%.1f°", value)
	case Radians:
		return fmt.Sprintf("%.3f rad", value)
	case Pixels:
		return fmt.Sprintf("%.1f px", value)
	case Score:
		return fmt.Sprintf("%.1f/10", value)
	default:
		return fmt.Sprintf("%.3f", value)
	}
}
