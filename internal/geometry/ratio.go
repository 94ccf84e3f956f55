package geometry

import "math"

// Ratio returns value/reference, or 0 when the reference is zero.
func Ratio(value, reference float64) float64 {
	if reference == 0 {
		return 0
	}
	return value / reference
}

// PercentOf expresses value as a percentage of reference, for example a
// feature width as a percentage of the face width. Zero reference gives 0.
func PercentOf(value, reference float64) float64 {
	return Ratio(value, reference) * 100
}

// RelativeDifference is |a-b| divided by their mean; 0 when both are 0.
func RelativeDifference(a, b float64) float64 {
	return Ratio(math.Abs(a-b), (math.Abs(a)+math.Abs(b))/2)
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// Round1 rounds to one decimal place.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
