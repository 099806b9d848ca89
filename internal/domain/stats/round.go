package stats

import "math"

// Round rounds half up (toward positive infinity), matching the rounding used by
// historical reports.
func Round(value float64, decimals int) float64 {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0
	}
	factor := math.Pow(10, float64(decimals))
	return math.Floor(value*factor+0.5) / factor
}

func RoundInt(value float64) int {
	return int(Round(value, 0))
}

// Percent returns round(part/total*100), or 0 when total is 0.
func Percent(part, total int) int {
	if total <= 0 {
		return 0
	}
	return RoundInt(float64(part) / float64(total) * 100)
}

// Ratio returns part/total as a 0..100 percentage without rounding, or 0 when total is 0.
func Ratio(part, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}
