package stats

const (
	ClassBelowExpectations   = "below_expectations"
	ClassMeetsExpectations   = "meets_expectations"
	ClassExceedsExpectations = "exceeds_expectations"
	ClassExceptional         = "exceptional"
)

// Band is inclusive on Min. Bands must be ordered by ascending Min.
type Band struct {
	Label string
	Min   float64
}

// PerformanceBands: <60, 60-74, 75-89, >=90.
var PerformanceBands = []Band{
	{Label: ClassBelowExpectations},
	{Label: ClassMeetsExpectations, Min: 60},
	{Label: ClassExceedsExpectations, Min: 75},
	{Label: ClassExceptional, Min: 90},
}

// Classify returns the label of the highest band whose lower bound is <= score.
// Scores below the first band fall into the first band.
func Classify(score float64, bands []Band) string {
	if len(bands) == 0 {
		return ""
	}
	label := bands[0].Label
	for _, band := range bands[1:] {
		if score < band.Min {
			break
		}
		label = band.Label
	}
	return label
}

// ClassHistogram counts scores per band label, with every label present.
func ClassHistogram(scores []float64, bands []Band) map[string]int {
	out := make(map[string]int, len(bands))
	for _, band := range bands {
		out[band.Label] = 0
	}
	for _, score := range scores {
		out[Classify(score, bands)]++
	}
	return out
}
