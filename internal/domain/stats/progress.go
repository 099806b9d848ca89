package stats

type Weighted struct {
	Value  float64
	Weight float64
}

// WeightedProgress is Σ(value·weight)/Σ(weight), 0 when the total weight is 0.
func WeightedProgress(items []Weighted) float64 {
	var total, weighted float64
	for _, item := range items {
		weighted += item.Value * item.Weight
		total += item.Weight
	}
	if total == 0 {
		return 0
	}
	return weighted / total
}

func ValidateWeights(items []Weighted) error {
	for _, item := range items {
		if item.Weight < 0 {
			return ErrNegativeWeight
		}
	}
	return nil
}
