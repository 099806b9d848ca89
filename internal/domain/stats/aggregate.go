package stats

import (
	"math"
	"sort"
)

type Percentiles struct {
	P25 float64 `json:"p25"`
	P50 float64 `json:"p50"`
	P75 float64 `json:"p75"`
	P90 float64 `json:"p90"`
}

// AggregateResult keeps "no data" distinguishable: Mean and Percentiles are nil
// when Count is zero.
type AggregateResult struct {
	Scope       string       `json:"scope"`
	Metric      string       `json:"metric"`
	Count       int          `json:"count"`
	Mean        *float64     `json:"mean"`
	Percentiles *Percentiles `json:"percentiles"`
}

func Mean(values []float64) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values)), true
}

// MeanOrZero rounds the mean to the given number of decimals and falls back to 0
// for an empty input.
func MeanOrZero(values []float64, decimals int) float64 {
	mean, ok := Mean(values)
	if !ok {
		return 0
	}
	return Round(mean, decimals)
}

// Percentile uses the nearest-rank method: index = ceil(p/100*n)-1 clamped to [0,n-1].
// sorted must be in ascending order. It reports false for empty input or p
// outside [0,100].
func Percentile(sorted []float64, p float64) (float64, bool) {
	n := len(sorted)
	if n == 0 || math.IsNaN(p) || p < 0 || p > 100 {
		return 0, false
	}
	index := int(math.Ceil(p/100*float64(n))) - 1
	if index < 0 {
		index = 0
	}
	if index > n-1 {
		index = n - 1
	}
	return sorted[index], true
}

// SortedCopy returns values in ascending order without touching the input.
func SortedCopy(values []float64) []float64 {
	out := make([]float64, len(values))
	copy(out, values)
	sort.Float64s(out)
	return out
}

func ComputePercentiles(values []float64) *Percentiles {
	if len(values) == 0 {
		return nil
	}
	sorted := SortedCopy(values)
	p25, _ := Percentile(sorted, 25)
	p50, _ := Percentile(sorted, 50)
	p75, _ := Percentile(sorted, 75)
	p90, _ := Percentile(sorted, 90)
	return &Percentiles{P25: p25, P50: p50, P75: p75, P90: p90}
}

func Aggregate(scope, metric string, values []float64) AggregateResult {
	result := AggregateResult{Scope: scope, Metric: metric, Count: len(values)}
	if mean, ok := Mean(values); ok {
		result.Mean = &mean
	}
	result.Percentiles = ComputePercentiles(values)
	return result
}

// Distribution counts occurrences of each label.
func Distribution(labels []string) map[string]int {
	out := make(map[string]int, len(labels))
	for _, label := range labels {
		out[label]++
	}
	return out
}
