// Package percentile computes nearest-rank percentile summaries of historical totals.
//
// Percentiles use the empirical (nearest-rank) rule rather than linear
// interpolation: for quantile q over n sorted values the chosen index is
// clamp(ceil(q*n)-1, 0, n-1). The weighted variant returns the first value whose
// cumulative weight fraction reaches q.
package percentile

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/yourusername/totals-engine/internal/models"
)

// Quantiles reported in every summary.
const (
	QuantileLow    = 0.05
	QuantileMedian = 0.50
	QuantileHigh   = 0.95
)

// WeightedValue pairs a total with its observation weight.
type WeightedValue struct {
	Value  float64
	Weight float64
}

// Compute returns p05, median, p95, min and max of unweighted totals. The median
// averages the two middle values when the sample size is even.
func Compute(segmentKey string, totals []float64) (models.SegmentStats, error) {
	if len(totals) == 0 {
		return models.SegmentStats{}, &models.EmptyInputError{Op: "percentile.Compute"}
	}
	if err := checkFinite(totals); err != nil {
		return models.SegmentStats{}, err
	}

	sorted := make([]float64, len(totals))
	copy(sorted, totals)
	sort.Float64s(sorted)

	n := len(sorted)
	return models.SegmentStats{
		SegmentKey: segmentKey,
		NGames:     n,
		P05:        stat.Quantile(QuantileLow, stat.Empirical, sorted, nil),
		P95:        stat.Quantile(QuantileHigh, stat.Empirical, sorted, nil),
		Median:     median(sorted),
		Min:        sorted[0],
		Max:        sorted[n-1],
	}, nil
}

// ComputeWeighted returns weighted percentiles. Every weight must be positive.
func ComputeWeighted(segmentKey string, values []WeightedValue) (models.SegmentStats, error) {
	if len(values) == 0 {
		return models.SegmentStats{}, &models.EmptyInputError{Op: "percentile.ComputeWeighted"}
	}

	sorted := make([]WeightedValue, len(values))
	copy(sorted, values)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Value < sorted[j].Value })

	x := make([]float64, len(sorted))
	weights := make([]float64, len(sorted))
	for i, v := range sorted {
		if !(v.Weight > 0) || math.IsInf(v.Weight, 0) {
			return models.SegmentStats{}, fmt.Errorf("%w: got %v", models.ErrInvalidWeight, v.Weight)
		}
		x[i] = v.Value
		weights[i] = v.Weight
	}
	if err := checkFinite(x); err != nil {
		return models.SegmentStats{}, err
	}

	n := len(x)
	return models.SegmentStats{
		SegmentKey: segmentKey,
		NGames:     n,
		P05:        stat.Quantile(QuantileLow, stat.Empirical, x, weights),
		P95:        stat.Quantile(QuantileHigh, stat.Empirical, x, weights),
		Median:     stat.Quantile(QuantileMedian, stat.Empirical, x, weights),
		Min:        x[0],
		Max:        x[n-1],
	}, nil
}

// nearestRankIndex returns the index stat.Empirical selects for quantile q over
// n sorted values.
func nearestRankIndex(q float64, n int) int {
	if n <= 0 {
		return 0
	}
	idx := int(math.Ceil(q*float64(n))) - 1
	if idx < 0 {
		return 0
	}
	if idx > n-1 {
		return n - 1
	}
	return idx
}

func median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

func checkFinite(values []float64) error {
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("percentile: observation %d is not a finite number", i)
		}
	}
	return nil
}
