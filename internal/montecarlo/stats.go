package montecarlo

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Band summarizes one metric across trials.
type Band struct {
	Mean  float64 `json:"mean"`
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// Width is Upper - Lower.
func (b Band) Width() float64 {
	return b.Upper - b.Lower
}

// bandOf computes the mean and empirical lower/upper percentiles of values.
// values is not modified. The band always satisfies Lower ≤ Mean ≤ Upper: the
// mean is pinned inside the sample range against rounding, and a skewed
// sample whose mean falls outside the percentile band widens the band to it.
func bandOf(values []float64, lowerPct, upperPct float64) Band {
	if len(values) == 0 {
		return Band{}
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mean := stat.Mean(sorted, nil)
	mean = math.Max(sorted[0], math.Min(sorted[len(sorted)-1], mean))

	lower := stat.Quantile(lowerPct/100, stat.Empirical, sorted, nil)
	upper := stat.Quantile(upperPct/100, stat.Empirical, sorted, nil)

	return Band{
		Mean:  mean,
		Lower: math.Min(lower, mean),
		Upper: math.Max(upper, mean),
	}
}

// StdDev is the sample standard deviation of values, used for convergence
// checks on batch means.
func StdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	return stat.StdDev(values, nil)
}
