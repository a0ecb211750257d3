package market

// #region imports
import (
	"math"
	"sort"
)

// #endregion

// #region percentile

// Percentile returns the fraction of values strictly below v, in [0, 1].
// An empty grid places everyone at the median.
func Percentile(values []float64, v float64) float64 {
	if len(values) == 0 {
		return 0.5
	}
	below := 0
	for _, x := range values {
		if x < v {
			below++
		}
	}
	return float64(below) / float64(len(values))
}

// Rank returns the sorted values, ascending. Callers use it for market
// inspection output; Percentile does not need it.
func Rank(values []float64) []float64 {
	out := make([]float64, len(values))
	copy(out, values)
	sort.Float64s(out)
	return out
}

// #endregion

// #region salary-curve

const (
	salaryFloor   = 2_000_000
	salarySpan    = 18_000_000
	salaryRoundTo = 100_000
)

// SalaryForPercentile maps a market percentile to an annual salary on a
// quadratic curve from the floor to the grid ceiling, rounded to the nearest
// hundred thousand. Percentile 0 pays the floor, percentile 1 pays
// floor+span.
func SalaryForPercentile(p float64) float64 {
	if p < 0 {
		p = 0
	}
	if p > 1 {
		p = 1
	}
	raw := salaryFloor + p*p*salarySpan
	return math.Round(raw/salaryRoundTo) * salaryRoundTo
}

// #endregion
