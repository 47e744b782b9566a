package pubfig

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// scottBandwidth returns the Gaussian kernel width σ·n^(-1/5).
func scottBandwidth(values []float64) float64 {
	sd := stat.StdDev(values, nil)
	if sd == 0 || math.IsNaN(sd) {
		sd = 1
	}
	return sd * math.Pow(float64(len(values)), -0.2)
}

// kdeCurve evaluates a Gaussian kernel density estimate on n points that
// extend cut bandwidths past the data on both sides.
func kdeCurve(values []float64, n int, cut float64) (grid, dens []float64) {
	bw := scottBandwidth(values)
	lo := floats.Min(values) - cut*bw
	hi := floats.Max(values) + cut*bw
	grid = make([]float64, n)
	floats.Span(grid, lo, hi)

	kernel := distuv.Normal{Mu: 0, Sigma: bw}
	dens = make([]float64, n)
	for i, x := range grid {
		var sum float64
		for _, v := range values {
			sum += kernel.Prob(x - v)
		}
		dens[i] = sum / float64(len(values))
	}
	return grid, dens
}

// quartiles returns the 25th, 50th and 75th percentiles.
func quartiles(values []float64) (q1, med, q3 float64) {
	s := append([]float64(nil), values...)
	sort.Float64s(s)
	return stat.Quantile(0.25, stat.LinInterp, s, nil),
		stat.Quantile(0.5, stat.LinInterp, s, nil),
		stat.Quantile(0.75, stat.LinInterp, s, nil)
}

// finite drops NaN and infinite values.
func finite(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out = append(out, v)
		}
	}
	return out
}
