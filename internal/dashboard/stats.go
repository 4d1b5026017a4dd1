package dashboard

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Bin is one equal-width histogram bucket. Lower is inclusive and Upper is
// exclusive except for the last bucket.
type Bin struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Count int     `json:"count"`
}

// Box is the five number summary drawn by a box plot.
type Box struct {
	Group  string  `json:"group"`
	N      int     `json:"n"`
	Min    float64 `json:"min"`
	Q1     float64 `json:"q1"`
	Median float64 `json:"median"`
	Q3     float64 `json:"q3"`
	Max    float64 `json:"max"`
}

// Matrix is a square, symmetric table of pairwise correlations.
type Matrix struct {
	Labels []string    `json:"labels"`
	Values [][]float64 `json:"values"`
}

func mean(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	return stat.Mean(x, nil)
}

func sum(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	return floats.Sum(x)
}

func sorted(x []float64) []float64 {
	out := append([]float64(nil), x...)
	sort.Float64s(out)
	return out
}

// histogram splits the range of x into n equal-width bins.
func histogram(x []float64, n int) []Bin {
	if len(x) == 0 || n <= 0 {
		return nil
	}
	xs := sorted(x)
	lo, hi := xs[0], xs[len(xs)-1]
	if hi <= lo {
		hi = lo + 1
	}

	dividers := make([]float64, n+1)
	floats.Span(dividers, lo, hi)
	// stat.Histogram wants the last divider strictly above the max.
	dividers[n] = math.Nextafter(hi, math.Inf(1))

	counts := stat.Histogram(nil, dividers, xs, nil)
	bins := make([]Bin, n)
	for i := range bins {
		bins[i] = Bin{Lower: dividers[i], Upper: dividers[i+1], Count: int(counts[i])}
	}
	bins[n-1].Upper = hi
	return bins
}

func boxStats(group string, x []float64) Box {
	if len(x) == 0 {
		return Box{Group: group}
	}
	xs := sorted(x)
	return Box{
		Group:  group,
		N:      len(xs),
		Min:    xs[0],
		Q1:     linearQuantile(xs, 0.25),
		Median: linearQuantile(xs, 0.5),
		Q3:     linearQuantile(xs, 0.75),
		Max:    xs[len(xs)-1],
	}
}

// linearQuantile interpolates between the closest ranks at (n-1)*p, the
// method box plots use. stat.Quantile's LinInterp works on the empirical CDF
// and lands low for small groups. xs must be sorted.
func linearQuantile(xs []float64, p float64) float64 {
	h := float64(len(xs)-1) * p
	lo := int(math.Floor(h))
	if lo >= len(xs)-1 {
		return xs[len(xs)-1]
	}
	return xs[lo] + (h-float64(lo))*(xs[lo+1]-xs[lo])
}

// correlations computes Pearson correlations between every pair of columns.
// A column with no variance correlates as 0 with the others.
func correlations(labels []string, columns [][]float64) Matrix {
	m := Matrix{Labels: labels, Values: make([][]float64, len(columns))}
	for i := range columns {
		m.Values[i] = make([]float64, len(columns))
		for j := range columns {
			if i == j {
				m.Values[i][j] = 1
				continue
			}
			r := stat.Correlation(columns[i], columns[j], nil)
			if math.IsNaN(r) || math.IsInf(r, 0) {
				r = 0
			}
			m.Values[i][j] = r
		}
	}
	return m
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
