package analysis

import (
	"math"

	"github.com/KaramelBytes/listenlens/internal/dataset"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Box summarizes a sample the way a box plot draws it.
type Box struct {
	N            int
	Q1           float64
	Median       float64
	Q3           float64
	LowerWhisker float64 // smallest value >= Q1 - 1.5*IQR
	UpperWhisker float64 // largest value <= Q3 + 1.5*IQR
	Outliers     []float64
}

// IQR returns Q3 - Q1.
func (b Box) IQR() float64 { return b.Q3 - b.Q1 }

// BoxStats computes quartiles, 1.5*IQR whiskers and fliers.
func BoxStats(vals []float64) (Box, error) {
	if len(vals) == 0 {
		return Box{}, dataset.ErrNoObservations
	}
	s := sortedCopy(vals)
	b := Box{N: len(s), Q1: quantile(s, 0.25), Median: quantile(s, 0.5), Q3: quantile(s, 0.75)}
	lo, hi := b.Q1-1.5*b.IQR(), b.Q3+1.5*b.IQR()
	b.LowerWhisker, b.UpperWhisker = b.Q1, b.Q3
	first := true
	for _, v := range s {
		if v < lo || v > hi {
			b.Outliers = append(b.Outliers, v)
			continue
		}
		if first {
			b.LowerWhisker = v
			first = false
		}
		b.UpperWhisker = v
	}
	return b, nil
}

// Bin is one histogram bucket [Lo, Hi); the last bin also includes Hi.
type Bin struct {
	Lo, Hi float64
	Count  int
}

// Histogram splits [min, max] into n equal-width bins. A constant sample is widened
// to [x-0.5, x+0.5].
func Histogram(vals []float64, n int) ([]Bin, error) {
	if len(vals) == 0 {
		return nil, dataset.ErrNoObservations
	}
	if n <= 0 {
		n = 10
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range vals {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}
	width := (hi - lo) / float64(n)
	bins := make([]Bin, n)
	for i := range bins {
		bins[i].Lo = lo + float64(i)*width
		bins[i].Hi = lo + float64(i+1)*width
	}
	bins[n-1].Hi = hi
	for _, v := range vals {
		i := int((v - lo) / width)
		if i >= n {
			i = n - 1
		}
		if i < 0 {
			i = 0
		}
		bins[i].Count++
	}
	return bins, nil
}

// ScottBandwidth is n^(-1/5) times the sample standard deviation.
func ScottBandwidth(vals []float64) float64 {
	if len(vals) < 2 {
		return 0
	}
	return math.Pow(float64(len(vals)), -0.2) * stat.StdDev(vals, nil)
}

// KDE evaluates a Gaussian kernel density estimate at points evenly spaced over
// [lo, hi]. The density is multiplied by scale, which lets callers overlay it on
// a count histogram (scale = n * binWidth). A zero bandwidth yields no curve.
func KDE(vals []float64, lo, hi float64, points int, scale float64) (xs, ys []float64, err error) {
	if len(vals) == 0 {
		return nil, nil, dataset.ErrNoObservations
	}
	bw := ScottBandwidth(vals)
	if bw == 0 || math.IsNaN(bw) {
		return nil, nil, nil
	}
	if points < 2 {
		points = 2
	}
	xs = make([]float64, points)
	ys = make([]float64, points)
	step := (hi - lo) / float64(points-1)
	n := float64(len(vals))
	for i := range xs {
		x := lo + float64(i)*step
		var d float64
		for _, v := range vals {
			d += distuv.Normal{Mu: v, Sigma: bw}.Prob(x)
		}
		xs[i] = x
		ys[i] = d / n * scale
	}
	return xs, ys, nil
}
