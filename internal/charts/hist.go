package charts

import (
	"fmt"
	"io"

	"github.com/KaramelBytes/listenlens/internal/analysis"
	"github.com/KaramelBytes/listenlens/internal/dataset"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// HistBins is the bin count of every distribution panel.
const HistBins = 30

// kdePoints is the resolution of the density overlay.
const kdePoints = 200

// HistPanel is a count histogram with a Gaussian KDE overlay scaled to counts.
type HistPanel struct {
	Name    string
	Caption string
	XLabel  string
	Values  []float64
	Color   string
}

func (h *HistPanel) File() string  { return h.Name }
func (h *HistPanel) Title() string { return h.Caption }

func (h *HistPanel) Render(w io.Writer, size Size) error {
	if len(h.Values) == 0 {
		return fmt.Errorf("%s: %w", h.Name, dataset.ErrNoObservations)
	}
	bins, err := analysis.Histogram(h.Values, HistBins)
	if err != nil {
		return fmt.Errorf("histogram %s: %w", h.Name, err)
	}
	fill := Named(h.Color)
	hb := make([]plotter.HistogramBin, len(bins))
	for i, b := range bins {
		hb[i] = plotter.HistogramBin{Min: b.Lo, Max: b.Hi, Weight: float64(b.Count)}
	}
	binW := bins[0].Hi - bins[0].Lo
	p := newPlot(h.Caption, h.XLabel, "Frequency")
	p.Add(&plotter.Histogram{
		Bins:      hb,
		Width:     binW,
		FillColor: fill,
		LineStyle: plotter.DefaultLineStyle,
	})

	lo, hi := bins[0].Lo, bins[len(bins)-1].Hi
	xs, ys, err := analysis.KDE(h.Values, lo, hi, kdePoints, float64(len(h.Values))*binW)
	if err != nil {
		return fmt.Errorf("kde %s: %w", h.Name, err)
	}
	if xs != nil {
		pts := make(plotter.XYs, len(xs))
		for i := range xs {
			pts[i].X, pts[i].Y = xs[i], ys[i]
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("kde line %s: %w", h.Name, err)
		}
		line.LineStyle.Color = Darken(fill, 0.6)
		line.LineStyle.Width = vg.Points(2)
		p.Add(line)
	}
	return writePNG(p, w, size)
}
