package charts

import (
	"fmt"
	"io"

	"github.com/KaramelBytes/listenlens/internal/analysis"
	"github.com/KaramelBytes/listenlens/internal/dataset"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// GroupedBar is a count plot split by a hue variable: for each X category one bar
// per hue level, side by side.
type GroupedBar struct {
	Name         string
	Caption      string
	XLabel       string
	Counts       *analysis.CrossTab
	Palette      string
	RotateLabels bool
}

func (g *GroupedBar) File() string  { return g.Name }
func (g *GroupedBar) Title() string { return g.Caption }

func (g *GroupedBar) Render(w io.Writer, size Size) error {
	ct := g.Counts
	if ct == nil || len(ct.Rows) == 0 || len(ct.Cols) == 0 {
		return fmt.Errorf("%s: %w", g.Name, dataset.ErrNoObservations)
	}
	p := newPlot(g.Caption, g.XLabel, "Count")
	colors := Palette(g.Palette, len(ct.Cols))

	// nominal categories sit one unit apart; share 80% of that slot between hues
	slot := length(size.Width) * 0.8 / vg.Length(len(ct.Rows))
	barW := slot * 0.8 / vg.Length(len(ct.Cols))
	for j, hue := range ct.Cols {
		vals := make(plotter.Values, len(ct.Rows))
		for i, n := range ct.Column(j) {
			vals[i] = float64(n)
		}
		bars, err := plotter.NewBarChart(vals, barW)
		if err != nil {
			return fmt.Errorf("bars %s/%s: %w", g.Name, hue, err)
		}
		bars.Color = colors[j]
		bars.LineStyle.Width = 0
		bars.Offset = vg.Length(float64(j)-float64(len(ct.Cols)-1)/2) * barW
		p.Add(bars)
		p.Legend.Add(hue, bars)
	}
	p.Legend.Top = true
	p.NominalX(ct.Rows...)
	if g.RotateLabels {
		rotateTicks(p)
	}
	return writePNG(p, w, size)
}
