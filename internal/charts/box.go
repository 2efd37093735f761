package charts

import (
	"fmt"
	"io"

	"github.com/KaramelBytes/listenlens/internal/analysis"
	"github.com/KaramelBytes/listenlens/internal/dataset"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// BoxPanel draws one box per group with 1.5*IQR whiskers.
type BoxPanel struct {
	Name    string
	Caption string
	XLabel  string
	YLabel  string
	Groups  []analysis.Group
	Palette string
}

func (b *BoxPanel) File() string  { return b.Name }
func (b *BoxPanel) Title() string { return b.Caption }

func (b *BoxPanel) Render(w io.Writer, size Size) error {
	if len(b.Groups) == 0 {
		return fmt.Errorf("%s: %w", b.Name, dataset.ErrNoObservations)
	}
	p := newPlot(b.Caption, b.XLabel, b.YLabel)
	colors := Palette(b.Palette, len(b.Groups))
	slot := length(size.Width) * 0.8 / vg.Length(len(b.Groups))
	boxW := slot * 0.6
	if limit := vg.Points(120); boxW > limit {
		boxW = limit
	}
	names := make([]string, len(b.Groups))
	for i, g := range b.Groups {
		if len(g.Values) == 0 {
			return fmt.Errorf("%s/%s: %w", b.Name, g.Key, dataset.ErrNoObservations)
		}
		box, err := plotter.NewBoxPlot(boxW, float64(i), plotter.Values(g.Values))
		if err != nil {
			return fmt.Errorf("box %s/%s: %w", b.Name, g.Key, err)
		}
		box.FillColor = colors[i]
		p.Add(box)
		names[i] = g.Key
	}
	p.NominalX(names...)
	return writePNG(p, w, size)
}
