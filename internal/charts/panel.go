// Package charts turns the cleaned listener table into PNG figures.
package charts

import (
	"fmt"
	"io"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Size is a panel size in pixels.
type Size struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// DefaultSize matches the config defaults.
var DefaultSize = Size{Width: 800, Height: 400}

// Panel is one chart written to its own PNG file.
type Panel interface {
	// File is the output name without extension.
	File() string
	Title() string
	Render(w io.Writer, size Size) error
}

// Figure groups the panels of one analysis objective.
type Figure struct {
	ID     string
	Title  string
	Panels []Panel
}

// pixels are rendered at 96 dpi.
func length(px int) vg.Length {
	return vg.Length(px) * vg.Inch / 96
}

func newPlot(title, xLabel, yLabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	return p
}

// rotateTicks tilts the X tick labels 45 degrees, anchored at their right edge.
func rotateTicks(p *plot.Plot) {
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter
}

func writePNG(p *plot.Plot, w io.Writer, size Size) error {
	wt, err := p.WriterTo(length(size.Width), length(size.Height), "png")
	if err != nil {
		return fmt.Errorf("png canvas: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("write png: %w", err)
	}
	return nil
}
