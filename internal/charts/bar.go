package charts

import (
	"fmt"
	"io"
	"math"

	"github.com/KaramelBytes/listenlens/internal/analysis"
	"github.com/KaramelBytes/listenlens/internal/dataset"
	"github.com/wcharczuk/go-chart/v2"
)

// CountBar is a single-series count plot, one colored bar per category.
type CountBar struct {
	Name    string
	Caption string
	Counts  []analysis.ValueCount
	Palette string
}

func (b *CountBar) File() string  { return b.Name }
func (b *CountBar) Title() string { return b.Caption }

// Render draws the bars with go-chart. The value axis spans [0, max count] so a
// single bar or equal counts still give a non-empty range.
func (b *CountBar) Render(w io.Writer, size Size) error {
	if len(b.Counts) == 0 {
		return fmt.Errorf("%s: %w", b.Name, dataset.ErrNoObservations)
	}
	colors := Palette(b.Palette, len(b.Counts))
	bars := make([]chart.Value, len(b.Counts))
	top := 1.0
	for i, c := range b.Counts {
		top = math.Max(top, float64(c.Count))
		fill := toDrawing(colors[i])
		bars[i] = chart.Value{
			Label: c.Value,
			Value: float64(c.Count),
			Style: chart.Style{FillColor: fill, StrokeColor: fill, StrokeWidth: 1},
		}
	}
	width, spacing := barLayout(size.Width, len(bars))
	bc := chart.BarChart{
		Title:        b.Caption,
		Width:        size.Width,
		Height:       size.Height,
		Background:   chart.Style{Padding: chart.Box{Top: 48, Left: 16, Right: 16, Bottom: 16}},
		BarWidth:     width,
		BarSpacing:   spacing,
		UseBaseValue: true,
		BaseValue:    0,
		YAxis:        chart.YAxis{Range: &chart.ContinuousRange{Min: 0, Max: top}},
		Bars:         bars,
	}
	if err := bc.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render %s: %w", b.Name, err)
	}
	return nil
}

// barLayout fits n bars, each half a bar apart, into the plotting area.
func barLayout(width, n int) (barWidth, spacing int) {
	avail := width - 120
	if avail < n*6 {
		avail = n * 6
	}
	barWidth = int(float64(avail) / (1.5*float64(n) - 0.5))
	if barWidth < 4 {
		barWidth = 4
	}
	spacing = barWidth / 2
	if spacing < 2 {
		spacing = 2
	}
	return barWidth, spacing
}
