package charts

import (
	"image/color"
	"strconv"
	"strings"

	"github.com/wcharczuk/go-chart/v2/drawing"
)

// sequential palettes are sampled across their anchors; qualitative ones cycle.
var sequential = map[string][]string{
	"viridis":  {"#440154", "#482878", "#3e4989", "#31688e", "#26828e", "#1f9e89", "#35b779", "#6ece58", "#b5de2b", "#fde725"},
	"magma":    {"#000004", "#180f3d", "#440f76", "#721f81", "#9e2f7f", "#cd4071", "#f1605d", "#fd9668", "#feca8d", "#fcfdbf"},
	"coolwarm": {"#3b4cc0", "#6788ee", "#9abbff", "#c9d7f0", "#edd1c2", "#f7a889", "#e26952", "#b40426"},
}

var qualitative = map[string][]string{
	"Set2": {"#66c2a5", "#fc8d62", "#8da0cb", "#e78ac3", "#a6d854", "#ffd92f", "#e5c494", "#b3b3b3"},
	"tab20": {
		"#1f77b4", "#aec7e8", "#ff7f0e", "#ffbb78", "#2ca02c", "#98df8a", "#d62728", "#ff9896", "#9467bd", "#c5b0d5",
		"#8c564b", "#c49c94", "#e377c2", "#f7b6d2", "#7f7f7f", "#c7c7c7", "#bcbd22", "#dbdb8d", "#17becf", "#9edae5",
	},
}

var named = map[string]string{
	"steelblue": "#4682b4",
	"skyblue":   "#87ceeb",
	"salmon":    "#fa8072",
}

// Palette returns n colors from the named palette. A named single color (for
// example "salmon") is repeated; unknown names fall back to steelblue.
func Palette(name string, n int) []color.RGBA {
	if n <= 0 {
		return nil
	}
	out := make([]color.RGBA, n)
	if anchors, ok := qualitative[name]; ok {
		for i := range out {
			out[i] = hexColor(anchors[i%len(anchors)])
		}
		return out
	}
	if anchors, ok := sequential[name]; ok {
		for i := range out {
			pos := 0.5
			if n > 1 {
				// stay off the extremes, which are near black or white on some maps
				pos = 0.1 + 0.8*float64(i)/float64(n-1)
			}
			out[i] = sample(anchors, pos)
		}
		return out
	}
	c := Named(name)
	for i := range out {
		out[i] = c
	}
	return out
}

// Named resolves a CSS-style color name or #rrggbb string.
func Named(name string) color.RGBA {
	if hex, ok := named[name]; ok {
		return hexColor(hex)
	}
	if strings.HasPrefix(name, "#") && len(name) == 7 {
		return hexColor(name)
	}
	return hexColor(named["steelblue"])
}

// Darken scales each channel by f in [0,1].
func Darken(c color.RGBA, f float64) color.RGBA {
	return color.RGBA{R: uint8(float64(c.R) * f), G: uint8(float64(c.G) * f), B: uint8(float64(c.B) * f), A: c.A}
}

func sample(anchors []string, pos float64) color.RGBA {
	x := pos * float64(len(anchors)-1)
	i := int(x)
	if i >= len(anchors)-1 {
		return hexColor(anchors[len(anchors)-1])
	}
	a, b := hexColor(anchors[i]), hexColor(anchors[i+1])
	w := x - float64(i)
	mix := func(p, q uint8) uint8 { return uint8(float64(p)*(1-w) + float64(q)*w + 0.5) }
	return color.RGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: 255}
}

func hexColor(s string) color.RGBA {
	v, err := strconv.ParseUint(strings.TrimPrefix(s, "#"), 16, 32)
	if err != nil {
		return color.RGBA{A: 255}
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}
}

func toDrawing(c color.RGBA) drawing.Color {
	return drawing.Color{R: c.R, G: c.G, B: c.B, A: c.A}
}
