package plot

import (
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

var (
	gridColor = color.RGBA{R: 0xd0, G: 0xd0, B: 0xd0, A: 0xff}
	axisColor = color.Black
)

const (
	seriesSaturation = 0.7
	seriesValue      = 0.85
)

// seriesHue spreads the hues of n series evenly around the color wheel
// starting at blue.
func seriesHue(i, n int) float64 {
	if n <= 0 {
		n = 1
	}
	return math.Mod(210+360*float64(i)/float64(n), 360)
}

// SeriesColor returns the fill color of series i out of n.
func SeriesColor(i, n int) color.RGBA {
	r, g, b := colorful.Hsv(seriesHue(i, n), seriesSaturation, seriesValue).Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}
