package plot

import (
	"image/color"
	"testing"
)

func TestSeriesColor(t *testing.T) {
	tests := []struct {
		i, n int
		want color.RGBA
	}{
		{i: 0, n: 2, want: color.RGBA{R: 65, G: 141, B: 217, A: 0xff}},
		{i: 1, n: 2, want: color.RGBA{R: 217, G: 141, B: 65, A: 0xff}}, // hue wraps to 30
		{i: 0, n: 0, want: color.RGBA{R: 65, G: 141, B: 217, A: 0xff}},
	}
	for _, tt := range tests {
		if got := SeriesColor(tt.i, tt.n); got != tt.want {
			t.Errorf("SeriesColor(%d, %d) = %v; want %v", tt.i, tt.n, got, tt.want)
		}
	}
}
