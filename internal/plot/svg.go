package plot

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	"io"
	"math"

	svg "github.com/ajstarks/svgo"
	"github.com/dustin/go-humanize"
	"golang.org/x/image/font"
)

// BarChartSVG writes the chart drawn by BarChart as a scalable vector
// graphic. Text is measured with the same font as the raster chart.
func (r *Renderer) BarChartSVG(w io.Writer, info Info, data Series) error {
	if err := data.validate(); err != nil {
		return err
	}

	// svgo ignores write errors, bufio keeps the first one for Flush
	bw := bufio.NewWriter(w)
	canvas := svg.New(bw)

	face := r.newFace(r.config.FontSize)
	defer face.Close()

	b := r.config.BorderConfig
	area := image.Rect(b.Left, b.Top, r.config.Width-b.Right, r.config.Height-b.Bottom)
	step, top := valueScale(maxValue(data.Y))

	v := &vectorChart{
		canvas: canvas,
		face:   face,
		area:   area,
		font:   fmt.Sprintf("font-family:Go,sans-serif;font-size:%.1fpx", pixels(r.config.FontSize)),
	}

	canvas.Start(r.config.Width, r.config.Height)
	if info.Title != "" {
		canvas.Title(info.Title)
	}
	canvas.Rect(0, 0, r.config.Width, r.config.Height, "fill:white")

	v.valueScale(step, top, info.Grid)
	v.bars(data, top)
	v.groupLabels(data.X)
	v.axisLabels(info, r.config.Height)
	v.legend(data.Labels)

	if info.Title != "" {
		canvas.Text(r.config.Width/2, b.Top/2+v.height()/2, info.Title,
			fmt.Sprintf("font-family:Go,sans-serif;font-size:%.1fpx;text-anchor:middle", pixels(titleFontSize)))
	}
	canvas.End()

	return bw.Flush()
}

// pixels converts a font size in points to pixels at the chart resolution.
func pixels(points float64) float64 {
	return points * dpi / 72
}

type vectorChart struct {
	canvas *svg.SVG
	face   font.Face
	area   image.Rectangle
	font   string
}

func (v *vectorChart) width(s string) int {
	return font.MeasureString(v.face, s).Round()
}

func (v *vectorChart) height() int {
	m := v.face.Metrics()
	return (m.Ascent + m.Descent).Round()
}

func (v *vectorChart) text(x, y int, s, anchor string) {
	v.canvas.Text(x, y, s, v.font+";text-anchor:"+anchor)
}

func (v *vectorChart) valueScale(step, top float64, grid bool) {
	area := v.area
	for val := 0.0; val <= top+step/2; val += step {
		y := area.Max.Y - int(math.Round(val/top*float64(area.Dy())))

		if grid && val > 0 {
			v.canvas.Line(area.Min.X, y, area.Max.X, y, stroke(gridColor))
		}
		v.canvas.Line(area.Min.X-tickMarkLength, y, area.Min.X, y, stroke(axisColor))
		v.text(area.Min.X-tickMarkLength-3, y+v.height()/2, humanize.Commaf(val), "end")
	}

	v.canvas.Line(area.Min.X, area.Max.Y, area.Max.X, area.Max.Y, stroke(axisColor))
	v.canvas.Line(area.Min.X, area.Min.Y, area.Min.X, area.Max.Y, stroke(axisColor))
}

func (v *vectorChart) bars(data Series, top float64) {
	area := v.area
	groupWidth := float64(area.Dx()) / float64(len(data.X))
	barWidth := 0.8 * groupWidth / float64(len(data.Y))

	for si, ys := range data.Y {
		style := fill(SeriesColor(si, len(data.Y)))
		for gi, val := range ys {
			if val <= 0 {
				continue
			}
			x0 := float64(area.Min.X) + float64(gi)*groupWidth + 0.1*groupWidth + float64(si)*barWidth
			h := int(math.Round(val / top * float64(area.Dy())))

			v.canvas.Rect(int(x0), area.Max.Y-h, max(int(barWidth), 1), h, style)
		}
	}
}

func (v *vectorChart) groupLabels(labels []string) {
	area := v.area
	groupWidth := float64(area.Dx()) / float64(len(labels))

	var widest int
	for _, l := range labels {
		widest = max(widest, v.width(l))
	}
	every := max(1, int(math.Ceil(float64(widest+10)/groupWidth)))

	for i := 0; i < len(labels); i += every {
		x := area.Min.X + int(float64(i)*groupWidth+groupWidth/2)
		v.canvas.Line(x, area.Max.Y, x, area.Max.Y+tickMarkLength, stroke(axisColor))
		v.text(x, area.Max.Y+tickMarkLength+3+v.height(), labels[i], "middle")
	}
}

func (v *vectorChart) axisLabels(info Info, height int) {
	if info.XLabel != "" {
		v.text(v.area.Min.X+v.area.Dx()/2, height-v.height(), info.XLabel, "middle")
	}
	if info.YLabel != "" {
		v.text(v.area.Min.X, v.area.Min.Y-v.height()/2, info.YLabel, "start")
	}
}

func (v *vectorChart) legend(labels []string) {
	var widest int
	for _, l := range labels {
		widest = max(widest, v.width(l))
	}

	box := v.height()
	left := v.area.Max.X - widest - box - 20
	y := v.area.Min.Y + 10

	for i, l := range labels {
		v.canvas.Rect(left, y, box, box, fill(SeriesColor(i, len(labels))))
		v.text(left+box+6, y+box, l, "start")
		y += box + 6
	}
}

func fill(c color.Color) string {
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("fill:rgb(%d,%d,%d)", r>>8, g>>8, b>>8)
}

func stroke(c color.Color) string {
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("stroke:rgb(%d,%d,%d);stroke-width:1", r>>8, g>>8, b>>8)
}
