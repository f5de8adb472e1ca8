package plot

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/dustin/go-humanize"
	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	dpi            = 100.0
	fontSize       = 10.0
	titleFontSize  = 13.0
	tickMarkLength = 5
	yTicks         = 8

	// A4 landscape at 100 dpi
	defaultWidth  = 1170
	defaultHeight = 830

	defaultTopBorder    = 60
	defaultLeftBorder   = 90
	defaultBottomBorder = 90
	defaultRightBorder  = 40
)

// ErrNoData is returned when there is nothing to plot.
var ErrNoData = errors.New("no data to plot")

// Info holds the titles of a chart.
type Info struct {
	Title  string
	XLabel string
	YLabel string
	Suffix string // Appended to the output file name
	Grid   bool   // Draw horizontal grid lines
}

// Series is the data of a grouped bar chart. X holds one tick label per
// group, Y one value slice per series with len(X) values each, Labels one
// legend label per series.
type Series struct {
	X      []string
	Y      [][]float64
	Labels []string
}

func (s Series) validate() error {
	if len(s.X) == 0 || len(s.Y) == 0 {
		return ErrNoData
	}
	if len(s.Labels) != len(s.Y) {
		return fmt.Errorf("got %d labels for %d series", len(s.Labels), len(s.Y))
	}
	for i, y := range s.Y {
		if len(y) != len(s.X) {
			return fmt.Errorf("series %d has %d values, expected %d", i, len(y), len(s.X))
		}
	}
	return nil
}

// BorderConfig defines the sizes of white space around the plot area
type BorderConfig struct {
	Top    int // Space for the title
	Left   int // Space for the value scale
	Bottom int // Space for tick and axis labels
	Right  int // Right padding
}

// RenderConfig holds the configuration of the chart renderer
type RenderConfig struct {
	Width, Height int
	FontSize      float64
	BorderConfig  BorderConfig
}

// Renderer draws charts into RGBA images
type Renderer struct {
	config RenderConfig
	font   *truetype.Font
}

// NewRenderer creates a new chart renderer with the given configuration
func NewRenderer(config RenderConfig) (*Renderer, error) {
	if config.Width == 0 {
		config.Width = defaultWidth
	}
	if config.Height == 0 {
		config.Height = defaultHeight
	}
	if config.FontSize == 0 {
		config.FontSize = fontSize
	}
	if config.BorderConfig.Top == 0 {
		config.BorderConfig.Top = defaultTopBorder
	}
	if config.BorderConfig.Left == 0 {
		config.BorderConfig.Left = defaultLeftBorder
	}
	if config.BorderConfig.Bottom == 0 {
		config.BorderConfig.Bottom = defaultBottomBorder
	}
	if config.BorderConfig.Right == 0 {
		config.BorderConfig.Right = defaultRightBorder
	}

	b := config.BorderConfig
	if config.Width <= b.Left+b.Right || config.Height <= b.Top+b.Bottom {
		return nil, fmt.Errorf("image %dx%d too small for borders", config.Width, config.Height)
	}

	parsedFont, err := freetype.ParseFont(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parsing font: %w", err)
	}

	return &Renderer{config: config, font: parsedFont}, nil
}

// BarChart draws one group of bars per X label, one bar per series.
func (r *Renderer) BarChart(info Info, data Series) (*image.RGBA, error) {
	if err := data.validate(); err != nil {
		return nil, err
	}

	img := image.NewRGBA(image.Rect(0, 0, r.config.Width, r.config.Height))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	b := r.config.BorderConfig
	area := image.Rect(b.Left, b.Top, r.config.Width-b.Right, r.config.Height-b.Bottom)

	step, top := valueScale(maxValue(data.Y))

	text := r.newText(img, r.config.FontSize)
	defer text.Close()

	ops := []struct {
		msg string
		fn  func() error
	}{
		{"drawing value scale", func() error { return r.drawValueScale(img, area, text, step, top, info.Grid) }},
		{"drawing bars", func() error { r.drawBars(img, area, data, top); return nil }},
		{"drawing group labels", func() error { return r.drawGroupLabels(img, area, text, data.X) }},
		{"drawing axis labels", func() error { return r.drawAxisLabels(img, area, text, info) }},
		{"drawing legend", func() error { return r.drawLegend(img, area, text, data.Labels) }},
		{"drawing title", func() error { return r.drawTitle(img, info.Title) }},
	}
	for _, op := range ops {
		if err := op.fn(); err != nil {
			return nil, fmt.Errorf("%s: %w", op.msg, err)
		}
	}

	return img, nil
}

func (r *Renderer) drawValueScale(img *image.RGBA, area image.Rectangle, t *textDrawer, step, top float64, grid bool) error {
	for v := 0.0; v <= top+step/2; v += step {
		y := area.Max.Y - int(math.Round(v/top*float64(area.Dy())))

		if grid && v > 0 {
			hline(img, area.Min.X, area.Max.X, y, gridColor)
		}
		hline(img, area.Min.X-tickMarkLength, area.Min.X, y, axisColor)

		label := humanize.Commaf(v)
		if err := t.draw(label, area.Min.X-tickMarkLength-3-t.width(label), y+t.height()/2); err != nil {
			return err
		}
	}

	hline(img, area.Min.X, area.Max.X, area.Max.Y, axisColor)
	vline(img, area.Min.X, area.Min.Y, area.Max.Y, axisColor)
	return nil
}

func (r *Renderer) drawBars(img *image.RGBA, area image.Rectangle, data Series, top float64) {
	groupWidth := float64(area.Dx()) / float64(len(data.X))
	barWidth := 0.8 * groupWidth / float64(len(data.Y))

	for si, ys := range data.Y {
		fill := image.NewUniform(SeriesColor(si, len(data.Y)))
		for gi, v := range ys {
			if v <= 0 {
				continue
			}
			x0 := float64(area.Min.X) + float64(gi)*groupWidth + 0.1*groupWidth + float64(si)*barWidth
			h := int(math.Round(v / top * float64(area.Dy())))

			bar := image.Rect(int(x0), area.Max.Y-h, int(math.Max(x0+barWidth, x0+1)), area.Max.Y)
			draw.Draw(img, bar, fill, image.Point{}, draw.Src)
		}
	}
}

// drawGroupLabels writes the X labels horizontally, skipping labels when
// they would overlap.
func (r *Renderer) drawGroupLabels(img *image.RGBA, area image.Rectangle, t *textDrawer, labels []string) error {
	groupWidth := float64(area.Dx()) / float64(len(labels))

	var widest int
	for _, l := range labels {
		widest = max(widest, t.width(l))
	}
	every := max(1, int(math.Ceil(float64(widest+10)/groupWidth)))

	for i := 0; i < len(labels); i += every {
		x := area.Min.X + int(float64(i)*groupWidth+groupWidth/2)
		vline(img, x, area.Max.Y, area.Max.Y+tickMarkLength, axisColor)

		if err := t.draw(labels[i], x-t.width(labels[i])/2, area.Max.Y+tickMarkLength+3+t.height()); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) drawAxisLabels(img *image.RGBA, area image.Rectangle, t *textDrawer, info Info) error {
	if info.XLabel != "" {
		x := area.Min.X + (area.Dx()-t.width(info.XLabel))/2
		if err := t.draw(info.XLabel, x, img.Bounds().Max.Y-t.height()); err != nil {
			return err
		}
	}
	if info.YLabel != "" {
		if err := t.draw(info.YLabel, area.Min.X, area.Min.Y-t.height()/2); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) drawLegend(img *image.RGBA, area image.Rectangle, t *textDrawer, labels []string) error {
	var widest int
	for _, l := range labels {
		widest = max(widest, t.width(l))
	}

	lineHeight := t.height() + 6
	box := t.height()
	left := area.Max.X - widest - box - 20
	y := area.Min.Y + 10

	for i, l := range labels {
		swatch := image.Rect(left, y, left+box, y+box)
		draw.Draw(img, swatch, image.NewUniform(SeriesColor(i, len(labels))), image.Point{}, draw.Src)

		if err := t.draw(l, left+box+6, y+box); err != nil {
			return err
		}
		y += lineHeight
	}
	return nil
}

func (r *Renderer) drawTitle(img *image.RGBA, title string) error {
	if title == "" {
		return nil
	}

	t := r.newText(img, titleFontSize)
	defer t.Close()

	x := (img.Bounds().Dx() - t.width(title)) / 2
	return t.draw(title, x, r.config.BorderConfig.Top/2+t.height()/2)
}

// textDrawer wraps a freetype context with a face for measuring
type textDrawer struct {
	context *freetype.Context
	face    font.Face
}

func (r *Renderer) newText(img *image.RGBA, size float64) *textDrawer {
	ctx := freetype.NewContext()
	ctx.SetDPI(dpi)
	ctx.SetFont(r.font)
	ctx.SetFontSize(size)
	ctx.SetHinting(font.HintingNone)
	ctx.SetSrc(image.Black)
	ctx.SetClip(img.Bounds())
	ctx.SetDst(img)

	return &textDrawer{
		context: ctx,
		face:    r.newFace(size),
	}
}

func (r *Renderer) newFace(size float64) font.Face {
	return truetype.NewFace(r.font, &truetype.Options{
		Size:    size,
		DPI:     dpi,
		Hinting: font.HintingNone,
	})
}

// draw writes s with its baseline at y
func (t *textDrawer) draw(s string, x, y int) error {
	_, err := t.context.DrawString(s, freetype.Pt(x, y))
	return err
}

func (t *textDrawer) width(s string) int {
	return font.MeasureString(t.face, s).Round()
}

func (t *textDrawer) height() int {
	m := t.face.Metrics()
	return (m.Ascent + m.Descent).Round()
}

func (t *textDrawer) Close() error {
	return t.face.Close()
}

func hline(img *image.RGBA, x0, x1, y int, c color.Color) {
	for x := x0; x <= x1; x++ {
		img.Set(x, y, c)
	}
}

func vline(img *image.RGBA, x, y0, y1 int, c color.Color) {
	for y := y0; y <= y1; y++ {
		img.Set(x, y, c)
	}
}

func maxValue(ys [][]float64) float64 {
	var m float64
	for _, y := range ys {
		for _, v := range y {
			m = math.Max(m, v)
		}
	}
	return m
}

// valueScale picks a 1/2/5 step giving about yTicks ticks and the top of
// the scale as a multiple of that step.
func valueScale(maxVal float64) (step, top float64) {
	if maxVal <= 0 {
		return 1, 1
	}

	rough := maxVal / yTicks
	mag := math.Pow(10, math.Floor(math.Log10(rough)))

	step = 10 * mag
	for _, m := range []float64{1, 2, 5} {
		if m*mag >= rough {
			step = m * mag
			break
		}
	}
	return step, math.Ceil(maxVal/step) * step
}
