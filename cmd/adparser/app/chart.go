package app

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/maruel/subcommands"

	"github.com/roman-kulish/ricorder/internal/adv"
	"github.com/roman-kulish/ricorder/internal/plot"
)

const countSuffix = "cnt"

var cmdPlot = &subcommands.Command{
	UsageLine: "plot [options] <logfile>...",
	ShortDesc: "plots the number of received packets per time bin",
	LongDesc: `Counts the received packets per time bin, split into Corona-Warn-App and
other packets, and writes a bar chart named after the first log file
(<name>[+N]_cnt.<format>) to the current directory.`,
	CommandRun: func() subcommands.CommandRun {
		var c plotRun
		c.Flags.Float64Var(&c.binSize, "bin", 0, "Bin size in seconds, overrides the configuration")
		c.Flags.StringVar(&c.formats, "f", "", "Comma separated output formats [png, jpeg, svg], overrides the configuration")
		c.Flags.StringVar(&c.output, "o", "", "Output base name, derived from the first log file by default")
		return &c
	},
}

type plotRun struct {
	subcommands.CommandRunBase

	binSize float64
	formats string
	output  string
}

func (c *plotRun) Run(base subcommands.Application, args []string, _ subcommands.Env) int {
	a := getApplication(base)

	formats, err := c.imageFormats(a.config)
	if err != nil {
		return a.exit(err)
	}

	binSize := a.config.Analysis.BinSize
	if c.binSize != 0 {
		binSize = c.binSize
	}
	if binSize <= 0 {
		return a.exit(fmt.Errorf("invalid bin size: %v", binSize))
	}

	p, err := a.parse(args)
	if err != nil {
		return a.exit(err)
	}

	basename := c.output
	if basename == "" {
		basename = baseName(args)
	}

	written, err := plotCounts(p, binSize, basename, a.config.Plot, formats)
	for _, path := range written {
		a.logger.Info("chart written", slog.String("path", path))
	}
	return a.exit(err)
}

func (c *plotRun) imageFormats(config *Config) ([]plot.ImageFormat, error) {
	if c.formats == "" {
		return config.imageFormats(), nil
	}

	var formats []plot.ImageFormat
	for _, s := range strings.Split(c.formats, ",") {
		f, err := plot.ParseImageFormat(strings.TrimSpace(s))
		if err != nil {
			return nil, err
		}
		formats = append(formats, f)
	}
	return formats, nil
}

// plotCounts renders the per bin packet counts and saves the chart in every
// requested format.
func plotCounts(p *adv.Parser, binSize float64, basename string, config PlotConfig, formats []plot.ImageFormat) ([]string, error) {
	h, err := p.CountPerBin(binSize)
	if err != nil {
		return nil, err
	}
	if h.Len() == 0 {
		return nil, plot.ErrNoData
	}

	series := plot.Series{
		X:      h.Labels,
		Y:      [][]float64{toFloat(h.NonCWA), toFloat(h.CWA)},
		Labels: []string{"Non-CWA packets", "Corona-Warn-App packets"},
	}
	info := plot.Info{
		Title:  "Number of Received Advertising packets per " + strconv.FormatFloat(binSize, 'f', -1, 64) + "s",
		XLabel: "Date",
		YLabel: "# of recorded advertising packets",
		Suffix: countSuffix,
		Grid:   true,
	}

	renderer, err := plot.NewRenderer(plot.RenderConfig{Width: config.Width, Height: config.Height})
	if err != nil {
		return nil, fmt.Errorf("creating renderer: %w", err)
	}

	return renderer.SaveBarChart(basename, info, series, formats...)
}

func toFloat(v []int) []float64 {
	f := make([]float64, len(v))
	for i, n := range v {
		f[i] = float64(n)
	}
	return f
}
