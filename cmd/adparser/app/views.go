package app

import (
	"io"
	"log/slog"

	"github.com/dustin/go-humanize"
	"github.com/maruel/subcommands"

	"github.com/roman-kulish/ricorder/internal/adv"
)

var cmdJoin = &subcommands.Command{
	UsageLine: "join <logfile>...",
	ShortDesc: "prints all records of the given logs",
	LongDesc:  "Prints every parsed record of the given log files in file and line order, exactly as it appeared in the input.",
	CommandRun: func() subcommands.CommandRun {
		return &viewRun{view: plain((*adv.Parser).Join)}
	},
}

var cmdCWA = &subcommands.Command{
	UsageLine: "cwa <logfile>...",
	ShortDesc: "prints Corona-Warn-App records",
	LongDesc:  "Prints the records whose payload carries the Corona-Warn-App service marker " + adv.CWAServiceMarker + ".",
	CommandRun: func() subcommands.CommandRun {
		return &viewRun{view: plain((*adv.Parser).FilterCWA)}
	},
}

var cmdNonCWA = &subcommands.Command{
	UsageLine: "noncwa <logfile>...",
	ShortDesc: "prints all other records",
	LongDesc:  "Prints the records whose payload does not carry the Corona-Warn-App service marker.",
	CommandRun: func() subcommands.CommandRun {
		return &viewRun{view: plain((*adv.Parser).FilterNonCWA)}
	},
}

var cmdCompress = &subcommands.Command{
	UsageLine: "compress <logfile>...",
	ShortDesc: "prints the first record of every advertisement",
	LongDesc:  "Prints only the first record of every address and payload combination and drops the repetitions.",
	CommandRun: func() subcommands.CommandRun {
		return &viewRun{view: compress}
	},
}

var cmdNodeInfo = &subcommands.Command{
	UsageLine: "nodeinfo <logfile>...",
	ShortDesc: "prints RSSI and interval statistics per node",
	LongDesc:  "Prints minimum, maximum and average RSSI and advertising interval of every advertiser, sorted by address.",
	CommandRun: func() subcommands.CommandRun {
		return &viewRun{view: plain((*adv.Parser).NodeInfo)}
	},
}

type viewFunc func(a *application, p *adv.Parser, w io.Writer) error

// plain adapts a view that needs nothing but the parser.
func plain(fn func(*adv.Parser, io.Writer) error) viewFunc {
	return func(_ *application, p *adv.Parser, w io.Writer) error {
		return fn(p, w)
	}
}

type viewRun struct {
	subcommands.CommandRunBase

	view viewFunc
}

func (c *viewRun) Run(base subcommands.Application, args []string, _ subcommands.Env) int {
	a := getApplication(base)

	p, err := a.parse(args)
	if err != nil {
		return a.exit(err)
	}

	return a.exit(a.write(func(w io.Writer) error {
		return c.view(a, p, w)
	}))
}

func compress(a *application, p *adv.Parser, w io.Writer) error {
	seen, err := p.Compress(w)
	if err != nil {
		return err
	}

	a.logger.Info("compressed records",
		slog.String("records", humanize.Comma(int64(p.Len()))),
		slog.String("unique", humanize.Comma(int64(len(seen)))))
	return nil
}
