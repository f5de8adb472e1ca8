package app

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/maruel/subcommands"

	"github.com/roman-kulish/ricorder/internal/adv"
)

type application struct {
	subcommands.DefaultApplication

	ctx    context.Context
	config *Config
	logger *slog.Logger
	stdout io.Writer
	stderr io.Writer
}

func (a *application) GetOut() io.Writer { return a.stdout }
func (a *application) GetErr() io.Writer { return a.stderr }

func getApplication(base subcommands.Application) *application {
	return base.(*application)
}

// Run parses the global flags, loads the optional configuration file and
// executes the selected subcommand. It returns the process exit code.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	var logLevel slog.LevelVar
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: &logLevel}))

	var configPath, level string
	fs := flag.NewFlagSet("adparser", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&configPath, "c", "", "Path to the configuration file")
	fs.StringVar(&level, "log-level", "", "Log level [debug, info, warn, error], overrides the configuration")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	config := NewConfig()
	if configPath != "" {
		var err error
		if config, err = LoadConfig(configPath); err != nil {
			logger.Error(fmt.Sprintf("failed to load configuration file: %s", err.Error()), slog.String("path", configPath))
			return 1
		}
	}
	if level != "" {
		config.Settings.LogLevel = level
	}
	if err := logLevel.UnmarshalText([]byte(config.Settings.LogLevel)); err != nil {
		logger.Error(fmt.Sprintf("invalid log level: %s", config.Settings.LogLevel))
		return 1
	}

	a := application{
		DefaultApplication: subcommands.DefaultApplication{
			Name:  "adparser",
			Title: "Bluetooth advertisement capture log tool",
			Commands: []*subcommands.Command{
				subcommands.CmdHelp,

				cmdJoin,
				cmdCWA,
				cmdNonCWA,
				cmdCompress,
				cmdNodeInfo,
				cmdPlot,
				cmdStore,
				cmdSessions,
				cmdExport,
			},
		},
		ctx:    ctx,
		config: config,
		logger: logger,
		stdout: stdout,
		stderr: stderr,
	}

	return subcommands.Run(&a, fs.Args())
}

// parse reads all log files given on the command line.
func (a *application) parse(paths []string) (*adv.Parser, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("no log files given")
	}
	return adv.New(paths, adv.WithLogger(a.logger))
}

// write runs fn against a buffered stdout and flushes it.
func (a *application) write(fn func(w io.Writer) error) error {
	w := bufio.NewWriter(a.stdout)
	if err := fn(w); err != nil {
		return err
	}
	return w.Flush()
}

// exit logs err and converts it to an exit code.
func (a *application) exit(err error) int {
	if err != nil {
		a.logger.Error(err.Error())
		return 1
	}
	return 0
}

// baseName derives the output name from the first log file, with "+N"
// appended when more files were given.
func baseName(paths []string) string {
	name := filepath.Base(paths[0])
	name = strings.TrimSuffix(name, filepath.Ext(name))
	if len(paths) > 1 {
		name += fmt.Sprintf("+%d", len(paths)-1)
	}
	return name
}
