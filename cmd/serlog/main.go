package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/roman-kulish/ricorder/internal/serial"
)

const banner = "DeichBR Logger v0.23"

func main() {
	var logLevel slog.LevelVar
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: &logLevel}))

	var baudRate int
	var verbose bool
	flag.IntVar(&baudRate, "b", serial.DefaultBaudRate, "Baud rate")
	flag.BoolVar(&verbose, "verbose", false, "Enable more verbose output")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [options] <tty>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if verbose {
		logLevel.Set(slog.LevelDebug)
	}
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	tty := flag.Arg(0)

	// forwarded lines go to stdout so they can be redirected into a file
	out := slog.New(slog.NewTextHandler(os.Stdout, nil))
	out.Warn(banner)

	port, err := serial.Open(tty, baudRate)
	if err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
	defer port.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger.Debug("forwarding", slog.String("tty", tty), slog.Int("baudRate", baudRate))

	f := serial.NewForwarder(out, serial.WithDiagnostics(logger))
	if err = f.Forward(ctx, port); err != nil && ctx.Err() == nil {
		logger.Error(err.Error())

		cancel()
		os.Exit(1)
	}
}
