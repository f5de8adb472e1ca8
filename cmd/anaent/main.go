package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/dustin/go-humanize"

	"github.com/roman-kulish/ricorder/internal/entropy"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "No filename given")
		os.Exit(1)
	}

	if err := run(os.Args[1], logger); err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
}

func run(path string, logger *slog.Logger) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening samples: %w", err)
	}
	defer f.Close()

	h, rejects, err := entropy.Count(f)
	if err != nil {
		return err
	}
	if rejects > 0 {
		logger.Warn("no num", slog.String("lines", humanize.Comma(int64(rejects))))
	}
	logger.Debug("samples counted", slog.String("samples", humanize.Comma(int64(h.Total()))))

	return h.Write(os.Stdout)
}
