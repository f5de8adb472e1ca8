package main

import (
	"bufio"
	"flag"
	"log/slog"
	"os"

	"github.com/roman-kulish/ricorder/internal/apiaudit"
)

func main() {
	var logLevel slog.LevelVar
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: &logLevel}))

	var repoPath string
	var verbose bool
	flag.StringVar(&repoPath, "repo", ".", "Path inside the RIOT repository")
	flag.BoolVar(&verbose, "verbose", false, "Log why a lookup failed")
	flag.Parse()

	if verbose {
		logLevel.Set(slog.LevelDebug)
	}

	a, err := apiaudit.Open(repoPath, apiaudit.WithLogger(logger))
	if err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}

	w := bufio.NewWriter(os.Stdout)
	if err = a.Run(w); err == nil {
		err = w.Flush()
	}
	if err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
}
