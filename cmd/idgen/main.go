package main

import (
	"bytes"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/roman-kulish/ricorder/internal/idgen"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [cfgfile] [outfile]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	cfgFile, outFile := "cfg.txt", "nodecfg.inc.mk"
	if flag.NArg() > 0 {
		cfgFile = flag.Arg(0)
	}
	if flag.NArg() > 1 {
		outFile = flag.Arg(1)
	}

	if err := run(cfgFile, outFile); err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
}

func run(cfgFile, outFile string) error {
	in, err := os.Open(cfgFile)
	if err != nil {
		return fmt.Errorf("opening key table: %w", err)
	}
	defer in.Close()

	var buf bytes.Buffer
	if _, err = idgen.Generate(in, &buf); err != nil {
		return err
	}

	if _, err = fmt.Println(buf.String()); err != nil {
		return err
	}
	if err = os.WriteFile(outFile, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", outFile, err)
	}
	return nil
}
