package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roman-kulish/ricorder/internal/modules"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	var merge bool
	flag.BoolVar(&merge, "merge", false, "Print the merged module descriptors instead of their paths")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [-merge] [riotbase]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	base := "../../.."
	if flag.NArg() > 0 {
		base = flag.Arg(0)
	}

	var out any
	var err error
	if merge {
		out, err = modules.Merge(base, nil)
	} else {
		out, err = modules.Scan(base, nil)
	}
	if err != nil {
		logger.Error(err.Error(), slog.String("base", base))
		os.Exit(1)
	}

	enc := yaml.NewEncoder(os.Stdout)
	if err = enc.Encode(out); err == nil {
		err = enc.Close()
	}
	if err != nil {
		logger.Error(fmt.Sprintf("failed to write modules: %s", err.Error()))
		os.Exit(1)
	}
}
