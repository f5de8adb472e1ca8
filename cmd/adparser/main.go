package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/roman-kulish/ricorder/cmd/adparser/app"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	code := app.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)

	cancel()
	os.Exit(code)
}
