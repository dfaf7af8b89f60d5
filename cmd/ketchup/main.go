package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ketchup-sh/ketchup/pkg/cli"
)

func main() {
	// An interrupted run still writes everything collected so far.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.New().Run(ctx, os.Args); err != nil {
		slog.Error("run failed", "error", err)
		os.Exit(1)
	}
}
