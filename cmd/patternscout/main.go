package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/patternscout/patternscout-cli/internal/adapters/driving/cli"
)

func main() {
	// Ctrl-C stops dequeuing new work and gives in-flight clones a
	// bounded grace period via their per-task contexts.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
