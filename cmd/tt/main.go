package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"time-tracker-gateway/internal/cli"
	"time-tracker-gateway/internal/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := cli.NewRootCommand(config.NewLoader(), newRuntime(), os.Stdout)
	if err := root.Execute(ctx, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
