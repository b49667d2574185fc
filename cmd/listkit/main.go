package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"listkit/internal/cli"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = ""

func main() {
	if version != "" {
		cli.Version = version
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}
