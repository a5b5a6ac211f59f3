// Command authgate ensures service CLIs are authenticated before use.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmgilman/authgate/internal/cmd"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return cmd.ExecuteContext(ctx)
}
