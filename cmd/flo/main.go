// Command flo compiles, validates, condenses and renders process graphs.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/roach88/flo/internal/cli"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.Execute(ctx, os.Args[1:])
	cancel()
	os.Exit(code)
}
