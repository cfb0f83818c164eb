package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/javiermolinar/weekslot/internal/placer"
	"github.com/javiermolinar/weekslot/internal/ui"
)

func main() {
	if err := run(); err != nil {
		if kind := placer.ErrorKind(err); kind != "unexpected" {
			fmt.Fprintf(os.Stderr, "error (%s): %v\n", kind, err)
		} else {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Configuration is loaded once flags are parsed, so --config can point elsewhere.
	app := ui.NewApp(nil)
	defer func() { _ = app.Close() }()
	return app.ExecuteContext(ctx)
}
