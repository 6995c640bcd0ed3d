package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Ghost-Rider-gu/CLI-buddy/internal/cli"
	"github.com/Ghost-Rider-gu/CLI-buddy/internal/config"
	"github.com/Ghost-Rider-gu/CLI-buddy/internal/flagx"
	"github.com/Ghost-Rider-gu/CLI-buddy/internal/logging"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return cli.ExitFailure
	}

	log := logging.NewTextLogger(os.Stderr, slog.LevelWarn)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := cli.NewApp(ctx, cfg, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return cli.ExitFailure
	}
	defer app.Close()

	// The config layer already consumed its flags; cobra sees the rest.
	valueFlags, boolFlags := config.OwnedFlags()
	return app.Run(ctx, flagx.StripArgs(os.Args[1:], valueFlags, boolFlags))
}
