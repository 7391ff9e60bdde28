package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/ghostvault/internal/cli"
	"github.com/dmitrijs2005/ghostvault/internal/config"
	"github.com/dmitrijs2005/ghostvault/internal/logging"
)

func main() {
	cfg := config.LoadConfig()
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	// A signal cancels ctx; Close inside Run sweeps zero-trace conversations
	// on the way out. Best-effort only — a hard kill skips it, which is why
	// Init also sweeps leftovers on the next start.
	if err := app.Run(ctx); err != nil {
		log.Fatalf("%v", err)
	}
}
