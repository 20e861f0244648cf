package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/shelf/internal/config"
	"github.com/MrSnakeDoc/shelf/internal/logger"
	"github.com/MrSnakeDoc/shelf/internal/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "❌ shelf: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	serve := serveCmd()
	root := &cobra.Command{
		Use:   "shelf",
		Short: "Shelf - a personal reading tracker",
		Long: `Shelf keeps your book list, reading progress, page reflections and reading streak.
Configuration comes from SHELF_* environment variables; running without a
subcommand starts the HTTP server.`,
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          serve.RunE,
	}

	root.AddCommand(
		serve,
		importCmd(),
		statsCmd(),
	)
	return root
}

// setup loads the configuration and builds the logger every command shares.
func setup() (*config.Config, logger.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger.New(cfg.LogLevel, cfg.PrettyLog), nil
}
