// Package main provides the entry point for the application with CLI commands.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/allisson/cardfreezer/cmd/app/commands"
	"github.com/allisson/cardfreezer/internal/app"
	"github.com/allisson/cardfreezer/internal/config"
)

var version = "dev"

func main() {
	cmd := &cli.Command{
		Name:    "cardfreezer",
		Usage:   "Encrypt credit card attributes for storage",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "algorithm",
				Aliases: []string{"alg"},
				Usage:   "Field cipher (aes-gcm or chacha20-poly1305), overrides CIPHER_ALGORITHM",
			},
			&cli.FloatFlag{
				Name:  "rate-limit",
				Usage: "Maximum records per second for batch commands, overrides BATCH_RATE_LIMIT",
			},
			&cli.BoolFlag{
				Name:  "metrics",
				Usage: "Write Prometheus metrics of the run to stderr on exit",
			},
		},
		Commands: getCommands(),
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.Any("error", err))
		os.Exit(1)
	}
}

// withContainer loads and validates the configuration, applies global flags and runs fn
// with a container that is shut down afterwards.
func withContainer(cmd *cli.Command, fn func(container *app.Container) error) error {
	cfg := config.Load()
	if cmd.IsSet("algorithm") {
		cfg.CipherAlgorithm = cmd.String("algorithm")
	}
	if cmd.IsSet("rate-limit") {
		cfg.BatchRateLimit = cmd.Float("rate-limit")
	}
	if cmd.Bool("metrics") {
		cfg.MetricsEnabled = true
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	container := app.NewContainer(cfg)
	defer commands.CloseContainer(container, container.Logger())

	if err := fn(container); err != nil {
		return err
	}
	if cmd.Bool("metrics") {
		return commands.WriteMetrics(container, os.Stderr)
	}
	return nil
}
