// Package main provides a CLI for seeding the local development database
// with applications across the admission lifecycle.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	entrypoint "github.com/lakemont/admissions/internal/platform/cmd"
	"github.com/lakemont/admissions/internal/platform/config"
	"github.com/lakemont/admissions/internal/seed"
)

func main() {
	cfg := seed.DefaultConfig()
	flag.StringVar(&cfg.DBPath, "db", cfg.DBPath, "The admissions SQLite database path")
	flag.StringVar(&cfg.PricingPath, "pricing", cfg.PricingPath, "The pricing schedule YAML path")
	flag.StringVar(&cfg.Season, "season", cfg.Season, "The season to seed applications for")
	flag.BoolVar(&cfg.Verbose, "v", cfg.Verbose, "verbose output")
	flag.Parse()

	log.SetPrefix("[SEED] ")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceSeed, func(ctx context.Context) error {
		return seed.Run(ctx, cfg)
	})
	if err != nil {
		config.Exitf("seed database: %v", err)
	}
}
