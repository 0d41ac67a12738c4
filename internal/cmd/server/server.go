// Package server parses admissions service flags and launches the service.
package server

import (
	"context"
	"flag"

	apihttp "github.com/lakemont/admissions/internal/api/http"
	app "github.com/lakemont/admissions/internal/app/server"
	entrypoint "github.com/lakemont/admissions/internal/platform/cmd"
)

// Config holds admissions command configuration.
type Config struct {
	HTTPAddr      string `env:"ADMISSIONS_HTTP_ADDR" envDefault:":8080"`
	GRPCAddr      string `env:"ADMISSIONS_GRPC_ADDR" envDefault:":8081"`
	DBPath        string `env:"ADMISSIONS_DB_PATH" envDefault:"data/admissions.db"`
	PricingPath   string `env:"ADMISSIONS_PRICING_PATH"`
	WebhookSecret string `env:"ADMISSIONS_WEBHOOK_SECRET"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "The admissions HTTP API address")
	fs.StringVar(&cfg.GRPCAddr, "grpc-addr", cfg.GRPCAddr, "The admissions gRPC health address")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "The admissions SQLite database path")
	fs.StringVar(&cfg.PricingPath, "pricing", cfg.PricingPath, "The pricing schedule YAML path")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the admissions API service.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceServer, func(ctx context.Context) error {
		staffGrants, err := apihttp.LoadStaffGrantConfigFromEnv(nil)
		if err != nil {
			return err
		}
		return app.Run(ctx, app.Config{
			HTTPAddr:      cfg.HTTPAddr,
			GRPCAddr:      cfg.GRPCAddr,
			DBPath:        cfg.DBPath,
			PricingPath:   cfg.PricingPath,
			StaffGrants:   staffGrants,
			WebhookSecret: cfg.WebhookSecret,
		})
	})
}
