// Package config loads runtime configuration from the environment.
package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

// Config is the full runtime configuration. Values come from OPEX_-prefixed
// environment variables, optionally seeded from a .env file by the caller.
type Config struct {
	Database  Database
	Import    Import
	Telemetry Telemetry
}

// Database configures the PostgreSQL pool.
type Database struct {
	URL      string `envconfig:"DATABASE_URL" required:"true"`
	MaxConns int32  `envconfig:"DATABASE_MAX_CONNS" default:"4"`
	Migrate  bool   `envconfig:"DATABASE_MIGRATE" default:"true"`
}

// Import carries the ingestion defaults that flags can override per run.
type Import struct {
	// FeeRatePercent is the service fee charged on every amount, in
	// percent. Tax applies to the fee, not the amount.
	FeeRatePercent float64 `envconfig:"IMPORT_FEE_RATE_PERCENT" default:"1"`
	TaxRatePercent float64 `envconfig:"IMPORT_TAX_RATE_PERCENT" default:"11"`
	UpdateExisting bool    `envconfig:"IMPORT_UPDATE_EXISTING" default:"false"`
	// OverridesPath points at an optional YAML file with extra header
	// synonyms for nonstandard exports.
	OverridesPath string `envconfig:"IMPORT_PROFILE_OVERRIDES"`
	OutputDir     string `envconfig:"IMPORT_OUTPUT_DIR" default:"."`
}

// Telemetry configures the metrics endpoint. An empty address disables it.
type Telemetry struct {
	MetricsAddr string `envconfig:"METRICS_ADDR"`
	ServiceName string `envconfig:"SERVICE_NAME" default:"opex-ingest"`
}

// FeeRate returns the fee rate as a decimal fraction.
func (i Import) FeeRate() decimal.Decimal {
	return decimal.NewFromFloat(i.FeeRatePercent).Div(decimal.NewFromInt(100))
}

// TaxRate returns the tax rate as a decimal fraction.
func (i Import) TaxRate() decimal.Decimal {
	return decimal.NewFromFloat(i.TaxRatePercent).Div(decimal.NewFromInt(100))
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("opex", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}
