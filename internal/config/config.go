// Package config loads generation settings from an optional YAML file with
// environment overrides. Every knob has a default, so the tool runs with no
// configuration at all.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/salesynth/salesynth/internal/chain"
	"github.com/salesynth/salesynth/internal/crm"
	"github.com/salesynth/salesynth/internal/generate"
	"github.com/salesynth/salesynth/internal/master"
)

// Config is the full tool configuration.
type Config struct {
	Seed   int64
	AsOf   time.Time
	Output string

	Customers    int
	Materials    int
	Accounts     int
	Days         int
	OrdersPerDay int

	DeliveryFraction float64
	BillingFraction  float64
	ShipmentFraction float64

	PostgresDSN string
}

// Default returns the built-in configuration: a medium-size dataset anchored
// on the current date.
func Default() Config {
	return Config{
		Seed:             42,
		AsOf:             time.Now().UTC().Truncate(24 * time.Hour),
		Output:           "./dataset",
		Customers:        5000,
		Materials:        2000,
		Accounts:         3000,
		Days:             30,
		OrdersPerDay:     500,
		DeliveryFraction: 0.6,
		BillingFraction:  0.8,
		ShipmentFraction: 0.4,
	}
}

// Load reads config.yaml from the given directory, if present, and applies
// environment overrides with the SALESYNTH prefix (SALESYNTH_SEED,
// SALESYNTH_OUTPUT and so on).
func Load(configPath string) (Config, error) {
	cfg := Default()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AutomaticEnv()
	v.SetEnvPrefix("SALESYNTH")

	for _, key := range []string{
		"seed", "as_of", "output",
		"customers", "materials", "accounts", "days", "orders_per_day",
		"delivery_fraction", "billing_fraction", "shipment_fraction",
		"postgres_dsn",
	} {
		if err := v.BindEnv(key); err != nil {
			return cfg, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return cfg, fmt.Errorf("read config file: %w", err)
		}
	}

	if v.IsSet("seed") {
		cfg.Seed = v.GetInt64("seed")
	}
	if v.IsSet("as_of") {
		parsed, err := time.Parse("2006-01-02", v.GetString("as_of"))
		if err != nil {
			return cfg, generate.ConfigErrorf("as_of must be YYYY-MM-DD: %v", err)
		}
		cfg.AsOf = parsed
	}
	if v.IsSet("output") {
		cfg.Output = v.GetString("output")
	}
	if v.IsSet("customers") {
		cfg.Customers = v.GetInt("customers")
	}
	if v.IsSet("materials") {
		cfg.Materials = v.GetInt("materials")
	}
	if v.IsSet("accounts") {
		cfg.Accounts = v.GetInt("accounts")
	}
	if v.IsSet("days") {
		cfg.Days = v.GetInt("days")
	}
	if v.IsSet("orders_per_day") {
		cfg.OrdersPerDay = v.GetInt("orders_per_day")
	}
	if v.IsSet("delivery_fraction") {
		cfg.DeliveryFraction = v.GetFloat64("delivery_fraction")
	}
	if v.IsSet("billing_fraction") {
		cfg.BillingFraction = v.GetFloat64("billing_fraction")
	}
	if v.IsSet("shipment_fraction") {
		cfg.ShipmentFraction = v.GetFloat64("shipment_fraction")
	}
	if v.IsSet("postgres_dsn") {
		cfg.PostgresDSN = v.GetString("postgres_dsn")
	}
	return cfg, nil
}

// Seed offsets keep the three generators on independent deterministic
// streams derived from one configured seed.
const (
	masterSeedOffset = 0
	chainSeedOffset  = 1
	crmSeedOffset    = 2
)

// MasterConfig derives the master-data generator configuration.
func (c Config) MasterConfig() master.Config {
	return master.Config{
		Customers: c.Customers,
		Materials: c.Materials,
		AsOf:      c.AsOf,
		Seed:      c.Seed + masterSeedOffset,
	}
}

// ChainConfig derives the document-chain generator configuration. The
// statistical shape parameters are fixed; only volume and fulfillment knobs
// are configurable.
func (c Config) ChainConfig() chain.Config {
	return chain.Config{
		Days:              c.Days,
		OrdersPerDay:      c.OrdersPerDay,
		StartDate:         c.AsOf.AddDate(0, 0, -c.Days),
		ItemsPerOrderMean: 5,
		QuantityMu:        3,
		QuantitySigma:     1.2,
		UnitPriceMin:      10,
		UnitPriceMax:      5000,
		BillingPriceMin:   50,
		BillingPriceMax:   1000,
		DeliveryFraction:  c.DeliveryFraction,
		BillingFraction:   c.BillingFraction,
		ShipmentFraction:  c.ShipmentFraction,
		Seed:              c.Seed + chainSeedOffset,
	}
}

// CRMConfig derives the CRM generator configuration.
func (c Config) CRMConfig() crm.Config {
	return crm.Config{
		Accounts: c.Accounts,
		AsOf:     c.AsOf,
		Seed:     c.Seed + crmSeedOffset,
	}
}
