package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all engine configuration
type Config struct {
	App       AppConfig
	Log       LogConfig
	Store     StoreConfig
	Tax       TaxConfig
	Draft     DraftConfig
	Numbering NumberingConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name             string
	Env              string
	HomeJurisdiction string // seller's state, drives the tax split
	Currency         string // ISO 4217 code used for every amount
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level      string // debug, info, warn, error
	Format     string // json, console
	Output     string // stdout, stderr, or file path
	TimeFormat string
}

// StoreConfig holds persisted-store settings. Driver selects the
// key-value backend documents are serialized into.
type StoreConfig struct {
	Driver        string // memory, sqlite, postgres, redis
	SQLitePath    string // file path or :memory:
	PostgresDSN   string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// TaxConfig holds the tax rates as percentages
type TaxConfig struct {
	CombinedRate int // combined rate applied to every taxable amount
	SplitRate    int // per-component rate in dual mode
}

// DraftConfig holds draft workspace settings
type DraftConfig struct {
	TTL time.Duration // staleness window, checked lazily on load
}

// NumberingConfig holds document number generation settings
type NumberingConfig struct {
	QuotationPrefix string
	InvoicePrefix   string
	OrderPrefix     string
	SerialWidth     int
}

// Load loads configuration from TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with FABSHOP_ prefix (e.g., FABSHOP_STORE_DRIVER)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	v.SetEnvPrefix("FABSHOP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name:             v.GetString("app.name"),
			Env:              v.GetString("app.env"),
			HomeJurisdiction: v.GetString("app.home_jurisdiction"),
			Currency:         v.GetString("app.currency"),
		},
		Log: LogConfig{
			Level:      v.GetString("log.level"),
			Format:     v.GetString("log.format"),
			Output:     v.GetString("log.output"),
			TimeFormat: v.GetString("log.time_format"),
		},
		Store: StoreConfig{
			Driver:        v.GetString("store.driver"),
			SQLitePath:    v.GetString("store.sqlite_path"),
			PostgresDSN:   v.GetString("store.postgres_dsn"),
			RedisAddr:     v.GetString("store.redis_addr"),
			RedisPassword: v.GetString("store.redis_password"),
			RedisDB:       v.GetInt("store.redis_db"),
		},
		Tax: TaxConfig{
			CombinedRate: v.GetInt("tax.combined_rate"),
			SplitRate:    v.GetInt("tax.split_rate"),
		},
		Draft: DraftConfig{
			TTL: v.GetDuration("draft.ttl"),
		},
		Numbering: NumberingConfig{
			QuotationPrefix: v.GetString("numbering.quotation_prefix"),
			InvoicePrefix:   v.GetString("numbering.invoice_prefix"),
			OrderPrefix:     v.GetString("numbering.order_prefix"),
			SerialWidth:     v.GetInt("numbering.serial_width"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults fills in defaults for any unset values
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "fabshop"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.HomeJurisdiction == "" {
		cfg.App.HomeJurisdiction = "Maharashtra"
	}
	if cfg.App.Currency == "" {
		cfg.App.Currency = "INR"
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.Log.TimeFormat == "" {
		cfg.Log.TimeFormat = "2006-01-02T15:04:05.000Z07:00"
	}

	if cfg.Store.Driver == "" {
		cfg.Store.Driver = "memory"
	}
	if cfg.Store.SQLitePath == "" {
		cfg.Store.SQLitePath = "fabshop.db"
	}
	if cfg.Store.RedisAddr == "" {
		cfg.Store.RedisAddr = "localhost:6379"
	}

	if cfg.Tax.CombinedRate == 0 {
		cfg.Tax.CombinedRate = 18
	}
	if cfg.Tax.SplitRate == 0 {
		cfg.Tax.SplitRate = cfg.Tax.CombinedRate / 2
	}

	if cfg.Draft.TTL == 0 {
		cfg.Draft.TTL = 24 * time.Hour
	}

	if cfg.Numbering.QuotationPrefix == "" {
		cfg.Numbering.QuotationPrefix = "QTN"
	}
	if cfg.Numbering.InvoicePrefix == "" {
		cfg.Numbering.InvoicePrefix = "INV"
	}
	if cfg.Numbering.OrderPrefix == "" {
		cfg.Numbering.OrderPrefix = "ORD"
	}
	if cfg.Numbering.SerialWidth == 0 {
		cfg.Numbering.SerialWidth = 4
	}
}

// validate checks the configuration for inconsistencies
func (c *Config) validate() error {
	switch c.Store.Driver {
	case "memory", "sqlite", "postgres", "redis":
	default:
		return fmt.Errorf("unknown store driver %q (expected memory, sqlite, postgres or redis)", c.Store.Driver)
	}

	if c.Store.Driver == "postgres" && c.Store.PostgresDSN == "" {
		return fmt.Errorf("store.postgres_dsn is required with the postgres driver")
	}

	if c.Tax.CombinedRate < 0 {
		return fmt.Errorf("tax.combined_rate cannot be negative")
	}
	if c.Tax.SplitRate*2 != c.Tax.CombinedRate {
		return fmt.Errorf("tax.split_rate must be exactly half of tax.combined_rate")
	}

	if c.Draft.TTL < 0 {
		return fmt.Errorf("draft.ttl cannot be negative")
	}

	if c.Numbering.SerialWidth < 1 || c.Numbering.SerialWidth > 9 {
		return fmt.Errorf("numbering.serial_width must be between 1 and 9")
	}

	prefixes := map[string]bool{}
	for _, p := range []string{c.Numbering.QuotationPrefix, c.Numbering.InvoicePrefix, c.Numbering.OrderPrefix} {
		if p == "" {
			return fmt.Errorf("numbering prefixes cannot be empty")
		}
		if prefixes[p] {
			return fmt.Errorf("numbering prefixes must be distinct, %q repeats", p)
		}
		prefixes[p] = true
	}

	return nil
}

// IsProduction returns true when running in the production environment
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}
