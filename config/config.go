// Package config loads runtime settings from an optional TOML file and
// SHEETQUOTE_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Quote  QuoteConfig  `mapstructure:"quote"`
	Upload UploadConfig `mapstructure:"upload"`
	Seed   SeedConfig   `mapstructure:"seed"`
}

type QuoteConfig struct {
	ValidityDays   int    `mapstructure:"validity_days"`
	DefaultTerms   string `mapstructure:"default_terms"`
	CurrencySymbol string `mapstructure:"currency_symbol"`
	NumberPrefix   string `mapstructure:"number_prefix"`
}

type UploadConfig struct {
	MaxBytes int64 `mapstructure:"max_bytes"`
}

type SeedConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

const (
	envPrefix     = "SHEETQUOTE"
	envConfigName = "SHEETQUOTE_CONFIG"

	DefaultTerms = "Standard manufacturing terms apply. Payment required before production begins."
)

// Default returns the settings used when nothing is configured.
func Default() *Config {
	return &Config{
		Quote: QuoteConfig{
			ValidityDays:   30,
			DefaultTerms:   DefaultTerms,
			CurrencySymbol: "$",
			NumberPrefix:   "QT",
		},
		Upload: UploadConfig{MaxBytes: 10 << 20},
		Seed:   SeedConfig{Enabled: true},
	}
}

// Load reads .env (if present), then sheetquote.toml from ./config or the
// working directory, then the environment. A missing file is not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return LoadFrom("config", ".")
}

// LoadFrom is Load without the .env step, searching the given directories.
func LoadFrom(paths ...string) (*Config, error) {
	configName := "sheetquote"
	if name := os.Getenv(envConfigName); name != "" {
		configName = name
	}

	v := viper.New()
	v.SetConfigName(configName)
	v.SetConfigType("toml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	def := Default()
	v.SetDefault("quote.validity_days", def.Quote.ValidityDays)
	v.SetDefault("quote.default_terms", def.Quote.DefaultTerms)
	v.SetDefault("quote.currency_symbol", def.Quote.CurrencySymbol)
	v.SetDefault("quote.number_prefix", def.Quote.NumberPrefix)
	v.SetDefault("upload.max_bytes", def.Upload.MaxBytes)
	v.SetDefault("seed.enabled", def.Seed.Enabled)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: read %s: %w", configName, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	if cfg.Quote.ValidityDays <= 0 {
		cfg.Quote.ValidityDays = def.Quote.ValidityDays
	}
	if cfg.Upload.MaxBytes <= 0 {
		cfg.Upload.MaxBytes = def.Upload.MaxBytes
	}
	if strings.TrimSpace(cfg.Quote.NumberPrefix) == "" {
		cfg.Quote.NumberPrefix = def.Quote.NumberPrefix
	}
	return cfg, nil
}
