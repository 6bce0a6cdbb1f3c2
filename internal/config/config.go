// Package config loads the YAML configuration shared by the coinlab commands.
package config

import (
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rxtech-lab/coinlab/internal/version"
	"github.com/rxtech-lab/coinlab/pkg/errors"
	"github.com/rxtech-lab/coinlab/pkg/marketdata"
	"github.com/rxtech-lab/coinlab/pkg/marketdata/provider"
	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration file.
type Config struct {
	// Version is the coinlab version the file was written for. Empty skips the check.
	Version  string         `yaml:"version"`
	Provider ProviderConfig `yaml:"provider"`
	Cache    CacheConfig    `yaml:"cache"`
	Server   ServerConfig   `yaml:"server"`
	Backtest BacktestConfig `yaml:"backtest"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ProviderConfig selects where price history comes from.
type ProviderConfig struct {
	Type             provider.ProviderType `yaml:"type" validate:"required,oneof=coingecko binance polygon duckdb"`
	CoinGeckoBaseURL string                `yaml:"coingecko_base_url" validate:"omitempty,url"`
	CoinGeckoAPIKey  string                `yaml:"coingecko_api_key"`
	PolygonAPIKey    string                `yaml:"polygon_api_key" validate:"required_if=Type polygon"`
	DataPath         string                `yaml:"data_path" validate:"required_if=Type duckdb"`
}

// CacheConfig configures the Redis price cache.
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled"`
	Addr      string        `yaml:"addr" validate:"required_if=Enabled true"`
	TTL       time.Duration `yaml:"ttl" validate:"gte=0"`
	Namespace string        `yaml:"namespace"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr string `yaml:"addr" validate:"required"`
}

// BacktestConfig holds backtest defaults.
type BacktestConfig struct {
	StrictStrategy bool `yaml:"strict_strategy"`
	DefaultDays    int  `yaml:"default_days" validate:"min=1"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level string `yaml:"level" validate:"oneof=debug info warn error"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Version: version.Version,
		Provider: ProviderConfig{
			Type:             provider.ProviderCoinGecko,
			CoinGeckoBaseURL: provider.DefaultCoinGeckoBaseURL,
			CoinGeckoAPIKey:  "",
			PolygonAPIKey:    "",
			DataPath:         "data",
		},
		Cache: CacheConfig{
			Enabled:   false,
			Addr:      "localhost:6379",
			TTL:       provider.DefaultCacheTTL,
			Namespace: provider.DefaultCacheNamespace,
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Backtest: BacktestConfig{
			StrictStrategy: false,
			DefaultDays:    30,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads the YAML file at path on top of Default, applies environment
// overrides and validates the result. An empty path loads the defaults.
func Load(path string) (Config, error) {
	cfg, err := LoadUnvalidated(path)
	if err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// LoadUnvalidated is Load without validation, for callers that adjust the
// result before validating it themselves.
func LoadUnvalidated(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to read config file %s", path)
		}

		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to parse config file %s", path)
		}
	}

	applyEnvOverrides(&cfg)

	return cfg, nil
}

// Parse decodes YAML content on top of Default without touching the environment.
func Parse(content []byte) (Config, error) {
	cfg := Default()

	if err := yaml.Unmarshal(content, &cfg); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to parse config", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks struct constraints and the config version.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid configuration", err)
	}

	if c.Version == "" {
		return nil
	}

	return version.CheckVersionCompatibility(version.Version, c.Version)
}

// ClientConfig converts the provider and cache sections for marketdata.NewClient.
func (c Config) ClientConfig() marketdata.ClientConfig {
	return marketdata.ClientConfig{
		ProviderType:     c.Provider.Type,
		DataPath:         c.Provider.DataPath,
		CoinGeckoBaseURL: c.Provider.CoinGeckoBaseURL,
		CoinGeckoAPIKey:  c.Provider.CoinGeckoAPIKey,
		PolygonAPIKey:    c.Provider.PolygonAPIKey,
		Cache: marketdata.CacheConfig{
			Enabled:   c.Cache.Enabled,
			Addr:      c.Cache.Addr,
			TTL:       c.Cache.TTL,
			Namespace: c.Cache.Namespace,
		},
	}
}

// applyEnvOverrides replaces secrets and addresses with well-known environment variables when set.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("COINGECKO_API_KEY"); v != "" {
		cfg.Provider.CoinGeckoAPIKey = v
	}

	if v := os.Getenv("POLYGON_API_KEY"); v != "" {
		cfg.Provider.PolygonAPIKey = v
	}

	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Cache.Addr = v
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}
