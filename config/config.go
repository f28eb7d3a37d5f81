package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shelfprice/collector/internal/domain"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Walmart   WalmartConfig
	Kroger    KrogerConfig
	Collector CollectorConfig
	Log       LogConfig
}

// ServerConfig holds configuration for the lookup API
type ServerConfig struct {
	Port        string `mapstructure:"port"`
	Environment string `mapstructure:"environment"`
}

// WalmartConfig holds Walmart grocery API configuration
type WalmartConfig struct {
	BaseURL   string        `mapstructure:"base_url"`
	WebURL    string        `mapstructure:"web_url"`
	StoreID   string        `mapstructure:"store_id"`
	Timeout   time.Duration `mapstructure:"timeout"`
	RateLimit float64       `mapstructure:"rate_limit"`
	Burst     int           `mapstructure:"burst"`
}

// KrogerConfig holds Kroger API configuration
type KrogerConfig struct {
	BaseURL      string        `mapstructure:"base_url"`
	ClientID     string        `mapstructure:"client_id"`
	ClientSecret string        `mapstructure:"client_secret"`
	LocationID   string        `mapstructure:"location_id"`
	Scope        string        `mapstructure:"scope"`
	Timeout      time.Duration `mapstructure:"timeout"`
	RateLimit    float64       `mapstructure:"rate_limit"`
	Burst        int           `mapstructure:"burst"`
}

// CollectorConfig holds batch run configuration
type CollectorConfig struct {
	Workers int `mapstructure:"workers"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

// Load loads configuration from a .env file, environment variables and
// config files
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/shelfprice/")

	// Environment variable settings
	v.SetEnvPrefix("SHELFPRICE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Kroger credentials keep their historical un-prefixed names
	_ = v.BindEnv("kroger.client_id", "CLIENT_ID", "SHELFPRICE_KROGER_CLIENT_ID")
	_ = v.BindEnv("kroger.client_secret", "CLIENT_SECRET", "SHELFPRICE_KROGER_CLIENT_SECRET")

	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// loadEnvFile loads ./.env into the process environment without
// overriding variables that are already set. A missing file is not an error.
func loadEnvFile() error {
	err := godotenv.Load()
	if err != nil && errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")

	// Walmart defaults
	v.SetDefault("walmart.base_url", "https://grocery.walmart.com")
	v.SetDefault("walmart.web_url", "https://grocery.walmart.com")
	v.SetDefault("walmart.store_id", "2250") // 4000 Red Bank Rd, Cincinnati, OH
	v.SetDefault("walmart.timeout", "30s")
	v.SetDefault("walmart.rate_limit", 2.0)
	v.SetDefault("walmart.burst", 1)

	// Kroger defaults
	v.SetDefault("kroger.base_url", "https://api-ce.kroger.com")
	v.SetDefault("kroger.location_id", "01400929") // 1 W Corry St, Cincinnati, OH 45219
	v.SetDefault("kroger.scope", "product.compact")
	v.SetDefault("kroger.timeout", "30s")
	v.SetDefault("kroger.rate_limit", 2.0)
	v.SetDefault("kroger.burst", 1)

	// Collector defaults
	v.SetDefault("collector.workers", 1)

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)
}

// validate validates the configuration. Kroger credentials are checked
// separately by RequireCredentials because only some commands need them.
func validate(config *Config) error {
	if config.Walmart.BaseURL == "" {
		return fmt.Errorf("walmart base URL is required (set SHELFPRICE_WALMART_BASE_URL)")
	}

	if config.Walmart.StoreID == "" {
		return fmt.Errorf("walmart store id is required (set SHELFPRICE_WALMART_STORE_ID)")
	}

	if config.Collector.Workers < 1 {
		return fmt.Errorf("collector workers must be at least 1, got: %d", config.Collector.Workers)
	}

	if config.Walmart.RateLimit < 0 || config.Kroger.RateLimit < 0 {
		return fmt.Errorf("rate limits must not be negative")
	}

	switch config.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log level must be one of debug, info, warn, error, got: %s", config.Log.Level)
	}

	return nil
}

// RequireCredentials reports a missing CLIENT_ID or CLIENT_SECRET
func (c KrogerConfig) RequireCredentials() error {
	if c.ClientID == "" {
		return fmt.Errorf("%w: set CLIENT_ID in the environment or .env file", domain.ErrMissingCredentials)
	}
	if c.ClientSecret == "" {
		return fmt.Errorf("%w: set CLIENT_SECRET in the environment or .env file", domain.ErrMissingCredentials)
	}
	return nil
}
