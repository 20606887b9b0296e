// Package config loads application configuration from defaults, an optional
// YAML file, and environment variables. Environment variables always win.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment identifies the deployment environment.
type Environment string

const (
	Development Environment = "development"
	Staging     Environment = "staging"
	Production  Environment = "production"
)

// Config is the full application configuration.
type Config struct {
	Environment Environment `yaml:"environment"`

	Server   Server   `yaml:"server"`
	Database Database `yaml:"database"`
	Redis    Redis    `yaml:"redis"`
	Cache    Cache    `yaml:"cache"`
	Catalog  Catalog  `yaml:"catalog"`
	Payment  Payment  `yaml:"payment"`
	CORS     CORS     `yaml:"cors"`
	Logging  Logging  `yaml:"logging"`
	Metrics  Metrics  `yaml:"metrics"`
}

// Server holds HTTP listener settings.
type Server struct {
	Address         string        `yaml:"address"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// Database holds DynamoDB settings. A single table stores every entity;
// the GSI supports per-user order and per-product review lookups.
type Database struct {
	TableName string `yaml:"table_name"`
	IndexName string `yaml:"index_name"`
	Region    string `yaml:"region"`
}

// Redis holds cache server connection settings. An empty Addr selects the
// in-process cache instead.
type Redis struct {
	Addr        string        `yaml:"addr"`
	Password    string        `yaml:"password"`
	DB          int           `yaml:"db"`
	DialTimeout time.Duration `yaml:"dial_timeout"`
}

// Cache holds read-through cache behavior.
type Cache struct {
	TTL time.Duration `yaml:"ttl"`
}

// Catalog holds storefront listing settings.
type Catalog struct {
	PageSize    int `yaml:"page_size"`
	LatestLimit int `yaml:"latest_limit"`
}

// Payment holds payment gateway settings.
type Payment struct {
	GatewayURL string        `yaml:"gateway_url"`
	APIKey     string        `yaml:"api_key"`
	Timeout    time.Duration `yaml:"timeout"`
}

// CORS holds cross-origin settings for the browser storefront and dashboard.
type CORS struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
	MaxAge         int      `yaml:"max_age"`
}

// Logging holds logger settings.
type Logging struct {
	Level string `yaml:"level"`
}

// Metrics holds Prometheus settings.
type Metrics struct {
	Enabled   bool   `yaml:"enabled"`
	Namespace string `yaml:"namespace"`
}

// Default returns the configuration the server runs with when no file or
// environment overrides are present.
func Default() *Config {
	return &Config{
		Environment: Development,
		Server: Server{
			Address:         ":8080",
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Database: Database{
			TableName: "swiftcart-dev",
			IndexName: "GSI1",
			Region:    "us-east-1",
		},
		Redis: Redis{
			DialTimeout: 5 * time.Second,
		},
		Cache: Cache{
			TTL: 4 * time.Hour,
		},
		Catalog: Catalog{
			PageSize:    8,
			LatestLimit: 5,
		},
		Payment: Payment{
			Timeout: 10 * time.Second,
		},
		CORS: CORS{
			AllowedOrigins: []string{"*"},
			MaxAge:         300,
		},
		Logging: Logging{
			Level: "info",
		},
		Metrics: Metrics{
			Enabled:   true,
			Namespace: "swiftcart",
		},
	}
}

// Load builds the configuration: defaults, then the YAML file named by
// CONFIG_FILE (or config/config.yaml when present), then environment
// variables.
func Load() (*Config, error) {
	cfg := Default()

	path := os.Getenv("CONFIG_FILE")
	if path == "" {
		path = "config/config.yaml"
	}
	if err := loadFile(path, cfg); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load config file %s: %w", path, err)
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// MustLoad loads the configuration and panics on error. For use in main only.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}
	return cfg
}

func loadFile(path string, cfg *Config) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
		return fmt.Errorf("parse yaml: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("ENVIRONMENT"); v != "" {
		cfg.Environment = Environment(strings.ToLower(v))
	}
	if v := os.Getenv("SERVER_ADDRESS"); v != "" {
		cfg.Server.Address = v
	}
	if v := os.Getenv("TABLE_NAME"); v != "" {
		cfg.Database.TableName = v
	}
	if v := os.Getenv("INDEX_NAME"); v != "" {
		cfg.Database.IndexName = v
	}
	if v := os.Getenv("AWS_REGION"); v != "" {
		cfg.Database.Region = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Redis.DB = n
		}
	}
	if v := os.Getenv("CACHE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Cache.TTL = d
		}
	}
	if v := os.Getenv("PRODUCT_PAGE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Catalog.PageSize = n
		}
	}
	if v := os.Getenv("PAYMENT_GATEWAY_URL"); v != "" {
		cfg.Payment.GatewayURL = v
	}
	if v := os.Getenv("PAYMENT_API_KEY"); v != "" {
		cfg.Payment.APIKey = v
	}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		cfg.CORS.AllowedOrigins = splitAndTrim(v)
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := os.Getenv("ENABLE_METRICS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Metrics.Enabled = b
		}
	}
}

// Validate rejects configurations the server cannot safely run with.
func (c *Config) Validate() error {
	switch c.Environment {
	case Development, Staging, Production:
	default:
		return fmt.Errorf("unknown environment %q", c.Environment)
	}
	if c.Database.TableName == "" {
		return fmt.Errorf("database table name is required")
	}
	if c.Database.IndexName == "" {
		return fmt.Errorf("database index name is required")
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("cache ttl must be positive")
	}
	if c.Catalog.PageSize <= 0 {
		return fmt.Errorf("catalog page size must be positive")
	}
	if c.Environment == Production && c.Payment.GatewayURL != "" && c.Payment.APIKey == "" {
		return fmt.Errorf("payment api key is required when a gateway is configured in production")
	}
	return nil
}

// IsProduction reports whether the server runs in production.
func (c *Config) IsProduction() bool { return c.Environment == Production }

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
