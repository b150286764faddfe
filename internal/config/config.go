package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	SourceSeed     = "seed"
	SourceFile     = "file"
	SourcePostgres = "postgres"
)

type Config struct {
	Env      string
	Port     string
	LogLevel string

	Catalog CatalogConfig
	Redis   RedisConfig
	HTTP    HTTPConfig
}

type CatalogConfig struct {
	Delay        time.Duration
	DefaultLimit int
	Source       string
	File         string
	DatabaseURL  string
}

// RedisConfig enables the result cache when Addr is set.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

type HTTPConfig struct {
	MetricsEnabled bool
	MetricsToken   string
	RateLimitRPS   float64
	RateLimitBurst int
	CORSOrigin     string
	Tracing        bool
}

// Load reads the environment, after a .env file in development.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	if env := v.GetString("APP_ENV"); env == "development" || env == "local" {
		// A missing .env is normal; the environment alone is enough.
		_ = godotenv.Load()
	}

	for _, key := range []string{"CATALOG_DELAY", "CACHE_TTL"} {
		if err := requireUnit(v, key); err != nil {
			return nil, fmt.Errorf("configuration validation failed: %w", err)
		}
	}

	cfg := &Config{
		Env:      v.GetString("APP_ENV"),
		Port:     v.GetString("PORT"),
		LogLevel: v.GetString("LOG_LEVEL"),
		Catalog: CatalogConfig{
			Delay:        v.GetDuration("CATALOG_DELAY"),
			DefaultLimit: v.GetInt("CATALOG_DEFAULT_LIMIT"),
			Source:       v.GetString("CATALOG_SOURCE"),
			File:         v.GetString("CATALOG_FILE"),
			DatabaseURL:  v.GetString("DATABASE_URL"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
			TTL:      v.GetDuration("CACHE_TTL"),
		},
		HTTP: HTTPConfig{
			MetricsEnabled: v.GetBool("METRICS_ENABLED"),
			MetricsToken:   v.GetString("METRICS_TOKEN"),
			RateLimitRPS:   v.GetFloat64("RATE_LIMIT_RPS"),
			RateLimitBurst: v.GetInt("RATE_LIMIT_BURST"),
			CORSOrigin:     v.GetString("CORS_ORIGIN"),
			Tracing:        v.GetBool("TRACING_ENABLED"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("PORT", "8082")
	v.SetDefault("LOG_LEVEL", "info")

	v.SetDefault("CATALOG_DELAY", 500*time.Millisecond)
	v.SetDefault("CATALOG_DEFAULT_LIMIT", 10)
	v.SetDefault("CATALOG_SOURCE", SourceSeed)

	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CACHE_TTL", 5*time.Minute)

	v.SetDefault("METRICS_ENABLED", true)
	v.SetDefault("RATE_LIMIT_RPS", 0)
	v.SetDefault("RATE_LIMIT_BURST", 20)
	v.SetDefault("TRACING_ENABLED", false)
}

// requireUnit rejects bare numbers, which viper would read as nanoseconds.
// Zero is allowed without a unit.
func requireUnit(v *viper.Viper, key string) error {
	raw := strings.TrimSpace(v.GetString(key))
	n, err := strconv.ParseFloat(raw, 64)
	if err != nil || n == 0 {
		return nil
	}
	return fmt.Errorf("%s=%q needs a unit, e.g. %sms", key, raw, raw)
}

func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT is required")
	}
	if c.Catalog.Delay < 0 {
		return errors.New("CATALOG_DELAY must not be negative")
	}
	if c.Catalog.DefaultLimit < 1 {
		return errors.New("CATALOG_DEFAULT_LIMIT must be positive")
	}

	switch c.Catalog.Source {
	case SourceSeed:
	case SourceFile:
		if c.Catalog.File == "" {
			return errors.New("CATALOG_FILE is required when CATALOG_SOURCE=file")
		}
	case SourcePostgres:
		if c.Catalog.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required when CATALOG_SOURCE=postgres")
		}
	default:
		return fmt.Errorf("unknown CATALOG_SOURCE %q", c.Catalog.Source)
	}

	if c.Redis.Addr != "" && c.Redis.TTL <= 0 {
		return errors.New("CACHE_TTL must be positive when REDIS_ADDR is set")
	}
	if c.HTTP.RateLimitRPS < 0 {
		return errors.New("RATE_LIMIT_RPS must not be negative")
	}
	return nil
}

func (c *Config) Addr() string { return ":" + c.Port }

func (c *Config) IsProduction() bool { return c.Env == "production" }
