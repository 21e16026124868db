package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"grimoire/pkg/platform/strings"
)

// Config is the process configuration, read once from the environment.
type Config struct {
	Server    Server
	Edge      Edge
	Storage   Storage
	Redis     RedisConfig
	Telemetry Telemetry
}

// Server captures HTTP server level configuration for the sheet app.
type Server struct {
	Addr     string `env:"ADDR" envDefault:":8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Edge configures the offline caching proxy. It is disabled when Addr is empty.
type Edge struct {
	Addr string `env:"EDGE_ADDR"`
	// OriginURL is the upstream the edge treats as "the network". Empty means
	// the sheet app served by this process.
	OriginURL   string   `env:"ORIGIN_URL"`
	Version     string   `env:"CACHE_VERSION" envDefault:"grimorio-kael-v1"`
	SkipWaiting bool     `env:"CACHE_SKIP_WAITING" envDefault:"true"`
	Driver      string   `env:"CACHE_DRIVER" envDefault:"memory"`
	Manifest    []string `env:"CACHE_MANIFEST" envSeparator:"," envDefault:"./,./index.html,./script.js,./style.css,./manifest.json"`
	Critical    []string `env:"CACHE_CRITICAL" envSeparator:"," envDefault:"./index.html,./script.js,./style.css"`
}

// Storage selects the durable backend of the character document.
type Storage struct {
	Driver      string `env:"STORAGE_DRIVER" envDefault:"sqlite"`
	Key         string `env:"STORAGE_KEY" envDefault:"fichaKael"`
	SQLitePath  string `env:"SQLITE_PATH" envDefault:"grimoire.db"`
	DatabaseURL string `env:"DATABASE_URL"`
}

// RedisConfig is shared by every Redis-backed store.
type RedisConfig struct {
	URL          string        `env:"REDIS_URL"`
	PoolSize     int           `env:"REDIS_POOL_SIZE" envDefault:"10"`
	MinIdleConns int           `env:"REDIS_MIN_IDLE_CONNS" envDefault:"1"`
	DialTimeout  time.Duration `env:"REDIS_DIAL_TIMEOUT" envDefault:"5s"`
	ReadTimeout  time.Duration `env:"REDIS_READ_TIMEOUT" envDefault:"3s"`
	WriteTimeout time.Duration `env:"REDIS_WRITE_TIMEOUT" envDefault:"3s"`
}

// Telemetry enables span export. Tracing is a no-op when Endpoint is empty.
type Telemetry struct {
	Enabled     bool   `env:"OTEL_ENABLED" envDefault:"true"`
	Endpoint    string `env:"OTEL_ENDPOINT"`
	ServiceName string `env:"OTEL_SERVICE_NAME" envDefault:"grimoire"`
}

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.Edge.Manifest = strings.DedupeAndTrim(cfg.Edge.Manifest)
	cfg.Edge.Critical = strings.DedupeAndTrim(cfg.Edge.Critical)
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.Storage.Driver {
	case "memory", "sqlite":
	case "postgres":
		if c.Storage.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for storage driver postgres")
		}
	case "redis":
		if c.Redis.URL == "" {
			return fmt.Errorf("REDIS_URL is required for storage driver redis")
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}

	switch c.Edge.Driver {
	case "memory":
	case "redis":
		if c.Redis.URL == "" {
			return fmt.Errorf("REDIS_URL is required for cache driver redis")
		}
	default:
		return fmt.Errorf("unknown cache driver %q", c.Edge.Driver)
	}

	if c.Edge.Version == "" {
		return fmt.Errorf("CACHE_VERSION must not be empty")
	}
	return nil
}
