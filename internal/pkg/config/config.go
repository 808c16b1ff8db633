package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const (
	DriverSQLite = "sqlite"
	DriverMongo  = "mongo"
)

// ErrMissingJWTSecret is returned by Validate in production when no secret is set.
var ErrMissingJWTSecret = errors.New("config: JWT_SECRET is required when ENV=production")

type Config struct {
	Port            string        `env:"PORT,             default=5000"`
	Env             string        `env:"ENV,              default=development"`
	JWTSecret       string        `env:"JWT_SECRET"`
	TokenTTL        time.Duration `env:"TOKEN_TTL,        default=24h"`
	LogLevel        string        `env:"LOG_LEVEL,        default=info"`
	LogPretty       bool          `env:"LOG_PRETTY,       default=false"`
	APIBasePath     string        `env:"API_BASE_PATH,    default=/api"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT, default=10s"`

	Store StoreConfig
}

type StoreConfig struct {
	Driver       string `env:"STORE_DRIVER,  default=sqlite"`
	DatabasePath string `env:"DATABASE_PATH, default=data/blog.sqlite"`
	MongoURI     string `env:"MONGO_URI,     default=mongodb://localhost:27017"`
	MongoDB      string `env:"MONGO_DB,      default=blog"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	return &cfg, cfg.Validate()
}

// LoadFrom reads configuration from the given map instead of the process
// environment.
func LoadFrom(ctx context.Context, env map[string]string) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: envconfig.MapLookuper(env),
	}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	return &cfg, cfg.Validate()
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// Validate checks cross-field rules that struct tags cannot express.
func (c *Config) Validate() error {
	if c.IsProduction() && c.JWTSecret == "" {
		return ErrMissingJWTSecret
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("config: TOKEN_TTL must be positive, got %s", c.TokenTTL)
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("config: SHUTDOWN_TIMEOUT must be positive, got %s", c.ShutdownTimeout)
	}
	if !strings.HasPrefix(c.APIBasePath, "/") {
		return fmt.Errorf("config: API_BASE_PATH must start with '/', got %q", c.APIBasePath)
	}

	switch c.Store.Driver {
	case DriverSQLite:
		if c.Store.DatabasePath == "" {
			return errors.New("config: DATABASE_PATH is required for the sqlite driver")
		}
	case DriverMongo:
		if c.Store.MongoURI == "" || c.Store.MongoDB == "" {
			return errors.New("config: MONGO_URI and MONGO_DB are required for the mongo driver")
		}
	default:
		return fmt.Errorf("config: unknown STORE_DRIVER %q", c.Store.Driver)
	}
	return nil
}
