package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const (
	DriverFile  = "file"
	DriverMongo = "mongo"
)

type Config struct {
	Port      string        `env:"PORT, default=5000"`
	Env       string        `env:"ENV, default=development"`
	JWTSecret string        `env:"JWT_SECRET, required"`
	TokenTTL  time.Duration `env:"TOKEN_TTL, default=24h"`
	LogLevel  string        `env:"LOG_LEVEL, default=info"`
	LogPretty bool          `env:"LOG_PRETTY, default=false"`

	Store     StoreConfig
	Mongo     MongoConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig

	IdempotencyTTL time.Duration `env:"IDEMPOTENCY_TTL, default=24h"`
}

type StoreConfig struct {
	Driver  string `env:"STORE_DRIVER, default=file"`
	DataDir string `env:"DATA_DIR, default=data"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB, default=service_bazaar"`
}

// RedisConfig is optional: an empty Addr disables rate limiting and
// idempotency keys.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB, default=0"`
}

type RateLimitConfig struct {
	Enabled bool          `env:"RATE_LIMIT_ENABLED, default=true"`
	Limit   int           `env:"RATE_LIMIT_AUTH_LIMIT, default=10"`
	Window  time.Duration `env:"RATE_LIMIT_AUTH_WINDOW, default=1m"`
}

// Load reads configuration through lookuper, which is envconfig.OsLookuper()
// in production and a map in tests.
func Load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Store.Driver {
	case DriverFile, DriverMongo:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.Store.Driver)
	}
	if c.TokenTTL <= 0 {
		return errors.New("TOKEN_TTL must be positive")
	}
	if c.RateLimit.Enabled && (c.RateLimit.Limit < 1 || c.RateLimit.Window <= 0) {
		return errors.New("RATE_LIMIT_AUTH_LIMIT and RATE_LIMIT_AUTH_WINDOW must be positive")
	}
	return nil
}

// IsProduction reports whether ENV is production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// PrettyLogs reports whether console logging applies. Production always
// emits JSON.
func (c *Config) PrettyLogs() bool {
	return c.LogPretty && !c.IsProduction()
}
