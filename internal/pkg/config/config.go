package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Auth  AuthConfig
	CORS  CORSConfig
	Cart  CartConfig
	Mongo MongoConfig
	Redis RedisConfig
}

type AuthConfig struct {
	JWTSecret    string        `env:"JWT_SECRET,    required"`
	TokenTTL     time.Duration `env:"JWT_EXPIRES,   default=168h"`
	CookieSecure bool          `env:"COOKIE_SECURE, default=false"`
	CookieDomain string        `env:"COOKIE_DOMAIN"`
}

type CORSConfig struct {
	FrontendURL string `env:"FRONTEND_URL, default=http://localhost:3000"`
	BackendURL  string `env:"BACKEND_URL,  default=http://localhost:5173"`
}

type CartConfig struct {
	Workers        int           `env:"CART_WORKERS,         default=8"`
	MaxAttempts    int           `env:"CART_MAX_ATTEMPTS,    default=3"`
	IdempotencyTTL time.Duration `env:"CART_IDEMPOTENCY_TTL, default=24h"`
}

type MongoConfig struct {
	URI         string        `env:"MONGO_URI,       default=mongodb://localhost:27017"`
	Database    string        `env:"MONGO_DB,        default=storefront"`
	MaxPoolSize uint64        `env:"MONGO_POOL_SIZE, default=100"`
	Timeout     time.Duration `env:"MONGO_TIMEOUT,   default=10s"`
}

type RedisConfig struct {
	Addr     string        `env:"REDIS_ADDR,      default=localhost:6379"`
	Password string        `env:"REDIS_PASSWORD"`
	DB       int           `env:"REDIS_DB,        default=0"`
	PoolSize int           `env:"REDIS_POOL_SIZE, default=10"`
	Timeout  time.Duration `env:"REDIS_TIMEOUT,   default=5s"`
}

// IsProduction reports whether ENV selects production behaviour (JSON logs).
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// AllowedOrigins lists the browser origins allowed to send credentialed requests.
func (c *Config) AllowedOrigins() []string {
	var out []string
	for _, o := range []string{c.CORS.FrontendURL, c.CORS.BackendURL} {
		if o != "" {
			out = append(out, o)
		}
	}
	return out
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := LoadWith(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// LoadWith reads configuration from lookuper and checks the values that
// envconfig cannot express as tags.
func LoadWith(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, err
	}

	if cfg.Auth.TokenTTL <= 0 {
		return nil, fmt.Errorf("JWT_EXPIRES must be positive, got %s", cfg.Auth.TokenTTL)
	}
	if cfg.Cart.Workers <= 0 {
		return nil, fmt.Errorf("CART_WORKERS must be positive, got %d", cfg.Cart.Workers)
	}
	if cfg.Cart.MaxAttempts <= 0 {
		return nil, fmt.Errorf("CART_MAX_ATTEMPTS must be positive, got %d", cfg.Cart.MaxAttempts)
	}
	return &cfg, nil
}
