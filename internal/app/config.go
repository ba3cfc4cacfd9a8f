package app

import (
	"net/url"
	"os"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
	"github.com/joho/godotenv"

	"github.com/xenking/autoparts-storefront/internal/backend"
)

const defaultAddr = "0.0.0.0:8080"

// Config holds the complete application configuration, loadable from
// environment variables (STOREFRONT_ prefix), flags, or YAML config files.
type Config struct {
	Addr        string `default:"0.0.0.0:8080" usage:"API server listen address"`
	DatabaseURL string `usage:"PostgreSQL connection URL; sessions and coupons stay in memory when empty" flag:"database-url"`
	BackendURL  string `default:"http://localhost:8081/api" usage:"Base URL of the storefront backend API" flag:"backend-url"`
	// SessionIdleTimeout drops carts and coupon slots of idle sessions.
	// Wishlists survive in storage.
	SessionIdleTimeout time.Duration `default:"2h" usage:"Idle time after which a session is dropped" flag:"session-idle-timeout"`
	VehicleCache       VehicleCacheConfig
	Coupons            CouponsConfig
	RateLimit          RateLimitConfig
	CORS               CORSConfig
	Graceful           GracefulConfig
}

// VehicleCacheConfig controls caching and throttling of plate lookups.
type VehicleCacheConfig struct {
	TTL         time.Duration `default:"1h" usage:"How long resolved vehicles are cached"`
	NegativeTTL time.Duration `default:"5m" usage:"How long unknown plates are cached" flag:"vehicle-negative-ttl"`
	Rate        float64       `default:"5" usage:"Backend plate lookups per second, 0 disables throttling"`
	Burst       int           `default:"10" usage:"Backend plate lookup burst"`
}

// CouponsConfig sizes the negative cache in front of stored coupons.
type CouponsConfig struct {
	FilterCapacity    uint          `default:"100000" usage:"Expected number of stored coupon codes" flag:"coupon-filter-capacity"`
	FalsePositiveRate float64       `default:"0.01" usage:"Coupon filter false positive rate" flag:"coupon-filter-fp-rate"`
	RefreshInterval   time.Duration `default:"5m" usage:"How often newly stored codes are added to the filter" flag:"coupon-refresh-interval"`
}

// RateLimitConfig controls the per-client token bucket rate limiter.
type RateLimitConfig struct {
	Max    int           `default:"100" usage:"Max requests per window"`
	Window time.Duration `default:"1m"  usage:"Rate limit window duration"`
}

// CORSConfig controls Cross-Origin Resource Sharing headers.
type CORSConfig struct {
	Origins          []string `default:"*" usage:"Allowed CORS origins"`
	AllowCredentials bool     `default:"false" usage:"Allow credentials (cookies, auth headers)" flag:"cors-credentials"`
}

// GracefulConfig controls graceful shutdown timing.
type GracefulConfig struct {
	ReadinessDelay  time.Duration `default:"3s"  usage:"Delay after readiness=false before shutdown" flag:"readiness-delay"`
	ShutdownTimeout time.Duration `default:"15s" usage:"Maximum shutdown duration" flag:"shutdown-timeout"`
}

// LoadConfig loads configuration from a .env file, environment variables,
// YAML config files and flags, then applies platform-specific defaults.
func LoadConfig() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()
	return loadConfig(os.Args[1:])
}

func loadConfig(args []string) (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "STOREFRONT",
		Args:      args,
		Files:     []string{"config.yaml", "/etc/storefront/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	cfg.applyPlatformDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "validate config")
	}
	return &cfg, nil
}

// Validate checks values the loader cannot.
func (c *Config) Validate() error {
	if c.BackendURL == "" {
		c.BackendURL = backend.DefaultBaseURL
	}
	u, err := url.Parse(c.BackendURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return errors.Errorf("invalid backend URL %q", c.BackendURL)
	}
	if c.SessionIdleTimeout <= 0 {
		return errors.New("session idle timeout must be positive")
	}
	if c.VehicleCache.Rate < 0 {
		return errors.New("vehicle lookup rate must not be negative")
	}
	if c.Coupons.FalsePositiveRate <= 0 || c.Coupons.FalsePositiveRate >= 1 {
		return errors.Errorf("coupon filter false positive rate %v out of (0, 1)", c.Coupons.FalsePositiveRate)
	}
	return nil
}

// applyPlatformDefaults maps platform-provided environment variables (Railway,
// Render, etc.) that use standard names like DATABASE_URL and PORT to the
// application's STOREFRONT_-prefixed configuration.
func (c *Config) applyPlatformDefaults() {
	if c.DatabaseURL == "" {
		if v := os.Getenv("DATABASE_URL"); v != "" {
			c.DatabaseURL = v
		}
	}
	if port := os.Getenv("PORT"); port != "" && c.Addr == defaultAddr {
		c.Addr = "0.0.0.0:" + port
	}
}
