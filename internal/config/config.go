package config

import (
	"fmt"
	"net/url"
	"time"

	pkgconfig "github.com/utafrali/StorefrontGo/pkg/config"
)

// Config holds all configuration for the storefront runtime.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP view surface
	HTTPPort int `env:"STOREFRONT_HTTP_PORT" envDefault:"8080"`

	// Commerce backend API
	APIBaseURL string        `env:"API_BASE_URL" envDefault:"http://localhost:8000/api"`
	APITimeout time.Duration `env:"API_TIMEOUT" envDefault:"10s"`

	// Base URL used to resolve relative image paths returned by the backend.
	// Defaults to the API base URL with its path stripped.
	MediaBaseURL string `env:"MEDIA_BASE_URL"`

	// Path the guard redirects unauthenticated visitors to.
	LoginPath string `env:"LOGIN_PATH" envDefault:"/login"`

	// Redis (session tokens and cart persistence)
	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`
	CartTTL   time.Duration `env:"CART_TTL" envDefault:"720h"`

	// Kafka
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`
	KafkaTopic   string   `env:"KAFKA_STOREFRONT_TOPIC" envDefault:"storefront.activity"`

	// Orders
	CancelTimeout time.Duration `env:"ORDERS_CANCEL_TIMEOUT" envDefault:"15s"`

	// Rate limiting
	RateLimitRPS   int `env:"RATE_LIMIT_RPS" envDefault:"50"`
	RateLimitBurst int `env:"RATE_LIMIT_BURST" envDefault:"100"`

	// CORS
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`

	// Pprof debug endpoints are only reachable from these CIDRs.
	PprofAllowedCIDRs []string `env:"PPROF_ALLOWED_CIDRS" envDefault:"127.0.0.1/32,::1/128" envSeparator:","`

	// Tracing
	TracingEnabled    bool    `env:"TRACING_ENABLED" envDefault:"false"`
	TracingEndpoint   string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4318"`
	TracingSampleRate float64 `env:"TRACING_SAMPLE_RATE" envDefault:"1.0"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load storefront config: %w", err)
	}
	if cfg.HTTPPort < 1 || cfg.HTTPPort > 65535 {
		return nil, fmt.Errorf("invalid HTTP port: %d", cfg.HTTPPort)
	}

	base, err := url.Parse(cfg.APIBaseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid API base URL: %q", cfg.APIBaseURL)
	}
	if cfg.MediaBaseURL == "" {
		cfg.MediaBaseURL = base.Scheme + "://" + base.Host
	}

	if cfg.CancelTimeout <= 0 {
		return nil, fmt.Errorf("cancel timeout must be positive, got %s", cfg.CancelTimeout)
	}

	return cfg, nil
}
