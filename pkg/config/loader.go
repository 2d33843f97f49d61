package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
)

// Load parses environment variables into the provided struct.
// The struct should use `env` tags to define mappings.
//
// Example:
//
//	type Config struct {
//	    HTTPPort   int    `env:"STOREFRONT_HTTP_PORT" envDefault:"8080"`
//	    APIBaseURL string `env:"API_BASE_URL" envDefault:"http://127.0.0.1:8000/api"`
//	}
func Load(cfg any) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}
