package config

import (
	"os"
	"strings"
	"time"
)

// DefaultAPIBaseURL is used when no source provides a base URL.
const DefaultAPIBaseURL = "http://localhost:8000"

// Config holds runtime settings for the PenaltyBox CLI.
//
// RequestTimeout of zero means no per-request override: requests run until
// the backend answers or the caller's context is cancelled.
type Config struct {
	APIBaseURL     string
	StatePath      string
	LogLevel       string
	RequestTimeout time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = DefaultAPIBaseURL
	c.StatePath = "penaltybox.db"
	c.LogLevel = "info"
	c.RequestTimeout = 0
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// .env, the environment, JSON (if present) and command-line flags. Later
// sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	loadDotEnv(".env")
	parseEnv(cfg, os.LookupEnv)
	parseJson(cfg, os.Args[1:])
	parseFlags(cfg, os.Args[1:])
	cfg.normalize()
	return cfg
}

func (c *Config) normalize() {
	c.APIBaseURL = strings.TrimRight(strings.TrimSpace(c.APIBaseURL), "/")
	if c.APIBaseURL == "" {
		c.APIBaseURL = DefaultAPIBaseURL
	}
}
