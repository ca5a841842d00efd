package config

import (
	"errors"
	"io/fs"
	"log"

	"github.com/joho/godotenv"
)

const (
	envAPIBaseURL = "PENALTYBOX_API_BASE_URL"
	envStatePath  = "PENALTYBOX_STATE_PATH"
	envLogLevel   = "PENALTYBOX_LOG_LEVEL"
)

// loadDotEnv loads variables from path into the process environment without
// overriding ones already set. A missing file is not an error.
func loadDotEnv(path string) {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("ignoring %s: %v", path, err)
	}
}

// parseEnv overlays Config with non-empty environment variables.
func parseEnv(cfg *Config, lookup func(string) (string, bool)) {
	if v, ok := lookup(envAPIBaseURL); ok && v != "" {
		cfg.APIBaseURL = v
	}
	if v, ok := lookup(envStatePath); ok && v != "" {
		cfg.StatePath = v
	}
	if v, ok := lookup(envLogLevel); ok && v != "" {
		cfg.LogLevel = v
	}
}
