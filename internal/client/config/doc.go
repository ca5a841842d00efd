// Package config loads runtime configuration for the PenaltyBox CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. A .env file in the working directory, if any (godotenv).
//  3. Environment variables (see parseEnv).
//  4. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  5. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the PenaltyBox REST API
//	-s string   path of the local state database
//	-l string   log level (debug, info, warn, error)
//	-t int      per-request timeout in seconds (0 keeps the HTTP default)
//
// Environment
//
//	PENALTYBOX_API_BASE_URL, PENALTYBOX_STATE_PATH, PENALTYBOX_LOG_LEVEL
//
// # JSON schema
//
//	{
//	  "api_base_url": "http://localhost:8000",
//	  "state_path": "penaltybox.db",
//	  "log_level": "info",
//	  "request_timeout": "10s"
//	}
package config
