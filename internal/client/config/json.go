package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/dmitrijs2005/penaltybox/internal/flagx"
)

// Duration accepts either a Go duration string ("10s") or integer
// nanoseconds in JSON.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		v, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", s, err)
		}
		*d = Duration(v)
		return nil
	}
	n, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid duration %s: %w", string(b), err)
	}
	*d = Duration(n)
	return nil
}

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Absent
// fields leave the corresponding Config value untouched.
type JsonConfig struct {
	APIBaseURL     *string   `json:"api_base_url"`
	StatePath      *string   `json:"state_path"`
	LogLevel       *string   `json:"log_level"`
	RequestTimeout *Duration `json:"request_timeout"`
}

// parseJson overlays Config with values loaded from the JSON file named by
// -c/-config in args. Without that flag it does nothing.
//
// Panics on read or unmarshal errors.
func parseJson(cfg *Config, args []string) {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.APIBaseURL != nil {
		cfg.APIBaseURL = *jc.APIBaseURL
	}
	if jc.StatePath != nil {
		cfg.StatePath = *jc.StatePath
	}
	if jc.LogLevel != nil {
		cfg.LogLevel = *jc.LogLevel
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = time.Duration(*jc.RequestTimeout)
	}
}
