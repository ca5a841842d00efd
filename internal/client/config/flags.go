package config

import (
	"flag"
	"time"

	"github.com/dmitrijs2005/penaltybox/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
//	-a string   API base URL
//	-s string   local state database path
//	-l string   log level
//	-t int      request timeout in seconds
//
// args are filtered with flagx.FilterArgs first so -c/-config and anything
// else on the command line does not trip the parser.
func parseFlags(cfg *Config, args []string) {
	args = flagx.FilterArgs(args, []string{"-a", "-s", "-l", "-t"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "base URL of the PenaltyBox API")
	fs.StringVar(&cfg.StatePath, "s", cfg.StatePath, "path of the local state database")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level: debug, info, warn, error")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds, 0 = none)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
}
