package config

import (
	"flag"
	"os"
	"time"

	"github.com/ayadas/cozyon-cli/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   base URL of the storefront REST API (default from Config)
//	-d string   sqlite DSN of the local session store (default from Config)
//	-p string   platform signal override for device-class detection
//	-t int      request timeout in seconds (default from Config)
//	-l string   log level (default from Config)
//
// Note: The function filters os.Args to only include the flags it knows
// about, using flagx.FilterArgs, to avoid interference with other
// components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-p", "-t", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "base URL of the storefront REST API")
	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "sqlite DSN of the local session store")
	fs.StringVar(&cfg.Platform, "p", cfg.Platform, "platform signal override (e.g. android)")
	requestTimeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*requestTimeout) * time.Second
}
