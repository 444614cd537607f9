// Package config loads runtime configuration for the Cozyon storefront CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment variables with the STOREFRONT_ prefix, optionally loaded
//     from a .env file first (see parseEnv).
//  3. Optional JSON file (see parseJson) selected via -c or -config flags.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the storefront REST API
//	-d string   sqlite DSN of the local session store
//	-p string   platform signal override for device-class detection
//	-t int      request timeout (seconds)
//	-l string   log level (debug, info, warn, error)
//
// # JSON schema
//
// The JSON loader uses timex.Duration for intervals, so values can be either
// strings like "3s" or integer nanoseconds:
//
//	{
//	  "api_base_url": "http://localhost:5000/api",
//	  "database_dsn": "cozyon.db",
//	  "request_timeout": "15s",
//	  "payment_handoff_delay": "1500ms",
//	  "upi_payee_address": "cozyon@ybl"
//	}
package config
