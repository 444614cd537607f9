package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// envConfig is a DTO for envconfig. Every variable carries the STOREFRONT_
// prefix, e.g. STOREFRONT_API_BASE_URL. Durations use Go syntax ("15s").
type envConfig struct {
	APIBaseURL          string        `envconfig:"API_BASE_URL"`
	RequestTimeout      time.Duration `envconfig:"REQUEST_TIMEOUT"`
	DatabaseDSN         string        `envconfig:"DATABASE_DSN"`
	Platform            string        `envconfig:"PLATFORM"`
	UPIPayeeAddress     string        `envconfig:"UPI_PAYEE_ADDRESS"`
	UPIPayeeName        string        `envconfig:"UPI_PAYEE_NAME"`
	UPICurrency         string        `envconfig:"UPI_CURRENCY"`
	PaymentHandoffDelay time.Duration `envconfig:"PAYMENT_HANDOFF_DELAY"`
	LaunchTimeout       time.Duration `envconfig:"LAUNCH_TIMEOUT"`
	LogLevel            string        `envconfig:"LOG_LEVEL"`
}

// parseEnv overlays Config with values from the process environment. A .env
// file in the working directory is loaded first when present; a missing file
// is not an error. Only variables that are actually set override earlier
// values.
func parseEnv(cfg *Config) {
	_ = godotenv.Load()

	var ec envConfig
	if err := envconfig.Process("storefront", &ec); err != nil {
		panic(err)
	}

	if ec.APIBaseURL != "" {
		cfg.APIBaseURL = ec.APIBaseURL
	}
	if ec.RequestTimeout > 0 {
		cfg.RequestTimeout = ec.RequestTimeout
	}
	if ec.DatabaseDSN != "" {
		cfg.DatabaseDSN = ec.DatabaseDSN
	}
	if ec.Platform != "" {
		cfg.Platform = ec.Platform
	}
	if ec.UPIPayeeAddress != "" {
		cfg.UPIPayeeAddress = ec.UPIPayeeAddress
	}
	if ec.UPIPayeeName != "" {
		cfg.UPIPayeeName = ec.UPIPayeeName
	}
	if ec.UPICurrency != "" {
		cfg.UPICurrency = ec.UPICurrency
	}
	if ec.PaymentHandoffDelay > 0 {
		cfg.PaymentHandoffDelay = ec.PaymentHandoffDelay
	}
	if ec.LaunchTimeout > 0 {
		cfg.LaunchTimeout = ec.LaunchTimeout
	}
	if ec.LogLevel != "" {
		cfg.LogLevel = ec.LogLevel
	}
}
