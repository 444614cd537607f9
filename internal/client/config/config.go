package config

import "time"

// Config holds runtime settings for the storefront CLI.
//
// Platform overrides the device-class signal used to pick the payment
// presentation; empty means detect from the runtime OS. PaymentHandoffDelay
// is how long the mobile flow waits for the external payment app to take
// over before showing the booking confirmation.
type Config struct {
	APIBaseURL     string
	RequestTimeout time.Duration
	DatabaseDSN    string
	Platform       string

	UPIPayeeAddress string
	UPIPayeeName    string
	UPICurrency     string

	PaymentHandoffDelay time.Duration
	LaunchTimeout       time.Duration

	LogLevel string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://localhost:5000/api"
	c.RequestTimeout = 15 * time.Second
	c.DatabaseDSN = "cozyon.db"
	c.Platform = ""
	c.UPIPayeeAddress = "cozyon@ybl"
	c.UPIPayeeName = "Cozyon Store"
	c.UPICurrency = "INR"
	c.PaymentHandoffDelay = 1500 * time.Millisecond
	c.LaunchTimeout = 3 * time.Second
	c.LogLevel = "info"
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from the environment, JSON (if present) and command-line flags (if
// present). Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
