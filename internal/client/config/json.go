package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/ayadas/cozyon-cli/internal/flagx"
	"github.com/ayadas/cozyon-cli/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify intervals either as strings like "3s"
// or as integer nanoseconds. After parsing, values are copied into the
// runtime Config (which uses time.Duration).
type JsonConfig struct {
	APIBaseURL          string         `json:"api_base_url"`
	RequestTimeout      timex.Duration `json:"request_timeout"`
	DatabaseDSN         string         `json:"database_dsn"`
	Platform            string         `json:"platform"`
	UPIPayeeAddress     string         `json:"upi_payee_address"`
	UPIPayeeName        string         `json:"upi_payee_name"`
	UPICurrency         string         `json:"upi_currency"`
	PaymentHandoffDelay timex.Duration `json:"payment_handoff_delay"`
	LaunchTimeout       timex.Duration `json:"launch_timeout"`
	LogLevel            string         `json:"log_level"`
}

// parseJson overlays Config with values loaded from a JSON file.
//
// Lookup order for the JSON file path:
//  1. Command-line flags (-c or -config) via flagx.JsonConfigFlags().
//  2. If empty, no JSON is loaded and the function returns.
//
// Only fields present (non-zero) in the file override earlier values.
// Panics on read or unmarshal errors (caller should recover if desired).
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JSONConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.APIBaseURL != "" {
		cfg.APIBaseURL = jc.APIBaseURL
	}
	if jc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = time.Duration(jc.RequestTimeout.Duration)
	}
	if jc.DatabaseDSN != "" {
		cfg.DatabaseDSN = jc.DatabaseDSN
	}
	if jc.Platform != "" {
		cfg.Platform = jc.Platform
	}
	if jc.UPIPayeeAddress != "" {
		cfg.UPIPayeeAddress = jc.UPIPayeeAddress
	}
	if jc.UPIPayeeName != "" {
		cfg.UPIPayeeName = jc.UPIPayeeName
	}
	if jc.UPICurrency != "" {
		cfg.UPICurrency = jc.UPICurrency
	}
	if jc.PaymentHandoffDelay.Duration > 0 {
		cfg.PaymentHandoffDelay = time.Duration(jc.PaymentHandoffDelay.Duration)
	}
	if jc.LaunchTimeout.Duration > 0 {
		cfg.LaunchTimeout = time.Duration(jc.LaunchTimeout.Duration)
	}
	if jc.LogLevel != "" {
		cfg.LogLevel = jc.LogLevel
	}
}
