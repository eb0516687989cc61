// Package config provides runtime configuration values for the service.
package config

import (
	"time"

	"github.com/spf13/viper"
)

// Product name bounds are part of the API contract, not tunables.
const (
	MinProductNameLen = 2
	MaxProductNameLen = 20
)

// Config holds configuration knobs for the HTTP server and the slot grid.
type Config struct {
	HTTPAddr        string
	ShutdownTimeout time.Duration

	// NumRows bounds the first code character to 'A'..'A'+NumRows-1.
	NumRows int
	// SlotsPerRow bounds the second code character to '1'..'0'+SlotsPerRow.
	SlotsPerRow int
	// ProductsPerSlot caps both slot capacity and slot quantity.
	ProductsPerSlot int64
}

// Load collects configuration from environment with defaults.
// There is no config file; all knobs are process-start parameters.
func Load() Config {
	v := viper.New()
	v.SetDefault("HTTP_ADDR", ":8000")
	v.SetDefault("SHUTDOWN_TIMEOUT", 15)
	v.SetDefault("NUM_ROWS", 6)
	v.SetDefault("NUM_SLOTS_PER_ROW", 9)
	v.SetDefault("NUM_PRODUCTS_PER_SLOT", 10)
	v.AutomaticEnv()

	cfg := Config{
		HTTPAddr:        v.GetString("HTTP_ADDR"),
		ShutdownTimeout: time.Duration(v.GetInt("SHUTDOWN_TIMEOUT")) * time.Second,
		NumRows:         v.GetInt("NUM_ROWS"),
		SlotsPerRow:     v.GetInt("NUM_SLOTS_PER_ROW"),
		ProductsPerSlot: v.GetInt64("NUM_PRODUCTS_PER_SLOT"),
	}
	// Codes are a single letter plus a single non-zero digit, so the grid
	// can never exceed 26 rows or 9 columns.
	cfg.NumRows = clamp(cfg.NumRows, 1, 26)
	cfg.SlotsPerRow = clamp(cfg.SlotsPerRow, 1, 9)
	if cfg.ProductsPerSlot < 1 {
		cfg.ProductsPerSlot = 1
	}
	return cfg
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
