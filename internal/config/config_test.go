package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	require.Equal(t, ":8000", cfg.HTTPAddr)
	require.Equal(t, 15*time.Second, cfg.ShutdownTimeout)
	require.Equal(t, 6, cfg.NumRows)
	require.Equal(t, 9, cfg.SlotsPerRow)
	require.Equal(t, int64(10), cfg.ProductsPerSlot)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9999")
	t.Setenv("NUM_ROWS", "3")
	t.Setenv("NUM_SLOTS_PER_ROW", "5")
	t.Setenv("NUM_PRODUCTS_PER_SLOT", "4")
	t.Setenv("SHUTDOWN_TIMEOUT", "30")

	cfg := Load()
	require.Equal(t, ":9999", cfg.HTTPAddr)
	require.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	require.Equal(t, 3, cfg.NumRows)
	require.Equal(t, 5, cfg.SlotsPerRow)
	require.Equal(t, int64(4), cfg.ProductsPerSlot)
}

func TestLoadClampsGridBounds(t *testing.T) {
	t.Setenv("NUM_ROWS", "40")
	t.Setenv("NUM_SLOTS_PER_ROW", "12")
	t.Setenv("NUM_PRODUCTS_PER_SLOT", "0")

	cfg := Load()
	require.Equal(t, 26, cfg.NumRows)
	require.Equal(t, 9, cfg.SlotsPerRow)
	require.Equal(t, int64(1), cfg.ProductsPerSlot)
}
