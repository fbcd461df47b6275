package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SetupSentinel/internal/model"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestLoad_Defaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := LoadWithEnv(filepath.Join(dir, "missing.yaml"), filepath.Join(dir, "missing.env"))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 15, cfg.Strategy.SetupWindow)
	assert.Equal(t, 9, cfg.Strategy.DefaultThreshold)
	assert.Equal(t, model.BoundaryEMA20, cfg.Boundary())
	assert.Equal(t, 120, cfg.DataSource.LookbackBars)
	assert.Equal(t, 60, cfg.Chart.Lookback)
	assert.True(t, cfg.ChartEnabled())
	assert.Equal(t, 30*time.Second, cfg.Network.Timeout)
	assert.Len(t, cfg.Instruments, 3)
}

func TestLoad_YAMLAndResolve(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "config.yaml", `
strategy:
  setup_window: 20
  default_threshold: 9
  trend_boundary: MA60
chart:
  enabled: false
  lookback: 90
network:
  timeout: 5s
instruments:
  - symbol: "^KS11"
    name: KOSPI
  - symbol: "NVDA"
    name: Nvidia
    threshold: 4
  - symbol: "7203.T"
    currency: usd
`)
	cfg, err := LoadWithEnv(p, "")
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 20, cfg.Strategy.SetupWindow)
	assert.Equal(t, model.BoundaryMA60, cfg.Boundary())
	assert.False(t, cfg.ChartEnabled())
	assert.Equal(t, 90, cfg.Chart.Lookback)
	assert.Equal(t, 5*time.Second, cfg.Network.Timeout)

	insts := cfg.ResolveInstruments()
	require.Len(t, insts, 3)
	assert.Equal(t, model.Instrument{Symbol: "^KS11", Name: "KOSPI", Currency: model.KRW, Threshold: 9}, insts[0])
	assert.Equal(t, model.Instrument{Symbol: "NVDA", Name: "Nvidia", Currency: model.USD, Threshold: 4}, insts[1])
	assert.Equal(t, model.Instrument{Symbol: "7203.T", Name: "7203.T", Currency: model.USD, Threshold: 9}, insts[2])
}

func TestLoad_EnvOverrides(t *testing.T) {
	dir := t.TempDir()
	envPath := writeFile(t, dir, ".env", "TELEGRAM_BOT_TOKEN=from-dotenv\nTELEGRAM_CHAT_ID=42\n")
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	t.Setenv("TELEGRAM_CHAT_ID", "")
	os.Unsetenv("TELEGRAM_BOT_TOKEN")
	os.Unsetenv("TELEGRAM_CHAT_ID")
	t.Setenv("SETUP_WINDOW", "18")
	t.Setenv("TREND_BOUNDARY", "ma60")

	cfg, err := LoadWithEnv(filepath.Join(dir, "none.yaml"), envPath)
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.Telegram.BotToken)
	assert.Equal(t, "42", cfg.Telegram.ChatID)
	assert.Equal(t, 18, cfg.Strategy.SetupWindow)
	assert.Equal(t, model.BoundaryMA60, cfg.Boundary())
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "config.yaml", "strategy: [unclosed")
	_, err := LoadWithEnv(p, "")
	assert.Error(t, err)
}

func TestValidate_Errors(t *testing.T) {
	base := func() *Config {
		cfg, err := LoadWithEnv(filepath.Join(t.TempDir(), "none.yaml"), "")
		require.NoError(t, err)
		return cfg
	}

	cfg := base()
	cfg.Strategy.TrendBoundary = "sma200"
	assert.ErrorContains(t, cfg.Validate(), "trend_boundary")

	cfg = base()
	cfg.Strategy.SetupWindow = -1
	assert.ErrorContains(t, cfg.Validate(), "setup_window")

	cfg = base()
	cfg.Instruments = append(cfg.Instruments, InstrumentConfig{Symbol: "^KS11"})
	assert.ErrorContains(t, cfg.Validate(), "duplicate")

	cfg = base()
	cfg.Instruments = []InstrumentConfig{{Symbol: "X", Currency: "GBP"}}
	assert.ErrorContains(t, cfg.Validate(), "currency")

	cfg = base()
	cfg.Instruments = []InstrumentConfig{{Name: "nameless"}}
	assert.ErrorContains(t, cfg.Validate(), "symbol")

	// Missing Telegram credentials are not a config error.
	cfg = base()
	cfg.Telegram.BotToken = ""
	assert.NoError(t, cfg.Validate())
}
