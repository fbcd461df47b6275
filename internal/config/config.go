package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"SetupSentinel/internal/model"
	"SetupSentinel/internal/strategy"
)

// InstrumentConfig is one entry of the instrument list.
type InstrumentConfig struct {
	Symbol    string `yaml:"symbol"`
	Name      string `yaml:"name"`
	Currency  string `yaml:"currency"`
	Threshold int    `yaml:"threshold"`
}

// Config holds all application configuration.
type Config struct {
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	DataSource struct {
		BaseURL      string `yaml:"base_url"`
		APIKey       string `yaml:"api_key"`
		LookbackBars int    `yaml:"lookback_bars"`
	} `yaml:"data_source"`
	Strategy struct {
		SetupWindow      int    `yaml:"setup_window"`
		DefaultThreshold int    `yaml:"default_threshold"`
		TrendBoundary    string `yaml:"trend_boundary"`
	} `yaml:"strategy"`
	Chart struct {
		Enabled  *bool `yaml:"enabled"`
		Lookback int   `yaml:"lookback"`
		Width    int   `yaml:"width"`
		Height   int   `yaml:"height"`
	} `yaml:"chart"`
	Instruments []InstrumentConfig `yaml:"instruments"`
	Schedule    struct {
		DailyCron string `yaml:"daily_cron"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Log struct {
		Level      string `yaml:"level"`
		FilePath   string `yaml:"file_path"`
		MaxSize    int    `yaml:"max_size"`
		MaxAge     int    `yaml:"max_age"`
		MaxBackups int    `yaml:"max_backups"`
		Compress   bool   `yaml:"compress"`
	} `yaml:"log"`
	Metrics struct {
		Addr string `yaml:"addr"`
	} `yaml:"metrics"`
	Network struct {
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"network"`
	Proxy string `yaml:"proxy"`
}

// DefaultInstruments is used when the config lists none.
var DefaultInstruments = []InstrumentConfig{
	{Symbol: "^KS11", Name: "KOSPI"},
	{Symbol: "^KQ11", Name: "KOSDAQ"},
	{Symbol: "005930.KS", Name: "Samsung Elec", Threshold: 4},
}

// Load reads config from a YAML file and a .env file, then applies
// environment variable overrides and defaults. Missing files are not errors.
func Load(path string) (*Config, error) {
	return LoadWithEnv(path, ".env")
}

// LoadWithEnv is Load with an explicit dotenv path.
func LoadWithEnv(path, envPath string) (*Config, error) {
	cfg := &Config{}

	if envPath != "" {
		if err := godotenv.Load(envPath); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("load env file: %w", err)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("DATA_BASE_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("DATA_API_KEY"); v != "" {
		cfg.DataSource.APIKey = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("SETUP_WINDOW"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Strategy.SetupWindow = n
		}
	}
	if v := os.Getenv("TREND_BOUNDARY"); v != "" {
		cfg.Strategy.TrendBoundary = v
	}
	if v := os.Getenv("CRON_DAILY"); v != "" {
		cfg.Schedule.DailyCron = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("METRICS_ADDR"); v != "" {
		cfg.Metrics.Addr = v
	}

	// Defaults
	if cfg.DataSource.LookbackBars == 0 {
		cfg.DataSource.LookbackBars = 120
	}
	if cfg.Strategy.SetupWindow == 0 {
		cfg.Strategy.SetupWindow = strategy.DefaultSetupWindow
	}
	if cfg.Strategy.DefaultThreshold == 0 {
		cfg.Strategy.DefaultThreshold = strategy.DefaultThreshold
	}
	cfg.Strategy.TrendBoundary = strings.ToLower(strings.TrimSpace(cfg.Strategy.TrendBoundary))
	if cfg.Strategy.TrendBoundary == "" {
		cfg.Strategy.TrendBoundary = string(model.BoundaryEMA20)
	}
	if cfg.Chart.Enabled == nil {
		enabled := true
		cfg.Chart.Enabled = &enabled
	}
	if cfg.Chart.Lookback == 0 {
		cfg.Chart.Lookback = 60
	}
	if cfg.Chart.Width == 0 {
		cfg.Chart.Width = 1024
	}
	if cfg.Chart.Height == 0 {
		cfg.Chart.Height = 640
	}
	if len(cfg.Instruments) == 0 {
		cfg.Instruments = append([]InstrumentConfig(nil), DefaultInstruments...)
	}
	if cfg.Schedule.DailyCron == "" {
		cfg.Schedule.DailyCron = "0 30 16 * * 1-5"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.MaxSize == 0 {
		cfg.Log.MaxSize = 50
	}
	if cfg.Log.MaxAge == 0 {
		cfg.Log.MaxAge = 30
	}
	if cfg.Log.MaxBackups == 0 {
		cfg.Log.MaxBackups = 7
	}
	if cfg.Network.Timeout == 0 {
		cfg.Network.Timeout = 30 * time.Second
	}

	return cfg, nil
}

// Validate checks that the strategy and instrument settings are usable.
// Telegram credentials are optional; the notifier reports them as missing.
func (c *Config) Validate() error {
	if c.Strategy.SetupWindow < 1 {
		return fmt.Errorf("strategy.setup_window must be >= 1")
	}
	if c.Strategy.DefaultThreshold < 1 {
		return fmt.Errorf("strategy.default_threshold must be >= 1")
	}
	switch model.TrendBoundary(c.Strategy.TrendBoundary) {
	case model.BoundaryEMA20, model.BoundaryMA60:
	default:
		return fmt.Errorf("strategy.trend_boundary must be %q or %q, got %q",
			model.BoundaryEMA20, model.BoundaryMA60, c.Strategy.TrendBoundary)
	}
	if c.DataSource.LookbackBars < 1 {
		return fmt.Errorf("data_source.lookback_bars must be positive")
	}
	if c.Chart.Lookback < 2 {
		return fmt.Errorf("chart.lookback must be >= 2")
	}
	seen := make(map[string]bool, len(c.Instruments))
	for i, inst := range c.Instruments {
		if inst.Symbol == "" {
			return fmt.Errorf("instruments[%d].symbol is required", i)
		}
		if seen[inst.Symbol] {
			return fmt.Errorf("instruments[%d]: duplicate symbol %s", i, inst.Symbol)
		}
		seen[inst.Symbol] = true
		if inst.Threshold < 0 {
			return fmt.Errorf("instruments[%d].threshold must not be negative", i)
		}
		switch model.CurrencyClass(strings.ToUpper(inst.Currency)) {
		case "", model.KRW, model.USD, model.JPY:
		default:
			return fmt.Errorf("instruments[%d]: unknown currency %q", i, inst.Currency)
		}
	}
	return nil
}

// ResolveInstruments returns the instrument list with effective currency
// and threshold filled in.
func (c *Config) ResolveInstruments() []model.Instrument {
	out := make([]model.Instrument, 0, len(c.Instruments))
	for _, ic := range c.Instruments {
		inst := model.Instrument{
			Symbol:    ic.Symbol,
			Name:      ic.Name,
			Currency:  model.CurrencyClass(strings.ToUpper(ic.Currency)),
			Threshold: ic.Threshold,
		}
		if inst.Name == "" {
			inst.Name = ic.Symbol
		}
		if inst.Currency == "" {
			inst.Currency = model.DeriveCurrency(ic.Symbol)
		}
		if inst.Threshold == 0 {
			inst.Threshold = c.Strategy.DefaultThreshold
		}
		out = append(out, inst)
	}
	return out
}

// Boundary returns the configured trend boundary.
func (c *Config) Boundary() model.TrendBoundary {
	return model.TrendBoundary(c.Strategy.TrendBoundary)
}

// ChartEnabled reports whether charts should be rendered for alerts.
func (c *Config) ChartEnabled() bool {
	return c.Chart.Enabled == nil || *c.Chart.Enabled
}
