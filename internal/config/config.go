package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"TrendScope/internal/recorder"
	"TrendScope/internal/report"
)

// EnvPrefix prefixes every environment override, e.g. TRENDSCOPE_DATA_SOURCE.
const EnvPrefix = "TRENDSCOPE"

// DefaultPath is read when CONFIG_PATH is not set.
const DefaultPath = "configs/config.yaml"

// Config holds all application configuration.
type Config struct {
	Data struct {
		Source  string        `yaml:"source" envconfig:"SOURCE"` // yahoo, yfinance, rest or mock
		BaseURL string        `yaml:"base_url" envconfig:"BASE_URL"`
		APIKey  string        `yaml:"api_key" envconfig:"API_KEY"`
		Timeout time.Duration `yaml:"timeout" envconfig:"TIMEOUT"`
		Start   string        `yaml:"start" envconfig:"START"`
		End     string        `yaml:"end" envconfig:"END"`
	} `yaml:"data" envconfig:"DATA"`
	Analysis struct {
		Tickers        []string `yaml:"tickers" envconfig:"TICKERS"`
		HorizonDays    int      `yaml:"horizon_days" envconfig:"HORIZON_DAYS"`
		PortfolioValue float64  `yaml:"portfolio_value" envconfig:"PORTFOLIO_VALUE"`
		Position       float64  `yaml:"var_position" envconfig:"VAR_POSITION"`
		Confidence     float64  `yaml:"var_confidence" envconfig:"VAR_CONFIDENCE"`
		RecentRows     int      `yaml:"recent_rows" envconfig:"RECENT_ROWS"`
	} `yaml:"analysis" envconfig:"ANALYSIS"`
	Backtest struct {
		Ticker     string `yaml:"ticker" envconfig:"TICKER"`
		TrainStart string `yaml:"train_start" envconfig:"TRAIN_START"`
		TrainEnd   string `yaml:"train_end" envconfig:"TRAIN_END"`
		Target     string `yaml:"target" envconfig:"TARGET"`
	} `yaml:"backtest" envconfig:"BACKTEST"`
	Output struct {
		SnapshotPath string `yaml:"snapshot_path" envconfig:"SNAPSHOT_PATH"`
		ChartDir     string `yaml:"chart_dir" envconfig:"CHART_DIR"`
		Plain        bool   `yaml:"plain" envconfig:"PLAIN"`
	} `yaml:"output" envconfig:"OUTPUT"`
	Schedule struct {
		Cron string `yaml:"cron" envconfig:"CRON"`
	} `yaml:"schedule" envconfig:"SCHEDULE"`
	Log struct {
		Level  string `yaml:"level" envconfig:"LEVEL"`
		Pretty bool   `yaml:"pretty" envconfig:"PRETTY"`
	} `yaml:"log" envconfig:"LOG"`
	Proxy string `yaml:"proxy" envconfig:"PROXY"`
}

// Path returns CONFIG_PATH or the default location.
func Path() string {
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		return v
	}
	return DefaultPath
}

// Load reads config from a YAML file, then applies .env and environment
// variable overrides, then defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Load .env file if it exists
	_ = godotenv.Load()

	// Environment variable overrides
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("read env overrides: %w", err)
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" && cfg.Proxy == "" {
		cfg.Proxy = v
	}

	// Defaults
	if cfg.Data.Source == "" {
		cfg.Data.Source = "yahoo"
	}
	if cfg.Data.Timeout == 0 {
		cfg.Data.Timeout = 30 * time.Second
	}
	if cfg.Data.Start == "" {
		cfg.Data.Start = "2020-01-01"
	}
	if cfg.Analysis.Confidence == 0 {
		cfg.Analysis.Confidence = 0.95
	}
	if cfg.Analysis.RecentRows == 0 {
		cfg.Analysis.RecentRows = report.DefaultRecentRows
	}
	if cfg.Backtest.TrainStart == "" {
		cfg.Backtest.TrainStart = "2025-01-01"
	}
	if cfg.Backtest.TrainEnd == "" {
		cfg.Backtest.TrainEnd = "2025-04-01"
	}
	if cfg.Backtest.Target == "" {
		cfg.Backtest.Target = "2025-04-15"
	}
	if cfg.Output.SnapshotPath == "" {
		cfg.Output.SnapshotPath = recorder.DefaultSnapshotPath
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}

	return cfg, nil
}

// Validate checks that every set field is usable.
func (c *Config) Validate() error {
	switch c.Data.Source {
	case "yahoo", "yfinance", "mock":
	case "rest":
		if c.Data.BaseURL == "" {
			return fmt.Errorf("data.base_url is required for the rest source")
		}
	default:
		return fmt.Errorf("data.source %q is not one of yahoo, yfinance, rest, mock", c.Data.Source)
	}
	if c.Data.Timeout < 0 {
		return fmt.Errorf("data.timeout must not be negative")
	}
	for name, v := range map[string]string{
		"data.start":           c.Data.Start,
		"data.end":             c.Data.End,
		"backtest.train_start": c.Backtest.TrainStart,
		"backtest.train_end":   c.Backtest.TrainEnd,
		"backtest.target":      c.Backtest.Target,
	} {
		if _, err := ParseDate(v); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	if c.Analysis.HorizonDays < 0 {
		return fmt.Errorf("analysis.horizon_days must not be negative")
	}
	if c.Analysis.PortfolioValue < 0 {
		return fmt.Errorf("analysis.portfolio_value must not be negative")
	}
	if c.Analysis.Position < 0 {
		return fmt.Errorf("analysis.var_position must not be negative")
	}
	if !(c.Analysis.Confidence > 0 && c.Analysis.Confidence < 1) {
		return fmt.Errorf("analysis.var_confidence must be in (0,1)")
	}
	if c.Analysis.RecentRows <= 0 {
		return fmt.Errorf("analysis.recent_rows must be positive")
	}
	return nil
}

// ParseDate parses a YYYY-MM-DD date as UTC midnight. Empty yields the zero time.
func ParseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD", s)
	}
	return t, nil
}
