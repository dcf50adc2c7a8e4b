package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	_ "time/tzdata"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

const (
	ProviderAlpaca = "alpaca"
	ProviderYahoo  = "yahoo"
)

type Config struct {
	Log        LoggingConfig    `yaml:"log"`
	Feed       FeedConfig       `yaml:"feed"`
	Tickers    []string         `yaml:"tickers"`
	Windows    WindowsConfig    `yaml:"windows"`
	Indicators IndicatorsConfig `yaml:"indicators"`
	Schedule   ScheduleConfig   `yaml:"schedule"`
	Metrics    MetricsConfig    `yaml:"metrics"`
	Telegram   TelegramConfig   `yaml:"telegram"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

type FeedConfig struct {
	Provider          string        `yaml:"provider"`
	BaseURL           string        `yaml:"base_url"`
	DataURL           string        `yaml:"data_url"`
	DataFeed          string        `yaml:"data_feed"`
	Timeout           time.Duration `yaml:"timeout"`
	RequestsPerMinute int           `yaml:"requests_per_minute"`
	APIKey            string        `yaml:"-"`
	APISecret         string        `yaml:"-"`
}

type WindowsConfig struct {
	Session WindowConfig `yaml:"session"`
	Monthly WindowConfig `yaml:"monthly"`
}

// WindowConfig describes one bar request. Sessions > 0 keeps only the last N
// trading days after the regular-hours filter.
type WindowConfig struct {
	BarSize      time.Duration `yaml:"bar_size"`
	Lookback     time.Duration `yaml:"lookback"`
	Sessions     int           `yaml:"sessions"`
	RegularHours *bool         `yaml:"regular_hours"`
}

func (w WindowConfig) RegularHoursValue() bool {
	if w.RegularHours == nil {
		return true
	}
	return *w.RegularHours
}

type IndicatorsConfig struct {
	RSIPeriods []int `yaml:"rsi_periods"`
}

type ScheduleConfig struct {
	Cron     string `yaml:"cron"`
	Timezone string `yaml:"timezone"`
}

type MetricsConfig struct {
	Enabled      *bool  `yaml:"enabled"`
	Address      string `yaml:"address"`
	Path         string `yaml:"path"`
	TextfilePath string `yaml:"textfile_path"`
}

func (m MetricsConfig) EnabledValue() bool {
	if m.Enabled == nil {
		return true
	}
	return *m.Enabled
}

type TelegramConfig struct {
	Enabled bool   `yaml:"enabled"`
	Token   string `yaml:"token"`
	ChatID  string `yaml:"chat_id"`
}

var DefaultTickers = []string{
	"AAPL", "MSFT", "INTC", "COIN", "V", "CVX",
	"NVDA", "GOOGL", "NU", "NIO", "TSLA", "AMZN",
}

func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes YAML, applies defaults and pulls secrets from the environment.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyEnv(&cfg)
	applyDefaults(&cfg)
	return &cfg, validate(&cfg)
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("ALPACA_API_KEY"); v != "" {
		cfg.Feed.APIKey = v
	}
	if v := os.Getenv("ALPACA_API_SECRET"); v != "" {
		cfg.Feed.APISecret = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.Token = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" && cfg.Telegram.ChatID == "" {
		cfg.Telegram.ChatID = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	cfg.Feed.Provider = strings.ToLower(strings.TrimSpace(cfg.Feed.Provider))
	if cfg.Feed.Provider == "" {
		cfg.Feed.Provider = ProviderAlpaca
	}
	switch cfg.Feed.Provider {
	case ProviderAlpaca:
		if cfg.Feed.BaseURL == "" {
			cfg.Feed.BaseURL = "https://paper-api.alpaca.markets"
		}
		if cfg.Feed.DataURL == "" {
			cfg.Feed.DataURL = "https://data.alpaca.markets"
		}
		if cfg.Feed.DataFeed == "" {
			cfg.Feed.DataFeed = "iex"
		}
		if cfg.Feed.RequestsPerMinute == 0 {
			cfg.Feed.RequestsPerMinute = 180
		}
	case ProviderYahoo:
		if cfg.Feed.BaseURL == "" {
			cfg.Feed.BaseURL = "https://query1.finance.yahoo.com"
		}
		if cfg.Feed.RequestsPerMinute == 0 {
			cfg.Feed.RequestsPerMinute = 60
		}
	}
	if cfg.Feed.Timeout == 0 {
		cfg.Feed.Timeout = 10 * time.Second
	}
	if len(cfg.Tickers) == 0 {
		cfg.Tickers = append([]string(nil), DefaultTickers...)
	}
	for i, t := range cfg.Tickers {
		cfg.Tickers[i] = strings.ToUpper(strings.TrimSpace(t))
	}
	if cfg.Windows.Session.BarSize == 0 {
		cfg.Windows.Session.BarSize = 5 * time.Minute
	}
	if cfg.Windows.Session.Lookback == 0 {
		cfg.Windows.Session.Lookback = 96 * time.Hour
	}
	if cfg.Windows.Session.Sessions == 0 {
		cfg.Windows.Session.Sessions = 1
	}
	if cfg.Windows.Monthly.BarSize == 0 {
		cfg.Windows.Monthly.BarSize = 24 * time.Hour
	}
	if cfg.Windows.Monthly.Lookback == 0 {
		cfg.Windows.Monthly.Lookback = 30 * 24 * time.Hour
	}
	if len(cfg.Indicators.RSIPeriods) == 0 {
		cfg.Indicators.RSIPeriods = []int{14, 7}
	}
	if cfg.Schedule.Cron == "" {
		cfg.Schedule.Cron = "*/15 9-16 * * 1-5"
	}
	if cfg.Schedule.Timezone == "" {
		cfg.Schedule.Timezone = "America/New_York"
	}
	if cfg.Metrics.Enabled == nil {
		enabled := true
		cfg.Metrics.Enabled = &enabled
	}
	if cfg.Metrics.Address == "" {
		cfg.Metrics.Address = "127.0.0.1:9001"
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
}

func validate(cfg *Config) error {
	switch cfg.Feed.Provider {
	case ProviderAlpaca, ProviderYahoo:
	default:
		return fmt.Errorf("feed.provider %q is not supported", cfg.Feed.Provider)
	}
	if cfg.Feed.RequestsPerMinute < 0 {
		return errors.New("feed.requests_per_minute must be >= 0")
	}
	seen := make(map[string]struct{}, len(cfg.Tickers))
	for _, t := range cfg.Tickers {
		if t == "" {
			return errors.New("tickers must not contain empty symbols")
		}
		if _, dup := seen[t]; dup {
			return fmt.Errorf("ticker %s listed twice", t)
		}
		seen[t] = struct{}{}
	}
	if err := validateWindow("windows.session", cfg.Windows.Session); err != nil {
		return err
	}
	if err := validateWindow("windows.monthly", cfg.Windows.Monthly); err != nil {
		return err
	}
	for _, p := range cfg.Indicators.RSIPeriods {
		if p < 1 {
			return fmt.Errorf("indicators.rsi_periods: period %d must be >= 1", p)
		}
	}
	if _, err := cron.ParseStandard(cfg.Schedule.Cron); err != nil {
		return fmt.Errorf("schedule.cron: %w", err)
	}
	if _, err := time.LoadLocation(cfg.Schedule.Timezone); err != nil {
		return fmt.Errorf("schedule.timezone: %w", err)
	}
	if !strings.HasPrefix(cfg.Metrics.Path, "/") {
		return errors.New("metrics.path must start with /")
	}
	if cfg.Telegram.Enabled && cfg.Telegram.ChatID == "" {
		return errors.New("telegram.chat_id is required when telegram is enabled")
	}
	return nil
}

func validateWindow(name string, w WindowConfig) error {
	if w.BarSize <= 0 {
		return fmt.Errorf("%s.bar_size must be > 0", name)
	}
	if w.Lookback < w.BarSize {
		return fmt.Errorf("%s.lookback must cover at least one bar", name)
	}
	if w.Sessions < 0 {
		return fmt.Errorf("%s.sessions must be >= 0", name)
	}
	return nil
}
