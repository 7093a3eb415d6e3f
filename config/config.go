// Package config holds the pipeline configuration, loaded from YAML or
// JSON and validated before use.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config is the complete pipeline configuration.
type Config struct {
	Symbols  []string       `json:"symbols" yaml:"symbols" validate:"required,min=1,dive,uppercase"`
	Fetch    FetchConfig    `json:"fetch" yaml:"fetch"`
	Analysis AnalysisConfig `json:"analysis" yaml:"analysis"`
	Backtest BacktestConfig `json:"backtest" yaml:"backtest"`
	Events   EventsConfig   `json:"events" yaml:"events"`
	Journal  JournalConfig  `json:"journal" yaml:"journal"`
	LogLevel string         `json:"log_level" yaml:"log_level" validate:"oneof=debug info warn error"`
}

// FetchConfig controls the price and news sources.
type FetchConfig struct {
	StartDate   string `json:"start_date" yaml:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate     string `json:"end_date" yaml:"end_date" validate:"required,datetime=2006-01-02"`
	CacheDir    string `json:"cache_dir" yaml:"cache_dir" validate:"required"`
	ChartAPIURL string `json:"chart_api_url,omitempty" yaml:"chart_api_url,omitempty" validate:"omitempty,url"`
}

// AnalysisConfig sets the indicator and detector parameters.
type AnalysisConfig struct {
	SMAShort    int     `json:"sma_short" yaml:"sma_short" validate:"min=1"`
	SMALong     int     `json:"sma_long" yaml:"sma_long" validate:"min=2"`
	RSIPeriod   int     `json:"rsi_period" yaml:"rsi_period" validate:"min=2"`
	MaxPatterns int     `json:"max_patterns" yaml:"max_patterns" validate:"min=1"`
	Tolerance   float64 `json:"sr_tolerance" yaml:"sr_tolerance" validate:"gt=0,lt=1"`
}

// BacktestConfig sets the simulation sizing.
type BacktestConfig struct {
	Strategy       string  `json:"strategy" yaml:"strategy" validate:"oneof=default momentum mean-reversion breakout event-based"`
	InitialCapital float64 `json:"initial_capital" yaml:"initial_capital" validate:"gt=0"`
	PositionSize   float64 `json:"position_size" yaml:"position_size" validate:"gt=0"`
	EntryThreshold float64 `json:"entry_threshold" yaml:"entry_threshold" validate:"gte=0,lte=1"`
	AllowShort     bool    `json:"allow_short" yaml:"allow_short"`
	CVFolds        int     `json:"cv_folds" yaml:"cv_folds" validate:"min=0"`
}

// EventsConfig locates the event database.
type EventsConfig struct {
	DBPath string `json:"db_path" yaml:"db_path" validate:"required"`
}

// JournalConfig locates the SQLite journal.
type JournalConfig struct {
	DBPath string `json:"db_path" yaml:"db_path" validate:"required"`
}

// LoadFromFile loads configuration from a file, trying YAML first and
// falling back to JSON, then validates it.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		if jsonErr := json.Unmarshal(data, cfg); jsonErr != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// SaveToFile writes the configuration, choosing the format by extension.
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate combines struct-tag validation with the cross-field checks
// the tags cannot express.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}

	if c.Analysis.SMAShort >= c.Analysis.SMALong {
		return fmt.Errorf("analysis.sma_short (%d) must be below sma_long (%d)", c.Analysis.SMAShort, c.Analysis.SMALong)
	}
	if c.Fetch.StartDate >= c.Fetch.EndDate {
		return fmt.Errorf("fetch.start_date %s must precede end_date %s", c.Fetch.StartDate, c.Fetch.EndDate)
	}
	if c.Backtest.CVFolds == 1 {
		return fmt.Errorf("backtest.cv_folds must be 0 (disabled) or at least 2")
	}
	return nil
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Symbols: []string{"AAPL"},
		Fetch: FetchConfig{
			StartDate: "2023-01-01",
			EndDate:   "2024-01-01",
			CacheDir:  "./cache",
		},
		Analysis: AnalysisConfig{
			SMAShort:    10,
			SMALong:     30,
			RSIPeriod:   14,
			MaxPatterns: 10,
			Tolerance:   0.02,
		},
		Backtest: BacktestConfig{
			Strategy:       "default",
			InitialCapital: 10_000,
			PositionSize:   1_000,
			EntryThreshold: 0.5,
			CVFolds:        5,
		},
		Events:   EventsConfig{DBPath: "./events.db"},
		Journal:  JournalConfig{DBPath: "./journal.db"},
		LogLevel: "info",
	}
}
