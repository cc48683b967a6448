package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// Config holds all configuration for the service
type Config struct {
	Backtest   BacktestConfig
	MonteCarlo MonteCarloConfig
	Logging    LoggingConfig
}

// BacktestConfig holds simulation defaults and reporting windows
type BacktestConfig struct {
	InitialCapital    float64
	LookbackDays      int
	EquityCurvePoints int
	TradeHistorySize  int
}

// MonteCarloConfig holds Monte-Carlo simulation defaults
type MonteCarloConfig struct {
	Days    int
	Trials  int
	Workers int
}

// LoggingConfig holds logging specific configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// LoadConfig loads the configuration from file and environment variables.
// A missing config file is not an error; defaults apply.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Read config file if present
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	// Environment variables override
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default values for configuration
func setDefaults(v *viper.Viper) {
	// Backtest defaults
	v.SetDefault("backtest.initialCapital", 100000.0)
	v.SetDefault("backtest.lookbackDays", 365)
	v.SetDefault("backtest.equityCurvePoints", 100)
	v.SetDefault("backtest.tradeHistorySize", 50)

	// Monte-Carlo defaults
	v.SetDefault("monteCarlo.days", 252)
	v.SetDefault("monteCarlo.trials", 1000)
	v.SetDefault("monteCarlo.workers", 4)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}
