package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config holds all engine configuration
type Config struct {
	// Volatility classification
	VolatilityWindow   int     `env:"VOLATILITY_WINDOW" envDefault:"14"`
	VolLowThreshold    float64 `env:"VOL_LOW_THRESHOLD" envDefault:"0.5"`
	VolNormalThreshold float64 `env:"VOL_NORMAL_THRESHOLD" envDefault:"1.5"`
	VolHighThreshold   float64 `env:"VOL_HIGH_THRESHOLD" envDefault:"3.0"`

	// Trend analysis
	TrendPeriod        int     `env:"TREND_PERIOD" envDefault:"20"`
	TrendScalingFactor float64 `env:"TREND_SCALING_FACTOR" envDefault:"500"`
	DirectionDeadband  float64 `env:"DIRECTION_DEADBAND" envDefault:"0.02"`

	// Momentum indicators
	RSIPeriod        int `env:"RSI_PERIOD" envDefault:"14"`
	MACDFastPeriod   int `env:"MACD_FAST_PERIOD" envDefault:"12"`
	MACDSlowPeriod   int `env:"MACD_SLOW_PERIOD" envDefault:"26"`
	MACDSignalPeriod int `env:"MACD_SIGNAL_PERIOD" envDefault:"9"`
	ROCPeriod        int `env:"ROC_PERIOD" envDefault:"10"`

	// Regime history ring
	HistoryCapacity int `env:"HISTORY_CAPACITY" envDefault:"100"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Optional outcome persistence
	DBEnabled  bool   `env:"DB_ENABLED" envDefault:"false"`
	DBHost     string `env:"DB_HOST" envDefault:"localhost"`
	DBPort     string `env:"DB_PORT" envDefault:"5432"`
	DBUser     string `env:"DB_USER" envDefault:"postgres"`
	DBPassword string `env:"DB_PASSWORD" envDefault:""`
	DBName     string `env:"DB_NAME" envDefault:"calibrator"`
	DBSSLMode  string `env:"DB_SSLMODE" envDefault:"disable"`
}

// Load initializes configuration from environment variables
func Load() (*Config, error) {
	// Load environment variables from .env file if present
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg(".env file not found, relying on actual environment variables")
	}

	cfg := Default()

	cfg.VolatilityWindow = getEnvIntWithDefault("VOLATILITY_WINDOW", cfg.VolatilityWindow)
	cfg.VolLowThreshold = getEnvFloatWithDefault("VOL_LOW_THRESHOLD", cfg.VolLowThreshold)
	cfg.VolNormalThreshold = getEnvFloatWithDefault("VOL_NORMAL_THRESHOLD", cfg.VolNormalThreshold)
	cfg.VolHighThreshold = getEnvFloatWithDefault("VOL_HIGH_THRESHOLD", cfg.VolHighThreshold)
	cfg.TrendPeriod = getEnvIntWithDefault("TREND_PERIOD", cfg.TrendPeriod)
	cfg.TrendScalingFactor = getEnvFloatWithDefault("TREND_SCALING_FACTOR", cfg.TrendScalingFactor)
	cfg.DirectionDeadband = getEnvFloatWithDefault("DIRECTION_DEADBAND", cfg.DirectionDeadband)
	cfg.RSIPeriod = getEnvIntWithDefault("RSI_PERIOD", cfg.RSIPeriod)
	cfg.MACDFastPeriod = getEnvIntWithDefault("MACD_FAST_PERIOD", cfg.MACDFastPeriod)
	cfg.MACDSlowPeriod = getEnvIntWithDefault("MACD_SLOW_PERIOD", cfg.MACDSlowPeriod)
	cfg.MACDSignalPeriod = getEnvIntWithDefault("MACD_SIGNAL_PERIOD", cfg.MACDSignalPeriod)
	cfg.ROCPeriod = getEnvIntWithDefault("ROC_PERIOD", cfg.ROCPeriod)
	cfg.HistoryCapacity = getEnvIntWithDefault("HISTORY_CAPACITY", cfg.HistoryCapacity)
	cfg.LogLevel = getEnvWithDefault("LOG_LEVEL", cfg.LogLevel)
	cfg.DBEnabled = getEnvBoolWithDefault("DB_ENABLED", cfg.DBEnabled)
	cfg.DBHost = getEnvWithDefault("DB_HOST", cfg.DBHost)
	cfg.DBPort = getEnvWithDefault("DB_PORT", cfg.DBPort)
	cfg.DBUser = getEnvWithDefault("DB_USER", cfg.DBUser)
	cfg.DBPassword = getEnvWithDefault("DB_PASSWORD", cfg.DBPassword)
	cfg.DBName = getEnvWithDefault("DB_NAME", cfg.DBName)
	cfg.DBSSLMode = getEnvWithDefault("DB_SSLMODE", cfg.DBSSLMode)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Default returns the built-in configuration used when no environment is set.
func Default() *Config {
	return &Config{
		VolatilityWindow:   14,
		VolLowThreshold:    0.5,
		VolNormalThreshold: 1.5,
		VolHighThreshold:   3.0,
		TrendPeriod:        20,
		TrendScalingFactor: 500,
		DirectionDeadband:  0.02,
		RSIPeriod:          14,
		MACDFastPeriod:     12,
		MACDSlowPeriod:     26,
		MACDSignalPeriod:   9,
		ROCPeriod:          10,
		HistoryCapacity:    100,
		LogLevel:           "info",
		DBHost:             "localhost",
		DBPort:             "5432",
		DBUser:             "postgres",
		DBName:             "calibrator",
		DBSSLMode:          "disable",
	}
}

// Validate rejects windows and thresholds the classifier cannot work with.
func (c *Config) Validate() error {
	if c.VolatilityWindow < 2 {
		return fmt.Errorf("volatility window must be at least 2, got %d", c.VolatilityWindow)
	}
	if c.TrendPeriod < 2 {
		return fmt.Errorf("trend period must be at least 2, got %d", c.TrendPeriod)
	}
	if c.RSIPeriod < 2 {
		return fmt.Errorf("rsi period must be at least 2, got %d", c.RSIPeriod)
	}
	if c.MACDFastPeriod >= c.MACDSlowPeriod {
		return fmt.Errorf("macd fast period %d must be below slow period %d", c.MACDFastPeriod, c.MACDSlowPeriod)
	}
	if !(c.VolLowThreshold < c.VolNormalThreshold && c.VolNormalThreshold < c.VolHighThreshold) {
		return fmt.Errorf("volatility thresholds must be strictly increasing: %.2f/%.2f/%.2f",
			c.VolLowThreshold, c.VolNormalThreshold, c.VolHighThreshold)
	}
	if c.HistoryCapacity < 1 {
		return fmt.Errorf("history capacity must be positive, got %d", c.HistoryCapacity)
	}
	return nil
}

// Merge overlays the non-zero fields of partial onto a copy of c. Used by
// the detector's UpdateConfig so callers can change single thresholds.
func (c *Config) Merge(partial Config) *Config {
	merged := *c

	if partial.VolatilityWindow != 0 {
		merged.VolatilityWindow = partial.VolatilityWindow
	}
	if partial.VolLowThreshold != 0 {
		merged.VolLowThreshold = partial.VolLowThreshold
	}
	if partial.VolNormalThreshold != 0 {
		merged.VolNormalThreshold = partial.VolNormalThreshold
	}
	if partial.VolHighThreshold != 0 {
		merged.VolHighThreshold = partial.VolHighThreshold
	}
	if partial.TrendPeriod != 0 {
		merged.TrendPeriod = partial.TrendPeriod
	}
	if partial.TrendScalingFactor != 0 {
		merged.TrendScalingFactor = partial.TrendScalingFactor
	}
	if partial.DirectionDeadband != 0 {
		merged.DirectionDeadband = partial.DirectionDeadband
	}
	if partial.RSIPeriod != 0 {
		merged.RSIPeriod = partial.RSIPeriod
	}
	if partial.MACDFastPeriod != 0 {
		merged.MACDFastPeriod = partial.MACDFastPeriod
	}
	if partial.MACDSlowPeriod != 0 {
		merged.MACDSlowPeriod = partial.MACDSlowPeriod
	}
	if partial.MACDSignalPeriod != 0 {
		merged.MACDSignalPeriod = partial.MACDSignalPeriod
	}
	if partial.ROCPeriod != 0 {
		merged.ROCPeriod = partial.ROCPeriod
	}
	if partial.HistoryCapacity != 0 {
		merged.HistoryCapacity = partial.HistoryCapacity
	}
	if partial.LogLevel != "" {
		merged.LogLevel = partial.LogLevel
	}

	return &merged
}

// Helper functions for environment variable handling
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntWithDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatWithDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBoolWithDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}
