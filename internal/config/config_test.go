package config

import "testing"

func TestDefaultValidates(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("VOLATILITY_WINDOW", "20")
	t.Setenv("VOL_HIGH_THRESHOLD", "4.5")
	t.Setenv("TREND_PERIOD", "30")
	t.Setenv("DB_ENABLED", "true")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.VolatilityWindow != 20 {
		t.Errorf("VolatilityWindow = %d, want 20", cfg.VolatilityWindow)
	}
	if cfg.VolHighThreshold != 4.5 {
		t.Errorf("VolHighThreshold = %v, want 4.5", cfg.VolHighThreshold)
	}
	if cfg.TrendPeriod != 30 {
		t.Errorf("TrendPeriod = %d, want 30", cfg.TrendPeriod)
	}
	if !cfg.DBEnabled {
		t.Error("DBEnabled should be true")
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
	// Untouched fields keep their defaults.
	if cfg.RSIPeriod != 14 {
		t.Errorf("RSIPeriod = %d, want default 14", cfg.RSIPeriod)
	}
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("VOLATILITY_WINDOW", "not-a-number")
	t.Setenv("VOL_LOW_THRESHOLD", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.VolatilityWindow != 14 {
		t.Errorf("VolatilityWindow = %d, want default 14", cfg.VolatilityWindow)
	}
	if cfg.VolLowThreshold != 0.5 {
		t.Errorf("VolLowThreshold = %v, want default 0.5", cfg.VolLowThreshold)
	}
}

func TestValidateRejectsBadConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"tiny volatility window", func(c *Config) { c.VolatilityWindow = 1 }},
		{"tiny trend period", func(c *Config) { c.TrendPeriod = 0 }},
		{"macd fast above slow", func(c *Config) { c.MACDFastPeriod = 30 }},
		{"unordered thresholds", func(c *Config) { c.VolNormalThreshold = 5.0 }},
		{"zero history capacity", func(c *Config) { c.HistoryCapacity = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestMergeOverlaysNonZeroFields(t *testing.T) {
	base := Default()
	merged := base.Merge(Config{TrendPeriod: 50, LogLevel: "warn"})

	if merged.TrendPeriod != 50 {
		t.Errorf("TrendPeriod = %d, want 50", merged.TrendPeriod)
	}
	if merged.LogLevel != "warn" {
		t.Errorf("LogLevel = %q, want warn", merged.LogLevel)
	}
	if merged.VolatilityWindow != base.VolatilityWindow {
		t.Errorf("VolatilityWindow changed to %d", merged.VolatilityWindow)
	}
	if base.TrendPeriod != 20 {
		t.Error("Merge must not mutate the receiver")
	}
}
