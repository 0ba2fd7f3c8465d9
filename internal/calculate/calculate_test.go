package calculate

import (
	"math"
	"testing"

	"github.com/Alias1177/Calibrator/models"
)

func TestReturns(t *testing.T) {
	tests := []struct {
		name     string
		prices   []float64
		expected []float64
	}{
		{
			name:     "rising series",
			prices:   []float64{100, 110, 121},
			expected: []float64{10, 10},
		},
		{
			name:     "flat series",
			prices:   []float64{50, 50, 50},
			expected: []float64{0, 0},
		},
		{
			name:     "too short",
			prices:   []float64{100},
			expected: nil,
		},
		{
			name:     "zero previous price guarded",
			prices:   []float64{0, 100},
			expected: []float64{0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Returns(tt.prices)
			if len(got) != len(tt.expected) {
				t.Fatalf("Returns() length = %d, want %d", len(got), len(tt.expected))
			}
			for i := range got {
				if math.Abs(got[i]-tt.expected[i]) > 1e-9 {
					t.Errorf("Returns()[%d] = %v, want %v", i, got[i], tt.expected[i])
				}
			}
		})
	}
}

func TestSMA(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		period   int
		expected float64
	}{
		{"full period", []float64{1, 2, 3, 4}, 2, 3.5},
		{"period longer than data", []float64{2, 4}, 10, 3},
		{"empty", nil, 5, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SMA(tt.values, tt.period); math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("SMA() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestStdDev(t *testing.T) {
	if got := StdDev([]float64{2, 2, 2, 2}); got != 0 {
		t.Errorf("StdDev(constant) = %v, want 0", got)
	}

	// Population stdev of {2,4,4,4,5,5,7,9} is exactly 2.
	got := StdDev([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	if math.Abs(got-2) > 1e-9 {
		t.Errorf("StdDev() = %v, want 2", got)
	}
}

func TestRSI(t *testing.T) {
	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	if got := RSI(closes, 14); got != 100 {
		t.Errorf("RSI(all gains) = %v, want 100", got)
	}

	falling := make([]float64, 30)
	for i := range falling {
		falling[i] = 100 - float64(i)
	}
	if got := RSI(falling, 14); got > 1 {
		t.Errorf("RSI(all losses) = %v, want near 0", got)
	}

	if got := RSI([]float64{1, 2, 3}, 14); got != 50 {
		t.Errorf("RSI(short series) = %v, want 50 default", got)
	}
}

func TestATRFromCloses(t *testing.T) {
	closes := []float64{100, 101, 100, 102, 101}
	// Deltas: 1, 1, 2, 1 -> ATR over full window 1.25
	if got := ATRFromCloses(closes, 4); math.Abs(got-1.25) > 1e-9 {
		t.Errorf("ATRFromCloses() = %v, want 1.25", got)
	}

	if got := ATRFromCloses([]float64{100}, 14); got != 0 {
		t.Errorf("ATRFromCloses(single) = %v, want 0", got)
	}

	if got := ATRFromCloses(closes, 4); got < 0 {
		t.Errorf("ATR must be non-negative, got %v", got)
	}
}

func TestATRFromCandles(t *testing.T) {
	candles := []models.Candle{
		{High: 100, Low: 100, Close: 100},
		{High: 102, Low: 99, Close: 101},
		{High: 103, Low: 101, Close: 102},
	}
	// True ranges: max(3, 2, 1) = 3 and max(2, 2, 0) = 2.
	if got := ATRFromCandles(candles, 2); math.Abs(got-2.5) > 1e-9 {
		t.Errorf("ATRFromCandles() = %v, want 2.5", got)
	}

	if got := ATRFromCandles(candles[:1], 14); got != 0 {
		t.Errorf("ATRFromCandles(single) = %v, want 0", got)
	}

	// Gap down: the previous close dominates the bar's own range.
	gappy := []models.Candle{
		{High: 100, Low: 100, Close: 100},
		{High: 95, Low: 94, Close: 94},
	}
	if got := ATRFromCandles(gappy, 1); math.Abs(got-6) > 1e-9 {
		t.Errorf("ATRFromCandles(gap) = %v, want 6", got)
	}
}

func TestMACD(t *testing.T) {
	closes := make([]float64, 60)
	for i := range closes {
		closes[i] = 100 * math.Pow(1.01, float64(i))
	}

	line, signal, histogram := MACD(closes, 12, 26, 9)
	if line <= 0 {
		t.Errorf("MACD line on steady uptrend = %v, want positive", line)
	}
	if math.Abs(line-signal-histogram) > 1e-9 {
		t.Errorf("histogram %v != line %v - signal %v", histogram, line, signal)
	}

	line, signal, histogram = MACD([]float64{1, 2, 3}, 12, 26, 9)
	if line != 0 || signal != 0 || histogram != 0 {
		t.Errorf("MACD(short series) = %v/%v/%v, want zeros", line, signal, histogram)
	}
}

func TestROC(t *testing.T) {
	closes := []float64{100, 0, 0, 0, 0, 0, 0, 0, 0, 0, 110}
	if got := ROC(closes, 10); math.Abs(got-10) > 1e-9 {
		t.Errorf("ROC() = %v, want 10", got)
	}

	if got := ROC([]float64{1, 2}, 10); got != 0 {
		t.Errorf("ROC(short series) = %v, want 0", got)
	}
}

func TestEfficiencyRatio(t *testing.T) {
	// Monotonic move: path length equals net move.
	monotonic := []float64{1, 2, 3, 4, 5}
	if got := EfficiencyRatio(monotonic, 5); math.Abs(got-100) > 1e-9 {
		t.Errorf("EfficiencyRatio(monotonic) = %v, want 100", got)
	}

	// Round trip: zero net move.
	roundTrip := []float64{1, 2, 3, 2, 1}
	if got := EfficiencyRatio(roundTrip, 5); got != 0 {
		t.Errorf("EfficiencyRatio(round trip) = %v, want 0", got)
	}
}

func TestDirectionalConsistency(t *testing.T) {
	closes := []float64{1, 2, 3, 2, 4}
	// Three of four moves agree with up.
	if got := DirectionalConsistency(closes, 1); math.Abs(got-75) > 1e-9 {
		t.Errorf("DirectionalConsistency(up) = %v, want 75", got)
	}
	if got := DirectionalConsistency(closes, 0); got != 0 {
		t.Errorf("DirectionalConsistency(sideways) = %v, want 0", got)
	}
}

func TestTrendAge(t *testing.T) {
	closes := []float64{5, 4, 3, 4, 5, 6}
	if got := TrendAge(closes, 1); got != 3 {
		t.Errorf("TrendAge(up) = %v, want 3", got)
	}
	if got := TrendAge(closes, -1); got != 0 {
		t.Errorf("TrendAge(down) = %v, want 0", got)
	}
}

func TestIsVolatilityCluster(t *testing.T) {
	// 15 quiet returns then 5 wild ones.
	returns := make([]float64, 20)
	for i := 0; i < 15; i++ {
		returns[i] = 0.1 * float64(i%2)
	}
	for i := 15; i < 20; i++ {
		returns[i] = 5 * float64(1+i%3)
	}
	if !IsVolatilityCluster(returns, 5, 15) {
		t.Error("expected volatility cluster on burst")
	}

	flat := make([]float64, 20)
	if IsVolatilityCluster(flat, 5, 15) {
		t.Error("flat returns must not cluster")
	}

	if IsVolatilityCluster(returns[:10], 5, 15) {
		t.Error("short series must not cluster")
	}
}

func TestClamp(t *testing.T) {
	if got := Clamp(5, 0, 10); got != 5 {
		t.Errorf("Clamp(5) = %v", got)
	}
	if got := Clamp(-1, 0, 10); got != 0 {
		t.Errorf("Clamp(-1) = %v", got)
	}
	if got := Clamp(11, 0, 10); got != 10 {
		t.Errorf("Clamp(11) = %v", got)
	}
}
