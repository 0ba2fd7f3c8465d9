package calculate

import (
	"math"

	"github.com/Alias1177/Calibrator/models"
)

// TrueRangesFromCloses builds a true-range-equivalent series from closes
// alone, using the absolute bar-to-bar delta as a high/low/close proxy.
func TrueRangesFromCloses(closes []float64) []float64 {
	if len(closes) < 2 {
		return nil
	}

	ranges := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		ranges = append(ranges, math.Abs(closes[i]-closes[i-1]))
	}

	return ranges
}

// ATRFromCloses calculates the average true range over the last period
// close-delta proxies.
func ATRFromCloses(closes []float64, period int) float64 {
	ranges := TrueRangesFromCloses(closes)
	if len(ranges) == 0 {
		return 0
	}

	return SMA(ranges, period)
}

// ATRFromCandles calculates Average True Range from full candles.
func ATRFromCandles(candles []models.Candle, period int) float64 {
	if len(candles) < 2 {
		return 0
	}

	var trueRanges []float64

	for i := 1; i < len(candles); i++ {
		// True Range is the greatest of:
		// 1. Current High - Current Low
		// 2. Abs(Current High - Previous Close)
		// 3. Abs(Current Low - Previous Close)
		highLow := candles[i].High - candles[i].Low
		highPrevClose := math.Abs(candles[i].High - candles[i-1].Close)
		lowPrevClose := math.Abs(candles[i].Low - candles[i-1].Close)

		trueRange := math.Max(highLow, math.Max(highPrevClose, lowPrevClose))
		trueRanges = append(trueRanges, trueRange)
	}

	return SMA(trueRanges, period)
}

// IsVolatilityCluster reports whether recent volatility has broken out of
// its local baseline: stdev of the last recent returns exceeds 1.5x the
// stdev of the prior baseline returns.
func IsVolatilityCluster(returns []float64, recent, baseline int) bool {
	if len(returns) < recent+baseline {
		return false
	}

	recentStdev := StdDev(returns[len(returns)-recent:])
	priorStdev := StdDev(returns[len(returns)-recent-baseline : len(returns)-recent])

	if priorStdev == 0 {
		return false
	}

	return recentStdev > 1.5*priorStdev
}
