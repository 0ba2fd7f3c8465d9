package regime

import (
	"math"

	"github.com/Alias1177/Calibrator/internal/calculate"
	"github.com/Alias1177/Calibrator/models"
)

// computeVolatility builds the volatility block from the close series.
func (d *Detector) computeVolatility(prices, returns []float64) models.VolatilityMetrics {
	atr := calculate.ATRFromCloses(prices, d.cfg.VolatilityWindow)

	lastPrice := prices[len(prices)-1]
	atrNormalized := 0.0
	if lastPrice != 0 {
		atrNormalized = math.Abs(atr/lastPrice) * 100
	}

	regime := models.VolatilityNormal
	switch {
	case atrNormalized < d.cfg.VolLowThreshold:
		regime = models.VolatilityLow
	case atrNormalized < d.cfg.VolNormalThreshold:
		regime = models.VolatilityNormal
	case atrNormalized < d.cfg.VolHighThreshold:
		regime = models.VolatilityHigh
	default:
		regime = models.VolatilityExtreme
	}

	return models.VolatilityMetrics{
		ATR:                  atr,
		ATRNormalizedPct:     atrNormalized,
		StdDev:               calculate.StdDev(calculate.LastN(returns, d.cfg.TrendPeriod)),
		VolatilityPercentile: d.volatilityPercentile(prices, atrNormalized),
		Regime:               regime,
		IsVolatilityCluster:  calculate.IsVolatilityCluster(returns, 5, 15),
	}
}

// volatilityPercentile ranks the current normalized ATR against a rolling
// per-bar ATR series derived from the same window. The original design
// fed this from an external history store that was never populated; the
// window-derived series keeps the metric deterministic and bounded.
// Defaults to 50 when fewer than 10 samples are available.
func (d *Detector) volatilityPercentile(prices []float64, current float64) float64 {
	window := d.cfg.VolatilityWindow

	var samples []float64
	for i := window + 1; i <= len(prices); i++ {
		atr := calculate.ATRFromCloses(prices[:i], window)
		if prices[i-1] != 0 {
			samples = append(samples, math.Abs(atr/prices[i-1])*100)
		}
	}

	if len(samples) < 10 {
		return 50
	}

	var below int
	for _, s := range samples {
		if s <= current {
			below++
		}
	}

	return float64(below) / float64(len(samples)) * 100
}

// computeTrend builds the trend block from the close series.
func (d *Detector) computeTrend(prices []float64) models.TrendMetrics {
	period := d.cfg.TrendPeriod
	sma := calculate.SMA(prices, period)
	lastPrice := prices[len(prices)-1]

	adx := 0.0
	if sma != 0 {
		adx = math.Min(100, math.Abs(lastPrice-sma)/sma*d.cfg.TrendScalingFactor)
	}

	direction := d.trendDirection(prices)

	sign := 0.0
	switch direction {
	case models.DirectionUp:
		sign = 1
	case models.DirectionDown:
		sign = -1
	}

	window := calculate.LastN(prices, period)

	return models.TrendMetrics{
		ADX:            adx,
		TrendStrength:  classifyTrendStrength(adx),
		Direction:      direction,
		ConsistencyPct: calculate.DirectionalConsistency(window, sign),
		TrendAgeBars:   calculate.TrendAge(prices, sign),
	}
}

// trendDirection compares the last-10 SMA against the prior-10 SMA with a
// deadband so flat markets read SIDEWAYS.
func (d *Detector) trendDirection(prices []float64) models.TrendDirection {
	if len(prices) < 20 {
		return models.DirectionSideways
	}

	recent := calculate.SMA(prices, 10)
	prior := calculate.SMA(prices[:len(prices)-10], 10)
	if prior == 0 {
		return models.DirectionSideways
	}

	change := (recent - prior) / prior
	switch {
	case change > d.cfg.DirectionDeadband:
		return models.DirectionUp
	case change < -d.cfg.DirectionDeadband:
		return models.DirectionDown
	default:
		return models.DirectionSideways
	}
}

func classifyTrendStrength(adx float64) models.TrendStrength {
	switch {
	case adx < 10:
		return models.TrendVeryWeak
	case adx < 20:
		return models.TrendWeak
	case adx < 35:
		return models.TrendModerate
	case adx < 60:
		return models.TrendStrong
	default:
		return models.TrendVeryStrong
	}
}

// computeRanging builds the consolidation block from the close series.
func (d *Detector) computeRanging(prices []float64, cluster bool) models.RangingMetrics {
	period := d.cfg.TrendPeriod
	window := calculate.LastN(prices, period)

	efficiency := calculate.EfficiencyRatio(prices, period)

	high, low := window[0], window[0]
	for _, p := range window {
		if p > high {
			high = p
		}
		if p < low {
			low = p
		}
	}

	// Consolidation strength: fraction of closes inside the middle 80%
	// of the period's high-low range.
	consolidation := 0.0
	priceRange := high - low
	if priceRange > 0 {
		lowerBand := low + priceRange*0.1
		upperBand := high - priceRange*0.1

		var inside int
		for _, p := range window {
			if p >= lowerBand && p <= upperBand {
				inside++
			}
		}
		consolidation = float64(inside) / float64(len(window)) * 100
	}

	breakout := consolidation*0.5 + (100-efficiency)*0.2
	if cluster {
		breakout += 25
	}
	breakout = calculate.Clamp(breakout, 0, 100)

	return models.RangingMetrics{
		EfficiencyPct:            efficiency,
		ConsolidationStrengthPct: consolidation,
		BreakoutProbabilityPct:   breakout,
		RangeQuality:             classifyRangeQuality(consolidation, efficiency),
		SRStrength:               rangeTouches(window, high, low),
	}
}

func classifyRangeQuality(consolidation, efficiency float64) models.RangeQuality {
	switch {
	case consolidation >= 80 && efficiency < 30:
		return models.RangeExcellent
	case consolidation >= 65 && efficiency < 40:
		return models.RangeGood
	case consolidation >= 50:
		return models.RangeFair
	default:
		return models.RangePoor
	}
}

// rangeTouches counts closes within 10% of either range extreme, a rough
// support/resistance strength score.
func rangeTouches(window []float64, high, low float64) float64 {
	priceRange := high - low
	if priceRange == 0 {
		return 0
	}

	var touches int
	for _, p := range window {
		if p <= low+priceRange*0.1 || p >= high-priceRange*0.1 {
			touches++
		}
	}

	return float64(touches)
}

// computeMomentum builds the momentum block from the close series.
func (d *Detector) computeMomentum(prices []float64) models.MomentumMetrics {
	rsi := calculate.RSI(prices, d.cfg.RSIPeriod)
	line, signal, histogram := calculate.MACD(prices, d.cfg.MACDFastPeriod, d.cfg.MACDSlowPeriod, d.cfg.MACDSignalPeriod)
	roc := calculate.ROC(prices, d.cfg.ROCPeriod)

	return models.MomentumMetrics{
		RSI: rsi,
		MACD: models.MACDResult{
			Line:      line,
			Signal:    signal,
			Histogram: histogram,
		},
		ROC:                roc,
		DivergenceDetected: detectDivergence(prices, rsi),
		Regime:             d.classifyMomentumRegime(prices, histogram),
		MomentumShift:      classifyMomentumShift(rsi, histogram),
	}
}

// classifyMomentumRegime compares the histogram magnitude against its own
// 10-period average, rebuilt from the window itself. The original design
// read an external MACD history that always came back empty; computing it
// in-window keeps the classification live without hidden state.
func (d *Detector) classifyMomentumRegime(prices []float64, histogram float64) models.MomentumRegime {
	macdHistory := calculate.MACDHistory(prices, d.cfg.MACDFastPeriod, d.cfg.MACDSlowPeriod)
	if len(macdHistory) < d.cfg.MACDSignalPeriod+10 {
		return models.MomentumStable
	}

	// Histogram at each bar: MACD minus the signal SMA up to that bar.
	histHistory := make([]float64, 0, len(macdHistory))
	for i := d.cfg.MACDSignalPeriod; i < len(macdHistory); i++ {
		sig := calculate.SMA(macdHistory[:i+1], d.cfg.MACDSignalPeriod)
		histHistory = append(histHistory, macdHistory[i]-sig)
	}

	recent := histHistory
	if len(recent) > 10 {
		recent = recent[len(recent)-10:]
	}

	var flips int
	var magnitudeSum float64
	for i, h := range recent {
		magnitudeSum += math.Abs(h)
		if i > 0 && (h > 0) != (recent[i-1] > 0) {
			flips++
		}
	}
	avgMagnitude := magnitudeSum / float64(len(recent))

	if flips >= 4 {
		return models.MomentumChoppy
	}
	if avgMagnitude == 0 {
		return models.MomentumStable
	}

	ratio := math.Abs(histogram) / avgMagnitude
	switch {
	case ratio > 1.2:
		return models.MomentumAccelerating
	case ratio < 0.8:
		return models.MomentumDecelerating
	default:
		return models.MomentumStable
	}
}

func classifyMomentumShift(rsi, histogram float64) models.MomentumShift {
	if rsi > 55 && histogram > 0 {
		return models.ShiftBullish
	}
	if rsi < 45 && histogram < 0 {
		return models.ShiftBearish
	}
	return models.ShiftNeutral
}

// detectDivergence flags a mismatch between price direction over the last
// 10 bars and the bullish/bearish read of RSI, over a 10/10 split window.
func detectDivergence(prices []float64, rsi float64) bool {
	if len(prices) < 20 {
		return false
	}

	priceUp := prices[len(prices)-1] > prices[len(prices)-11]
	rsiBullish := rsi > 50

	return priceUp != rsiBullish
}
