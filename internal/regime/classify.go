package regime

import (
	"github.com/Alias1177/Calibrator/internal/calculate"
	"github.com/Alias1177/Calibrator/models"
)

// classifyTrendRegime walks the decision table in order; first match wins.
func classifyTrendRegime(trend models.TrendMetrics, momentum models.MomentumMetrics) models.TrendRegime {
	switch {
	case trend.Direction == models.DirectionUp &&
		trend.ADX > 50 &&
		momentum.RSI > 60 &&
		trend.ConsistencyPct > 70 &&
		momentum.MomentumShift == models.ShiftBullish:
		return models.StrongBull

	case trend.Direction == models.DirectionUp &&
		trend.ADX > 25 &&
		momentum.RSI > 50:
		return models.WeakBull

	case trend.Direction == models.DirectionDown &&
		trend.ADX > 50 &&
		momentum.RSI < 40 &&
		trend.ConsistencyPct > 70 &&
		momentum.MomentumShift == models.ShiftBearish:
		return models.StrongBear

	case trend.Direction == models.DirectionDown &&
		trend.ADX > 25 &&
		momentum.RSI < 50:
		return models.WeakBear

	default:
		return models.Neutral
	}
}

func classifyDirectionRegime(trend models.TrendMetrics, ranging models.RangingMetrics) models.DirectionRegime {
	switch {
	case trend.ADX > 40 && ranging.EfficiencyPct > 60:
		return models.Trending
	case trend.ADX < 20 && ranging.ConsolidationStrengthPct > 70:
		return models.Ranging
	default:
		return models.Transitional
	}
}

func classifyOverallRegime(trendRegime models.TrendRegime, direction models.DirectionRegime, volatility models.VolatilityRegime) models.OverallRegime {
	if direction == models.Transitional || volatility == models.VolatilityExtreme {
		return models.OverallTransitional
	}

	trending := direction == models.Trending

	switch trendRegime {
	case models.StrongBull, models.WeakBull:
		if trending {
			return models.BullTrending
		}
		return models.BullRanging
	case models.StrongBear, models.WeakBear:
		if trending {
			return models.BearTrending
		}
		return models.BearRanging
	default:
		if trending {
			return models.NeutralTrending
		}
		return models.NeutralRanging
	}
}

// computeConfidence starts at 50 and accumulates bonuses for agreeing
// evidence, clamped to [20, 95].
func computeConfidence(ctx *models.RegimeContext) float64 {
	confidence := 50.0

	// Volatility at either extreme of its own history cuts both ways:
	// calm regimes are easier to read, stressed ones are not.
	if ctx.Volatility.VolatilityPercentile <= 20 {
		confidence += 15
	} else if ctx.Volatility.VolatilityPercentile >= 80 {
		confidence -= 15
	}

	if ctx.Trend.ADX > 40 {
		confidence += 20
	} else if ctx.Trend.ADX > 25 {
		confidence += 10
	}

	if ctx.Trend.ConsistencyPct > 70 {
		confidence += 10
	}

	if !ctx.Momentum.DivergenceDetected {
		confidence += 10
	}

	if ctx.Ranging.RangeQuality == models.RangeExcellent {
		confidence += 15
	}

	return calculate.Clamp(confidence, 20, 95)
}
