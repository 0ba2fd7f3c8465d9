package regime

import (
	"fmt"

	"github.com/Alias1177/Calibrator/models"
)

// adjustmentDelta is one additive contribution to the analysis knobs.
type adjustmentDelta struct {
	risk float64
	stop float64
	take float64
}

// Static tables keyed by regime axis. Deltas are additive onto a 1.0 base
// so several axes can pull the same knob.
var volatilityDeltas = map[models.VolatilityRegime]adjustmentDelta{
	models.VolatilityLow:     {risk: 0.1, stop: -0.1, take: 0},
	models.VolatilityNormal:  {},
	models.VolatilityHigh:    {risk: -0.2, stop: 0.2, take: 0.1},
	models.VolatilityExtreme: {risk: -0.4, stop: 0.4, take: 0.2},
}

var trendDeltas = map[models.TrendRegime]adjustmentDelta{
	models.StrongBull: {risk: 0.1, stop: 0, take: 0.2},
	models.WeakBull:   {risk: 0, stop: 0, take: 0.1},
	models.Neutral:    {risk: -0.1, stop: 0, take: 0},
	models.WeakBear:   {risk: 0, stop: 0, take: 0.1},
	models.StrongBear: {risk: 0.1, stop: 0, take: 0.2},
}

var overallDeltas = map[models.OverallRegime]adjustmentDelta{
	models.BullTrending:        {risk: 0.1, stop: 0, take: 0.1},
	models.BearTrending:        {risk: 0.1, stop: 0, take: 0.1},
	models.BullRanging:         {risk: -0.1, stop: -0.1, take: -0.1},
	models.BearRanging:         {risk: -0.1, stop: -0.1, take: -0.1},
	models.NeutralTrending:     {},
	models.NeutralRanging:      {risk: -0.1, stop: 0, take: -0.1},
	models.OverallTransitional: {risk: -0.2, stop: 0.1, take: 0},
}

var timeframeBias = map[models.OverallRegime]string{
	models.BullTrending:        "HIGHER_TIMEFRAME",
	models.BearTrending:        "HIGHER_TIMEFRAME",
	models.NeutralTrending:     "HIGHER_TIMEFRAME",
	models.BullRanging:         "LOWER_TIMEFRAME",
	models.BearRanging:         "LOWER_TIMEFRAME",
	models.NeutralRanging:      "LOWER_TIMEFRAME",
	models.OverallTransitional: "WAIT",
}

var entryApproach = map[models.OverallRegime]string{
	models.BullTrending:        "PULLBACK",
	models.BearTrending:        "PULLBACK",
	models.NeutralTrending:     "BREAKOUT_CONFIRMATION",
	models.BullRanging:         "RANGE_EXTREMES",
	models.BearRanging:         "RANGE_EXTREMES",
	models.NeutralRanging:      "RANGE_EXTREMES",
	models.OverallTransitional: "REDUCED_SIZE",
}

// deriveAdjustments combines the static tables into the final knobs.
func deriveAdjustments(ctx *models.RegimeContext) models.AnalysisAdjustments {
	vol := volatilityDeltas[ctx.VolatilityRegime]
	trend := trendDeltas[ctx.TrendRegime]
	overall := overallDeltas[ctx.OverallRegime]

	return models.AnalysisAdjustments{
		RiskMultiplier:       1.0 + vol.risk + trend.risk + overall.risk,
		StopLossAdjustment:   1.0 + vol.stop + trend.stop + overall.stop,
		TakeProfitAdjustment: 1.0 + vol.take + trend.take + overall.take,
		TimeframeBias:        timeframeBias[ctx.OverallRegime],
		EntryApproach:        entryApproach[ctx.OverallRegime],
	}
}

// deriveSignals evaluates the warning and opportunity rules in fixed
// order so output ordering is deterministic.
func deriveSignals(ctx *models.RegimeContext, volumes []float64) ([]string, []string) {
	var warnings, opportunities []string

	if ctx.Volatility.Regime == models.VolatilityExtreme {
		warnings = append(warnings, "extreme volatility: classification reliability reduced")
	}
	if ctx.Volatility.IsVolatilityCluster {
		warnings = append(warnings, "volatility clustering detected: expect follow-through swings")
	}
	if ctx.Momentum.DivergenceDetected {
		warnings = append(warnings, "price/RSI divergence: momentum may be exhausting")
	}
	if ctx.Trend.TrendAgeBars > 30 {
		warnings = append(warnings, fmt.Sprintf("trend age %d bars: extended move, late entries carry reversal risk", ctx.Trend.TrendAgeBars))
	}
	if ctx.Stability < 40 {
		warnings = append(warnings, "regime unstable: recent classifications disagree")
	}
	if fallingVolume(volumes) && (ctx.OverallRegime == models.BullTrending || ctx.OverallRegime == models.BearTrending) {
		warnings = append(warnings, "volume fading against the trend: weak participation")
	}

	switch ctx.OverallRegime {
	case models.BullTrending:
		opportunities = append(opportunities, "bull trend confirmed: continuation longs favored on pullbacks")
	case models.BearTrending:
		opportunities = append(opportunities, "bear trend confirmed: continuation shorts favored on rallies")
	case models.BullRanging, models.BearRanging, models.NeutralRanging:
		if ctx.Ranging.RangeQuality == models.RangeGood || ctx.Ranging.RangeQuality == models.RangeExcellent {
			opportunities = append(opportunities, "clean range: fade entries at range extremes")
		}
	}
	if ctx.Ranging.BreakoutProbabilityPct > 70 && ctx.DirectionRegime == models.Ranging {
		opportunities = append(opportunities, "compression building: watch for breakout")
	}

	return warnings, opportunities
}

// fallingVolume reports whether the recent 5-bar average volume is below
// the prior 10-bar average. Empty volume data reads as false.
func fallingVolume(volumes []float64) bool {
	if len(volumes) < 15 {
		return false
	}

	var recent, prior float64
	for _, v := range volumes[len(volumes)-5:] {
		recent += v
	}
	recent /= 5

	for _, v := range volumes[len(volumes)-15 : len(volumes)-5] {
		prior += v
	}
	prior /= 10

	return prior > 0 && recent < prior*0.8
}
