package risk

import (
	"fmt"
	"math"

	"github.com/Alias1177/Calibrator/models"
)

// Calculator produces the dynamic risk:reward requirement for a trade.
// Stateless; Calculate is a pure function of its inputs.
type Calculator struct{}

// NewCalculator creates a dynamic R:R calculator.
func NewCalculator() *Calculator {
	return &Calculator{}
}

// Calculate combines volatility, asset, historical, time and confidence
// context into one adjusted minimum/optimal/maximum R:R recommendation.
// Each of the five adjustments is bounded to roughly +/-0.5; the adjusted
// R:R never drops below 1.0.
func (c *Calculator) Calculate(
	baseRR float64,
	vol models.VolatilityContext,
	profile models.AssetProfile,
	perf models.HistoricalPerformance,
	tp models.TimePatterns,
	analysisConfidence float64,
	ultraMode bool,
) models.DynamicRRResult {
	var reasoning []string

	volAdj := volatilityAdjustment(vol)
	if volAdj != 0 {
		reasoning = append(reasoning, fmt.Sprintf("volatility %+.2f (%s/%s)", volAdj, vol.Level, vol.Trend))
	}

	assetAdj := assetAdjustment(profile)
	if assetAdj != 0 {
		reasoning = append(reasoning, fmt.Sprintf("asset %+.2f (%s %s, optimal R:R %.1f)",
			assetAdj, profile.Symbol, profile.VolatilityProfile, profile.TypicalRRRange.Optimal))
	}

	histAdj := historicalAdjustment(perf, vol, tp)
	if histAdj != 0 {
		reasoning = append(reasoning, fmt.Sprintf("historical %+.2f (%.0f%% over %d trades)",
			histAdj, perf.SuccessRate*100, perf.TotalTrades))
	}

	timeAdj := timeAdjustment(tp)
	if timeAdj != 0 {
		reasoning = append(reasoning, fmt.Sprintf("time %+.2f (%s session)", timeAdj, tp.MarketSession))
	}

	confAdj := confidenceAdjustment(analysisConfidence, ultraMode)
	if confAdj != 0 {
		reasoning = append(reasoning, fmt.Sprintf("confidence %+.2f (analysis %.0f%%, ultra=%t)",
			confAdj, analysisConfidence, ultraMode))
	}

	adjustedRR := math.Max(1.0, baseRR+volAdj+assetAdj+histAdj+timeAdj+confAdj)

	finalConfidence := analysisConfidence
	if ultraMode {
		finalConfidence += 5
	}
	finalConfidence = math.Min(95, finalConfidence)

	return models.DynamicRRResult{
		BaseRR:     baseRR,
		AdjustedRR: adjustedRR,
		AdjustmentFactors: models.AdjustmentFactors{
			Volatility: volAdj,
			Asset:      assetAdj,
			Historical: histAdj,
			Time:       timeAdj,
			Confidence: confAdj,
		},
		Reasoning: reasoning,
		FinalRecommendation: models.RRRecommendation{
			MinRR:      math.Max(1.0, adjustedRR),
			OptimalRR:  math.Max(1.3, adjustedRR+0.3),
			MaxRR:      math.Max(1.6, adjustedRR+0.6),
			Confidence: finalConfidence,
		},
	}
}

func volatilityAdjustment(vol models.VolatilityContext) float64 {
	adj := 0.0

	switch vol.Level {
	case models.ProfileLow:
		adj += 0.2
	case models.ProfileMedium:
		// baseline
	case models.ProfileHigh:
		adj -= 0.3
	case models.ProfileExtreme:
		adj -= 0.5
	}

	switch vol.Trend {
	case models.VolTrendIncreasing:
		adj -= 0.1
	case models.VolTrendDecreasing:
		adj += 0.1
	}

	return adj
}

func assetAdjustment(profile models.AssetProfile) float64 {
	adj := 0.0

	switch profile.VolatilityProfile {
	case models.ProfileLow:
		adj += 0.1
	case models.ProfileMedium:
		// baseline
	case models.ProfileHigh:
		adj -= 0.2
	case models.ProfileExtreme:
		adj -= 0.4
	}

	// Assets whose typical optimal sits outside the usual band nudge the
	// requirement toward their own envelope.
	if profile.TypicalRRRange.Optimal > 2.5 {
		adj += 0.1
	} else if profile.TypicalRRRange.Optimal != 0 && profile.TypicalRRRange.Optimal < 1.8 {
		adj -= 0.1
	}

	return adj
}

func historicalAdjustment(perf models.HistoricalPerformance, vol models.VolatilityContext, tp models.TimePatterns) float64 {
	// Too few trades to mean anything.
	if perf.TotalTrades < 10 {
		return 0
	}

	adj := 0.0
	if perf.SuccessRate > 0.7 {
		adj += 0.1
	} else if perf.SuccessRate < 0.5 {
		adj -= 0.2
	}

	// Bucketed nudges only when the bucket has enough samples.
	if bucket, ok := perf.VolatilityBasedSuccess[volContextToRegime(vol.Level)]; ok && bucket.Total >= 5 {
		if bucket.SuccessRate > 0.6 {
			adj += 0.1
		} else if bucket.SuccessRate < 0.4 {
			adj -= 0.1
		}
	}

	if tp.Hour >= 0 && tp.Hour < 24 {
		hourBucket := perf.HourlySuccess[tp.Hour]
		if hourBucket.Total >= 3 {
			if hourBucket.SuccessRate > 0.6 {
				adj += 0.05
			} else if hourBucket.SuccessRate < 0.4 {
				adj -= 0.05
			}
		}
	}

	return adj
}

// volContextToRegime maps the calculator's coarse level scale back onto
// the classifier's bucket keys.
func volContextToRegime(level models.VolatilityProfile) models.VolatilityRegime {
	switch level {
	case models.ProfileLow:
		return models.VolatilityLow
	case models.ProfileMedium:
		return models.VolatilityNormal
	case models.ProfileHigh:
		return models.VolatilityHigh
	default:
		return models.VolatilityExtreme
	}
}

func timeAdjustment(tp models.TimePatterns) float64 {
	adj := 0.0

	if tp.SessionStrength > 0.7 {
		adj += 0.1
	} else if tp.SessionStrength < 0.3 {
		adj -= 0.1
	}

	if tp.IsActiveTradingTime {
		adj += 0.05
	} else {
		adj -= 0.1
	}

	if tp.TimeBasedVolatility > 0.7 {
		adj -= 0.1
	} else if tp.TimeBasedVolatility < 0.3 {
		adj += 0.1
	}

	return adj
}

func confidenceAdjustment(analysisConfidence float64, ultraMode bool) float64 {
	adj := 0.0

	if analysisConfidence >= 85 {
		adj += 0.1
	} else if analysisConfidence < 70 {
		adj -= 0.2
	}

	if ultraMode {
		adj -= 0.1
	}

	return adj
}
