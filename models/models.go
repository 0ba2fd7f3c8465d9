package models

import (
	"time"
)

// Timeframe identifies the candle interval a series was sampled at.
type Timeframe string

const (
	Timeframe1Min  Timeframe = "1min"
	Timeframe5Min  Timeframe = "5min"
	Timeframe15Min Timeframe = "15min"
	Timeframe1H    Timeframe = "1h"
	Timeframe4H    Timeframe = "4h"
	Timeframe1D    Timeframe = "1d"
)

// Candle represents a single price candle. Only High/Low/Close/Volume are
// required by the classifier; Open may be zero for feeds that omit it.
type Candle struct {
	Timestamp time.Time `json:"timestamp"`
	Open      float64   `json:"open,omitempty"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    float64   `json:"volume"`
}

// VolatilityRegime classifies normalized ATR against configured bands.
type VolatilityRegime string

const (
	VolatilityLow     VolatilityRegime = "LOW"
	VolatilityNormal  VolatilityRegime = "NORMAL"
	VolatilityHigh    VolatilityRegime = "HIGH"
	VolatilityExtreme VolatilityRegime = "EXTREME"
)

// VolatilityMetrics holds the volatility block of a regime analysis.
type VolatilityMetrics struct {
	ATR                  float64          `json:"atr"`
	ATRNormalizedPct     float64          `json:"atr_normalized_pct"`
	StdDev               float64          `json:"std_dev"`
	VolatilityPercentile float64          `json:"volatility_percentile"` // 0-100
	Regime               VolatilityRegime `json:"regime"`
	IsVolatilityCluster  bool             `json:"is_volatility_cluster"`
}

// TrendStrength buckets the ADX-style strength score.
type TrendStrength string

const (
	TrendVeryWeak   TrendStrength = "VERY_WEAK"
	TrendWeak       TrendStrength = "WEAK"
	TrendModerate   TrendStrength = "MODERATE"
	TrendStrong     TrendStrength = "STRONG"
	TrendVeryStrong TrendStrength = "VERY_STRONG"
)

// TrendDirection is the smoothed direction of the window.
type TrendDirection string

const (
	DirectionUp       TrendDirection = "UP"
	DirectionDown     TrendDirection = "DOWN"
	DirectionSideways TrendDirection = "SIDEWAYS"
)

// TrendMetrics holds the trend block of a regime analysis.
type TrendMetrics struct {
	ADX            float64        `json:"adx"` // 0-100
	TrendStrength  TrendStrength  `json:"trend_strength"`
	Direction      TrendDirection `json:"direction"`
	ConsistencyPct float64        `json:"consistency_pct"` // 0-100
	TrendAgeBars   int            `json:"trend_age_bars"`
}

// RangeQuality grades how clean a consolidation is.
type RangeQuality string

const (
	RangePoor      RangeQuality = "POOR"
	RangeFair      RangeQuality = "FAIR"
	RangeGood      RangeQuality = "GOOD"
	RangeExcellent RangeQuality = "EXCELLENT"
)

// RangingMetrics holds the ranging/consolidation block of a regime analysis.
type RangingMetrics struct {
	EfficiencyPct            float64      `json:"efficiency_pct"`             // 0-100
	ConsolidationStrengthPct float64      `json:"consolidation_strength_pct"` // 0-100
	BreakoutProbabilityPct   float64      `json:"breakout_probability_pct"`   // 0-100, clamped
	RangeQuality             RangeQuality `json:"range_quality"`
	SRStrength               float64      `json:"sr_strength"`
}

// MACDResult carries the MACD line, signal line and histogram.
type MACDResult struct {
	Line      float64 `json:"line"`
	Signal    float64 `json:"signal"`
	Histogram float64 `json:"histogram"`
}

// MomentumRegime classifies histogram magnitude against its own average.
type MomentumRegime string

const (
	MomentumAccelerating MomentumRegime = "ACCELERATING"
	MomentumDecelerating MomentumRegime = "DECELERATING"
	MomentumStable       MomentumRegime = "STABLE"
	MomentumChoppy       MomentumRegime = "CHOPPY"
)

// MomentumShift is the short-term bullish/bearish tilt.
type MomentumShift string

const (
	ShiftBullish MomentumShift = "BULLISH"
	ShiftBearish MomentumShift = "BEARISH"
	ShiftNeutral MomentumShift = "NEUTRAL"
)

// MomentumMetrics holds the momentum block of a regime analysis.
type MomentumMetrics struct {
	RSI                float64        `json:"rsi"` // 0-100
	MACD               MACDResult     `json:"macd"`
	ROC                float64        `json:"roc"`
	DivergenceDetected bool           `json:"divergence_detected"`
	Regime             MomentumRegime `json:"regime"`
	MomentumShift      MomentumShift  `json:"momentum_shift"`
}

// TrendRegime is the bull/bear axis of the classification.
type TrendRegime string

const (
	StrongBull TrendRegime = "STRONG_BULL"
	WeakBull   TrendRegime = "WEAK_BULL"
	Neutral    TrendRegime = "NEUTRAL"
	WeakBear   TrendRegime = "WEAK_BEAR"
	StrongBear TrendRegime = "STRONG_BEAR"
)

// DirectionRegime is the trending/ranging axis of the classification.
type DirectionRegime string

const (
	Trending     DirectionRegime = "TRENDING"
	Ranging      DirectionRegime = "RANGING"
	Transitional DirectionRegime = "TRANSITIONAL"
)

// OverallRegime combines the trend and direction axes.
type OverallRegime string

const (
	BullTrending        OverallRegime = "BULL_TRENDING"
	BullRanging         OverallRegime = "BULL_RANGING"
	BearTrending        OverallRegime = "BEAR_TRENDING"
	BearRanging         OverallRegime = "BEAR_RANGING"
	NeutralTrending     OverallRegime = "NEUTRAL_TRENDING"
	NeutralRanging      OverallRegime = "NEUTRAL_RANGING"
	OverallTransitional OverallRegime = "TRANSITIONAL"
)

// AnalysisAdjustments are the knobs downstream signal issuance must apply
// to a candidate trade under the current regime.
type AnalysisAdjustments struct {
	RiskMultiplier       float64 `json:"risk_multiplier"`
	StopLossAdjustment   float64 `json:"stop_loss_adjustment"`
	TakeProfitAdjustment float64 `json:"take_profit_adjustment"`
	TimeframeBias        string  `json:"timeframe_bias"`
	EntryApproach        string  `json:"entry_approach"`
}

// RegimeHistorySummary describes how the regime has been moving lately.
type RegimeHistorySummary struct {
	PreviousRegime    OverallRegime `json:"previous_regime"`
	TimeInRegimeBars  int           `json:"time_in_regime_bars"`
	AvgRegimeDuration float64       `json:"avg_regime_duration"`
	RecentChanges     int           `json:"recent_changes"`
}

// RegimeContext is the full classification snapshot returned to callers.
// It is immutable once returned; the detector keeps its own bounded copy
// for history and stability computation.
type RegimeContext struct {
	Volatility       VolatilityMetrics    `json:"volatility"`
	Trend            TrendMetrics         `json:"trend"`
	Ranging          RangingMetrics       `json:"ranging"`
	Momentum         MomentumMetrics      `json:"momentum"`
	TrendRegime      TrendRegime          `json:"trend_regime"`
	DirectionRegime  DirectionRegime      `json:"direction_regime"`
	VolatilityRegime VolatilityRegime     `json:"volatility_regime"`
	MomentumRegime   MomentumRegime       `json:"momentum_regime"`
	OverallRegime    OverallRegime        `json:"overall_regime"`
	Confidence       float64              `json:"confidence"` // 20-95
	Stability        float64              `json:"stability"`  // 20-100
	Adjustments      AnalysisAdjustments  `json:"analysis_adjustments"`
	History          RegimeHistorySummary `json:"regime_history"`
	Warnings         []string             `json:"warnings"`
	Opportunities    []string             `json:"opportunities"`
	Timeframe        Timeframe            `json:"timeframe"`
	Timestamp        time.Time            `json:"timestamp"`
	NextReviewTime   time.Time            `json:"next_review_time"`
}

// AssetType is the coarse market class of a symbol.
type AssetType string

const (
	AssetCrypto AssetType = "CRYPTO"
	AssetForex  AssetType = "FOREX"
	AssetStocks AssetType = "STOCKS"
)

// VolatilityProfile is the static volatility class of an asset.
type VolatilityProfile string

const (
	ProfileLow     VolatilityProfile = "LOW"
	ProfileMedium  VolatilityProfile = "MEDIUM"
	ProfileHigh    VolatilityProfile = "HIGH"
	ProfileExtreme VolatilityProfile = "EXTREME"
)

// RRRange is the typical risk:reward envelope for an asset.
type RRRange struct {
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Optimal float64 `json:"optimal"`
}

// MarketHours describes when an asset actively trades.
type MarketHours struct {
	Is24h       bool  `json:"is_24h"`
	ActiveHours []int `json:"active_hours,omitempty"` // UTC hours
	ActiveDays  []int `json:"active_days,omitempty"`  // 0=Sunday
}

// AssetProfile is the static per-symbol context used by the calculator.
type AssetProfile struct {
	Symbol            string            `json:"symbol"`
	AssetType         AssetType         `json:"asset_type"`
	VolatilityProfile VolatilityProfile `json:"volatility_profile"`
	TypicalRRRange    RRRange           `json:"typical_rr_range"`
	MarketHours       MarketHours       `json:"market_hours"`
}

// BucketStats accumulates success counts for one outcome bucket.
type BucketStats struct {
	Total       int     `json:"total"`
	Successful  int     `json:"successful"`
	SuccessRate float64 `json:"success_rate"`
}

// HistoricalPerformance aggregates recorded trade outcomes for one
// asset x timeframe key. Grows monotonically; there is no eviction.
type HistoricalPerformance struct {
	TotalTrades            int                              `json:"total_trades"`
	SuccessfulTrades       int                              `json:"successful_trades"`
	SuccessRate            float64                          `json:"success_rate"`
	AverageRR              float64                          `json:"average_rr"`
	VolatilityBasedSuccess map[VolatilityRegime]BucketStats `json:"volatility_based_success"`
	HourlySuccess          [24]BucketStats                  `json:"hourly_success"`
	DailySuccess           [7]BucketStats                   `json:"daily_success"`
	AssetTypeSuccess       map[AssetType]BucketStats        `json:"asset_type_success"`
}

// TradeOutcome is one closed trade reported back into the store.
type TradeOutcome struct {
	Success    bool             `json:"success"`
	RR         float64          `json:"rr"`
	Volatility VolatilityRegime `json:"volatility"`
	Hour       int              `json:"hour"` // UTC
	Day        int              `json:"day"`  // 0=Sunday
	AssetType  AssetType        `json:"asset_type"`
}

// MarketSession labels the active trading session.
type MarketSession string

const (
	SessionAsian   MarketSession = "ASIAN"
	SessionLondon  MarketSession = "LONDON"
	SessionNewYork MarketSession = "NEW_YORK"
	SessionOverlap MarketSession = "OVERLAP"
	SessionWeekend MarketSession = "WEEKEND"
)

// TimePatterns is the stateless time-of-day context for a calculation.
type TimePatterns struct {
	Hour                int           `json:"hour"`
	Day                 int           `json:"day"`
	IsActiveTradingTime bool          `json:"is_active_trading_time"`
	TimeBasedVolatility float64       `json:"time_based_volatility"` // 0-1
	SessionStrength     float64       `json:"session_strength"`      // 0-1
	MarketSession       MarketSession `json:"market_session"`
}

// AdjustmentFactors breaks the final R:R delta into its five components.
type AdjustmentFactors struct {
	Volatility float64 `json:"volatility"`
	Asset      float64 `json:"asset"`
	Historical float64 `json:"historical"`
	Time       float64 `json:"time"`
	Confidence float64 `json:"confidence"`
}

// RRRecommendation is the final gate downstream issuance must respect.
type RRRecommendation struct {
	MinRR      float64 `json:"min_rr"`
	OptimalRR  float64 `json:"optimal_rr"`
	MaxRR      float64 `json:"max_rr"`
	Confidence float64 `json:"confidence"`
}

// DynamicRRResult is the calculator output. Pure value, no ownership.
type DynamicRRResult struct {
	BaseRR              float64           `json:"base_rr"`
	AdjustedRR          float64           `json:"adjusted_rr"`
	AdjustmentFactors   AdjustmentFactors `json:"adjustment_factors"`
	Reasoning           []string          `json:"reasoning"`
	FinalRecommendation RRRecommendation  `json:"final_recommendation"`
}

// TradeDirection is the side of a proposed trade.
type TradeDirection string

const (
	DirectionBuy  TradeDirection = "BUY"
	DirectionSell TradeDirection = "SELL"
)

// TimeBasedStopAdjustment is the session-driven stop-distance scaling.
type TimeBasedStopAdjustment struct {
	SessionType           MarketSession `json:"session_type"`
	AdjustmentFactor      float64       `json:"adjustment_factor"` // 0.5-2.0
	Reasoning             string        `json:"reasoning"`
	VolatilityExpectation string        `json:"volatility_expectation"`
	LiquidityExpectation  string        `json:"liquidity_expectation"`
	NewsEvents            []string      `json:"news_events"`
}

// VolatilityTrend is the short-term drift of volatility, used by the
// dynamic R:R calculator alongside the regime itself.
type VolatilityTrend string

const (
	VolTrendIncreasing VolatilityTrend = "INCREASING"
	VolTrendDecreasing VolatilityTrend = "DECREASING"
	VolTrendStable     VolatilityTrend = "STABLE"
)

// VolatilityContext is the volatility view the calculator consumes. Its
// level scale is coarser than the classifier's (MEDIUM in place of
// NORMAL) to match the asset profile vocabulary.
type VolatilityContext struct {
	Level VolatilityProfile `json:"level"`
	Trend VolatilityTrend   `json:"trend"`
}
