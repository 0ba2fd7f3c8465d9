package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/Alias1177/Calibrator/internal/assets"
	"github.com/Alias1177/Calibrator/internal/calculate"
	"github.com/Alias1177/Calibrator/internal/config"
	"github.com/Alias1177/Calibrator/internal/history"
	"github.com/Alias1177/Calibrator/internal/regime"
	"github.com/Alias1177/Calibrator/internal/risk"
	"github.com/Alias1177/Calibrator/internal/session"
	"github.com/Alias1177/Calibrator/models"
)

func main() {
	var (
		file       = flag.String("file", "", "path to a JSON file with candles")
		asset      = flag.String("asset", "BTCUSDT", "asset symbol")
		timeframe  = flag.String("timeframe", "5min", "candle timeframe")
		baseRR     = flag.Float64("base-rr", 2.0, "base risk:reward requirement")
		confidence = flag.Float64("confidence", 75, "external analysis confidence (0-100)")
		ultra      = flag.Bool("ultra", false, "ultra mode: stricter confidence handling")
		watch      = flag.Bool("watch", false, "re-evaluate the file periodically")
		watchEvery = flag.Duration("watch-interval", 30*time.Second, "minimum interval between watch evaluations")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	lvl, parseErr := zerolog.ParseLevel(cfg.LogLevel)
	if parseErr != nil {
		lvl = zerolog.InfoLevel
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr}).Level(lvl)

	if *file == "" {
		log.Fatal().Msg("-file is required: the engine reads candles from disk, it does not fetch market data")
	}

	registry := assets.NewRegistry()
	adjuster := session.NewAdjuster(registry)
	calculator := risk.NewCalculator()
	detector := regime.New(cfg)

	var pg *history.PostgresStore
	var sink history.OutcomeSink
	if cfg.DBEnabled {
		var pgErr error
		pg, pgErr = history.NewPostgresStore(history.ConnectionParams{
			Host:     cfg.DBHost,
			Port:     cfg.DBPort,
			User:     cfg.DBUser,
			Password: cfg.DBPassword,
			DBName:   cfg.DBName,
			SSLMode:  cfg.DBSSLMode,
		})
		if pgErr != nil {
			log.Fatal().Err(pgErr).Msg("failed to connect outcome store")
		}
		defer pg.Close()
		sink = pg
	}
	store := history.NewStore(sink)

	// Rebuild the in-memory aggregates from the persisted outcomes so a
	// restart does not reset the historical adjustment to zero.
	if pg != nil {
		outcomes, loadErr := pg.LoadOutcomes(*asset, models.Timeframe(*timeframe))
		if loadErr != nil {
			log.Fatal().Err(loadErr).Msg("failed to load persisted outcomes")
		}
		if err := store.Replay(*asset, models.Timeframe(*timeframe), outcomes); err != nil {
			log.Fatal().Err(err).Msg("failed to replay persisted outcomes")
		}
		log.Info().Int("outcomes", len(outcomes)).Str("asset", *asset).Msg("outcome history restored")
	}

	run := func() {
		if err := evaluate(detector, adjuster, calculator, registry, store, *file, *asset, models.Timeframe(*timeframe), *baseRR, *confidence, *ultra); err != nil {
			log.Error().Err(err).Msg("evaluation failed")
		}
	}

	run()

	if !*watch {
		return
	}

	// Watch mode re-reads the file as new candles are appended, but never
	// faster than the configured interval.
	limiter := rate.NewLimiter(rate.Every(*watchEvery), 1)
	ctx := context.Background()
	for {
		if err := limiter.Wait(ctx); err != nil {
			log.Fatal().Err(err).Msg("watch interrupted")
		}
		run()
	}
}

func evaluate(
	detector *regime.Detector,
	adjuster *session.Adjuster,
	calculator *risk.Calculator,
	registry *assets.Registry,
	store *history.Store,
	file, asset string,
	timeframe models.Timeframe,
	baseRR, confidence float64,
	ultra bool,
) error {
	candles, err := loadCandles(file)
	if err != nil {
		return err
	}

	prices := make([]float64, len(candles))
	volumes := make([]float64, len(candles))
	for i, c := range candles {
		prices[i] = c.Close
		volumes[i] = c.Volume
	}

	ctx, err := detector.Detect(prices, volumes, timeframe)
	if err != nil {
		return err
	}

	printRegimeReport(ctx)

	// The classifier works from closes alone; when the feed carries real
	// high/low data, report the true-range ATR next to the close proxy.
	if hasRange(candles) {
		candleATR := calculate.ATRFromCandles(candles, detector.GetConfig().VolatilityWindow)
		fmt.Printf("True-range ATR: %.4f (close-proxy %.4f)\n", candleATR, ctx.Volatility.ATR)
	}

	now := time.Now().UTC()
	adjustment := adjuster.SessionAdjustment(now, asset)
	fmt.Printf("\n=== Session ===\n")
	fmt.Printf("Session: %s (factor %.2f)\n", adjustment.SessionType, adjustment.AdjustmentFactor)
	fmt.Printf("Expected volatility/liquidity: %s / %s\n", adjustment.VolatilityExpectation, adjustment.LiquidityExpectation)
	fmt.Printf("%s\n", adjustment.Reasoning)

	profile := registry.Get(asset)
	perf := store.Get(asset, timeframe)
	patterns := adjuster.TimePatterns(now, asset)

	result := calculator.Calculate(baseRR, volContext(ctx), profile, perf, patterns, confidence, ultra)

	fmt.Printf("\n=== Dynamic R:R ===\n")
	fmt.Printf("Base R:R: %.2f -> adjusted %.2f\n", result.BaseRR, result.AdjustedRR)
	fmt.Printf("Recommendation: min %.2f / optimal %.2f / max %.2f (confidence %.0f%%)\n",
		result.FinalRecommendation.MinRR,
		result.FinalRecommendation.OptimalRR,
		result.FinalRecommendation.MaxRR,
		result.FinalRecommendation.Confidence)
	for _, reason := range result.Reasoning {
		fmt.Printf("  - %s\n", reason)
	}

	return nil
}

func printRegimeReport(ctx *models.RegimeContext) {
	fmt.Printf("=== Market Regime ===\n")
	fmt.Printf("Overall: %s (trend %s, direction %s)\n", ctx.OverallRegime, ctx.TrendRegime, ctx.DirectionRegime)
	fmt.Printf("Confidence: %.0f  Stability: %.0f\n", ctx.Confidence, ctx.Stability)
	fmt.Printf("Volatility: %s (ATR %.4f, %.2f%% of price, percentile %.0f)\n",
		ctx.VolatilityRegime, ctx.Volatility.ATR, ctx.Volatility.ATRNormalizedPct, ctx.Volatility.VolatilityPercentile)
	fmt.Printf("Trend: %s %s (ADX %.1f, consistency %.0f%%, age %d bars)\n",
		ctx.Trend.Direction, ctx.Trend.TrendStrength, ctx.Trend.ADX, ctx.Trend.ConsistencyPct, ctx.Trend.TrendAgeBars)
	fmt.Printf("Momentum: %s / %s (RSI %.1f, MACD hist %+.4f, ROC %+.2f%%)\n",
		ctx.Momentum.Regime, ctx.Momentum.MomentumShift, ctx.Momentum.RSI, ctx.Momentum.MACD.Histogram, ctx.Momentum.ROC)
	fmt.Printf("Range: %s (efficiency %.0f%%, consolidation %.0f%%, breakout %.0f%%)\n",
		ctx.Ranging.RangeQuality, ctx.Ranging.EfficiencyPct, ctx.Ranging.ConsolidationStrengthPct, ctx.Ranging.BreakoutProbabilityPct)
	fmt.Printf("Adjustments: risk x%.2f, stop x%.2f, target x%.2f, bias %s, entry %s\n",
		ctx.Adjustments.RiskMultiplier, ctx.Adjustments.StopLossAdjustment, ctx.Adjustments.TakeProfitAdjustment,
		ctx.Adjustments.TimeframeBias, ctx.Adjustments.EntryApproach)

	for _, w := range ctx.Warnings {
		fmt.Printf("WARNING: %s\n", w)
	}
	for _, o := range ctx.Opportunities {
		fmt.Printf("OPPORTUNITY: %s\n", o)
	}
}

// volContext maps the detected volatility block onto the coarser scale
// the calculator consumes.
func volContext(ctx *models.RegimeContext) models.VolatilityContext {
	var level models.VolatilityProfile
	switch ctx.VolatilityRegime {
	case models.VolatilityLow:
		level = models.ProfileLow
	case models.VolatilityNormal:
		level = models.ProfileMedium
	case models.VolatilityHigh:
		level = models.ProfileHigh
	default:
		level = models.ProfileExtreme
	}

	trend := models.VolTrendStable
	if ctx.Volatility.IsVolatilityCluster {
		trend = models.VolTrendIncreasing
	}

	return models.VolatilityContext{Level: level, Trend: trend}
}

// hasRange reports whether the candles carry usable high/low data.
func hasRange(candles []models.Candle) bool {
	for _, c := range candles {
		if c.High != c.Low {
			return true
		}
	}
	return false
}

func loadCandles(path string) ([]models.Candle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read candles: %w", err)
	}

	var candles []models.Candle
	if err := json.Unmarshal(data, &candles); err != nil {
		return nil, fmt.Errorf("parse candles: %w", err)
	}
	if len(candles) == 0 {
		return nil, fmt.Errorf("no candles in %s", path)
	}

	return candles, nil
}
