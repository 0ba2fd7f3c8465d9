package regime

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Alias1177/Calibrator/internal/calculate"
	"github.com/Alias1177/Calibrator/internal/config"
	"github.com/Alias1177/Calibrator/models"
)

var (
	// ErrInsufficientData is returned when the price series is shorter
	// than the configured volatility window.
	ErrInsufficientData = errors.New("insufficient data for regime detection")

	// ErrInvalidInput is returned for non-finite prices or a volume
	// series misaligned with the price series.
	ErrInvalidInput = errors.New("invalid input series")
)

// Detector classifies a price/volume window into a market regime. It owns
// its configuration and a bounded ring of past snapshots; construct one
// per logical session and do not share across goroutines without caller
// synchronization.
type Detector struct {
	cfg     *config.Config
	history []models.RegimeContext
}

// New creates a detector with the given configuration. A nil cfg uses the
// built-in defaults.
func New(cfg *config.Config) *Detector {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Detector{cfg: cfg}
}

// GetConfig returns a copy of the active configuration.
func (d *Detector) GetConfig() config.Config {
	return *d.cfg
}

// UpdateConfig merges the non-zero fields of partial into the active
// configuration. Returns an error and leaves the config untouched when
// the merged result is not valid.
func (d *Detector) UpdateConfig(partial config.Config) error {
	merged := d.cfg.Merge(partial)
	if err := merged.Validate(); err != nil {
		return err
	}
	d.cfg = merged
	return nil
}

// ResetHistory clears the regime snapshot ring.
func (d *Detector) ResetHistory() {
	d.history = nil
}

// History returns a read-only copy of the retained snapshots, oldest first.
func (d *Detector) History() []models.RegimeContext {
	out := make([]models.RegimeContext, len(d.history))
	copy(out, d.history)
	return out
}

// Detect classifies the given price window. Volumes may be empty; when
// present they must align with prices. The returned context is a snapshot
// owned by the caller.
func (d *Detector) Detect(prices, volumes []float64, timeframe models.Timeframe) (*models.RegimeContext, error) {
	if len(prices) < d.cfg.VolatilityWindow {
		return nil, fmt.Errorf("%w: need %d prices, got %d", ErrInsufficientData, d.cfg.VolatilityWindow, len(prices))
	}
	if err := validateSeries(prices, volumes); err != nil {
		return nil, err
	}

	returns := calculate.Returns(prices)

	volatility := d.computeVolatility(prices, returns)
	trend := d.computeTrend(prices)
	ranging := d.computeRanging(prices, volatility.IsVolatilityCluster)
	momentum := d.computeMomentum(prices)

	trendRegime := classifyTrendRegime(trend, momentum)
	directionRegime := classifyDirectionRegime(trend, ranging)
	overall := classifyOverallRegime(trendRegime, directionRegime, volatility.Regime)

	now := time.Now().UTC()

	ctx := models.RegimeContext{
		Volatility:       volatility,
		Trend:            trend,
		Ranging:          ranging,
		Momentum:         momentum,
		TrendRegime:      trendRegime,
		DirectionRegime:  directionRegime,
		VolatilityRegime: volatility.Regime,
		MomentumRegime:   momentum.Regime,
		OverallRegime:    overall,
		Timeframe:        timeframe,
		Timestamp:        now,
		NextReviewTime:   now.Add(timeframeDuration(timeframe)),
	}

	ctx.Confidence = computeConfidence(&ctx)
	ctx.Adjustments = deriveAdjustments(&ctx)

	d.appendSnapshot(ctx)
	ctx.Stability = d.computeStability()
	ctx.History = d.summarizeHistory()

	// Stability and summary are computed after appending, so patch the
	// stored copy to match what the caller sees.
	d.history[len(d.history)-1].Stability = ctx.Stability
	d.history[len(d.history)-1].History = ctx.History

	ctx.Warnings, ctx.Opportunities = deriveSignals(&ctx, volumes)
	// Store copies so callers mutating the returned slices cannot edit
	// the retained snapshot.
	d.history[len(d.history)-1].Warnings = append([]string(nil), ctx.Warnings...)
	d.history[len(d.history)-1].Opportunities = append([]string(nil), ctx.Opportunities...)

	log.Debug().
		Str("overall", string(ctx.OverallRegime)).
		Str("trend", string(ctx.TrendRegime)).
		Str("volatility", string(ctx.VolatilityRegime)).
		Float64("confidence", ctx.Confidence).
		Float64("stability", ctx.Stability).
		Msg("regime detected")

	return &ctx, nil
}

func validateSeries(prices, volumes []float64) error {
	for i, p := range prices {
		if math.IsNaN(p) || math.IsInf(p, 0) {
			return fmt.Errorf("%w: non-finite price at index %d", ErrInvalidInput, i)
		}
	}
	if len(volumes) != 0 && len(volumes) != len(prices) {
		return fmt.Errorf("%w: %d volumes for %d prices", ErrInvalidInput, len(volumes), len(prices))
	}
	for i, v := range volumes {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: non-finite volume at index %d", ErrInvalidInput, i)
		}
	}
	return nil
}

func timeframeDuration(tf models.Timeframe) time.Duration {
	switch tf {
	case models.Timeframe1Min:
		return time.Minute
	case models.Timeframe5Min:
		return 5 * time.Minute
	case models.Timeframe15Min:
		return 15 * time.Minute
	case models.Timeframe1H:
		return time.Hour
	case models.Timeframe4H:
		return 4 * time.Hour
	case models.Timeframe1D:
		return 24 * time.Hour
	default:
		return 5 * time.Minute
	}
}
