package regime

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alias1177/Calibrator/internal/config"
	"github.com/Alias1177/Calibrator/models"
)

// trendingPrices builds n bars rising 1% per bar.
func trendingPrices(n int) []float64 {
	prices := make([]float64, n)
	for i := range prices {
		prices[i] = 100 * math.Pow(1.01, float64(i))
	}
	return prices
}

// rangingPrices builds n bars of a triangle wave around 50000 inside a 2%
// band, period 20 bars.
func rangingPrices(n int) []float64 {
	prices := make([]float64, n)
	for i := range prices {
		phase := i % 20
		var offset float64
		if phase < 10 {
			offset = -500 + 100*float64(phase)
		} else {
			offset = 500 - 100*float64(phase-10)
		}
		prices[i] = 50000 + offset
	}
	return prices
}

func flatVolumes(n int) []float64 {
	volumes := make([]float64, n)
	for i := range volumes {
		volumes[i] = 1000
	}
	return volumes
}

func TestDetectUptrend(t *testing.T) {
	d := New(nil)

	ctx, err := d.Detect(trendingPrices(100), flatVolumes(100), models.Timeframe5Min)
	require.NoError(t, err)

	assert.Equal(t, models.DirectionUp, ctx.Trend.Direction)
	assert.Contains(t, []models.TrendRegime{models.StrongBull, models.WeakBull}, ctx.TrendRegime)
	assert.Equal(t, models.Trending, ctx.DirectionRegime)
	assert.Equal(t, models.BullTrending, ctx.OverallRegime)
	assert.False(t, ctx.Momentum.DivergenceDetected)
	assert.NotEmpty(t, ctx.Opportunities)
}

func TestDetectRange(t *testing.T) {
	d := New(nil)

	ctx, err := d.Detect(rangingPrices(100), flatVolumes(100), models.Timeframe5Min)
	require.NoError(t, err)

	assert.Equal(t, models.Ranging, ctx.DirectionRegime)
	assert.Contains(t, []models.RangeQuality{models.RangeGood, models.RangeExcellent}, ctx.Ranging.RangeQuality)
	assert.Equal(t, models.DirectionSideways, ctx.Trend.Direction)
	assert.Equal(t, models.NeutralRanging, ctx.OverallRegime)
}

func TestDetectInsufficientData(t *testing.T) {
	d := New(nil)

	ctx, err := d.Detect([]float64{1, 2, 3, 4, 5}, nil, models.Timeframe5Min)
	assert.Nil(t, ctx)
	assert.ErrorIs(t, err, ErrInsufficientData)
	assert.Empty(t, d.History(), "no partial snapshot may be retained")
}

func TestDetectInvalidInput(t *testing.T) {
	d := New(nil)

	prices := trendingPrices(50)
	prices[10] = math.NaN()
	_, err := d.Detect(prices, nil, models.Timeframe5Min)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = d.Detect(trendingPrices(50), []float64{1, 2, 3}, models.Timeframe5Min)
	assert.ErrorIs(t, err, ErrInvalidInput)

	volumes := flatVolumes(50)
	volumes[0] = math.Inf(1)
	_, err = d.Detect(trendingPrices(50), volumes, models.Timeframe5Min)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestDetectInvariants(t *testing.T) {
	series := map[string][]float64{
		"uptrend": trendingPrices(100),
		"range":   rangingPrices(100),
		"short":   trendingPrices(14),
	}

	for name, prices := range series {
		t.Run(name, func(t *testing.T) {
			d := New(nil)
			ctx, err := d.Detect(prices, nil, models.Timeframe1H)
			require.NoError(t, err)

			assert.GreaterOrEqual(t, ctx.Confidence, 20.0)
			assert.LessOrEqual(t, ctx.Confidence, 95.0)
			assert.GreaterOrEqual(t, ctx.Stability, 20.0)
			assert.LessOrEqual(t, ctx.Stability, 100.0)
			assert.GreaterOrEqual(t, ctx.Volatility.ATR, 0.0)
			assert.GreaterOrEqual(t, ctx.Volatility.ATRNormalizedPct, 0.0)
			assert.GreaterOrEqual(t, ctx.Ranging.BreakoutProbabilityPct, 0.0)
			assert.LessOrEqual(t, ctx.Ranging.BreakoutProbabilityPct, 100.0)
			assert.True(t, ctx.NextReviewTime.After(ctx.Timestamp))
		})
	}
}

func TestDetectDeterministicForSameWindow(t *testing.T) {
	d := New(nil)
	prices := trendingPrices(100)

	first, err := d.Detect(prices, nil, models.Timeframe5Min)
	require.NoError(t, err)
	second, err := d.Detect(prices, nil, models.Timeframe5Min)
	require.NoError(t, err)

	// Everything derived from the window itself must match; only the
	// timestamps and the history bookkeeping may differ between calls.
	assert.Equal(t, first.Volatility, second.Volatility)
	assert.Equal(t, first.Trend, second.Trend)
	assert.Equal(t, first.Ranging, second.Ranging)
	assert.Equal(t, first.Momentum, second.Momentum)
	assert.Equal(t, first.TrendRegime, second.TrendRegime)
	assert.Equal(t, first.DirectionRegime, second.DirectionRegime)
	assert.Equal(t, first.OverallRegime, second.OverallRegime)
	assert.Equal(t, first.Confidence, second.Confidence)
	assert.Equal(t, first.Adjustments, second.Adjustments)
}

func TestTrendAgeWarning(t *testing.T) {
	d := New(nil)

	ctx, err := d.Detect(trendingPrices(100), nil, models.Timeframe5Min)
	require.NoError(t, err)

	found := false
	for _, w := range ctx.Warnings {
		if strings.Contains(w, "trend age") {
			found = true
		}
	}
	assert.True(t, found, "expected an extended-trend warning, got %v", ctx.Warnings)
}

func TestHistorySnapshotIsolatedFromCaller(t *testing.T) {
	d := New(nil)

	ctx, err := d.Detect(trendingPrices(100), nil, models.Timeframe5Min)
	require.NoError(t, err)
	require.NotEmpty(t, ctx.Warnings)

	original := ctx.Warnings[0]
	ctx.Warnings[0] = "mutated"

	stored := d.History()
	assert.Equal(t, original, stored[len(stored)-1].Warnings[0],
		"retained snapshot must not share backing arrays with the caller")
}

func TestHistoryRingBounded(t *testing.T) {
	cfg := config.Default()
	cfg.HistoryCapacity = 5
	d := New(cfg)

	prices := trendingPrices(100)
	for i := 0; i < 12; i++ {
		_, err := d.Detect(prices, nil, models.Timeframe5Min)
		require.NoError(t, err)
	}

	assert.Len(t, d.History(), 5)
}

func TestStabilitySettlesInSteadyRegime(t *testing.T) {
	d := New(nil)
	prices := trendingPrices(100)

	var last *models.RegimeContext
	for i := 0; i < 6; i++ {
		ctx, err := d.Detect(prices, nil, models.Timeframe5Min)
		require.NoError(t, err)
		last = ctx
	}

	// Six identical classifications in a row: one distinct regime.
	assert.Equal(t, 100.0, last.Stability)
	assert.Equal(t, last.OverallRegime, last.History.PreviousRegime)
	assert.Equal(t, 6, last.History.TimeInRegimeBars)
	assert.Equal(t, 0, last.History.RecentChanges)
}

func TestResetHistory(t *testing.T) {
	d := New(nil)
	_, err := d.Detect(trendingPrices(100), nil, models.Timeframe5Min)
	require.NoError(t, err)
	require.NotEmpty(t, d.History())

	d.ResetHistory()
	assert.Empty(t, d.History())
}

func TestUpdateConfig(t *testing.T) {
	d := New(nil)

	require.NoError(t, d.UpdateConfig(config.Config{VolatilityWindow: 20}))
	assert.Equal(t, 20, d.GetConfig().VolatilityWindow)
	// Untouched fields keep their defaults.
	assert.Equal(t, 26, d.GetConfig().MACDSlowPeriod)

	// An invalid merge leaves the config untouched.
	err := d.UpdateConfig(config.Config{MACDFastPeriod: 40})
	assert.Error(t, err)
	assert.Equal(t, 12, d.GetConfig().MACDFastPeriod)

	// Window larger than the series now fails detection.
	_, err = d.Detect(trendingPrices(15), nil, models.Timeframe5Min)
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestExtremeVolatilityIsTransitional(t *testing.T) {
	// Alternate +8%/-6% bars: normalized ATR far above the 3% band.
	prices := make([]float64, 60)
	prices[0] = 100
	for i := 1; i < len(prices); i++ {
		if i%2 == 0 {
			prices[i] = prices[i-1] * 1.08
		} else {
			prices[i] = prices[i-1] * 0.94
		}
	}

	d := New(nil)
	ctx, err := d.Detect(prices, nil, models.Timeframe5Min)
	require.NoError(t, err)

	assert.Equal(t, models.VolatilityExtreme, ctx.VolatilityRegime)
	assert.Equal(t, models.OverallTransitional, ctx.OverallRegime)
	assert.Equal(t, "WAIT", ctx.Adjustments.TimeframeBias)
}
