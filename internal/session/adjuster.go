package session

import (
	"fmt"
	"math"
	"time"

	"github.com/Alias1177/Calibrator/internal/calculate"
	"github.com/Alias1177/Calibrator/models"
)

// ProfileSource resolves a symbol to its static asset profile. The assets
// registry satisfies this.
type ProfileSource interface {
	Get(symbol string) models.AssetProfile
}

// Adjuster scales stop distances by trading session. Stateless; every
// call is a pure function of the timestamp and the asset profile.
type Adjuster struct {
	profiles ProfileSource
}

// NewAdjuster creates a session-based stop adjuster.
func NewAdjuster(profiles ProfileSource) *Adjuster {
	return &Adjuster{profiles: profiles}
}

// Base stop-distance factor per session.
var sessionFactors = map[models.MarketSession]float64{
	models.SessionAsian:   0.8,
	models.SessionLondon:  1.2,
	models.SessionNewYork: 1.1,
	models.SessionOverlap: 1.4,
	models.SessionWeekend: 0.6,
}

var volatilityExpectations = map[models.MarketSession]string{
	models.SessionAsian:   "LOW",
	models.SessionLondon:  "HIGH",
	models.SessionNewYork: "HIGH",
	models.SessionOverlap: "VERY_HIGH",
	models.SessionWeekend: "LOW",
}

var liquidityExpectations = map[models.MarketSession]string{
	models.SessionAsian:   "MODERATE",
	models.SessionLondon:  "HIGH",
	models.SessionNewYork: "HIGH",
	models.SessionOverlap: "VERY_HIGH",
	models.SessionWeekend: "LOW",
}

// SessionAdjustment classifies the trading session for the timestamp and
// asset and returns the stop-distance scaling for it. The factor is
// clamped to [0.5, 2.0]. The expectations come from fixed per-session
// tables, not live data.
func (a *Adjuster) SessionAdjustment(ts time.Time, asset string) models.TimeBasedStopAdjustment {
	profile := a.profiles.Get(asset)
	utc := ts.UTC()

	sessionType, progress := classifySession(utc, profile)

	factor := sessionFactors[sessionType]

	// Asset class scaling.
	switch profile.AssetType {
	case models.AssetCrypto:
		factor *= 1.3
	case models.AssetStocks:
		factor *= 0.9
	}

	// Session edges trade differently: liquidity is still building in
	// the first quarter and closing flows widen ranges in the last.
	progressNote := ""
	if sessionType != models.SessionWeekend {
		if progress < 0.25 {
			factor *= 0.9
			progressNote = ", early session"
		} else if progress > 0.75 {
			factor *= 1.1
			progressNote = ", late session"
		}
	}

	factor = calculate.Clamp(factor, 0.5, 2.0)

	return models.TimeBasedStopAdjustment{
		SessionType:      sessionType,
		AdjustmentFactor: factor,
		Reasoning: fmt.Sprintf("%s session for %s (%s)%s: stop distance x%.2f",
			sessionType, asset, profile.AssetType, progressNote, factor),
		VolatilityExpectation: volatilityExpectations[sessionType],
		LiquidityExpectation:  liquidityExpectations[sessionType],
		NewsEvents:            []string{},
	}
}

// AdjustStop rescales the stop distance by the session factor and
// re-applies it on the correct side of entry: below for BUY, above for
// SELL regardless of where baseStop was.
func (a *Adjuster) AdjustStop(entry, baseStop float64, direction models.TradeDirection, ts time.Time, asset string) float64 {
	adjustment := a.SessionAdjustment(ts, asset)
	distance := math.Abs(entry-baseStop) * adjustment.AdjustmentFactor

	if direction == models.DirectionBuy {
		return entry - distance
	}
	return entry + distance
}

// classifySession maps UTC time and asset profile to a session and the
// fractional progress through it.
func classifySession(utc time.Time, profile models.AssetProfile) (models.MarketSession, float64) {
	weekday := utc.Weekday()
	weekend := weekday == time.Saturday || weekday == time.Sunday
	hourFrac := float64(utc.Hour()) + float64(utc.Minute())/60

	if profile.AssetType == models.AssetStocks {
		// Fixed cash-session band, 14:30-21:00 UTC. Everything outside,
		// weekends included, is treated as the dead zone.
		const open, close = 14.5, 21.0
		if weekend || hourFrac < open || hourFrac >= close {
			return models.SessionWeekend, 0
		}
		return models.SessionNewYork, (hourFrac - open) / (close - open)
	}

	// Only true 24/7 markets keep trading through the weekend.
	if weekend && !profile.MarketHours.Is24h {
		return models.SessionWeekend, 0
	}

	// 8-hour bands for round-the-clock markets. The Asian/London handoff
	// is folded into LONDON; OVERLAP is the London/New York window.
	switch {
	case hourFrac < 8:
		return models.SessionAsian, hourFrac / 8
	case hourFrac < 12:
		return models.SessionLondon, (hourFrac - 8) / 4
	case hourFrac < 16:
		return models.SessionOverlap, (hourFrac - 12) / 4
	default:
		return models.SessionNewYork, (hourFrac - 16) / 8
	}
}
