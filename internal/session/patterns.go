package session

import (
	"time"

	"github.com/Alias1177/Calibrator/models"
)

// Per-session strength and expected volatility, on a 0-1 scale. Fixed
// tables; the engine never looks at live data for these.
var sessionStrengths = map[models.MarketSession]float64{
	models.SessionAsian:   0.4,
	models.SessionLondon:  0.8,
	models.SessionNewYork: 0.7,
	models.SessionOverlap: 1.0,
	models.SessionWeekend: 0.1,
}

var sessionVolatility = map[models.MarketSession]float64{
	models.SessionAsian:   0.3,
	models.SessionLondon:  0.7,
	models.SessionNewYork: 0.6,
	models.SessionOverlap: 0.9,
	models.SessionWeekend: 0.2,
}

// TimePatterns derives the stateless time-of-day context the dynamic R:R
// calculator consumes. Recomputed per call; nothing is cached.
func (a *Adjuster) TimePatterns(ts time.Time, asset string) models.TimePatterns {
	profile := a.profiles.Get(asset)
	utc := ts.UTC()

	sessionType, _ := classifySession(utc, profile)

	return models.TimePatterns{
		Hour:                utc.Hour(),
		Day:                 int(utc.Weekday()),
		IsActiveTradingTime: isActiveTime(utc, profile, sessionType),
		TimeBasedVolatility: sessionVolatility[sessionType],
		SessionStrength:     sessionStrengths[sessionType],
		MarketSession:       sessionType,
	}
}

func isActiveTime(utc time.Time, profile models.AssetProfile, sessionType models.MarketSession) bool {
	if sessionType == models.SessionWeekend {
		return false
	}
	if profile.MarketHours.Is24h {
		return true
	}

	if len(profile.MarketHours.ActiveDays) > 0 {
		dayActive := false
		for _, d := range profile.MarketHours.ActiveDays {
			if d == int(utc.Weekday()) {
				dayActive = true
				break
			}
		}
		if !dayActive {
			return false
		}
	}

	if len(profile.MarketHours.ActiveHours) > 0 {
		for _, h := range profile.MarketHours.ActiveHours {
			if h == utc.Hour() {
				return true
			}
		}
		return false
	}

	return true
}
