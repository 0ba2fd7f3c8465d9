package assets

import (
	"strings"
	"sync"

	"github.com/Alias1177/Calibrator/models"
)

// Registry is a keyed store of per-asset profiles. Profiles are seeded at
// construction, updatable by the caller, and never auto-deleted. Guarded
// by a mutex because the registry is shared app-wide.
type Registry struct {
	mu       sync.RWMutex
	profiles map[string]models.AssetProfile
}

// NewRegistry creates a registry seeded with the built-in profiles.
func NewRegistry() *Registry {
	r := &Registry{profiles: make(map[string]models.AssetProfile)}
	for _, p := range defaultProfiles() {
		r.profiles[p.Symbol] = p
	}
	return r
}

// Get returns the profile for symbol, falling back to a default
// CRYPTO/HIGH profile when the symbol is unknown.
func (r *Registry) Get(symbol string) models.AssetProfile {
	key := normalize(symbol)

	r.mu.RLock()
	profile, ok := r.profiles[key]
	r.mu.RUnlock()
	if ok {
		return profile
	}

	fallback := defaultProfileFor(key)
	fallback.Symbol = key
	return fallback
}

// Upsert inserts or replaces a profile.
func (r *Registry) Upsert(profile models.AssetProfile) {
	profile.Symbol = normalize(profile.Symbol)

	r.mu.Lock()
	r.profiles[profile.Symbol] = profile
	r.mu.Unlock()
}

// Symbols returns the registered symbols, for diagnostics.
func (r *Registry) Symbols() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.profiles))
	for s := range r.profiles {
		out = append(out, s)
	}
	return out
}

func normalize(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// defaultProfileFor guesses a reasonable profile for an unregistered
// symbol from its naming shape. Unknown symbols read as high-volatility
// crypto, the most defensive assumption.
func defaultProfileFor(symbol string) models.AssetProfile {
	switch {
	case symbol == "FOREX" || strings.Contains(symbol, "/"):
		return forexProfile(symbol, models.ProfileLow)
	case symbol == "STOCKS":
		return stockProfile(symbol, models.ProfileMedium)
	default:
		return cryptoProfile(symbol, models.ProfileHigh)
	}
}

func cryptoProfile(symbol string, vol models.VolatilityProfile) models.AssetProfile {
	return models.AssetProfile{
		Symbol:            symbol,
		AssetType:         models.AssetCrypto,
		VolatilityProfile: vol,
		TypicalRRRange:    models.RRRange{Min: 1.5, Max: 4.0, Optimal: 2.2},
		MarketHours:       models.MarketHours{Is24h: true},
	}
}

func forexProfile(symbol string, vol models.VolatilityProfile) models.AssetProfile {
	return models.AssetProfile{
		Symbol:            symbol,
		AssetType:         models.AssetForex,
		VolatilityProfile: vol,
		TypicalRRRange:    models.RRRange{Min: 1.2, Max: 3.0, Optimal: 2.0},
		MarketHours: models.MarketHours{
			Is24h:      false,
			ActiveDays: []int{1, 2, 3, 4, 5},
		},
	}
}

func stockProfile(symbol string, vol models.VolatilityProfile) models.AssetProfile {
	return models.AssetProfile{
		Symbol:            symbol,
		AssetType:         models.AssetStocks,
		VolatilityProfile: vol,
		TypicalRRRange:    models.RRRange{Min: 1.5, Max: 3.5, Optimal: 2.5},
		MarketHours: models.MarketHours{
			Is24h:       false,
			ActiveHours: []int{14, 15, 16, 17, 18, 19, 20},
			ActiveDays:  []int{1, 2, 3, 4, 5},
		},
	}
}

func defaultProfiles() []models.AssetProfile {
	return []models.AssetProfile{
		cryptoProfile("BTC", models.ProfileHigh),
		cryptoProfile("BTCUSDT", models.ProfileHigh),
		cryptoProfile("ETH", models.ProfileHigh),
		cryptoProfile("ETHUSDT", models.ProfileHigh),
		cryptoProfile("SOL", models.ProfileExtreme),
		cryptoProfile("DOGE", models.ProfileExtreme),
		forexProfile("EUR/USD", models.ProfileLow),
		forexProfile("GBP/USD", models.ProfileMedium),
		forexProfile("USD/JPY", models.ProfileLow),
		forexProfile("FOREX", models.ProfileLow),
		stockProfile("SPY", models.ProfileLow),
		stockProfile("AAPL", models.ProfileMedium),
		stockProfile("TSLA", models.ProfileHigh),
		stockProfile("STOCKS", models.ProfileMedium),
	}
}
