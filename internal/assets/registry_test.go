package assets

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Alias1177/Calibrator/models"
)

func TestGetSeededProfiles(t *testing.T) {
	r := NewRegistry()

	btc := r.Get("BTC")
	assert.Equal(t, models.AssetCrypto, btc.AssetType)
	assert.Equal(t, models.ProfileHigh, btc.VolatilityProfile)
	assert.True(t, btc.MarketHours.Is24h)

	eurusd := r.Get("EUR/USD")
	assert.Equal(t, models.AssetForex, eurusd.AssetType)
	assert.Equal(t, models.ProfileLow, eurusd.VolatilityProfile)
	assert.InDelta(t, 2.0, eurusd.TypicalRRRange.Optimal, 1e-9)

	spy := r.Get("SPY")
	assert.Equal(t, models.AssetStocks, spy.AssetType)
	assert.False(t, spy.MarketHours.Is24h)
}

func TestGetNormalizesSymbol(t *testing.T) {
	r := NewRegistry()

	assert.Equal(t, r.Get("BTC"), r.Get("  btc "))
	assert.Equal(t, r.Get("EUR/USD"), r.Get("eur/usd"))
}

func TestGetUnknownSymbolFallback(t *testing.T) {
	r := NewRegistry()

	// Pair-shaped symbols read as forex.
	pair := r.Get("AUD/NZD")
	assert.Equal(t, "AUD/NZD", pair.Symbol)
	assert.Equal(t, models.AssetForex, pair.AssetType)
	assert.Equal(t, models.ProfileLow, pair.VolatilityProfile)

	// Anything else defaults to high-volatility crypto.
	unknown := r.Get("SHIB")
	assert.Equal(t, "SHIB", unknown.Symbol)
	assert.Equal(t, models.AssetCrypto, unknown.AssetType)
	assert.Equal(t, models.ProfileHigh, unknown.VolatilityProfile)
}

func TestUpsertOverridesAndAdds(t *testing.T) {
	r := NewRegistry()

	r.Upsert(models.AssetProfile{
		Symbol:            "btc",
		AssetType:         models.AssetCrypto,
		VolatilityProfile: models.ProfileExtreme,
		TypicalRRRange:    models.RRRange{Min: 2.0, Max: 5.0, Optimal: 3.0},
		MarketHours:       models.MarketHours{Is24h: true},
	})

	btc := r.Get("BTC")
	assert.Equal(t, models.ProfileExtreme, btc.VolatilityProfile)
	assert.InDelta(t, 3.0, btc.TypicalRRRange.Optimal, 1e-9)

	r.Upsert(models.AssetProfile{
		Symbol:            "XAU/USD",
		AssetType:         models.AssetForex,
		VolatilityProfile: models.ProfileMedium,
		TypicalRRRange:    models.RRRange{Min: 1.5, Max: 3.0, Optimal: 2.0},
	})
	assert.Equal(t, models.ProfileMedium, r.Get("XAU/USD").VolatilityProfile)
}

func TestSymbolsListsRegistered(t *testing.T) {
	r := NewRegistry()

	symbols := r.Symbols()
	assert.Contains(t, symbols, "BTC")
	assert.Contains(t, symbols, "EUR/USD")
	assert.Contains(t, symbols, "STOCKS")
}
