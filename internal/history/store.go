package history

import (
	"fmt"

	"github.com/Alias1177/Calibrator/models"
)

// Store accumulates trade outcomes keyed by asset x timeframe. It grows
// monotonically and performs no eviction; long-running processes are
// expected to bound growth themselves. Not goroutine-safe; serialize
// access per instance like the detector.
type Store struct {
	performance map[string]*models.HistoricalPerformance
	persist     OutcomeSink
}

// OutcomeSink receives every recorded outcome, for audit persistence.
// The in-memory aggregates stay the source of truth for calculation.
type OutcomeSink interface {
	SaveOutcome(asset string, timeframe models.Timeframe, outcome models.TradeOutcome) error
}

// NewStore creates an empty store. sink may be nil for purely in-memory
// operation.
func NewStore(sink OutcomeSink) *Store {
	return &Store{
		performance: make(map[string]*models.HistoricalPerformance),
		persist:     sink,
	}
}

func key(asset string, timeframe models.Timeframe) string {
	return fmt.Sprintf("%s|%s", asset, timeframe)
}

// Get returns a copy of the aggregates for the key, zero-valued when the
// key has never recorded an outcome.
func (s *Store) Get(asset string, timeframe models.Timeframe) models.HistoricalPerformance {
	perf, ok := s.performance[key(asset, timeframe)]
	if !ok {
		return emptyPerformance()
	}

	out := *perf
	out.VolatilityBasedSuccess = copyVolMap(perf.VolatilityBasedSuccess)
	out.AssetTypeSuccess = copyAssetMap(perf.AssetTypeSuccess)
	return out
}

// RecordOutcome folds one closed trade into the aggregates for the key
// and forwards it to the persistence sink when one is configured.
func (s *Store) RecordOutcome(asset string, timeframe models.Timeframe, outcome models.TradeOutcome) error {
	return s.record(asset, timeframe, outcome, true)
}

// Replay folds already-persisted outcomes back into the aggregates
// without forwarding them to the sink, for rebuilding state at startup.
func (s *Store) Replay(asset string, timeframe models.Timeframe, outcomes []models.TradeOutcome) error {
	for _, outcome := range outcomes {
		if err := s.record(asset, timeframe, outcome, false); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) record(asset string, timeframe models.Timeframe, outcome models.TradeOutcome, persist bool) error {
	if outcome.Hour < 0 || outcome.Hour > 23 {
		return fmt.Errorf("outcome hour %d out of range", outcome.Hour)
	}
	if outcome.Day < 0 || outcome.Day > 6 {
		return fmt.Errorf("outcome day %d out of range", outcome.Day)
	}

	k := key(asset, timeframe)
	perf, ok := s.performance[k]
	if !ok {
		p := emptyPerformance()
		perf = &p
		s.performance[k] = perf
	}

	perf.TotalTrades++
	if outcome.Success {
		perf.SuccessfulTrades++
	}
	perf.SuccessRate = float64(perf.SuccessfulTrades) / float64(perf.TotalTrades)

	// Rolling mean keeps AverageRR exact without retaining every trade.
	perf.AverageRR += (outcome.RR - perf.AverageRR) / float64(perf.TotalTrades)

	if outcome.Volatility != "" {
		perf.VolatilityBasedSuccess[outcome.Volatility] = bump(perf.VolatilityBasedSuccess[outcome.Volatility], outcome.Success)
	}
	perf.HourlySuccess[outcome.Hour] = bump(perf.HourlySuccess[outcome.Hour], outcome.Success)
	perf.DailySuccess[outcome.Day] = bump(perf.DailySuccess[outcome.Day], outcome.Success)
	if outcome.AssetType != "" {
		perf.AssetTypeSuccess[outcome.AssetType] = bump(perf.AssetTypeSuccess[outcome.AssetType], outcome.Success)
	}

	if persist && s.persist != nil {
		if err := s.persist.SaveOutcome(asset, timeframe, outcome); err != nil {
			return fmt.Errorf("persist outcome: %w", err)
		}
	}

	return nil
}

func bump(stats models.BucketStats, success bool) models.BucketStats {
	stats.Total++
	if success {
		stats.Successful++
	}
	stats.SuccessRate = float64(stats.Successful) / float64(stats.Total)
	return stats
}

// emptyPerformance builds a zero aggregate with the bucket maps bounded
// to the closed enum keys, so the maps cannot grow past four volatility
// regimes and three asset types.
func emptyPerformance() models.HistoricalPerformance {
	return models.HistoricalPerformance{
		VolatilityBasedSuccess: make(map[models.VolatilityRegime]models.BucketStats, 4),
		AssetTypeSuccess:       make(map[models.AssetType]models.BucketStats, 3),
	}
}

func copyVolMap(src map[models.VolatilityRegime]models.BucketStats) map[models.VolatilityRegime]models.BucketStats {
	out := make(map[models.VolatilityRegime]models.BucketStats, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}

func copyAssetMap(src map[models.AssetType]models.BucketStats) map[models.AssetType]models.BucketStats {
	out := make(map[models.AssetType]models.BucketStats, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
