package regime

import (
	"github.com/Alias1177/Calibrator/models"
)

// appendSnapshot pushes a snapshot onto the bounded history ring.
func (d *Detector) appendSnapshot(ctx models.RegimeContext) {
	d.history = append(d.history, ctx)
	if len(d.history) > d.cfg.HistoryCapacity {
		d.history = d.history[len(d.history)-d.cfg.HistoryCapacity:]
	}
}

// computeStability scores how settled the regime has been: each distinct
// overall regime among the last 5 snapshots beyond the first costs 20
// points. Fewer than 3 snapshots reads as a neutral 50.
func (d *Detector) computeStability() float64 {
	if len(d.history) < 3 {
		return 50
	}

	window := d.history
	if len(window) > 5 {
		window = window[len(window)-5:]
	}

	distinct := map[models.OverallRegime]struct{}{}
	for _, snap := range window {
		distinct[snap.OverallRegime] = struct{}{}
	}

	stability := 100 - float64(len(distinct)-1)*20
	if stability < 20 {
		stability = 20
	}

	return stability
}

// summarizeHistory derives the regime-history block from the ring. The
// last entry is the current snapshot.
func (d *Detector) summarizeHistory() models.RegimeHistorySummary {
	if len(d.history) == 0 {
		return models.RegimeHistorySummary{}
	}

	current := d.history[len(d.history)-1].OverallRegime

	// Time in regime: walk backward until the regime differs.
	timeInRegime := 0
	for i := len(d.history) - 1; i >= 0; i-- {
		if d.history[i].OverallRegime != current {
			break
		}
		timeInRegime++
	}

	// Previous regime: the entry just before the current run started.
	previous := current
	if idx := len(d.history) - 1 - timeInRegime; idx >= 0 {
		previous = d.history[idx].OverallRegime
	}

	// Average regime duration via change-point scan over the whole ring.
	var durations []int
	run := 1
	for i := 1; i < len(d.history); i++ {
		if d.history[i].OverallRegime == d.history[i-1].OverallRegime {
			run++
			continue
		}
		durations = append(durations, run)
		run = 1
	}
	durations = append(durations, run)

	var total int
	for _, dur := range durations {
		total += dur
	}
	avgDuration := float64(total) / float64(len(durations))

	// Regime changes among the last 10 entries.
	recent := d.history
	if len(recent) > 10 {
		recent = recent[len(recent)-10:]
	}
	changes := 0
	for i := 1; i < len(recent); i++ {
		if recent[i].OverallRegime != recent[i-1].OverallRegime {
			changes++
		}
	}

	return models.RegimeHistorySummary{
		PreviousRegime:    previous,
		TimeInRegimeBars:  timeInRegime,
		AvgRegimeDuration: avgDuration,
		RecentChanges:     changes,
	}
}
