package calculate

import "math"

// EfficiencyRatio calculates the Kaufman efficiency ratio over the last
// period bars as a percentage: net movement divided by path length.
func EfficiencyRatio(closes []float64, period int) float64 {
	if len(closes) < 2 {
		return 0
	}
	window := LastN(closes, period)
	if len(window) < 2 {
		return 0
	}

	netMove := math.Abs(window[len(window)-1] - window[0])

	var pathLength float64
	for i := 1; i < len(window); i++ {
		pathLength += math.Abs(window[i] - window[i-1])
	}

	if pathLength == 0 {
		return 0
	}

	return netMove / pathLength * 100
}

// DirectionalConsistency calculates the percentage of bar-to-bar moves
// agreeing with the given direction sign (+1 up, -1 down).
func DirectionalConsistency(closes []float64, sign float64) float64 {
	if len(closes) < 2 || sign == 0 {
		return 0
	}

	var agreeing int
	for i := 1; i < len(closes); i++ {
		if (closes[i]-closes[i-1])*sign > 0 {
			agreeing++
		}
	}

	return float64(agreeing) / float64(len(closes)-1) * 100
}

// TrendAge counts consecutive bars moving with the direction sign,
// scanning backward from the end of the series.
func TrendAge(closes []float64, sign float64) int {
	if len(closes) < 2 || sign == 0 {
		return 0
	}

	age := 0
	for i := len(closes) - 1; i > 0; i-- {
		if (closes[i]-closes[i-1])*sign > 0 {
			age++
		} else {
			break
		}
	}

	return age
}
