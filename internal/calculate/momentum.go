package calculate

// RSI calculates the Wilder relative strength index over closes.
// Returns 50 when there is not enough data for one full period.
func RSI(closes []float64, period int) float64 {
	if len(closes) < period+1 {
		return 50.0
	}

	var gains, losses float64
	// Calculate initial averages
	for i := 1; i <= period; i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			gains += change
		} else {
			losses -= change
		}
	}

	avgGain := gains / float64(period)
	avgLoss := losses / float64(period)

	// Wilder smoothing for the rest of the series
	for i := period + 1; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			avgGain = (avgGain*float64(period-1) + change) / float64(period)
			avgLoss = (avgLoss * float64(period-1)) / float64(period)
		} else {
			avgGain = (avgGain * float64(period-1)) / float64(period)
			avgLoss = (avgLoss*float64(period-1) - change) / float64(period)
		}
	}

	if avgLoss == 0 {
		return 100.0
	}

	rs := avgGain / avgLoss
	return 100.0 - (100.0 / (1.0 + rs))
}

// MACD calculates the MACD line, signal line and histogram. The MACD line
// uses EMAs; the signal line is a simple moving average of the MACD
// history rather than an EMA, matching the engine's reference behavior.
func MACD(closes []float64, fastPeriod, slowPeriod, signalPeriod int) (float64, float64, float64) {
	if len(closes) < slowPeriod {
		return 0, 0, 0
	}

	history := MACDHistory(closes, fastPeriod, slowPeriod)
	if len(history) == 0 {
		return 0, 0, 0
	}

	macdLine := history[len(history)-1]
	signalLine := SMA(history, signalPeriod)
	histogram := macdLine - signalLine

	return macdLine, signalLine, histogram
}

// MACDHistory calculates the MACD line at each bar from slowPeriod onward.
func MACDHistory(closes []float64, fastPeriod, slowPeriod int) []float64 {
	if len(closes) < slowPeriod {
		return nil
	}

	history := make([]float64, 0, len(closes)-slowPeriod+1)
	for i := slowPeriod - 1; i < len(closes); i++ {
		window := closes[:i+1]
		history = append(history, EMAFromPrices(window, fastPeriod)-EMAFromPrices(window, slowPeriod))
	}

	return history
}

// ROC calculates the percentage rate of change over period bars.
func ROC(closes []float64, period int) float64 {
	if len(closes) < period+1 {
		return 0
	}

	previous := closes[len(closes)-1-period]
	if previous == 0 {
		return 0
	}

	return (closes[len(closes)-1] - previous) / previous * 100
}
