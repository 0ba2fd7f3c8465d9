package calculate

import "math"

// Returns calculates the period-over-period percentage change series.
// The result has len(prices)-1 entries; a zero previous price yields 0.
func Returns(prices []float64) []float64 {
	if len(prices) < 2 {
		return nil
	}

	returns := make([]float64, 0, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		if prices[i-1] == 0 {
			returns = append(returns, 0)
			continue
		}
		returns = append(returns, (prices[i]-prices[i-1])/prices[i-1]*100)
	}

	return returns
}

// SMA calculates the simple moving average of the last period values.
func SMA(values []float64, period int) float64 {
	if len(values) == 0 || period <= 0 {
		return 0
	}
	if period > len(values) {
		period = len(values)
	}

	var sum float64
	for i := len(values) - period; i < len(values); i++ {
		sum += values[i]
	}

	return sum / float64(period)
}

// StdDev calculates the population standard deviation of values.
func StdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}

	mean := SMA(values, len(values))

	var variance float64
	for _, v := range values {
		variance += math.Pow(v-mean, 2)
	}

	return math.Sqrt(variance / float64(len(values)))
}

// EMAFromPrices calculates an exponential moving average seeded with the
// SMA of the first period values.
func EMAFromPrices(prices []float64, period int) float64 {
	if len(prices) == 0 || period <= 0 {
		return 0
	}
	if len(prices) < period {
		return SMA(prices, len(prices))
	}

	ema := SMA(prices[:period], period)
	multiplier := 2.0 / (float64(period) + 1.0)

	for i := period; i < len(prices); i++ {
		ema = (prices[i]-ema)*multiplier + ema
	}

	return ema
}

// Clamp bounds value to [min, max].
func Clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// LastN returns the trailing n values (the whole slice when shorter).
func LastN(values []float64, n int) []float64 {
	if n >= len(values) {
		return values
	}
	return values[len(values)-n:]
}
