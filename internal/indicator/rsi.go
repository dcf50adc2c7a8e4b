package indicator

import "fmt"

// RSI computes the relative strength index with Wilder smoothing: the first
// average gain/loss is the simple mean of the first period changes, then
// avg = (prev*(period-1) + current) / period. Indices below period are NaN.
// A zero average loss saturates the value at 100.
func RSI(closes []float64, period int) (Series, error) {
	if period < 1 {
		return nil, fmt.Errorf("rsi(%d): %w", period, ErrInvalidPeriod)
	}
	out := undefined(len(closes))
	if len(closes) <= period {
		return out, nil
	}

	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		gain, loss := split(closes[i] - closes[i-1])
		avgGain += gain
		avgLoss += loss
	}
	p := float64(period)
	avgGain /= p
	avgLoss /= p
	out[period] = relativeStrength(avgGain, avgLoss)

	for i := period + 1; i < len(closes); i++ {
		gain, loss := split(closes[i] - closes[i-1])
		avgGain = (avgGain*(p-1) + gain) / p
		avgLoss = (avgLoss*(p-1) + loss) / p
		out[i] = relativeStrength(avgGain, avgLoss)
	}
	return out, nil
}

func split(delta float64) (gain, loss float64) {
	if delta > 0 {
		return delta, 0
	}
	return 0, -delta
}

func relativeStrength(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}
