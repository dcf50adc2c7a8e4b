package indicator

import (
	"math"
	"time"

	"vwap-alert-bot/internal/market"
)

func closeEnough(a, b float64) bool {
	const eps = 1e-9
	return math.Abs(a-b) < eps
}

func barsFrom(closes, volumes []float64) []market.Bar {
	start := time.Date(2024, 3, 4, 14, 30, 0, 0, time.UTC)
	bars := make([]market.Bar, len(closes))
	for i := range closes {
		bars[i] = market.Bar{
			Time:   start.Add(time.Duration(i) * 5 * time.Minute),
			Open:   closes[i],
			High:   closes[i],
			Low:    closes[i],
			Close:  closes[i],
			Volume: volumes[i],
		}
	}
	return bars
}
