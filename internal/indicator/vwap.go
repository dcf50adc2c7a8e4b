package indicator

import "vwap-alert-bot/internal/market"

// VWAP returns the cumulative volume-weighted close price. Accumulation starts
// at bars[0] and never resets, so callers pass one session (or one window) per
// call. Zero cumulative volume is not guarded: 0/0 yields NaN.
func VWAP(bars []market.Bar) Series {
	out := make(Series, len(bars))
	var pv, vol float64
	for i, b := range bars {
		pv += b.Close * b.Volume
		vol += b.Volume
		out[i] = pv / vol
	}
	return out
}
