package market

import (
	"sort"
	"time"
)

// Bar is one OHLCV sample as delivered by the data feed.
type Bar struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Series is the ordered bar set returned for one symbol and one window.
type Series struct {
	Symbol string
	Window Window
	Bars   []Bar
}

func (s Series) Len() int {
	return len(s.Bars)
}

// Last returns the most recent bar.
func (s Series) Last() (Bar, bool) {
	if len(s.Bars) == 0 {
		return Bar{}, false
	}
	return s.Bars[len(s.Bars)-1], true
}

func Closes(bars []Bar) []float64 {
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	return closes
}

// SortBars returns a copy of bars in chronological order.
func SortBars(bars []Bar) []Bar {
	out := append([]Bar(nil), bars...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Time.Before(out[j].Time) })
	return out
}
