package market

import (
	"fmt"
	"time"
	_ "time/tzdata"
)

// NewYork is the exchange calendar used for session boundaries.
var NewYork = mustLoadLocation("America/New_York")

const (
	regularOpen  = 9*time.Hour + 30*time.Minute
	regularClose = 16 * time.Hour
	day          = 24 * time.Hour
)

// Window describes one historical bar request.
type Window struct {
	Name         string
	BarSize      time.Duration
	Lookback     time.Duration
	Sessions     int
	RegularHours bool
}

// Start returns the beginning of the calendar span ending at now.
func (w Window) Start(now time.Time) time.Time {
	return now.Add(-w.Lookback)
}

// Intraday reports whether bars are finer than one day.
func (w Window) Intraday() bool {
	return w.BarSize < day
}

// Apply narrows a chronologically sorted bar set to the window. Regular-hours
// filtering only applies to intraday bars. The input is not modified.
func (w Window) Apply(bars []Bar) []Bar {
	out := bars
	if w.RegularHours && w.Intraday() {
		out = RegularHours(out)
	}
	if w.Sessions > 0 {
		out = LastSessions(out, w.Sessions)
	}
	return append([]Bar(nil), out...)
}

// Label renders the window for report lines, e.g. "5m bars" or "last 30d".
func (w Window) Label() string {
	if w.Sessions > 0 {
		return ShortDuration(w.BarSize) + " bars"
	}
	return "last " + ShortDuration(w.Lookback)
}

// SessionDate is the New York trading date a bar belongs to.
func SessionDate(t time.Time) string {
	return t.In(NewYork).Format("2006-01-02")
}

// RegularHours keeps bars starting within 09:30-16:00 New York time.
func RegularHours(bars []Bar) []Bar {
	out := make([]Bar, 0, len(bars))
	for _, b := range bars {
		local := b.Time.In(NewYork)
		y, m, d := local.Date()
		midnight := time.Date(y, m, d, 0, 0, 0, 0, NewYork)
		offset := local.Sub(midnight)
		if offset >= regularOpen && offset < regularClose {
			out = append(out, b)
		}
	}
	return out
}

// LastSessions keeps the bars of the last n distinct session dates.
func LastSessions(bars []Bar, n int) []Bar {
	if n <= 0 || len(bars) == 0 {
		return nil
	}
	seen := 0
	current := ""
	start := len(bars)
	for i := len(bars) - 1; i >= 0; i-- {
		date := SessionDate(bars[i].Time)
		if date != current {
			if seen == n {
				break
			}
			seen++
			current = date
		}
		start = i
	}
	return bars[start:]
}

// ShortDuration formats whole days, hours or minutes compactly.
func ShortDuration(d time.Duration) string {
	switch {
	case d >= day && d%day == 0:
		return fmt.Sprintf("%dd", d/day)
	case d >= time.Hour && d%time.Hour == 0:
		return fmt.Sprintf("%dh", d/time.Hour)
	case d%time.Minute == 0:
		return fmt.Sprintf("%dm", d/time.Minute)
	default:
		return d.String()
	}
}

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}
