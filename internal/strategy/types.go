package strategy

type Signal string

const (
	SignalBuy  Signal = "BUY"
	SignalNone Signal = "NONE"
)

// RSIReading is one RSI period evaluated at the last intraday bar.
type RSIReading struct {
	Period int
	Value  float64
}

// Snapshot holds everything computed for one ticker in one scan. Price is the
// close of the last session bar; undefined values are NaN.
type Snapshot struct {
	Symbol      string
	Price       float64
	SessionVWAP float64
	MonthlyVWAP float64
	RSI         []RSIReading
	Signal      Signal
}
