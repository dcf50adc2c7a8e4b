package strategy

// Evaluate compares the current price with the session VWAP. Only a strictly
// higher price is a buy; NaN on either side never is.
func Evaluate(price, sessionVWAP float64) Signal {
	if price > sessionVWAP {
		return SignalBuy
	}
	return SignalNone
}

func (s Signal) Buy() bool {
	return s == SignalBuy
}
