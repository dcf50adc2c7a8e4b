package alerts

import (
	"fmt"
	"strings"

	"vwap-alert-bot/internal/report"
	"vwap-alert-bot/internal/strategy"
)

// BuyMessage renders a short plain-text alert.
func BuyMessage(snap strategy.Snapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "BUY %s\n", snap.Symbol)
	fmt.Fprintf(&b, "Price %s above session VWAP %s\n", dollars(snap.Price), dollars(snap.SessionVWAP))
	fmt.Fprintf(&b, "Monthly VWAP %s", dollars(snap.MonthlyVWAP))
	for _, r := range snap.RSI {
		fmt.Fprintf(&b, "\nRSI(%d) %s", r.Period, report.Value(r.Value))
	}
	return b.String()
}

func dollars(v float64) string {
	s := report.Value(v)
	if s == report.Undefined {
		return s
	}
	return "$" + s
}
