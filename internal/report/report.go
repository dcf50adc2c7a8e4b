// Package report renders scan results as plain text blocks on an io.Writer.
package report

import (
	"fmt"
	"io"
	"math"
	"strings"

	"vwap-alert-bot/internal/market"
	"vwap-alert-bot/internal/strategy"
)

const separatorWidth = 50

var Separator = strings.Repeat("-", separatorWidth)

// Undefined is printed in place of a value that is not available yet.
const Undefined = "n/a"

// Value formats an indicator or price with two decimals; NaN prints as n/a.
func Value(v float64) string {
	if math.IsNaN(v) {
		return Undefined
	}
	return fmt.Sprintf("%.2f", v)
}

// Result renders one ticker block.
func Result(snap strategy.Snapshot, session, monthly market.Window) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s:\n", snap.Symbol)
	fmt.Fprintf(&b, "  - Session VWAP (%s): %s\n", session.Label(), Value(snap.SessionVWAP))
	fmt.Fprintf(&b, "  - Current price: %s\n", Value(snap.Price))
	fmt.Fprintf(&b, "  - Monthly VWAP (%s): %s\n", monthly.Label(), Value(snap.MonthlyVWAP))
	for _, r := range snap.RSI {
		fmt.Fprintf(&b, "  - RSI %d: %s\n", r.Period, Value(r.Value))
	}
	if snap.Signal.Buy() {
		fmt.Fprintf(&b, "*** BUY alert for %s ***\n", snap.Symbol)
	} else {
		fmt.Fprintf(&b, "No alert for %s\n", snap.Symbol)
	}
	b.WriteString(Separator)
	b.WriteString("\n")
	return b.String()
}

func WriteResult(w io.Writer, snap strategy.Snapshot, session, monthly market.Window) error {
	_, err := io.WriteString(w, Result(snap, session, monthly))
	return err
}

// WriteSkip prints the notice for a ticker with no usable data in a window.
func WriteSkip(w io.Writer, symbol, window string) error {
	_, err := fmt.Fprintf(w, "No data for %s (%s)\n", symbol, window)
	return err
}
