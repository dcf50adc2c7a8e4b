package report

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"vwap-alert-bot/internal/market"
)

// BarRow is one line of the per-bar diagnostic table. RSI holds one value per
// configured period, in the same order.
type BarRow struct {
	Bar  market.Bar
	VWAP float64
	RSI  []float64
}

// WriteBars prints one row per bar with its running VWAP and RSI values under a
// header naming the symbol and window. Times are shown in New York.
func WriteBars(w io.Writer, series market.Series, periods []int, rows []BarRow) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "%s %s (%s)\ttime\topen\thigh\tlow\tclose\tvolume\tvwap", series.Symbol, series.Window.Name, series.Window.Label())
	for _, p := range periods {
		fmt.Fprintf(tw, "\trsi%d", p)
	}
	fmt.Fprintln(tw, "\t")
	for i, row := range rows {
		b := row.Bar
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%.0f\t%s",
			i,
			b.Time.In(market.NewYork).Format(time.DateTime),
			Value(b.Open), Value(b.High), Value(b.Low), Value(b.Close),
			b.Volume,
			Value(row.VWAP),
		)
		for _, v := range row.RSI {
			fmt.Fprintf(tw, "\t%s", Value(v))
		}
		fmt.Fprintln(tw, "\t")
	}
	return tw.Flush()
}
