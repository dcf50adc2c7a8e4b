package report

import (
	"bytes"
	"math"
	"strings"
	"testing"
	"time"

	"vwap-alert-bot/internal/indicator"
	"vwap-alert-bot/internal/market"
	"vwap-alert-bot/internal/strategy"
)

var (
	sessionWindow = market.Window{Name: "session", BarSize: 5 * time.Minute, Lookback: 96 * time.Hour, Sessions: 1}
	monthlyWindow = market.Window{Name: "monthly", BarSize: 24 * time.Hour, Lookback: 30 * 24 * time.Hour}
)

func TestResultBuyBlock(t *testing.T) {
	snap := strategy.Snapshot{
		Symbol:      "AAPL",
		Price:       171.2,
		SessionVWAP: 170.234,
		MonthlyVWAP: 168,
		RSI: []strategy.RSIReading{
			{Period: 14, Value: 61.234},
			{Period: 7, Value: 55},
		},
		Signal: strategy.SignalBuy,
	}
	want := "" +
		"AAPL:\n" +
		"  - Session VWAP (5m bars): 170.23\n" +
		"  - Current price: 171.20\n" +
		"  - Monthly VWAP (last 30d): 168.00\n" +
		"  - RSI 14: 61.23\n" +
		"  - RSI 7: 55.00\n" +
		"*** BUY alert for AAPL ***\n" +
		strings.Repeat("-", 50) + "\n"
	if got := Result(snap, sessionWindow, monthlyWindow); got != want {
		t.Fatalf("expected\n%s\ngot\n%s", want, got)
	}
}

func TestResultNoAlertWithUndefinedRSI(t *testing.T) {
	snap := strategy.Snapshot{
		Symbol:      "NIO",
		Price:       5,
		SessionVWAP: 5,
		MonthlyVWAP: 5.5,
		RSI:         []strategy.RSIReading{{Period: 14, Value: math.NaN()}},
		Signal:      strategy.SignalNone,
	}
	got := Result(snap, sessionWindow, monthlyWindow)
	if !strings.Contains(got, "  - RSI 14: n/a\n") {
		t.Fatalf("expected n/a rsi, got %s", got)
	}
	if !strings.Contains(got, "No alert for NIO\n") {
		t.Fatalf("expected no-alert line, got %s", got)
	}
	if strings.Contains(got, "BUY") {
		t.Fatalf("expected no BUY line, got %s", got)
	}
}

func TestWriteSkip(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSkip(&buf, "COIN", "session"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.String() != "No data for COIN (session)\n" {
		t.Fatalf("unexpected skip line %q", buf.String())
	}
}

func TestValue(t *testing.T) {
	if Value(math.NaN()) != "n/a" {
		t.Fatalf("expected n/a for NaN")
	}
	if Value(1.005e3) != "1005.00" {
		t.Fatalf("expected 1005.00, got %s", Value(1.005e3))
	}
}

func TestWriteBars(t *testing.T) {
	t0 := time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC)
	bars := []market.Bar{
		{Time: t0, Open: 10, High: 10, Low: 10, Close: 10, Volume: 100},
		{Time: t0.Add(5 * time.Minute), Open: 11, High: 11, Low: 11, Close: 11, Volume: 100},
	}
	vwap := indicator.VWAP(bars)
	rsi, _ := indicator.RSI(market.Closes(bars), 1)
	rows := make([]BarRow, len(bars))
	for i, b := range bars {
		rows[i] = BarRow{Bar: b, VWAP: vwap[i], RSI: []float64{rsi[i]}}
	}
	series := market.Series{Symbol: "AAPL", Window: sessionWindow, Bars: bars}
	var buf bytes.Buffer
	if err := WriteBars(&buf, series, []int{1}, rows); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header and 2 rows, got %d: %q", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], "AAPL session (5m bars)") || !strings.Contains(lines[0], "rsi1") {
		t.Fatalf("expected symbol, window and rsi1 in header, got %q", lines[0])
	}
	if !strings.Contains(lines[1], "2024-03-05 09:30:00") || !strings.Contains(lines[1], "n/a") {
		t.Fatalf("expected NY time and undefined rsi on first row, got %q", lines[1])
	}
	if !strings.Contains(lines[2], "10.50") || !strings.Contains(lines[2], "100.00") {
		t.Fatalf("expected vwap 10.50 and rsi 100.00 on second row, got %q", lines[2])
	}
}
