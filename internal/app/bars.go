package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"vwap-alert-bot/internal/indicator"
	"vwap-alert-bot/internal/market"
	"vwap-alert-bot/internal/report"

	"go.uber.org/zap"
)

// DumpBars prints every bar of one window with its running VWAP and RSI.
func (a *App) DumpBars(ctx context.Context, symbol, windowName string) error {
	window, err := a.window(windowName)
	if err != nil {
		return err
	}
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return errors.New("symbol is required")
	}
	if err := a.connect(ctx); err != nil {
		return err
	}
	defer a.closeFeed()

	series, err := a.fetch(ctx, symbol, window)
	if err != nil {
		return fmt.Errorf("fetch %s %s: %w", symbol, window.Name, err)
	}
	if series.Len() == 0 {
		return report.WriteSkip(a.out, symbol, window.Name)
	}
	closes := market.Closes(series.Bars)
	rsi := make([]indicator.Series, 0, len(a.cfg.Indicators.RSIPeriods))
	for _, period := range a.cfg.Indicators.RSIPeriods {
		values, err := indicator.RSI(closes, period)
		if err != nil {
			return err
		}
		rsi = append(rsi, values)
	}
	vwap := indicator.VWAP(series.Bars)
	rows := make([]report.BarRow, len(series.Bars))
	for i, b := range series.Bars {
		rows[i] = report.BarRow{Bar: b, VWAP: vwap[i], RSI: make([]float64, len(rsi))}
		for j, values := range rsi {
			rows[i].RSI[j] = values[i]
		}
	}
	a.log.Debug("bars fetched",
		zap.String("symbol", symbol),
		zap.String("window", window.Name),
		zap.Int("bars", series.Len()),
	)
	return report.WriteBars(a.out, series, a.cfg.Indicators.RSIPeriods, rows)
}
