package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	"vwap-alert-bot/internal/alerts"
	"vwap-alert-bot/internal/config"
	"vwap-alert-bot/internal/feed"
	"vwap-alert-bot/internal/indicator"
	"vwap-alert-bot/internal/market"
	"vwap-alert-bot/internal/metrics"
	"vwap-alert-bot/internal/report"
	"vwap-alert-bot/internal/strategy"

	"go.uber.org/zap"
)

const (
	sessionWindow = "session"
	monthlyWindow = "monthly"
	contractLabel = "contract"
)

type notifier interface {
	NotifyBuy(ctx context.Context, snap strategy.Snapshot) error
}

type App struct {
	cfg     *config.Config
	log     *zap.Logger
	feed    feed.Provider
	out     io.Writer
	metrics *metrics.Metrics
	prom    *metrics.Prometheus
	alerts  notifier
	session market.Window
	monthly market.Window
}

// Summary counts the outcome of one pass over the ticker list.
type Summary struct {
	Scanned   int
	Skipped   int
	Buys      int
	Snapshots []strategy.Snapshot
}

func New(cfg *config.Config, log *zap.Logger, out io.Writer) (*App, error) {
	provider, err := feed.New(cfg.Feed, log)
	if err != nil {
		return nil, err
	}
	telegram := alerts.NewTelegram(cfg.Telegram, log)
	a := &App{
		cfg:     cfg,
		log:     log,
		feed:    provider,
		out:     out,
		metrics: metrics.NewNoop(),
		alerts:  telegram,
		session: windowFrom(sessionWindow, cfg.Windows.Session),
		monthly: windowFrom(monthlyWindow, cfg.Windows.Monthly),
	}
	if cfg.Metrics.EnabledValue() {
		a.prom = metrics.NewPrometheus()
		a.metrics = a.prom.Metrics
	}
	log.Info("app initialized",
		zap.String("provider", provider.Name()),
		zap.Bool("metrics", a.prom != nil),
		zap.Bool("telegram", telegram.Enabled()),
	)
	return a, nil
}

func windowFrom(name string, w config.WindowConfig) market.Window {
	return market.Window{
		Name:         name,
		BarSize:      w.BarSize,
		Lookback:     w.Lookback,
		Sessions:     w.Sessions,
		RegularHours: w.RegularHoursValue(),
	}
}

// Run connects to the feed, scans every ticker once and releases the
// connection.
func (a *App) Run(ctx context.Context) error {
	if err := a.connect(ctx); err != nil {
		return err
	}
	defer a.closeFeed()
	_, err := a.scanAndExport(ctx)
	return err
}

func (a *App) connect(ctx context.Context) error {
	if err := a.feed.Connect(ctx); err != nil {
		return fmt.Errorf("connect %s: %w", a.feed.Name(), err)
	}
	a.log.Info("feed connected", zap.String("provider", a.feed.Name()), zap.Int("tickers", len(a.cfg.Tickers)))
	return nil
}

func (a *App) closeFeed() {
	if err := a.feed.Close(); err != nil {
		a.log.Warn("feed close failed", zap.Error(err))
	}
}

func (a *App) scanAndExport(ctx context.Context) (Summary, error) {
	summary, err := a.Scan(ctx)
	if a.prom != nil && a.cfg.Metrics.TextfilePath != "" {
		if werr := a.prom.WriteTextfile(a.cfg.Metrics.TextfilePath); werr != nil {
			a.log.Warn("metrics textfile write failed", zap.Error(werr))
		}
	}
	return summary, err
}

// Scan evaluates the configured tickers one at a time. Tickers with missing
// data get a skip notice; only a canceled context or a broken output aborts
// the pass.
func (a *App) Scan(ctx context.Context) (Summary, error) {
	var summary Summary
	for _, symbol := range a.cfg.Tickers {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		snap, ok, err := a.scanTicker(ctx, symbol)
		if err != nil {
			return summary, err
		}
		if !ok {
			summary.Skipped++
			a.metrics.TickersSkipped.Inc()
			continue
		}
		summary.Scanned++
		summary.Snapshots = append(summary.Snapshots, snap)
		a.metrics.TickersScanned.Inc()
		if snap.Signal.Buy() {
			summary.Buys++
		}
	}
	a.metrics.ScansCompleted.Inc()
	a.log.Info("scan complete",
		zap.Int("scanned", summary.Scanned),
		zap.Int("skipped", summary.Skipped),
		zap.Int("buys", summary.Buys),
	)
	return summary, nil
}

func (a *App) scanTicker(ctx context.Context, symbol string) (strategy.Snapshot, bool, error) {
	snap := strategy.Snapshot{Symbol: symbol}
	if err := a.feed.Qualify(ctx, symbol); err != nil {
		if ctx.Err() != nil {
			return snap, false, ctx.Err()
		}
		a.log.Warn("symbol not qualified", zap.String("symbol", symbol), zap.Error(err))
		return snap, false, report.WriteSkip(a.out, symbol, contractLabel)
	}

	session, err := a.fetch(ctx, symbol, a.session)
	if err != nil || session.Len() == 0 {
		return snap, false, a.skip(ctx, symbol, a.session, err)
	}
	sessionVWAP := indicator.VWAP(session.Bars)
	closes := market.Closes(session.Bars)
	for _, period := range a.cfg.Indicators.RSIPeriods {
		rsi, err := indicator.RSI(closes, period)
		if err != nil {
			return snap, false, err
		}
		value, _ := rsi.Last()
		snap.RSI = append(snap.RSI, strategy.RSIReading{Period: period, Value: value})
	}

	monthly, err := a.fetch(ctx, symbol, a.monthly)
	if err != nil || monthly.Len() == 0 {
		return snap, false, a.skip(ctx, symbol, a.monthly, err)
	}
	monthlyVWAP := indicator.VWAP(monthly.Bars)

	last, _ := session.Last()
	snap.Price = last.Close
	snap.SessionVWAP, _ = sessionVWAP.Last()
	snap.MonthlyVWAP, _ = monthlyVWAP.Last()
	snap.Signal = strategy.Evaluate(snap.Price, snap.SessionVWAP)

	if err := report.WriteResult(a.out, snap, a.session, a.monthly); err != nil {
		return snap, false, fmt.Errorf("write report: %w", err)
	}
	if snap.Signal.Buy() {
		a.metrics.BuySignals.Inc()
		a.log.Info("buy signal",
			zap.String("symbol", symbol),
			zap.Float64("price", snap.Price),
			zap.Float64("session_vwap", snap.SessionVWAP),
		)
		if err := a.alerts.NotifyBuy(ctx, snap); err != nil {
			a.metrics.AlertsFailed.Inc()
			a.log.Warn("buy alert failed", zap.String("symbol", symbol), zap.Error(err))
		}
	}
	return snap, true, nil
}

// fetch returns the bars of one window, narrowed to regular hours and the
// configured number of sessions.
func (a *App) fetch(ctx context.Context, symbol string, window market.Window) (market.Series, error) {
	series := market.Series{Symbol: symbol, Window: window}
	bars, err := a.feed.FetchBars(ctx, symbol, window)
	if err != nil {
		a.metrics.FetchFailures.Inc()
		return series, err
	}
	series.Bars = window.Apply(bars)
	return series, nil
}

func (a *App) skip(ctx context.Context, symbol string, window market.Window, cause error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	fields := []zap.Field{zap.String("symbol", symbol), zap.String("window", window.Name)}
	if cause != nil {
		fields = append(fields, zap.Error(cause))
	}
	a.log.Warn("no data", fields...)
	if err := report.WriteSkip(a.out, symbol, window.Name); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

var errUnknownWindow = errors.New("unknown window")

func (a *App) window(name string) (market.Window, error) {
	switch name {
	case sessionWindow:
		return a.session, nil
	case monthlyWindow:
		return a.monthly, nil
	default:
		return market.Window{}, fmt.Errorf("%w %q (want %s or %s)", errUnknownWindow, name, sessionWindow, monthlyWindow)
	}
}
