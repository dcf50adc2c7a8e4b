package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Watch keeps one feed connection open and scans on the configured cron
// schedule until ctx is done. A run still in progress when the next one is due
// causes that tick to be skipped.
func (a *App) Watch(ctx context.Context, runNow bool) error {
	loc, err := time.LoadLocation(a.cfg.Schedule.Timezone)
	if err != nil {
		return fmt.Errorf("schedule timezone: %w", err)
	}
	if err := a.connect(ctx); err != nil {
		return err
	}
	defer a.closeFeed()

	logger := cronLogger{log: a.log.Sugar()}
	c := cron.New(
		cron.WithLocation(loc),
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)
	id, err := c.AddFunc(a.cfg.Schedule.Cron, func() { a.scheduledScan(ctx) })
	if err != nil {
		return fmt.Errorf("register scan: %w", err)
	}

	srv, err := a.startMetricsServer()
	if err != nil {
		return err
	}
	c.Start()
	a.log.Info("watch started", zap.String("cron", a.cfg.Schedule.Cron), zap.String("timezone", loc.String()))

	// The immediate run goes through the wrapped job so it shares the
	// skip-if-running guard with scheduled ticks.
	var wg sync.WaitGroup
	if runNow {
		job := c.Entry(id).WrappedJob
		wg.Add(1)
		go func() {
			defer wg.Done()
			job.Run()
		}()
	}

	<-ctx.Done()
	<-c.Stop().Done()
	wg.Wait()
	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			a.log.Warn("metrics server shutdown failed", zap.Error(err))
		}
	}
	a.log.Info("watch stopped")
	return ctx.Err()
}

func (a *App) scheduledScan(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if _, err := a.scanAndExport(ctx); err != nil && !errors.Is(err, context.Canceled) {
		a.log.Error("scan failed", zap.Error(err))
	}
}

func (a *App) startMetricsServer() (*http.Server, error) {
	if a.prom == nil || a.cfg.Metrics.Address == "" {
		return nil, nil
	}
	ln, err := net.Listen("tcp", a.cfg.Metrics.Address)
	if err != nil {
		return nil, fmt.Errorf("metrics listen: %w", err)
	}
	mux := http.NewServeMux()
	mux.Handle(a.cfg.Metrics.Path, a.prom.Handler())
	srv := &http.Server{
		Addr:              ln.Addr().String(),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Error("metrics server failed", zap.Error(err))
		}
	}()
	a.log.Info("metrics server listening", zap.String("address", srv.Addr), zap.String("path", a.cfg.Metrics.Path))
	return srv, nil
}

// cronLogger routes cron's own logging through zap.
type cronLogger struct {
	log *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debugw("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Errorw("cron: "+msg, append(keysAndValues, "error", err)...)
}
