package feed

import (
	"context"
	"errors"
	"fmt"

	"vwap-alert-bot/internal/config"
	"vwap-alert-bot/internal/market"

	"go.uber.org/zap"
)

var (
	ErrNotTradable       = errors.New("symbol is not tradable")
	ErrUnknownProvider   = errors.New("unknown feed provider")
	ErrUnsupportedBar    = errors.New("bar size not supported by provider")
	ErrMissingCredential = errors.New("feed credentials are required")
)

// Provider is a brokerage or market data source. Connect is called once before
// the first request and Close once at exit. FetchBars returns bars sorted
// ascending; an empty slice means no data.
type Provider interface {
	Name() string
	Connect(ctx context.Context) error
	Qualify(ctx context.Context, symbol string) error
	FetchBars(ctx context.Context, symbol string, window market.Window) ([]market.Bar, error)
	Close() error
}

func New(cfg config.FeedConfig, log *zap.Logger) (Provider, error) {
	switch cfg.Provider {
	case config.ProviderAlpaca:
		return NewAlpaca(cfg, log), nil
	case config.ProviderYahoo:
		return NewYahoo(cfg, log), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Provider)
	}
}
