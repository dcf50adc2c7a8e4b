package feed

import (
	"context"
	"fmt"
	"time"

	"vwap-alert-bot/internal/config"
	"vwap-alert-bot/internal/market"
	"vwap-alert-bot/internal/rest"

	"github.com/alpacahq/alpaca-trade-api-go/v3/alpaca"
	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type alpacaTrading interface {
	GetAccount() (*alpaca.Account, error)
	GetAsset(symbol string) (*alpaca.Asset, error)
}

type alpacaBars interface {
	GetBars(symbol string, req marketdata.GetBarsRequest) ([]marketdata.Bar, error)
}

// Alpaca reads bars from the Alpaca market data API and checks symbols
// against the trading API's asset list.
type Alpaca struct {
	cfg     config.FeedConfig
	log     *zap.Logger
	limiter *rate.Limiter
	now     func() time.Time

	trading alpacaTrading
	data    alpacaBars
}

func NewAlpaca(cfg config.FeedConfig, log *zap.Logger) *Alpaca {
	if log == nil {
		log = zap.NewNop()
	}
	return &Alpaca{
		cfg:     cfg,
		log:     log,
		limiter: rest.PerMinute(cfg.RequestsPerMinute),
		now:     time.Now,
	}
}

func (a *Alpaca) Name() string { return config.ProviderAlpaca }

// Connect builds the API clients and verifies the credentials with an account
// lookup.
func (a *Alpaca) Connect(ctx context.Context) error {
	if a.trading == nil || a.data == nil {
		if a.cfg.APIKey == "" || a.cfg.APISecret == "" {
			return fmt.Errorf("alpaca: %w (ALPACA_API_KEY, ALPACA_API_SECRET)", ErrMissingCredential)
		}
		a.trading = alpaca.NewClient(alpaca.ClientOpts{
			APIKey:    a.cfg.APIKey,
			APISecret: a.cfg.APISecret,
			BaseURL:   a.cfg.BaseURL,
		})
		a.data = marketdata.NewClient(marketdata.ClientOpts{
			APIKey:    a.cfg.APIKey,
			APISecret: a.cfg.APISecret,
			BaseURL:   a.cfg.DataURL,
		})
	}
	if err := a.wait(ctx); err != nil {
		return err
	}
	account, err := a.trading.GetAccount()
	if err != nil {
		return fmt.Errorf("alpaca account: %w", err)
	}
	a.log.Info("alpaca connected",
		zap.String("account", account.AccountNumber),
		zap.String("status", string(account.Status)),
		zap.String("base_url", a.cfg.BaseURL),
	)
	return nil
}

func (a *Alpaca) Qualify(ctx context.Context, symbol string) error {
	if err := a.wait(ctx); err != nil {
		return err
	}
	asset, err := a.trading.GetAsset(symbol)
	if err != nil {
		return fmt.Errorf("alpaca asset %s: %w", symbol, err)
	}
	if !asset.Tradable {
		return fmt.Errorf("%s: %w", symbol, ErrNotTradable)
	}
	return nil
}

func (a *Alpaca) FetchBars(ctx context.Context, symbol string, window market.Window) ([]market.Bar, error) {
	tf, err := alpacaTimeFrame(window.BarSize)
	if err != nil {
		return nil, err
	}
	if err := a.wait(ctx); err != nil {
		return nil, err
	}
	now := a.now()
	raw, err := a.data.GetBars(symbol, marketdata.GetBarsRequest{
		TimeFrame: tf,
		Start:     window.Start(now),
		End:       now,
		Feed:      marketdata.Feed(a.cfg.DataFeed),
	})
	if err != nil {
		return nil, fmt.Errorf("alpaca bars %s %s: %w", symbol, window.Name, err)
	}
	bars := make([]market.Bar, 0, len(raw))
	for _, b := range raw {
		bars = append(bars, market.Bar{
			Time:   b.Timestamp,
			Open:   b.Open,
			High:   b.High,
			Low:    b.Low,
			Close:  b.Close,
			Volume: float64(b.Volume),
		})
	}
	return market.SortBars(bars), nil
}

func (a *Alpaca) Close() error {
	a.trading = nil
	a.data = nil
	return nil
}

func (a *Alpaca) wait(ctx context.Context) error {
	if a.limiter == nil {
		return ctx.Err()
	}
	return a.limiter.Wait(ctx)
}

func alpacaTimeFrame(d time.Duration) (marketdata.TimeFrame, error) {
	const day = 24 * time.Hour
	switch {
	case d <= 0:
	case d%day == 0:
		return marketdata.NewTimeFrame(int(d/day), marketdata.Day), nil
	case d%time.Hour == 0:
		return marketdata.NewTimeFrame(int(d/time.Hour), marketdata.Hour), nil
	case d%time.Minute == 0:
		return marketdata.NewTimeFrame(int(d/time.Minute), marketdata.Min), nil
	}
	return marketdata.TimeFrame{}, fmt.Errorf("alpaca %s: %w", d, ErrUnsupportedBar)
}
