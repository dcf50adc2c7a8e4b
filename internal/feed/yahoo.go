package feed

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"vwap-alert-bot/internal/config"
	"vwap-alert-bot/internal/market"
	"vwap-alert-bot/internal/rest"

	"go.uber.org/zap"
)

// Yahoo reads bars from the public Yahoo Finance chart endpoint. It needs no
// credentials and is meant as a fallback when no brokerage account is set up.
type Yahoo struct {
	client *rest.Client
	log    *zap.Logger
	now    func() time.Time
}

var yahooIntervals = map[time.Duration]string{
	time.Minute:        "1m",
	2 * time.Minute:    "2m",
	5 * time.Minute:    "5m",
	15 * time.Minute:   "15m",
	30 * time.Minute:   "30m",
	time.Hour:          "60m",
	90 * time.Minute:   "90m",
	24 * time.Hour:     "1d",
	5 * 24 * time.Hour: "5d",
	7 * 24 * time.Hour: "1wk",
}

type yahooChart struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol         string `json:"symbol"`
				InstrumentType string `json:"instrumentType"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func NewYahoo(cfg config.FeedConfig, log *zap.Logger) *Yahoo {
	if log == nil {
		log = zap.NewNop()
	}
	return &Yahoo{
		client: rest.New(cfg.BaseURL, cfg.Timeout, rest.PerMinute(cfg.RequestsPerMinute), log),
		log:    log,
		now:    time.Now,
	}
}

func (y *Yahoo) Name() string { return config.ProviderYahoo }

func (y *Yahoo) Connect(ctx context.Context) error {
	return ctx.Err()
}

// Qualify checks that the chart endpoint knows the symbol.
func (y *Yahoo) Qualify(ctx context.Context, symbol string) error {
	chart, err := y.chart(ctx, symbol, url.Values{
		"range":    {"1d"},
		"interval": {"1d"},
	})
	if err != nil {
		return err
	}
	if len(chart.Chart.Result) == 0 {
		return fmt.Errorf("%s: %w", symbol, ErrNotTradable)
	}
	meta := chart.Chart.Result[0].Meta
	y.log.Debug("yahoo symbol qualified",
		zap.String("symbol", meta.Symbol),
		zap.String("instrument_type", meta.InstrumentType),
	)
	return nil
}

func (y *Yahoo) FetchBars(ctx context.Context, symbol string, window market.Window) ([]market.Bar, error) {
	interval, ok := yahooIntervals[window.BarSize]
	if !ok {
		return nil, fmt.Errorf("yahoo %s: %w", window.BarSize, ErrUnsupportedBar)
	}
	now := y.now()
	chart, err := y.chart(ctx, symbol, url.Values{
		"period1":        {strconv.FormatInt(window.Start(now).Unix(), 10)},
		"period2":        {strconv.FormatInt(now.Unix(), 10)},
		"interval":       {interval},
		"includePrePost": {strconv.FormatBool(!window.RegularHours)},
	})
	if err != nil {
		return nil, fmt.Errorf("yahoo bars %s %s: %w", symbol, window.Name, err)
	}
	if len(chart.Chart.Result) == 0 {
		return nil, nil
	}
	result := chart.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, nil
	}
	quote := result.Indicators.Quote[0]
	bars := make([]market.Bar, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		c, ok := at(quote.Close, i)
		if !ok {
			// Yahoo pads halted or holiday slots with nulls.
			continue
		}
		o, _ := at(quote.Open, i)
		h, _ := at(quote.High, i)
		l, _ := at(quote.Low, i)
		v, _ := at(quote.Volume, i)
		bars = append(bars, market.Bar{
			Time:   time.Unix(ts, 0).UTC(),
			Open:   o,
			High:   h,
			Low:    l,
			Close:  c,
			Volume: v,
		})
	}
	return market.SortBars(bars), nil
}

func (y *Yahoo) Close() error {
	return nil
}

func (y *Yahoo) chart(ctx context.Context, symbol string, query url.Values) (yahooChart, error) {
	var chart yahooChart
	if err := y.client.GetJSON(ctx, "/v8/finance/chart/"+url.PathEscape(symbol), query, &chart); err != nil {
		return chart, err
	}
	if chart.Chart.Error != nil {
		return chart, fmt.Errorf("yahoo %s: %s: %s", symbol, chart.Chart.Error.Code, chart.Chart.Error.Description)
	}
	return chart, nil
}

func at(values []*float64, i int) (float64, bool) {
	if i >= len(values) || values[i] == nil {
		return 0, false
	}
	return *values[i], true
}
