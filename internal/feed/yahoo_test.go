package feed

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"vwap-alert-bot/internal/config"
	"vwap-alert-bot/internal/market"

	"go.uber.org/zap"
)

const yahooPayload = `{"chart":{"result":[{
	"meta":{"symbol":"AAPL","instrumentType":"EQUITY"},
	"timestamp":[1709649000,1709649300,1709649600],
	"indicators":{"quote":[{
		"open":[170.1,null,171.0],
		"high":[170.5,null,171.4],
		"low":[169.9,null,170.8],
		"close":[170.2,null,171.2],
		"volume":[1000,null,2000]
	}]}
}],"error":null}}`

func newTestYahoo(t *testing.T, handler http.HandlerFunc) (*Yahoo, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	y := NewYahoo(config.FeedConfig{BaseURL: server.URL, Timeout: time.Second}, zap.NewNop())
	return y, server
}

func TestYahooFetchBars(t *testing.T) {
	var gotPath string
	var gotQuery url.Values
	y, _ := newTestYahoo(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(yahooPayload))
	})
	now := time.Unix(1709667000, 0)
	y.now = func() time.Time { return now }

	window := market.Window{Name: "session", BarSize: 5 * time.Minute, Lookback: 96 * time.Hour, RegularHours: true}
	bars, err := y.FetchBars(context.Background(), "AAPL", window)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/v8/finance/chart/AAPL" {
		t.Fatalf("expected chart path, got %s", gotPath)
	}
	if gotQuery.Get("interval") != "5m" {
		t.Fatalf("expected interval 5m, got %q", gotQuery.Get("interval"))
	}
	if gotQuery.Get("includePrePost") != "false" {
		t.Fatalf("expected includePrePost=false, got %q", gotQuery.Get("includePrePost"))
	}
	if gotQuery.Get("period2") != "1709667000" {
		t.Fatalf("expected period2 1709667000, got %q", gotQuery.Get("period2"))
	}
	if len(bars) != 2 {
		t.Fatalf("expected null bar dropped, got %d bars", len(bars))
	}
	if bars[1].Close != 171.2 || bars[1].Volume != 2000 {
		t.Fatalf("unexpected last bar %+v", bars[1])
	}
	if !bars[0].Time.Equal(time.Unix(1709649000, 0)) {
		t.Fatalf("unexpected first bar time %v", bars[0].Time)
	}
}

func TestYahooFetchBarsUnsupportedInterval(t *testing.T) {
	y, _ := newTestYahoo(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request")
	})
	window := market.Window{BarSize: 3 * time.Minute, Lookback: time.Hour}
	if _, err := y.FetchBars(context.Background(), "AAPL", window); !errors.Is(err, ErrUnsupportedBar) {
		t.Fatalf("expected ErrUnsupportedBar, got %v", err)
	}
}

func TestYahooChartError(t *testing.T) {
	y, _ := newTestYahoo(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`))
	})
	window := market.Window{Name: "monthly", BarSize: 24 * time.Hour, Lookback: 720 * time.Hour}
	_, err := y.FetchBars(context.Background(), "ZZZZ", window)
	if err == nil || !strings.Contains(err.Error(), "delisted") {
		t.Fatalf("expected chart error, got %v", err)
	}
}

func TestYahooQualify(t *testing.T) {
	y, _ := newTestYahoo(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("range") != "1d" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if strings.HasSuffix(r.URL.Path, "/AAPL") {
			_, _ = w.Write([]byte(yahooPayload))
			return
		}
		_, _ = w.Write([]byte(`{"chart":{"result":[],"error":null}}`))
	})
	if err := y.Qualify(context.Background(), "AAPL"); err != nil {
		t.Fatalf("expected AAPL qualified, got %v", err)
	}
	if err := y.Qualify(context.Background(), "NOPE"); !errors.Is(err, ErrNotTradable) {
		t.Fatalf("expected ErrNotTradable, got %v", err)
	}
}
