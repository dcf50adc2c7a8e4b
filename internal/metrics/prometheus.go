package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const promNamespace = "vwap_alert_bot"

type promCounter struct {
	counter prometheus.Counter
}

func (p promCounter) Inc() {
	p.counter.Inc()
}

type Prometheus struct {
	Metrics *Metrics

	registry       *prometheus.Registry
	scansCompleted prometheus.Counter
	tickersScanned prometheus.Counter
	tickersSkipped prometheus.Counter
	fetchFailures  prometheus.Counter
	buySignals     prometheus.Counter
	alertsFailed   prometheus.Counter
}

func NewPrometheus() *Prometheus {
	registry := prometheus.NewRegistry()
	scansCompleted := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: promNamespace,
		Name:      "scans_completed_total",
		Help:      "Total number of completed ticker scans.",
	})
	tickersScanned := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: promNamespace,
		Name:      "tickers_scanned_total",
		Help:      "Total number of tickers evaluated.",
	})
	tickersSkipped := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: promNamespace,
		Name:      "tickers_skipped_total",
		Help:      "Total number of tickers skipped for missing data.",
	})
	fetchFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: promNamespace,
		Name:      "fetch_failures_total",
		Help:      "Total number of failed bar requests.",
	})
	buySignals := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: promNamespace,
		Name:      "buy_signals_total",
		Help:      "Total number of BUY signals emitted.",
	})
	alertsFailed := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: promNamespace,
		Name:      "alerts_failed_total",
		Help:      "Total number of alert notifications that failed to send.",
	})

	registry.MustRegister(scansCompleted, tickersScanned, tickersSkipped, fetchFailures, buySignals, alertsFailed)

	m := &Metrics{
		ScansCompleted: promCounter{scansCompleted},
		TickersScanned: promCounter{tickersScanned},
		TickersSkipped: promCounter{tickersSkipped},
		FetchFailures:  promCounter{fetchFailures},
		BuySignals:     promCounter{buySignals},
		AlertsFailed:   promCounter{alertsFailed},
	}

	return &Prometheus{
		Metrics:        m,
		registry:       registry,
		scansCompleted: scansCompleted,
		tickersScanned: tickersScanned,
		tickersSkipped: tickersSkipped,
		fetchFailures:  fetchFailures,
		buySignals:     buySignals,
		alertsFailed:   alertsFailed,
	}
}

func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}

// WriteTextfile dumps the registry in the node_exporter textfile format.
func (p *Prometheus) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, p.registry)
}
