package metrics

type Counter interface {
	Inc()
}

type Metrics struct {
	ScansCompleted Counter
	TickersScanned Counter
	TickersSkipped Counter
	FetchFailures  Counter
	BuySignals     Counter
	AlertsFailed   Counter
}

type noopCounter struct{}

func (noopCounter) Inc() {}

func NewNoop() *Metrics {
	n := noopCounter{}
	return &Metrics{
		ScansCompleted: n,
		TickersScanned: n,
		TickersSkipped: n,
		FetchFailures:  n,
		BuySignals:     n,
		AlertsFailed:   n,
	}
}
