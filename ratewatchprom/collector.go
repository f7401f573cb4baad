// Package ratewatchprom provides Prometheus metrics for ratewatch estimators.
package ratewatchprom

import (
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ratewatch-go/ratewatch"
)

// Collector exposes the output vector of one monitored signal as Prometheus
// gauges. The host pushes each Process result into the Collector via Observe,
// so scrapes never touch the estimator itself, which is not concurrency safe.
// Rate and time-to-limit gauges may carry NaN or infinite values, matching
// the estimator's degenerate fit reporting.
//
// This type is concurrency safe.
type Collector struct {
	sampleCount *prometheus.Desc
	rate        *prometheus.Desc
	timeToLimit *prometheus.Desc

	mtx  sync.Mutex
	last ratewatch.Result
	seen bool
}

var _ prometheus.Collector = &Collector{}

// NewCollector creates a Collector for the named signal.
func NewCollector(signal string) *Collector {
	labels := prometheus.Labels{"signal": signal}
	return &Collector{
		sampleCount: prometheus.NewDesc(
			"ratewatch_samples",
			"Number of samples retained in the estimator history.",
			nil, labels),
		rate: prometheus.NewDesc(
			"ratewatch_rate",
			"Estimated rate of change of the monitored signal.",
			[]string{"window"}, labels),
		timeToLimit: prometheus.NewDesc(
			"ratewatch_time_to_limit",
			"Projected time until the monitored signal reaches the window's threshold.",
			[]string{"window"}, labels),
	}
}

// Observe records the result of one update for the next scrape.
func (c *Collector) Observe(result ratewatch.Result) {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	c.last = result
	c.seen = true
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.sampleCount
	ch <- c.rate
	ch <- c.timeToLimit
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.mtx.Lock()
	last, seen := c.last, c.seen
	c.mtx.Unlock()
	if !seen {
		return
	}

	ch <- prometheus.MustNewConstMetric(c.sampleCount, prometheus.GaugeValue, float64(last.SampleCount))
	for i, est := range last.Estimates {
		window := strconv.Itoa(i)
		ch <- prometheus.MustNewConstMetric(c.rate, prometheus.GaugeValue, est.Rate, window)
		ch <- prometheus.MustNewConstMetric(c.timeToLimit, prometheus.GaugeValue, est.TimeToLimit, window)
	}
}
