// Package metrics collects and exposes Prometheus metrics for the
// tracking engine.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector implements the tracking engine's Metrics interface.
type Collector struct {
	registry         *prometheus.Registry
	warningsSent     prometheus.Counter
	sessionsFinished prometheus.Counter
	dispatchFailures *prometheus.CounterVec
	tickDuration     prometheus.Histogram
	activeVisitors   prometheus.Gauge
}

// NewCollector creates a Collector with its own registry and registers
// the tracking metrics on it.
func NewCollector() *Collector {
	reg := prometheus.NewRegistry()
	c := &Collector{
		registry: reg,
		warningsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "parketres_warnings_sent_total",
			Help: "Number of 5-minute warnings dispatched.",
		}),
		sessionsFinished: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "parketres_sessions_finished_total",
			Help: "Number of sessions ended by the poller.",
		}),
		dispatchFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "parketres_dispatch_failures_total",
			Help: "Notification dispatch failures by effect kind.",
		}, []string{"kind"}),
		tickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "parketres_poller_tick_seconds",
			Help:    "Duration of one poller evaluation pass.",
			Buckets: prometheus.DefBuckets,
		}),
		activeVisitors: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "parketres_active_visitors",
			Help: "Visitors currently in ACTIVE state.",
		}),
	}
	reg.MustRegister(c.warningsSent, c.sessionsFinished, c.dispatchFailures, c.tickDuration, c.activeVisitors)
	return c
}

func (c *Collector) ObserveTick(d time.Duration) { c.tickDuration.Observe(d.Seconds()) }
func (c *Collector) IncWarningSent() { c.warningsSent.Inc() }
func (c *Collector) IncSessionFinished() { c.sessionsFinished.Inc() }
func (c *Collector) IncDispatchFailure(kind string) { c.dispatchFailures.WithLabelValues(kind).Inc() }
func (c *Collector) SetActiveVisitors(n int) { c.activeVisitors.Set(float64(n)) }

// Handler returns the /metrics HTTP handler for this collector's registry.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
