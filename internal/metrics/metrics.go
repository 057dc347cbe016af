package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the portal's Prometheus collectors.
type Metrics struct {
	Operations  *prometheus.CounterVec
	RateLimited prometheus.Counter
	LiveClients prometheus.GaugeFunc
}

// New registers collectors on reg. liveClients may be nil.
func New(reg prometheus.Registerer, liveClients func() float64) *Metrics {
	m := &Metrics{
		Operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "portal",
			Subsystem: "attendance",
			Name:      "operations_total",
			Help:      "Attendance register operations by outcome.",
		}, []string{"op", "outcome"}),
		RateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "portal",
			Subsystem: "http",
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the rate limiter.",
		}),
	}
	reg.MustRegister(m.Operations, m.RateLimited)
	if liveClients != nil {
		m.LiveClients = prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "portal",
			Subsystem: "live",
			Name:      "clients",
			Help:      "Connected dashboard websockets.",
		}, liveClients)
		reg.MustRegister(m.LiveClients)
	}
	return m
}

// Record implements attendance.Recorder.
func (m *Metrics) Record(op, outcome string) {
	m.Operations.WithLabelValues(op, outcome).Inc()
}
