package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts backend requests by path and outcome.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics creates the request metrics and registers them on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rollcall",
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "Backend requests by path and outcome.",
		}, []string{"path", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "rollcall",
			Subsystem: "api",
			Name:      "request_duration_seconds",
			Help:      "Backend request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"path"}),
	}
	reg.MustRegister(m.requests, m.duration)
	return m
}

// Observe records one finished request.
func (m *Metrics) Observe(path, outcome string, elapsed time.Duration) {
	m.requests.WithLabelValues(path, outcome).Inc()
	m.duration.WithLabelValues(path).Observe(elapsed.Seconds())
}

// Requests returns the counter for path and outcome.
func (m *Metrics) Requests(path, outcome string) prometheus.Counter {
	return m.requests.WithLabelValues(path, outcome)
}

// Outcome is the outcome label for a response: "ok" for 2xx, the status
// code otherwise, "error" when no response arrived.
func Outcome(resp *http.Response, err error) string {
	switch {
	case err != nil:
		return "error"
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return "ok"
	default:
		return strconv.Itoa(resp.StatusCode)
	}
}

// InstrumentTransport returns a RoundTripper recording every request that
// passes through next. A nil next means http.DefaultTransport.
func InstrumentTransport(m *Metrics, next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	return roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		start := time.Now()
		resp, err := next.RoundTrip(req)
		m.Observe(req.URL.Path, Outcome(resp, err), time.Since(start))
		return resp, err
	})
}

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}
