package refinement

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Operation names used as metric labels.
const (
	OperationRefine      = "refine"
	OperationQuestions   = "questions"
	OperationSuggestions = "suggestions"
)

// Metrics records provider calls, fallbacks and cache hits. A nil *Metrics
// is valid and records nothing.
type Metrics struct {
	providerRequests *prometheus.CounterVec
	providerLatency  *prometheus.HistogramVec
	fallbacks        *prometheus.CounterVec
	cacheHits        *prometheus.CounterVec
}

// NewMetrics creates the refinement collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		providerRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "promptoid",
			Name:      "provider_requests_total",
			Help:      "Generative model requests by operation and outcome.",
		}, []string{"operation", "outcome"}),
		providerLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "promptoid",
			Name:      "provider_request_duration_seconds",
			Help:      "Generative model request latency by operation.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		fallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "promptoid",
			Name:      "refinement_fallbacks_total",
			Help:      "Responses served from fallback content by operation and reason.",
		}, []string{"operation", "reason"}),
		cacheHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "promptoid",
			Name:      "refinement_cache_hits_total",
			Help:      "Question and suggestion sets served from cache.",
		}, []string{"operation"}),
	}

	for _, c := range []prometheus.Collector{m.providerRequests, m.providerLatency, m.fallbacks, m.cacheHits} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) observeCall(operation string, start time.Time, err error) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = string(Classify(err).Kind)
	}
	m.providerRequests.WithLabelValues(operation, outcome).Inc()
	m.providerLatency.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

func (m *Metrics) fallback(operation string, reason ErrorKind) {
	if m == nil {
		return
	}
	m.fallbacks.WithLabelValues(operation, string(reason)).Inc()
}

func (m *Metrics) cacheHit(operation string) {
	if m == nil {
		return
	}
	m.cacheHits.WithLabelValues(operation).Inc()
}
