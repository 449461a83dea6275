// Package metrics exposes the service's Prometheus collectors.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "tweetscore"

// Cache lookup outcomes.
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)

// Collectors holds every metric the service records. A nil *Collectors is
// valid and records nothing.
type Collectors struct {
	registry *prometheus.Registry

	analyses       *prometheus.CounterVec
	scores         prometheus.Histogram
	cache          *prometheus.CounterVec
	upstream       *prometheus.CounterVec
	historySyncs   *prometheus.CounterVec
	generations    *prometheus.CounterVec
	httpRequests   *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
	storedProfiles prometheus.Gauge
}

// New builds the collectors on a private registry, together with the Go
// runtime and process collectors.
func New() (*Collectors, error) {
	c := &Collectors{
		registry: prometheus.NewRegistry(),
		analyses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analyses_total",
			Help:      "Posts scored, split by whether the quality gate fired.",
		}, []string{"gated"}),
		scores: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "analysis_score",
			Help:      "Distribution of final post scores.",
			Buckets:   prometheus.LinearBuckets(0, 10, 11),
		}),
		cache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_requests_total",
			Help:      "Analysis cache lookups by outcome.",
		}, []string{"result"}),
		upstream: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_requests_total",
			Help:      "Outbound collaborator calls by source and outcome.",
		}, []string{"source", "outcome"}),
		historySyncs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "history_syncs_total",
			Help:      "Profile history refreshes by outcome.",
		}, []string{"outcome"}),
		generations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generations_total",
			Help:      "Text generation calls by provider and outcome.",
		}, []string{"provider", "outcome"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of inbound HTTP requests.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Latency distribution for inbound HTTP requests.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		storedProfiles: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "stored_profiles",
			Help:      "Number of stored profiles.",
		}),
	}

	for _, col := range []prometheus.Collector{
		c.analyses, c.scores, c.cache, c.upstream, c.historySyncs, c.generations,
		c.httpRequests, c.httpDuration, c.storedProfiles,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	} {
		if err := c.registry.Register(col); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// Handler returns an HTTP handler exposing the registry.
func (c *Collectors) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (c *Collectors) Registry() *prometheus.Registry {
	return c.registry
}

// ObserveAnalysis records one scored post.
func (c *Collectors) ObserveAnalysis(score float64, gated bool) {
	if c == nil {
		return
	}
	c.analyses.WithLabelValues(strconv.FormatBool(gated)).Inc()
	c.scores.Observe(score)
}

// CacheLookup records an analysis cache lookup outcome.
func (c *Collectors) CacheLookup(result string) {
	if c == nil {
		return
	}
	c.cache.WithLabelValues(result).Inc()
}

// UpstreamCall records an outbound call. A nil err counts as success.
func (c *Collectors) UpstreamCall(source string, err error) {
	if c == nil {
		return
	}
	c.upstream.WithLabelValues(source, outcome(err)).Inc()
}

// HistorySync records one profile refresh.
func (c *Collectors) HistorySync(err error) {
	if c == nil {
		return
	}
	c.historySyncs.WithLabelValues(outcome(err)).Inc()
}

// Generation records one text generation call.
func (c *Collectors) Generation(provider string, err error) {
	if c == nil {
		return
	}
	c.generations.WithLabelValues(provider, outcome(err)).Inc()
}

// SetStoredProfiles sets the stored profile gauge.
func (c *Collectors) SetStoredProfiles(n int) {
	if c == nil {
		return
	}
	c.storedProfiles.Set(float64(n))
}

// ObserveHTTP records one served request. route is the matched route
// pattern, never the raw path.
func (c *Collectors) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
