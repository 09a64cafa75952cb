package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type ListingMetrics struct {
	walksTotal         *prometheus.CounterVec
	walkDuration       prometheus.Histogram
	skippedNodesTotal  *prometheus.CounterVec
	cacheLookupsTotal  *prometheus.CounterVec
	cacheEntries       prometheus.Gauge
	cacheFetchedAt     prometheus.Gauge
	invalidationsTotal prometheus.Counter
	downloadsTotal     *prometheus.CounterVec
}

var (
	listingMetrics *ListingMetrics
	once           sync.Once
)

func GetListingMetrics() *ListingMetrics {
	once.Do(func() {
		listingMetrics = &ListingMetrics{
			walksTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystemRemote,
				Name:      "walks_total",
				Help:      "Number of directory tree walks against the remote API, by outcome.",
			}, []string{"outcome"}),
			walkDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystemRemote,
				Name:      "walk_duration_seconds",
				Help:      "Time it took to walk the complete directory tree.",
				Buckets:   prometheus.ExponentialBuckets(0.1, 2, 10),
			}),
			skippedNodesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystemRemote,
				Name:      "skipped_nodes_total",
				Help:      "Directories whose subtree could not be listed, by reason.",
			}, []string{"reason"}),
			cacheLookupsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystemCache,
				Name:      "lookups_total",
				Help:      "Listing requests answered from the cache (hit) or by walking the remote tree (miss).",
			}, []string{"result"}),
			cacheEntries: prometheus.NewGauge(prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystemCache,
				Name:      "entries",
				Help:      "Number of files in the current snapshot.",
			}),
			cacheFetchedAt: prometheus.NewGauge(prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystemCache,
				Name:      "fetched_at_seconds",
				Help:      "Unix timestamp of the current snapshot, 0 if there is none.",
			}),
			invalidationsTotal: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystemCache,
				Name:      "invalidations_total",
				Help:      "Number of explicit cache invalidations.",
			}),
			downloadsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystemDownloads,
				Name:      "total",
				Help:      "Proxied file downloads, by the status code handed to the client.",
			}, []string{"code"}),
		}

		registry.MustRegister(listingMetrics.walksTotal)
		registry.MustRegister(listingMetrics.walkDuration)
		registry.MustRegister(listingMetrics.skippedNodesTotal)
		registry.MustRegister(listingMetrics.cacheLookupsTotal)
		registry.MustRegister(listingMetrics.cacheEntries)
		registry.MustRegister(listingMetrics.cacheFetchedAt)
		registry.MustRegister(listingMetrics.invalidationsTotal)
		registry.MustRegister(listingMetrics.downloadsTotal)
	})

	return listingMetrics
}

func (m *ListingMetrics) Walked(succeeded bool, duration time.Duration) {
	outcome := "failed"
	if succeeded {
		outcome = "succeeded"
		m.walkDuration.Observe(duration.Seconds())
	}
	m.walksTotal.WithLabelValues(outcome).Inc()
}

func (m *ListingMetrics) NodeSkipped(reason string) {
	m.skippedNodesTotal.WithLabelValues(reason).Inc()
}

func (m *ListingMetrics) CacheHit() {
	m.cacheLookupsTotal.WithLabelValues("hit").Inc()
}

func (m *ListingMetrics) CacheMiss() {
	m.cacheLookupsTotal.WithLabelValues("miss").Inc()
}

func (m *ListingMetrics) SnapshotReplaced(entries int, fetchedAt time.Time) {
	m.cacheEntries.Set(float64(entries))
	m.cacheFetchedAt.Set(float64(fetchedAt.Unix()))
}

func (m *ListingMetrics) Invalidated() {
	m.invalidationsTotal.Inc()
	m.cacheEntries.Set(0)
	m.cacheFetchedAt.Set(0)
}

func (m *ListingMetrics) Downloaded(statusCode int) {
	m.downloadsTotal.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}
