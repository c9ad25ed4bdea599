package oracle

import "github.com/prometheus/client_golang/prometheus"

// metrics bundles the oracle's Prometheus counters. Modeled on the
// shardcache metrics adapter: one struct of pre-registered collectors,
// constructed once and passed around by reference.
type metrics struct {
	queriesTotal              prometheus.Counter
	noRouteTotal              prometheus.Counter
	reservationOverflowTotal  prometheus.Counter
	reservationUnderflowTotal prometheus.Counter
	cacheFastPathTotal        prometheus.Counter
	cacheSlowPathTotal        prometheus.Counter
}

const (
	metricsNamespace = "oracle"
)

func newMetrics(reg prometheus.Registerer) *metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &metrics{
		queriesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "queries_total",
			Help:      "Total number of getroutes queries served.",
		}),
		noRouteTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "no_route_total",
			Help:      "Total number of getroutes queries that found no usable route.",
		}),
		reservationOverflowTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "reservation_overflow_total",
			Help:      "Total number of reserve calls that stopped on an overflowing hop.",
		}),
		reservationUnderflowTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "reservation_underflow_total",
			Help:      "Total number of unreserve calls that stopped on an underflowing hop.",
		}),
		cacheFastPathTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "capacity_cache_fastpath_total",
			Help:      "Total number of Bounds calls resolved via the fp16 capacity cache.",
		}),
		cacheSlowPathTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "capacity_cache_slowpath_total",
			Help:      "Total number of Bounds calls that fell through to the layer/capacity fold.",
		}),
	}
	reg.MustRegister(
		m.queriesTotal,
		m.noRouteTotal,
		m.reservationOverflowTotal,
		m.reservationUnderflowTotal,
		m.cacheFastPathTotal,
		m.cacheSlowPathTotal,
	)
	return m
}

// IncFastPath and IncSlowPath satisfy routequery.Metrics, letting
// ConstraintEngine report capacity-cache hit/miss counts directly
// through the same *metrics the rest of the oracle uses.
func (m *metrics) IncFastPath() { m.cacheFastPathTotal.Inc() }
func (m *metrics) IncSlowPath() { m.cacheSlowPathTotal.Inc() }
