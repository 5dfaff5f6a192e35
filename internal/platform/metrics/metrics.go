package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "league_sheets"

// Registry owns the service collectors. Each instance has its own prometheus
// registry so tests can build as many as they like.
type Registry struct {
	reg *prometheus.Registry

	cacheLookups   *prometheus.CounterVec
	cacheRefreshes *prometheus.CounterVec
	sheetFetches   *prometheus.CounterVec
	sheetDuration  *prometheus.HistogramVec
	breakerState   *prometheus.GaugeVec
}

func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Registry{
		reg: reg,
		cacheLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_lookups_total",
				Help:      "Cache lookups by dataset and outcome (fresh, stale, miss).",
			},
			[]string{"dataset", "outcome"},
		),
		cacheRefreshes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_refreshes_total",
				Help:      "Background refreshes by dataset and result.",
			},
			[]string{"dataset", "result"},
		),
		sheetFetches: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "sheet_fetches_total",
				Help:      "Google Sheets loads by result.",
			},
			[]string{"result"},
		),
		sheetDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "sheet_fetch_duration_seconds",
				Help:      "Duration of Google Sheets loads.",
				Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"result"},
		),
		breakerState: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "sheet_circuit_state",
				Help:      "1 for the current Google Sheets circuit breaker state, 0 otherwise.",
			},
			[]string{"state"},
		),
	}
}

func (r *Registry) CacheLookup(dataset, outcome string) {
	r.cacheLookups.WithLabelValues(dataset, outcome).Inc()
}

func (r *Registry) CacheRefresh(dataset, result string) {
	r.cacheRefreshes.WithLabelValues(dataset, result).Inc()
}

func (r *Registry) SheetFetch(result string, elapsed time.Duration) {
	r.sheetFetches.WithLabelValues(result).Inc()
	r.sheetDuration.WithLabelValues(result).Observe(elapsed.Seconds())
}

var breakerStates = []string{"closed", "open", "half_open"}

func (r *Registry) SheetBreakerState(state string) {
	for _, s := range breakerStates {
		v := 0.0
		if s == state {
			v = 1
		}
		r.breakerState.WithLabelValues(s).Set(v)
	}
}

// Handler serves the registry in the Prometheus text format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{Registry: r.reg})
}

// Gatherer exposes the underlying registry for tests.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.reg
}
