package catalog

import "github.com/prometheus/client_golang/prometheus"

const (
	modeList   = "list"
	modeLookup = "lookup"

	cacheHit   = "hit"
	cacheMiss  = "miss"
	cacheError = "error"
)

type Metrics struct {
	Queries *prometheus.CounterVec
	Results prometheus.Histogram
	Cache   *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Queries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "catalog_queries_total",
				Help: "Catalog queries by mode and sort key",
			},
			[]string{"mode", "sort"},
		),
		Results: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "catalog_query_matches",
				Help:    "Items matching a list query before pagination",
				Buckets: prometheus.ExponentialBuckets(1, 2, 12),
			},
		),
		Cache: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "catalog_cache_lookups_total",
				Help: "Result cache lookups by outcome",
			},
			[]string{"result"},
		),
	}

	reg.MustRegister(m.Queries, m.Results, m.Cache)
	return m
}

func (m *Metrics) observe(q Query, res Result) {
	if m == nil {
		return
	}
	if res.ByID {
		m.Queries.WithLabelValues(modeLookup, "").Inc()
		return
	}
	m.Queries.WithLabelValues(modeList, sortLabel(q.Sort)).Inc()
	m.Results.Observe(float64(res.TotalCars))
}

func (m *Metrics) cache(outcome string) {
	if m == nil {
		return
	}
	m.Cache.WithLabelValues(outcome).Inc()
}

// sortLabel bounds label cardinality: unknown sort values share one label.
func sortLabel(k SortKey) string {
	switch k {
	case SortPriceAsc, SortPriceDesc, SortYearDesc:
		return string(k)
	default:
		return "other"
	}
}
