// Package dbstats exposes prometheus counters for the outcomes of a
// Database.Get call and for the table-reader cache's hit/miss rate.
// Nothing in this module starts an HTTP server or registers these
// collectors automatically; an embedding process registers Stats (or
// its own *Stats) with its own prometheus.Registerer.
package dbstats

import "github.com/prometheus/client_golang/prometheus"

// Stats is a self-contained set of collectors for one Database. It is
// safe for concurrent use by multiple Get calls.
type Stats struct {
	GetsTotal        *prometheus.CounterVec
	CacheLookupTotal *prometheus.CounterVec
}

// NewStats builds a fresh, unregistered Stats value.
func NewStats() *Stats {
	return &Stats{
		GetsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ldbkv",
			Name:      "gets_total",
			Help:      "Total Database.Get calls, partitioned by outcome.",
		}, []string{"outcome"}),
		CacheLookupTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ldbkv",
			Name:      "table_cache_lookups_total",
			Help:      "Total table-reader cache lookups, partitioned by hit/miss.",
		}, []string{"result"}),
	}
}

// MustRegister registers every collector in s with reg, panicking on
// a duplicate-registration error — the same convention the teacher's
// prometheus/client_golang dependency expects for process-lifetime
// collectors.
func (s *Stats) MustRegister(reg prometheus.Registerer) {
	reg.MustRegister(s.GetsTotal, s.CacheLookupTotal)
}

// ObserveGet records the outcome of one Database.Get call.
func (s *Stats) ObserveGet(outcome string) {
	if s == nil {
		return
	}
	s.GetsTotal.WithLabelValues(outcome).Inc()
}

// ObserveCacheLookup records a table-reader cache hit or miss.
func (s *Stats) ObserveCacheLookup(hit bool) {
	if s == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	s.CacheLookupTotal.WithLabelValues(result).Inc()
}
