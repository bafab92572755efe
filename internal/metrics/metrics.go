package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Search outcomes.
const (
	OutcomeFound      = "found"
	OutcomeNoPath     = "no_path"
	OutcomeNoMatch    = "no_match"
	OutcomeInvalid    = "invalid"
	OutcomeError      = "error"
	OutcomeHintOK     = "ok"
	OutcomeHintEmpty  = "empty"
	OutcomeHintFailed = "failed"
)

var (
	SearchRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "warmpath_search_requests_total",
			Help: "Introduction-path searches by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)

	SearchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "warmpath_search_duration_seconds",
			Help:    "End-to-end search latency including the network load",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	PathsEnumerated = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "warmpath_paths_enumerated",
		Help:    "Candidate paths produced by the enumerator per search",
		Buckets: prometheus.ExponentialBuckets(1, 4, 8),
	})

	GraphNodes = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "warmpath_graph_nodes",
		Help:    "Nodes in the per-request graph",
		Buckets: prometheus.ExponentialBuckets(1, 4, 8),
	})

	GraphEdges = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "warmpath_graph_edges",
		Help:    "Edges in the per-request graph",
		Buckets: prometheus.ExponentialBuckets(1, 4, 8),
	})

	HintExtractions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "warmpath_hint_extractions_total",
			Help: "Calls to the description hint extractor by outcome",
		},
		[]string{"outcome"},
	)

	IngestedRecords = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "warmpath_ingested_records_total",
			Help: "Records written by bulk ingestion",
		},
		[]string{"kind"},
	)
)

// ObserveSearch records one finished search.
func ObserveSearch(operation, outcome string, started time.Time) {
	SearchRequests.WithLabelValues(operation, outcome).Inc()
	SearchDuration.WithLabelValues(operation).Observe(time.Since(started).Seconds())
}

// ObserveGraph records the size of a built graph and how many paths it produced.
func ObserveGraph(nodes, edges, paths int) {
	GraphNodes.Observe(float64(nodes))
	GraphEdges.Observe(float64(edges))
	PathsEnumerated.Observe(float64(paths))
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
